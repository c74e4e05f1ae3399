package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/recap"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

// SystemActor is the identity scheduled jobs act as.
var SystemActor = user.NewActor("system", "", user.RoleAdmin)

// RecapRefreshJob re-aggregates the current month's recap for every active
// employee, so dashboards see attendance and approvals without a manual run.
func RecapRefreshJob(svc recap.RecapService, now func() time.Time, logger *slog.Logger) func(ctx context.Context) error {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) error {
		p := period.Of(now())
		res, err := svc.AggregateAll(ctx, SystemActor, recap.AggregateAllRequest{Period: p.String()})
		if err != nil {
			return fmt.Errorf("refreshing recaps for %s: %w", p, err)
		}
		logger.InfoContext(ctx, "recaps refreshed", "period", p.String(), "count", len(res.Recaps))
		return nil
	}
}
