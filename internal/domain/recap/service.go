package recap

import (
	"context"
	"io"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/period"
)

type RecapService interface {
	Aggregate(ctx context.Context, actor user.Actor, req AggregateRequest) (RecapResponse, error)
	AggregateAll(ctx context.Context, actor user.Actor, req AggregateAllRequest) (AggregateAllResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (RecapResponse, error)
	List(ctx context.Context, actor user.Actor, filter RecapFilter) ([]RecapResponse, error)
	// Export writes the period's recaps as an XLSX workbook
	Export(ctx context.Context, actor user.Actor, p period.Period, w io.Writer) error
}
