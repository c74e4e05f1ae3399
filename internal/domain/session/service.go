package session

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type SessionService interface {
	// Templates
	CreateWorkSession(ctx context.Context, actor user.Actor, req CreateWorkSessionRequest) (WorkSessionResponse, error)
	UpdateWorkSession(ctx context.Context, actor user.Actor, req UpdateWorkSessionRequest) (WorkSessionResponse, error)
	GetWorkSession(ctx context.Context, actor user.Actor, id string) (WorkSessionResponse, error)
	ListWorkSessions(ctx context.Context, actor user.Actor, filter WorkSessionFilter) ([]WorkSessionResponse, error)

	// Claims
	Submit(ctx context.Context, actor user.Actor, req SubmitRealizationRequest) (RealizationResponse, error)
	Approve(ctx context.Context, actor user.Actor, req ReviewRequest) (RealizationResponse, error)
	Reject(ctx context.Context, actor user.Actor, req ReviewRequest) (RealizationResponse, error)
	GetRealization(ctx context.Context, actor user.Actor, id string) (RealizationResponse, error)
	ListRealizations(ctx context.Context, actor user.Actor, filter RealizationFilter) (ListRealizationResponse, error)
}
