package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type LeaveService interface {
	Submit(ctx context.Context, actor user.Actor, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	SelfCancel(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	RequestCancellation(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	ApproveCancellation(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	RejectCancellation(ctx context.Context, actor user.Actor, req DecisionRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, actor user.Actor, id string) (LeaveRequestResponse, error)
	List(ctx context.Context, actor user.Actor, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
}
