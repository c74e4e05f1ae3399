package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	transactor   database.Transactor
	leaveRepo    leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	marker       attendance.LeaveMarker
	now          func() time.Time
}

func NewLeaveService(
	transactor database.Transactor,
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	marker attendance.LeaveMarker,
) leave.LeaveService {
	return &LeaveServiceImpl{
		transactor:   transactor,
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		marker:       marker,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, actor user.Actor, req leave.SubmitLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := actor.RequireSelfOr(req.EmployeeID, user.PermissionLeaveRequest, user.PermissionLeaveApprove); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !emp.IsActive() {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	var created leave.LeaveRequest
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.leaveRepo.Create(ctx, leave.LeaveRequest{
			EmployeeID: req.EmployeeID,
			Date:       req.ParsedDate(),
			Kind:       leave.Kind(req.Kind),
			Status:     leave.StatusSubmitted,
			Note:       req.Note,
		})
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to submit leave request: %w", err)
	}

	slog.InfoContext(ctx, "leave request submitted", "leave_request_id", created.ID, "employee_id", created.EmployeeID, "kind", created.Kind)
	return leave.ToResponse(created), nil
}

// Approve implements leave.LeaveService. The attendance day becomes leave.
func (s *LeaveServiceImpl) Approve(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, actor, req, leave.ActionApprove, func(ctx context.Context, r leave.LeaveRequest) error {
		return s.marker.MarkLeave(ctx, r.EmployeeID, r.Date)
	})
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, actor, req, leave.ActionReject, nil)
}

// SelfCancel implements leave.LeaveService.
func (s *LeaveServiceImpl) SelfCancel(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, actor, req, leave.ActionSelfCancel, nil)
}

// RequestCancellation implements leave.LeaveService. Attendance stays as is
// until the cancellation is approved.
func (s *LeaveServiceImpl) RequestCancellation(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, actor, req, leave.ActionRequestCancellation, nil)
}

// ApproveCancellation implements leave.LeaveService.
func (s *LeaveServiceImpl) ApproveCancellation(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, actor, req, leave.ActionApproveCancellation, func(ctx context.Context, r leave.LeaveRequest) error {
		return s.marker.ClearLeave(ctx, r.EmployeeID, r.Date)
	})
}

// RejectCancellation implements leave.LeaveService.
func (s *LeaveServiceImpl) RejectCancellation(ctx context.Context, actor user.Actor, req leave.DecisionRequest) (leave.LeaveRequestResponse, error) {
	return s.transition(ctx, actor, req, leave.ActionRejectCancellation, nil)
}

// transition applies action under a row lock. after runs in the same
// transaction once the new status is stored.
func (s *LeaveServiceImpl) transition(
	ctx context.Context,
	actor user.Actor,
	req leave.DecisionRequest,
	action leave.Action,
	after func(ctx context.Context, r leave.LeaveRequest) error,
) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if action.RequiresOwner() {
		if err := actor.Require(user.PermissionLeaveRequest); err != nil {
			return leave.LeaveRequestResponse{}, err
		}
	} else if err := actor.Require(user.PermissionLeaveApprove); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var (
		request leave.LeaveRequest
		from    leave.LeaveRequestStatus
	)
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.leaveRepo.GetForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		if action.RequiresOwner() {
			if !actor.IsEmployee(request.EmployeeID) {
				return leave.ErrNotRequestOwner
			}
		} else if actor.IsEmployee(request.EmployeeID) {
			return leave.ErrSelfApproval
		}

		from = request.Status
		if err := request.Apply(action, actor.Ref(), req.Note, s.now()); err != nil {
			return err
		}

		if err := s.leaveRepo.UpdateStatus(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		if after != nil {
			return after(ctx, request)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.InfoContext(ctx, "leave request transitioned",
		"leave_request_id", request.ID,
		"action", action,
		"from", from,
		"to", request.Status,
		"by", actor.UserID,
	)
	return leave.ToResponse(request), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, actor user.Actor, id string) (leave.LeaveRequestResponse, error) {
	request, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := actor.RequireSelfOr(request.EmployeeID, user.PermissionLeaveViewOwn, user.PermissionLeaveViewAll); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToResponse(request), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, actor user.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if !actor.Can(user.PermissionLeaveViewAll) {
		if err := actor.Require(user.PermissionLeaveViewOwn); err != nil {
			return leave.ListLeaveRequestResponse{}, err
		}
		if actor.EmployeeID == "" {
			return leave.ListLeaveRequestResponse{}, user.ErrNotAnEmployee
		}
		filter.EmployeeID = &actor.EmployeeID
	}

	requests, total, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    int(math.Ceil(float64(total) / float64(filter.Limit))),
		LeaveRequests: make([]leave.LeaveRequestResponse, 0, len(requests)),
	}
	for _, r := range requests {
		resp.LeaveRequests = append(resp.LeaveRequests, leave.ToResponse(r))
	}
	return resp, nil
}
