package leave

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"

var (
	ErrLeaveRequestNotFound = apperror.NotFound("LEAVE_REQUEST_NOT_FOUND", "leave request not found")
	ErrDuplicateLeave       = apperror.Conflict("DUPLICATE_LEAVE", "a leave request already exists for this date")
	ErrInvalidTransition    = apperror.State("INVALID_LEAVE_TRANSITION", "leave request cannot make this transition")
	ErrNotRequestOwner      = apperror.Forbidden("NOT_REQUEST_OWNER", "only the requesting employee can perform this action")
	ErrSelfApproval         = apperror.Forbidden("SELF_APPROVAL", "approvers cannot decide their own leave requests")
)
