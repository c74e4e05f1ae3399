package leave

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindLeave      Kind = "leave"
	KindPermission Kind = "permission"
	KindSick       Kind = "sick"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindLeave, KindPermission, KindSick:
		return true
	}
	return false
}

type LeaveRequestStatus string

const (
	StatusSubmitted             LeaveRequestStatus = "submitted"
	StatusApproved              LeaveRequestStatus = "approved"
	StatusRejected              LeaveRequestStatus = "rejected"
	StatusCancellationRequested LeaveRequestStatus = "cancellation_requested"
	StatusCancelled             LeaveRequestStatus = "cancelled"
)

func (s LeaveRequestStatus) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

type Action string

const (
	ActionApprove             Action = "approve"
	ActionReject              Action = "reject"
	ActionSelfCancel          Action = "self_cancel"
	ActionRequestCancellation Action = "request_cancellation"
	ActionApproveCancellation Action = "approve_cancellation"
	ActionRejectCancellation  Action = "reject_cancellation"
)

// transitions is the complete leave request state machine.
var transitions = map[LeaveRequestStatus]map[Action]LeaveRequestStatus{
	StatusSubmitted: {
		ActionApprove:    StatusApproved,
		ActionReject:     StatusRejected,
		ActionSelfCancel: StatusCancelled,
	},
	StatusApproved: {
		ActionRequestCancellation: StatusCancellationRequested,
	},
	StatusCancellationRequested: {
		ActionApproveCancellation: StatusCancelled,
		ActionRejectCancellation:  StatusApproved,
	},
	StatusRejected:  {},
	StatusCancelled: {},
}

// Next returns the state reached by applying a from s, or ErrInvalidTransition.
func (s LeaveRequestStatus) Next(a Action) (LeaveRequestStatus, error) {
	next, ok := transitions[s][a]
	if !ok {
		return s, fmt.Errorf("%w: cannot %s a request in status '%s'", ErrInvalidTransition, a, s)
	}
	return next, nil
}

// RequiresOwner reports whether only the requesting employee may apply a.
func (a Action) RequiresOwner() bool {
	return a == ActionSelfCancel || a == ActionRequestCancellation
}

// LeaveRequest is a one-day request to be excused from work.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Kind       Kind
	Status     LeaveRequestStatus
	Note       *string

	ApprovedBy   *string
	DecisionNote *string
	DecidedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Apply moves the request through action a, recording who decided it.
// Owner-only actions leave ApprovedBy untouched.
func (r *LeaveRequest) Apply(a Action, actorEmployeeID string, note *string, at time.Time) error {
	next, err := r.Status.Next(a)
	if err != nil {
		return err
	}
	r.Status = next
	if !a.RequiresOwner() {
		r.ApprovedBy = &actorEmployeeID
		r.DecidedAt = &at
	}
	if note != nil {
		r.DecisionNote = note
	}
	r.UpdatedAt = at
	return nil
}
