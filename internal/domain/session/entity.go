package session

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryCoding    Category = "coding"
	CategoryNonCoding Category = "non_coding"
)

func (c Category) IsValid() bool {
	return c == CategoryCoding || c == CategoryNonCoding
}

// WorkSession is a recurring weekly slot paid at a flat rate.
type WorkSession struct {
	ID         string
	Category   Category
	DayOfWeek  time.Weekday
	SlotNumber int
	StartTime  string // HH:MM
	EndTime    string // HH:MM
	Rate       decimal.Decimal
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Matches reports whether date falls on the session's weekday.
func (w WorkSession) Matches(date time.Time) bool {
	return date.Weekday() == w.DayOfWeek
}

type RealizationStatus string

const (
	StatusSubmitted RealizationStatus = "submitted"
	StatusApproved  RealizationStatus = "approved"
	StatusRejected  RealizationStatus = "rejected"
)

func (s RealizationStatus) IsValid() bool {
	return s == StatusSubmitted || s == StatusApproved || s == StatusRejected
}

type Source string

const (
	SourceScheduled Source = "scheduled"
	SourceManual    Source = "manual"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

var transitions = map[RealizationStatus]map[Action]RealizationStatus{
	StatusSubmitted: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
	},
}

func (s RealizationStatus) Next(a Action) (RealizationStatus, error) {
	next, ok := transitions[s][a]
	if !ok {
		return s, fmt.Errorf("%w: cannot %s a claim in status '%s'", ErrInvalidTransition, a, s)
	}
	return next, nil
}

// SessionRealization is one employee's claim to a work session on a date.
type SessionRealization struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	WorkSessionID string
	Status        RealizationStatus
	Source        Source
	Note          *string

	ApprovedBy *string
	ReviewNote *string
	ReviewedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	WorkSession *WorkSession
}

// Review applies an approve or reject decision.
func (r *SessionRealization) Review(a Action, approverID string, note *string, at time.Time) error {
	if a == ActionReject && (note == nil || *note == "") {
		return ErrReviewNoteRequired
	}
	next, err := r.Status.Next(a)
	if err != nil {
		return err
	}
	r.Status = next
	r.ApprovedBy = &approverID
	r.ReviewNote = note
	r.ReviewedAt = &at
	r.UpdatedAt = at
	return nil
}
