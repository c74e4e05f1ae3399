package session

import "github.com/cmlabs-hris/hris-payroll-go/internal/pkg/apperror"

var (
	// Work session templates
	ErrWorkSessionNotFound = apperror.NotFound("WORK_SESSION_NOT_FOUND", "work session not found")
	ErrWorkSessionExists   = apperror.Conflict("WORK_SESSION_EXISTS", "a work session with this day, slot and category already exists")
	ErrWorkSessionInactive = apperror.State("WORK_SESSION_INACTIVE", "work session is not active")

	// Realizations
	ErrRealizationNotFound = apperror.NotFound("SESSION_REALIZATION_NOT_FOUND", "session realization not found")
	ErrSlotAlreadyClaimed  = apperror.Conflict("SLOT_ALREADY_CLAIMED", "this work session has already been claimed for the date")
	ErrDateDayMismatch     = apperror.State("DATE_DAY_MISMATCH", "date does not fall on the work session's day of week")
	ErrInvalidTransition   = apperror.State("INVALID_SESSION_TRANSITION", "session realization cannot make this transition")
	ErrReviewNoteRequired  = apperror.Validation("REVIEW_NOTE_REQUIRED", "a note is required when rejecting a claim")
	ErrSelfApproval        = apperror.Forbidden("SELF_APPROVAL", "approvers cannot review their own claims")
)
