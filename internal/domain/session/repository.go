package session

import (
	"context"
	"time"
)

type WorkSessionRepository interface {
	// Create fails with ErrWorkSessionExists on a duplicate (day, slot, category)
	Create(ctx context.Context, ws WorkSession) (WorkSession, error)
	GetByID(ctx context.Context, id string) (WorkSession, error)
	Update(ctx context.Context, ws WorkSession) error
	List(ctx context.Context, filter WorkSessionFilter) ([]WorkSession, error)
}

type RealizationRepository interface {
	// Create fails with ErrSlotAlreadyClaimed when a non-rejected claim exists for (date, work session)
	Create(ctx context.Context, r SessionRealization) (SessionRealization, error)
	GetByID(ctx context.Context, id string) (SessionRealization, error)
	// GetForUpdate locks the row until the surrounding transaction ends
	GetForUpdate(ctx context.Context, id string) (SessionRealization, error)
	UpdateReview(ctx context.Context, r SessionRealization) error
	List(ctx context.Context, filter RealizationFilter) ([]SessionRealization, int64, error)
	// ListApprovedBetween returns approved claims of one employee with from <= date <= to,
	// each with its WorkSession populated
	ListApprovedBetween(ctx context.Context, employeeID string, from, to time.Time) ([]SessionRealization, error)
}
