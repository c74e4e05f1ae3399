// Package messaging publishes domain events to downstream consumers.
package messaging

import (
	"context"
	"log/slog"
	"time"
)

const (
	EventPayrollGenerated = "payroll.generated"
	EventPayrollApproved  = "payroll.approved"
	EventPayrollPaid      = "payroll.paid"
)

// Event is the envelope written to the queue.
type Event struct {
	Type       string    `json:"type"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes events to the structured log. It is used when no
// queue is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.InfoContext(ctx, "domain event",
		"event_type", event.Type,
		"event_id", event.ID,
		"occurred_at", event.OccurredAt,
		"payload", event.Payload,
	)
	return nil
}
