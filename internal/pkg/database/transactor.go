package database

import "context"

// Transactor runs fn inside one unit of work. Repositories called with the
// ctx passed to fn take part in it; any error from fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// WithinSnapshot is WithinTransaction where every read in fn sees the
	// same committed state. fn may run more than once, so it must not have
	// side effects outside the repositories. Nested calls join the outer
	// unit of work at its isolation level.
	WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
