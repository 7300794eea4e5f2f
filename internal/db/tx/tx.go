// Package tx runs store calls under a bounded timeout, optionally inside a transaction.
package tx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrTimeout is returned when a store call outlives the runner timeout. Callers may retry.
	ErrTimeout = errors.New("store call timed out")

	// ErrDBNil is returned when the runner has no database.
	ErrDBNil = errors.New("database connection is nil")
)

// Runner bounds every store call by the same timeout.
type Runner struct {
	db      *gorm.DB
	timeout time.Duration
}

// New creates a Runner. A non-positive timeout disables the bound.
func New(db *gorm.DB, timeout time.Duration) *Runner {
	return &Runner{db: db, timeout: timeout}
}

// DB returns the root handle.
func (r *Runner) DB() *gorm.DB {
	return r.db
}

// Query runs fn against a context-bound handle outside of a transaction.
func (r *Runner) Query(ctx context.Context, fn func(db *gorm.DB) error) error {
	if r.db == nil {
		return ErrDBNil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	return classify(ctx, fn(r.db.WithContext(ctx)))
}

// Run runs fn inside one transaction. Any error returned by fn, or a panic, rolls back every
// write fn made; the transaction commits only when fn returns nil.
func (r *Runner) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if r.db == nil {
		return ErrDBNil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	return classify(ctx, r.db.WithContext(ctx).Transaction(fn))
}

func (r *Runner) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, r.timeout)
}

// classify marks errors caused by the expired deadline as ErrTimeout, keeping the cause.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return err
}
