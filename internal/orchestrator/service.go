// Package orchestrator sequences every library request: it refreshes overdue state,
// consults the activation gate and the permission ledger, and applies the mutation
// inside one transaction.
//
// Every exported operation returns either nil or an *Error whose Kind is one of the
// error kinds of this package.
package orchestrator

import (
	"context"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/auth"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/circulation"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/tx"
)

// Authorizer answers grant queries. auth.Service implements it.
type Authorizer interface {
	IsAuthorized(db *gorm.DB, g auth.Grant) (bool, error)
}

// Service is the request orchestrator.
type Service struct {
	runner   *tx.Runner
	ledger   Authorizer
	local    *auth.LocalProvider
	recalc   *circulation.Recalculator
	gate     *circulation.Gate
	policy   circulation.Policy
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used for checkout times and overdue cutoffs.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithPasswordParams sets the Argon2id parameters for new accounts.
func WithPasswordParams(params *argon2id.Params) Option {
	return func(s *Service) {
		s.local = auth.NewLocalProvider(params)
	}
}

// New creates a Service.
func New(runner *tx.Runner, ledger Authorizer, policy circulation.Policy, opts ...Option) *Service {
	s := &Service{
		runner:   runner,
		ledger:   ledger,
		local:    auth.NewLocalProvider(nil),
		recalc:   circulation.NewRecalculator(policy),
		gate:     circulation.NewGate(policy),
		policy:   policy,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// Refresh recomputes every overdue list in its own transaction.
func (s *Service) Refresh(ctx context.Context) (circulation.Summary, error) {
	var sum circulation.Summary

	err := s.runner.Run(ctx, func(db *gorm.DB) error {
		var err error
		sum, err = s.recalc.RecomputeAll(db, s.clock())

		return err
	})
	if err != nil {
		return sum, failWith(ErrTransient, "failed to refresh overdue lists", err)
	}

	return sum, nil
}

func (s *Service) refresh(ctx context.Context) error {
	_, err := s.Refresh(ctx)
	return err
}

// authorize checks that the caller claims the operation's resource and action, and
// that the caller's role holds a grant for want's column. db is an open transaction
// or nil for a bounded query on the root handle.
func (s *Service) authorize(ctx context.Context, db *gorm.DB, caller Caller, want auth.Grant, deny string) error {
	if caller.Resource != want.Resource || caller.Action != want.Action {
		return fail(ErrPermissionDenied, deny)
	}

	want.Role = caller.Role

	check := func(db *gorm.DB) error {
		ok, err := s.ledger.IsAuthorized(db, want)
		if err != nil {
			return failWith(ErrTransient, "grant lookup failed", err)
		}

		if !ok {
			return fail(ErrPermissionDenied, deny)
		}

		return nil
	}

	if db != nil {
		return check(db)
	}

	return s.runner.Query(ctx, check)
}

// columnOr returns the caller's column scope, or def when the caller sent none.
func columnOr(c Caller, def string) string {
	if c.Column == "" {
		return def
	}

	return c.Column
}
