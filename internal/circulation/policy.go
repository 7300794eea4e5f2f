// Package circulation holds the overdue policy, the overdue recalculator and the
// account activation gate.
//
// A checkout is overdue once it is older than OverdueMonths calendar months. The
// overdue list stored on each account is a projection of the checkout ledger and is
// always recomputed from it, never edited incrementally.
package circulation

import (
	"time"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

// Defaults used when a Policy field is not positive.
const (
	DefaultOverdueMonths   = 1
	DefaultMaxOverdueBooks = 3
)

// Policy is the overdue rule set.
type Policy struct {
	// OverdueMonths is the checkout age, in calendar months, past which a checkout is overdue.
	OverdueMonths int
	// MaxOverdueBooks is the largest overdue count that still allows borrowing.
	MaxOverdueBooks int
}

// NewPolicy builds a Policy, replacing non-positive months with the default.
// A negative limit is replaced too; zero is a valid limit.
func NewPolicy(months, maxOverdue int) Policy {
	if months <= 0 {
		months = DefaultOverdueMonths
	}

	if maxOverdue < 0 {
		maxOverdue = DefaultMaxOverdueBooks
	}

	return Policy{OverdueMonths: months, MaxOverdueBooks: maxOverdue}
}

// Cutoff is the instant before which a checkout made counts as overdue at now.
// Month arithmetic follows time.AddDate, so Mar 31 minus one month normalizes to Mar 3.
func (p Policy) Cutoff(now time.Time) time.Time {
	return now.UTC().AddDate(0, -p.OverdueMonths, 0)
}

// IsOverdue reports whether a checkout made at checkedOut is overdue at now.
func (p Policy) IsOverdue(checkedOut, now time.Time) bool {
	return checkedOut.Before(p.Cutoff(now))
}

// ExceedsLimit reports whether u carries more overdue books than the policy allows.
func (p Policy) ExceedsLimit(u *models.User) bool {
	return u.OverdueCount() > p.MaxOverdueBooks
}
