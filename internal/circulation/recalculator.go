package circulation

import (
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/checkout"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/user"
)

var overdueUsers = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "library_overdue_users",
	Help: "Number of users currently over the overdue limit",
})

// Summary describes one full recompute pass.
type Summary struct {
	// Users is the number of accounts visited.
	Users int
	// Changed is the number of accounts whose overdue list was rewritten.
	Changed int
	// OverLimit lists the ids of accounts over the overdue limit after the pass.
	OverLimit []string
}

// Recalculator rebuilds overdue lists from the checkout ledger.
type Recalculator struct {
	policy Policy
}

// NewRecalculator creates a Recalculator for policy.
func NewRecalculator(policy Policy) *Recalculator {
	return &Recalculator{policy: policy}
}

// RecomputeAll sets the overdue list of every account to exactly the books it has held
// since before the cutoff. Accounts with no overdue checkout get an empty list.
// Run it inside a transaction so a failure leaves every list untouched.
// The user rows are locked before the ledger is read, so a return committing
// meanwhile is either fully seen or waits for this pass.
func (r *Recalculator) RecomputeAll(db *gorm.DB, now time.Time) (Summary, error) {
	var sum Summary

	users, err := user.ListForUpdate(db)
	if err != nil {
		return sum, errors.Wrap(err, "failed to list users")
	}

	late, err := checkout.OlderThan(db, r.policy.Cutoff(now))
	if err != nil {
		return sum, errors.Wrap(err, "failed to list overdue checkouts")
	}

	overdue := make(map[string][]string, len(users))
	for _, c := range late {
		overdue[c.UserID] = append(overdue[c.UserID], c.BookISBNID)
	}

	for i := range users {
		u := &users[i]
		sum.Users++

		want := overdue[u.UserID]
		if want == nil {
			want = []string{}
		}

		if !slices.Equal([]string(u.BooksOverdue), want) {
			if err := user.SetOverdue(db, u.UserID, want); err != nil {
				return sum, errors.Wrapf(err, "failed to store overdue list of %s", u.UserID)
			}

			sum.Changed++
		}

		u.BooksOverdue = want
		if r.policy.ExceedsLimit(u) {
			sum.OverLimit = append(sum.OverLimit, u.UserID)
		}
	}

	overdueUsers.Set(float64(len(sum.OverLimit)))

	log.Debug().
		Int("users", sum.Users).
		Int("changed", sum.Changed).
		Int("over_limit", len(sum.OverLimit)).
		Msg("overdue lists recomputed")

	return sum, nil
}

// RecomputeUser rebuilds the overdue list of one account and returns it.
func (r *Recalculator) RecomputeUser(db *gorm.DB, userID string, now time.Time) ([]string, error) {
	ids, err := checkout.UserBookIDsOlderThan(db, userID, r.policy.Cutoff(now))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list overdue checkouts")
	}

	if err := user.SetOverdue(db, userID, ids); err != nil {
		return nil, errors.Wrapf(err, "failed to store overdue list of %s", userID)
	}

	return ids, nil
}
