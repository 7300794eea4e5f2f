package circulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

func TestNewPolicyDefaults(t *testing.T) {
	assert.Equal(t, Policy{OverdueMonths: 1, MaxOverdueBooks: 3}, NewPolicy(0, -1))
	assert.Equal(t, Policy{OverdueMonths: 2, MaxOverdueBooks: 0}, NewPolicy(2, 0))
}

func TestCutoffUsesCalendarMonths(t *testing.T) {
	p := NewPolicy(1, 3)

	testCases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "mid month",
			now:  time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
			want: time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "march has more days than february",
			now:  time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "non utc input",
			now:  time.Date(2026, 1, 15, 2, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
			want: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.want.Equal(p.Cutoff(tc.now)), "got %s", p.Cutoff(tc.now))
		})
	}
}

func TestIsOverdue(t *testing.T) {
	p := NewPolicy(1, 3)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	assert.True(t, p.IsOverdue(now.AddDate(0, 0, -35), now))
	assert.False(t, p.IsOverdue(now.AddDate(0, 0, -29), now))
	assert.False(t, p.IsOverdue(p.Cutoff(now), now), "the cutoff instant itself is not overdue")
	assert.True(t, p.IsOverdue(p.Cutoff(now).Add(-time.Second), now))
}

func TestExceedsLimit(t *testing.T) {
	p := NewPolicy(1, 3)

	assert.False(t, p.ExceedsLimit(&models.User{BooksOverdue: datatypes.JSONSlice[string]{"a", "b", "c"}}))
	assert.True(t, p.ExceedsLimit(&models.User{BooksOverdue: datatypes.JSONSlice[string]{"a", "b", "c", "d"}}))
}
