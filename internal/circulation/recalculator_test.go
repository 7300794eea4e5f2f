package circulation

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/checkout"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/user"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")
	require.NoError(t, db.Create(&[]models.Role{{RoleID: 1, RoleName: "librarian"}, {RoleID: 2, RoleName: "student"}}).Error)

	return db
}

func addUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, user.Create(db, &models.User{RoleID: 2, UserID: id, UserName: "name-" + id, PasswordHash: "x", Active: true}))
}

func addCheckout(t *testing.T, db *gorm.DB, userID, bookID string, age time.Duration) {
	t.Helper()
	require.NoError(t, db.Create(&models.Book{BookISBNID: userID + bookID, Title: "t", Author: "a", TotalBookCount: 1}).Error)

	_, err := checkout.Create(db, userID, userID+bookID, now.Add(-age))
	require.NoError(t, err)
}

func overdueOf(t *testing.T, db *gorm.DB, id string) []string {
	t.Helper()

	u, err := user.Get(db, id)
	require.NoError(t, err)

	return []string(u.BooksOverdue)
}

const day = 24 * time.Hour

func TestRecomputeAllThirtyFiveDays(t *testing.T) {
	db := setupTestDB(t)
	addUser(t, db, "123456789")
	require.NoError(t, db.Create(&models.Book{BookISBNID: "ISBN1", Title: "t", Author: "a", TotalBookCount: 1}).Error)

	_, err := checkout.Create(db, "123456789", "ISBN1", now.Add(-35*day))
	require.NoError(t, err)

	r := NewRecalculator(NewPolicy(1, 3))

	sum, err := r.RecomputeAll(db, now)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Users)
	assert.Equal(t, 1, sum.Changed)
	assert.Empty(t, sum.OverLimit)
	assert.Equal(t, []string{"ISBN1"}, overdueOf(t, db, "123456789"))
}

func TestRecomputeAllIsExact(t *testing.T) {
	db := setupTestDB(t)
	r := NewRecalculator(NewPolicy(1, 3))

	addUser(t, db, "100000001")
	addUser(t, db, "100000002")
	addUser(t, db, "100000003")

	// 100000001 holds two old books and one fresh book.
	addCheckout(t, db, "100000001", "-a", 40*day)
	addCheckout(t, db, "100000001", "-b", 60*day)
	addCheckout(t, db, "100000001", "-c", 2*day)

	// 100000002 holds four old books.
	for _, b := range []string{"-a", "-b", "-c", "-d"} {
		addCheckout(t, db, "100000002", b, 90*day)
	}

	// 100000003 carries a stale entry and holds nothing.
	require.NoError(t, user.SetOverdue(db, "100000003", []string{"gone"}))

	sum, err := r.RecomputeAll(db, now)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Users)
	assert.Equal(t, 3, sum.Changed)
	assert.Equal(t, []string{"100000002"}, sum.OverLimit)
	assert.InDelta(t, 1, testutil.ToFloat64(overdueUsers), 0)

	assert.Equal(t, []string{"100000001-a", "100000001-b"}, overdueOf(t, db, "100000001"))
	assert.Len(t, overdueOf(t, db, "100000002"), 4)
	assert.Empty(t, overdueOf(t, db, "100000003"), "stale entries are cleared")

	// A second pass at the same instant changes nothing.
	sum, err = r.RecomputeAll(db, now)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Changed)
}

func TestRecomputeUser(t *testing.T) {
	db := setupTestDB(t)
	r := NewRecalculator(NewPolicy(1, 3))

	addUser(t, db, "100000001")
	addUser(t, db, "100000002")
	addCheckout(t, db, "100000001", "-a", 40*day)
	addCheckout(t, db, "100000002", "-a", 40*day)

	ids, err := r.RecomputeUser(db, "100000001", now)
	require.NoError(t, err)
	assert.Equal(t, []string{"100000001-a"}, ids)
	assert.Equal(t, ids, overdueOf(t, db, "100000001"))
	assert.Empty(t, overdueOf(t, db, "100000002"), "other accounts are untouched")

	require.NoError(t, checkout.Delete(db, "100000001", "100000001-a"))

	ids, err = r.RecomputeUser(db, "100000001", now)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, overdueOf(t, db, "100000001"))
}

func TestRecomputeAllRollsBackInsideTransaction(t *testing.T) {
	db := setupTestDB(t)
	r := NewRecalculator(NewPolicy(1, 3))

	addUser(t, db, "100000001")
	addCheckout(t, db, "100000001", "-a", 40*day)
	require.NoError(t, user.SetOverdue(db, "100000001", datatypes.JSONSlice[string]{}))

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := r.RecomputeAll(tx, now); err != nil {
			return err
		}

		return gorm.ErrInvalidTransaction
	})
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)
	assert.Empty(t, overdueOf(t, db, "100000001"))
}
