package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/auth"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/circulation"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/book"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/seed"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/tx"
)

const (
	librarianID = "1234"
	day         = 24 * time.Hour
)

var (
	start      = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	testParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	librarianCheckouts = Caller{Role: auth.RoleLibrarian, Resource: auth.ResourceCheckouts, Action: auth.ActionInsert}
	studentBorrow      = Caller{Role: auth.RoleStudent, Resource: auth.ResourceCheckouts, Action: auth.ActionInsert}
	studentReturn      = Caller{Role: auth.RoleStudent, Resource: auth.ResourceCheckouts, Action: auth.ActionDelete}
	librarianActivate  = Caller{
		Role: auth.RoleLibrarian, Resource: auth.ResourceUsers, Action: auth.ActionUpdate, Column: auth.ColumnActiveStatus,
	}
	librarianInsert = Caller{Role: auth.RoleLibrarian, Resource: auth.ResourceBooks, Action: auth.ActionInsert}
	librarianDelete = Caller{Role: auth.RoleLibrarian, Resource: auth.ResourceBooks, Action: auth.ActionDelete}
	librarianUpdate = Caller{Role: auth.RoleLibrarian, Resource: auth.ResourceBooks, Action: auth.ActionUpdate}
	studentUpdate   = Caller{Role: auth.RoleStudent, Resource: auth.ResourceBooks, Action: auth.ActionUpdate}
)

// testClock is a settable clock.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(d)
}

type fixture struct {
	db    *gorm.DB
	svc   *Service
	clock *testClock
}

// setupTestDB creates an in-memory SQLite database with roles and grants.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")
	require.NoError(t, seed.Roles(db, auth.DefaultRoles()))
	require.NoError(t, seed.Grants(db, auth.DefaultGrants()))

	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)

	ledger, err := auth.NewService(db, 64)
	require.NoError(t, err)

	clock := &testClock{t: start}
	svc := New(
		tx.New(db, 10*time.Second),
		ledger,
		circulation.NewPolicy(1, 3),
		WithClock(clock.Now),
		WithPasswordParams(testParams),
	)

	return &fixture{db: db, svc: svc, clock: clock}
}

func (f *fixture) addBook(t *testing.T, id string, total, available int) {
	t.Helper()
	require.NoError(t, book.Create(f.db, &models.Book{
		BookISBNID: id, Title: "Title " + id, Author: "Author", PublishedYear: 2001,
		TotalBookCount: total, AvailableCount: available,
	}))
}

func (f *fixture) getBook(t *testing.T, id string) *models.Book {
	t.Helper()

	b, err := book.Get(f.db, id)
	require.NoError(t, err)

	return b
}

// addStudent registers a student and lets the librarian activate the account.
func (f *fixture) addStudent(t *testing.T, id, name string) {
	t.Helper()

	ctx := context.Background()

	sess, err := f.svc.SignUpOrLogin(ctx, SignUpRequest{Role: auth.RoleStudent, UserID: id, UserName: name, Password: "pw"})
	require.NoError(t, err)
	require.True(t, sess.Created)

	active := true
	require.NoError(t, f.svc.UpdateActiveStatus(ctx, librarianActivate, id, &active))
}

func ptr[T any](v T) *T {
	return &v
}
