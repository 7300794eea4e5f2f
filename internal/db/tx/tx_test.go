package tx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

var errBoom = errors.New("boom")

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Role{}), "failed to migrate test database")

	return db
}

func countRoles(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.Role{}).Count(&n).Error)

	return n
}

func TestRunCommits(t *testing.T) {
	db := setupTestDB(t)
	r := New(db, time.Second)

	err := r.Run(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&models.Role{RoleID: 1, RoleName: "librarian"}).Error
	})

	require.NoError(t, err)
	assert.EqualValues(t, 1, countRoles(t, db))
}

func TestRunRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	r := New(db, time.Second)

	err := r.Run(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&models.Role{RoleID: 1, RoleName: "librarian"}).Error; err != nil {
			return err
		}

		return errBoom
	})

	require.ErrorIs(t, err, errBoom)
	assert.EqualValues(t, 0, countRoles(t, db))
}

func TestRunRollsBackOnPanic(t *testing.T) {
	db := setupTestDB(t)
	r := New(db, time.Second)

	assert.Panics(t, func() {
		_ = r.Run(context.Background(), func(tx *gorm.DB) error {
			tx.Create(&models.Role{RoleID: 2, RoleName: "student"})
			panic("mid-transaction failure")
		})
	})

	assert.EqualValues(t, 0, countRoles(t, db))
}

func TestTimeout(t *testing.T) {
	db := setupTestDB(t)
	r := New(db, 20*time.Millisecond)

	err := r.Query(context.Background(), func(db *gorm.DB) error {
		<-db.Statement.Context.Done()
		return db.Statement.Context.Err()
	})

	require.ErrorIs(t, err, ErrTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNilDB(t *testing.T) {
	r := New(nil, time.Second)

	require.ErrorIs(t, r.Run(context.Background(), func(*gorm.DB) error { return nil }), ErrDBNil)
	require.ErrorIs(t, r.Query(context.Background(), func(*gorm.DB) error { return nil }), ErrDBNil)
}
