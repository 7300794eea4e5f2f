package auth

import (
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

// testParams keeps hashing cheap in tests.
var testParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

// setupTestDB creates an in-memory SQLite database with the default roles and grants.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	roles := DefaultRoles()
	require.NoError(t, db.Create(&roles).Error)

	grants := DefaultGrants()
	require.NoError(t, db.Create(&grants).Error)

	return db
}

func TestNewService(t *testing.T) {
	_, err := NewService(nil, 10)
	require.ErrorIs(t, err, ErrDBNil)

	svc, err := NewService(setupTestDB(t), 0)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestIsAuthorized(t *testing.T) {
	db := setupTestDB(t)

	svc, err := NewService(db, 16)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		grant Grant
		want  bool
	}{
		{
			name:  "exact grant",
			grant: Grant{RoleStudent, ResourceBooks, ActionUpdate, "available_count"},
			want:  true,
		},
		{
			name:  "student can not rename a book",
			grant: Grant{RoleStudent, ResourceBooks, ActionUpdate, "title"},
			want:  false,
		},
		{
			name:  "wildcard covers a concrete column",
			grant: Grant{RoleStudent, ResourceBooks, ActionSelect, "author"},
			want:  true,
		},
		{
			name:  "wildcard covers itself",
			grant: Grant{RoleLibrarian, ResourceUsers, ActionSelect, ColumnAll},
			want:  true,
		},
		{
			name:  "row level action",
			grant: Grant{RoleStudent, ResourceCheckouts, ActionInsert, ColumnNone},
			want:  true,
		},
		{
			name:  "no inheritance between roles",
			grant: Grant{RoleLibrarian, ResourceCheckouts, ActionInsert, ColumnNone},
			want:  false,
		},
		{
			name:  "student can not activate accounts",
			grant: Grant{RoleStudent, ResourceUsers, ActionUpdate, ColumnActiveStatus},
			want:  false,
		},
		{
			name:  "librarian activates accounts",
			grant: Grant{RoleLibrarian, ResourceUsers, ActionUpdate, ColumnActiveStatus},
			want:  true,
		},
		{
			name:  "unknown action fails closed",
			grant: Grant{RoleLibrarian, ResourceBooks, "DROP", ColumnNone},
			want:  false,
		},
		{
			name:  "lowercase action fails closed",
			grant: Grant{RoleLibrarian, ResourceBooks, "insert", ColumnNone},
			want:  false,
		},
		{
			name:  "unknown resource fails closed",
			grant: Grant{RoleLibrarian, "permissions", ActionSelect, ColumnAll},
			want:  false,
		},
		{
			name:  "unknown role fails closed",
			grant: Grant{3, ResourceBooks, ActionSelect, ColumnAll},
			want:  false,
		},
		{
			name:  "empty column fails closed",
			grant: Grant{RoleLibrarian, ResourceBooks, ActionInsert, ""},
			want:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.IsAuthorized(nil, tc.grant)
			require.NoError(t, err)
			assert.Equal(t, tc.want, allowed)

			// second call is served from the cache
			allowed, err = svc.IsAuthorized(nil, tc.grant)
			require.NoError(t, err)
			assert.Equal(t, tc.want, allowed)
		})
	}
}

func TestIsAuthorizedInsideTransaction(t *testing.T) {
	db := setupTestDB(t)

	svc, err := NewService(db, 16)
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		allowed, err := svc.IsAuthorized(tx, Grant{RoleLibrarian, ResourceBooks, ActionDelete, ColumnNone})
		require.NoError(t, err)
		assert.True(t, allowed)

		return nil
	})
	require.NoError(t, err)
}

func TestIsAuthorizedStorageError(t *testing.T) {
	db := setupTestDB(t)

	svc, err := NewService(db, 16)
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.PermissionGrant{}))

	g := Grant{RoleLibrarian, ResourceBooks, ActionDelete, ColumnNone}

	allowed, err := svc.IsAuthorized(nil, g)
	require.Error(t, err)
	assert.False(t, allowed)

	// the failure is not cached: once the table is back the grant is found
	require.NoError(t, db.AutoMigrate(&models.PermissionGrant{}))
	require.NoError(t, db.Create(&[]models.PermissionGrant{g.Model()}).Error)

	allowed, err = svc.IsAuthorized(nil, g)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDefaultGrants(t *testing.T) {
	grants := DefaultGrants()

	seen := map[string]bool{}
	librarian, student := 0, 0

	for _, g := range grants {
		key := Grant{g.RoleID, g.Resource, g.Action, g.ColumnScope}.String()
		assert.False(t, seen[key], "duplicate grant %s", key)
		seen[key] = true

		switch g.RoleID {
		case RoleLibrarian:
			librarian++
		case RoleStudent:
			student++
		}
	}

	assert.Equal(t, 12, librarian)
	assert.Equal(t, 4, student)
}
