package role

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

func TestList(t *testing.T) {
	_, err := List(nil)
	require.ErrorIs(t, err, ErrDBNil)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}))

	roles, err := List(db)
	require.NoError(t, err)
	assert.Empty(t, roles)

	require.NoError(t, db.Create(&[]models.Role{{RoleID: 2, RoleName: "student"}, {RoleID: 1, RoleName: "librarian"}}).Error)

	roles, err = List(db)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "librarian", roles[0].RoleName)
}
