// Package role provides read access to the fixed role set.
package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// List returns every role ordered by id.
func List(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	roles := []models.Role{}
	err := db.Order("role_id").Find(&roles).Error

	return roles, err
}
