// Package seed loads the static start-up data: roles, grants and the bundled catalog.
// Every loader only writes into an empty table, so running it on each start is safe.
package seed

import (
	_ "embed"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

//go:embed booklist.json
var bookList []byte

// Roles inserts roles when the roles table is empty.
func Roles(db *gorm.DB, roles []models.Role) error {
	return intoEmpty(db, &models.Role{}, "roles", roles)
}

// Grants inserts grants when the permissions table is empty.
func Grants(db *gorm.DB, grants []models.PermissionGrant) error {
	return intoEmpty(db, &models.PermissionGrant{}, "permissions", grants)
}

// Books inserts the bundled catalog when the books table is empty.
func Books(db *gorm.DB) error {
	books, err := Catalog()
	if err != nil {
		return err
	}

	return intoEmpty(db, &models.Book{}, "books", books)
}

// Catalog decodes the bundled catalog.
func Catalog() ([]models.Book, error) {
	var books []models.Book
	if err := json.Unmarshal(bookList, &books); err != nil {
		return nil, errors.Wrap(err, "failed to decode bundled catalog")
	}

	return books, nil
}

func intoEmpty[T any](db *gorm.DB, model any, table string, rows []T) error {
	if db == nil {
		return ErrDBNil
	}

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return errors.Wrapf(err, "failed to count %s", table)
	}

	if count > 0 || len(rows) == 0 {
		log.Debug().Str("table", table).Int64("rows", count).Msg("seed skipped")
		return nil
	}

	if err := db.Create(&rows).Error; err != nil {
		return errors.Wrapf(err, "failed to seed %s", table)
	}

	log.Info().Str("table", table).Int("rows", len(rows)).Msg("seeded")

	return nil
}
