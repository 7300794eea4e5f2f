// Package book provides catalog store operations on the books table.
package book

import (
	"errors"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

const idQueryPattern = "book_isbn_id = ?"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrBookIDEmpty is returned when a book id is empty.
	ErrBookIDEmpty = errors.New("book id cannot be empty")
	// ErrBookNotFound is returned when a book is not found.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookExists is returned when inserting a book whose id is already taken.
	ErrBookExists = errors.New("book already exists")
	// ErrUnknownColumn is returned for a column outside the books table.
	ErrUnknownColumn = errors.New("unknown book column")
	// ErrNoCopyAvailable is returned when taking a copy of a title with none on the shelf.
	ErrNoCopyAvailable = errors.New("no copy available")
	// ErrAllCopiesShelved is returned when returning a copy of a title with every copy on the shelf.
	ErrAllCopiesShelved = errors.New("all copies already shelved")
)

// Book column names, in table order.
const (
	ColumnID            = "book_isbn_id"
	ColumnTitle         = "title"
	ColumnAuthor        = "author"
	ColumnPublishedYear = "published_year"
	ColumnTotal         = "total_book_count"
	ColumnAvailable     = "available_count"
)

// Columns lists every books column in table order.
func Columns() []string {
	return []string{ColumnID, ColumnTitle, ColumnAuthor, ColumnPublishedYear, ColumnTotal, ColumnAvailable}
}

// IsColumn reports whether name is a books column.
func IsColumn(name string) bool {
	return slices.Contains(Columns(), name)
}

// Get retrieves a book by its id.
func Get(db *gorm.DB, id string) (*models.Book, error) {
	return get(db, id, false)
}

// GetForUpdate retrieves a book by its id and locks the row until the surrounding transaction ends.
// sqlite has no row locks; it serializes writers on the whole database instead.
func GetForUpdate(db *gorm.DB, id string) (*models.Book, error) {
	return get(db, id, true)
}

func get(db *gorm.DB, id string, lock bool) (*models.Book, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if id == "" {
		return nil, ErrBookIDEmpty
	}

	q := db
	if lock && db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var book models.Book
	if err := q.Where(idQueryPattern, id).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}

		return nil, err
	}

	return &book, nil
}

// Exists reports whether a book with id is in the catalog.
func Exists(db *gorm.DB, id string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var n int64
	if err := db.Model(&models.Book{}).Where(idQueryPattern, id).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

// Count returns the number of titles in the catalog.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	err := db.Model(&models.Book{}).Count(&n).Error

	return n, err
}

// List retrieves the whole catalog ordered by id.
func List(db *gorm.DB) ([]models.Book, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var books []models.Book
	if err := db.Order(ColumnID).Find(&books).Error; err != nil {
		return nil, err
	}

	return books, nil
}

// ListColumns retrieves the given columns of every book ordered by id.
// Column names must pass IsColumn; they are never taken from a caller unchecked.
func ListColumns(db *gorm.DB, columns []string) ([]map[string]any, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	for _, c := range columns {
		if !IsColumn(c) {
			return nil, ErrUnknownColumn
		}
	}

	rows := []map[string]any{}
	if err := db.Model(&models.Book{}).Select(columns).Order(ColumnID).Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// Create inserts a new book.
func Create(db *gorm.DB, book *models.Book) error {
	if db == nil {
		return ErrDBNil
	}

	if book.BookISBNID == "" {
		return ErrBookIDEmpty
	}

	exists, err := Exists(db, book.BookISBNID)
	if err != nil {
		return err
	}

	if exists {
		return ErrBookExists
	}

	if err := db.Create(book).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrBookExists
		}

		return err
	}

	return nil
}

// Update writes every field of book to the row currently keyed by id.
// If book.BookISBNID differs from id the row is rekeyed.
func Update(db *gorm.DB, id string, book *models.Book) error {
	if db == nil {
		return ErrDBNil
	}

	if id == "" || book.BookISBNID == "" {
		return ErrBookIDEmpty
	}

	result := db.Model(&models.Book{}).Where(idQueryPattern, id).Updates(book.Columns())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrBookExists
		}

		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}

// Delete removes a book by id.
func Delete(db *gorm.DB, id string) error {
	if db == nil {
		return ErrDBNil
	}

	if id == "" {
		return ErrBookIDEmpty
	}

	result := db.Where(idQueryPattern, id).Delete(&models.Book{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}

// TakeCopy decrements the available count of a book. The guard lives in the UPDATE itself,
// so the counter never drops below zero even without a row lock.
func TakeCopy(db *gorm.DB, id string) error {
	return adjustAvailable(db, id, "available_count > 0", "available_count - 1", ErrNoCopyAvailable)
}

// ReturnCopy increments the available count of a book, never past the total.
func ReturnCopy(db *gorm.DB, id string) error {
	return adjustAvailable(db, id, "available_count < total_book_count", "available_count + 1", ErrAllCopiesShelved)
}

func adjustAvailable(db *gorm.DB, id, guard, expr string, errGuard error) error {
	if db == nil {
		return ErrDBNil
	}

	if id == "" {
		return ErrBookIDEmpty
	}

	result := db.Model(&models.Book{}).
		Where(idQueryPattern, id).
		Where(guard).
		UpdateColumn(ColumnAvailable, gorm.Expr(expr))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 1 {
		return nil
	}

	exists, err := Exists(db, id)
	if err != nil {
		return err
	}

	if !exists {
		return ErrBookNotFound
	}

	return errGuard
}
