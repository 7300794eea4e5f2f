// Package checkout provides operations on the checkout ledger (user_book_checkouts).
package checkout

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

const (
	pairQueryPattern = "user_id = ? AND book_isbn_id = ?"
	bookQueryPattern = "book_isbn_id = ?"
	userQueryPattern = "user_id = ?"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrKeyEmpty is returned when the user id or book id is empty.
	ErrKeyEmpty = errors.New("user id and book id cannot be empty")
	// ErrCheckoutExists is returned when the user already holds a copy of the book.
	ErrCheckoutExists = errors.New("checkout already exists")
	// ErrCheckoutNotFound is returned when the user does not hold a copy of the book.
	ErrCheckoutNotFound = errors.New("checkout not found")
)

// Create records that userID took a copy of bookID at the given time.
func Create(db *gorm.DB, userID, bookID string, at time.Time) (*models.Checkout, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if userID == "" || bookID == "" {
		return nil, ErrKeyEmpty
	}

	var n int64
	if err := db.Model(&models.Checkout{}).Where(pairQueryPattern, userID, bookID).Count(&n).Error; err != nil {
		return nil, err
	}

	if n > 0 {
		return nil, ErrCheckoutExists
	}

	checkout := &models.Checkout{UserID: userID, BookISBNID: bookID, CheckoutTime: at.UTC()}

	if err := db.Omit(clause.Associations).Create(checkout).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCheckoutExists
		}

		return nil, err
	}

	return checkout, nil
}

// Delete removes the checkout of bookID held by userID.
func Delete(db *gorm.DB, userID, bookID string) error {
	if db == nil {
		return ErrDBNil
	}

	if userID == "" || bookID == "" {
		return ErrKeyEmpty
	}

	result := db.Where(pairQueryPattern, userID, bookID).Delete(&models.Checkout{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrCheckoutNotFound
	}

	return nil
}

// CountByBook returns the number of outstanding checkouts of bookID.
func CountByBook(db *gorm.DB, bookID string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64
	err := db.Model(&models.Checkout{}).Where(bookQueryPattern, bookID).Count(&n).Error

	return n, err
}

// BookIDs returns the ids of the books userID currently holds, ordered by id.
func BookIDs(db *gorm.DB, userID string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	ids := []string{}
	err := db.Model(&models.Checkout{}).
		Where(userQueryPattern, userID).
		Order("book_isbn_id").
		Pluck("book_isbn_id", &ids).Error

	return ids, err
}

// OlderThan returns every checkout made before cutoff, ordered by user and book.
func OlderThan(db *gorm.DB, cutoff time.Time) ([]models.Checkout, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var checkouts []models.Checkout
	err := db.Where("checkout_time < ?", cutoff.UTC()).
		Order("user_id").
		Order("book_isbn_id").
		Find(&checkouts).Error

	return checkouts, err
}

// UserBookIDsOlderThan returns the ids of the books userID has held since before cutoff.
func UserBookIDsOlderThan(db *gorm.DB, userID string, cutoff time.Time) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	ids := []string{}
	err := db.Model(&models.Checkout{}).
		Where(userQueryPattern, userID).
		Where("checkout_time < ?", cutoff.UTC()).
		Order("book_isbn_id").
		Pluck("book_isbn_id", &ids).Error

	return ids, err
}

// RekeyBook moves every checkout of oldID to newID. Engines that cascade the key update
// through the foreign key leave nothing for this to move.
func RekeyBook(db *gorm.DB, oldID, newID string) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.Checkout{}).
		Where(bookQueryPattern, oldID).
		Update("book_isbn_id", newID).Error
}
