// Package user provides operations on library accounts.
package user

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

const (
	userIDQueryPattern = "user_id = ?"
	nameQueryPattern   = "user_name = ?"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserIDEmpty is returned when a user id is empty.
	ErrUserIDEmpty = errors.New("user id cannot be empty")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when creating a user whose id is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNameTaken is returned when creating a user whose display name is in use.
	ErrUserNameTaken = errors.New("user name is taken")
)

// Status filters for List.
const (
	StatusExcessiveOverdue = "excessive-overdue"
	StatusNeedsApproval    = "needs-approval"
)

// Get retrieves a user by external id.
func Get(db *gorm.DB, userID string) (*models.User, error) {
	return get(db, userID, false)
}

// GetForUpdate retrieves a user by external id and locks the row until the transaction ends.
func GetForUpdate(db *gorm.DB, userID string) (*models.User, error) {
	return get(db, userID, true)
}

func get(db *gorm.DB, userID string, lock bool) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if userID == "" {
		return nil, ErrUserIDEmpty
	}

	q := db
	if lock && db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var u models.User
	if err := q.Where(userIDQueryPattern, userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &u, nil
}

// NameTaken reports whether a user already uses name.
func NameTaken(db *gorm.DB, name string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var n int64
	if err := db.Model(&models.User{}).Where(nameQueryPattern, name).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

// Create inserts a new user. The overdue list always starts empty.
func Create(db *gorm.DB, u *models.User) error {
	if db == nil {
		return ErrDBNil
	}

	if u.UserID == "" {
		return ErrUserIDEmpty
	}

	if _, err := Get(db, u.UserID); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	taken, err := NameTaken(db, u.UserName)
	if err != nil {
		return err
	}

	if taken {
		return ErrUserNameTaken
	}

	u.BooksOverdue = datatypes.JSONSlice[string]{}

	if err := db.Omit(clause.Associations).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}

		return err
	}

	return nil
}

// SetActive sets the activation flag of a user.
func SetActive(db *gorm.DB, userID string, active bool) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.User{}).Where(userIDQueryPattern, userID).Update("is_active_account", active)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetOverdue replaces the overdue list of a user.
func SetOverdue(db *gorm.DB, userID string, bookIDs []string) error {
	if db == nil {
		return ErrDBNil
	}

	if bookIDs == nil {
		bookIDs = []string{}
	}

	return db.Model(&models.User{}).
		Where(userIDQueryPattern, userID).
		Update("books_overdue", datatypes.JSONSlice[string](bookIDs)).Error
}

// Names returns every display name ordered alphabetically.
func Names(db *gorm.DB) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	names := []string{}
	err := db.Model(&models.User{}).Order("user_name").Pluck("user_name", &names).Error

	return names, err
}

// List returns every user ordered by external id.
func List(db *gorm.DB) ([]models.User, error) {
	return list(db, false)
}

// ListForUpdate is List with every returned row locked until the transaction ends.
// Rows are locked in user_id order.
func ListForUpdate(db *gorm.DB) ([]models.User, error) {
	return list(db, true)
}

func list(db *gorm.DB, lock bool) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db
	if lock && db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	users := []models.User{}
	err := q.Order("user_id").Find(&users).Error

	return users, err
}

// Filter keeps the users matching status. maxOverdue is the largest overdue count still allowed
// to borrow. An empty or unknown status keeps everyone.
// The overdue list is a JSON column, so the length test runs here rather than in SQL.
func Filter(users []models.User, status string, maxOverdue int) []models.User {
	var keep func(u *models.User) bool

	switch status {
	case StatusExcessiveOverdue:
		keep = func(u *models.User) bool { return u.OverdueCount() > maxOverdue }
	case StatusNeedsApproval:
		keep = func(u *models.User) bool { return !u.Active && u.OverdueCount() <= maxOverdue }
	default:
		return users
	}

	out := make([]models.User, 0, len(users))

	for i := range users {
		if keep(&users[i]) {
			out = append(out, users[i])
		}
	}

	return out
}
