package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// User represents a library account, either a librarian or a student.
// Credential fields are never serialized.
type User struct {
	// ID is the surrogate primary key.
	ID uint64 `gorm:"primaryKey" json:"-"`
	// RoleID is the role assigned to this user.
	RoleID uint `gorm:"column:role_id;not null" json:"role_id"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role Role `gorm:"foreignKey:RoleID;references:RoleID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"-"`
	// UserID is the role-scoped external id: 4 digits for librarians, 9 for students.
	UserID string `gorm:"column:user_id;uniqueIndex;size:16;not null" json:"user_id"`
	// UserName is the unique display name.
	UserName string `gorm:"column:user_name;uniqueIndex;size:100;not null" json:"user_name"`
	// PasswordHash is the Argon2id encoded password.
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`
	// Active reports whether a librarian has enabled this account for borrowing.
	Active bool `gorm:"column:is_active_account;not null" json:"is_active_account"`
	// BooksOverdue lists the ids of books this user has held past the overdue threshold.
	// It is recomputed from the checkout ledger and never edited directly.
	BooksOverdue datatypes.JSONSlice[string] `gorm:"column:books_overdue" json:"books_overdue"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"-"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// OverdueCount is the number of books currently overdue for the user.
func (u *User) OverdueCount() int {
	return len(u.BooksOverdue)
}

// VerifyPassword compares password against the stored hash in constant time.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil {
		log.Error().Err(err).Str("user_id", u.UserID).Msg("failed to verify password")
		return false
	}

	return match
}
