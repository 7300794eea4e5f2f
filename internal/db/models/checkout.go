package models

import "time"

// Checkout records that a user holds a copy of a book since CheckoutTime.
// The (user, book) pair is the primary key: a user holds at most one copy of a title.
// A checkout older than the overdue threshold is what makes a book overdue.
type Checkout struct {
	// UserID references users.user_id.
	UserID string `gorm:"column:user_id;primaryKey;size:16" json:"user_id"`
	// User is the borrowing account (enforced with a foreign key constraint).
	User User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"-"`
	// BookISBNID references books.book_isbn_id.
	BookISBNID string `gorm:"column:book_isbn_id;primaryKey;size:32;index" json:"book_isbn_id"`
	// Book is the borrowed title (enforced with a foreign key constraint).
	Book Book `gorm:"foreignKey:BookISBNID;references:BookISBNID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"-"`
	// CheckoutTime is when the copy left the shelf, stored in UTC.
	CheckoutTime time.Time `gorm:"column:checkout_time;not null;index" json:"checkout_time"`
}

// TableName specifies the database table name for the Checkout model.
func (Checkout) TableName() string {
	return "user_book_checkouts"
}
