package orchestrator

import (
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/book"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

// Caller is the permission tuple a client claims for a request.
type Caller struct {
	Role     uint
	Resource string
	Action   string
	Column   string
}

// SignUpRequest carries the fields of a sign-up-or-login request.
type SignUpRequest struct {
	Role     uint   `validate:"required"`
	UserID   string `validate:"required"`
	UserName string `validate:"required,max=100"`
	Password string `validate:"required"`
}

// Session is the outcome of a sign-up-or-login request.
type Session struct {
	// Created is true when the request registered a new account.
	Created bool
	User    *models.User
	// Checkouts lists the ids of the books the account holds. Empty for new accounts.
	Checkouts []string
}

// NewBook carries the fields of a book insert. Every field is required.
type NewBook struct {
	BookISBNID     *string `json:"book_isbn_id"     validate:"required,min=1,max=32"`
	Title          *string `json:"title"            validate:"required,min=1,max=255"`
	Author         *string `json:"author"           validate:"required,min=1,max=255"`
	PublishedYear  *int    `json:"published_year"   validate:"required"`
	TotalBookCount *int    `json:"total_book_count" validate:"required,gte=0"`
	AvailableCount *int    `json:"available_count"  validate:"required,gte=0"`
}

// Model converts a validated NewBook into a record.
func (n *NewBook) Model() *models.Book {
	return &models.Book{
		BookISBNID:     *n.BookISBNID,
		Title:          *n.Title,
		Author:         *n.Author,
		PublishedYear:  *n.PublishedYear,
		TotalBookCount: *n.TotalBookCount,
		AvailableCount: *n.AvailableCount,
	}
}

// BookPatch is a partial book update. Nil fields are left alone.
type BookPatch struct {
	BookISBNID     *string `json:"book_isbn_id"`
	Title          *string `json:"title"`
	Author         *string `json:"author"`
	PublishedYear  *int    `json:"published_year"`
	TotalBookCount *int    `json:"total_book_count"`
	AvailableCount *int    `json:"available_count"`
}

// Fields lists the columns the patch touches, in table order.
func (p *BookPatch) Fields() []string {
	var fields []string

	if p.BookISBNID != nil {
		fields = append(fields, book.ColumnID)
	}

	if p.Title != nil {
		fields = append(fields, book.ColumnTitle)
	}

	if p.Author != nil {
		fields = append(fields, book.ColumnAuthor)
	}

	if p.PublishedYear != nil {
		fields = append(fields, book.ColumnPublishedYear)
	}

	if p.TotalBookCount != nil {
		fields = append(fields, book.ColumnTotal)
	}

	if p.AvailableCount != nil {
		fields = append(fields, book.ColumnAvailable)
	}

	return fields
}

// Apply copies every set field onto b.
func (p *BookPatch) Apply(b *models.Book) {
	if p.BookISBNID != nil {
		b.BookISBNID = *p.BookISBNID
	}

	if p.Title != nil {
		b.Title = *p.Title
	}

	if p.Author != nil {
		b.Author = *p.Author
	}

	if p.PublishedYear != nil {
		b.PublishedYear = *p.PublishedYear
	}

	if p.TotalBookCount != nil {
		b.TotalBookCount = *p.TotalBookCount
	}

	if p.AvailableCount != nil {
		b.AvailableCount = *p.AvailableCount
	}
}
