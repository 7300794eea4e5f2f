package models

// Book is one catalog title with its copy counters.
// The check constraint keeps 0 <= available_count <= total_book_count in the store itself.
type Book struct {
	BookISBNID     string `gorm:"column:book_isbn_id;primaryKey;size:32" json:"book_isbn_id"`
	Title          string `gorm:"column:title;size:255;not null" json:"title"`
	Author         string `gorm:"column:author;size:255;not null" json:"author"`
	PublishedYear  int    `gorm:"column:published_year;not null" json:"published_year"`
	TotalBookCount int    `gorm:"column:total_book_count;not null" json:"total_book_count"`
	AvailableCount int    `gorm:"column:available_count;not null;check:chk_books_available_count,available_count >= 0 AND available_count <= total_book_count" json:"available_count"` //nolint:lll
}

// TableName specifies the database table name for the Book model.
func (Book) TableName() string {
	return "books"
}

// Columns returns the record as a column name to value map.
func (b *Book) Columns() map[string]any {
	return map[string]any{
		"book_isbn_id":     b.BookISBNID,
		"title":            b.Title,
		"author":           b.Author,
		"published_year":   b.PublishedYear,
		"total_book_count": b.TotalBookCount,
		"available_count":  b.AvailableCount,
	}
}
