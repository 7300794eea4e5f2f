package book

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")

	return db
}

func seedBooks(t *testing.T, db *gorm.DB, books ...models.Book) {
	t.Helper()

	for i := range books {
		require.NoError(t, db.Create(&books[i]).Error, "failed to seed test data")
	}
}

func dune() models.Book {
	return models.Book{
		BookISBNID: "9780441013593", Title: "Dune", Author: "Frank Herbert",
		PublishedYear: 1965, TotalBookCount: 2, AvailableCount: 1,
	}
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db, dune())

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            string
		expectedError error
	}{
		{name: "nil database", dbParam: nil, id: "x", expectedError: ErrDBNil},
		{name: "empty id", dbParam: db, id: "", expectedError: ErrBookIDEmpty},
		{name: "not found", dbParam: db, id: "missing", expectedError: ErrBookNotFound},
		{name: "found", dbParam: db, id: "9780441013593"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, fetch := range []func(*gorm.DB, string) (*models.Book, error){Get, GetForUpdate} {
				book, err := fetch(tc.dbParam, tc.id)

				if tc.expectedError != nil {
					require.ErrorIs(t, err, tc.expectedError)
					assert.Nil(t, book)

					continue
				}

				require.NoError(t, err)
				assert.Equal(t, "Dune", book.Title)
				assert.Equal(t, 1, book.AvailableCount)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)

	b := dune()
	require.NoError(t, Create(db, &b))

	dup := dune()
	require.ErrorIs(t, Create(db, &dup), ErrBookExists)

	empty := models.Book{Title: "untitled"}
	require.ErrorIs(t, Create(db, &empty), ErrBookIDEmpty)

	n, err := Count(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestListColumns(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db, dune(), models.Book{
		BookISBNID: "9780060850524", Title: "Brave New World", Author: "Aldous Huxley",
		PublishedYear: 1932, TotalBookCount: 1, AvailableCount: 1,
	})

	rows, err := ListColumns(db, []string{ColumnID, ColumnTitle})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "9780060850524", rows[0][ColumnID])
	assert.Equal(t, "Brave New World", rows[0][ColumnTitle])
	assert.NotContains(t, rows[0], ColumnAuthor)

	_, err = ListColumns(db, []string{ColumnID, "password_hash"})
	require.ErrorIs(t, err, ErrUnknownColumn)

	books, err := List(db)
	require.NoError(t, err)
	assert.Equal(t, "9780441013593", books[1].BookISBNID)
}

func TestUpdateRekey(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db, dune())

	b, err := Get(db, "9780441013593")
	require.NoError(t, err)

	b.BookISBNID = "0441013597"
	b.Title = "Dune (Ace)"
	require.NoError(t, Update(db, "9780441013593", b))

	_, err = Get(db, "9780441013593")
	require.ErrorIs(t, err, ErrBookNotFound)

	got, err := Get(db, "0441013597")
	require.NoError(t, err)
	assert.Equal(t, "Dune (Ace)", got.Title)

	require.ErrorIs(t, Update(db, "missing", got), ErrBookNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db, dune())

	require.NoError(t, Delete(db, "9780441013593"))
	require.ErrorIs(t, Delete(db, "9780441013593"), ErrBookNotFound)
	require.ErrorIs(t, Delete(db, ""), ErrBookIDEmpty)
}

func TestCopyCounters(t *testing.T) {
	db := setupTestDB(t)
	seedBooks(t, db, dune())

	const id = "9780441013593"

	// available 1 of 2
	require.NoError(t, TakeCopy(db, id))
	require.ErrorIs(t, TakeCopy(db, id), ErrNoCopyAvailable)

	require.NoError(t, ReturnCopy(db, id))
	require.NoError(t, ReturnCopy(db, id))
	require.ErrorIs(t, ReturnCopy(db, id), ErrAllCopiesShelved)

	b, err := Get(db, id)
	require.NoError(t, err)
	assert.Equal(t, 2, b.AvailableCount)

	require.ErrorIs(t, TakeCopy(db, "missing"), ErrBookNotFound)
}

func TestIsColumn(t *testing.T) {
	for _, c := range Columns() {
		assert.True(t, IsColumn(c), c)
	}

	assert.False(t, IsColumn("*"))
	assert.False(t, IsColumn("books; DROP TABLE books"))
}
