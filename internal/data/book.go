// Package data provides the data models and persistence logic for the
// library catalog: authors, the books they wrote, and the stores that
// create, find, update and destroy them.
package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Genres is the closed set of values a book's genre may take.
var Genres = []string{"ADVENTURE", "COMICS", "FANTASY", UnknownValue}

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table.
type Book struct {
	ID            int64     `json:"id"`            // Unique identifier assigned by the database
	Title         string    `json:"title"`         // Title of the book
	YearPublished string    `json:"yearPublished"` // Stored as text, never parsed
	Genre         string    `json:"genre"`         // One of Genres
	AuthorID      int64     `json:"author"`        // Foreign key to authors.id
	CreatedAt     time.Time `json:"createdAt"`     // Timestamp when the record was created
	UpdatedAt     time.Time `json:"updatedAt"`     // Timestamp when the record was last modified
}

// BookPatch holds the attributes a partial update may change.
// Every field is a pointer so we can distinguish between "not provided" (nil)
// and "intentionally set to zero/empty". Only non-nil fields are applied.
type BookPatch struct {
	Title         *string
	YearPublished *string
	Genre         *string
	AuthorID      *int64
}

// Empty reports whether the patch changes nothing.
func (p BookPatch) Empty() bool {
	return p.Title == nil && p.YearPublished == nil && p.Genre == nil && p.AuthorID == nil
}

// BookStore is the persistence contract for books. Not-found is reported
// as a nil record with a nil error.
type BookStore interface {
	Create(ctx context.Context, book *Book) error
	Find(ctx context.Context, where Where) ([]*Book, error)
	UpdateOne(ctx context.Context, id int64, patch BookPatch) (*Book, error)
	DestroyOne(ctx context.Context, id int64) (*Book, error)
}

// bookAttributes is the safe list of attributes a filter may name.
var bookAttributes = map[string]attribute{
	"id":            {column: "id", kind: kindInt},
	"title":         {column: "title", kind: kindString},
	"yearPublished": {column: "year_published", kind: kindString},
	"genre":         {column: "genre", kind: kindString},
	"author":        {column: "author_id", kind: kindInt},
}

func (b *Book) attr(name string) any {
	switch name {
	case "id":
		return b.ID
	case "title":
		return b.Title
	case "yearPublished":
		return b.YearPublished
	case "genre":
		return b.Genre
	case "author":
		return b.AuthorID
	}
	return nil
}

const bookColumns = `id, title, year_published, genre, author_id, created_at, updated_at`

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting book records.
type BookModel struct {
	DB *sql.DB // Shared database connection pool
}

var _ BookStore = BookModel{}

func scanBook(row interface{ Scan(...any) error }) (*Book, error) {
	var b Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.YearPublished,
		&b.Genre,
		&b.AuthorID,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create adds a new book record to the database.
// After a successful insert, the database-assigned id, created_at, and
// updated_at values are written back into the book struct.
func (m BookModel) Create(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (title, year_published, genre, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := m.DB.QueryRowContext(ctx, query,
		book.Title,
		book.YearPublished,
		book.Genre,
		book.AuthorID,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	return errors.Wrap(err, "insert book")
}

// Find retrieves every book matching where, ordered by id.
func (m BookModel) Find(ctx context.Context, where Where) ([]*Book, error) {
	conds, err := normalize(where, bookAttributes)
	if err != nil {
		return nil, err
	}
	clause, args := whereClause(conds)
	query := fmt.Sprintf(`SELECT %s FROM books %s ORDER BY id ASC`, bookColumns, clause)

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select books")
	}
	// Always close the result set when we are done to free the database connection.
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan book")
		}
		books = append(books, b)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate books")
	}
	return books, nil
}

// UpdateOne saves the fields set in patch and returns the refreshed record,
// or nil if no book has the given id. updated_at is bumped by the database.
func (m BookModel) UpdateOne(ctx context.Context, id int64, patch BookPatch) (*Book, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.YearPublished != nil {
		set("year_published", *patch.YearPublished)
	}
	if patch.Genre != nil {
		set("genre", *patch.Genre)
	}
	if patch.AuthorID != nil {
		set("author_id", *patch.AuthorID)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE books
		SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args), bookColumns)

	b, err := scanBook(m.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, errors.Wrap(err, "update book")
}

// DestroyOne removes the book with the given id and returns it, or nil if
// no matching record exists.
func (m BookModel) DestroyOne(ctx context.Context, id int64) (*Book, error) {
	query := fmt.Sprintf(`DELETE FROM books WHERE id = $1 RETURNING %s`, bookColumns)

	b, err := scanBook(m.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, errors.Wrap(err, "delete book")
}
