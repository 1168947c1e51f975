package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// UnknownValue is stored when an optional enumerated or descriptive
// attribute is not supplied.
const UnknownValue = "UNKNOWN"

// Author represents a single author record. It maps directly to a row in
// the "authors" table.
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthorPatch holds the attributes an update may change. A nil field is
// left untouched.
type AuthorPatch struct {
	Name    *string
	Country *string
}

// Empty reports whether the patch changes nothing.
func (p AuthorPatch) Empty() bool {
	return p.Name == nil && p.Country == nil
}

// AuthorStore is the persistence contract for authors. Not-found is
// reported as a nil record with a nil error, never as an error.
type AuthorStore interface {
	Create(ctx context.Context, author *Author) error
	Find(ctx context.Context, where Where) ([]*Author, error)
	UpdateOne(ctx context.Context, id int64, patch AuthorPatch) (*Author, error)
	DestroyOne(ctx context.Context, id int64) (*Author, error)
}

// authorAttributes is the safe list of attributes a filter may name.
var authorAttributes = map[string]attribute{
	"id":      {column: "id", kind: kindInt},
	"name":    {column: "name", kind: kindString},
	"country": {column: "country", kind: kindString},
}

func (a *Author) attr(name string) any {
	switch name {
	case "id":
		return a.ID
	case "name":
		return a.Name
	case "country":
		return a.Country
	}
	return nil
}

const authorColumns = `id, name, country, created_at, updated_at`

// AuthorModel wraps a *sql.DB connection pool and implements AuthorStore
// against the "authors" table.
type AuthorModel struct {
	DB *sql.DB
}

var _ AuthorStore = AuthorModel{}

func scanAuthor(row interface{ Scan(...any) error }) (*Author, error) {
	var a Author
	err := row.Scan(&a.ID, &a.Name, &a.Country, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts author and writes the database-assigned id and
// timestamps back into it.
func (m AuthorModel) Create(ctx context.Context, author *Author) error {
	query := `
		INSERT INTO authors (name, country)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := m.DB.QueryRowContext(ctx, query, author.Name, author.Country).
		Scan(&author.ID, &author.CreatedAt, &author.UpdatedAt)
	return errors.Wrap(err, "insert author")
}

// Find returns every author matching where, ordered by id.
func (m AuthorModel) Find(ctx context.Context, where Where) ([]*Author, error) {
	conds, err := normalize(where, authorAttributes)
	if err != nil {
		return nil, err
	}
	clause, args := whereClause(conds)
	query := fmt.Sprintf(`SELECT %s FROM authors %s ORDER BY id ASC`, authorColumns, clause)

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "select authors")
	}
	defer rows.Close()

	authors := []*Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan author")
		}
		authors = append(authors, a)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate authors")
	}
	return authors, nil
}

// UpdateOne applies patch to the author with the given id and returns the
// updated record, or nil if no such author exists.
func (m AuthorModel) UpdateOne(ctx context.Context, id int64, patch AuthorPatch) (*Author, error) {
	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		args = append(args, *patch.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.Country != nil {
		args = append(args, *patch.Country)
		sets = append(sets, fmt.Sprintf("country = $%d", len(args)))
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE authors
		SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args), authorColumns)

	a, err := scanAuthor(m.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, errors.Wrap(err, "update author")
}

// DestroyOne deletes the author with the given id and returns the deleted
// record, or nil if no such author exists.
func (m AuthorModel) DestroyOne(ctx context.Context, id int64) (*Author, error) {
	query := fmt.Sprintf(`DELETE FROM authors WHERE id = $1 RETURNING %s`, authorColumns)

	a, err := scanAuthor(m.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, errors.Wrap(err, "delete author")
}
