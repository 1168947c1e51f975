package catalog

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/library-graphql/internal/data"
	"github.com/aoideee/library-graphql/internal/response"
)

func ptr[T any](v T) *T { return &v }

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	return New(data.NewMemoryModels(), nil)
}

// failingAuthors is an AuthorStore whose every call fails.
type failingAuthors struct{ err error }

func (f failingAuthors) Create(context.Context, *data.Author) error { return f.err }
func (f failingAuthors) Find(context.Context, data.Where) ([]*data.Author, error) {
	return nil, f.err
}
func (f failingAuthors) UpdateOne(context.Context, int64, data.AuthorPatch) (*data.Author, error) {
	return nil, f.err
}
func (f failingAuthors) DestroyOne(context.Context, int64) (*data.Author, error) {
	return nil, f.err
}

func requireError(t *testing.T, errs *response.ErrorResponse, code, attr, message string) {
	t.Helper()
	require.NotNil(t, errs)
	require.Len(t, errs.Errors, 1)
	e := errs.Errors[0]
	assert.Equal(t, code, e.Code)
	assert.Equal(t, message, e.Message)
	if attr == "-" {
		assert.Nil(t, e.AttrName)
		return
	}
	require.NotNil(t, e.AttrName)
	assert.Equal(t, attr, *e.AttrName)
}

func TestAddAuthor(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()

	res := c.Authors.Add(ctx, AuthorInput{Name: ptr("Ursula K. Le Guin"), Country: ptr("USA")})
	author, ok := res.Value()
	require.True(t, ok)
	assert.NotZero(t, author.ID)
	assert.Equal(t, "Ursula K. Le Guin", author.Name)
	assert.Equal(t, "USA", author.Country)

	res = c.Authors.Add(ctx, AuthorInput{Name: ptr("Anonymous")})
	author, ok = res.Value()
	require.True(t, ok)
	assert.Equal(t, data.UnknownValue, author.Country)
}

func TestAddAuthorWithoutName(t *testing.T) {
	c := newCatalog(t)

	res := c.Authors.Add(context.Background(), AuthorInput{Country: ptr("USA")})
	requireError(t, res.Errors(), response.CodeBadInput, "name", `Name is required and should be of type "string"`)
}

func TestAddAuthorStoreFailure(t *testing.T) {
	c := New(data.Models{Authors: failingAuthors{err: errors.Wrap(&pq.Error{Code: "23505", Column: "name", Message: "duplicate key"}, "insert author")}}, nil)

	res := c.Authors.Add(context.Background(), AuthorInput{Name: ptr("Dup")})
	requireError(t, res.Errors(), response.CodeAPIError, "-", "Author add request failed.")

	mod := res.Errors().Errors[0].ModuleError
	require.NotNil(t, mod)
	assert.Equal(t, data.CodeUnique, mod.Code)
	assert.Equal(t, []string{"name"}, mod.AttrNames)
	assert.Equal(t, "duplicate key", mod.Message)
}

func TestAddAuthorPlainStoreFailure(t *testing.T) {
	c := New(data.Models{Authors: failingAuthors{err: errors.Wrap(errors.New("connection refused"), "insert author")}}, nil)

	res := c.Authors.Add(context.Background(), AuthorInput{Name: ptr("Offline")})
	mod := res.Errors().Errors[0].ModuleError
	require.NotNil(t, mod)
	assert.Equal(t, "connection refused", mod.Message)
}

func TestUpdateAuthor(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	author, _ := c.Authors.Add(ctx, AuthorInput{Name: ptr("Terry"), Country: ptr("UK")}).Value()

	res := c.Authors.Update(ctx, author.ID, AuthorInput{Name: ptr("Terry Pratchett")})
	updated, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, "Terry Pratchett", updated.Name)
	assert.Equal(t, "UK", updated.Country)

	res = c.Authors.Update(ctx, 0, AuthorInput{Name: ptr("x")})
	requireError(t, res.Errors(), response.CodeBadInput, "id", "Id is required for updation.")

	res = c.Authors.Update(ctx, author.ID, AuthorInput{})
	requireError(t, res.Errors(), response.CodeBadInput, "", "No value(s) sent for updation.")

	res = c.Authors.Update(ctx, 99999, AuthorInput{Name: ptr("x")})
	requireError(t, res.Errors(), response.CodeInfo, "-", "No Author exists with the requested Id: 99999")
}

func TestDeleteAuthor(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	author, _ := c.Authors.Add(ctx, AuthorInput{Name: ptr("Gone")}).Value()

	res := c.Authors.Delete(ctx, author.ID)
	deleted, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, author.ID, deleted.ID)

	res = c.Authors.Delete(ctx, 99999)
	assert.Equal(t, response.CodeInfo, res.Code())

	res = c.Authors.Delete(ctx, 0)
	requireError(t, res.Errors(), response.CodeBadInput, "id", "Id is required for deletion.")
}

func TestDeleteReferencedAuthorIsAPIError(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	author, _ := c.Authors.Add(ctx, AuthorInput{Name: ptr("Busy")}).Value()
	_, ok := c.Books.Add(ctx, BookInput{Title: ptr("T"), YearPublished: ptr("2000"), AuthorID: ptr("1")}).Value()
	require.True(t, ok)

	res := c.Authors.Delete(ctx, author.ID)
	requireError(t, res.Errors(), response.CodeAPIError, "-", "Author delete request failed.")
	assert.Equal(t, data.CodeReference, res.Errors().Errors[0].ModuleError.Code)
}

func TestGetAuthor(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	first, _ := c.Authors.Add(ctx, AuthorInput{Name: ptr("A"), Country: ptr("FR")}).Value()
	c.Authors.Add(ctx, AuthorInput{Name: ptr("B"), Country: ptr("FR")})

	got, ok := c.Authors.Get(ctx, Query{ID: first.ID}).Value()
	require.True(t, ok)
	assert.Equal(t, "A", got.Name)

	res := c.Authors.Get(ctx, Query{ID: 99999})
	requireError(t, res.Errors(), response.CodeInfo, "-", "No Author exists with the requested Id: 99999")

	res = c.Authors.Get(ctx, Query{})
	assert.Equal(t, response.CodeBadInput, res.Code())
}

func TestListAuthorsFilters(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	c.Authors.Add(ctx, AuthorInput{Name: ptr("A"), Country: ptr("FR")})
	c.Authors.Add(ctx, AuthorInput{Name: ptr("B"), Country: ptr("DE")})

	tests := []struct {
		name  string
		where any
		count int
	}{
		{"nil filter", nil, 2},
		{"empty string", "", 2},
		{"json string", `{"country":"FR"}`, 1},
		{"string pointer", ptr(`{"country":"DE"}`), 1},
		{"literal map", map[string]any{"name": "B"}, 1},
		{"data.Where", data.Where{"country": []any{"FR", "DE"}}, 2},
		{"no match", `{"country":"JP"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authors, ok := c.Authors.List(ctx, Query{Where: tt.where}).Value()
			require.True(t, ok)
			assert.Len(t, authors, tt.count)
		})
	}
}

func TestListAuthorsBadWhere(t *testing.T) {
	c := newCatalog(t)

	res := c.Authors.List(context.Background(), Query{Where: "{not json"})
	requireError(t, res.Errors(), response.CodeBadInput, "where", "Where clause should be a valid JSON object.")

	res = c.Authors.List(context.Background(), Query{Where: `{"isbn":"1"}`})
	requireError(t, res.Errors(), response.CodeAPIError, "-", "Author fetch request failed.")
	assert.Equal(t, data.CodeInvalidCriteria, res.Errors().Errors[0].ModuleError.Code)
}

func TestListAuthorsStoreFailure(t *testing.T) {
	c := New(data.Models{Authors: failingAuthors{err: errors.New("connection refused")}}, nil)

	res := c.Authors.List(context.Background(), Query{})
	requireError(t, res.Errors(), response.CodeAPIError, "-", "Author fetch request failed.")
	mod := res.Errors().Errors[0].ModuleError
	assert.Equal(t, response.CodeModuleDefault, mod.Code)
	assert.Equal(t, []string{}, mod.AttrNames)
	assert.Equal(t, "connection refused", mod.Message)
}
