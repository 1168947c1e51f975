package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/library-graphql/internal/data"
	"github.com/aoideee/library-graphql/internal/response"
)

const genreMessage = `Genre should be one of "'ADVENTURE', 'COMICS', 'FANTASY', 'UNKNOWN'"`

func seedAuthor(t *testing.T, c *Catalog) *data.Author {
	t.Helper()
	author, ok := c.Authors.Add(context.Background(), AuthorInput{Name: ptr("Moebius"), Country: ptr("FR")}).Value()
	require.True(t, ok)
	return author
}

func TestAddBookDefaultsGenreAndRoundTrips(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, c)

	book, ok := c.Books.Add(ctx, BookInput{
		Title:         ptr("Arzach"),
		YearPublished: ptr("1975"),
		AuthorID:      ptr("1"),
	}).Value()
	require.True(t, ok)
	assert.Equal(t, data.UnknownValue, book.Genre)
	assert.Equal(t, author.ID, book.AuthorID)

	fetched, ok := c.Books.Get(ctx, Query{ID: book.ID}).Value()
	require.True(t, ok)
	assert.Equal(t, data.UnknownValue, fetched.Genre)
	assert.Equal(t, "1975", fetched.YearPublished)
}

func TestAddBookValidation(t *testing.T) {
	c := newCatalog(t)
	seedAuthor(t, c)

	tests := []struct {
		name    string
		in      BookInput
		attr    string
		message string
	}{
		{
			name:    "missing title",
			in:      BookInput{YearPublished: ptr("1990"), AuthorID: ptr("1")},
			attr:    "title",
			message: `Title is required and should be of type "string"`,
		},
		{
			name:    "missing year",
			in:      BookInput{Title: ptr("T"), AuthorID: ptr("1")},
			attr:    "yearPublished",
			message: `Year Published is required and should be of type "string"`,
		},
		{
			name:    "unknown genre",
			in:      BookInput{Title: ptr("T"), YearPublished: ptr("1990"), Genre: ptr("HORROR"), AuthorID: ptr("1")},
			attr:    "genre",
			message: genreMessage,
		},
		{
			name:    "missing author",
			in:      BookInput{Title: ptr("T"), YearPublished: ptr("1990")},
			attr:    "authorId",
			message: `Author Id is required and should be of type "integer"`,
		},
		{
			name:    "unparsable author",
			in:      BookInput{Title: ptr("T"), YearPublished: ptr("1990"), AuthorID: ptr("abc")},
			attr:    "authorId",
			message: `Author Id is required and should be of type "integer"`,
		},
		{
			name:    "title reported before year",
			in:      BookInput{AuthorID: ptr("1")},
			attr:    "title",
			message: `Title is required and should be of type "string"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.Books.Add(context.Background(), tt.in)
			requireError(t, res.Errors(), response.CodeBadInput, tt.attr, tt.message)
		})
	}
}

func TestAddBookUnknownAuthor(t *testing.T) {
	c := newCatalog(t)

	res := c.Books.Add(context.Background(), BookInput{Title: ptr("T"), YearPublished: ptr("1990"), AuthorID: ptr("77")})
	requireError(t, res.Errors(), response.CodeAPIError, "-", "Book add request failed.")
	mod := res.Errors().Errors[0].ModuleError
	assert.Equal(t, data.CodeReference, mod.Code)
	assert.Equal(t, []string{"author"}, mod.AttrNames)
}

func TestUpdateBook(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	seedAuthor(t, c)
	book, _ := c.Books.Add(ctx, BookInput{Title: ptr("T"), YearPublished: ptr("1990"), AuthorID: ptr("1")}).Value()

	updated, ok := c.Books.Update(ctx, book.ID, BookInput{Genre: ptr("FANTASY")}).Value()
	require.True(t, ok)
	assert.Equal(t, "FANTASY", updated.Genre)
	assert.Equal(t, "T", updated.Title)

	res := c.Books.Update(ctx, book.ID, BookInput{})
	requireError(t, res.Errors(), response.CodeBadInput, "", "No value(s) sent for updation.")

	res = c.Books.Update(ctx, book.ID, BookInput{Genre: ptr("HORROR")})
	requireError(t, res.Errors(), response.CodeBadInput, "genre", genreMessage)

	res = c.Books.Update(ctx, 0, BookInput{})
	requireError(t, res.Errors(), response.CodeBadInput, "id", "Id is required for updation.")

	res = c.Books.Update(ctx, 4242, BookInput{Title: ptr("x")})
	requireError(t, res.Errors(), response.CodeInfo, "-", "No Book exists with the requested Id: 4242")
}

func TestUpdateBookIgnoresUnparsableAuthor(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	seedAuthor(t, c)
	book, _ := c.Books.Add(ctx, BookInput{Title: ptr("T"), YearPublished: ptr("1990"), AuthorID: ptr("1")}).Value()

	res := c.Books.Update(ctx, book.ID, BookInput{AuthorID: ptr("not-a-number")})
	requireError(t, res.Errors(), response.CodeBadInput, "", "No value(s) sent for updation.")

	updated, ok := c.Books.Update(ctx, book.ID, BookInput{Title: ptr("T2"), AuthorID: ptr("nope")}).Value()
	require.True(t, ok)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, int64(1), updated.AuthorID)
}

func TestDeleteAndListBooks(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	author := seedAuthor(t, c)
	c.Books.Add(ctx, BookInput{Title: ptr("A"), YearPublished: ptr("1"), Genre: ptr("COMICS"), AuthorID: ptr("1")})
	second, _ := c.Books.Add(ctx, BookInput{Title: ptr("B"), YearPublished: ptr("2"), AuthorID: ptr("1")}).Value()

	books, ok := c.Books.List(ctx, Query{Where: data.Where{"author": author.ID}}).Value()
	require.True(t, ok)
	assert.Len(t, books, 2)

	books, ok = c.Books.List(ctx, Query{Where: `{"genre":"COMICS"}`}).Value()
	require.True(t, ok)
	require.Len(t, books, 1)
	assert.Equal(t, "A", books[0].Title)

	deleted, ok := c.Books.Delete(ctx, second.ID).Value()
	require.True(t, ok)
	assert.Equal(t, "B", deleted.Title)

	res := c.Books.Delete(ctx, second.ID)
	requireError(t, res.Errors(), response.CodeInfo, "-", "No Book exists with the requested Id: 2")

	res = c.Books.Get(ctx, Query{ID: second.ID})
	assert.Equal(t, response.CodeInfo, res.Code())
}
