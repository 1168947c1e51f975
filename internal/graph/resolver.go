package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/aoideee/library-graphql/internal/catalog"
	"github.com/aoideee/library-graphql/internal/data"
	"github.com/aoideee/library-graphql/internal/response"
)

const msgNoData = "No data matched your selection criteria"

// Resolver is the root of the schema. Query and mutation fields of every
// fragment are methods on it.
type Resolver struct {
	catalog *catalog.Catalog
}

// AuthorInput is the AuthorInput input type.
type AuthorInput struct {
	Name    *string
	Country *string
}

// BookInput is the BookInput input type. The author key is an ID so that
// clients may send it as a number or as a string.
type BookInput struct {
	Title         *string
	YearPublished *string
	Genre         *string
	AuthorID      *graphql.ID
}

func (in BookInput) toCatalog() catalog.BookInput {
	out := catalog.BookInput{Title: in.Title, YearPublished: in.YearPublished, Genre: in.Genre}
	if in.AuthorID != nil {
		id := string(*in.AuthorID)
		out.AuthorID = &id
	}
	return out
}

// Authors

func (r *Resolver) GetAuthor(ctx context.Context, args struct{ ID int32 }) *AuthorResponse {
	return guarded(ctx, "Query.getAuthor", authorDenied, func() *AuthorResponse {
		return &AuthorResponse{r.catalog.Authors.Get(ctx, catalog.Query{ID: int64(args.ID)}), r.catalog}
	})
}

func (r *Resolver) GetAuthors(ctx context.Context, args struct{ Filter *string }) *[]*AuthorResponse {
	return guarded(ctx, "Query.getAuthors", listOf(authorDenied), func() *[]*AuthorResponse {
		res := r.catalog.Authors.List(ctx, catalog.Query{Where: args.Filter})
		return wrapList(res, func(a *data.Author) *AuthorResponse {
			return &AuthorResponse{response.Ok(a), r.catalog}
		}, authorDenied)
	})
}

func (r *Resolver) AddAuthor(ctx context.Context, args struct{ Data AuthorInput }) *AuthorResponse {
	return guarded(ctx, "Mutation.addAuthor", authorDenied, func() *AuthorResponse {
		in := catalog.AuthorInput{Name: args.Data.Name, Country: args.Data.Country}
		return &AuthorResponse{r.catalog.Authors.Add(ctx, in), r.catalog}
	})
}

func (r *Resolver) UpdateAuthor(ctx context.Context, args struct {
	ID   int32
	Data AuthorInput
}) *AuthorResponse {
	return guarded(ctx, "Mutation.updateAuthor", authorDenied, func() *AuthorResponse {
		in := catalog.AuthorInput{Name: args.Data.Name, Country: args.Data.Country}
		return &AuthorResponse{r.catalog.Authors.Update(ctx, int64(args.ID), in), r.catalog}
	})
}

func (r *Resolver) DeleteAuthor(ctx context.Context, args struct{ ID int32 }) *AuthorResponse {
	return guarded(ctx, "Mutation.deleteAuthor", authorDenied, func() *AuthorResponse {
		return &AuthorResponse{r.catalog.Authors.Delete(ctx, int64(args.ID)), r.catalog}
	})
}

// Books

func (r *Resolver) GetBook(ctx context.Context, args struct{ ID int32 }) *BookResponse {
	return guarded(ctx, "Query.getBook", bookDenied, func() *BookResponse {
		return &BookResponse{r.catalog.Books.Get(ctx, catalog.Query{ID: int64(args.ID)}), r.catalog}
	})
}

func (r *Resolver) GetBooks(ctx context.Context, args struct{ Filter *string }) *[]*BookResponse {
	return guarded(ctx, "Query.getBooks", listOf(bookDenied), func() *[]*BookResponse {
		res := r.catalog.Books.List(ctx, catalog.Query{Where: args.Filter})
		return wrapList(res, func(b *data.Book) *BookResponse {
			return &BookResponse{response.Ok(b), r.catalog}
		}, bookDenied)
	})
}

func (r *Resolver) AddBook(ctx context.Context, args struct{ Data BookInput }) *BookResponse {
	return guarded(ctx, "Mutation.addBook", bookDenied, func() *BookResponse {
		return &BookResponse{r.catalog.Books.Add(ctx, args.Data.toCatalog()), r.catalog}
	})
}

func (r *Resolver) UpdateBook(ctx context.Context, args struct {
	ID   int32
	Data BookInput
}) *BookResponse {
	return guarded(ctx, "Mutation.updateBook", bookDenied, func() *BookResponse {
		return &BookResponse{r.catalog.Books.Update(ctx, int64(args.ID), args.Data.toCatalog()), r.catalog}
	})
}

func (r *Resolver) DeleteBook(ctx context.Context, args struct{ ID int32 }) *BookResponse {
	return guarded(ctx, "Mutation.deleteBook", bookDenied, func() *BookResponse {
		return &BookResponse{r.catalog.Books.Delete(ctx, int64(args.ID)), r.catalog}
	})
}

// AuthorResponse is the AuthorResponse union. Its member is decided by the
// tag of the wrapped result, never by inspecting fields.
type AuthorResponse struct {
	result  response.Result[*data.Author]
	catalog *catalog.Catalog
}

func (u *AuthorResponse) ToAuthor() (*AuthorResolver, bool) {
	a, ok := u.result.Value()
	if !ok {
		return nil, false
	}
	return &AuthorResolver{author: a, catalog: u.catalog}, true
}

func (u *AuthorResponse) ToErrorResponse() (*ErrorResponseResolver, bool) {
	if !u.result.IsError() {
		return nil, false
	}
	return &ErrorResponseResolver{env: u.result.Errors()}, true
}

// BookResponse is the BookResponse union.
type BookResponse struct {
	result  response.Result[*data.Book]
	catalog *catalog.Catalog
}

func (u *BookResponse) ToBook() (*BookResolver, bool) {
	b, ok := u.result.Value()
	if !ok {
		return nil, false
	}
	return &BookResolver{book: b, catalog: u.catalog}, true
}

func (u *BookResponse) ToErrorResponse() (*ErrorResponseResolver, bool) {
	if !u.result.IsError() {
		return nil, false
	}
	return &ErrorResponseResolver{env: u.result.Errors()}, true
}

func authorDenied(errs *response.ErrorResponse) *AuthorResponse {
	return &AuthorResponse{result: response.Fail[*data.Author](errs)}
}

func bookDenied(errs *response.ErrorResponse) *BookResponse {
	return &BookResponse{result: response.Fail[*data.Book](errs)}
}

// listOf lifts a single-value failure into a one-element list.
func listOf[U any](fail func(*response.ErrorResponse) *U) func(*response.ErrorResponse) *[]*U {
	return func(errs *response.ErrorResponse) *[]*U {
		list := []*U{fail(errs)}
		return &list
	}
}

// wrapList turns a list result into union members. A failed result becomes
// a single error member and an empty one a single I_INFO member.
func wrapList[T, U any](res response.Result[[]*T], ok func(*T) *U, fail func(*response.ErrorResponse) *U) *[]*U {
	records, success := res.Value()
	if !success {
		return listOf(fail)(res.Errors())
	}
	if len(records) == 0 {
		return listOf(fail)(response.Info(msgNoData))
	}
	list := make([]*U, len(records))
	for i, rec := range records {
		list[i] = ok(rec)
	}
	return &list
}

// AuthorResolver resolves the fields of Author.
type AuthorResolver struct {
	author  *data.Author
	catalog *catalog.Catalog
}

func (r *AuthorResolver) ID() int32         { return int32(r.author.ID) }
func (r *AuthorResolver) Name() string      { return r.author.Name }
func (r *AuthorResolver) Country() *string  { return &r.author.Country }
func (r *AuthorResolver) CreatedAt() string { return timestamp(r.author.CreatedAt) }
func (r *AuthorResolver) UpdatedAt() string { return timestamp(r.author.UpdatedAt) }

// Books loads the author's books only when the field is selected. An
// author without books gets an empty list.
func (r *AuthorResolver) Books(ctx context.Context) *[]*BookResponse {
	return guarded(ctx, "Author.books", listOf(bookDenied), func() *[]*BookResponse {
		res := r.catalog.Books.List(ctx, catalog.Query{Where: data.Where{"author": r.author.ID}})
		books, ok := res.Value()
		if !ok {
			return listOf(bookDenied)(res.Errors())
		}
		list := make([]*BookResponse, len(books))
		for i, b := range books {
			list[i] = &BookResponse{response.Ok(b), r.catalog}
		}
		return &list
	})
}

// BookResolver resolves the fields of Book.
type BookResolver struct {
	book    *data.Book
	catalog *catalog.Catalog
}

func (r *BookResolver) ID() int32             { return int32(r.book.ID) }
func (r *BookResolver) Title() string         { return r.book.Title }
func (r *BookResolver) YearPublished() string { return r.book.YearPublished }
func (r *BookResolver) Genre() *string        { return &r.book.Genre }
func (r *BookResolver) CreatedAt() string     { return timestamp(r.book.CreatedAt) }
func (r *BookResolver) UpdatedAt() string     { return timestamp(r.book.UpdatedAt) }

// Author loads the book's author only when the field is selected.
func (r *BookResolver) Author(ctx context.Context) *AuthorResponse {
	return guarded(ctx, "Book.author", authorDenied, func() *AuthorResponse {
		return &AuthorResponse{r.catalog.Authors.Get(ctx, catalog.Query{ID: r.book.AuthorID}), r.catalog}
	})
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
