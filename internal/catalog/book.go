package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/aoideee/library-graphql/internal/data"
	"github.com/aoideee/library-graphql/internal/response"
	"github.com/aoideee/library-graphql/internal/validator"
)

const bookEntity = "Book"

// BookInput carries the attributes a client sent for a book. AuthorID is
// text because clients may send the key either as a number or a string.
type BookInput struct {
	Title         *string
	YearPublished *string
	Genre         *string
	AuthorID      *string
}

// bookCreate is validated before an insert. Field order is the order in
// which failures are reported.
type bookCreate struct {
	Title         *string `json:"title" label:"Title" validate:"required"`
	YearPublished *string `json:"yearPublished" label:"Year Published" validate:"required"`
	Genre         *string `json:"genre" label:"Genre" validate:"required,oneof=ADVENTURE COMICS FANTASY UNKNOWN"`
	AuthorID      *int64  `json:"authorId" label:"Author Id" type:"integer" validate:"required"`
}

// bookUpdate checks the optional attributes of a partial update.
type bookUpdate struct {
	Genre *string `json:"genre" label:"Genre" validate:"omitempty,oneof=ADVENTURE COMICS FANTASY UNKNOWN"`
}

// BookService implements the book helpers on top of a BookStore.
type BookService struct {
	store  data.BookStore
	logger *zap.Logger
}

// Add validates in and creates one book. Genre defaults to UNKNOWN; the
// author key is required and must parse as an integer.
func (s *BookService) Add(ctx context.Context, in BookInput) response.Result[*data.Book] {
	genre := orUnknown(in.Genre)
	create := bookCreate{Title: in.Title, YearPublished: in.YearPublished, Genre: &genre}
	if authorID, ok := parseID(in.AuthorID); ok {
		create.AuthorID = &authorID
	}

	v := validator.New()
	v.Struct(&create)
	if errs := badInput(v); errs != nil {
		return response.Fail[*data.Book](errs)
	}

	book := &data.Book{
		Title:         *create.Title,
		YearPublished: *create.YearPublished,
		Genre:         genre,
		AuthorID:      *create.AuthorID,
	}
	if err := s.store.Create(ctx, book); err != nil {
		s.logger.Debug("add failed", zap.Error(err))
		return response.Fail[*data.Book](apiFailure("Book add request failed.", err))
	}

	s.logger.Debug("book added", zap.Int64("id", book.ID), zap.String("title", book.Title))
	return response.Ok(book)
}

// Update changes the attributes set in in on the book with the given id.
// An author key that does not parse as an integer is ignored, as if it had
// not been sent.
func (s *BookService) Update(ctx context.Context, id int64, in BookInput) response.Result[*data.Book] {
	patch := data.BookPatch{
		Title:         in.Title,
		YearPublished: in.YearPublished,
		Genre:         in.Genre,
	}
	if authorID, ok := parseID(in.AuthorID); ok {
		patch.AuthorID = &authorID
	} else if in.AuthorID != nil {
		s.logger.Debug("ignoring unparsable author id", zap.String("authorId", *in.AuthorID))
	}

	v := validator.New()
	v.Check(id != 0, "id", msgIDForUpdate)
	v.Struct(&bookUpdate{Genre: in.Genre})
	v.Check(!patch.Empty(), "", msgNothingToApply)
	if errs := badInput(v); errs != nil {
		return response.Fail[*data.Book](errs)
	}

	book, err := s.store.UpdateOne(ctx, id, patch)
	if err != nil {
		s.logger.Debug("update failed", zap.Int64("id", id), zap.Error(err))
		return response.Fail[*data.Book](apiFailure("Book update request failed.", err))
	}
	if book == nil {
		return response.Fail[*data.Book](response.NotFound(bookEntity, id))
	}

	s.logger.Debug("book updated", zap.Int64("id", id))
	return response.Ok(book)
}

// Delete removes the book with the given id and returns it.
func (s *BookService) Delete(ctx context.Context, id int64) response.Result[*data.Book] {
	if id == 0 {
		return response.Fail[*data.Book](response.BadInput("id", msgIDForDelete))
	}

	book, err := s.store.DestroyOne(ctx, id)
	if err != nil {
		s.logger.Debug("delete failed", zap.Int64("id", id), zap.Error(err))
		return response.Fail[*data.Book](apiFailure("Book delete request failed.", err))
	}
	if book == nil {
		return response.Fail[*data.Book](response.NotFound(bookEntity, id))
	}

	s.logger.Debug("book deleted", zap.Int64("id", id))
	return response.Ok(book)
}

// Get returns the first book matching q, which must carry an id.
func (s *BookService) Get(ctx context.Context, q Query) response.Result[*data.Book] {
	if q.ID == 0 {
		return response.Fail[*data.Book](response.BadInput("id", msgIDForFetch))
	}
	list := s.List(ctx, q)
	books, ok := list.Value()
	if !ok {
		return response.Fail[*data.Book](list.Errors())
	}
	return firstOrNotFound(books, bookEntity, q.ID)
}

// List returns every book matching q. An empty slice is a success.
func (s *BookService) List(ctx context.Context, q Query) response.Result[[]*data.Book] {
	where, errs := criteria(q)
	if errs != nil {
		return response.Fail[[]*data.Book](errs)
	}

	books, err := s.store.Find(ctx, where)
	if err != nil {
		s.logger.Debug("fetch failed", zap.Any("where", where), zap.Error(err))
		return response.Fail[[]*data.Book](apiFailure("Book fetch request failed.", err))
	}

	s.logger.Debug("books retrieved", zap.Int("count", len(books)))
	return response.Ok(books)
}
