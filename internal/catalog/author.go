package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/aoideee/library-graphql/internal/data"
	"github.com/aoideee/library-graphql/internal/response"
	"github.com/aoideee/library-graphql/internal/validator"
)

const authorEntity = "Author"

// AuthorInput carries the attributes a client sent for an author. A nil
// field was not sent.
type AuthorInput struct {
	Name    *string
	Country *string
}

// authorCreate is validated before an insert.
type authorCreate struct {
	Name    *string `json:"name" label:"Name" validate:"required"`
	Country *string `json:"country" label:"Country" validate:"required"`
}

// AuthorService implements the author helpers on top of an AuthorStore.
type AuthorService struct {
	store  data.AuthorStore
	logger *zap.Logger
}

// Add validates in and creates one author. Country defaults to UNKNOWN.
func (s *AuthorService) Add(ctx context.Context, in AuthorInput) response.Result[*data.Author] {
	country := orUnknown(in.Country)

	v := validator.New()
	v.Struct(&authorCreate{Name: in.Name, Country: &country})
	if errs := badInput(v); errs != nil {
		return response.Fail[*data.Author](errs)
	}

	author := &data.Author{Name: *in.Name, Country: country}
	if err := s.store.Create(ctx, author); err != nil {
		s.logger.Debug("add failed", zap.Error(err))
		return response.Fail[*data.Author](apiFailure("Author add request failed.", err))
	}

	s.logger.Debug("author added", zap.Int64("id", author.ID), zap.String("name", author.Name))
	return response.Ok(author)
}

// Update changes the attributes set in in on the author with the given id.
// A missing author is reported as I_INFO.
func (s *AuthorService) Update(ctx context.Context, id int64, in AuthorInput) response.Result[*data.Author] {
	patch := data.AuthorPatch{Name: in.Name, Country: in.Country}

	v := validator.New()
	v.Check(id != 0, "id", msgIDForUpdate)
	v.Check(!patch.Empty(), "", msgNothingToApply)
	if errs := badInput(v); errs != nil {
		return response.Fail[*data.Author](errs)
	}

	author, err := s.store.UpdateOne(ctx, id, patch)
	if err != nil {
		s.logger.Debug("update failed", zap.Int64("id", id), zap.Error(err))
		return response.Fail[*data.Author](apiFailure("Author update request failed.", err))
	}
	if author == nil {
		return response.Fail[*data.Author](response.NotFound(authorEntity, id))
	}

	s.logger.Debug("author updated", zap.Int64("id", id))
	return response.Ok(author)
}

// Delete removes the author with the given id and returns it.
func (s *AuthorService) Delete(ctx context.Context, id int64) response.Result[*data.Author] {
	if id == 0 {
		return response.Fail[*data.Author](response.BadInput("id", msgIDForDelete))
	}

	author, err := s.store.DestroyOne(ctx, id)
	if err != nil {
		s.logger.Debug("delete failed", zap.Int64("id", id), zap.Error(err))
		return response.Fail[*data.Author](apiFailure("Author delete request failed.", err))
	}
	if author == nil {
		return response.Fail[*data.Author](response.NotFound(authorEntity, id))
	}

	s.logger.Debug("author deleted", zap.Int64("id", id))
	return response.Ok(author)
}

// Get returns the first author matching q, which must carry an id.
func (s *AuthorService) Get(ctx context.Context, q Query) response.Result[*data.Author] {
	if q.ID == 0 {
		return response.Fail[*data.Author](response.BadInput("id", msgIDForFetch))
	}
	list := s.List(ctx, q)
	authors, ok := list.Value()
	if !ok {
		return response.Fail[*data.Author](list.Errors())
	}
	return firstOrNotFound(authors, authorEntity, q.ID)
}

// List returns every author matching q. An empty slice is a success.
func (s *AuthorService) List(ctx context.Context, q Query) response.Result[[]*data.Author] {
	where, errs := criteria(q)
	if errs != nil {
		return response.Fail[[]*data.Author](errs)
	}

	authors, err := s.store.Find(ctx, where)
	if err != nil {
		s.logger.Debug("fetch failed", zap.Any("where", where), zap.Error(err))
		return response.Fail[[]*data.Author](apiFailure("Author fetch request failed.", err))
	}

	s.logger.Debug("authors retrieved", zap.Int("count", len(authors)))
	return response.Ok(authors)
}
