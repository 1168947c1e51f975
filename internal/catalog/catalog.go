// Package catalog implements the create/read/update/delete helpers for
// authors and books. Every helper validates its input before touching the
// store and converts every outcome, including store failures, into a
// response.Result; no error value escapes this package.
package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aoideee/library-graphql/internal/data"
	"github.com/aoideee/library-graphql/internal/response"
	"github.com/aoideee/library-graphql/internal/validator"
)

// Catalog groups the per-entity services.
type Catalog struct {
	Authors *AuthorService
	Books   *BookService
}

// New wires a Catalog to the given stores.
func New(models data.Models, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		Authors: &AuthorService{store: models.Authors, logger: logger.Named("author")},
		Books:   &BookService{store: models.Books, logger: logger.Named("book")},
	}
}

// Query selects records by id, by filter, or both. Where may be nil, a
// data.Where, a map[string]any, or a string holding a JSON object.
type Query struct {
	ID    int64
	Where any
}

const (
	msgWhereInvalid   = "Where clause should be a valid JSON object."
	msgNothingToApply = "No value(s) sent for updation."
	msgIDForUpdate    = "Id is required for updation."
	msgIDForDelete    = "Id is required for deletion."
	msgIDForFetch     = "Id is required for retrieval."
)

// criteria builds the store filter for q. The id, when set, is added to
// the filter and overrides any "id" term it already had.
func criteria(q Query) (data.Where, *response.ErrorResponse) {
	where, errs := parseWhere(q.Where)
	if errs != nil {
		return nil, errs
	}
	if q.ID != 0 {
		where["id"] = q.ID
	}
	return where, nil
}

// parseWhere normalizes the accepted filter shapes into a fresh data.Where.
func parseWhere(raw any) (data.Where, *response.ErrorResponse) {
	where := data.Where{}

	switch v := raw.(type) {
	case nil:
		return where, nil
	case *string:
		if v == nil {
			return where, nil
		}
		return parseWhere(*v)
	case string:
		if strings.TrimSpace(v) == "" {
			return where, nil
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return nil, response.BadInput("where", msgWhereInvalid)
		}
		for k, val := range decoded {
			where[k] = val
		}
		return where, nil
	case data.Where:
		for k, val := range v {
			where[k] = val
		}
		return where, nil
	case map[string]any:
		for k, val := range v {
			where[k] = val
		}
		return where, nil
	default:
		return nil, response.BadInput("where", msgWhereInvalid)
	}
}

// apiFailure wraps a store error into the E_API_ERROR envelope. A
// PostgreSQL error contributes its primary message only.
func apiFailure(message string, err error) *response.ErrorResponse {
	code, attrs := data.Classify(err)
	detail := errors.Cause(err).Error()
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		detail = pqErr.Message
	}
	return response.APIFailure(message, response.ModuleError{
		Code:      code,
		AttrNames: attrs,
		Message:   detail,
	})
}

// firstOrNotFound picks the first record of a lookup by id.
func firstOrNotFound[T any](records []*T, entity string, id int64) response.Result[*T] {
	if len(records) == 0 {
		return response.Fail[*T](response.NotFound(entity, id))
	}
	return response.Ok(records[0])
}

// badInput converts the first validation failure into an envelope.
func badInput(v *validator.Validator) *response.ErrorResponse {
	fe, ok := v.First()
	if !ok {
		return nil
	}
	return response.BadInput(fe.Key, fe.Message)
}

// orUnknown returns *s, or data.UnknownValue when s is nil or empty.
func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return data.UnknownValue
	}
	return *s
}

// parseID parses a foreign key sent as text. It reports false for a nil
// input or anything that is not a base-10 integer.
func parseID(s *string) (int64, bool) {
	if s == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
