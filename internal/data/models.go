// internal/data/models.go
package data

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Models is a top-level container that groups every store together.
// It is handed to the catalog layer at startup so nothing above this
// package needs to know whether records live in PostgreSQL or in memory.
type Models struct {
	Authors AuthorStore
	Books   BookStore
}

// NewModels constructs a Models value wired up to the given database connection pool.
func NewModels(db *sql.DB) Models {
	return Models{
		Authors: AuthorModel{DB: db},
		Books:   BookModel{DB: db},
	}
}

// Where is a field-equality filter keyed by attribute name, e.g.
// {"author": 3, "genre": "COMICS"}. A list value matches any of its elements.
type Where map[string]any

// Module error codes reported through QueryError.
const (
	CodeInvalidCriteria = "E_INVALID_CRITERIA"
	CodeUnique          = "E_UNIQUE"
	CodeReference       = "E_REFERENCE"
)

// QueryError is a backend failure that can be attributed to specific
// attributes of the request.
type QueryError struct {
	Code      string
	AttrNames []string
	Err       error
}

func (e *QueryError) Error() string { return e.Err.Error() }
func (e *QueryError) Unwrap() error { return e.Err }

func invalidCriteria(attr, format string, args ...any) error {
	return &QueryError{
		Code:      CodeInvalidCriteria,
		AttrNames: []string{attr},
		Err:       fmt.Errorf(format, args...),
	}
}

// constraintAttrs maps constraint names from schema.sql to the attribute
// they guard.
var constraintAttrs = map[string]string{
	"authors_pkey":         "id",
	"books_pkey":           "id",
	"books_author_id_fkey": "author",
	"books_genre_check":    "genre",
}

// Classify extracts the module error code and offending attributes from an
// error returned by a store. Unknown errors yield an empty code.
func Classify(err error) (code string, attrNames []string) {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Code, qe.AttrNames
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			code = CodeUnique
		case "foreign_key_violation":
			code = CodeReference
		default:
			code = string(pqErr.Code)
		}
		if attr, ok := constraintAttrs[pqErr.Constraint]; ok {
			attrNames = append(attrNames, attr)
		} else if pqErr.Column != "" {
			attrNames = append(attrNames, pqErr.Column)
		}
		return code, attrNames
	}
	return "", nil
}

// attrKind is the storage type of a filterable attribute.
type attrKind int

const (
	kindInt attrKind = iota
	kindString
)

// attribute describes one filterable attribute and the column behind it.
type attribute struct {
	column string
	kind   attrKind
}

// condition is one normalized term of a Where filter.
type condition struct {
	attr   string
	column string
	values []any // int64 or string; more than one value means IN
	isNull bool
}

// normalize validates where against the safe list of attributes and
// returns its terms sorted by attribute name so generated SQL is stable.
func normalize(where Where, safeList map[string]attribute) ([]condition, error) {
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]condition, 0, len(keys))
	for _, key := range keys {
		attr, ok := safeList[key]
		if !ok {
			return nil, invalidCriteria(key, "unknown attribute %q in criteria", key)
		}
		cond := condition{attr: key, column: attr.column}

		switch raw := where[key].(type) {
		case nil:
			cond.isNull = true
		case []any:
			if len(raw) == 0 {
				return nil, invalidCriteria(key, "empty list for attribute %q", key)
			}
			for _, item := range raw {
				val, err := coerce(key, attr.kind, item)
				if err != nil {
					return nil, err
				}
				cond.values = append(cond.values, val)
			}
		default:
			val, err := coerce(key, attr.kind, raw)
			if err != nil {
				return nil, err
			}
			cond.values = []any{val}
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// coerce converts a decoded JSON value to the attribute's storage type.
func coerce(attr string, kind attrKind, v any) (any, error) {
	switch kind {
	case kindInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			if n == math.Trunc(n) && !math.IsInf(n, 0) {
				return int64(n), nil
			}
		case string:
			if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				return i, nil
			}
		}
		return nil, invalidCriteria(attr, "attribute %q expects an integer, got %v", attr, v)
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, invalidCriteria(attr, "attribute %q expects a string, got %v", attr, v)
	}
}

// whereClause renders conds as a SQL WHERE clause using $N placeholders,
// returning "" when there is nothing to filter on.
func whereClause(conds []condition) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}

	terms := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, c := range conds {
		switch {
		case c.isNull:
			terms = append(terms, c.column+" IS NULL")
		case len(c.values) == 1:
			args = append(args, c.values[0])
			terms = append(terms, fmt.Sprintf("%s = $%d", c.column, len(args)))
		default:
			args = append(args, arrayArg(c.values))
			terms = append(terms, fmt.Sprintf("%s = ANY($%d)", c.column, len(args)))
		}
	}
	return "WHERE " + strings.Join(terms, " AND "), args
}

// arrayArg packs normalized values (all of one kind) into a PostgreSQL array.
func arrayArg(values []any) any {
	if _, ok := values[0].(int64); ok {
		ints := make(pq.Int64Array, len(values))
		for i, v := range values {
			ints[i] = v.(int64)
		}
		return ints
	}
	strs := make(pq.StringArray, len(values))
	for i, v := range values {
		strs[i] = v.(string)
	}
	return strs
}

// matches reports whether a record satisfies every condition. get returns
// the record's value for an attribute.
func matches(conds []condition, get func(attr string) any) bool {
	for _, c := range conds {
		if c.isNull {
			// No filterable attribute is nullable.
			return false
		}
		got := get(c.attr)
		found := false
		for _, want := range c.values {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
