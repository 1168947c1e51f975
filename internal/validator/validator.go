// Package validator provides a Validator type for accumulating field-level
// validation errors and reporting the first one in the order it was found.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// structValidate is shared by every Validator; playground validators are
// safe for concurrent use and cache struct metadata.
var structValidate = newStructValidate()

func newStructValidate() *playground.Validate {
	v := playground.New()
	// Report fields by their JSON name so they match the GraphQL input names.
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError is a single recorded failure.
type FieldError struct {
	Key     string
	Message string
}

// Validator holds a map of field names to their validation error messages.
// A Validator with an empty Errors map is considered valid.
type Validator struct {
	Errors map[string]string
	order  []string // keys in the order they were first recorded
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid returns true if the Errors map contains no entries.
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError records key as failing with the given message.
// If key already has an error it is not overwritten, so the first
// failure for a field is always the one that is reported.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
		v.order = append(v.order, key)
	}
}

// Check adds an error for key with message only when ok is false.
// Use this as a single-line guard:
//
//	v.Check(id != 0, "id", "Id is required for updation.")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// First returns the earliest recorded error.
func (v *Validator) First() (FieldError, bool) {
	if len(v.order) == 0 {
		return FieldError{}, false
	}
	key := v.order[0]
	return FieldError{Key: key, Message: v.Errors[key]}, true
}

// Struct validates the `validate` tags of the struct pointed to by s and
// records one error per failing field, in field declaration order.
//
// Messages are built from two extra tags: `label` is the human readable
// field name and `type` the expected input type (defaults to "string").
func (v *Validator) Struct(s any) {
	err := structValidate.Struct(s)
	if err == nil {
		return
	}

	fieldErrs, ok := err.(playground.ValidationErrors)
	if !ok {
		// Only reachable for a nil or non-struct argument.
		v.AddError("", err.Error())
		return
	}

	st := reflect.TypeOf(s)
	for st.Kind() == reflect.Ptr {
		st = st.Elem()
	}

	for _, fe := range fieldErrs {
		label, typ := fe.Field(), "string"
		if sf, found := st.FieldByName(fe.StructField()); found {
			if l := sf.Tag.Get("label"); l != "" {
				label = l
			}
			if t := sf.Tag.Get("type"); t != "" {
				typ = t
			}
		}
		v.AddError(fe.Field(), message(fe, label, typ))
	}
}

// message renders the client-facing text for a failed tag.
func message(fe playground.FieldError, label, typ string) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required and should be of type %q", label, typ)
	case "oneof":
		return fmt.Sprintf("%s should be one of %q", label, QuoteList(strings.Fields(fe.Param())...))
	default:
		return fmt.Sprintf("%s should be of type %q", label, typ)
	}
}

// QuoteList renders values as 'A', 'B', 'C'.
func QuoteList(values ...string) string {
	quoted := make([]string, len(values))
	for i, val := range values {
		quoted[i] = "'" + val + "'"
	}
	return strings.Join(quoted, ", ")
}
