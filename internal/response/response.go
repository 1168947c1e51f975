// Package response defines the uniform envelope returned by every catalog
// operation. A call either succeeds with a value or fails with an
// ErrorResponse; nothing else crosses the API boundary.
package response

import "fmt"

// Error codes carried in Error.Code. Codes prefixed with "I_" are
// informational and do not indicate a failure of the request itself.
const (
	CodeBadInput     = "E_BAD_INPUT"
	CodeAPIError     = "E_API_ERROR"
	CodeNoPermission = "E_NO_PERMISSION"
	CodeInfo         = "I_INFO"

	// Produced by the bearer-token authenticator.
	CodeAuthTokenMissing = "I_AUTHTOKEN_MISSING"
	CodeAuthTypeInvalid  = "E_AUTHTYPE_INVALID"
	CodeDecode           = "E_DECODE"
	CodeTokenExpired     = "I_TOKEN_EXPIRED"

	// Fallback for backend failures that carry no code of their own.
	CodeModuleDefault = "E_ERROR"
)

// ModuleError describes a failure reported by the persistence backend.
type ModuleError struct {
	Code      string   `json:"code"`
	AttrNames []string `json:"attrNames"`
	Message   string   `json:"message"`
}

// Error is a single structured error record.
type Error struct {
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	AttrName    *string      `json:"attrName,omitempty"` // offending input field, "" when no single field is at fault
	Row         *int         `json:"row,omitempty"`
	ModuleError *ModuleError `json:"moduleError,omitempty"`
}

// ErrorResponse is the error variant of every operation result. Errors are
// kept in the order they were recorded.
type ErrorResponse struct {
	Errors []Error `json:"errors"`
}

// Code returns the code of the first error, or "" for an empty response.
func (e *ErrorResponse) Code() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Code
}

// Error implements the error interface so an envelope can be logged or
// compared with the usual tooling.
func (e *ErrorResponse) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "empty error response"
	}
	first := e.Errors[0]
	return fmt.Sprintf("%s: %s", first.Code, first.Message)
}

// New returns an envelope holding one error record.
func New(code, message string) *ErrorResponse {
	return &ErrorResponse{Errors: []Error{{Code: code, Message: message}}}
}

// BadInput returns an E_BAD_INPUT envelope naming the offending attribute.
// An empty attr is kept as "" rather than omitted.
func BadInput(attr, message string) *ErrorResponse {
	return &ErrorResponse{Errors: []Error{{
		Code:     CodeBadInput,
		Message:  message,
		AttrName: &attr,
	}}}
}

// Info returns an I_INFO envelope.
func Info(message string) *ErrorResponse {
	return New(CodeInfo, message)
}

// NotFound is the informational envelope for a lookup by id that matched
// nothing.
func NotFound(entity string, id int64) *ErrorResponse {
	return Info(fmt.Sprintf("No %s exists with the requested Id: %d", entity, id))
}

// NoPermission returns the E_NO_PERMISSION envelope for the given scope.
func NoPermission(scope string) *ErrorResponse {
	return New(CodeNoPermission, "Expected resource Authorization: "+scope)
}

// APIFailure wraps a backend failure.
func APIFailure(message string, module ModuleError) *ErrorResponse {
	if module.Code == "" {
		module.Code = CodeModuleDefault
	}
	if module.AttrNames == nil {
		module.AttrNames = []string{}
	}
	return &ErrorResponse{Errors: []Error{{
		Code:        CodeAPIError,
		Message:     message,
		ModuleError: &module,
	}}}
}
