// Package auth establishes who is calling (authentication) and whether
// they may touch a resource (authorization). Both checks run as an ordered
// chain of interceptors in front of field resolution; the first failing
// interceptor short-circuits with an error envelope.
package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/aoideee/library-graphql/internal/response"
)

// Principal is the authenticated identity of a request.
type Principal struct {
	ID           int    `json:"id"`
	FullName     string `json:"fullName"`
	EmailAddress string `json:"emailAddress"`
	IsRoleAdmin  bool   `json:"isRoleAdmin"`
	RoleID       int    `json:"roleId"`
}

// RequestContext is created once per HTTP request and carried on its
// context. It caches the outcome of authentication so applying
// @authenticate to many fields of one document authenticates only once.
type RequestContext struct {
	Header http.Header

	mu        sync.Mutex
	resolved  bool
	principal *Principal
	failure   *response.ErrorResponse
}

// NewRequestContext returns a RequestContext for a request with the given
// headers.
func NewRequestContext(header http.Header) *RequestContext {
	if header == nil {
		header = http.Header{}
	}
	return &RequestContext{Header: header}
}

// Principal returns the cached principal, if authentication has succeeded.
func (rc *RequestContext) Principal() (*Principal, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.principal, rc.principal != nil
}

// resolve runs authenticate at most once and replays its outcome. Sibling
// fields may be resolved concurrently, hence the lock held across the call.
func (rc *RequestContext) resolve(authenticate func() (*Principal, *response.ErrorResponse)) (*Principal, *response.ErrorResponse) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if !rc.resolved {
		rc.principal, rc.failure = authenticate()
		rc.resolved = true
	}
	return rc.principal, rc.failure
}

type contextKey int

const (
	requestContextKey contextKey = iota
)

// NewContext returns a copy of ctx carrying rc.
func NewContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// FromContext returns the RequestContext stored in ctx, if any.
func FromContext(ctx context.Context) (*RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(*RequestContext)
	return rc, ok && rc != nil
}
