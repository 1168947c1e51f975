package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/aoideee/library-graphql/internal/response"
)

// Interceptor is one step of the request pipeline. It returns nil to let
// the request continue or an envelope to stop it.
type Interceptor func(ctx context.Context) *response.ErrorResponse

// Chain runs interceptors in order and stops at the first failure.
type Chain []Interceptor

// Run executes the chain. A nil result means every step passed.
func (c Chain) Run(ctx context.Context) *response.ErrorResponse {
	for _, step := range c {
		if errs := step(ctx); errs != nil {
			return errs
		}
	}
	return nil
}

// Guard builds authenticate and authorize interceptors from an
// Authenticator and a PermissionChecker.
type Guard struct {
	authn  Authenticator
	perms  PermissionChecker
	logger *zap.Logger
}

// NewGuard returns a Guard. Nil collaborators fall back to the stub
// authenticator and the allow-all checker.
func NewGuard(authn Authenticator, perms PermissionChecker, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if authn == nil {
		authn = NewStubAuthenticator()
	}
	if perms == nil {
		perms = AllowAll{Logger: logger}
	}
	return &Guard{authn: authn, perms: perms, logger: logger}
}

// Authenticate returns the principal of the request in ctx, authenticating
// at most once per RequestContext.
func (g *Guard) Authenticate(ctx context.Context) (*Principal, *response.ErrorResponse) {
	rc, ok := FromContext(ctx)
	if !ok {
		return g.authn.Authenticate(ctx, nil)
	}
	return rc.resolve(func() (*Principal, *response.ErrorResponse) {
		return g.authn.Authenticate(ctx, rc.Header)
	})
}

// Authorize checks that principal holds scope. An admin-only scope is
// refused to non-admins before the permission checker is consulted.
func (g *Guard) Authorize(ctx context.Context, principal *Principal, scope Scope) bool {
	allowed := false
	switch {
	case scope.Qualifier == "":
		allowed = g.perms.CheckPermission(ctx, principal.RoleID, scope.Permission, scope.Resource)
	case scope.AdminOnly() && principal.IsRoleAdmin:
		allowed = g.perms.CheckPermission(ctx, principal.RoleID, scope.Permission, scope.Resource)
	}

	if !allowed {
		g.logger.Info("access denied",
			zap.String("user", principal.FullName),
			zap.String("email", principal.EmailAddress),
			zap.String("scope", scope.Raw))
	}
	return allowed
}

// AuthenticateStep is the interceptor behind @authenticate.
func (g *Guard) AuthenticateStep(ctx context.Context) *response.ErrorResponse {
	_, errs := g.Authenticate(ctx)
	return errs
}

// AuthorizeStep returns the interceptor behind @authorize(scope). It
// authenticates first, so it does not depend on @authenticate having run.
func (g *Guard) AuthorizeStep(rawScope string) Interceptor {
	scope, err := ParseScope(rawScope)
	return func(ctx context.Context) *response.ErrorResponse {
		principal, errs := g.Authenticate(ctx)
		if errs != nil {
			return errs
		}
		if err != nil {
			g.logger.Error("invalid scope", zap.String("scope", rawScope), zap.Error(err))
			return response.NoPermission(rawScope)
		}
		if !g.Authorize(ctx, principal, scope) {
			return response.NoPermission(rawScope)
		}
		return nil
	}
}

// Pipeline returns the authenticate → authorize chain for a field
// requiring scope. An empty scope only authenticates.
func (g *Guard) Pipeline(scope string) Chain {
	if scope == "" {
		return Chain{g.AuthenticateStep}
	}
	return Chain{g.AuthenticateStep, g.AuthorizeStep(scope)}
}
