package graph

import (
	"context"

	"github.com/graph-gophers/graphql-go/ast"
	"github.com/pkg/errors"

	"github.com/aoideee/library-graphql/internal/auth"
	"github.com/aoideee/library-graphql/internal/response"
)

// returnArray is the returnType of fields that answer with a list.
const returnArray = "array"

// fieldRule is what @authenticate and @authorize ask of one field. An empty
// scope only authenticates.
type fieldRule struct {
	scope      string
	returnType string
}

// access holds the rules of every guarded field, keyed "Type.field".
type access struct {
	guard *auth.Guard
	rules map[string]fieldRule
}

type accessKey struct{}

func withAccess(ctx context.Context, a *access) context.Context {
	return context.WithValue(ctx, accessKey{}, a)
}

func accessFrom(ctx context.Context) *access {
	a, _ := ctx.Value(accessKey{}).(*access)
	return a
}

// check runs the authenticate → authorize chain of field. Resolvers only
// ask about fields they guard, so a field without a rule is refused.
func (a *access) check(ctx context.Context, field string) *response.ErrorResponse {
	rule, ok := a.rules[field]
	if !ok {
		return response.NoPermission(field)
	}
	return a.guard.Pipeline(rule.scope).Run(ctx)
}

// collectRules reads the auth directives off every object field of schema.
func collectRules(schema *ast.Schema) (map[string]fieldRule, error) {
	rules := make(map[string]fieldRule)
	for _, obj := range schema.Objects {
		for _, f := range obj.Fields {
			authn := f.Directives.Get("authenticate")
			authz := f.Directives.Get("authorize")
			if authn == nil && authz == nil {
				continue
			}
			key := obj.Name + "." + f.Name

			var rule fieldRule
			for _, d := range []*ast.Directive{authn, authz} {
				if d == nil {
					continue
				}
				if rt, ok := stringArg(d, "returnType"); ok {
					if rule.returnType != "" && rule.returnType != rt {
						return nil, errors.Errorf("%s: conflicting returnType %q and %q", key, rule.returnType, rt)
					}
					rule.returnType = rt
				}
			}
			if authz != nil {
				scope, ok := stringArg(authz, "scope")
				if !ok || scope == "" {
					return nil, errors.Errorf("%s: @authorize without a scope", key)
				}
				if _, err := auth.ParseScope(scope); err != nil {
					return nil, errors.Wrap(err, key)
				}
				rule.scope = scope
			}
			if isList(f.Type) != (rule.returnType == returnArray) {
				return nil, errors.Errorf("%s: returnType %q does not fit %s", key, rule.returnType, f.Type)
			}

			rules[key] = rule
		}
	}
	return rules, nil
}

func stringArg(d *ast.Directive, name string) (string, bool) {
	v, ok := d.Arguments.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.Deserialize(nil).(string)
	return s, ok
}

func isList(t ast.Type) bool {
	if nn, ok := t.(*ast.NonNull); ok {
		t = nn.OfType
	}
	_, ok := t.(*ast.List)
	return ok
}

// guarded runs the auth chain of field and answers with deny when it fails,
// with resolve otherwise.
func guarded[T any](ctx context.Context, field string, deny func(*response.ErrorResponse) T, resolve func() T) T {
	a := accessFrom(ctx)
	if a == nil {
		return deny(response.NoPermission(field))
	}
	if errs := a.check(ctx, field); errs != nil {
		return deny(errs)
	}
	return resolve()
}
