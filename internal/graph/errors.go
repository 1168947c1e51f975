package graph

import "github.com/aoideee/library-graphql/internal/response"

// ErrorResponseResolver exposes a response.ErrorResponse as the
// ErrorResponse object type.
type ErrorResponseResolver struct {
	env *response.ErrorResponse
}

func (r *ErrorResponseResolver) Errors() *[]*ErrorResolver {
	errs := make([]*ErrorResolver, len(r.env.Errors))
	for i := range r.env.Errors {
		errs[i] = &ErrorResolver{e: r.env.Errors[i]}
	}
	return &errs
}

type ErrorResolver struct {
	e response.Error
}

func (r *ErrorResolver) Code() string     { return r.e.Code }
func (r *ErrorResolver) Message() string  { return r.e.Message }
func (r *ErrorResolver) AttrName() *string { return r.e.AttrName }

func (r *ErrorResolver) Row() *int32 {
	if r.e.Row == nil {
		return nil
	}
	row := int32(*r.e.Row)
	return &row
}

func (r *ErrorResolver) ModuleError() *ModuleErrorResolver {
	if r.e.ModuleError == nil {
		return nil
	}
	return &ModuleErrorResolver{m: *r.e.ModuleError}
}

type ModuleErrorResolver struct {
	m response.ModuleError
}

func (r *ModuleErrorResolver) Code() string    { return r.m.Code }
func (r *ModuleErrorResolver) Message() string { return r.m.Message }

func (r *ModuleErrorResolver) AttrNames() *[]*string {
	names := make([]*string, len(r.m.AttrNames))
	for i := range r.m.AttrNames {
		names[i] = &r.m.AttrNames[i]
	}
	return &names
}
