// cmd/api/handlers.go
// This file contains the HTTP request handlers. Each handler is a method on
// *applicationDependencies so it has access to the logger and the schema.
package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aoideee/library-graphql/internal/auth"
)

// graphqlHandler handles POST and GET /graphql.
// Every executed document is answered with 200 OK; operation failures are
// part of the GraphQL response body. Only a request that cannot be decoded
// gets a 400.
func (app *applicationDependencies) graphqlHandler(w http.ResponseWriter, r *http.Request) {
	req, err := app.readGraphQLRequest(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	// One request scope per HTTP request: authentication runs at most once
	// no matter how many guarded fields the document selects.
	ctx := auth.NewContext(r.Context(), auth.NewRequestContext(r.Header))

	resp := app.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
	app.logger.Debug("graphql request",
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.String("operation", req.OperationName),
		zap.Int("errors", len(resp.Errors)))

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthcheckHandler handles GET /v1/healthcheck.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	body := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.environment,
			"version":     appVersion,
		},
	}

	err := app.writeJSON(w, http.StatusOK, body, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
