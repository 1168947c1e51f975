// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → requestID → instrument → rateLimit → router
//
// Current endpoints:
//
//	POST   /graphql          – execute a GraphQL document (JSON body)
//	GET    /graphql          – execute a GraphQL document (query string)
//	GET    /v1/healthcheck   – liveness and version
//	GET    /metrics          – Prometheus exposition
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodPost, "/graphql", app.graphqlHandler)
	router.HandlerFunc(http.MethodGet, "/graphql", app.graphqlHandler)
	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(app.metrics.registry, promhttp.HandlerOpts{}))

	return app.recoverPanic(app.requestID(app.instrument(router)(app.rateLimit(router))))
}
