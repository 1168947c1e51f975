package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aoideee/library-graphql/internal/auth"
	"github.com/aoideee/library-graphql/internal/catalog"
	"github.com/aoideee/library-graphql/internal/data"
	"github.com/aoideee/library-graphql/internal/graph"
)

func newTestApp(t *testing.T, configure func(*serverConfig)) *applicationDependencies {
	t.Helper()

	var cfg serverConfig
	cfg.environment = "testing"
	cfg.limiter.rps = 2
	cfg.limiter.burst = 4
	if configure != nil {
		configure(&cfg)
	}

	logger := zap.NewNop()
	schema, err := graph.NewSchema(catalog.New(data.NewMemoryModels(), logger), auth.NewGuard(nil, nil, logger), logger)
	require.NoError(t, err)

	return &applicationDependencies{
		config:  cfg,
		logger:  logger,
		schema:  schema,
		metrics: newHTTPMetrics(),
	}
}

func do(t *testing.T, h http.Handler, r *http.Request) (*http.Response, string) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	res := rr.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestGraphQLPost(t *testing.T) {
	h := newTestApp(t, nil).routes()

	body := `{"query": "mutation($n: String) { addAuthor(data: {name: $n}) { __typename ... on Author { name country } } }", "variables": {"n": "Ursula"}}`
	res, out := do(t, h, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var decoded struct {
		Data struct {
			AddAuthor map[string]any `json:"addAuthor"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Author", decoded.Data.AddAuthor["__typename"])
	assert.Equal(t, "Ursula", decoded.Data.AddAuthor["name"])
	assert.Equal(t, "UNKNOWN", decoded.Data.AddAuthor["country"])
}

func TestGraphQLGet(t *testing.T) {
	h := newTestApp(t, nil).routes()

	q := url.Values{"query": {`{ getBooks { __typename ... on ErrorResponse { errors { code message } } } }`}}
	res, out := do(t, h, httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil))
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, out, "I_INFO")
	assert.Contains(t, out, "No data matched your selection criteria")
}

func TestGraphQLOperationErrorsStay200(t *testing.T) {
	h := newTestApp(t, nil).routes()

	body := `{"query": "{ getAuthor(id: 9) { __typename ... on ErrorResponse { errors { code message } } } }"}`
	res, out := do(t, h, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, out, "No Author exists with the requested Id: 9")
}

func TestGraphQLBadRequest(t *testing.T) {
	h := newTestApp(t, nil).routes()

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"query": `},
		{"unknown field", `{"query": "{ getBooks { __typename } }", "extra": 1}`},
		{"missing query", `{"variables": {}}`},
		{"trailing value", `{"query": "{ getBooks { __typename } }"} {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, out := do(t, h, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.Contains(t, out, `"error"`)
		})
	}
}

func TestHealthcheck(t *testing.T) {
	h := newTestApp(t, nil).routes()

	res, out := do(t, h, httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil))
	require.Equal(t, http.StatusOK, res.StatusCode)

	var decoded struct {
		Status     string            `json:"status"`
		SystemInfo map[string]string `json:"system_info"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "available", decoded.Status)
	assert.Equal(t, "testing", decoded.SystemInfo["environment"])
	assert.Equal(t, appVersion, decoded.SystemInfo["version"])
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestApp(t, nil).routes()

	res, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/v1/books", nil))
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, out := do(t, h, httptest.NewRequest(http.MethodDelete, "/graphql", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	assert.Contains(t, out, "the DELETE method is not supported for this resource")
}

func TestRequestID(t *testing.T) {
	h := newTestApp(t, nil).routes()

	res, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil))
	_, err := uuid.Parse(res.Header.Get(requestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	r := httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil)
	r.Header.Set(requestIDHeader, id)
	res, _ = do(t, h, r)
	assert.Equal(t, id, res.Header.Get(requestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestApp(t, nil).routes()

	do(t, h, httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil))
	res, out := do(t, h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, out, `library_http_requests_total{method="GET",route="/v1/healthcheck",status="200"} 1`)
}

func TestRateLimit(t *testing.T) {
	app := newTestApp(t, func(cfg *serverConfig) {
		cfg.limiter.enabled = true
		cfg.limiter.rps = 1
		cfg.limiter.burst = 2
	})
	h := app.routes()

	var codes []int
	for i := 0; i < 3; i++ {
		res, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil))
		codes = append(codes, res.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApp(t, nil)
	h := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	res, out := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "close", res.Header.Get("Connection"))
	assert.Contains(t, out, "the server encountered a problem")
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("LIBRARY_DB_DSN", "memory")
	t.Setenv("LIBRARY_LIMITER_RPS", "7.5")

	cmd := rootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--port", "8080", "--jwt-secret", "s3cret"}))

	cfg := loadConfig(newViper(cmd))
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, "memory", cfg.db.dsn)
	assert.Equal(t, 7.5, cfg.limiter.rps)
	assert.Equal(t, 4, cfg.limiter.burst)
	assert.True(t, cfg.limiter.enabled)
	assert.Equal(t, "s3cret", cfg.auth.jwtSecret)
	assert.Equal(t, "development", cfg.environment)
}

func TestNewGuardWithRolePolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roles:\n  1:\n    author: [read]\n"), 0o600))

	var cfg serverConfig
	cfg.auth.rbacPolicy = path
	guard, err := newGuard(cfg, zap.NewNop())
	require.NoError(t, err)

	ctx := auth.NewContext(context.Background(), auth.NewRequestContext(nil))
	assert.Nil(t, guard.Pipeline("author:read").Run(ctx))
	assert.NotNil(t, guard.Pipeline("book:read").Run(ctx))

	cfg.auth.rbacPolicy = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = newGuard(cfg, zap.NewNop())
	assert.Error(t, err)
}
