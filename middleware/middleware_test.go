package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapi"
	"github.com/conduit-lang/jsonapi/query"
)

func testConfig(t *testing.T) NormalizeConfig {
	t.Helper()

	reg := jsonapi.NewRegistry()
	reg.MustRegister(
		&jsonapi.Schema{Type: "users", Attributes: []jsonapi.Attribute{{Name: "name"}}},
		&jsonapi.Schema{
			Type: "posts",
			Attributes: []jsonapi.Attribute{
				{Name: "title"},
				{Name: "created_at"},
			},
			Relationships: []jsonapi.Relationship{
				{Name: "author", Target: "users"},
			},
		},
	)
	require.NoError(t, reg.Validate())

	posts, ok := reg.Lookup("posts")
	require.True(t, ok)

	return NormalizeConfig{
		Registry: reg,
		Schema:   posts,
		Logger:   zap.NewNop(),
	}
}

func TestNormalizeStoresRequestContext(t *testing.T) {
	var captured *jsonapi.RequestContext

	r := chi.NewRouter()
	r.Use(Normalize(testConfig(t)))
	r.Get("/posts", func(w http.ResponseWriter, req *http.Request) {
		captured = GetRequestContext(req.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/posts?include=author&sort=-created_at&page[limit]=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, jsonapi.IncludeTree{"author": jsonapi.IncludeTree{}}, captured.Include)
	assert.Equal(t, []jsonapi.SortField{{Field: "created_at", Desc: true}}, captured.Sort)
	assert.Equal(t, map[string]string{"limit": "10"}, captured.Page)
}

func TestNormalizeShortCircuitsValidationFailure(t *testing.T) {
	handlerCalled := false

	r := chi.NewRouter()
	r.Use(Normalize(testConfig(t)))
	r.Get("/posts", func(w http.ResponseWriter, req *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/posts?sort=-unknown_field", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, jsonapi.MediaType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "invalid_sort")
	assert.Contains(t, w.Body.String(), "unknown_field")
}

func TestNormalizeDeserializesBody(t *testing.T) {
	var captured *jsonapi.RequestContext
	var capturedDoc *jsonapi.Document

	r := chi.NewRouter()
	r.Use(Normalize(testConfig(t)))
	r.Post("/posts", func(w http.ResponseWriter, req *http.Request) {
		captured = GetRequestContext(req.Context())
		capturedDoc = GetDocument(req.Context())
		w.WriteHeader(http.StatusCreated)
	})

	body := `{
		"data": {
			"id": "1",
			"type": "posts",
			"attributes": {"title": "hello", "created-at": "2026-01-02"},
			"relationships": {"author": {"data": {"id": "9", "type": "users"}}}
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(body))
	req.Header.Set("Content-Type", jsonapi.MediaType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, captured)

	params, ok := captured.Params.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hello", params["title"])
	assert.Equal(t, "2026-01-02", params["created_at"])
	assert.Equal(t, "9", params["users_id"])

	require.NotNil(t, capturedDoc)
	assert.Equal(t, "posts", capturedDoc.Data.First().Type)
	assert.Same(t, capturedDoc, captured.Document)
}

func TestNormalizeRejectsWrongContentType(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Normalize(testConfig(t)))
	r.Post("/posts", func(w http.ResponseWriter, req *http.Request) {
		t.Error("handler should not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"data": null}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestNormalizeRejectsMalformedBody(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Normalize(testConfig(t)))
	r.Post("/posts", func(w http.ResponseWriter, req *http.Request) {
		t.Error("handler should not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", jsonapi.MediaType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not valid JSON")
}

func TestNormalizeFilterStrategyOption(t *testing.T) {
	var captured *jsonapi.RequestContext

	cfg := testConfig(t)
	cfg.Options = []query.Option{query.WithFilterStrategy(&query.PassthroughFilter{})}

	r := chi.NewRouter()
	r.Use(Normalize(cfg))
	r.Get("/posts", func(w http.ResponseWriter, req *http.Request) {
		captured = GetRequestContext(req.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/posts?filter[status]=published", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.NotNil(t, captured)
	assert.Equal(t, map[string]string{"status": "published"}, captured.Filter)
}

func TestRequestIDMiddleware(t *testing.T) {
	var fromContext string

	handler := NewChain(RequestID()).ThenFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.NotEmpty(t, fromContext)
	assert.Equal(t, fromContext, w.Header().Get("X-Request-ID"))

	// incoming header wins
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", fromContext)
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := NewChain(tag("first")).Use(tag("second")).ThenFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
