// Package middleware connects the jsonapi codec to an HTTP transport. The
// Normalize middleware extracts query parameters and request bodies, runs
// them through the query normalizer and deserializer, and stashes the results
// on the request context; validation failures short-circuit the request with
// a 4xx error document.
package middleware

import (
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapi"
	"github.com/conduit-lang/jsonapi/query"
)

// bodyMethods are the methods whose bodies the middleware deserializes.
var bodyMethods = map[string]bool{
	http.MethodPost:  true,
	http.MethodPatch: true,
	http.MethodPut:   true,
}

// NormalizeConfig holds configuration for the Normalize middleware.
type NormalizeConfig struct {
	// Registry resolves relationship targets during include validation.
	Registry *jsonapi.Registry
	// Schema is the primary resource schema of the mounted route.
	Schema *jsonapi.Schema
	// Caser overrides the field-name convention.
	Caser jsonapi.Caser
	// Options configures the query normalizer (filter strategies and the
	// like).
	Options []query.Option
	// MaxBodySize caps request bodies in bytes. Defaults to 1MB.
	MaxBodySize int64
	// Logger receives normalization failures. Defaults to zap.NewNop().
	Logger *zap.Logger
}

// Normalize creates a middleware that validates JSON:API query parameters
// and, on body-carrying methods, deserializes the request document. The
// handler downstream reads both through GetRequestContext and GetDocument.
func Normalize(config NormalizeConfig) Middleware {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxBody := config.MaxBodySize
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	opts := append([]query.Option{query.WithCaser(config.Caser)}, config.Options...)
	normalizer := query.New(config.Registry, config.Schema, opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params := query.ParamsFromRequest(r)
			rc, err := normalizer.Normalize(params)
			if err != nil {
				renderError(w, r, logger, err)
				return
			}

			if bodyMethods[r.Method] && r.Body != nil && r.ContentLength != 0 {
				if !jsonapi.ValidateContentType(w, r) {
					return
				}

				r.Body = http.MaxBytesReader(w, r.Body, maxBody)
				raw, err := io.ReadAll(r.Body)
				if err != nil {
					renderError(w, r, logger,
						jsonapi.NewRequestError(http.StatusRequestEntityTooLarge, "request body too large"))
					return
				}

				var payload map[string]any
				if err := json.Unmarshal(raw, &payload); err != nil {
					renderError(w, r, logger,
						jsonapi.NewRequestError(http.StatusBadRequest, "request body is not valid JSON"))
					return
				}

				des := &jsonapi.Deserializer{Schema: config.Schema, Caser: config.Caser}
				flat, err := des.Deserialize(payload)
				if err != nil {
					renderError(w, r, logger,
						jsonapi.NewRequestError(http.StatusBadRequest, err.Error()))
					return
				}
				rc.Params = flat

				// the typed document is only built for documents inside the
				// JSON:API envelope; pass-through bodies have none
				if _, ok := payload["data"]; ok {
					doc, err := jsonapi.DeserializeDocument(raw)
					if err != nil {
						renderError(w, r, logger,
							jsonapi.NewRequestError(http.StatusBadRequest, err.Error()))
						return
					}
					rc.Document = doc
					r = r.WithContext(SetDocument(r.Context(), doc))
				}
			}

			r = r.WithContext(SetRequestContext(r.Context(), rc))
			next.ServeHTTP(w, r)
		})
	}
}

// renderError logs and writes a validation failure as an error document,
// halting further processing of the request.
func renderError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var reqErr *jsonapi.RequestError
	if !errors.As(err, &reqErr) {
		reqErr = jsonapi.NewRequestError(http.StatusInternalServerError, err.Error())
	}

	logger.Warn("request normalization failed",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", reqErr.Status),
		zap.String("code", reqErr.Code),
		zap.String("detail", reqErr.Detail),
	)

	jsonapi.RenderErrors(w, reqErr)
}
