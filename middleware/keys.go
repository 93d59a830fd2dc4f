package middleware

import (
	"context"

	"github.com/conduit-lang/jsonapi"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey int

const (
	requestContextKey contextKey = iota
	documentKey
	requestIDKey
)

// GetRequestContext extracts the normalized request context stored by
// Normalize, or nil when absent.
func GetRequestContext(ctx context.Context) *jsonapi.RequestContext {
	if rc, ok := ctx.Value(requestContextKey).(*jsonapi.RequestContext); ok {
		return rc
	}
	return nil
}

// SetRequestContext stores the normalized request context.
func SetRequestContext(ctx context.Context, rc *jsonapi.RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// GetDocument extracts the deserialized request document, or nil when the
// request carried no JSON:API body.
func GetDocument(ctx context.Context) *jsonapi.Document {
	if doc, ok := ctx.Value(documentKey).(*jsonapi.Document); ok {
		return doc
	}
	return nil
}

// SetDocument stores the deserialized request document.
func SetDocument(ctx context.Context, doc *jsonapi.Document) context.Context {
	return context.WithValue(ctx, documentKey, doc)
}

// GetRequestID extracts the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// SetRequestID adds the request ID to the context.
func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}
