package middleware

import "net/http"

// Middleware wraps an http.Handler with one transport concern.
type Middleware func(http.Handler) http.Handler

// Chain accumulates middleware and applies it around a terminal handler in
// registration order: the first middleware added sees the request first.
type Chain struct {
	stack []Middleware
}

// NewChain creates a chain seeded with the given middleware.
func NewChain(middleware ...Middleware) *Chain {
	return &Chain{stack: middleware}
}

// Use appends a middleware to the chain and returns the chain for chaining
// further calls.
func (c *Chain) Use(m Middleware) *Chain {
	c.stack = append(c.stack, m)
	return c
}

// Then wraps the terminal handler with every middleware in the chain.
// Wrapping walks the stack backwards so registration order matches execution
// order.
func (c *Chain) Then(h http.Handler) http.Handler {
	for i := len(c.stack) - 1; i >= 0; i-- {
		h = c.stack[i](h)
	}
	return h
}

// ThenFunc is Then for a bare handler function.
func (c *Chain) ThenFunc(fn http.HandlerFunc) http.Handler {
	return c.Then(fn)
}

// Apply is an alias of Then kept for callers that read better as "apply the
// chain".
func (c *Chain) Apply(h http.Handler) http.Handler {
	return c.Then(h)
}
