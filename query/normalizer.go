package query

import (
	"github.com/conduit-lang/jsonapi"
)

// Strategy normalizes one query aspect into the request context. Strategies
// run in a fixed order, so a strategy may read what earlier aspects wrote.
type Strategy interface {
	Parse(ctx *jsonapi.RequestContext, params *Params) error
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(ctx *jsonapi.RequestContext, params *Params) error

// Parse implements Strategy.
func (f StrategyFunc) Parse(ctx *jsonapi.RequestContext, params *Params) error {
	return f(ctx, params)
}

// Normalizer validates raw query parameters against a schema, composing one
// strategy per aspect in the order fields, filter, include, page, sort. A
// normalizer is configured at schema-registration time and is safe for
// concurrent use.
type Normalizer struct {
	registry *jsonapi.Registry
	schema   *jsonapi.Schema

	fields  Strategy
	filter  Strategy
	include Strategy
	page    Strategy
	sort    Strategy
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithCaser sets the field-name convention used by the default strategies.
func WithCaser(caser jsonapi.Caser) Option {
	return func(n *Normalizer) {
		n.fields = &FieldsStrategy{Caser: caser}
		n.include = &IncludeStrategy{Registry: n.registry, Caser: caser}
		n.sort = &SortStrategy{Caser: caser}
	}
}

// WithFieldsStrategy replaces the fields strategy.
func WithFieldsStrategy(s Strategy) Option { return func(n *Normalizer) { n.fields = s } }

// WithFilterStrategy replaces the filter strategy. Without one, any filter
// parameter is rejected: filtering must be opted into explicitly, at minimum
// with PassthroughFilter.
func WithFilterStrategy(s Strategy) Option { return func(n *Normalizer) { n.filter = s } }

// WithIncludeStrategy replaces the include strategy.
func WithIncludeStrategy(s Strategy) Option { return func(n *Normalizer) { n.include = s } }

// WithPageStrategy replaces the page strategy.
func WithPageStrategy(s Strategy) Option { return func(n *Normalizer) { n.page = s } }

// WithSortStrategy replaces the sort strategy.
func WithSortStrategy(s Strategy) Option { return func(n *Normalizer) { n.sort = s } }

// New creates a normalizer for the given primary schema with the default
// strategies.
func New(registry *jsonapi.Registry, schema *jsonapi.Schema, opts ...Option) *Normalizer {
	n := &Normalizer{
		registry: registry,
		schema:   schema,
		fields:   &FieldsStrategy{},
		filter:   nil, // reject filters unless configured
		include:  &IncludeStrategy{Registry: registry},
		page:     &PageStrategy{},
		sort:     &SortStrategy{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize runs all strategies over the raw parameters and returns the
// populated request context. The first validation failure aborts the pass.
func (n *Normalizer) Normalize(params *Params) (*jsonapi.RequestContext, error) {
	if params == nil {
		params = &Params{}
	}
	ctx := &jsonapi.RequestContext{Schema: n.schema}

	strategies := []Strategy{n.fields, n.filterStrategy(), n.include, n.page, n.sort}
	for _, s := range strategies {
		if err := s.Parse(ctx, params); err != nil {
			return nil, err
		}
	}
	return ctx, nil
}

func (n *Normalizer) filterStrategy() Strategy {
	if n.filter != nil {
		return n.filter
	}
	return StrategyFunc(func(ctx *jsonapi.RequestContext, params *Params) error {
		if len(params.Filter) > 0 {
			return jsonapi.MissingFilterError()
		}
		return nil
	})
}
