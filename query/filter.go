package query

import (
	"github.com/conduit-lang/jsonapi"
)

// PassthroughFilter is the identity filter strategy: the raw filter map is
// stored on the context unchanged. Applications that filter through a data
// layer convention can wrap or replace it with their own strategy.
type PassthroughFilter struct{}

// Parse implements Strategy.
func (s *PassthroughFilter) Parse(ctx *jsonapi.RequestContext, params *Params) error {
	if len(params.Filter) == 0 {
		return nil
	}
	ctx.Filter = params.Filter
	return nil
}

// AllowlistFilter accepts only filter keys present in Keys and stores the
// surviving map on the context. Unknown keys fail validation.
type AllowlistFilter struct {
	Keys []string
}

// Parse implements Strategy.
func (s *AllowlistFilter) Parse(ctx *jsonapi.RequestContext, params *Params) error {
	if len(params.Filter) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(s.Keys))
	for _, key := range s.Keys {
		allowed[key] = true
	}

	filter := make(map[string]string, len(params.Filter))
	for key, value := range params.Filter {
		if !allowed[key] {
			return &jsonapi.RequestError{
				Status: 400,
				Code:   "invalid_filter",
				Title:  "Invalid Filter Key",
				Detail: key + " is not a filterable field",
				Param:  "filter[" + key + "]",
			}
		}
		filter[key] = value
	}

	ctx.Filter = filter
	return nil
}
