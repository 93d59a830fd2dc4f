package query

import (
	"github.com/conduit-lang/jsonapi"
)

// pageKeys are the pagination options the normalizer recognizes. They cover
// offset, page-number, and cursor pagination; no cross-field validation
// happens here, so any downstream pagination strategy can consume the result.
var pageKeys = map[string]bool{
	"limit":  true,
	"offset": true,
	"page":   true,
	"size":   true,
	"cursor": true,
}

// PageStrategy normalizes the page parameter map. Keys outside the
// recognized set are rejected; values pass through untouched.
type PageStrategy struct{}

// Parse implements Strategy.
func (s *PageStrategy) Parse(ctx *jsonapi.RequestContext, params *Params) error {
	if len(params.Page) == 0 {
		return nil
	}

	page := make(map[string]string, len(params.Page))
	for key, value := range params.Page {
		if !pageKeys[key] {
			return jsonapi.InvalidPageKeyError(key)
		}
		page[key] = value
	}

	ctx.Page = page
	return nil
}
