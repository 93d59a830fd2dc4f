package query

import (
	"strings"

	"github.com/conduit-lang/jsonapi"
)

// SortStrategy normalizes the sort parameter. A '-' prefix marks descending
// order. Every field must be a declared attribute of the primary schema; the
// input order is preserved in the result.
type SortStrategy struct {
	Caser jsonapi.Caser
}

// Parse implements Strategy.
func (s *SortStrategy) Parse(ctx *jsonapi.RequestContext, params *Params) error {
	fields := splitCSV(params.Sort)
	if len(fields) == 0 {
		return nil
	}

	sorts := make([]jsonapi.SortField, 0, len(fields))
	for _, field := range fields {
		desc := strings.HasPrefix(field, "-")
		name := s.Caser.FieldToInternal(strings.TrimPrefix(field, "-"))
		if _, ok := ctx.Schema.Attribute(name); !ok {
			return jsonapi.InvalidSortFieldError(name)
		}
		sorts = append(sorts, jsonapi.SortField{Field: name, Desc: desc})
	}

	ctx.Sort = sorts
	return nil
}
