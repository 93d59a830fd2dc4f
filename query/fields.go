package query

import (
	"github.com/conduit-lang/jsonapi"
)

// FieldsStrategy normalizes sparse fieldsets. Field names for the primary
// schema's own type are validated against its declared attributes and
// relationships; entries for other types pass through unvalidated, since
// their schemas are validated when they are the primary type of a request.
type FieldsStrategy struct {
	Caser jsonapi.Caser
}

// Parse implements Strategy.
func (s *FieldsStrategy) Parse(ctx *jsonapi.RequestContext, params *Params) error {
	if len(params.Fields) == 0 {
		return nil
	}

	fields := make(map[string]map[string]bool, len(params.Fields))
	for typ, csv := range params.Fields {
		allowed := make(map[string]bool)
		for _, name := range splitCSV(csv) {
			internal := s.Caser.FieldToInternal(name)
			if typ == ctx.Schema.Type && !ctx.Schema.HasField(internal) {
				return jsonapi.InvalidFieldError(typ, name)
			}
			allowed[internal] = true
		}
		fields[typ] = allowed
	}

	ctx.Fields = fields
	return nil
}
