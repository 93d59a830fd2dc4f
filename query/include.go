package query

import (
	"strings"

	"github.com/conduit-lang/jsonapi"
)

// IncludeStrategy normalizes the include parameter into a path tree. Each
// dotted path segment must name a declared relationship on the schema
// reachable at that depth, validated against the target schema of the
// previous segment.
type IncludeStrategy struct {
	Registry *jsonapi.Registry
	Caser    jsonapi.Caser
}

// Parse implements Strategy.
func (s *IncludeStrategy) Parse(ctx *jsonapi.RequestContext, params *Params) error {
	paths := splitCSV(params.Include)
	if len(paths) == 0 {
		return nil
	}

	tree := jsonapi.IncludeTree{}
	for _, path := range paths {
		segments := strings.Split(path, ".")
		internal := make([]string, 0, len(segments))

		schema := ctx.Schema
		for _, segment := range segments {
			name := s.Caser.FieldToInternal(segment)
			rel, ok := schema.Relationship(name)
			if !ok {
				return jsonapi.InvalidRelationshipError(schema.Type, segment)
			}
			internal = append(internal, name)

			target, ok := s.Registry.Lookup(rel.Target)
			if !ok {
				return jsonapi.InvalidRelationshipError(schema.Type, segment)
			}
			schema = target
		}
		tree.Add(internal)
	}

	ctx.Include = tree
	return nil
}
