package jsonapi

// IncludeTree is the nested form of the include query parameter. Each key is
// an internal relationship name; its value is the subtree of deeper paths.
// "comments.author" becomes {"comments": {"author": {}}}.
type IncludeTree map[string]IncludeTree

// Add inserts a dotted relationship path into the tree.
func (t IncludeTree) Add(segments []string) {
	if len(segments) == 0 {
		return
	}
	sub, ok := t[segments[0]]
	if !ok {
		sub = IncludeTree{}
		t[segments[0]] = sub
	}
	sub.Add(segments[1:])
}

// SortField is one element of a normalized sort parameter.
type SortField struct {
	Field string
	Desc  bool
}

// RequestContext carries the validated query parameters of one request. It is
// built once by the query normalizer, read-only afterwards, and consumed by
// the serializer and deserializer.
type RequestContext struct {
	// Schema is the primary resource schema of the request.
	Schema *Schema
	// Fields holds the sparse fieldsets: wire type to allowed internal field
	// set. A nil map, or a type with no entry, means no restriction.
	Fields map[string]map[string]bool
	// Filter is the normalized filter value. Its shape is owned by the
	// configured filter strategy.
	Filter any
	// Include is the validated include parameter as a path tree.
	Include IncludeTree
	// Page holds the recognized pagination options.
	Page map[string]string
	// Sort lists the normalized sort fields in input order.
	Sort []SortField
	// Document is the deserialized request body, when one was present.
	Document *Document
	// Params is the flattened request body produced by the deserializer: a
	// map for a single resource, a []map[string]any for a collection, or nil.
	Params any
}

// FieldAllowed reports whether the sparse fieldsets permit serializing the
// given internal field for the given wire type. A nil context allows
// everything.
func (c *RequestContext) FieldAllowed(typ, field string) bool {
	if c == nil || c.Fields == nil {
		return true
	}
	allowed, ok := c.Fields[typ]
	if !ok {
		return true
	}
	return allowed[field]
}
