package jsonapi

import "fmt"

// Resource is the accessor contract the codec uses to read an application
// record. Implement it per concrete record kind; the codec never reflects
// over struct fields.
type Resource interface {
	// ResourceID returns the record's identifier. It fails when the id field
	// is absent, which serialization surfaces as a required-field violation.
	ResourceID() (string, error)
	// ResourceType returns the wire type name.
	ResourceType() string
	// Attribute returns the value of a declared attribute.
	Attribute(name string) any
	// Relationship returns the value of a declared relationship. A nil
	// return is treated as Null.
	Relationship(name string) RelationshipValue
}

// RelationshipValue is the closed sum of relationship states: fetched single
// record, fetched collection, known-but-unfetched reference, or explicitly
// empty. Consumers must handle all four branches.
type RelationshipValue interface {
	relationshipValue()
}

// Loaded is a fetched to-one relationship.
type Loaded struct {
	Resource Resource
}

// LoadedMany is a fetched to-many relationship. An empty slice is a
// legitimately empty collection, not a missing one.
type LoadedMany struct {
	Resources []Resource
}

// NotLoaded marks a relationship whose target was never fetched. The
// reference (id, type) is still known and serializes as an identifier, but
// the target contributes nothing to included data.
type NotLoaded struct {
	ID   string
	Type string
}

// Null is an explicitly empty to-one relationship.
type Null struct{}

func (Loaded) relationshipValue()     {}
func (LoadedMany) relationshipValue() {}
func (NotLoaded) relationshipValue()  {}
func (Null) relationshipValue()       {}

// MapResource adapts a plain attribute map to the Resource interface, using a
// schema for the id field. Relationship values live in a separate map keyed
// by internal relationship name.
type MapResource struct {
	Schema *Schema
	Attrs  map[string]any
	Rels   map[string]RelationshipValue
}

// ResourceID reads the schema's id field from the attribute map.
func (m *MapResource) ResourceID() (string, error) {
	v, ok := m.Attrs[m.Schema.IDAttribute()]
	if !ok || v == nil || v == "" {
		return "", fmt.Errorf("jsonapi: resource of type %q has no %s", m.Schema.Type, m.Schema.IDAttribute())
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

// ResourceType returns the schema's type name.
func (m *MapResource) ResourceType() string { return m.Schema.Type }

// Attribute returns the named attribute, or nil when absent.
func (m *MapResource) Attribute(name string) any { return m.Attrs[name] }

// Relationship returns the named relationship value, or nil when absent.
func (m *MapResource) Relationship(name string) RelationshipValue { return m.Rels[name] }
