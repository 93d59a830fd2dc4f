package jsonapi

import (
	"fmt"
	"sync"
)

// Attribute declares a serializable attribute on a schema. The zero options
// serialize and deserialize the attribute under its own name.
type Attribute struct {
	// Name is the internal (underscored) field name.
	Name string
	// NoSerialize excludes the attribute from serialized output.
	NoSerialize bool
	// NoDeserialize excludes the attribute from deserialized params.
	NoDeserialize bool
	// Extract overrides value extraction during serialization. When nil the
	// value comes from Resource.Attribute(Name).
	Extract func(Resource, *RequestContext) any
}

// Relationship declares a relationship on a schema. Target names the related
// schema in the registry; schemas may reference each other cyclically, so the
// link is by name rather than by pointer.
type Relationship struct {
	// Name is the internal relationship name.
	Name string
	// WireName overrides the serialized relationship name. Defaults to Name.
	WireName string
	// Many marks a to-many relationship.
	Many bool
	// Target is the registry type name of the related schema.
	Target string
}

// EffectiveWireName returns WireName, falling back to Name.
func (r Relationship) EffectiveWireName() string {
	if r.WireName != "" {
		return r.WireName
	}
	return r.Name
}

// Schema declares the wire shape of one resource type. Schemas are built at
// startup, registered once, and read-only afterwards; they are safe to share
// across concurrent requests.
type Schema struct {
	// Type is the wire type name. Required.
	Type string
	// IDField names the attribute supplying the resource identifier.
	// Defaults to "id".
	IDField string
	// Path overrides the URL path segment for this type. Defaults to Type.
	Path string
	// Attributes lists the serializable attributes.
	Attributes []Attribute
	// Relationships lists the declared relationships.
	Relationships []Relationship
	// Meta, when set, supplies resource-level meta during serialization.
	Meta func(Resource, *RequestContext) Meta
}

// PathSegment returns the URL path segment for the schema's resources.
func (s *Schema) PathSegment() string {
	if s.Path != "" {
		return s.Path
	}
	return s.Type
}

// IDAttribute returns the identifier field name.
func (s *Schema) IDAttribute() string {
	if s.IDField != "" {
		return s.IDField
	}
	return "id"
}

// Attribute looks up a declared attribute by internal name.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Relationship looks up a declared relationship by internal name.
func (s *Schema) Relationship(name string) (Relationship, bool) {
	for _, r := range s.Relationships {
		if r.Name == name {
			return r, true
		}
	}
	return Relationship{}, false
}

// HasField reports whether name is a declared attribute or relationship.
func (s *Schema) HasField(name string) bool {
	if _, ok := s.Attribute(name); ok {
		return true
	}
	_, ok := s.Relationship(name)
	return ok
}

// Registry resolves schema type names to schemas. Relationship targets are
// looked up here at serialization time, which lets mutually recursive schemas
// reference each other without ownership cycles.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds a schema to the registry. It rejects empty type names and
// duplicate registrations.
func (r *Registry) Register(s *Schema) error {
	if s == nil || s.Type == "" {
		return fmt.Errorf("jsonapi: schema must declare a type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schemas[s.Type]; ok {
		return fmt.Errorf("jsonapi: schema %q already registered", s.Type)
	}
	r.schemas[s.Type] = s
	return nil
}

// MustRegister registers schemas and panics on error. Intended for package
// initialization.
func (r *Registry) MustRegister(schemas ...*Schema) {
	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the schema registered under the given type name.
func (r *Registry) Lookup(typ string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[typ]
	return s, ok
}

// Validate checks that every relationship target of every registered schema
// resolves. Call once after startup registration.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for typ, s := range r.schemas {
		for _, rel := range s.Relationships {
			if rel.Target == "" {
				return fmt.Errorf("jsonapi: schema %q relationship %q has no target", typ, rel.Name)
			}
			if _, ok := r.schemas[rel.Target]; !ok {
				return fmt.Errorf("jsonapi: schema %q relationship %q targets unregistered type %q", typ, rel.Name, rel.Target)
			}
		}
	}
	return nil
}
