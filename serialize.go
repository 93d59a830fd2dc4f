package jsonapi

import "fmt"

// Options configures one serialization pass.
type Options struct {
	// BaseURL prefixes all generated links. Relative links are produced when
	// empty.
	BaseURL string
	// Caser overrides the field-name convention.
	Caser Caser
	// Meta is attached to the document's top level.
	Meta Meta
	// Links are attached to the document's top level.
	Links Links
}

// refKey is the document-wide deduplication key for included resources.
type refKey struct {
	typ string
	id  string
}

// serializer holds the state of a single serialization pass. The included
// accumulator is owned by this pass alone; a pass is never shared between
// requests.
type serializer struct {
	reg      *Registry
	ctx      *RequestContext
	opts     Options
	seen     map[refKey]bool
	included []*ResourceObject
}

// Serialize builds a document from application data. Data may be nil, a
// single Resource, or a []Resource; related resources requested through the
// context's include tree are serialized into the document's included set,
// deduplicated by (type, id) across the whole pass.
func Serialize(reg *Registry, schema *Schema, data any, ctx *RequestContext, opts Options) (*Document, error) {
	s := &serializer{
		reg:  reg,
		ctx:  ctx,
		opts: opts,
		seen: make(map[refKey]bool),
	}

	doc := &Document{Meta: opts.Meta, Links: opts.Links}

	var include IncludeTree
	if ctx != nil {
		include = ctx.Include
	}

	switch v := data.(type) {
	case nil:
		doc.Data = One{}
	case Resource:
		obj, err := s.serializeResource(schema, v, include)
		if err != nil {
			return nil, err
		}
		doc.Data = One{Value: obj}
	case []Resource:
		items := make([]*ResourceObject, 0, len(v))
		for _, res := range v {
			obj, err := s.serializeResource(schema, res, include)
			if err != nil {
				return nil, err
			}
			items = append(items, obj)
		}
		doc.Data = Many{Value: items}
	default:
		return nil, fmt.Errorf("jsonapi: cannot serialize %T: want nil, Resource, or []Resource", data)
	}

	doc.Included = s.included
	return doc, nil
}

// serializeResource builds a resource object and, for relationships matched
// by the include tree, recursively merges related resources into the shared
// included set.
func (s *serializer) serializeResource(schema *Schema, res Resource, include IncludeTree) (*ResourceObject, error) {
	id, err := res.ResourceID()
	if err != nil {
		return nil, MissingIDError(schema.Type, err)
	}

	obj := &ResourceObject{
		ID:   id,
		Type: schema.Type,
		Links: Links{
			"self": {Href: s.resourceURL(schema, id)},
		},
	}

	for _, attr := range schema.Attributes {
		if attr.NoSerialize {
			continue
		}
		if !s.ctx.FieldAllowed(schema.Type, attr.Name) {
			continue
		}
		var value any
		if attr.Extract != nil {
			value = attr.Extract(res, s.ctx)
		} else {
			value = res.Attribute(attr.Name)
		}
		if obj.Attributes == nil {
			obj.Attributes = make(map[string]any)
		}
		// convert rather than ToWire: a bare string here is a value, not a
		// field name
		obj.Attributes[s.opts.Caser.FieldToWire(attr.Name)] = s.opts.Caser.convert(value, s.opts.Caser.FieldToWire)
	}

	for _, rel := range schema.Relationships {
		if !s.ctx.FieldAllowed(schema.Type, rel.Name) {
			continue
		}
		relObj, err := s.serializeRelationship(schema, rel, res, id, include[rel.Name])
		if err != nil {
			return nil, err
		}
		if obj.Relationships == nil {
			obj.Relationships = make(map[string]*RelationshipObject)
		}
		obj.Relationships[s.opts.Caser.FieldToWire(rel.EffectiveWireName())] = relObj
	}

	if schema.Meta != nil {
		obj.Meta = schema.Meta(res, s.ctx)
	}
	return obj, nil
}

// serializeRelationship renders a relationship's identifier data and links.
// A non-nil subtree means the relationship was requested for inclusion;
// loaded targets then recurse into the included set. NotLoaded values render
// their identifier but never recurse, regardless of the include tree.
func (s *serializer) serializeRelationship(owner *Schema, rel Relationship, res Resource, ownerID string, subtree IncludeTree) (*RelationshipObject, error) {
	wireName := s.opts.Caser.FieldToWire(rel.EffectiveWireName())
	obj := &RelationshipObject{
		Links: Links{
			"self":    {Href: s.resourceURL(owner, ownerID) + "/relationships/" + wireName},
			"related": {Href: s.resourceURL(owner, ownerID) + "/" + wireName},
		},
	}

	target, ok := s.reg.Lookup(rel.Target)
	if !ok {
		return nil, fmt.Errorf("jsonapi: schema %q relationship %q targets unregistered type %q", owner.Type, rel.Name, rel.Target)
	}

	switch v := res.Relationship(rel.Name).(type) {
	case nil:
		// relationship never populated: links only, no data member
	case Null:
		if rel.Many {
			obj.Data = ToMany{}
		} else {
			obj.Data = ToOne{}
		}
	case NotLoaded:
		obj.Data = ToOne{Value: &ResourceIdentifier{ID: v.ID, Type: v.Type}}
	case Loaded:
		relID, err := v.Resource.ResourceID()
		if err != nil {
			return nil, MissingIDError(target.Type, err)
		}
		obj.Data = ToOne{Value: &ResourceIdentifier{ID: relID, Type: target.Type}}
		if subtree != nil {
			if err := s.include(target, v.Resource, subtree); err != nil {
				return nil, err
			}
		}
	case LoadedMany:
		refs := make([]*ResourceIdentifier, 0, len(v.Resources))
		for _, related := range v.Resources {
			relID, err := related.ResourceID()
			if err != nil {
				return nil, MissingIDError(target.Type, err)
			}
			refs = append(refs, &ResourceIdentifier{ID: relID, Type: target.Type})
			if subtree != nil {
				if err := s.include(target, related, subtree); err != nil {
					return nil, err
				}
			}
		}
		obj.Data = ToMany{Value: refs}
	default:
		return nil, fmt.Errorf("jsonapi: unsupported relationship value %T on %s.%s", v, owner.Type, rel.Name)
	}

	return obj, nil
}

// include serializes a related resource into the shared included set unless a
// resource with the same (type, id) is already present. The key is marked
// before recursing so cyclic includes terminate.
func (s *serializer) include(schema *Schema, res Resource, subtree IncludeTree) error {
	id, err := res.ResourceID()
	if err != nil {
		return MissingIDError(schema.Type, err)
	}
	key := refKey{typ: schema.Type, id: id}
	if s.seen[key] {
		return nil
	}
	s.seen[key] = true

	obj, err := s.serializeResource(schema, res, subtree)
	if err != nil {
		return err
	}
	s.included = append(s.included, obj)
	return nil
}

func (s *serializer) resourceURL(schema *Schema, id string) string {
	return s.opts.BaseURL + "/" + schema.PathSegment() + "/" + id
}
