// Package jsonapi converts between an application's resource graph and the
// JSON:API wire format (https://jsonapi.org). It provides the document model,
// a schema-driven serializer and deserializer, and helpers for rendering
// documents over HTTP. Query-parameter normalization lives in the query
// subpackage; transport glue lives in the middleware subpackage.
package jsonapi

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// Meta contains non-standard information attached to a document, resource,
// relationship, or link.
type Meta = map[string]any

// Link is a single link value. On the wire it is either a bare URL string or
// an object with href and meta members.
type Link struct {
	Href string
	Meta Meta
}

// MarshalJSON serializes the link as a bare string when it carries no meta.
func (l Link) MarshalJSON() ([]byte, error) {
	if len(l.Meta) == 0 {
		return json.Marshal(l.Href)
	}
	return json.Marshal(map[string]any{"href": l.Href, "meta": l.Meta})
}

// UnmarshalJSON accepts both the string and the object form of a link.
func (l *Link) UnmarshalJSON(data []byte) error {
	if isJSONObject(data) {
		var obj struct {
			Href string `json:"href"`
			Meta Meta   `json:"meta,omitempty"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		l.Href = obj.Href
		l.Meta = obj.Meta
		return nil
	}
	return json.Unmarshal(data, &l.Href)
}

// Links maps link names (self, related, next, ...) to link values.
type Links map[string]Link

// ResourceIdentifier identifies a resource by type and id without carrying
// its attributes.
type ResourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Meta Meta   `json:"meta,omitempty"`
}

// ResourceObject is the full wire representation of a resource.
type ResourceObject struct {
	ID            string                         `json:"id,omitempty"`
	Type          string                         `json:"type"`
	Attributes    map[string]any                 `json:"attributes,omitempty"`
	Relationships map[string]*RelationshipObject `json:"relationships,omitempty"`
	Links         Links                          `json:"links,omitempty"`
	Meta          Meta                           `json:"meta,omitempty"`
}

// Identifier returns the reference-only form of the resource object.
func (r *ResourceObject) Identifier() *ResourceIdentifier {
	return &ResourceIdentifier{ID: r.ID, Type: r.Type}
}

// PrimaryData is the top-level data member of a document: a single resource,
// a collection, or null. It is a closed sum; One and Many are the only
// implementations.
type PrimaryData interface {
	// IsMany reports whether the data member is a collection.
	IsMany() bool
	// First returns the single resource, or the first element of a
	// collection. Nil for null data and empty collections.
	First() *ResourceObject
	// Items returns all resources in document order.
	Items() []*ResourceObject
}

// One holds a single resource as primary data. A nil Value renders as a JSON
// null, which is distinct from the data member being absent.
type One struct {
	Value *ResourceObject
}

func (o One) IsMany() bool { return false }

func (o One) First() *ResourceObject { return o.Value }

func (o One) Items() []*ResourceObject {
	if o.Value == nil {
		return nil
	}
	return []*ResourceObject{o.Value}
}

// MarshalJSON serializes the resource, or null when empty.
func (o One) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// Many holds a collection of resources as primary data.
type Many struct {
	Value []*ResourceObject
}

func (m Many) IsMany() bool { return true }

func (m Many) First() *ResourceObject {
	if len(m.Value) == 0 {
		return nil
	}
	return m.Value[0]
}

func (m Many) Items() []*ResourceObject { return m.Value }

// MarshalJSON serializes the collection, or an empty array when nil.
func (m Many) MarshalJSON() ([]byte, error) {
	if m.Value == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.Value)
}

// RelationshipData is the data member of a relationship object: a single
// resource identifier, a collection of identifiers, or null. ToOne and ToMany
// are the only implementations.
type RelationshipData interface {
	// IsMany reports whether the relationship is to-many.
	IsMany() bool
	// First returns the single identifier, or the first of a collection.
	First() *ResourceIdentifier
	// Refs returns all identifiers in document order.
	Refs() []*ResourceIdentifier
}

// ToOne holds a to-one relationship reference. A nil Value renders as null,
// the JSON:API representation of an empty to-one relationship.
type ToOne struct {
	Value *ResourceIdentifier
}

func (t ToOne) IsMany() bool { return false }

func (t ToOne) First() *ResourceIdentifier { return t.Value }

func (t ToOne) Refs() []*ResourceIdentifier {
	if t.Value == nil {
		return nil
	}
	return []*ResourceIdentifier{t.Value}
}

// MarshalJSON serializes the identifier, or null when empty.
func (t ToOne) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Value)
}

// ToMany holds a to-many relationship reference list.
type ToMany struct {
	Value []*ResourceIdentifier
}

func (t ToMany) IsMany() bool { return true }

func (t ToMany) First() *ResourceIdentifier {
	if len(t.Value) == 0 {
		return nil
	}
	return t.Value[0]
}

func (t ToMany) Refs() []*ResourceIdentifier { return t.Value }

// MarshalJSON serializes the identifier list, or an empty array when nil.
func (t ToMany) MarshalJSON() ([]byte, error) {
	if t.Value == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Value)
}

// RelationshipObject describes a resource's relationship: reference data plus
// self/related links. A nil Data means the data member is absent (links-only
// relationship), which is distinct from ToOne{} rendering null.
type RelationshipObject struct {
	Data  RelationshipData `json:"data,omitempty"`
	Links Links            `json:"links,omitempty"`
	Meta  Meta             `json:"meta,omitempty"`
}

// UnmarshalJSON deserializes a relationship object, distinguishing an absent
// data member from an explicit null.
func (r *RelationshipObject) UnmarshalJSON(data []byte) error {
	var in struct {
		Data  json.RawMessage `json:"data"`
		Links Links           `json:"links"`
		Meta  Meta            `json:"meta"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Links = in.Links
	r.Meta = in.Meta
	r.Data = nil

	switch {
	case len(in.Data) == 0:
		// data member absent
	case isJSONNull(in.Data):
		r.Data = ToOne{}
	case isJSONArray(in.Data):
		var refs []*ResourceIdentifier
		if err := json.Unmarshal(in.Data, &refs); err != nil {
			return err
		}
		r.Data = ToMany{Value: refs}
	default:
		var ref ResourceIdentifier
		if err := json.Unmarshal(in.Data, &ref); err != nil {
			return err
		}
		r.Data = ToOne{Value: &ref}
	}
	return nil
}

// ErrorSource identifies the part of the request that caused an error.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// ErrorObject is a single member of a document's errors array. Status is a
// string on the wire per the JSON:API specification.
type ErrorObject struct {
	Status string       `json:"status,omitempty"`
	Code   string       `json:"code,omitempty"`
	Title  string       `json:"title,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
	Meta   Meta         `json:"meta,omitempty"`
}

// Document is the top-level JSON:API envelope. Data and Errors are mutually
// exclusive on the wire; Included holds related resources deduplicated by
// (type, id) across the whole document.
type Document struct {
	Data     PrimaryData
	Included []*ResourceObject
	Links    Links
	Meta     Meta
	Errors   []*ErrorObject
}

// HasData reports whether the data member is present (including explicit null).
func (d *Document) HasData() bool { return d.Data != nil }

// MarshalJSON serializes the document. A document carrying errors never
// renders a data member; a document without errors always renders one, even
// when null.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d.Errors) > 0 {
		if d.Data != nil {
			return nil, errors.New("jsonapi: document cannot carry both data and errors")
		}
		out := struct {
			Errors []*ErrorObject `json:"errors"`
			Links  Links          `json:"links,omitempty"`
			Meta   Meta           `json:"meta,omitempty"`
		}{d.Errors, d.Links, d.Meta}
		return json.Marshal(out)
	}

	out := struct {
		Data     PrimaryData       `json:"data"`
		Included []*ResourceObject `json:"included,omitempty"`
		Links    Links             `json:"links,omitempty"`
		Meta     Meta              `json:"meta,omitempty"`
	}{d.Data, d.Included, d.Links, d.Meta}
	if out.Data == nil {
		out.Data = One{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON deserializes the document, detecting whether the data member
// holds a single resource, a collection, or null.
func (d *Document) UnmarshalJSON(data []byte) error {
	var in struct {
		Data     json.RawMessage   `json:"data"`
		Included []*ResourceObject `json:"included"`
		Links    Links             `json:"links"`
		Meta     Meta              `json:"meta"`
		Errors   []*ErrorObject    `json:"errors"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("jsonapi: invalid document: %w", err)
	}
	d.Included = in.Included
	d.Links = in.Links
	d.Meta = in.Meta
	d.Errors = in.Errors
	d.Data = nil

	switch {
	case len(in.Data) == 0:
		// data member absent
	case isJSONNull(in.Data):
		d.Data = One{}
	case isJSONArray(in.Data):
		var items []*ResourceObject
		if err := json.Unmarshal(in.Data, &items); err != nil {
			return fmt.Errorf("jsonapi: invalid resource collection: %w", err)
		}
		d.Data = Many{Value: items}
	default:
		var item ResourceObject
		if err := json.Unmarshal(in.Data, &item); err != nil {
			return fmt.Errorf("jsonapi: invalid resource object: %w", err)
		}
		d.Data = One{Value: &item}
	}
	return nil
}

// firstByte returns the first non-whitespace byte of raw JSON, or zero.
func firstByte(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isJSONArray(data []byte) bool { return firstByte(data) == '[' }

func isJSONObject(data []byte) bool { return firstByte(data) == '{' }

func isJSONNull(data []byte) bool { return firstByte(data) == 'n' }
