package jsonapi

import (
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
)

// Deserializer flattens inbound JSON:API payloads into the flat parameter
// maps the application layer consumes. The zero value uses the default field
// casing and no schema restrictions.
type Deserializer struct {
	// Schema, when set, honors per-attribute NoDeserialize options for the
	// primary type.
	Schema *Schema
	// Caser is the field-name convention of the payload.
	Caser Caser
}

// Deserialize flattens a decoded request body. The result is nil for
// {"data": null}, a map for a single resource, a []map[string]any for a
// collection, and the payload itself, unchanged, when no data key is present
// (non-JSON:API bodies are a no-op).
func (d *Deserializer) Deserialize(payload map[string]any) (any, error) {
	raw, ok := payload["data"]
	if !ok {
		return payload, nil
	}

	switch data := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		if err := requireID(data); err != nil {
			return nil, err
		}
		return d.flatten(data, d.Schema), nil
	case []any:
		out := make([]map[string]any, 0, len(data))
		for _, item := range data {
			res, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("jsonapi: resource collection contains %T, want object", item)
			}
			if err := requireID(res); err != nil {
				return nil, err
			}
			out = append(out, d.flatten(res, d.Schema))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("jsonapi: data member is %T, want object, array, or null", raw)
	}
}

// GroupIncluded flattens each entry of the payload's included array and
// groups the results by wire type. The grouped map is consulted when
// resolving relationship identifiers; it is never merged into the primary
// flat map.
func (d *Deserializer) GroupIncluded(payload map[string]any) map[string][]map[string]any {
	raw, ok := payload["included"].([]any)
	if !ok {
		return nil
	}
	grouped := make(map[string][]map[string]any)
	for _, item := range raw {
		res, ok := item.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := res["type"].(string)
		if typ == "" {
			continue
		}
		// included entries of other types carry no schema options
		grouped[typ] = append(grouped[typ], d.flatten(res, nil))
	}
	return grouped
}

// requireID rejects a primary resource object arriving without an id member.
func requireID(res map[string]any) error {
	if id, ok := res["id"]; ok && id != nil && id != "" {
		return nil
	}
	typ, _ := res["type"].(string)
	return MissingIDError(typ, nil)
}

// flatten lifts a resource object's id, type, and attributes to one level and
// synthesizes <type>_id keys from its relationships.
func (d *Deserializer) flatten(res map[string]any, schema *Schema) map[string]any {
	out := make(map[string]any)
	if id, ok := res["id"]; ok {
		out["id"] = id
	}
	if typ, ok := res["type"]; ok {
		out["type"] = typ
	}

	if attrs, ok := res["attributes"].(map[string]any); ok {
		for key, value := range attrs {
			name := d.Caser.FieldToInternal(key)
			if schema != nil {
				if attr, ok := schema.Attribute(name); ok && attr.NoDeserialize {
					continue
				}
			}
			out[name] = d.Caser.convert(value, d.Caser.FieldToInternal)
		}
	}

	if rels, ok := res["relationships"].(map[string]any); ok {
		d.flattenRelationships(rels, out)
	}
	return out
}

// flattenRelationships accumulates relationship linkage into the flat map.
// Keys derive from the identifier's target type, not the relationship name,
// so distinct relationships sharing a target type coalesce into one combined
// entry: single references follow last-write-wins, reference lists merge with
// newer ids prepended. Relationship names are visited in sorted order to keep
// the accumulation deterministic.
func (d *Deserializer) flattenRelationships(rels map[string]any, out map[string]any) {
	names := make([]string, 0, len(rels))
	for name := range rels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rel, ok := rels[name].(map[string]any)
		if !ok {
			continue
		}
		raw, ok := rel["data"]
		if !ok {
			continue
		}

		switch data := raw.(type) {
		case nil:
			// no identifier to take a type from; key off the relationship name
			out[d.Caser.FieldToInternal(name)+"_id"] = nil
		case map[string]any:
			key, id := d.identifier(data, name)
			out[key] = id
		case []any:
			// each identifier files under its own type's key; a mixed list
			// splits across several entries
			order := make([]string, 0, len(data))
			grouped := make(map[string][]any)
			for _, item := range data {
				ref, ok := item.(map[string]any)
				if !ok {
					continue
				}
				key, id := d.identifier(ref, name)
				if _, ok := grouped[key]; !ok {
					order = append(order, key)
				}
				grouped[key] = append(grouped[key], id)
			}
			if len(order) == 0 {
				key := d.Caser.FieldToInternal(name) + "_id"
				order = append(order, key)
				grouped[key] = []any{}
			}
			for _, key := range order {
				ids := grouped[key]
				if existing, ok := out[key].([]any); ok {
					ids = append(ids, existing...)
				}
				out[key] = ids
			}
		}
	}
}

// identifier returns the flat key and id for one resource identifier object.
func (d *Deserializer) identifier(ref map[string]any, relName string) (string, any) {
	name := relName
	if typ, ok := ref["type"].(string); ok && typ != "" {
		name = typ
	}
	return d.Caser.FieldToInternal(name) + "_id", ref["id"]
}

// IncludedResources adapts one type's bucket from GroupIncluded into
// resources that ResolveRelationship can match against. The flat maps are
// wrapped in MapResource, so the schema's id field and type name drive the
// match.
func IncludedResources(schema *Schema, flat []map[string]any) []Resource {
	out := make([]Resource, 0, len(flat))
	for _, attrs := range flat {
		out = append(out, &MapResource{Schema: schema, Attrs: attrs})
	}
	return out
}

// ResolveRelationship matches a relationship identifier against a set of
// application resources, typically ones hydrated from a payload's included
// array. A miss is not an error: the reference is returned as NotLoaded so
// the caller can detect the gap and fetch the target itself.
func ResolveRelationship(resources []Resource, id, typ string) RelationshipValue {
	for _, res := range resources {
		rid, err := res.ResourceID()
		if err != nil {
			continue
		}
		if rid == id && res.ResourceType() == typ {
			return Loaded{Resource: res}
		}
	}
	return NotLoaded{ID: id, Type: typ}
}

// DeserializeDocument decodes wire bytes into the typed document model.
func DeserializeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
