package jsonapi

import "strings"

// Caser converts field names between their wire form and their internal form.
// The default convention is hyphenated on the wire and underscored
// internally. A Caser is an explicit configuration value passed into both
// codec directions, so different configurations can coexist within one
// process.
type Caser struct {
	// WireSep is the word separator on the wire. Defaults to "-".
	WireSep string
	// InternalSep is the internal word separator. Defaults to "_".
	InternalSep string
}

func (c Caser) wireSep() string {
	if c.WireSep != "" {
		return c.WireSep
	}
	return "-"
}

func (c Caser) internalSep() string {
	if c.InternalSep != "" {
		return c.InternalSep
	}
	return "_"
}

// FieldToWire converts a single field name to its wire form.
func (c Caser) FieldToWire(name string) string {
	return strings.ReplaceAll(name, c.internalSep(), c.wireSep())
}

// FieldToInternal converts a single field name to its internal form.
func (c Caser) FieldToInternal(name string) string {
	return strings.ReplaceAll(name, c.wireSep(), c.internalSep())
}

// ToWire recursively converts the keys of an arbitrary nested value to the
// wire convention. Map keys are converted at every depth; a bare string input
// is converted as a field name; all other leaf values pass through untouched.
// ToInternal inverts ToWire for values built from ASCII word-separated
// identifiers.
func (c Caser) ToWire(v any) any {
	if s, ok := v.(string); ok {
		return c.FieldToWire(s)
	}
	return c.convert(v, c.FieldToWire)
}

// ToInternal recursively converts the keys of an arbitrary nested value to
// the internal convention. See ToWire.
func (c Caser) ToInternal(v any) any {
	if s, ok := v.(string); ok {
		return c.FieldToInternal(s)
	}
	return c.convert(v, c.FieldToInternal)
}

// convert walks maps and slices, rewriting map keys with fn. Leaf values,
// including string attribute values, are never rewritten.
func (c Caser) convert(v any, fn func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fn(k)] = c.convert(val, fn)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = c.convert(val, fn)
		}
		return out
	default:
		return v
	}
}
