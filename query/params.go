// Package query validates and structures JSON:API query parameters (fields,
// filter, include, page, sort) against a resource schema, producing the
// request context consumed by the serializer. Each aspect is normalized by a
// pluggable strategy; the defaults implement the JSON:API conventions.
package query

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// fieldsPattern matches query parameters like fields[typename]
var fieldsPattern = regexp.MustCompile(`^fields\[([^\]]+)\]$`)

// filterPattern matches query parameters like filter[key]
var filterPattern = regexp.MustCompile(`^filter\[([^\]]+)\]$`)

// pagePattern matches query parameters like page[key]
var pagePattern = regexp.MustCompile(`^page\[([^\]]+)\]$`)

// Params holds the raw, unvalidated query parameters of one request, as the
// transport hands them over.
type Params struct {
	// Fields maps resource types to comma-separated field lists.
	Fields map[string]string
	// Filter maps filter keys to values.
	Filter map[string]string
	// Include is the raw include parameter.
	Include string
	// Page maps pagination keys to values.
	Page map[string]string
	// Sort is the raw sort parameter.
	Sort string
}

// ParamsFromRequest extracts raw JSON:API query parameters from a request.
// Example: ?include=author&fields[posts]=title,body&page[limit]=10
func ParamsFromRequest(r *http.Request) *Params {
	return ParamsFromValues(r.URL.Query())
}

// ParamsFromValues extracts raw JSON:API query parameters from parsed URL
// values.
func ParamsFromValues(values url.Values) *Params {
	p := &Params{
		Include: strings.TrimSpace(values.Get("include")),
		Sort:    strings.TrimSpace(values.Get("sort")),
	}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if matches := fieldsPattern.FindStringSubmatch(key); len(matches) == 2 {
			if p.Fields == nil {
				p.Fields = make(map[string]string)
			}
			p.Fields[matches[1]] = vals[0]
			continue
		}
		if matches := filterPattern.FindStringSubmatch(key); len(matches) == 2 {
			if p.Filter == nil {
				p.Filter = make(map[string]string)
			}
			p.Filter[matches[1]] = vals[0]
			continue
		}
		if matches := pagePattern.FindStringSubmatch(key); len(matches) == 2 {
			if p.Page == nil {
				p.Page = make(map[string]string)
			}
			p.Page[matches[1]] = vals[0]
		}
	}

	return p
}

// splitCSV splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
