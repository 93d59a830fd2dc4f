package query

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestParamsFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected *Params
	}{
		{
			name:     "empty when not present",
			url:      "/api/posts",
			expected: &Params{},
		},
		{
			name:     "include and sort",
			url:      "/api/posts?include=author,comments.author&sort=-created_at,title",
			expected: &Params{Include: "author,comments.author", Sort: "-created_at,title"},
		},
		{
			name: "fields per type",
			url:  "/api/posts?fields[posts]=title,body&fields[users]=name",
			expected: &Params{Fields: map[string]string{
				"posts": "title,body",
				"users": "name",
			}},
		},
		{
			name: "filter keys",
			url:  "/api/posts?filter[status]=published&filter[author-id]=9",
			expected: &Params{Filter: map[string]string{
				"status":    "published",
				"author-id": "9",
			}},
		},
		{
			name: "page keys",
			url:  "/api/posts?page[limit]=10&page[offset]=30",
			expected: &Params{Page: map[string]string{
				"limit":  "10",
				"offset": "30",
			}},
		},
		{
			name:     "unrelated parameters ignored",
			url:      "/api/posts?foo=bar&fieldsX=1",
			expected: &Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			result := ParamsFromRequest(req)

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ParamsFromRequest() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "author", expected: []string{"author"}},
		{name: "multiple", input: "author,comments", expected: []string{"author", "comments"}},
		{name: "trims whitespace", input: " author , comments ", expected: []string{"author", "comments"}},
		{name: "drops empty entries", input: "author,,comments", expected: []string{"author", "comments"}},
		{name: "only separators", input: ", ,", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitCSV(tt.input)
			if tt.expected == nil {
				if result != nil {
					t.Errorf("splitCSV() = %v, want nil", result)
				}
				return
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("splitCSV() = %v, want %v", result, tt.expected)
			}
		})
	}
}
