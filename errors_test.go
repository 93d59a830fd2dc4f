package jsonapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestErrorObjects(t *testing.T) {
	tests := []struct {
		name    string
		err     *RequestError
		status  string
		code    string
		param   string
		pointer string
	}{
		{
			name:   "invalid field",
			err:    InvalidFieldError("posts", "nope"),
			status: "400",
			code:   "invalid_field",
			param:  "fields[posts]",
		},
		{
			name:   "invalid relationship",
			err:    InvalidRelationshipError("posts", "nope"),
			status: "400",
			code:   "invalid_relationship",
			param:  "include",
		},
		{
			name:   "invalid sort",
			err:    InvalidSortFieldError("unknown_field"),
			status: "400",
			code:   "invalid_sort",
			param:  "sort",
		},
		{
			name:   "invalid page key",
			err:    InvalidPageKeyError("per_page"),
			status: "400",
			code:   "invalid_page",
			param:  "page[per_page]",
		},
		{
			name:   "missing filter strategy",
			err:    MissingFilterError(),
			status: "400",
			code:   "missing_filter_strategy",
			param:  "filter",
		},
		{
			name:    "missing id",
			err:     MissingIDError("posts", nil),
			status:  "422",
			code:    "missing_id",
			pointer: "/data/id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := tt.err.Object()
			assert.Equal(t, tt.status, obj.Status)
			assert.Equal(t, tt.code, obj.Code)
			require.NotNil(t, obj.Source)
			assert.Equal(t, tt.param, obj.Source.Parameter)
			assert.Equal(t, tt.pointer, obj.Source.Pointer)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrorDetailNamesOffender(t *testing.T) {
	err := InvalidSortFieldError("unknown_field")
	assert.Contains(t, err.Detail, "unknown_field")

	err = InvalidFieldError("posts", "nope")
	assert.Contains(t, err.Detail, "nope")
	assert.Contains(t, err.Detail, "posts")
}

func TestErrorDocument(t *testing.T) {
	doc := ErrorDocument(InvalidSortFieldError("x"), InvalidPageKeyError("y"))
	require.Len(t, doc.Errors, 2)
	assert.False(t, doc.HasData())
}

func TestBuildErrorDocumentFillsDefaults(t *testing.T) {
	doc := BuildErrorDocument(http.StatusUnprocessableEntity, []*ErrorObject{
		{Detail: "bare"},
		{Status: "400", Title: "Custom", Detail: "kept"},
	})

	assert.Equal(t, "422", doc.Errors[0].Status)
	assert.Equal(t, "Unprocessable Entity", doc.Errors[0].Title)
	assert.Equal(t, "400", doc.Errors[1].Status)
	assert.Equal(t, "Custom", doc.Errors[1].Title)
}

func TestNewRequestErrorDerivesCode(t *testing.T) {
	err := NewRequestError(http.StatusUnsupportedMediaType, "nope")
	assert.Equal(t, "unsupported_media_type", err.Code)
	assert.Equal(t, "Unsupported Media Type", err.Title)

	err = NewRequestError(http.StatusTeapot, "short and stout")
	assert.Equal(t, "error", err.Code)
}
