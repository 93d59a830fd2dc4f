package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/jsonapi"
)

func testRegistry(t *testing.T) (*jsonapi.Registry, *jsonapi.Schema) {
	t.Helper()

	reg := jsonapi.NewRegistry()
	reg.MustRegister(
		&jsonapi.Schema{
			Type: "users",
			Attributes: []jsonapi.Attribute{
				{Name: "name"},
			},
		},
		&jsonapi.Schema{
			Type: "comments",
			Attributes: []jsonapi.Attribute{
				{Name: "body"},
			},
			Relationships: []jsonapi.Relationship{
				{Name: "author", Target: "users"},
			},
		},
		&jsonapi.Schema{
			Type: "posts",
			Attributes: []jsonapi.Attribute{
				{Name: "title"},
				{Name: "created_at"},
			},
			Relationships: []jsonapi.Relationship{
				{Name: "author", Target: "users"},
				{Name: "comments", Target: "comments", Many: true},
			},
		},
	)
	require.NoError(t, reg.Validate())

	posts, ok := reg.Lookup("posts")
	require.True(t, ok)
	return reg, posts
}

func reqError(t *testing.T, err error) *jsonapi.RequestError {
	t.Helper()
	var reqErr *jsonapi.RequestError
	require.True(t, errors.As(err, &reqErr), "want *jsonapi.RequestError, got %T", err)
	return reqErr
}

func TestNormalizeEmptyParams(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts)

	ctx, err := n.Normalize(&Params{})
	require.NoError(t, err)
	assert.Same(t, posts, ctx.Schema)
	assert.Nil(t, ctx.Fields)
	assert.Nil(t, ctx.Include)
	assert.Nil(t, ctx.Sort)
	assert.Nil(t, ctx.Page)
}

func TestNormalizeFields(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts)

	ctx, err := n.Normalize(&Params{Fields: map[string]string{
		"posts": "title,author",
		"users": "name,whatever", // foreign types pass through unvalidated
	}})
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"title": true, "author": true}, ctx.Fields["posts"])
	assert.Equal(t, map[string]bool{"name": true, "whatever": true}, ctx.Fields["users"])
}

func TestNormalizeFieldsRejectsUnknown(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts)

	_, err := n.Normalize(&Params{Fields: map[string]string{"posts": "title,nope"}})
	reqErr := reqError(t, err)
	assert.Equal(t, "invalid_field", reqErr.Code)
	assert.Contains(t, reqErr.Detail, "nope")
	assert.Contains(t, reqErr.Detail, "posts")
}

func TestNormalizeInclude(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts)

	ctx, err := n.Normalize(&Params{Include: "author,comments.author"})
	require.NoError(t, err)

	expected := jsonapi.IncludeTree{
		"author":   jsonapi.IncludeTree{},
		"comments": jsonapi.IncludeTree{"author": jsonapi.IncludeTree{}},
	}
	assert.Equal(t, expected, ctx.Include)
}

func TestNormalizeIncludeRejectsUnknownSegment(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts)

	tests := []struct {
		name        string
		include     string
		segment     string
		checkedType string
	}{
		{name: "top level", include: "nope", segment: "nope", checkedType: "posts"},
		{name: "nested", include: "comments.nope", segment: "nope", checkedType: "comments"},
		{name: "attribute is not a relationship", include: "title", segment: "title", checkedType: "posts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(&Params{Include: tt.include})
			reqErr := reqError(t, err)
			assert.Equal(t, "invalid_relationship", reqErr.Code)
			assert.Contains(t, reqErr.Detail, tt.segment)
			assert.Contains(t, reqErr.Detail, tt.checkedType)
		})
	}
}

func TestNormalizeSort(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts)

	ctx, err := n.Normalize(&Params{Sort: "-created_at,title"})
	require.NoError(t, err)

	// input order preserved
	assert.Equal(t, []jsonapi.SortField{
		{Field: "created_at", Desc: true},
		{Field: "title", Desc: false},
	}, ctx.Sort)
}

func TestNormalizeSortRejectsUnknownField(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts)

	_, err := n.Normalize(&Params{Sort: "-unknown_field"})
	reqErr := reqError(t, err)
	assert.Equal(t, "invalid_sort", reqErr.Code)
	assert.Contains(t, reqErr.Detail, "unknown_field")
}

func TestNormalizeSortRejectsRelationships(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts)

	// relationships are not sortable, only declared attributes
	_, err := n.Normalize(&Params{Sort: "author"})
	assert.Equal(t, "invalid_sort", reqError(t, err).Code)
}

func TestNormalizePage(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts)

	ctx, err := n.Normalize(&Params{Page: map[string]string{"limit": "10", "offset": "20"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"limit": "10", "offset": "20"}, ctx.Page)

	_, err = n.Normalize(&Params{Page: map[string]string{"per_page": "10"}})
	reqErr := reqError(t, err)
	assert.Equal(t, "invalid_page", reqErr.Code)
	assert.Equal(t, "page[per_page]", reqErr.Param)
}

func TestNormalizeFilterRequiresStrategy(t *testing.T) {
	reg, posts := testRegistry(t)

	n := New(reg, posts)
	_, err := n.Normalize(&Params{Filter: map[string]string{"status": "published"}})
	assert.Equal(t, "missing_filter_strategy", reqError(t, err).Code)

	n = New(reg, posts, WithFilterStrategy(&PassthroughFilter{}))
	ctx, err := n.Normalize(&Params{Filter: map[string]string{"status": "published"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"status": "published"}, ctx.Filter)
}

func TestAllowlistFilter(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts, WithFilterStrategy(&AllowlistFilter{Keys: []string{"status"}}))

	ctx, err := n.Normalize(&Params{Filter: map[string]string{"status": "published"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"status": "published"}, ctx.Filter)

	_, err = n.Normalize(&Params{Filter: map[string]string{"secret": "x"}})
	assert.Equal(t, "invalid_filter", reqError(t, err).Code)
}

func TestNormalizeWireCasing(t *testing.T) {
	reg, posts := testRegistry(t)
	n := New(reg, posts, WithCaser(jsonapi.Caser{}))

	ctx, err := n.Normalize(&Params{
		Fields: map[string]string{"posts": "created-at"},
		Sort:   "-created-at",
	})
	require.NoError(t, err)
	assert.True(t, ctx.Fields["posts"]["created_at"])
	assert.Equal(t, []jsonapi.SortField{{Field: "created_at", Desc: true}}, ctx.Sort)
}

func TestCustomStrategyComposition(t *testing.T) {
	reg, posts := testRegistry(t)

	// a later strategy may read what an earlier one normalized
	pageDefaults := StrategyFunc(func(ctx *jsonapi.RequestContext, params *Params) error {
		if ctx.Page == nil {
			ctx.Page = map[string]string{"limit": "25"}
		}
		return nil
	})

	n := New(reg, posts, WithSortStrategy(StrategyFunc(
		func(ctx *jsonapi.RequestContext, params *Params) error {
			// sort runs after page in the fixed composition order
			if ctx.Page["limit"] != "25" {
				t.Error("sort strategy ran before page strategy")
			}
			return nil
		},
	)), WithPageStrategy(pageDefaults))

	_, err := n.Normalize(&Params{})
	require.NoError(t, err)
}
