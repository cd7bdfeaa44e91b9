package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenPrefixesGroupChildren(t *testing.T) {
	fields := []*Field{
		{ID: "title", Type: TypeText},
		{
			ID: "social", Type: TypeGroup,
			Fields: []*Field{
				{ID: "twitter", Type: TypeURL},
				{ID: "github", Type: TypeURL},
			},
		},
	}
	idx := Flatten(fields)
	assert.Equal(t, []string{"title", "social_twitter", "social_github"}, idx.IDs())

	f, ok := idx.Get("social_twitter")
	require.True(t, ok)
	assert.Equal(t, TypeURL, f.Type)
	// the original tree is untouched
	assert.Equal(t, "twitter", fields[1].Fields[0].ID)
}

func TestFlattenNestedGroups(t *testing.T) {
	fields := []*Field{
		{
			ID: "outer", Type: TypeAccordion,
			Fields: []*Field{
				{
					ID: "inner", Type: TypeGroup,
					Fields: []*Field{{ID: "leaf", Type: TypeText}},
				},
			},
		},
	}
	idx := Flatten(fields)
	assert.Equal(t, []string{"outer_inner_leaf"}, idx.IDs())
}

func TestFlattenSkipsLayoutOnlyFields(t *testing.T) {
	fields := []*Field{
		{ID: "head", Type: TypeHeading},
		{ID: "sep", Type: TypeSeparator},
		{ID: "blurb", Type: TypeHTML},
		{ID: "token", Type: TypeHidden},
	}
	idx := Flatten(fields)
	// hidden carries a stored value; the rest do not
	assert.Equal(t, []string{"token"}, idx.IDs())
}

func TestFlattenKeepsRepeaterWhole(t *testing.T) {
	fields := []*Field{
		{
			ID: "rows", Type: TypeRepeater,
			Fields: []*Field{{ID: "label", Type: TypeText}},
		},
	}
	idx := Flatten(fields)
	require.Equal(t, []string{"rows"}, idx.IDs())
	f, _ := idx.Get("rows")
	require.Len(t, f.Fields, 1)
	assert.Equal(t, "label", f.Fields[0].ID)
}

func TestFlattenLastWinsOnCollision(t *testing.T) {
	fields := []*Field{
		{ID: "x", Type: TypeText, Label: "first"},
		{ID: "x", Type: TypeText, Label: "second"},
	}
	idx := Flatten(fields)
	require.Equal(t, 1, idx.Len())
	f, _ := idx.Get("x")
	assert.Equal(t, "second", f.Label)
}

func TestIndexDefaults(t *testing.T) {
	fields := []*Field{
		{ID: "a", Type: TypeText, Default: "hello"},
		{ID: "b", Type: TypeText},
		{
			ID: "g", Type: TypeGroup,
			Fields: []*Field{{ID: "c", Type: TypeNumber, Default: 3}},
		},
	}
	defaults := Flatten(fields).Defaults()
	assert.Equal(t, map[string]any{"a": "hello", "g_c": 3}, defaults)
}

func TestApplyTypeDefaults(t *testing.T) {
	fields := []*Field{
		{ID: "flag", Type: TypeCheckbox},
		{ID: "tags", Type: TypeMultiselect},
		{ID: "rows", Type: TypeRepeater},
		{ID: "rng", Type: TypeRange},
		{ID: "named", Type: TypeText, Default: "keep"},
	}
	for _, f := range fields {
		ApplyTypeDefaults(f)
	}
	assert.Equal(t, false, fields[0].Default)
	assert.Equal(t, []string{}, fields[1].Default)
	assert.Equal(t, []map[string]any{}, fields[2].Default)
	require.NotNil(t, fields[3].Min)
	require.NotNil(t, fields[3].Max)
	assert.Equal(t, float64(0), *fields[3].Min)
	assert.Equal(t, float64(100), *fields[3].Max)
	assert.Equal(t, "keep", fields[4].Default)
}
