package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIdempotentOnSchema(t *testing.T) {
	s := Normalize(map[string]any{"$type": "bool"})
	again := Normalize(s)
	assert.Same(t, s, again)
}

func TestNormalizeDerivesPKFKGroupMetadata(t *testing.T) {
	s := Normalize(map[string]any{
		"id":      map[string]any{"$type": "uint", "$pk": true},
		"orgId":   map[string]any{"$type": "uint", "$fk": "orgs.id"},
		"name":    map[string]any{"$type": "string", "$g": "profile"},
		"deleted": map[string]any{"$type": "bool", "$g": nil},
	})

	assert.True(t, s.PKMap["id"])
	assert.Equal(t, []string{"id"}, s.PKArray)
	assert.Equal(t, "orgs.id", s.FKMap["orgId"])
	assert.Contains(t, s.GroupMap["profile"], "name")
	assert.True(t, s.IDMap["id"])
	assert.True(t, s.IDMap["orgId"])
	assert.NotContains(t, s.GroupMap["@default"], "deleted")
}

func TestNormalizeExtendMergesAndOverrides(t *testing.T) {
	base := Normalize(map[string]any{
		"name": map[string]any{"$type": "string"},
		"age":  map[string]any{"$type": "int", "$optional": true},
	})

	extended := Normalize(map[string]any{
		"$extend": base,
		"age":     map[string]any{"$type": "int", "$min": 18.0},
		"email":   map[string]any{"$type": "string", "$optional": true},
	})

	require.Contains(t, extended.Properties, "name")
	require.Contains(t, extended.Properties, "age")
	require.Contains(t, extended.Properties, "email")
	require.NotNil(t, extended.Properties["age"].Min)
	assert.Equal(t, 18.0, *extended.Properties["age"].Min)

	// The base schema itself must be untouched by the extension.
	assert.Nil(t, base.Properties["age"].Min)
}

func TestNormalizeIncludeMergesFieldsAndRejectsDuplicates(t *testing.T) {
	mixin := Normalize(map[string]any{
		"createdAt": map[string]any{"$type": "string"},
	})

	merged := Normalize(map[string]any{
		"$include": mixin,
		"name":     map[string]any{"$type": "string"},
	})
	assert.Contains(t, merged.Properties, "createdAt")
	assert.Contains(t, merged.Properties, "name")

	assert.Panics(t, func() {
		Normalize(map[string]any{
			"$include": mixin,
			"createdAt": map[string]any{"$type": "string"},
		})
	})
}

func TestNormalizeRejectsMixedAccessOperators(t *testing.T) {
	assert.Panics(t, func() {
		Normalize(map[string]any{"$type": "string", "$r": "a|b&c"})
	})
}

func TestNormalizeUniqueArrayFromNamedGroupsWithoutPK(t *testing.T) {
	s := Normalize(map[string]any{
		"a": map[string]any{"$type": "string", "$unique": "ac|ad"},
		"b": map[string]any{"$type": "string", "$unique": true},
		"c": map[string]any{"$type": "string", "$unique": "ac"},
		"d": map[string]any{"$type": "string", "$unique": "ad"},
	})
	assert.ElementsMatch(t, [][]string{{"a", "c"}, {"a", "d"}, {"b"}}, s.UniqueArray)
}

func TestNormalizeUniqueArrayIncludesFullPrimaryKeyTuple(t *testing.T) {
	s := Normalize(map[string]any{
		"id":     map[string]any{"$type": "uint", "$pk": true},
		"tenant": map[string]any{"$type": "uint", "$pk": true},
		"email":  map[string]any{"$type": "string", "$unique": true},
	})
	assert.Contains(t, s.UniqueArray, []string{"id", "tenant"})
	assert.Contains(t, s.UniqueArray, []string{"email"})
}

func TestNormalizeUniqueArrayExpandsPKAcrossNamedGroup(t *testing.T) {
	s := Normalize(map[string]any{
		"id":    map[string]any{"$type": "uint", "$pk": true},
		"orgId": map[string]any{"$type": "uint", "$pk": true, "$unique": "orgSlug"},
		"slug":  map[string]any{"$type": "string", "$unique": "orgSlug"},
	})
	// Full PK tuple, the named group itself, and the PK-set x non-PK-member
	// cartesian expansion the named group and PK membership together imply.
	assert.Contains(t, s.UniqueArray, []string{"id", "orgId"})
	assert.Contains(t, s.UniqueArray, []string{"orgId", "slug"})
	assert.Contains(t, s.UniqueArray, []string{"id", "slug"})
}

func TestNormalizeUnescapesDollarPrefixedFieldName(t *testing.T) {
	s := Normalize(map[string]any{
		`\$meta`: map[string]any{"$type": "string"},
	})
	require.Contains(t, s.Properties, "$meta")
	assert.NotContains(t, s.Properties, `\$meta`)
	assert.Contains(t, s.PropertyOrder, "$meta")

	out, err := Process(map[string]any{"$meta": "hello"}, s, NoOptions, nil)
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.Equal(t, "hello", m["$meta"])
}

func TestNormalizeExtendUnescapesDollarPrefixedFieldName(t *testing.T) {
	base := Normalize(map[string]any{
		"name": map[string]any{"$type": "string"},
	})
	extended := Normalize(map[string]any{
		"$extend":  base,
		`\$extra`: map[string]any{"$type": "string", "$optional": true},
	})
	assert.Contains(t, extended.Properties, "$extra")
}

func TestNormalizeArrayShorthandWithData(t *testing.T) {
	s := Normalize(map[string]any{"$type": "string[0:10]"})
	assert.Equal(t, "array", s.Type)
	require.NotNil(t, s.MinLength)
	require.NotNil(t, s.MaxLength)
	assert.Equal(t, 0, *s.MinLength)
	assert.Equal(t, 10, *s.MaxLength)
	assert.Equal(t, "string", s.Data.Type)
}
