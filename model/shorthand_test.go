package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShorthandPlainBase(t *testing.T) {
	base, nullable, dims := ParseShorthand("int")
	assert.Equal(t, "int", base)
	assert.False(t, nullable)
	assert.Empty(t, dims)
}

func TestParseShorthandNullableBase(t *testing.T) {
	base, nullable, dims := ParseShorthand("int?")
	assert.Equal(t, "int", base)
	assert.True(t, nullable)
	assert.Empty(t, dims)
}

func TestParseShorthandRepeatedNullableIsSchemaError(t *testing.T) {
	assert.Panics(t, func() {
		ParseShorthand("int??")
	})
}

func TestParseShorthandSingleDimension(t *testing.T) {
	base, _, dims := ParseShorthand("int[2:4]")
	require.Len(t, dims, 1)
	assert.Equal(t, "int", base)
	require.NotNil(t, dims[0].Min)
	require.NotNil(t, dims[0].Max)
	assert.Equal(t, 2, *dims[0].Min)
	assert.Equal(t, 4, *dims[0].Max)
}

func TestParseShorthandMultiDimensionOuterToInner(t *testing.T) {
	_, _, dims := ParseShorthand("int[2][3]")
	require.Len(t, dims, 2)
	require.NotNil(t, dims[0].Exact)
	require.NotNil(t, dims[1].Exact)
	assert.Equal(t, 2, *dims[0].Exact)
	assert.Equal(t, 3, *dims[1].Exact)
}

func TestMaterializeShorthandNestsOuterToInner(t *testing.T) {
	_, baseNullable, dims := ParseShorthand("int[2][3]")
	leaf := &Schema{}
	s := MaterializeShorthand("int", baseNullable, dims, leaf)
	assert.Equal(t, "array", s.Type)
	require.NotNil(t, s.Length)
	assert.Equal(t, 2, *s.Length)

	inner := s.Data
	require.NotNil(t, inner)
	assert.Equal(t, "array", inner.Type)
	require.NotNil(t, inner.Length)
	assert.Equal(t, 3, *inner.Length)
	assert.Equal(t, "int", inner.Data.Type)
}
