package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNormalize(t *testing.T, descriptor any) *Schema {
	t.Helper()
	return Normalize(descriptor)
}

func TestProcessInt8Bounds(t *testing.T) {
	s := mustNormalize(t, map[string]any{"$type": "int8"})

	_, err := Process(float64(-128), s, NoOptions, nil)
	assert.NoError(t, err)
	_, err = Process(float64(127), s, NoOptions, nil)
	assert.NoError(t, err)

	_, err = Process(float64(-129), s, NoOptions, nil)
	assert.Error(t, err)
	_, err = Process(float64(128), s, NoOptions, nil)
	assert.Error(t, err)
}

func TestProcessInt64BigStringBounds(t *testing.T) {
	s := mustNormalize(t, map[string]any{"$type": "int64"})

	_, err := Process("9223372036854775807", s, NoOptions, nil)
	assert.NoError(t, err)
	_, err = Process("9223372036854775808", s, NoOptions, nil)
	assert.Error(t, err)
}

func TestProcessColorWithoutCSSNames(t *testing.T) {
	s := mustNormalize(t, map[string]any{"$type": "color", "$cssNames": false})

	_, err := Process("red", s, NoOptions, nil)
	assert.Error(t, err)
	_, err = Process("#F00", s, NoOptions, nil)
	assert.NoError(t, err)
}

func TestProcessDatetimeLeapSecond(t *testing.T) {
	s := mustNormalize(t, map[string]any{"$type": "datetime", "$leapSecond": true})

	_, err := Process("1972-06-30 23:59:60", s, NoOptions, nil)
	assert.NoError(t, err)
	_, err = Process("1973-06-30 23:59:60", s, NoOptions, nil)
	assert.Error(t, err)
}

func TestProcessArrayDimensionBounds(t *testing.T) {
	s := mustNormalize(t, map[string]any{"$type": "int[2:4]"})

	_, err := Process([]any{float64(1)}, s, NoOptions, nil)
	assert.Error(t, err)
	for n := 2; n <= 4; n++ {
		vals := make([]any, n)
		for i := range vals {
			vals[i] = float64(i + 1)
		}
		_, err := Process(vals, s, NoOptions, nil)
		assert.NoErrorf(t, err, "length %d should pass", n)
	}
	_, err = Process([]any{float64(1), float64(2), float64(3), float64(4), float64(5)}, s, NoOptions, nil)
	assert.Error(t, err)
}

func TestProcessDeltaModeAdmitsMissingFields(t *testing.T) {
	s := mustNormalize(t, map[string]any{
		"a": map[string]any{"$type": "bool"},
		"b": map[string]any{"$type": "int"},
	})

	_, err := Process(map[string]any{"a": true}, s, DeltaMode, nil)
	assert.NoError(t, err)

	_, err = Process(map[string]any{"invalid": true}, s, DeltaMode, nil)
	assert.Error(t, err, "an unexpected field must still fail even under delta mode")
}

func TestProcessDefaultsAreClonedPerInvocation(t *testing.T) {
	s := mustNormalize(t, map[string]any{
		"e": map[string]any{"$type": "object", "$default": map[string]any{}},
	})

	out1, err := Process(map[string]any{}, s, NoOptions, nil)
	require.NoError(t, err)
	out2, err := Process(map[string]any{}, s, NoOptions, nil)
	require.NoError(t, err)

	e1 := out1.(map[string]any)["e"]
	e2 := out2.(map[string]any)["e"]
	assert.True(t, Equals(e1, e2))

	e1.(map[string]any)["injected"] = true
	assert.False(t, Equals(e1, e2), "defaults must be cloned, not shared, across invocations")
}

func TestProcessAccessControlDeniesWrite(t *testing.T) {
	s := mustNormalize(t, map[string]any{
		"secret": map[string]any{"$type": "string", "$w": "admin"},
	})

	_, err := Process(map[string]any{"secret": "x"}, s, NoOptions, AccessSet{"user": true})
	require.Error(t, err)
	schemaErr, ok := err.(*SchemaError)
	require.True(t, ok)
	require.Len(t, schemaErr.Errors, 1)
	assert.Equal(t, CodeNoAccess, schemaErr.Errors[0].Code)

	_, err = Process(map[string]any{"secret": "x"}, s, NoOptions, AccessSet{"admin": true})
	assert.NoError(t, err)
}

// TestProcessReadAccessOmitsFieldRatherThanErroring exercises $r: unlike
// $w, a failed read check never rejects the record, it just hides the
// field from the returned output mirror.
func TestProcessReadAccessOmitsFieldRatherThanErroring(t *testing.T) {
	s := mustNormalize(t, map[string]any{
		"name":   map[string]any{"$type": "string"},
		"salary": map[string]any{"$type": "int32", "$r": "hr|self"},
	})

	out, err := Process(map[string]any{"name": "Ada", "salary": float64(1000)}, s, NoOptions, AccessSet{"user": true})
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.Equal(t, "Ada", m["name"])
	_, present := m["salary"]
	assert.False(t, present, "salary should be omitted without hr/self access")

	out, err = Process(map[string]any{"name": "Ada", "salary": float64(1000)}, s, NoOptions, AccessSet{"hr": true})
	require.NoError(t, err)
	m = out.(map[string]any)
	assert.Equal(t, float64(1000), m["salary"])
}

// TestProcessAnyAccessAppliesToBothReadAndWrite exercises $a as shared
// shorthand for $r and $w when neither is set explicitly.
func TestProcessAnyAccessAppliesToBothReadAndWrite(t *testing.T) {
	s := mustNormalize(t, map[string]any{
		"ssn": map[string]any{"$type": "string", "$a": "owner"},
	})

	_, err := Process(map[string]any{"ssn": "123-45-6789"}, s, NoOptions, AccessSet{"other": true})
	require.Error(t, err)
	schemaErr := err.(*SchemaError)
	assert.Equal(t, CodeNoAccess, schemaErr.Errors[0].Code)

	out, err := Process(map[string]any{"ssn": "123-45-6789"}, s, NoOptions, AccessSet{"owner": true})
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.Equal(t, "123-45-6789", m["ssn"])
}

func TestProcessUnexpectedPropertyRejectedByDefault(t *testing.T) {
	s := mustNormalize(t, map[string]any{
		"a": map[string]any{"$type": "bool"},
	})

	_, err := Process(map[string]any{"a": true, "extra": 1}, s, NoOptions, nil)
	assert.Error(t, err)

	_, err = Process(map[string]any{"a": true, "extra": 1}, s, ExtractTop, nil)
	assert.NoError(t, err)
}

// TestProcessMapDiagnosticsOrderIsDeterministic guards against Go's
// randomized map iteration leaking into the diagnostic order: the same
// invalid input processed repeatedly under AccumulateErrors must report
// its map-key violations in the same order every time (spec §8).
func TestProcessMapDiagnosticsOrderIsDeterministic(t *testing.T) {
	s := mustNormalize(t, map[string]any{
		"$type": "map",
		"$data": map[string]any{"$type": "bool"},
	})
	input := map[string]any{"zeta": 1, "alpha": 2, "mike": 3, "bravo": 4}

	var firstPaths []string
	for i := 0; i < 5; i++ {
		_, err := Process(input, s, AccumulateErrors, nil)
		require.Error(t, err)
		schemaErr := err.(*SchemaError)
		paths := make([]string, len(schemaErr.Errors))
		for j, d := range schemaErr.Errors {
			paths[j] = d.Path
		}
		if firstPaths == nil {
			firstPaths = paths
		} else {
			assert.Equal(t, firstPaths, paths)
		}
	}
	assert.Equal(t, []string{"alpha", "bravo", "mike", "zeta"}, firstPaths)
}

func TestPrecompileCachesBySchemaOptionsAccess(t *testing.T) {
	s := mustNormalize(t, map[string]any{"$type": "bool"})

	r1 := Precompile(s, NoOptions, nil)
	afterFirst := CacheStats()
	r2 := Precompile(s, NoOptions, nil)
	assert.Equal(t, afterFirst, CacheStats(), "the same triple must reuse the cached routine")
	r3 := Precompile(s, DeltaMode, nil)
	assert.Equal(t, afterFirst+1, CacheStats(), "a different option set must get its own cache entry")

	assert.NotNil(t, r1)
	assert.NotNil(t, r2)
	assert.NotNil(t, r3)
}
