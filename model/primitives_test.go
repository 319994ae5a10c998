package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualsScalarsAndNaN(t *testing.T) {
	nan := float64(0)
	nan /= nan
	assert.True(t, Equals(nan, nan), "NaN should equal NaN per spec")
	assert.True(t, Equals("a", "a"))
	assert.False(t, Equals("a", "b"))
	assert.False(t, Equals(nil, "a"))
}

func TestEqualsDeepStructures(t *testing.T) {
	a := map[string]any{"x": []any{float64(1), float64(2)}, "y": "z"}
	b := map[string]any{"x": []any{float64(1), float64(2)}, "y": "z"}
	assert.True(t, Equals(a, b))

	c := map[string]any{"x": []any{float64(1), float64(3)}, "y": "z"}
	assert.False(t, Equals(a, c))
}

func TestCloneDeepIndependence(t *testing.T) {
	src := map[string]any{"arr": []any{float64(1), map[string]any{"n": float64(2)}}}
	clone := CloneDeep(src).(map[string]any)
	require.True(t, Equals(src, clone))

	clone["arr"].([]any)[1].(map[string]any)["n"] = float64(99)
	assert.True(t, Equals(src, map[string]any{"arr": []any{float64(1), map[string]any{"n": float64(2)}}}),
		"mutating the clone must not affect the source")
}

func TestIsBigIntAndCompare(t *testing.T) {
	assert.True(t, IsBigInt("0"))
	assert.True(t, IsBigInt("-123456789012345678901234567890"))
	assert.False(t, IsBigInt("007"))
	assert.False(t, IsBigInt("1.5"))
	assert.False(t, IsBigInt(""))

	assert.Equal(t, -1, CompareBigInt("-5", "3"))
	assert.Equal(t, 1, CompareBigInt("100", "99"))
	assert.Equal(t, 0, CompareBigInt("42", "42"))
	assert.Equal(t, -1, CompareBigInt("99", "100"))
}

func TestIsVariableNameAndDirectiveName(t *testing.T) {
	assert.True(t, IsVariableName("abc_123"))
	assert.True(t, IsVariableName("$hidden"))
	assert.False(t, IsVariableName("1abc"))
	assert.True(t, IsDirectiveName("$type"))
	assert.False(t, IsDirectiveName("type"))
}

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "billingProvider", ToCamelCase("billing_provider"))
	assert.Equal(t, "residentProvider", ToCamelCase("resident-provider"))
}

func TestRegexEscape(t *testing.T) {
	assert.Equal(t, `a\.b\*c`, RegexEscape("a.b*c"))
}
