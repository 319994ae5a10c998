package model

import (
	"math"
	"strconv"

	"github.com/goccy/go-reflect"
)

func init() {
	RegisterType(boolType{})
	for _, w := range intWidths {
		RegisterType(intType{name: w.name, lo: w.lo, hi: w.hi})
	}
	RegisterType(numberType{name: "number"})
	RegisterType(numberType{name: "double"})
	RegisterType(numericType{})
	RegisterType(latLonType{name: "lat", lo: -90, hi: 90})
	RegisterType(latLonType{name: "lon", lo: -180, hi: 180})
	RegisterType(bigIntType{name: "bigint"})
	RegisterType(bigIntType{name: "int64", lo: "-9223372036854775808", hi: "9223372036854775807"})
	RegisterType(bigIntType{name: "uint64", lo: "0", hi: "18446744073709551615"})
	RegisterType(charType{})
}

// intWidths enumerates the fixed-width integer family spec §4.D names:
// int/uint (platform-width, modeled as 53-bit safe-integer) and the
// explicit bit widths.
var intWidths = []struct {
	name   string
	lo, hi float64
}{
	{"int8", -128, 127},
	{"int16", -32768, 32767},
	{"int24", -8388608, 8388607},
	{"int32", -2147483648, 2147483647},
	{"int53", -(1<<53 - 1), 1<<53 - 1},
	{"int", -(1<<53 - 1), 1<<53 - 1},
	{"uint8", 0, 255},
	{"uint16", 0, 65535},
	{"uint24", 0, 16777215},
	{"uint32", 0, 4294967295},
	{"uint53", 0, 1<<53 - 1},
	{"uint", 0, 1<<53 - 1},
}

// asFloat64 extracts a numeric value, rejecting booleans and strings
// the way spec §4.D's integer family requires ("reject booleans,
// strings, non-integers"). Input is normally a JSON-decoded float64,
// but Process also accepts native Go values (a caller bypassing the
// JSON codec entirely), so any other numeric kind is coerced via
// reflection rather than rejected outright.
//
// Grounded on jsonschema/validator_base.go's typeInteger/typeNumber,
// which fall back to github.com/goccy/go-reflect's isKind helper for
// exactly this case instead of a fixed type-switch.
func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// --- bool --------------------------------------------------------------

type boolType struct{}

func (boolType) Name() string              { return "bool" }
func (boolType) Defaults() map[string]any  { return nil }

func (boolType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	b, ok := v.(bool)
	if !ok {
		rc.Acc.Add(path, CodeExpectedBoolean, "expected boolean")
		return nil, false
	}
	return b, true
}

// --- fixed-width integers ------------------------------------------------

type intType struct {
	name   string
	lo, hi float64
}

func (t intType) Name() string             { return t.name }
func (intType) Defaults() map[string]any   { return nil }

func (t intType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	n, ok := asFloat64(v)
	if !ok {
		rc.Acc.Add(path, CodeExpectedNumber, "expected integer")
		return nil, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		rc.Acc.Add(path, CodeExpectedNumber, "expected a finite integer")
		return nil, false
	}
	lo, hi := t.lo, t.hi
	if s.Min != nil && *s.Min > lo {
		lo = *s.Min
	}
	if s.Max != nil && *s.Max < hi {
		hi = *s.Max
	}
	if n < lo || n > hi {
		rc.Acc.Add(path, CodeOutOfRange, "out of range ["+strconv.FormatFloat(lo, 'f', -1, 64)+","+strconv.FormatFloat(hi, 'f', -1, 64)+"]")
		return nil, false
	}
	return n, true
}

// --- number / double ------------------------------------------------------

type numberType struct{ name string }

func (t numberType) Name() string            { return t.name }
func (numberType) Defaults() map[string]any  { return nil }

func (numberType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	n, ok := asFloat64(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		rc.Acc.Add(path, CodeExpectedNumber, "expected a finite number")
		return nil, false
	}
	if !checkNumericBounds(rc, s, path, n) {
		return nil, false
	}
	return n, true
}

func checkNumericBounds(rc *RunCtx, s *Schema, path string, n float64) bool {
	if s.Min != nil && n < *s.Min {
		rc.Acc.Add(path, CodeOutOfRange, "below minimum")
		return false
	}
	if s.Max != nil && n > *s.Max {
		rc.Acc.Add(path, CodeOutOfRange, "above maximum")
		return false
	}
	if s.MinExclusive != nil && n <= *s.MinExclusive {
		rc.Acc.Add(path, CodeOutOfRange, "not above exclusive minimum")
		return false
	}
	if s.MaxExclusive != nil && n >= *s.MaxExclusive {
		rc.Acc.Add(path, CodeOutOfRange, "not below exclusive maximum")
		return false
	}
	return true
}

// --- numeric(precision, scale) -------------------------------------------

type numericType struct{}

func (numericType) Name() string             { return "numeric" }
func (numericType) Defaults() map[string]any { return map[string]any{"precision": 18, "scale": 0} }

func (numericType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	n, ok := asFloat64(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		rc.Acc.Add(path, CodeExpectedNumber, "expected a finite decimal")
		return nil, false
	}
	precision := s.ExtraInt("precision", 18)
	scale := s.ExtraInt("scale", 0)
	if scale < 0 || scale >= precision {
		panic("model: numeric requires 0 <= scale < precision")
	}
	str := strconv.FormatFloat(n, 'f', scale, 64)
	digits := 0
	for _, r := range str {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits > precision {
		rc.Acc.Add(path, CodeOutOfRange, "exceeds precision "+strconv.Itoa(precision))
		return nil, false
	}
	if !checkNumericBounds(rc, s, path, n) {
		return nil, false
	}
	out, _ := strconv.ParseFloat(str, 64)
	return out, true
}

// --- lat / lon ------------------------------------------------------------

type latLonType struct {
	name   string
	lo, hi float64
}

func (t latLonType) Name() string            { return t.name }
func (latLonType) Defaults() map[string]any  { return nil }

func (t latLonType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	n, ok := asFloat64(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		rc.Acc.Add(path, CodeExpectedNumber, "expected a finite number")
		return nil, false
	}
	if n < t.lo || n > t.hi {
		rc.Acc.Add(path, CodeOutOfRange, "out of range")
		return nil, false
	}
	return n, true
}

// --- bigint / int64 / uint64 (string-encoded) -----------------------------

type bigIntType struct {
	name   string
	lo, hi string // empty means unbounded
}

func (t bigIntType) Name() string            { return t.name }
func (bigIntType) Defaults() map[string]any  { return nil }

func (t bigIntType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	str, ok := v.(string)
	if !ok || !IsBigInt(str) {
		rc.Acc.Add(path, CodeInvalidValue, "expected a big-integer string")
		return nil, false
	}
	if t.lo != "" && CompareBigInt(str, t.lo) < 0 {
		rc.Acc.Add(path, CodeOutOfRange, "below minimum")
		return nil, false
	}
	if t.hi != "" && CompareBigInt(str, t.hi) > 0 {
		rc.Acc.Add(path, CodeOutOfRange, "above maximum")
		return nil, false
	}
	if s.MinBig != nil && CompareBigInt(str, *s.MinBig) < 0 {
		rc.Acc.Add(path, CodeOutOfRange, "below minimum")
		return nil, false
	}
	if s.MaxBig != nil && CompareBigInt(str, *s.MaxBig) > 0 {
		rc.Acc.Add(path, CodeOutOfRange, "above maximum")
		return nil, false
	}
	return str, true
}

// --- char ------------------------------------------------------------------

type charType struct{}

func (charType) Name() string             { return "char" }
func (charType) Defaults() map[string]any { return nil }

func (charType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	str, ok := v.(string)
	if !ok {
		rc.Acc.Add(path, CodeExpectedString, "expected a single character")
		return nil, false
	}
	if str == "" {
		if s.Empty {
			return str, true
		}
		rc.Acc.Add(path, CodeLengthConstraint, "expected exactly one character")
		return nil, false
	}
	runes := []rune(str)
	if len(runes) != 1 {
		rc.Acc.Add(path, CodeLengthConstraint, "expected exactly one character")
		return nil, false
	}
	if len(s.Allowed) > 0 {
		allowedStr, _ := s.Allowed[0].(string)
		found := false
		for _, r := range allowedStr {
			if r == runes[0] {
				found = true
				break
			}
		}
		if !found {
			rc.Acc.Add(path, CodeInvalidValue, "character not in allowed set")
			return nil, false
		}
	}
	return str, true
}
