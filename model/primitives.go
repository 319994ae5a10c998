package model

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"
)

// variableNamePattern / directiveNamePattern ground the identifier
// classifiers in spec §4.B, following the teacher's habit
// (jsonschema/validator_format.go) of precompiling small regexes once.
var variableNamePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// IsVariableName reports whether s matches [A-Za-z_$][A-Za-z0-9_$]*.
func IsVariableName(s string) bool {
	return variableNamePattern.MatchString(s)
}

// IsDirectiveName reports whether s starts with "$".
func IsDirectiveName(s string) bool {
	return len(s) > 0 && s[0] == '$'
}

// bigIntPattern grounds IsBigInt: -?(0|[1-9][0-9]*).
var bigIntPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)

// IsBigInt reports whether s is a valid arbitrary-precision integer
// literal per spec §4.B.
func IsBigInt(s string) bool {
	return bigIntPattern.MatchString(s)
}

// CompareBigInt returns -1, 0, or 1 comparing two IsBigInt strings by
// sign, then digit-length, then lexicographic order — the standard
// trick for comparing arbitrary-precision decimal strings without
// parsing them into a big.Int.
func CompareBigInt(a, b string) int {
	aNeg, aDigits := splitBigInt(a)
	bNeg, bDigits := splitBigInt(b)
	switch {
	case aNeg && !bNeg:
		return -1
	case !aNeg && bNeg:
		return 1
	}
	// Both same sign: compare magnitude, then flip for negatives.
	cmp := compareMagnitude(aDigits, bDigits)
	if aNeg {
		return -cmp
	}
	return cmp
}

func splitBigInt(s string) (neg bool, digits string) {
	if strings.HasPrefix(s, "-") {
		return true, s[1:]
	}
	return false, s
}

func compareMagnitude(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equals performs the deep structural equality described in spec §4.B:
// scalars, ordered sequences and objects (key-set equality, recursive
// values), NaN == NaN, and an explicit key bound to nil is distinct from
// an absent key. Cycles panic — this is a programmer error, never
// reachable through normalized schemas or decoded JSON input.
func Equals(a, b any) bool {
	return equalsDepth(a, b, make(map[[2]uintptr]bool))
}

// visitKey identifies a (map, slice) pair being compared by the
// identity of their backing storage rather than by hashing the values
// themselves: map[string]any and []any are not comparable, so using
// them directly as a map key panics on any nested container, not just
// on an actual cycle. reflect.Value.Pointer() gives a stable,
// hashable identity for that storage instead.
func visitKey(a, b any) [2]uintptr {
	return [2]uintptr{reflect.ValueOf(a).Pointer(), reflect.ValueOf(b).Pointer()}
}

func equalsDepth(a, b any, seen map[[2]uintptr]bool) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		key := visitKey(av, bv)
		if seen[key] {
			panic("model: Equals encountered a cycle")
		}
		seen[key] = true
		equal := true
		for k, aval := range av {
			bval, exists := bv[k]
			if !exists || !equalsDepth(aval, bval, seen) {
				equal = false
				break
			}
		}
		delete(seen, key)
		return equal
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		key := visitKey(av, bv)
		if seen[key] {
			panic("model: Equals encountered a cycle")
		}
		seen[key] = true
		equal := true
		for i := range av {
			if !equalsDepth(av[i], bv[i], seen) {
				equal = false
				break
			}
		}
		delete(seen, key)
		return equal
	case float64:
		bv, ok := b.(float64)
		if !ok {
			return false
		}
		if av != av && bv != bv { // NaN == NaN
			return true
		}
		return av == bv
	default:
		return a == b
	}
}

// CloneDeep reproduces scalars, sequences and objects; each reference in
// the result is independent of the source (no shared aliasing). Inputs
// are assumed acyclic, same as the teacher's copyValue
// (jsonschema/validator_core.go) it generalizes.
func CloneDeep(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, val := range vv {
			out[k] = CloneDeep(val)
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, val := range vv {
			out[i] = CloneDeep(val)
		}
		return out
	default:
		return v
	}
}

// ToCamelCase converts snake_case or kebab-case identifiers to camelCase,
// in the small-string-utility style of jsonschema/common.go.
func ToCamelCase(s string) string {
	var sb strings.Builder
	upperNext := false
	for i, r := range s {
		switch {
		case r == '_' || r == '-' || r == ' ':
			upperNext = true
		case upperNext:
			sb.WriteRune(unicode.ToUpper(r))
			upperNext = false
		case i == 0:
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

var regexEscaper = strings.NewReplacer(
	`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
	`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
	`^`, `\^`, `$`, `\$`, `|`, `\|`,
)

// RegexEscape escapes regex metacharacters in s for literal matching.
func RegexEscape(s string) string {
	return regexEscaper.Replace(s)
}
