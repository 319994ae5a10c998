package model

import (
	"sort"
)

// reservedEnumKeys are metadata names an enum definition may not use as a
// member key, since they collide with the factory's own introspection
// surface (spec §4.C).
var reservedEnumKeys = map[string]bool{
	"keyMap": true, "keyArray": true, "valueArray": true, "valueMap": true,
	"min": true, "max": true, "safe": true, "unique": true, "sequential": true,
}

// maxSafeInteger is the largest (and, negated, the smallest) integer a
// float64 can represent exactly — the boundary spec §4.C's "safe" flag
// checks every member value against.
const maxSafeInteger = 1<<53 - 1

// EnumMember is one name/value pair in an enum definition, in authoring
// order. A plain map cannot represent this: Go map iteration order is
// unspecified, but spec §4.C requires keyArray in insertion order and
// valueMap resolving a collision to the first-inserted key — both need
// an explicitly ordered input.
type EnumMember struct {
	Name  string
	Value int64
}

// Enum is the immutable value produced by NewEnum: a closed key<->value
// map plus the metadata spec §4.C requires callers to be able to inspect
// without re-deriving it (min/max of the value set, whether values are
// pairwise distinct, whether every value fits in the 53-bit safe-integer
// range, whether they form a contiguous run from the smallest value).
//
// Grounded on the teacher's SchemaType, a small closed string-keyed
// vocabulary with a custom (Un)MarshalJSON (jsonschema/schema.go) —
// generalized here from a hardcoded type list into a factory any caller
// can invoke with its own key/value set.
type Enum struct {
	keyMap     map[string]int64
	keyArray   []string
	valueArray []int64
	valueMap   map[int64]string
	min        int64
	max        int64
	safe       bool
	unique     bool
	sequential bool
}

// NewEnum builds an Enum from an ordered list of members. It panics if a
// key is reserved, duplicated, or not a valid identifier (IsVariableName)
// — these are authoring errors in a schema descriptor, not runtime
// validation failures, mirroring the teacher's habit of panicking on
// malformed schema construction (jsonschema/schema.go's NewSchema) while
// reserving error returns for payload-shaped problems.
func NewEnum(members []EnumMember) *Enum {
	e := &Enum{
		keyMap:     make(map[string]int64, len(members)),
		valueMap:   make(map[int64]string, len(members)),
		keyArray:   make([]string, 0, len(members)),
		valueArray: make([]int64, 0, len(members)),
	}

	seenKey := make(map[string]bool, len(members))
	seenValue := make(map[int64]bool, len(members))
	e.unique = true
	e.safe = true
	first := true
	for _, m := range members {
		k, v := m.Name, m.Value
		if reservedEnumKeys[k] {
			panic("model: enum key \"" + k + "\" is reserved")
		}
		if !IsVariableName(k) {
			panic("model: enum key \"" + k + "\" is not a valid identifier")
		}
		if seenKey[k] {
			panic("model: duplicate enum key \"" + k + "\"")
		}
		seenKey[k] = true

		e.keyMap[k] = v
		if !seenValue[v] {
			// First-inserted key wins on a value collision (spec §4.C).
			e.valueMap[v] = k
		}
		e.keyArray = append(e.keyArray, k)
		e.valueArray = append(e.valueArray, v)

		if seenValue[v] {
			e.unique = false
		}
		seenValue[v] = true

		if v < -maxSafeInteger || v > maxSafeInteger {
			e.safe = false
		}

		if first {
			e.min, e.max = v, v
			first = false
		} else {
			if v < e.min {
				e.min = v
			}
			if v > e.max {
				e.max = v
			}
		}
	}

	sortedValues := append([]int64{}, e.valueArray...)
	sort.Slice(sortedValues, func(i, j int) bool { return sortedValues[i] < sortedValues[j] })

	e.sequential = e.unique && len(sortedValues) > 0
	for i, v := range sortedValues {
		if v != e.min+int64(i) {
			e.sequential = false
			break
		}
	}
	return e
}

// HasKey reports whether name is a member of the enum.
func (e *Enum) HasKey(name string) bool {
	_, ok := e.keyMap[name]
	return ok
}

// HasValue reports whether v is a member value of the enum.
func (e *Enum) HasValue(v int64) bool {
	_, ok := e.valueMap[v]
	return ok
}

// KeyToValue resolves a member name to its value.
func (e *Enum) KeyToValue(name string) (int64, bool) {
	v, ok := e.keyMap[name]
	return v, ok
}

// ValueToKey resolves a member value back to its name (the
// first-inserted key, if more than one member shares the value).
func (e *Enum) ValueToKey(v int64) (string, bool) {
	k, ok := e.valueMap[v]
	return k, ok
}

// KeyArray returns the member names in insertion (authoring) order.
func (e *Enum) KeyArray() []string {
	out := make([]string, len(e.keyArray))
	copy(out, e.keyArray)
	return out
}

// ValueArray returns the member values in ascending order.
func (e *Enum) ValueArray() []int64 {
	out := make([]int64, len(e.valueArray))
	copy(out, e.valueArray)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Min returns the smallest member value.
func (e *Enum) Min() int64 { return e.min }

// Max returns the largest member value.
func (e *Enum) Max() int64 { return e.max }

// Safe reports whether every member value is an integer within the
// 53-bit safe-integer range (±(2^53-1)), independent of uniqueness.
func (e *Enum) Safe() bool { return e.safe }

// Unique reports whether every member value is distinct.
func (e *Enum) Unique() bool { return e.unique }

// Sequential reports whether the member values form a contiguous run
// starting at Min with no gaps or repeats.
func (e *Enum) Sequential() bool { return e.sequential }
