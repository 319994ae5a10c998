package model

import "strconv"

// Dim is one array dimension parsed from a $type shorthand string:
// "[n]" (exact), "[n:]" (min), "[:m]" (max), "[n:m]" (min/max), or "[]"
// (unbounded), with an optional trailing "?" admitting null at that
// level (spec §4.D "Shorthand grammar").
type Dim struct {
	Min      *int
	Max      *int
	Exact    *int
	Nullable bool
}

// ParseShorthand parses a $type string of the form "base-type
// modifier*" into its base type name, whether the base itself is
// nullable, and an outer-to-inner list of array dimensions. It panics
// (a schema-compile error) on a malformed modifier, a repeated "?" at
// the same level, or an unparsable bound.
//
// Grounded on the teacher's NewProp (jsonschema/validator_core.go),
// which dispatches on a schema's declared "type" string — generalized
// here into a small single-pass scanner for this engine's compact
// shorthand instead of JSON Schema's verbose keyword form.
func ParseShorthand(typeStr string) (base string, baseNullable bool, dims []Dim) {
	i := 0
	n := len(typeStr)
	for i < n && typeStr[i] != '?' && typeStr[i] != '[' {
		i++
	}
	base = typeStr[:i]
	if base == "" {
		panic("model: empty base type in shorthand \"" + typeStr + "\"")
	}

	sawBaseMark := false
	for i < n {
		switch typeStr[i] {
		case '?':
			if len(dims) == 0 {
				if sawBaseMark {
					panic("model: repeated '?' on base type in \"" + typeStr + "\"")
				}
				baseNullable = true
				sawBaseMark = true
			} else {
				last := &dims[len(dims)-1]
				if last.Nullable {
					panic("model: repeated '?' on array dimension in \"" + typeStr + "\"")
				}
				last.Nullable = true
			}
			i++
		case '[':
			end := i + 1
			for end < n && typeStr[end] != ']' {
				end++
			}
			if end >= n {
				panic("model: unterminated '[' in shorthand \"" + typeStr + "\"")
			}
			bound := typeStr[i+1 : end]
			dims = append(dims, parseBound(bound))
			i = end + 1
		default:
			panic("model: unexpected character in shorthand \"" + typeStr + "\"")
		}
	}
	return base, baseNullable, dims
}

func parseBound(bound string) Dim {
	if bound == "" {
		return Dim{}
	}
	colon := -1
	for i := 0; i < len(bound); i++ {
		if bound[i] == ':' {
			colon = i
			break
		}
	}
	if colon < 0 {
		n := mustAtoi(bound)
		return Dim{Exact: &n}
	}
	var d Dim
	if lo := bound[:colon]; lo != "" {
		n := mustAtoi(lo)
		d.Min = &n
	}
	if hi := bound[colon+1:]; hi != "" {
		n := mustAtoi(hi)
		d.Max = &n
	}
	return d
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic("model: invalid array bound \"" + s + "\"")
	}
	return n
}

// MaterializeShorthand builds the nested Schema tree a shorthand $type
// implies: dims applied outer-to-inner around a leaf schema of type
// base. leaf should already carry every other directive from the
// original descriptor (allowed values, length constraints that apply
// to the leaf itself, and so on).
func MaterializeShorthand(base string, baseNullable bool, dims []Dim, leaf *Schema) *Schema {
	leaf.Type = base
	leaf.Nullable = leaf.Nullable || baseNullable
	inner := leaf
	for i := len(dims) - 1; i >= 0; i-- {
		d := dims[i]
		arr := &Schema{Type: "array", Nullable: d.Nullable, Data: inner}
		if d.Exact != nil {
			arr.Length = d.Exact
		}
		if d.Min != nil {
			arr.MinLength = d.Min
		}
		if d.Max != nil {
			arr.MaxLength = d.Max
		}
		inner = arr
	}
	return inner
}
