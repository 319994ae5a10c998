// Package exmodel is the public façade of the schema definition and
// validation engine: build a normalized Schema from a descriptor,
// validate/process input against it, and precompile validators for
// cache warmup.
//
// Grounded on the teacher's jsonschema.Schema (jsonschema/schema.go):
// NewSchema/NewSchemaFromJSON/Validate/ValidateAndUnmarshalJSON are the
// same shape of entry points, generalized from JSON Schema draft
// 2020-12 to this engine's directive-based schema vocabulary, and
// backed by the model package instead of a single monolithic type.
package exmodel

import (
	"bytes"
	"encoding/json"

	"github.com/oarkflow/exmodel/jsonmap"
	"github.com/oarkflow/exmodel/model"
)

// Schema is a normalized, ready-to-compile schema node.
type Schema = model.Schema

// Options is the bit-combinable flag set accepted by Process/Precompile.
type Options = model.Options

// AccessSet is the caller's role set for $r/$w/$a evaluation.
type AccessSet = model.AccessSet

// SchemaError is the diagnostic carrier Process returns on failure.
type SchemaError = model.SchemaError

// Diagnostic is a single validation finding inside a SchemaError.
type Diagnostic = model.Diagnostic

// Code is a value from the closed diagnostic vocabulary.
type Code = model.Code

// Enum is the immutable value NewEnum returns.
type Enum = model.Enum

// Routine is a compiled validator returned by Precompile.
type Routine = model.Routine

// Diagnostic codes (closed vocabulary, spec §4.A).
const (
	CodeExpectedBoolean    = model.CodeExpectedBoolean
	CodeExpectedNumber     = model.CodeExpectedNumber
	CodeExpectedString     = model.CodeExpectedString
	CodeExpectedObject     = model.CodeExpectedObject
	CodeExpectedArray      = model.CodeExpectedArray
	CodeInvalidValue       = model.CodeInvalidValue
	CodeOutOfRange         = model.CodeOutOfRange
	CodeLengthConstraint   = model.CodeLengthConstraint
	CodeUnexpectedProperty = model.CodeUnexpectedProperty
	CodeMissingProperty    = model.CodeMissingProperty
	CodeNoAccess           = model.CodeNoAccess
	CodeInvalidFormat      = model.CodeInvalidFormat
	CodePatternMismatch    = model.CodePatternMismatch
)

// Option flags (spec §6).
const (
	NoOptions        = model.NoOptions
	ExtractTop       = model.ExtractTop
	ExtractNested    = model.ExtractNested
	ExtractAll       = model.ExtractAll
	DeltaMode        = model.DeltaMode
	AccumulateErrors = model.AccumulateErrors
)

// NewSchema normalizes a descriptor into a Schema. descriptor may be a
// map[string]any tree, an already-normalized *Schema (returned as-is),
// raw JSON bytes, or a JSON string — mirroring the teacher's
// NewSchema/NewSchemaFromJSON pair collapsed into one entry point that
// dispatches on the argument's shape.
func NewSchema(descriptor any) (*Schema, error) {
	d, err := scaleDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	var s *Schema
	err = catchSchemaPanic(func() { s = model.Normalize(d) })
	return s, err
}

// scaleDescriptor decodes []byte/string input into a generic any tree,
// passing everything else through unchanged — grounded on the
// teacher's scaleObject (jsonschema/schema.go), using the teacher's own
// dependency-free jsonmap codec rather than encoding/json since neither
// schema descriptors nor input payloads need struct-tag-driven decoding
// here.
func scaleDescriptor(i any) (any, error) {
	switch d := i.(type) {
	case []byte:
		var out any
		if err := jsonmap.Unmarshal(d, &out); err != nil {
			return nil, err
		}
		return out, nil
	case string:
		var out any
		if err := jsonmap.Unmarshal([]byte(d), &out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return i, nil
	}
}

// catchSchemaPanic converts a normalizer panic (a schema-compile error,
// spec §7) into a returned error, since Normalize panics eagerly on
// authoring mistakes rather than returning (value, error) like runtime
// validation does.
func catchSchemaPanic(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = &schemaCompileError{msg: toMessage(r)}
		}
	}()
	fn()
	return nil
}

type schemaCompileError struct{ msg string }

func (e *schemaCompileError) Error() string { return e.msg }

func toMessage(r any) string {
	if s, ok := r.(string); ok {
		return s
	}
	return "model: schema compile error"
}

// Process fetches/compiles the Routine for the already-normalized
// schema and runs it against input, returning a freshly built output
// mirror. A []byte or string input is first decoded as JSON. On
// validation failure it returns a *SchemaError.
func Process(input any, schema *Schema, opts Options, access AccessSet) (any, error) {
	in, err := scaleDescriptor(input)
	if err != nil {
		return nil, err
	}
	return model.Process(in, schema, opts, access)
}

// ProcessAndUnmarshal processes raw JSON data against schema and
// decodes the (validated, filtered) result into target, mirroring the
// teacher's ValidateAndUnmarshalJSON.
func ProcessAndUnmarshal(data []byte, schema *Schema, opts Options, access AccessSet, target any) error {
	out, err := Process(data, schema, opts, access)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, target)
}

// Precompile returns the compiled Routine for schema under opts/access,
// compiling and caching it on first use (spec §4.H).
func Precompile(schema *Schema, opts Options, access AccessSet) Routine {
	return model.Precompile(schema, opts, access)
}

// CacheStats reports how many distinct compiled routines are currently
// cached.
func CacheStats() int {
	return model.CacheStats()
}

// EnumMember is one name/value pair in an enum definition, in authoring
// order.
type EnumMember = model.EnumMember

// NewEnum builds an Enum from an ordered key/value list (spec §4.C).
func NewEnum(members []EnumMember) *Enum {
	return model.NewEnum(members)
}

// RegisterPredicate installs a named $fn predicate.
func RegisterPredicate(name string, fn model.PredicateFunc) {
	model.RegisterPredicate(name, fn)
}

// RegisterType installs a custom type into the runtime type registry.
func RegisterType(t model.Type) {
	model.RegisterType(t)
}

// Equals performs deep structural equality (spec §6).
func Equals(a, b any) bool { return model.Equals(a, b) }

// CloneDeep deep-clones scalars, sequences, and objects (spec §6).
func CloneDeep(v any) any { return model.CloneDeep(v) }

// ToCamelCase converts snake_case/kebab-case to camelCase (spec §6).
func ToCamelCase(s string) string { return model.ToCamelCase(s) }

// RegexEscape escapes regex metacharacters for literal matching (spec §6).
func RegexEscape(s string) string { return model.RegexEscape(s) }

// IsBigInt reports whether s is a valid arbitrary-precision integer
// literal (spec §6).
func IsBigInt(s string) bool { return model.IsBigInt(s) }

// CompareBigInt compares two IsBigInt strings (spec §6).
func CompareBigInt(a, b string) int { return model.CompareBigInt(a, b) }

// Sprint renders schema's descriptor form as indented JSON, for
// debugging — a supplemented introspection surface grounded on the
// teacher's Schema.FormatBytes (jsonschema/schema.go), generalized from
// raw bytes to a string and from the original JSON Schema document to
// this engine's re-derived descriptor tree.
func Sprint(schema *Schema) string {
	bs, err := json.Marshal(schemaPublicView(schema))
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bs, "", "  "); err != nil {
		return string(bs)
	}
	return buf.String()
}

func schemaPublicView(s *Schema) any {
	return model.DescribeSchema(s)
}
