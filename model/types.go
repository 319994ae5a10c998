package model

import "sync"

// Type is the contract every entry in the runtime type registry
// satisfies (spec §4.D). Validate receives the already-nullability- and
// existence-checked value and is responsible for everything type
// specific: shape checks, coercion, range/length/pattern constraints,
// and recursion into child schemas for container types.
//
// Grounded on jsonschema/validator_base.go's per-kind validator
// functions and jsonschema/validator_core.go's NewProp/ArrProp dispatch
// table, generalized from a fixed kind switch into an open registry any
// caller can extend (spec §4.D "Type registry").
type Type interface {
	// Name is the canonical registry key ("int8", "datetime", ...).
	Name() string

	// Defaults returns the directive defaults this type implies when a
	// descriptor omits them (e.g. ip's $format defaults to "any").
	Defaults() map[string]any

	// Validate checks v against the normalized Schema node and appends
	// diagnostics to acc at path. It returns the (possibly coerced)
	// value to write into the output mirror and whether validation
	// succeeded well enough to continue (false short-circuits the
	// caller in fail-fast mode).
	Validate(rc *RunCtx, s *Schema, path string, v any) (out any, ok bool)
}

// RunCtx threads per-invocation state through a compiled routine: the
// diagnostic accumulator, the active option bitmask, and the caller's
// access roles. Grounded on jsonschema.ValidateCtx
// (jsonschema/validator_core.go), generalized to also carry access
// roles and the option bitmask spec §4.G requires.
type RunCtx struct {
	Acc     *Accumulator
	Options Options
	Access  AccessSet
}

// Options is the bit-combinable flag set from spec §6.
type Options uint8

const (
	NoOptions        Options = 0
	ExtractTop       Options = 1 << 0
	ExtractNested    Options = 1 << 1
	DeltaMode        Options = 1 << 2
	AccumulateErrors Options = 1 << 3
)

// ExtractAll combines ExtractTop and ExtractNested (spec §6).
const ExtractAll = ExtractTop | ExtractNested

func (o Options) Has(f Options) bool { return o&f != 0 }

// registry is the process-wide type table. Registration happens from
// package init (see types_scalar.go etc.) and, for host extensions, via
// RegisterType — mirroring jsonschema/validator_core.go's package-level
// funcs map populated by registerValidator in multiple files.
var (
	registryMu sync.RWMutex
	registry   = map[string]Type{}
)

// RegisterType installs t under t.Name(), overwriting any previous
// registration under the same name. Intended for package init and for
// hosts that need a domain-specific scalar the catalog doesn't cover.
func RegisterType(t Type) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t.Name()] = t
}

// LookupType returns the registered Type for name, if any.
func LookupType(name string) (Type, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[name]
	return t, ok
}

// PredicateFunc is a host-supplied $fn implementation, keyed by name and
// invoked with the field's (already type-checked) value.
type PredicateFunc func(v any) bool

var (
	predicateMu sync.RWMutex
	predicates  = map[string]PredicateFunc{}
)

// RegisterPredicate installs a named predicate usable from a schema's
// $fn directive. Grounded on jsonschema/validator_format.go's
// RegisterFormatValidator extension point, generalized from string
// "format" names to arbitrary field-level predicates.
func RegisterPredicate(name string, fn PredicateFunc) {
	predicateMu.Lock()
	defer predicateMu.Unlock()
	predicates[name] = fn
}

func lookupPredicate(name string) (PredicateFunc, bool) {
	predicateMu.RLock()
	defer predicateMu.RUnlock()
	fn, ok := predicates[name]
	return fn, ok
}
