package model

import "sync"

// Routine is a compiled validator for one (schema, options, access)
// triple (spec §4.G). Calling it walks input depth-first and returns a
// freshly built output mirror plus the diagnostics collected.
//
// Grounded on jsonschema.Schema.Validate's depth-first walk
// (jsonschema/validator_core.go), but instead of emitting and evaluating
// source text (the teacher's "code generation" is JSON Schema's
// assembled Go closures over the keyword set), Routine closes over a
// pre-resolved Schema tree directly — the "small interpreter of a
// compiled IR" alternative spec's Redesign Flags calls out explicitly
// for a statically typed target.
type Routine func(input any, opts Options, access AccessSet) (any, []Diagnostic, error)

var routineCache sync.Map // cacheKey -> Routine

// Precompile returns the compiled Routine for s under opts/access,
// compiling and caching it on first use. Concurrent callers may
// redundantly compile; the cache is a pure memoization table and
// last-write-wins install is safe because entries for the same key are
// semantically identical (spec §5).
func Precompile(s *Schema, opts Options, access AccessSet) Routine {
	key := cacheKey(s.Fingerprint(), opts, accessFingerprint(access))
	if v, ok := routineCache.Load(key); ok {
		return v.(Routine)
	}
	routine := compile(s)
	actual, _ := routineCache.LoadOrStore(key, routine)
	return actual.(Routine)
}

// CacheStats reports the number of distinct compiled routines currently
// cached, a supplemented introspection surface (spec §6 mentions
// "precompile and retrieve the compiled validator" but not a count);
// grounded on the teacher's examples/main.go demoing cache warm-up.
func CacheStats() (routines int) {
	routineCache.Range(func(_, _ any) bool {
		routines++
		return true
	})
	return routines
}

// compile builds a Routine closed over s. The bitmask/access arguments
// passed into the returned Routine are baked into the RunCtx each
// invocation constructs fresh, since those vary per call even though
// the cache key pins them for a given cached instance.
func compile(s *Schema) Routine {
	return func(input any, opts Options, access AccessSet) (any, []Diagnostic, error) {
		acc := NewAccumulator(!opts.Has(AccumulateErrors))
		rc := &RunCtx{Acc: acc, Options: opts, Access: access}
		out, _, _ := validateField(rc, s, "", input, true, "", "")
		errs := acc.Errors()
		if len(errs) > 0 {
			return nil, errs, &SchemaError{Errors: errs}
		}
		return out, nil, nil
	}
}

// Process fetches/compiles the Routine for an already-normalized
// schema and runs it — the single façade operation spec §4.H
// calls "process(input, schema, options?, access?) -> output".
func Process(input any, schema *Schema, opts Options, access AccessSet) (any, error) {
	routine := Precompile(schema, opts, access)
	out, _, err := routine(input, opts, access)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// effectiveWriteExpr and effectiveReadExpr resolve $a as the fallback
// expression for whichever of $w/$r a field didn't set explicitly (spec
// §4.G: "$a applies the same expression to both read and write").
func effectiveWriteExpr(s *Schema) string {
	if s.WriteAccess != "" {
		return s.WriteAccess
	}
	return s.AnyAccess
}

func effectiveReadExpr(s *Schema) string {
	if s.ReadAccess != "" {
		return s.ReadAccess
	}
	return s.AnyAccess
}

func resolveInherit(expr, ancestor string) string {
	if expr != "inherit" {
		return expr
	}
	if ancestor != "" {
		return ancestor
	}
	return "*"
}

// validateField runs the generic per-field pipeline common to every
// type (existence -> nullability -> write access -> type dispatch ->
// constraints) before delegating type-specific shape/constraint checks
// to the registered Type. ancestorWrite/ancestorRead are the nearest
// enclosing $w/$r (or $a) expressions, used to resolve "inherit" tokens
// (spec §4.G). The third return value reports whether the field is
// readable under the caller's access set: a $r/$a violation does not
// invalidate the record (unlike $w, which rejects the whole call) — it
// only tells the caller (objectType) to omit the field from output.
func validateField(rc *RunCtx, s *Schema, path string, v any, present bool, ancestorWrite, ancestorRead string) (any, bool, bool) {
	if !present {
		if s.HasDefault {
			return CloneDeep(s.Default), true, true
		}
		if rc.Options.Has(DeltaMode) && !deltaDisabled(s) {
			return nil, true, true
		}
		if s.Optional {
			return nil, true, true
		}
		rc.Acc.Add(path, CodeMissingProperty, "missing required field")
		return nil, false, true
	}

	if v == nil {
		if s.Nullable {
			return nil, true, true
		}
		rc.Acc.Add(path, CodeInvalidValue, "null is not allowed")
		return nil, false, true
	}

	if rc.Access != nil {
		if writeExpr := effectiveWriteExpr(s); writeExpr != "" {
			if !evalAccess(resolveInherit(writeExpr, ancestorWrite), rc.Access) {
				rc.Acc.Add(path, CodeNoAccess, "write access denied")
				return nil, false, true
			}
		}
	}

	visible := true
	if rc.Access != nil {
		if readExpr := effectiveReadExpr(s); readExpr != "" {
			visible = evalAccess(resolveInherit(readExpr, ancestorRead), rc.Access)
		}
	}

	t, ok := LookupType(s.Type)
	if !ok {
		rc.Acc.Add(path, CodeInvalidValue, "unknown type \""+s.Type+"\"")
		return nil, false, visible
	}

	out, valid := t.Validate(rc, s, path, v)
	if !valid {
		return nil, false, visible
	}

	if s.Exp != nil {
		if !s.Exp.Eval(out) {
			rc.Acc.Add(path, CodeInvalidValue, "expression constraint failed")
			return nil, false, visible
		}
	}
	if s.FnName != "" {
		if fn, ok := lookupPredicate(s.FnName); ok && !fn(out) {
			rc.Acc.Add(path, CodeInvalidValue, "predicate \""+s.FnName+"\" failed")
			return nil, false, visible
		}
	}
	return out, true, visible
}

func deltaDisabled(s *Schema) bool {
	return s.Delta != nil && !*s.Delta
}
