package model

import "sort"

func init() {
	RegisterType(anyType{})
	RegisterType(objectType{})
	RegisterType(mapType{})
	RegisterType(arrayType{})
}

// --- any ---------------------------------------------------------------

type anyType struct{}

func (anyType) Name() string             { return "any" }
func (anyType) Defaults() map[string]any { return nil }

func (anyType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	// validateField already rejected nil unless $nullable; undefined
	// (absence) never reaches Validate. Anything else passes, optionally
	// narrowed by $allowed.
	if len(s.Allowed) > 0 && !allowedContains(s.Allowed, v) {
		rc.Acc.Add(path, CodeInvalidValue, "value not in allowed set")
		return nil, false
	}
	return v, true
}

// --- object --------------------------------------------------------------

type objectType struct{}

func (objectType) Name() string             { return "object" }
func (objectType) Defaults() map[string]any { return nil }

func (objectType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	in, ok := v.(map[string]any)
	if !ok {
		rc.Acc.Add(path, CodeExpectedObject, "expected object")
		return nil, false
	}

	out := make(map[string]any, len(s.Properties))
	allOK := true
	ancestorWrite := effectiveWriteExpr(s)
	ancestorRead := effectiveReadExpr(s)
	for _, name := range s.PropertyOrder {
		field := s.Properties[name]
		fv, present := in[name]
		childPath := JoinPath(path, name)
		res, ok, visible := validateField(rc, field, childPath, fv, present, ancestorWrite, ancestorRead)
		if !ok {
			allOK = false
			if rc.Acc.FailFast {
				return nil, false
			}
			continue
		}
		if (present || field.HasDefault) && visible {
			out[name] = res
		}
	}

	extractNested := rc.Options.Has(ExtractTop) && path == "" || rc.Options.Has(ExtractNested) && path != ""
	if !extractNested {
		keys := make([]string, 0, len(in))
		for key := range in {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, declared := s.Properties[key]; !declared {
				rc.Acc.Add(JoinPath(path, key), CodeUnexpectedProperty, "unexpected property")
				allOK = false
				if rc.Acc.FailFast {
					return nil, false
				}
			}
		}
	}

	if !allOK {
		return nil, false
	}
	return out, true
}

// --- map -------------------------------------------------------------------

type mapType struct{}

func (mapType) Name() string             { return "map" }
func (mapType) Defaults() map[string]any { return nil }

func (mapType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	in, ok := v.(map[string]any)
	if !ok {
		rc.Acc.Add(path, CodeExpectedObject, "expected map")
		return nil, false
	}
	if s.Data == nil {
		rc.Acc.Add(path, CodeInvalidValue, "map type requires $data")
		return nil, false
	}
	out := make(map[string]any, len(in))
	allOK := true
	ancestorWrite := effectiveWriteExpr(s)
	ancestorRead := effectiveReadExpr(s)
	keys := make([]string, 0, len(in))
	for key := range in {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		val := in[key]
		childPath := JoinPath(path, key)
		res, ok, visible := validateField(rc, s.Data, childPath, val, true, ancestorWrite, ancestorRead)
		if !ok {
			allOK = false
			if rc.Acc.FailFast {
				return nil, false
			}
			continue
		}
		if visible {
			out[key] = res
		}
	}
	if !allOK {
		return nil, false
	}
	return out, true
}

// --- array -------------------------------------------------------------------

type arrayType struct{}

func (arrayType) Name() string             { return "array" }
func (arrayType) Defaults() map[string]any { return nil }

func (arrayType) Validate(rc *RunCtx, s *Schema, path string, v any) (any, bool) {
	in, ok := v.([]any)
	if !ok {
		rc.Acc.Add(path, CodeExpectedArray, "expected array")
		return nil, false
	}
	if !checkLength(rc, s, path, len(in)) {
		return nil, false
	}
	if s.Data == nil {
		rc.Acc.Add(path, CodeInvalidValue, "array type requires $data")
		return nil, false
	}
	out := make([]any, len(in))
	allOK := true
	ancestorWrite := effectiveWriteExpr(s)
	ancestorRead := effectiveReadExpr(s)
	for i, val := range in {
		childPath := IndexPath(path, i)
		res, ok, _ := validateField(rc, s.Data, childPath, val, true, ancestorWrite, ancestorRead)
		if !ok {
			allOK = false
			if rc.Acc.FailFast {
				return nil, false
			}
			continue
		}
		out[i] = res
	}
	if !allOK {
		return nil, false
	}
	return out, true
}
