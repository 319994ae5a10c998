package model

import (
	"sort"
	"strings"
)

// Normalize turns a user-authored descriptor into a sealed Schema tree
// (spec §4.E). An already-normalized *Schema is returned unchanged
// (idempotent, spec §4.H). A map[string]any descriptor is interpreted
// as directives (keys starting with "$") plus, for object schemas,
// child field descriptors (every other key).
//
// Grounded on jsonschema.compileSchema (jsonschema/schema.go), which
// walks a decoded JSON Schema document once into a tree of compiled
// Schema nodes — generalized from JSON Schema's keyword set to this
// engine's $-prefixed directive vocabulary, $extend/$include
// composition, and derived key/group/access metadata.
func Normalize(descriptor any) *Schema {
	return normalizeNode(descriptor, nil)
}

func normalizeNode(descriptor any, extendBase *Schema) *Schema {
	if s, ok := descriptor.(*Schema); ok {
		return s
	}
	m, ok := descriptor.(map[string]any)
	if !ok {
		panic("model: schema descriptor must be an object or an already-normalized schema")
	}

	if baseDesc, hasExtend := m["$extend"]; hasExtend {
		base := Normalize(baseDesc)
		clone := cloneSchema(base)
		return normalizeWithExtend(m, clone)
	}

	if extendBase != nil {
		return normalizeWithExtend(m, extendBase)
	}

	if typeStr, hasType := m["$type"].(string); hasType {
		return normalizeTyped(m, typeStr)
	}

	return normalizeObject(m)
}

// normalizeTyped handles a descriptor that names a (possibly shorthand)
// $type directly, including the scalar/container catalog entries.
func normalizeTyped(m map[string]any, typeStr string) *Schema {
	base, baseNullable, dims := ParseShorthand(typeStr)
	leaf := &Schema{}
	applyCommonDirectives(leaf, m)
	if data, ok := m["$data"]; ok && (base == "array" || base == "map") {
		leaf.Data = Normalize(data)
	}
	if base == "object" {
		obj := normalizeObjectFields(m)
		obj.Type = "object"
		applyCommonDirectives(obj, m)
		return obj
	}
	s := MaterializeShorthand(base, baseNullable, dims, leaf)
	if len(dims) == 0 {
		return s
	}
	// Array dimensions inherit nothing further from m beyond $data
	// (already routed into the leaf above); the outer array wrapper(s)
	// MaterializeShorthand built carry only their own length bounds.
	return s
}

// unescapeFieldName undoes the "\$name" escape spec §3 requires for a
// field that is literally named starting with "$" (so it isn't mistaken
// for a directive): a descriptor key "\$meta" names a real input field
// "$meta". Applied exactly once, at normalization, so the stored
// property name matches the real input key the validator will look up.
func unescapeFieldName(name string) string {
	if strings.HasPrefix(name, `\$`) {
		return name[1:]
	}
	return name
}

// normalizeObject handles an untyped mapping: every key is a field
// name pointing at a child descriptor, implicitly type "object".
func normalizeObject(m map[string]any) *Schema {
	s := normalizeObjectFields(m)
	s.Type = "object"
	return s
}

func normalizeObjectFields(m map[string]any) *Schema {
	s := &Schema{Type: "object", Properties: map[string]*Schema{}}
	names := make([]string, 0, len(m))
	for k := range m {
		if !IsDirectiveName(k) {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	seen := map[string]bool{}
	for _, rawName := range names {
		name := unescapeFieldName(rawName)
		s.PropertyOrder = append(s.PropertyOrder, name)
		s.Properties[name] = Normalize(m[rawName])
		seen[name] = true
	}

	for key, val := range m {
		if !strings.HasPrefix(key, "$include") {
			continue
		}
		included := Normalize(val)
		if included.Type != "object" {
			panic("model: " + key + " must reference an object schema")
		}
		for _, name := range included.PropertyOrder {
			if seen[name] {
				panic("model: duplicate field \"" + name + "\" from " + key)
			}
			seen[name] = true
			s.PropertyOrder = append(s.PropertyOrder, name)
			s.Properties[name] = included.Properties[name]
		}
	}

	computeDerivedMetadata(s)
	return s
}

// applyCommonDirectives copies the type-agnostic control directives
// (spec §3) from a raw descriptor onto schema s. Type-specific
// directives (e.g. $format, $precision) land in s.Extra verbatim for
// the registered Type to interpret.
func applyCommonDirectives(s *Schema, m map[string]any) {
	knownCommon := map[string]bool{
		"$type": true, "$nullable": true, "$optional": true, "$default": true,
		"$allowed": true, "$empty": true, "$length": true, "$minLength": true,
		"$maxLength": true, "$min": true, "$max": true, "$minExclusive": true,
		"$maxExclusive": true, "$fn": true, "$exp": true, "$g": true, "$pk": true,
		"$fk": true, "$unique": true, "$r": true, "$w": true, "$a": true,
		"$extend": true, "$delta": true, "$data": true,
	}
	for key := range m {
		if strings.HasPrefix(key, "$include") {
			knownCommon[key] = true
		}
	}

	if b, ok := m["$nullable"].(bool); ok {
		s.Nullable = b
	}
	if b, ok := m["$optional"].(bool); ok {
		s.Optional = b
	}
	if def, ok := m["$default"]; ok {
		s.HasDefault = true
		s.Default = def
	}
	if allowed, ok := m["$allowed"].([]any); ok {
		s.Allowed = allowed
	}
	if b, ok := m["$empty"].(bool); ok {
		s.Empty = b
	}
	if n, ok := intDirective(m, "$length"); ok {
		s.Length = &n
	}
	if n, ok := intDirective(m, "$minLength"); ok {
		s.MinLength = &n
	}
	if n, ok := intDirective(m, "$maxLength"); ok {
		s.MaxLength = &n
	}
	applyNumericBound(m, "$min", &s.Min, &s.MinBig)
	applyNumericBound(m, "$max", &s.Max, &s.MaxBig)
	if n, ok := floatDirective(m, "$minExclusive"); ok {
		s.MinExclusive = &n
	}
	if n, ok := floatDirective(m, "$maxExclusive"); ok {
		s.MaxExclusive = &n
	}
	if fn, ok := m["$fn"].(string); ok {
		s.FnName = fn
	}
	if exp, ok := m["$exp"].(string); ok {
		s.Exp = CompileExpr(exp)
	}
	applyGroup(s, m)
	if b, ok := m["$pk"].(bool); ok {
		s.PK = b
	}
	if fk, ok := m["$fk"].(string); ok {
		s.FK = fk
	}
	applyUnique(s, m)
	if r, ok := m["$r"].(string); ok {
		ValidateAccessExpr(r)
		s.ReadAccess = r
	}
	if w, ok := m["$w"].(string); ok {
		ValidateAccessExpr(w)
		s.WriteAccess = w
	}
	if a, ok := m["$a"].(string); ok {
		ValidateAccessExpr(a)
		s.AnyAccess = a
	}
	if b, ok := m["$delta"].(bool); ok {
		s.Delta = &b
	}

	extra := map[string]any{}
	for key, val := range m {
		if IsDirectiveName(key) && !knownCommon[key] {
			extra[key[1:]] = val
		}
	}
	if len(extra) > 0 {
		s.Extra = extra
	}
}

func intDirective(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

func floatDirective(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func applyNumericBound(m map[string]any, key string, floatField **float64, bigField **string) {
	switch v := m[key].(type) {
	case float64:
		*floatField = &v
	case int:
		f := float64(v)
		*floatField = &f
	case string:
		*bigField = &v
	}
}

func applyGroup(s *Schema, m map[string]any) {
	v, present := m["$g"]
	if !present {
		s.Group = "@default"
		return
	}
	if v == nil {
		s.GroupExcluded = true
		return
	}
	if str, ok := v.(string); ok {
		if str == "" {
			s.Group = "@default"
			return
		}
		s.Group = str
		return
	}
	s.Group = "@default"
}

func applyUnique(s *Schema, m map[string]any) {
	switch v := m["$unique"].(type) {
	case bool:
		s.UniqueBool = v
	case string:
		s.UniqueGroups = strings.Split(v, "|")
	}
}

// normalizeWithExtend applies $extend semantics (spec §4.E step 3): for
// each key in m, undefined deletes the overridden field/directive,
// otherwise merges recursively (objects) or replaces (leaves).
func normalizeWithExtend(m map[string]any, base *Schema) *Schema {
	if typeStr, ok := m["$type"].(string); ok && typeStr != base.Type {
		// Extending onto a different base type: the override fully
		// replaces the base's type-specific shape, directives layer on
		// top of the freshly built node below.
		result := normalizeTyped(m, typeStr)
		return result
	}

	result := base
	for key, val := range m {
		switch {
		case key == "$extend":
			continue
		case IsDirectiveName(key):
			if val == nil {
				clearDirective(result, key)
				continue
			}
		case result.Type == "object":
			name := unescapeFieldName(key)
			if val == nil {
				delete(result.Properties, name)
				removeFromOrder(result, name)
				continue
			}
			if existing, ok := result.Properties[name]; ok && existing.Type == "object" {
				if childMap, ok := val.(map[string]any); ok {
					result.Properties[name] = normalizeWithExtend(childMap, existing)
					continue
				}
			}
			if _, already := result.Properties[name]; !already {
				result.PropertyOrder = append(result.PropertyOrder, name)
			}
			result.Properties[name] = Normalize(val)
			continue
		}
	}
	applyCommonDirectives(result, m)
	if result.Type == "object" {
		computeDerivedMetadata(result)
	}
	return result
}

func clearDirective(s *Schema, key string) {
	switch key {
	case "$default":
		s.HasDefault = false
		s.Default = nil
	case "$allowed":
		s.Allowed = nil
	case "$min":
		s.Min = nil
		s.MinBig = nil
	case "$max":
		s.Max = nil
		s.MaxBig = nil
	case "$fn":
		s.FnName = ""
	case "$exp":
		s.Exp = nil
	case "$r":
		s.ReadAccess = ""
	case "$w":
		s.WriteAccess = ""
	case "$a":
		s.AnyAccess = ""
	case "$delta":
		s.Delta = nil
	default:
		if s.Extra != nil {
			delete(s.Extra, key[1:])
		}
	}
}

func removeFromOrder(s *Schema, name string) {
	for i, n := range s.PropertyOrder {
		if n == name {
			s.PropertyOrder = append(s.PropertyOrder[:i], s.PropertyOrder[i+1:]...)
			return
		}
	}
}

// cloneSchema deep-copies a Schema tree so $extend never mutates the
// base it was derived from.
func cloneSchema(s *Schema) *Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.fingerprint = ""
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		out.PropertyOrder = append([]string{}, s.PropertyOrder...)
		for k, v := range s.Properties {
			out.Properties[k] = cloneSchema(v)
		}
	}
	if s.Data != nil {
		out.Data = cloneSchema(s.Data)
	}
	if s.Extra != nil {
		out.Extra = map[string]any{}
		for k, v := range s.Extra {
			out.Extra[k] = v
		}
	}
	if s.Allowed != nil {
		out.Allowed = append([]any{}, s.Allowed...)
	}
	return &out
}

// computeDerivedMetadata fills GroupMap/PKMap/PKArray/FKMap/FKArray/
// IDMap/IDArray/UniqueArray for an object schema (spec §4.E step 5).
//
// UniqueArray additionally folds in the PK-implied groups spec §3
// names: primary-key fields implicitly form one unique group of all PK
// fields together, and — for any named unique group a PK field
// participates in — every PK field is joined with every non-PK member
// of that group (a Cartesian expansion between the PK field set and the
// group's non-PK members), deduplicated and sorted.
func computeDerivedMetadata(s *Schema) {
	s.GroupMap = map[string][]string{}
	s.PKMap = map[string]bool{}
	s.FKMap = map[string]string{}
	s.IDMap = map[string]bool{}
	s.PKArray, s.FKArray, s.IDArray, s.UniqueArray = nil, nil, nil, nil
	uniqueGroups := map[string][]string{}

	for _, name := range s.PropertyOrder {
		field := s.Properties[name]
		if !field.GroupExcluded {
			g := field.Group
			if g == "" {
				g = "@default"
			}
			s.GroupMap[g] = append(s.GroupMap[g], name)
		}
		if field.PK {
			s.PKMap[name] = true
			s.PKArray = append(s.PKArray, name)
			s.IDMap[name] = true
			s.IDArray = append(s.IDArray, name)
		}
		if field.FK != "" {
			s.FKMap[name] = field.FK
			s.FKArray = append(s.FKArray, name)
			if !s.IDMap[name] {
				s.IDMap[name] = true
				s.IDArray = append(s.IDArray, name)
			}
		}
		if field.UniqueBool {
			uniqueGroups[name] = []string{name}
		}
		for _, g := range field.UniqueGroups {
			uniqueGroups[g] = append(uniqueGroups[g], name)
		}
	}

	tuples := map[string][]string{}
	addTuple := func(fields []string) {
		if len(fields) == 0 {
			return
		}
		sorted := append([]string{}, fields...)
		sort.Strings(sorted)
		tuples[strings.Join(sorted, "\x00")] = sorted
	}

	groupNames := make([]string, 0, len(uniqueGroups))
	for g := range uniqueGroups {
		groupNames = append(groupNames, g)
	}
	sort.Strings(groupNames)
	for _, g := range groupNames {
		addTuple(uniqueGroups[g])
	}

	if len(s.PKArray) > 0 {
		pkSorted := append([]string{}, s.PKArray...)
		sort.Strings(pkSorted)
		pkSet := map[string]bool{}
		for _, pk := range pkSorted {
			pkSet[pk] = true
		}
		addTuple(pkSorted)

		for _, g := range groupNames {
			members := uniqueGroups[g]
			participates := false
			for _, m := range members {
				if pkSet[m] {
					participates = true
					break
				}
			}
			if !participates {
				continue
			}
			for _, pk := range pkSorted {
				for _, m := range members {
					if pkSet[m] {
						continue
					}
					addTuple([]string{pk, m})
				}
			}
		}
	}

	tupleKeys := make([]string, 0, len(tuples))
	for k := range tuples {
		tupleKeys = append(tupleKeys, k)
	}
	sort.Strings(tupleKeys)
	for _, k := range tupleKeys {
		s.UniqueArray = append(s.UniqueArray, tuples[k])
	}
}
