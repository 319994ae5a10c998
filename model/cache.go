package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// canonicalize recursively rebuilds v so that map keys are marshaled in
// sorted order and nested structures share a single representation
// regardless of insertion order, mirroring the teacher's
// jsonschema/v2/cache.go canonicalize — generalized here from raw JSON
// schema trees to this engine's descriptor/Schema shapes.
func canonicalize(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(vv))
		for k := range vv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, 0, len(keys)*2)
		for _, k := range keys {
			out = append(out, k, canonicalize(vv[k]))
		}
		return out
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = canonicalize(e)
		}
		return out
	default:
		return v
	}
}

// computeFingerprint hashes the canonical JSON encoding of v with
// SHA-256 and returns its hex digest, as jsonschema/v2/cache.go's
// computeCacheKey does for compiled-validator cache keys.
func computeFingerprint(v any) string {
	canon := canonicalize(v)
	data, err := json.Marshal(canon)
	if err != nil {
		// canonicalize only ever produces maps/slices/scalars reachable
		// from decoded JSON, so Marshal cannot fail in practice.
		panic("model: fingerprint marshal: " + err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// schemaDescriptor re-derives the descriptor-shaped any-tree a Schema
// was normalized from, for fingerprinting purposes. It is not a general
// serializer: only fields that affect compiled-routine shape matter.
func schemaDescriptor(s *Schema) any {
	m := map[string]any{
		"type":     s.Type,
		"nullable": s.Nullable,
		"optional": s.Optional,
		"empty":    s.Empty,
	}
	if s.HasDefault {
		m["default"] = s.Default
	}
	if len(s.Allowed) > 0 {
		m["allowed"] = s.Allowed
	}
	if s.Length != nil {
		m["length"] = *s.Length
	}
	if s.MinLength != nil {
		m["minLength"] = *s.MinLength
	}
	if s.MaxLength != nil {
		m["maxLength"] = *s.MaxLength
	}
	if s.Min != nil {
		m["min"] = *s.Min
	}
	if s.Max != nil {
		m["max"] = *s.Max
	}
	if s.MinExclusive != nil {
		m["minExclusive"] = *s.MinExclusive
	}
	if s.MaxExclusive != nil {
		m["maxExclusive"] = *s.MaxExclusive
	}
	if s.MinBig != nil {
		m["minBig"] = *s.MinBig
	}
	if s.MaxBig != nil {
		m["maxBig"] = *s.MaxBig
	}
	if s.FnName != "" {
		m["fn"] = s.FnName
	}
	if s.Exp != nil {
		m["exp"] = s.Exp.Source
	}
	if s.Group != "" || s.GroupExcluded {
		m["g"] = s.Group
	}
	if s.PK {
		m["pk"] = true
	}
	if s.FK != "" {
		m["fk"] = s.FK
	}
	if s.UniqueBool || len(s.UniqueGroups) > 0 {
		m["unique"] = append([]string{}, s.UniqueGroups...)
	}
	if s.ReadAccess != "" {
		m["r"] = s.ReadAccess
	}
	if s.WriteAccess != "" {
		m["w"] = s.WriteAccess
	}
	if s.AnyAccess != "" {
		m["a"] = s.AnyAccess
	}
	if s.Delta != nil {
		m["delta"] = *s.Delta
	}
	for k, v := range s.Extra {
		m["x_"+k] = v
	}
	if s.Data != nil {
		m["data"] = schemaDescriptor(s.Data)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for _, name := range s.PropertyOrder {
			props[name] = schemaDescriptor(s.Properties[name])
		}
		m["properties"] = props
		m["order"] = append([]string{}, s.PropertyOrder...)
	}
	return m
}

// DescribeSchema returns s's descriptor-shaped representation for
// debugging/introspection (spec §6 "printable-schema debug renderer").
func DescribeSchema(s *Schema) any {
	return schemaDescriptor(s)
}

// Fingerprint returns the stable content hash of s, computing and
// caching it on first use.
func (s *Schema) Fingerprint() string {
	if s.fingerprint == "" {
		s.fingerprint = computeFingerprint(schemaDescriptor(s))
	}
	return s.fingerprint
}

// accessFingerprint hashes a sorted view of the caller's role set so
// equivalent AccessSets (same roles, any map iteration order) collapse
// to the same cache entry.
func accessFingerprint(a AccessSet) string {
	if a == nil {
		return "-"
	}
	roles := make([]string, 0, len(a))
	for r, ok := range a {
		if ok {
			roles = append(roles, r)
		}
	}
	sort.Strings(roles)
	data, _ := json.Marshal(roles)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// cacheKey joins a schema fingerprint, option bitmask, and access
// fingerprint into the (schema-fingerprint, options, access-fingerprint)
// triple spec §4.G keys the compiled-routine cache by.
func cacheKey(schemaFP string, opts Options, accessFP string) string {
	return schemaFP + "|" + itoa(int(opts)) + "|" + accessFP
}
