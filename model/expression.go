package model

import (
	"regexp"
	"strings"

	"github.com/oarkflow/expr"
)

// expIdentifierPattern matches bare identifiers appearing in an $exp
// source so CompileExpr can reject anything outside the closed
// whitelist spec §4.F defines, before ever handing the string to the
// underlying expression evaluator.
var expIdentifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// expTokenPattern enumerates every token $exp is allowed to contain:
// whitespace, identifiers, numeric literals, the comparison/boolean
// operators spec §4.F names, and the punctuation needed for function
// calls. github.com/oarkflow/expr's grammar is materially richer than
// this (ternaries, bitwise operators, string concatenation, pipelines);
// validateExpTokens tokenizes the source against this list so anything
// outside it is rejected eagerly as a schema-compile error instead of
// silently parsing and only surfacing as a runtime "predicate failed".
var expTokenPattern = regexp.MustCompile(`^(\s+|[A-Za-z_][A-Za-z0-9_]*|[0-9]+(?:\.[0-9]+)?|==|!=|<=|>=|&&|\|\||[-+*/%<>!(),])`)

// validateExpTokens panics with a schema-compile error if source
// contains any character sequence not covered by expTokenPattern, or a
// doubled "<", ">" or "*" (the shift and power operators, which the
// single-character class would otherwise admit as two tokens).
func validateExpTokens(source string) {
	pos := 0
	prev := ""
	for pos < len(source) {
		loc := expTokenPattern.FindStringIndex(source[pos:])
		if loc == nil {
			panic("model: $exp contains an unrecognized operator near \"" + source[pos:] + "\"")
		}
		tok := source[pos : pos+loc[1]]
		if tok == prev && (tok == "<" || tok == ">" || tok == "*") {
			panic("model: $exp contains an unrecognized operator near \"" + source[pos-1:] + "\"")
		}
		prev = tok
		pos += loc[1]
	}
}

// expWhitelist is the fixed math/identifier vocabulary $exp may
// reference, plus the bound variable "x", the boolean literals and nil.
var expWhitelist = map[string]bool{
	"x": true, "true": true, "false": true, "nil": true,
	"abs": true, "min": true, "max": true, "floor": true, "ceil": true,
	"round": true, "trunc": true, "sign": true, "sqrt": true, "pow": true,
	"exp": true, "log": true, "log2": true, "log10": true,
	"isint": true, "isfinite": true, "isnan": true,
}

// CompiledExpr is a validated, ready-to-evaluate $exp predicate.
//
// Grounded on the teacher's jsonschema/v2/expression.go and
// jsonschema/validator_magics.go, both of which hand a raw string to
// github.com/oarkflow/expr's Eval/Parse — generalized here to first
// enforce the closed identifier whitelist spec §4.F requires (the
// teacher's usage trusts the whole expr grammar; this engine only
// trusts the subset spec names).
type CompiledExpr struct {
	Source string
}

// CompileExpr validates expr's source against the whitelist and
// returns a CompiledExpr. It panics (a schema-compile error) if expr
// references an identifier outside the whitelist — the expression is
// otherwise left for github.com/oarkflow/expr to parse lazily at
// evaluation time, since that library already rejects malformed
// arithmetic/comparison syntax.
func CompileExpr(source string) *CompiledExpr {
	validateExpTokens(source)
	for _, ident := range expIdentifierPattern.FindAllString(source, -1) {
		if !expWhitelist[strings.ToLower(ident)] && !expWhitelist[ident] {
			panic("model: $exp references unrecognized identifier \"" + ident + "\"")
		}
	}
	return &CompiledExpr{Source: source}
}

// Eval binds x to the field's coerced value and evaluates the
// expression, returning whether the result is truthy. Any evaluation
// error (malformed arithmetic the whitelist pass didn't catch) is
// treated as a failed predicate rather than a panic, since by this
// point the value is runtime data, not schema authoring.
func (c *CompiledExpr) Eval(x any) bool {
	result, err := expr.Eval(c.Source, map[string]any{"x": x})
	if err != nil {
		return false
	}
	return truthy(result)
}

func truthy(v any) bool {
	switch vv := v.(type) {
	case bool:
		return vv
	case nil:
		return false
	case float64:
		return vv != 0
	case int:
		return vv != 0
	case string:
		return vv != ""
	default:
		return true
	}
}
