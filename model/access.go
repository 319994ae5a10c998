package model

import "strings"

// accessOp is the combinator an access expression uses: union ('|') or
// intersection ('&'). Mixing both in one expression is a schema error
// (spec §4.E step 6).
type accessOp int

const (
	accessOpNone accessOp = iota
	accessOpUnion
	accessOpIntersect
)

// ValidateAccessExpr checks an access expression against the grammar
// spec §4.E defines: token ('|' token)* | token ('&' token)*, where
// token is a non-empty identifier, "*", "inherit", or "none". It panics
// (a schema-compile error, spec §7) on malformed or mixed-operator
// expressions.
//
// Grounded on the teacher's access-expression-free codebase generalized
// from jsonschema/validator_core.go's small single-purpose grammar
// validators (e.g. pattern/format checks performed once at schema
// construction time rather than per value).
func ValidateAccessExpr(expr string) {
	if expr == "" {
		return
	}
	_, _ = parseAccessExpr(expr)
}

func parseAccessExpr(expr string) ([]string, accessOp) {
	hasUnion := strings.Contains(expr, "|")
	hasIntersect := strings.Contains(expr, "&")
	if hasUnion && hasIntersect {
		panic("model: access expression mixes '|' and '&': " + expr)
	}
	op := accessOpNone
	sep := "|"
	switch {
	case hasUnion:
		op = accessOpUnion
	case hasIntersect:
		op = accessOpIntersect
		sep = "&"
	}
	parts := strings.Split(expr, sep)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tok := strings.TrimSpace(p)
		if tok == "" {
			panic("model: access expression has an empty token: " + expr)
		}
		if tok != "*" && tok != "inherit" && tok != "none" && !IsVariableName(tok) {
			panic("model: access expression token \"" + tok + "\" is not a valid identifier: " + expr)
		}
		tokens = append(tokens, tok)
	}
	return tokens, op
}

// evalAccess reports whether roles satisfies expr. "*" always
// satisfies; "none" never does. "inherit" must already have been
// rewritten to an ancestor expression by the caller (validateField).
func evalAccess(expr string, roles AccessSet) bool {
	if expr == "" || expr == "*" {
		return true
	}
	if expr == "none" {
		return false
	}
	tokens, op := parseAccessExpr(expr)
	switch op {
	case accessOpIntersect:
		for _, tok := range tokens {
			if !tokenSatisfied(tok, roles) {
				return false
			}
		}
		return true
	default: // union, or a single bare token
		for _, tok := range tokens {
			if tokenSatisfied(tok, roles) {
				return true
			}
		}
		return false
	}
}

func tokenSatisfied(tok string, roles AccessSet) bool {
	switch tok {
	case "*":
		return true
	case "none":
		return false
	default:
		return roles.Has(tok)
	}
}
