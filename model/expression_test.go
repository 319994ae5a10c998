package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileExprRejectsUnknownIdentifier(t *testing.T) {
	assert.Panics(t, func() {
		CompileExpr("eval(x)")
	})
}

func TestCompileExprAcceptsWhitelistedArithmetic(t *testing.T) {
	assert.NotPanics(t, func() {
		CompileExpr("x > 0 && x < 100")
	})
	assert.NotPanics(t, func() {
		CompileExpr("abs(x) <= 10")
	})
}

func TestCompileExprRejectsUnsupportedOperator(t *testing.T) {
	assert.Panics(t, func() {
		CompileExpr("x > 0 ? true : false")
	})
	assert.Panics(t, func() {
		CompileExpr("x & 1")
	})
	assert.Panics(t, func() {
		CompileExpr("x << 2")
	})
}

func TestCompiledExprEval(t *testing.T) {
	e := CompileExpr("x >= 0")
	assert.True(t, e.Eval(float64(5)))
	assert.False(t, e.Eval(float64(-1)))
}
