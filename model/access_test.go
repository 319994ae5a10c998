package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvalAccessUnionAndIntersection(t *testing.T) {
	assert.True(t, evalAccess("admin|editor", AccessSet{"editor": true}))
	assert.False(t, evalAccess("admin|editor", AccessSet{"viewer": true}))

	assert.True(t, evalAccess("admin&active", AccessSet{"admin": true, "active": true}))
	assert.False(t, evalAccess("admin&active", AccessSet{"admin": true}))
}

func TestEvalAccessWildcardAndNone(t *testing.T) {
	assert.True(t, evalAccess("*", AccessSet{}))
	assert.False(t, evalAccess("none", AccessSet{"admin": true}))
}

func TestValidateAccessExprPanicsOnEmptyToken(t *testing.T) {
	assert.Panics(t, func() {
		ValidateAccessExpr("admin||editor")
	})
}
