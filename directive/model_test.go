package directive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/sqldirective/directive"
	"github.com/vippsas/sqldirective/lexer"
)

func TestAction_Has(t *testing.T) {
	a := directive.ReplaceText | directive.DeferSetup
	assert.True(t, a.Has(directive.ReplaceText))
	assert.True(t, a.Has(directive.DeferSetup))
	assert.False(t, a.Has(directive.NoStore))
}

func TestInitialization_Validate_RejectsNoStoreAndDeferSetup(t *testing.T) {
	init := directive.Initialization{Action: directive.NoStore | directive.DeferSetup}
	err := init.Validate()
	require.Error(t, err)
	_, ok := err.(directive.InvalidOperation)
	assert.True(t, ok)
}

func TestInitialization_Validate_AllowsDefault(t *testing.T) {
	init := directive.Initialization{Action: directive.Default}
	assert.NoError(t, init.Validate())
}

func TestInitialization_Validate_AllowsReplaceTextWithDeferSetup(t *testing.T) {
	init := directive.Initialization{Action: directive.ReplaceText | directive.DeferSetup}
	assert.NoError(t, init.Validate())
}

func TestFromPos(t *testing.T) {
	p := lexer.Pos{File: "a.sql", Line: 3, Col: 7}
	o := directive.FromPos(p)
	assert.Equal(t, directive.Origin{File: "a.sql", Line: 3}, o)
}
