package escrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCondition_BareNames(t *testing.T) {
	conds := map[string]bool{
		"payment_completed": true,
		"cancel_approved":   false,
	}

	ok, err := EvaluateCondition("payment_completed", conds)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = EvaluateCondition("cancel_approved", conds)
	require.NoError(t, err)
	assert.False(t, ok)

	// absent names are false, not an error
	ok, err = EvaluateCondition("delivery_completed", conds)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateCondition_Literals(t *testing.T) {
	ok, err := EvaluateCondition("", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = EvaluateCondition("true", nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = EvaluateCondition("false", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateCondition_Expressions(t *testing.T) {
	conds := map[string]bool{
		"cancel_requested": true,
		"cancel_approved":  false,
	}

	ok, err := EvaluateCondition("cancel_requested || cancel_approved", conds)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = EvaluateCondition("cancel_requested && cancel_approved", conds)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = EvaluateCondition("!cancel_approved", conds)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateCondition_Invalid(t *testing.T) {
	_, err := EvaluateCondition("cancel_requested ||", nil)
	assert.Error(t, err)
}
