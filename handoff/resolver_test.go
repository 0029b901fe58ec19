package handoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/core"
)

func TestResolveTarget_Aliases(t *testing.T) {
	r := NewResolver()
	agents := []string{"Triage", "Billing"}

	tests := []struct {
		raw  string
		kind core.TargetKind
	}{
		{"user", core.TargetUser},
		{"USER", core.TargetUser},
		{"user_proxy", core.TargetUser},
		{"  human  ", core.TargetUser},
		{"terminate", core.TargetTerminate},
		{"End", core.TargetTerminate},
		{"STOP", core.TargetTerminate},
		{"exit", core.TargetTerminate},
	}
	for _, tt := range tests {
		target, ok := r.ResolveTarget(tt.raw, agents)
		require.True(t, ok, "raw=%q", tt.raw)
		assert.Equal(t, tt.kind, target.Kind, "raw=%q", tt.raw)
		assert.Empty(t, target.Name)
	}
}

func TestResolveTarget_AgentNames(t *testing.T) {
	r := NewResolver()
	agents := []string{"Triage", "Billing"}

	// Agent lookup is case-insensitive but preserves the canonical casing.
	target, ok := r.ResolveTarget("billing", agents)
	require.True(t, ok)
	assert.Equal(t, core.TargetAgent, target.Kind)
	assert.Equal(t, "Billing", target.Name)

	_, ok = r.ResolveTarget("Unknown", agents)
	assert.False(t, ok)

	_, ok = r.ResolveTarget("   ", agents)
	assert.False(t, ok)
}

func TestResolveTarget_CustomAliases(t *testing.T) {
	r := NewResolver(func(o *ResolverOptions) {
		o.UserAliases = []string{"operator"}
	})

	target, ok := r.ResolveTarget("Operator", nil)
	require.True(t, ok)
	assert.Equal(t, core.TargetUser, target.Kind)

	// The default alias set was replaced, not extended.
	_, ok = r.ResolveTarget("user", nil)
	assert.False(t, ok)
}

func TestClassifyCondition(t *testing.T) {
	r := NewResolver()

	// Explicit type always wins, marker or not.
	got, inferred := r.ClassifyCondition("${status} == done", ConditionLLM)
	assert.Equal(t, ConditionLLM, got)
	assert.False(t, inferred)

	got, inferred = r.ClassifyCondition("customer asks about billing", ConditionExpression)
	assert.Equal(t, ConditionExpression, got)
	assert.False(t, inferred)

	// Unspecified type with the variable marker infers expression.
	got, inferred = r.ClassifyCondition("${status} == done", ConditionUnspecified)
	assert.Equal(t, ConditionExpression, got)
	assert.True(t, inferred)

	// Unspecified type without a marker infers llm.
	got, inferred = r.ClassifyCondition("customer asks about billing", ConditionUnspecified)
	assert.Equal(t, ConditionLLM, got)
	assert.True(t, inferred)
}
