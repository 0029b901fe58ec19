package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/handoff"
	"github.com/hupe1980/agentrelay/state"
)

const sampleYAML = `
handoffs:
  - source_agent: Triage
    target_agent: Billing
    handoff_type: condition
    condition: "${topic} == billing"
    condition_scope: pre_reply
  - source_agent: Triage
    target_agent: user
    handoff_type: after_work
  - source_agent: Triage
    target_agent: Support
    handoff_type: teleport

context_variables:
  order_status:
    default: draft
    source:
      type: state
    triggers:
      - type: agent_text
        agent: OrderAgent
        match:
          contains: "order submitted"
        value: submitted
        requires_prior_value: draft
        ui_hidden: true
      - type: ui_response
        tool: order_form
        response_key: data.status
  external_id:
    source:
      type: lookup

journeys:
  - id: onboarding_flow
    steps:
      - Onboarding
      - [Survey, Tutorial]
      - Dashboard
  - id: broken
    steps: []
`

func TestParse_Rules(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	rules, diags := cfg.Rules()
	require.Len(t, rules, 2)
	// The unknown handoff_type is skipped, not fatal.
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "teleport")

	assert.Equal(t, handoff.HandoffCondition, rules[0].Type)
	assert.Equal(t, handoff.ScopePreReply, rules[0].Scope)
	assert.Equal(t, "${topic} == billing", rules[0].Condition)
	assert.Equal(t, handoff.HandoffAfterWork, rules[1].Type)
}

func TestParse_VariableSpecs(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	specs, diags := cfg.VariableSpecs()
	// The non-state variable is skipped with a diagnostic.
	require.Len(t, specs, 1)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "external_id")

	spec := specs[0]
	assert.Equal(t, "order_status", spec.Name)
	assert.Equal(t, "draft", spec.Default)
	require.Len(t, spec.Triggers, 2)

	text := spec.Triggers[0]
	assert.Equal(t, state.TriggerAgentText, text.Type)
	assert.Equal(t, "OrderAgent", text.Agent)
	assert.Equal(t, "order submitted", text.Match.Contains)
	assert.Equal(t, "submitted", text.Value)
	require.NotNil(t, text.RequiresPriorValue)
	assert.Equal(t, "draft", *text.RequiresPriorValue)
	assert.True(t, text.HideMessage)

	ui := spec.Triggers[1]
	assert.Equal(t, state.TriggerUIResponse, ui.Type)
	assert.Equal(t, "order_form", ui.Tool)
	assert.Equal(t, "data.status", ui.ResponseKey)
}

func TestParse_Journeys(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	journeys, diags := cfg.JourneyGraphs()
	require.Len(t, journeys, 1)
	// The step-less journey is reported and skipped.
	require.Len(t, diags, 1)

	j := journeys[0]
	assert.Equal(t, "onboarding_flow", j.ID)
	require.Equal(t, 3, j.TotalSteps())
	// Scalar steps become single-member groups; sequences keep their order.
	assert.Equal(t, []string{"Onboarding"}, []string(j.Steps[0]))
	assert.Equal(t, []string{"Survey", "Tutorial"}, []string(j.Steps[1]))
}

func TestParse_RejectsMalformedStep(t *testing.T) {
	_, err := Parse([]byte("journeys:\n  - id: bad\n    steps:\n      - key: value\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Handoffs, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
