package agentrelay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/config"
	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/journey"
)

const relayYAML = `
handoffs:
  - source_agent: Triage
    target_agent: Billing
    handoff_type: condition
    condition: "${topic} == billing"
    condition_scope: pre_reply
  - source_agent: Triage
    target_agent: user
    handoff_type: after_work

context_variables:
  topic:
    default: general
    source:
      type: state
    triggers:
      - type: agent_text
        agent: Triage
        match:
          regex: "topic is (\\w+)"
        value: "$1"

journeys:
  - id: onboarding_flow
    steps:
      - Onboarding
      - Dashboard
`

func newTestRelay(t *testing.T, optFns ...func(o *Options)) *Relay {
	t.Helper()
	cfg, err := config.Parse([]byte(relayYAML))
	require.NoError(t, err)
	relay, err := New(cfg, optFns...)
	require.NoError(t, err)
	t.Cleanup(relay.Close)
	return relay
}

func TestRelay_CompileRoutes(t *testing.T) {
	relay := newTestRelay(t)

	tables, summary := relay.CompileRoutes([]string{"Triage", "Billing"})
	require.Contains(t, tables, "Triage")
	assert.Equal(t, 2, summary.TotalRules)
	assert.Equal(t, 0, summary.DroppedRules)
}

func TestRelay_WireConversationUpdatesContext(t *testing.T) {
	relay := newTestRelay(t)

	vars := core.NewMapContainer()
	engine := relay.WireConversation("chat-1", vars)

	// Seeding applied the default.
	v, _ := vars.Get("topic")
	assert.Equal(t, "general", v)

	engine.OnAgentText("Triage", "the topic is billing today")
	v, _ = vars.Get("topic")
	assert.Equal(t, "billing", v)

	// The compiled pre-reply route now fires against the updated context.
	tables, _ := relay.CompileRoutes([]string{"Triage", "Billing"})
	tr, ok := tables["Triage"].NextPreReply(vars)
	require.True(t, ok)
	assert.Equal(t, "Billing", tr.Target.Name)

	looked, ok := relay.Engine("chat-1")
	require.True(t, ok)
	assert.Same(t, engine, looked)

	relay.ReleaseConversation("chat-1")
	_, ok = relay.Engine("chat-1")
	assert.False(t, ok)
}

func TestRelay_HandleCompletionAdvancesJourney(t *testing.T) {
	var started []string
	relay := newTestRelay(t, func(o *Options) {
		o.Starter = journey.StarterFunc(func(_ context.Context, conv *core.Conversation, _ bool) error {
			started = append(started, conv.Template)
			return nil
		})
	})

	require.NoError(t, relay.Store().Put(&core.Conversation{
		ID: "chat-1", Template: "Onboarding", AppID: "app", UserID: "user", Status: core.StatusActive,
	}))

	relay.HandleCompletion(context.Background(), journey.CompletionEvent{
		ChatID: "chat-1", WorkflowName: "Onboarding",
		AppID: "app", UserID: "user", Status: "completed",
	})

	assert.Equal(t, []string{"Dashboard"}, started)
}
