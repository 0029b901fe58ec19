package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/hook"
)

func TestEngineHooks(t *testing.T) {
	c := core.NewMapContainer()
	e := NewEngine([]VariableSpec{
		{
			Name: "secret",
			Triggers: []Trigger{{
				Type:        TriggerAgentText,
				Agent:       "A",
				Match:       Match{Contains: "internal"},
				Value:       "set",
				HideMessage: true,
			}},
		},
		{
			Name: "form_value",
			Triggers: []Trigger{{
				Type:        TriggerUIResponse,
				Tool:        "form",
				ResponseKey: "value",
			}},
		},
	}, []core.ContextContainer{c})

	m := hook.NewManager()
	m.Register(e.BeforeSendHook())
	m.Register(e.AfterEventHook())

	hc := &hook.Context{Agent: "A", Message: "internal marker"}
	m.Run(context.Background(), hook.BeforeSend, hc)
	assert.True(t, hc.Hide)
	v, _ := c.Get("secret")
	assert.Equal(t, "set", v)

	m.Run(context.Background(), hook.AfterEvent, &hook.Context{
		Tool:    "form",
		Payload: []byte(`{"value":"42"}`),
	})
	v, ok := c.Get("form_value")
	require.True(t, ok)
	assert.Equal(t, "42", v)
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	e := NewEngine(nil, nil)

	r.Register("chat-1", e)
	got, ok := r.Lookup("chat-1")
	require.True(t, ok)
	assert.Same(t, e, got)
	assert.Equal(t, 1, r.Len())

	r.Drop("chat-1")
	_, ok = r.Lookup("chat-1")
	assert.False(t, ok)

	r.Register("chat-2", e)
	r.Close()
	assert.Equal(t, 0, r.Len())
}
