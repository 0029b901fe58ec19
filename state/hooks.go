package state

import (
	"context"

	"github.com/hupe1980/agentrelay/hook"
)

// BeforeSendHook adapts the engine's agent-text trigger evaluation to the
// runtime's before-send interception point. A matched trigger with
// hide-message set marks the hook context hidden.
func (e *Engine) BeforeSendHook() hook.Hook {
	return hook.NewFunc(hook.BeforeSend, func(_ context.Context, hc *hook.Context) error {
		if e.OnAgentText(hc.Agent, hc.Message) {
			hc.Hide = true
		}
		return nil
	})
}

// AfterEventHook adapts the engine's UI-response trigger evaluation to the
// runtime's after-event interception point.
func (e *Engine) AfterEventHook() hook.Hook {
	return hook.NewFunc(hook.AfterEvent, func(_ context.Context, hc *hook.Context) error {
		return e.OnUIResponse(hc.Tool, hc.Payload)
	})
}
