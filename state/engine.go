package state

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/logging"
)

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Logger receives trigger diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// boundTrigger is a validated trigger attached to its owning variable, with
// the regex pattern pre-compiled.
type boundTrigger struct {
	variable string
	trigger  Trigger
	regex    *regexp.Regexp // nil unless Match.Regex is set and valid
}

// Engine mutates derived context variables in response to agent text and UI
// tool responses, writing through to every registered container. Construction
// seeds defaults; the two On* entry points are invoked by the conversation
// runtime's hooks.
//
// Within one conversation, turns are sequential, so at most one hook
// invocation mutates the containers at a time; the engine relies on that
// invariant instead of holding a cross-container lock.
type Engine struct {
	specs      []VariableSpec
	containers []core.ContextContainer
	byAgent    map[string][]boundTrigger // lowercased agent name -> triggers, declaration order
	byTool     map[string][]boundTrigger // lowercased tool name -> triggers, declaration order
	logger     logging.Logger
}

// NewEngine validates specs, indexes their triggers and seeds every declared
// variable into the containers. Invalid triggers (unparseable regex, missing
// agent or tool name, no pattern) are skipped with a diagnostic; one bad
// trigger never disables the rest of the variable's triggers.
func NewEngine(specs []VariableSpec, containers []core.ContextContainer, optFns ...func(o *EngineOptions)) *Engine {
	opts := EngineOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	e := &Engine{
		specs:      specs,
		containers: containers,
		byAgent:    make(map[string][]boundTrigger),
		byTool:     make(map[string][]boundTrigger),
		logger:     opts.Logger,
	}

	for _, spec := range specs {
		for _, tr := range spec.Triggers {
			bound, err := e.bindTrigger(spec.Name, tr)
			if err != nil {
				e.logger.Warn("context trigger skipped", "variable", spec.Name, "error", err.Error())
				continue
			}
			switch tr.Type {
			case TriggerAgentText:
				key := strings.ToLower(tr.Agent)
				e.byAgent[key] = append(e.byAgent[key], bound)
			case TriggerUIResponse:
				key := strings.ToLower(tr.Tool)
				e.byTool[key] = append(e.byTool[key], bound)
			}
		}
	}

	e.seed()
	return e
}

func (e *Engine) bindTrigger(variable string, tr Trigger) (boundTrigger, error) {
	bound := boundTrigger{variable: variable, trigger: tr}
	switch tr.Type {
	case TriggerAgentText:
		if strings.TrimSpace(tr.Agent) == "" {
			return bound, fmt.Errorf("agent_text trigger without agent")
		}
		if tr.Match.IsZero() {
			return bound, fmt.Errorf("agent_text trigger without match pattern")
		}
		if tr.Match.Regex != "" {
			re, err := regexp.Compile("(?i)" + tr.Match.Regex)
			if err != nil {
				return bound, fmt.Errorf("invalid regex %q: %w", tr.Match.Regex, err)
			}
			bound.regex = re
		}
	case TriggerUIResponse:
		if strings.TrimSpace(tr.Tool) == "" {
			return bound, fmt.Errorf("ui_response trigger without tool")
		}
	default:
		return bound, fmt.Errorf("unknown trigger type %d", tr.Type)
	}
	return bound, nil
}

// seed writes each declared variable once: an existing non-nil value found in
// any container wins and is replicated to all containers for consistency;
// otherwise the default is written everywhere. Seeding never overwrites an
// existing non-nil value.
func (e *Engine) seed() {
	for _, spec := range e.specs {
		if existing, ok := e.currentValue(spec.Name); ok {
			e.writeAll(spec.Name, existing)
			continue
		}
		e.writeAll(spec.Name, spec.Default)
	}
}

// currentValue returns the first non-nil value found for name across the
// registered containers, in registration order.
func (e *Engine) currentValue(name string) (any, bool) {
	for _, c := range e.containers {
		if v, ok := c.Get(name); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// writeAll writes name=value through to every registered container. Writes
// are idempotent; duplicate invocations converge on the same state.
func (e *Engine) writeAll(name string, value any) {
	for _, c := range e.containers {
		c.Set(name, value)
	}
}

// Get returns the variable's current value, preferring the first container
// that holds a non-nil entry.
func (e *Engine) Get(name string) (any, bool) {
	return e.currentValue(name)
}

// OnAgentText intercepts an agent's outgoing message before it is sent and
// fires any matching agent-text triggers. For each variable, triggers are
// evaluated in declaration order and the first one that matches (and passes
// its prior-value gate) wins. The returned flag requests that the runtime
// hide the message from the user-visible transcript.
func (e *Engine) OnAgentText(agent, message string) (hide bool) {
	triggers := e.byAgent[strings.ToLower(strings.TrimSpace(agent))]
	if len(triggers) == 0 {
		return false
	}
	trimmed := strings.TrimSpace(message)

	fired := map[string]bool{} // variables already written for this message
	for _, bound := range triggers {
		if fired[bound.variable] {
			continue
		}
		value, ok := bound.match(trimmed)
		if !ok {
			continue
		}
		if req := bound.trigger.RequiresPriorValue; req != nil {
			current, _ := e.currentValue(bound.variable)
			if fmt.Sprintf("%v", current) != *req {
				e.logger.Debug("trigger gated by prior value",
					"variable", bound.variable, "required", *req, "current", current)
				continue
			}
		}
		e.writeAll(bound.variable, value)
		fired[bound.variable] = true
		if bound.trigger.HideMessage {
			hide = true
		}
		e.logger.Debug("context variable updated from agent text",
			"variable", bound.variable, "agent", agent, "hidden", bound.trigger.HideMessage)
	}
	return hide
}

// match evaluates the trigger's pattern alternatives against the trimmed
// message and returns the value to write. The alternatives are ORed; the
// regex alternative substitutes its first capture group for a $1 token in
// the value.
func (b boundTrigger) match(trimmed string) (string, bool) {
	m := b.trigger.Match
	if m.Equals != "" && strings.EqualFold(trimmed, m.Equals) {
		return b.trigger.Value, true
	}
	if m.Contains != "" && strings.Contains(strings.ToLower(trimmed), strings.ToLower(m.Contains)) {
		return b.trigger.Value, true
	}
	if b.regex != nil {
		if sub := b.regex.FindStringSubmatch(trimmed); sub != nil {
			value := b.trigger.Value
			if len(sub) > 1 {
				value = strings.ReplaceAll(value, "$1", sub[1])
			}
			return value, true
		}
	}
	return "", false
}

// OnUIResponse handles a structured response from a named UI-driven tool. The
// trigger's dot-path key selects the value from the JSON payload; an empty
// key takes the whole parsed payload. Writes are unconditional: UI responses
// carry no prior-value gate.
func (e *Engine) OnUIResponse(tool string, payload []byte) error {
	triggers := e.byTool[strings.ToLower(strings.TrimSpace(tool))]
	if len(triggers) == 0 {
		return nil
	}
	if !gjson.ValidBytes(payload) {
		return fmt.Errorf("invalid JSON payload from tool %q", tool)
	}

	for _, bound := range triggers {
		var value any
		if key := bound.trigger.ResponseKey; key != "" {
			res := gjson.GetBytes(payload, key)
			if !res.Exists() {
				e.logger.Debug("response key absent from UI payload",
					"variable", bound.variable, "tool", tool, "key", key)
				continue
			}
			value = res.Value()
		} else {
			value = gjson.ParseBytes(payload).Value()
		}
		e.writeAll(bound.variable, value)
		e.logger.Debug("context variable updated from UI response",
			"variable", bound.variable, "tool", tool)
	}
	return nil
}
