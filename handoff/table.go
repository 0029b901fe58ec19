package handoff

import "github.com/hupe1980/agentrelay/core"

// Transition is one compiled routing table entry: a typed target guarded by a
// condition. An empty condition marks the unconditional fallback entry.
type Transition struct {
	Target    core.Target
	Condition string
}

// Unconditional reports whether this is a fallback entry with no condition.
func (t Transition) Unconditional() bool { return t.Condition == "" }

// Evaluate evaluates the transition's expression condition against vars. The
// unconditional fallback always evaluates true. Only meaningful for entries
// in the expression lists; llm conditions are evaluated by the external
// runtime.
func (t Transition) Evaluate(vars core.ContextContainer) (bool, error) {
	if t.Unconditional() {
		return true, nil
	}
	return EvaluateExpression(t.Condition, vars)
}

// RoutingTable is the per-agent routing decision structure produced by the
// compiler. It holds three ordered lists: natural-language conditioned
// transitions (handed to the runtime for evaluation), expression transitions
// evaluated before the agent's turn, and expression transitions evaluated
// after the turn. The at-most-one unconditional fallback is folded into the
// after-reply list as its last entry.
//
// A table is created once per conversation start, owned by the agent object
// for the conversation's lifetime, and discarded at conversation end.
type RoutingTable struct {
	LLMConditions []Transition
	PreReply      []Transition
	AfterReply    []Transition
}

// Fallback returns the unconditional fallback entry, if one was compiled.
func (rt *RoutingTable) Fallback() (Transition, bool) {
	if n := len(rt.AfterReply); n > 0 && rt.AfterReply[n-1].Unconditional() {
		return rt.AfterReply[n-1], true
	}
	return Transition{}, false
}

// Empty reports whether the table carries no transitions at all.
func (rt *RoutingTable) Empty() bool {
	return len(rt.LLMConditions) == 0 && len(rt.PreReply) == 0 && len(rt.AfterReply) == 0
}

// NextPreReply returns the first pre-reply expression transition whose
// condition holds against vars. Evaluation errors on individual entries are
// skipped; routing degrades rather than aborts.
func (rt *RoutingTable) NextPreReply(vars core.ContextContainer) (Transition, bool) {
	return firstReady(rt.PreReply, vars)
}

// NextAfterReply returns the first after-reply transition whose condition
// holds against vars, including the unconditional fallback if present.
func (rt *RoutingTable) NextAfterReply(vars core.ContextContainer) (Transition, bool) {
	return firstReady(rt.AfterReply, vars)
}

func firstReady(transitions []Transition, vars core.ContextContainer) (Transition, bool) {
	for _, tr := range transitions {
		ok, err := tr.Evaluate(vars)
		if err != nil {
			continue
		}
		if ok {
			return tr, true
		}
	}
	return Transition{}, false
}

// TableHost is implemented by agent objects owned by the external runtime.
// SetRoutingTable must replace the agent's table in one step; the compiler
// never mutates a previously applied table.
type TableHost interface {
	Name() string
	SetRoutingTable(table *RoutingTable)
}
