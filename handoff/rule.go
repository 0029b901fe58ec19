package handoff

import "strings"

// HandoffType discriminates the two rule flavors.
type HandoffType int

const (
	// HandoffAfterWork designates an unconditional fallback destination used
	// once the source agent finishes its work. The last after-work rule
	// declared for an agent wins.
	HandoffAfterWork HandoffType = iota
	// HandoffCondition attaches a condition that must hold for the transition
	// to fire.
	HandoffCondition
)

// ParseHandoffType maps a raw declaration string onto a HandoffType.
func ParseHandoffType(raw string) (HandoffType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "after_work", "afterwork", "after":
		return HandoffAfterWork, true
	case "condition", "conditional":
		return HandoffCondition, true
	default:
		return HandoffAfterWork, false
	}
}

// ConditionType classifies how a condition is evaluated.
type ConditionType int

const (
	// ConditionUnspecified means the author gave no explicit type; the
	// classifier infers one from the condition text.
	ConditionUnspecified ConditionType = iota
	// ConditionLLM is a natural-language condition evaluated by the external
	// conversation runtime.
	ConditionLLM
	// ConditionExpression is a structured expression over context variables
	// evaluated locally.
	ConditionExpression
)

// String returns the string representation of the condition type.
func (t ConditionType) String() string {
	switch t {
	case ConditionLLM:
		return "llm"
	case ConditionExpression:
		return "expression"
	default:
		return "unspecified"
	}
}

// ParseConditionType normalizes explicit condition type declarations,
// accepting the historical synonyms ("context" for expression, "string_llm"
// for llm). Unknown values map to ConditionUnspecified so the inference
// fallback applies.
func ParseConditionType(raw string) ConditionType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "llm", "string_llm", "natural":
		return ConditionLLM
	case "expression", "expr", "context", "state":
		return ConditionExpression
	default:
		return ConditionUnspecified
	}
}

// ConditionScope controls when an expression condition is evaluated relative
// to the source agent's reply. It is meaningless for llm conditions.
type ConditionScope int

const (
	// ScopeAfterReply evaluates the expression as a fallback after the
	// agent's turn. This is the default.
	ScopeAfterReply ConditionScope = iota
	// ScopePreReply evaluates the expression before the agent takes its turn.
	ScopePreReply
)

// ParseConditionScope maps a raw scope declaration onto a ConditionScope.
// The pre-reply aliases are "pre", "pre_reply", "before_reply" and
// "immediate"; everything else (including empty) is after-reply.
func ParseConditionScope(raw string) ConditionScope {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pre", "pre_reply", "before_reply", "immediate":
		return ScopePreReply
	default:
		return ScopeAfterReply
	}
}

// Rule is one declarative handoff transition, immutable once loaded. Rules
// are declared per conversation template and compiled per conversation
// instance against the set of live agents.
type Rule struct {
	SourceAgent   string
	TargetAgent   string // raw reference, resolved at compile time
	Type          HandoffType
	ConditionType ConditionType
	Condition     string
	Scope         ConditionScope
}
