package state

// TriggerType discriminates the trigger variants.
type TriggerType int

const (
	// TriggerAgentText fires when a named agent emits a message matching the
	// trigger's patterns. Evaluated before the message is sent, so the write
	// is visible to routing decisions for the same turn.
	TriggerAgentText TriggerType = iota
	// TriggerUIResponse fires when a named UI-driven tool returns a
	// structured response.
	TriggerUIResponse
)

// Match holds the pattern alternatives for an agent-text trigger. The three
// fields are ORed: the trigger matches if any set pattern is satisfied.
// Equals is a case-insensitive full match on the trimmed message, Contains a
// case-insensitive substring check, Regex a case-insensitive search.
type Match struct {
	Equals   string
	Contains string
	Regex    string
}

// IsZero reports whether no pattern is set.
func (m Match) IsZero() bool { return m.Equals == "" && m.Contains == "" && m.Regex == "" }

// Trigger is one declarative mutation rule for a derived context variable.
// Fields are interpreted per Type; unset fields are ignored.
type Trigger struct {
	Type TriggerType

	// Agent-text trigger fields.
	Agent string // speaker whose messages are inspected
	Match Match
	// Value is written on match. It may contain a single $1 token which is
	// replaced by the first regex capture group when the regex alternative
	// matched.
	Value string
	// RequiresPriorValue gates the write: when set, the write is skipped
	// unless the variable's current value equals it. Supports strict
	// state-machine transitions (draft -> submitted, never skipping states).
	RequiresPriorValue *string
	// HideMessage marks the matched outgoing message as hidden from the
	// user-visible transcript.
	HideMessage bool

	// UI-response trigger fields.
	Tool        string // UI-driven tool whose responses are inspected
	ResponseKey string // optional dot-path into the response payload
}

// VariableSpec declares one derived context variable: a default value and an
// ordered trigger list. A spec with zero triggers is static configuration: it
// is seeded into the containers at engine construction but never indexed for
// event handling.
type VariableSpec struct {
	Name     string
	Default  any
	Triggers []Trigger
}
