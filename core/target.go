package core

// TargetKind discriminates the variants of a handoff Target.
type TargetKind int

const (
	// TargetAgent routes control to a named agent.
	TargetAgent TargetKind = iota
	// TargetUser hands control back to the human user.
	TargetUser
	// TargetTerminate ends the conversation.
	TargetTerminate
)

// String returns the string representation of the target kind.
func (k TargetKind) String() string {
	switch k {
	case TargetAgent:
		return "agent"
	case TargetUser:
		return "user"
	case TargetTerminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Target is the typed destination of a handoff decision. It is a small value
// type produced exclusively by the handoff resolver; raw target strings are
// never interpreted elsewhere.
type Target struct {
	Kind TargetKind
	Name string // set only for TargetAgent
}

// AgentTarget returns a Target routing to the named agent.
func AgentTarget(name string) Target { return Target{Kind: TargetAgent, Name: name} }

// UserTarget returns the hand-back-to-user Target.
func UserTarget() Target { return Target{Kind: TargetUser} }

// TerminateTarget returns the end-conversation Target.
func TerminateTarget() Target { return Target{Kind: TargetTerminate} }

// String renders the target for diagnostics.
func (t Target) String() string {
	if t.Kind == TargetAgent {
		return "agent:" + t.Name
	}
	return t.Kind.String()
}
