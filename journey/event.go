package journey

// CompletionEvent signals that a conversation has finished. Emitted by the
// external conversation runtime; the orchestrator consumes a stream of these
// and decides whether the owning journey advances.
//
// Status is deliberately untyped: the runtime may report completion as an
// absent value, a boolean, a numeric flag or a synonym string. See
// core.IsCompletedStatus for the recognized forms.
type CompletionEvent struct {
	ChatID       string `json:"chat_id"`
	WorkflowName string `json:"workflow_name"`
	AppID        string `json:"app_id"`
	UserID       string `json:"user_id"`
	Status       any    `json:"status"`
}
