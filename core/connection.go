package core

// Notification event names sent to live UI connections during journey
// orchestration.
const (
	// NotificationError reports an unmet prerequisite blocking a journey
	// advance. The payload names the failing template and the reason.
	NotificationError = "chat.error"

	// NotificationContextSwitched announces the new foreground conversation
	// after a journey advance.
	NotificationContextSwitched = "chat.context_switched"
)

// Notification is a structured UI event delivered over a live connection.
type Notification struct {
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// LiveConnection is an attached UI transport (typically a websocket) able to
// receive notifications. Transport mechanics are external; orchestration only
// sends and re-binds.
type LiveConnection interface {
	Send(n Notification) error
}

// ConnectionHub tracks which live connection, if any, is attached to each
// conversation id. Send never fails from the caller's perspective: hubs
// buffer notifications addressed to conversations without an attached
// connection and flush them on Attach or Rebind, so events produced before a
// new conversation record gains a connection are not lost.
type ConnectionHub interface {
	// Attach binds conn to conversationID and flushes any buffered
	// notifications for it.
	Attach(conversationID string, conn LiveConnection)

	// Rebind attaches the connection currently bound to fromID (if any) to
	// each of toIDs as well, flushing buffered notifications for each newly
	// bound id. fromID keeps its binding.
	Rebind(fromID string, toIDs ...string)

	// Send delivers n to the connection bound to conversationID, buffering it
	// if none is attached yet.
	Send(conversationID string, n Notification)
}
