// Package connection provides an in-memory ConnectionHub tracking which live
// UI connection is attached to each conversation, with notification buffering
// for conversations that do not have a connection yet.
package connection

import (
	"sync"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/logging"
)

// Hub is the in-memory core.ConnectionHub implementation. Notifications sent
// to a conversation without an attached connection are buffered and flushed,
// in order, when a connection is attached or re-bound to it. It is safe for
// concurrent use.
type Hub struct {
	mu       sync.Mutex
	conns    map[string]core.LiveConnection
	buffered map[string][]core.Notification
	logger   logging.Logger
}

// HubOptions configures a Hub.
type HubOptions struct {
	// Logger receives delivery diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// NewHub constructs an empty Hub.
func NewHub(optFns ...func(o *HubOptions)) *Hub {
	opts := HubOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Hub{
		conns:    make(map[string]core.LiveConnection),
		buffered: make(map[string][]core.Notification),
		logger:   opts.Logger,
	}
}

// Attach binds conn to conversationID and flushes any buffered notifications.
func (h *Hub) Attach(conversationID string, conn core.LiveConnection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conversationID] = conn
	h.flushLocked(conversationID, conn)
}

// Detach removes the binding for conversationID, typically when the transport
// closes. Buffered notifications for the id are retained for a later Attach.
func (h *Hub) Detach(conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conversationID)
}

// Rebind attaches the connection bound to fromID (if any) to each of toIDs as
// well, flushing any notifications buffered for the new ids. fromID keeps its
// binding; a missing source binding is a no-op.
func (h *Hub) Rebind(fromID string, toIDs ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.conns[fromID]
	if !ok {
		h.logger.Debug("rebind skipped: no live connection", "conversation_id", fromID)
		return
	}
	for _, id := range toIDs {
		h.conns[id] = conn
		h.flushLocked(id, conn)
	}
}

// Send delivers n to the connection bound to conversationID, buffering it if
// none is attached yet. Delivery failures are logged and the notification is
// dropped; transport-level retry is the caller's concern.
func (h *Hub) Send(conversationID string, n core.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.conns[conversationID]
	if !ok {
		h.buffered[conversationID] = append(h.buffered[conversationID], n)
		return
	}
	if err := conn.Send(n); err != nil {
		h.logger.Warn("notification delivery failed",
			"conversation_id", conversationID, "event", n.Event, "error", err.Error())
	}
}

// flushLocked replays buffered notifications to conn in arrival order; caller
// must hold the lock.
func (h *Hub) flushLocked(conversationID string, conn core.LiveConnection) {
	pending := h.buffered[conversationID]
	if len(pending) == 0 {
		return
	}
	delete(h.buffered, conversationID)
	for _, n := range pending {
		if err := conn.Send(n); err != nil {
			h.logger.Warn("buffered notification delivery failed",
				"conversation_id", conversationID, "event", n.Event, "error", err.Error())
		}
	}
}
