package connection

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/core"
)

// Interface compliance (compile-time assertion)
var _ core.ConnectionHub = (*Hub)(nil)

type stubConn struct {
	sent []core.Notification
	err  error
}

func (c *stubConn) Send(n core.Notification) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, n)
	return nil
}

func TestSend_BuffersUntilAttach(t *testing.T) {
	h := NewHub()

	h.Send("chat-1", core.Notification{Event: "chat.one"})
	h.Send("chat-1", core.Notification{Event: "chat.two"})

	conn := &stubConn{}
	h.Attach("chat-1", conn)

	// Buffered notifications flush in arrival order.
	require.Len(t, conn.sent, 2)
	assert.Equal(t, "chat.one", conn.sent[0].Event)
	assert.Equal(t, "chat.two", conn.sent[1].Event)

	h.Send("chat-1", core.Notification{Event: "chat.three"})
	assert.Len(t, conn.sent, 3)
}

func TestRebind_SharesConnectionAndFlushes(t *testing.T) {
	h := NewHub()
	conn := &stubConn{}
	h.Attach("chat-1", conn)

	// A notification for a successor conversation arrives before the rebind.
	h.Send("chat-2", core.Notification{Event: "chat.early"})

	h.Rebind("chat-1", "chat-2", "chat-3")

	require.Len(t, conn.sent, 1)
	assert.Equal(t, "chat.early", conn.sent[0].Event)

	h.Send("chat-3", core.Notification{Event: "chat.late"})
	assert.Len(t, conn.sent, 2)

	// The source keeps its binding.
	h.Send("chat-1", core.Notification{Event: "chat.origin"})
	assert.Len(t, conn.sent, 3)
}

func TestRebind_NoSourceBindingIsNoOp(t *testing.T) {
	h := NewHub()

	h.Rebind("unbound", "chat-2")
	h.Send("chat-2", core.Notification{Event: "chat.buffered"})

	conn := &stubConn{}
	h.Attach("chat-2", conn)
	assert.Len(t, conn.sent, 1)
}

func TestDetach_KeepsBufferForLaterAttach(t *testing.T) {
	h := NewHub()
	first := &stubConn{}
	h.Attach("chat-1", first)
	h.Detach("chat-1")

	h.Send("chat-1", core.Notification{Event: "chat.offline"})
	assert.Empty(t, first.sent)

	second := &stubConn{}
	h.Attach("chat-1", second)
	require.Len(t, second.sent, 1)
	assert.Equal(t, "chat.offline", second.sent[0].Event)
}

func TestSend_DeliveryFailureDropped(t *testing.T) {
	h := NewHub()
	conn := &stubConn{err: fmt.Errorf("socket closed")}
	h.Attach("chat-1", conn)

	// Must not panic or buffer; the notification is dropped.
	h.Send("chat-1", core.Notification{Event: "chat.lost"})
	assert.Empty(t, conn.sent)
}
