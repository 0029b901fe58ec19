// Package hook defines the interception points the conversation runtime
// exposes around its turn lifecycle, and a manager that executes registered
// hooks in registration order with per-hook error isolation: one hook's
// failure is logged and never blocks message delivery or the remaining hooks.
package hook

import (
	"context"

	"github.com/hupe1980/agentrelay/logging"
)

// Type identifies an interception point in the turn lifecycle.
type Type string

const (
	// BeforeSend runs on an agent's outgoing message before it is delivered.
	// Hooks may set Context.Hide to suppress the message from the
	// user-visible transcript.
	BeforeSend Type = "before_send"

	// AfterEvent runs after an external event (typically a UI tool response)
	// has been received.
	AfterEvent Type = "after_event"
)

// Context carries the data flowing through one hook invocation. Fields are
// populated per Type: BeforeSend sets Agent and Message, AfterEvent sets Tool
// and Payload. Hide is an output field accumulated across hooks.
type Context struct {
	ConversationID string
	Agent          string
	Message        string
	Tool           string
	Payload        []byte
	Hide           bool
}

// Hook is one registered interception callback.
type Hook interface {
	Type() Type
	Execute(ctx context.Context, hc *Context) error
}

// Func adapts a plain function to the Hook interface.
type Func struct {
	hookType Type
	fn       func(ctx context.Context, hc *Context) error
}

// NewFunc wraps fn as a Hook of the given type.
func NewFunc(hookType Type, fn func(ctx context.Context, hc *Context) error) *Func {
	return &Func{hookType: hookType, fn: fn}
}

// Type returns the interception point this hook handles.
func (f *Func) Type() Type { return f.hookType }

// Execute calls the wrapped function.
func (f *Func) Execute(ctx context.Context, hc *Context) error { return f.fn(ctx, hc) }

// Manager routes hook invocations to the hooks registered for each type.
// Registration is expected to complete before the conversation starts; once
// registration is done, Run is safe for concurrent use.
type Manager struct {
	hooks  map[Type][]Hook
	logger logging.Logger
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Logger receives hook failure diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// NewManager constructs an empty Manager.
func NewManager(optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{hooks: make(map[Type][]Hook), logger: opts.Logger}
}

// Register appends h to the hooks for its type. Execution order equals
// registration order.
func (m *Manager) Register(h Hook) {
	m.hooks[h.Type()] = append(m.hooks[h.Type()], h)
}

// Run executes every hook registered for hookType in registration order. A
// failing hook is logged and skipped; subsequent hooks still run and the
// event is still delivered.
func (m *Manager) Run(ctx context.Context, hookType Type, hc *Context) {
	for _, h := range m.hooks[hookType] {
		if err := h.Execute(ctx, hc); err != nil {
			m.logger.Warn("hook failed", "type", string(hookType), "error", err.Error())
		}
	}
}
