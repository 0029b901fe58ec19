// Package agentrelay provides a high-level façade over the orchestration core
// (handoff rule compilation, derived context state and journey sequencing)
// enabling rapid wiring of multi-agent conversation systems. Most applications
// interact with this package by:
//  1. Creating a Relay via New() from a loaded config (optionally overriding
//     the default in-memory store and hub)
//  2. Compiling routing tables for the live agent set (CompileRoutes)
//  3. Wiring a context engine per conversation (WireConversation) and hooking
//     its BeforeSend/AfterEvent adapters into the conversation runtime
//  4. Feeding conversation completion events to HandleCompletion
//
// The façade delegates orchestration to journey.Orchestrator while keeping
// setup ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a durable conversation
// store, a real connection hub and a structured logger.
package agentrelay

import (
	"context"

	"github.com/hupe1980/agentrelay/config"
	"github.com/hupe1980/agentrelay/connection"
	"github.com/hupe1980/agentrelay/conversation"
	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/handoff"
	"github.com/hupe1980/agentrelay/journey"
	"github.com/hupe1980/agentrelay/logging"
	"github.com/hupe1980/agentrelay/state"
)

// Options configures the Relay instance.
type Options struct {
	// ConversationStore persists conversation records. Defaults to an
	// in-memory implementation.
	ConversationStore core.ConversationStore

	// ConnectionHub tracks live UI connections per conversation. Defaults to
	// an in-memory buffering hub.
	ConnectionHub core.ConnectionHub

	// Starter launches next-step conversations with the external runtime.
	// Defaults to a no-op; real deployments must supply one for journeys to
	// actually start conversations.
	Starter journey.Starter

	// Prerequisite gates journey advances per next-group template. Nil means
	// no gates.
	Prerequisite journey.PrerequisiteFunc

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Relay is the high-level façade aggregating the rule compiler, the journey
// orchestrator and the per-conversation context engines.
type Relay struct {
	cfg      *config.Config
	opts     Options
	compiler *handoff.Compiler
	journeys *journey.Registry
	engines  *state.Registry
	orch     *journey.Orchestrator
}

// New creates a Relay from a loaded config with optional overrides. Any unset
// service is initialized with an in-memory implementation. Config diagnostics
// (skipped rules, triggers or journeys) are logged, never fatal.
func New(cfg *config.Config, optFns ...func(o *Options)) (*Relay, error) {
	opts := Options{
		ConversationStore: conversation.NewInMemoryStore(),
		Logger:            logging.NoOpLogger{},
		Starter: journey.StarterFunc(func(context.Context, *core.Conversation, bool) error {
			return nil
		}),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ConnectionHub == nil {
		opts.ConnectionHub = connection.NewHub(func(o *connection.HubOptions) {
			o.Logger = opts.Logger
		})
	}

	graphs, diags := cfg.JourneyGraphs()
	for _, d := range diags {
		opts.Logger.Warn("journey config skipped", "detail", d)
	}
	journeys, err := journey.NewRegistry(graphs...)
	if err != nil {
		return nil, err
	}

	orch := journey.NewOrchestrator(journeys, opts.ConversationStore, opts.ConnectionHub, opts.Starter,
		func(o *journey.OrchestratorOptions) {
			o.Prerequisite = opts.Prerequisite
			o.Logger = opts.Logger
		})

	return &Relay{
		cfg:  cfg,
		opts: opts,
		compiler: handoff.NewCompiler(func(o *handoff.CompilerOptions) {
			o.Logger = opts.Logger
		}),
		journeys: journeys,
		engines:  state.NewRegistry(),
		orch:     orch,
	}, nil
}

// CompileRoutes compiles the configured handoff rules against the live agent
// set, returning one routing table per agent plus the compile summary.
// Compilation never fails: malformed rules are dropped and counted.
func (r *Relay) CompileRoutes(agents []string) (map[string]*handoff.RoutingTable, *handoff.Summary) {
	rules, diags := r.cfg.Rules()
	for _, d := range diags {
		r.opts.Logger.Warn("handoff config skipped", "detail", d)
	}
	return r.compiler.Compile(rules, agents)
}

// WireRoutes compiles the configured handoff rules and applies the resulting
// tables directly to the given hosts.
func (r *Relay) WireRoutes(hosts []handoff.TableHost) *handoff.Summary {
	rules, diags := r.cfg.Rules()
	for _, d := range diags {
		r.opts.Logger.Warn("handoff config skipped", "detail", d)
	}
	return r.compiler.Wire(rules, hosts)
}

// WireConversation builds a context engine over the conversation's context
// containers from the configured variable specs, seeds defaults and registers
// the engine for later lookup. The caller hooks the engine's BeforeSendHook
// and AfterEventHook into the conversation runtime.
func (r *Relay) WireConversation(conversationID string, containers ...core.ContextContainer) *state.Engine {
	specs, diags := r.cfg.VariableSpecs()
	for _, d := range diags {
		r.opts.Logger.Warn("context variable config skipped", "detail", d)
	}
	engine := state.NewEngine(specs, containers, func(o *state.EngineOptions) {
		o.Logger = r.opts.Logger
	})
	r.engines.Register(conversationID, engine)
	return engine
}

// Engine returns the context engine previously wired for a conversation.
func (r *Relay) Engine(conversationID string) (*state.Engine, bool) {
	return r.engines.Lookup(conversationID)
}

// ReleaseConversation drops the conversation's context engine, typically when
// the conversation ends.
func (r *Relay) ReleaseConversation(conversationID string) {
	r.engines.Drop(conversationID)
}

// Attach binds a live connection to a conversation id, flushing any buffered
// notifications.
func (r *Relay) Attach(conversationID string, conn core.LiveConnection) {
	r.opts.ConnectionHub.Attach(conversationID, conn)
}

// HandleCompletion processes one conversation completion event, advancing the
// owning journey when its current step group is fully complete. Errors are
// absorbed and logged; the event stream never sees a failure.
func (r *Relay) HandleCompletion(ctx context.Context, ev journey.CompletionEvent) {
	r.orch.HandleCompletion(ctx, ev)
}

// Journeys returns the journey registry built from the config.
func (r *Relay) Journeys() *journey.Registry { return r.journeys }

// Store returns the conversation store in use.
func (r *Relay) Store() core.ConversationStore { return r.opts.ConversationStore }

// Close releases per-conversation resources.
func (r *Relay) Close() {
	r.engines.Close()
}
