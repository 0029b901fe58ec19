package journey

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/logging"
)

// Starter launches a conversation with the external runtime. Start returns
// once the conversation has been kicked off; execution proceeds
// independently and completion is reported back through a CompletionEvent.
type Starter interface {
	Start(ctx context.Context, conv *core.Conversation, foreground bool) error
}

// StarterFunc adapts a function to the Starter interface.
type StarterFunc func(ctx context.Context, conv *core.Conversation, foreground bool) error

// Start calls the wrapped function.
func (f StarterFunc) Start(ctx context.Context, conv *core.Conversation, foreground bool) error {
	return f(ctx, conv, foreground)
}

// PrerequisiteFunc gates a template before it is started as part of a journey
// advance. A non-nil error blocks the advance of the entire next group and is
// surfaced to the end user as a chat.error notification.
type PrerequisiteFunc func(ctx context.Context, template string, ev CompletionEvent) error

// OrchestratorOptions configures an Orchestrator.
type OrchestratorOptions struct {
	// Prerequisite is re-checked for every template of the next group before
	// any of them is created. Nil means no gates.
	Prerequisite PrerequisiteFunc
	// Logger receives advancement diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator advances journeys in response to conversation completion
// events. All failures inside one event's processing are absorbed at the top
// of HandleCompletion: the event is logged and dropped, the journey stays at
// its current step, and a redelivered event (or a parallel sibling's own
// completion) re-evaluates the advance.
//
// A per-conversation mutex serializes duplicate events arriving concurrently
// within this process. That lock is a latency optimization only; the durable
// idempotency guarantee is the store's conditional create keyed by
// (journey_id, step_index, template).
type Orchestrator struct {
	registry *Registry
	store    core.ConversationStore
	hub      core.ConnectionHub
	starter  Starter
	prereq   PrerequisiteFunc
	logger   logging.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per conversation id
}

// NewOrchestrator constructs an Orchestrator over the given journey registry,
// conversation store, connection hub and starter.
func NewOrchestrator(
	registry *Registry,
	store core.ConversationStore,
	hub core.ConnectionHub,
	starter Starter,
	optFns ...func(o *OrchestratorOptions),
) *Orchestrator {
	opts := OrchestratorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		registry: registry,
		store:    store,
		hub:      hub,
		starter:  starter,
		prereq:   opts.Prerequisite,
		logger:   opts.Logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// HandleCompletion processes one conversation completion event. Events whose
// status is not a recognized completion value are discarded. Any error during
// advancement is logged and the event dropped; this handler never panics the
// event stream.
func (o *Orchestrator) HandleCompletion(ctx context.Context, ev CompletionEvent) {
	if !core.IsCompletedStatus(ev.Status) {
		o.logger.Debug("completion event ignored: status not completed",
			"chat_id", ev.ChatID, "status", fmt.Sprintf("%v", ev.Status))
		return
	}

	lock := o.lockFor(ev.ChatID)
	lock.Lock()
	defer lock.Unlock()

	if err := o.advance(ctx, ev); err != nil {
		o.logger.Error("journey advance failed, event dropped",
			"chat_id", ev.ChatID, "workflow", ev.WorkflowName, "error", err.Error())
	}
}

// lockFor returns the mutex serializing events for one conversation id.
func (o *Orchestrator) lockFor(conversationID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[conversationID] = lock
	}
	return lock
}

// advance implements steps 3-9 of the advancement algorithm for one event.
func (o *Orchestrator) advance(ctx context.Context, ev CompletionEvent) error {
	started := time.Now()

	conv, err := o.store.Get(ev.ChatID)
	if err != nil {
		return fmt.Errorf("load completing conversation: %w", err)
	}

	// Stamp the completion on the record so the join barrier can observe it
	// when a sibling's event arrives later. Idempotent: the runtime may have
	// already persisted it.
	if !core.IsCompletedStatus(conv.Status) {
		conv.Status = core.StatusCompleted
		if err := o.store.Put(conv); err != nil {
			return fmt.Errorf("stamp completion status: %w", err)
		}
	}

	template := conv.Template
	if template == "" {
		template = ev.WorkflowName
	}

	jny, stepIndex, ok := o.resolveJourney(conv, template)
	if !ok {
		return nil
	}

	if stepIndex >= jny.TotalSteps()-1 {
		o.logger.Info("journey complete",
			"journey_key", jny.ID, "chat_id", ev.ChatID, "step_index", stepIndex)
		return nil
	}

	group := jny.Steps[stepIndex]
	if !group.Contains(template) {
		o.logger.Warn("completing template not in bound step group, event ignored",
			"journey_key", jny.ID, "template", template, "step_index", stepIndex)
		return nil
	}

	journeyID := ""
	if conv.Journey != nil {
		journeyID = conv.Journey.JourneyID
	}

	members, met, err := o.joinBarrier(conv, template, journeyID, jny, stepIndex, ev)
	if err != nil {
		return err
	}
	if !met {
		return nil
	}

	// First advance for this journey instance: mint the correlation id that
	// ties parallel siblings together.
	if journeyID == "" {
		journeyID = uuid.NewString()
	}
	for _, member := range members {
		member.Journey = &core.JourneyBinding{
			JourneyID:  journeyID,
			JourneyKey: jny.ID,
			StepIndex:  stepIndex,
			TotalSteps: jny.TotalSteps(),
		}
		if err := o.store.Put(member); err != nil {
			return fmt.Errorf("persist journey binding on %s: %w", member.ID, err)
		}
	}

	nextIndex := stepIndex + 1
	nextGroup := jny.Steps[nextIndex]

	// Fail closed: every template of the next group must pass its gate
	// before any of them is created or started.
	if o.prereq != nil {
		for _, tpl := range nextGroup {
			if err := o.prereq(ctx, tpl, ev); err != nil {
				o.hub.Send(ev.ChatID, core.Notification{
					Event: core.NotificationError,
					Payload: map[string]any{
						"journey_id": journeyID,
						"template":   tpl,
						"reason":     err.Error(),
					},
				})
				o.logger.Warn("journey advance blocked by prerequisite",
					"journey_id", journeyID, "template", tpl, "reason", err.Error())
				return nil
			}
		}
	}

	next := make([]*core.Conversation, 0, len(nextGroup))
	for _, tpl := range nextGroup {
		candidate := &core.Conversation{
			ID:       uuid.NewString(),
			Template: tpl,
			AppID:    ev.AppID,
			UserID:   ev.UserID,
			Status:   core.StatusActive,
			Journey: &core.JourneyBinding{
				JourneyID:  journeyID,
				JourneyKey: jny.ID,
				StepIndex:  nextIndex,
				TotalSteps: jny.TotalSteps(),
			},
		}
		stepConv, created, err := o.store.CreateIfAbsent(candidate)
		if err != nil {
			return fmt.Errorf("create step conversation for %s: %w", tpl, err)
		}
		if !created {
			o.logger.Debug("reusing existing step conversation",
				"journey_id", journeyID, "template", tpl, "conversation_id", stepConv.ID)
		}
		next = append(next, stepConv)
	}

	ids := make([]string, len(next))
	for i, nc := range next {
		ids[i] = nc.ID
	}
	o.hub.Rebind(ev.ChatID, ids...)

	// The last template of the group is the foreground conversation by
	// policy.
	foreground := next[len(next)-1]
	o.hub.Send(ev.ChatID, core.Notification{
		Event: core.NotificationContextSwitched,
		Payload: map[string]any{
			"journey_id":      journeyID,
			"conversation_id": foreground.ID,
			"template":        foreground.Template,
			"step_index":      nextIndex,
			"total_steps":     jny.TotalSteps(),
		},
	})

	for _, nc := range next {
		if err := o.starter.Start(ctx, nc, nc.ID == foreground.ID); err != nil {
			return fmt.Errorf("start step conversation %s (%s): %w", nc.ID, nc.Template, err)
		}
	}

	templates := make([]string, len(next))
	for i, nc := range next {
		templates[i] = nc.Template
	}
	o.logger.Info("journey advanced",
		"journey_id", journeyID,
		"journey_key", jny.ID,
		"from_step", stepIndex,
		"to_step", nextIndex,
		"templates", templates,
		"foreground", foreground.Template,
		"duration", time.Since(started))

	return nil
}

// resolveJourney determines which journey and step group the completing
// conversation belongs to. A persisted binding wins; otherwise the template
// must be the first step of exactly one declared journey. Ambiguity aborts
// silently: advancing the wrong journey is worse than not advancing.
func (o *Orchestrator) resolveJourney(conv *core.Conversation, template string) (*Journey, int, bool) {
	if b := conv.Journey; b != nil {
		jny, ok := o.registry.Get(b.JourneyKey)
		if !ok {
			o.logger.Warn("conversation bound to unknown journey",
				"chat_id", conv.ID, "journey_key", b.JourneyKey)
			return nil, 0, false
		}
		return jny, b.StepIndex, true
	}

	matches := o.registry.StartingWith(template)
	switch len(matches) {
	case 0:
		o.logger.Debug("conversation not part of any journey",
			"chat_id", conv.ID, "template", template)
		return nil, 0, false
	case 1:
		return matches[0], 0, true
	default:
		o.logger.Debug("template starts multiple journeys, refusing to guess",
			"chat_id", conv.ID, "template", template, "candidates", len(matches))
		return nil, 0, false
	}
}

// joinBarrier checks whether every member of the current step group has
// completed. It returns the group's conversation records (the completing one
// first) so the caller can persist bindings on all of them, and met=false
// when a sibling is still pending: each sibling's own completion event will
// re-evaluate the barrier.
func (o *Orchestrator) joinBarrier(
	conv *core.Conversation,
	template, journeyID string,
	jny *Journey,
	stepIndex int,
	ev CompletionEvent,
) ([]*core.Conversation, bool, error) {
	members := []*core.Conversation{conv}
	group := jny.Steps[stepIndex]
	if len(group) == 1 {
		return members, true, nil
	}

	for _, tpl := range group {
		if tpl == template {
			continue
		}
		var sibling *core.Conversation
		var err error
		if journeyID != "" {
			sibling, err = o.store.FindByLinkage(journeyID, stepIndex, tpl)
		} else {
			// A parallel group as the journey's first step has no
			// correlation id yet; fall back to the latest conversation for
			// the same scope.
			sibling, err = o.store.FindLatestByTemplate(ev.AppID, ev.UserID, tpl)
		}
		if errors.Is(err, core.ErrConversationNotFound) {
			o.logger.Debug("join barrier pending: sibling has no conversation yet",
				"journey_key", jny.ID, "step_index", stepIndex, "template", tpl)
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("join barrier lookup for %s: %w", tpl, err)
		}
		if !core.IsCompletedStatus(sibling.Status) {
			o.logger.Debug("join barrier pending: sibling not completed",
				"journey_key", jny.ID, "step_index", stepIndex, "template", tpl, "status", sibling.Status)
			return nil, false, nil
		}
		members = append(members, sibling)
	}
	return members, true, nil
}
