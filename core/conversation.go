package core

import (
	"errors"
	"time"
)

// ErrConversationNotFound is returned by ConversationStore lookups that match
// no record.
var ErrConversationNotFound = errors.New("conversation not found")

// Conversation status values written by this system. The external runtime may
// persist richer status vocabularies; IsCompletedStatus recognizes the common
// completion synonyms.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// JourneyBinding links a conversation record to a journey instance. It is
// created the first time a journey advances past its first step; conversations
// not part of a journey, or still at step zero, carry no binding.
type JourneyBinding struct {
	JourneyID  string `json:"journey_id"`  // correlation id shared by parallel siblings
	JourneyKey string `json:"journey_key"` // which declared journey
	StepIndex  int    `json:"journey_step_index"`
	TotalSteps int    `json:"journey_total_steps"`
}

// Conversation is the minimal view of a runtime-owned conversation record
// that journey orchestration reads and writes: identity, template, scope,
// completion status and the journey linkage layered on top. Transcript
// content is owned by the external runtime and never appears here.
type Conversation struct {
	ID       string          `json:"id"`
	Template string          `json:"template"`
	AppID    string          `json:"app_id"`
	UserID   string          `json:"user_id"`
	Status   string          `json:"status"`
	Journey  *JourneyBinding `json:"journey,omitempty"`
	Created  time.Time       `json:"created"`
	Updated  time.Time       `json:"updated"`
}

// Clone returns a deep copy safe for independent mutation.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	if c.Journey != nil {
		b := *c.Journey
		clone.Journey = &b
	}
	return &clone
}

// ConversationStore persists conversation records and their journey linkage.
//
// CreateIfAbsent is the durable idempotency mechanism for journey step
// creation: implementations must make the insert conditional on no record
// existing for the same (journey_id, step_index, template) linkage, atomically
// with respect to concurrent callers. The in-process locks held by the
// orchestrator are a latency optimization only.
type ConversationStore interface {
	// Get returns the record for id or ErrConversationNotFound.
	Get(id string) (*Conversation, error)

	// Put creates or replaces the record.
	Put(conv *Conversation) error

	// CreateIfAbsent inserts conv unless a record with the same journey
	// linkage already exists, in which case the existing record is returned
	// with created=false. conv must carry a non-nil Journey binding.
	CreateIfAbsent(conv *Conversation) (*Conversation, bool, error)

	// FindByLinkage returns the record tagged (journeyID, stepIndex, template)
	// or ErrConversationNotFound.
	FindByLinkage(journeyID string, stepIndex int, template string) (*Conversation, error)

	// FindLatestByTemplate returns the most recently updated record for the
	// given app/user/template scope or ErrConversationNotFound.
	FindLatestByTemplate(appID, userID, template string) (*Conversation, error)
}
