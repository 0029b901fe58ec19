package testutil

import (
	"github.com/hupe1980/agentrelay/core"
)

// ConversationBuilder helps construct conversation records with fluent
// chaining for tests.
// Example:
//
//	conv := NewConversationBuilder("chat-1").Template("Onboarding").Completed().Build()
type ConversationBuilder struct {
	conv core.Conversation
}

// NewConversationBuilder creates a builder for a conversation with the given
// id. The conversation defaults to active with no journey binding.
func NewConversationBuilder(id string) *ConversationBuilder {
	return &ConversationBuilder{conv: core.Conversation{
		ID:     id,
		Status: core.StatusActive,
	}}
}

// Template sets the conversation template name (chainable).
func (b *ConversationBuilder) Template(name string) *ConversationBuilder {
	b.conv.Template = name
	return b
}

// Scope sets the app and user ids (chainable).
func (b *ConversationBuilder) Scope(appID, userID string) *ConversationBuilder {
	b.conv.AppID = appID
	b.conv.UserID = userID
	return b
}

// Completed marks the conversation completed (chainable).
func (b *ConversationBuilder) Completed() *ConversationBuilder {
	b.conv.Status = core.StatusCompleted
	return b
}

// Journey attaches a journey binding (chainable).
func (b *ConversationBuilder) Journey(journeyID, journeyKey string, stepIndex, totalSteps int) *ConversationBuilder {
	b.conv.Journey = &core.JourneyBinding{
		JourneyID:  journeyID,
		JourneyKey: journeyKey,
		StepIndex:  stepIndex,
		TotalSteps: totalSteps,
	}
	return b
}

// Build returns a copy of the assembled conversation.
func (b *ConversationBuilder) Build() *core.Conversation {
	conv := b.conv
	return &conv
}
