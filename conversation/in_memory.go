// Package conversation provides store implementations for conversation
// records and their journey linkage.
package conversation

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentrelay/core"
)

// InMemoryStore is a volatile ConversationStore keeping records in a process
// local map. It is safe for concurrent access and best suited for tests or
// single-instance deployments. Each returned record is cloned to prevent
// external mutation of internal state.
//
// CreateIfAbsent performs its existence check and insert under one write
// lock, which gives the atomic insert-if-absent semantics journey step
// creation relies on within a single process. Durable multi-instance
// deployments need a store backed by a conditional database insert.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*core.Conversation
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*core.Conversation)}
}

// Get returns a clone of the record for id or ErrConversationNotFound.
func (s *InMemoryStore) Get(id string) (*core.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if conv, ok := s.conversations[id]; ok {
		return conv.Clone(), nil
	}
	return nil, fmt.Errorf("conversation %s: %w", id, core.ErrConversationNotFound)
}

// Put creates or replaces the record, stamping the Updated timestamp (and
// Created on first write).
func (s *InMemoryStore) Put(conv *core.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := conv.Clone()
	now := time.Now()
	if existing, ok := s.conversations[conv.ID]; ok {
		clone.Created = existing.Created
	} else if clone.Created.IsZero() {
		clone.Created = now
	}
	clone.Updated = now
	s.conversations[conv.ID] = clone
	return nil
}

// CreateIfAbsent inserts conv unless a record with the same
// (journey_id, step_index, template) linkage already exists, in which case
// the existing record is returned with created=false. The check and insert
// happen under one lock.
func (s *InMemoryStore) CreateIfAbsent(conv *core.Conversation) (*core.Conversation, bool, error) {
	if conv.Journey == nil {
		return nil, false, fmt.Errorf("conversation %s has no journey binding", conv.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.findByLinkageLocked(conv.Journey.JourneyID, conv.Journey.StepIndex, conv.Template); existing != nil {
		return existing.Clone(), false, nil
	}
	clone := conv.Clone()
	now := time.Now()
	if clone.Created.IsZero() {
		clone.Created = now
	}
	clone.Updated = now
	s.conversations[clone.ID] = clone
	return clone.Clone(), true, nil
}

// FindByLinkage returns the record tagged (journeyID, stepIndex, template) or
// ErrConversationNotFound.
func (s *InMemoryStore) FindByLinkage(journeyID string, stepIndex int, template string) (*core.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if conv := s.findByLinkageLocked(journeyID, stepIndex, template); conv != nil {
		return conv.Clone(), nil
	}
	return nil, fmt.Errorf("linkage (%s, %d, %s): %w", journeyID, stepIndex, template, core.ErrConversationNotFound)
}

// FindLatestByTemplate returns the most recently updated record for the
// app/user/template scope or ErrConversationNotFound.
func (s *InMemoryStore) FindLatestByTemplate(appID, userID, template string) (*core.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *core.Conversation
	for _, conv := range s.conversations {
		if conv.AppID != appID || conv.UserID != userID || conv.Template != template {
			continue
		}
		if latest == nil || conv.Updated.After(latest.Updated) {
			latest = conv
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("template %s for %s/%s: %w", template, appID, userID, core.ErrConversationNotFound)
	}
	return latest.Clone(), nil
}

// findByLinkageLocked scans for a linkage match; caller must hold the lock.
func (s *InMemoryStore) findByLinkageLocked(journeyID string, stepIndex int, template string) *core.Conversation {
	for _, conv := range s.conversations {
		b := conv.Journey
		if b == nil {
			continue
		}
		if b.JourneyID == journeyID && b.StepIndex == stepIndex && conv.Template == template {
			return conv
		}
	}
	return nil
}
