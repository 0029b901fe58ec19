package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrelay/core"
	"github.com/hupe1980/agentrelay/internal/testutil"
)

// Interface compliance (compile-time assertion)
var _ core.ConversationStore = (*InMemoryStore)(nil)

func TestGetPut_RoundTripAndCloning(t *testing.T) {
	s := NewInMemoryStore()
	conv := testutil.NewConversationBuilder("chat-1").Template("Onboarding").Scope("app", "user").Build()

	require.NoError(t, s.Put(conv))

	got, err := s.Get("chat-1")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", got.Template)
	assert.False(t, got.Created.IsZero())
	assert.False(t, got.Updated.IsZero())

	// Mutating the returned clone must not leak into the store.
	got.Template = "Tampered"
	again, err := s.Get("chat-1")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", again.Template)
}

func TestGet_NotFound(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.Get("missing")
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}

func TestPut_PreservesCreated(t *testing.T) {
	s := NewInMemoryStore()
	conv := testutil.NewConversationBuilder("chat-1").Template("Onboarding").Build()
	require.NoError(t, s.Put(conv))

	first, _ := s.Get("chat-1")

	conv.Status = core.StatusCompleted
	require.NoError(t, s.Put(conv))

	second, _ := s.Get("chat-1")
	assert.Equal(t, first.Created, second.Created)
	assert.Equal(t, core.StatusCompleted, second.Status)
}

func TestCreateIfAbsent_DedupesByLinkage(t *testing.T) {
	s := NewInMemoryStore()

	first := testutil.NewConversationBuilder("conv-a").
		Template("Survey").Scope("app", "user").
		Journey("j-1", "flow", 1, 3).Build()

	created, wasNew, err := s.CreateIfAbsent(first)
	require.NoError(t, err)
	assert.True(t, wasNew)
	assert.Equal(t, "conv-a", created.ID)

	// Same linkage under a different id: the existing record wins.
	duplicate := testutil.NewConversationBuilder("conv-b").
		Template("Survey").Scope("app", "user").
		Journey("j-1", "flow", 1, 3).Build()

	existing, wasNew, err := s.CreateIfAbsent(duplicate)
	require.NoError(t, err)
	assert.False(t, wasNew)
	assert.Equal(t, "conv-a", existing.ID)

	// A different step index is a distinct linkage.
	nextStep := testutil.NewConversationBuilder("conv-c").
		Template("Survey").Scope("app", "user").
		Journey("j-1", "flow", 2, 3).Build()

	_, wasNew, err = s.CreateIfAbsent(nextStep)
	require.NoError(t, err)
	assert.True(t, wasNew)
}

func TestCreateIfAbsent_RequiresBinding(t *testing.T) {
	s := NewInMemoryStore()
	_, _, err := s.CreateIfAbsent(testutil.NewConversationBuilder("conv-a").Build())
	assert.Error(t, err)
}

func TestFindByLinkage(t *testing.T) {
	s := NewInMemoryStore()
	conv := testutil.NewConversationBuilder("conv-a").
		Template("Survey").Journey("j-1", "flow", 1, 3).Build()
	require.NoError(t, s.Put(conv))

	got, err := s.FindByLinkage("j-1", 1, "Survey")
	require.NoError(t, err)
	assert.Equal(t, "conv-a", got.ID)

	_, err = s.FindByLinkage("j-1", 0, "Survey")
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}

func TestFindLatestByTemplate(t *testing.T) {
	s := NewInMemoryStore()

	older := testutil.NewConversationBuilder("conv-old").Template("Survey").Scope("app", "user").Build()
	require.NoError(t, s.Put(older))
	time.Sleep(time.Millisecond) // distinct Updated stamps
	newer := testutil.NewConversationBuilder("conv-new").Template("Survey").Scope("app", "user").Build()
	require.NoError(t, s.Put(newer))

	got, err := s.FindLatestByTemplate("app", "user", "Survey")
	require.NoError(t, err)
	assert.Equal(t, "conv-new", got.ID)

	_, err = s.FindLatestByTemplate("app", "other-user", "Survey")
	assert.ErrorIs(t, err, core.ErrConversationNotFound)
}
