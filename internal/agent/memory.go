package agent

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// historyWindow is how many recent turns feed the mode classifier.
const historyWindow = 10

// maxCachedTurns caps the per-conversation turn slice held in memory; the
// store keeps the full transcript.
const maxCachedTurns = 50

// Turn is one message in a conversation, from either side.
type Turn struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Specialist     string    `json:"specialist,omitempty"`
	Mode           string    `json:"mode,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationMemory layers an LRU cache of recent turns over the durable
// store. The cache caps how many conversations one process holds; eviction
// loses nothing because reads fall through to the store.
type ConversationMemory struct {
	cache *lru.Cache[string, []Turn]
	store *TurnStore
}

// NewConversationMemory creates a memory over a store. store may be nil for
// cache-only operation (tests, ephemeral sessions).
func NewConversationMemory(store *TurnStore, cacheSize int) (*ConversationMemory, error) {
	if cacheSize <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", cacheSize)
	}
	cache, err := lru.New[string, []Turn](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create conversation cache: %w", err)
	}
	return &ConversationMemory{cache: cache, store: store}, nil
}

// Append records turns in the cache and the store. A store failure is
// returned after the cache update so callers still see fresh history.
func (m *ConversationMemory) Append(ctx context.Context, turns ...Turn) error {
	for _, t := range turns {
		cached, _ := m.cache.Get(t.ConversationID)
		cached = append(cached, t)
		if len(cached) > maxCachedTurns {
			cached = cached[len(cached)-maxCachedTurns:]
		}
		m.cache.Add(t.ConversationID, cached)
	}

	if m.store == nil {
		return nil
	}
	for i := range turns {
		if err := m.store.SaveTurn(ctx, &turns[i]); err != nil {
			return fmt.Errorf("save turn: %w", err)
		}
	}
	return nil
}

// Recent returns up to limit most recent turns for a conversation, oldest
// first. Cache hits avoid the store entirely.
func (m *ConversationMemory) Recent(ctx context.Context, conversationID string, limit int) ([]Turn, error) {
	if cached, ok := m.cache.Get(conversationID); ok {
		if len(cached) > limit {
			cached = cached[len(cached)-limit:]
		}
		out := make([]Turn, len(cached))
		copy(out, cached)
		return out, nil
	}

	if m.store == nil {
		return nil, nil
	}

	turns, err := m.store.RecentTurns(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}
	if len(turns) > 0 {
		m.cache.Add(conversationID, turns)
	}
	return turns, nil
}

// Forget drops a conversation from the cache. The store is untouched.
func (m *ConversationMemory) Forget(conversationID string) {
	m.cache.Remove(conversationID)
}

// CachedConversations reports how many conversations are currently cached.
func (m *ConversationMemory) CachedConversations() int {
	return m.cache.Len()
}
