package session

import (
	"sync"
	"time"
)

// Turn records one side of an exchange within a conversation.
type Turn struct {
	Role string // "user" or "agent"
	Text string
	At   time.Time
}

// Conversation is the stored state for a single conversation id.
type Conversation struct {
	ID    string
	Turns []Turn
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (c *Conversation) Clone() *Conversation {
	turns := make([]Turn, len(c.Turns))
	copy(turns, c.Turns)
	return &Conversation{ID: c.ID, Turns: turns}
}

// InMemoryStore keeps conversations in a process-local map. Safe for
// concurrent access; each read returns a clone.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewInMemoryStore constructs an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*Conversation)}
}

// Get returns a clone of the conversation, creating it lazily.
func (s *InMemoryStore) Get(id string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id).Clone()
}

// Append adds a turn to the conversation, creating it if needed.
func (s *InMemoryStore) Append(id string, turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.getOrCreateLocked(id)
	c.Turns = append(c.Turns, turn)
}

func (s *InMemoryStore) getOrCreateLocked(id string) *Conversation {
	c, ok := s.conversations[id]
	if !ok {
		c = &Conversation{ID: id}
		s.conversations[id] = c
	}
	return c
}
