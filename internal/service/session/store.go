package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

var ErrConversationRequired = errors.New("conversation id is required")

// Store persists per-conversation sessions. Get never fails for an unknown
// id: it hands back a fresh default session instead. Save is a whole-record
// overwrite, last write wins.
type Store interface {
	Get(ctx context.Context, conversationID string) (convo.Session, error)
	Save(ctx context.Context, session convo.Session) error
}

// MemoryStore implements Store with a mutex-guarded map, suitable for a
// single-process deployment and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]convo.Session
}

// NewMemoryStore bootstraps the in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]convo.Session)}
}

// Get returns the stored session, or a new default one for a first contact.
func (s *MemoryStore) Get(_ context.Context, conversationID string) (convo.Session, error) {
	if conversationID == "" {
		return convo.Session{}, ErrConversationRequired
	}

	s.mu.RLock()
	session, ok := s.sessions[conversationID]
	s.mu.RUnlock()
	if ok {
		return session, nil
	}
	return convo.New(conversationID), nil
}

// Save overwrites the stored session.
func (s *MemoryStore) Save(_ context.Context, session convo.Session) error {
	if session.ID == "" {
		return ErrConversationRequired
	}

	session.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return nil
}
