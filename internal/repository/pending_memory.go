package repository

import (
	"context"
	"sync"
	"time"

	"github.com/pagatodo/finanzas-bot/internal/models"
)

// MemoryPendingStore is an in-memory implementation of the pending
// store with the same put/get/clear semantics as PendingRepository.
// Used by tests and available for single-process deployments that do
// not need pending state to survive a restart.
type MemoryPendingStore struct {
	mu      sync.RWMutex
	actions map[int64]models.PendingAction

	// Now is injectable for TTL tests. Defaults to time.Now.
	Now func() time.Time
}

// NewMemoryPendingStore creates an empty in-memory pending store.
func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{
		actions: make(map[int64]models.PendingAction),
		Now:     time.Now,
	}
}

// Put stages an action for a chat, overwriting any existing one.
func (s *MemoryPendingStore) Put(_ context.Context, action *models.PendingAction, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	action.ExpiresAt = s.Now().Add(ttl)
	s.actions[action.ChatID] = *action
	return nil
}

// Get returns the chat's pending action, or nil when none is staged.
func (s *MemoryPendingStore) Get(_ context.Context, chatID int64) (*models.PendingAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	action, ok := s.actions[chatID]
	if !ok {
		return nil, nil
	}
	return &action, nil
}

// Clear removes the chat's pending action. No-op when absent.
func (s *MemoryPendingStore) Clear(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.actions, chatID)
	return nil
}
