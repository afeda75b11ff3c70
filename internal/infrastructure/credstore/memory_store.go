package credstore

import (
	"context"
	"sync"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// MemoryStore keeps the credential for the lifetime of the process only.
type MemoryStore struct {
	mu   sync.RWMutex
	cred domain.Credential
}

func NewMemoryStore(initial domain.Credential) *MemoryStore {
	return &MemoryStore{cred: initial}
}

func (s *MemoryStore) Get(_ context.Context) (domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, nil
}

func (s *MemoryStore) Set(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = ""
	return nil
}
