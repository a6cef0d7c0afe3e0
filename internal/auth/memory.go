package auth

import (
	"context"
	"sync"
	"time"

	"docmesh.org/internal/ids"
)

var _ Store = (*MemStore)(nil)

// MemStore is an in-memory Store used by tests and local development. Writes
// are serialized with a mutex so two concurrent registrations with the same
// email cannot both succeed.
type MemStore struct {
	mu         sync.Mutex
	byID       map[string]*Identity
	emailIndex map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{
		byID:       make(map[string]*Identity),
		emailIndex: make(map[string]string),
	}
}

func (s *MemStore) Create(_ context.Context, identity *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.emailIndex[identity.Email]; exists {
		return ErrConflict
	}
	if identity.ID == "" {
		identity.ID = ids.New()
	}
	now := time.Now().UTC()
	identity.CreatedAt = now
	identity.UpdatedAt = now
	clone := *identity
	s.byID[identity.ID] = &clone
	s.emailIndex[identity.Email] = identity.ID
	return nil
}

func (s *MemStore) FindByID(_ context.Context, id string) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *identity
	return &clone, nil
}

func (s *MemStore) FindByEmail(_ context.Context, email string) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *s.byID[id]
	return &clone, nil
}

func (s *MemStore) List(_ context.Context) ([]*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]*Identity, 0, len(s.byID))
	for _, identity := range s.byID {
		clone := *identity
		res = append(res, &clone)
	}
	return res, nil
}

func (s *MemStore) Update(_ context.Context, id string, upd IdentityUpdate) (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		identity.Name = *upd.Name
	}
	if len(upd.Roles) > 0 {
		identity.Roles = upd.Roles
	}
	identity.UpdatedAt = time.Now().UTC()
	clone := *identity
	return &clone, nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.emailIndex, identity.Email)
	delete(s.byID, id)
	return nil
}
