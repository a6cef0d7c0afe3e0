package docs

import (
	"context"
	"sort"
	"sync"
	"time"

	"docmesh.org/internal/ids"
)

var _ Store = (*MemStore)(nil)

// MemStore is an in-memory Store used by tests.
type MemStore struct {
	mu   sync.Mutex
	byID map[string]*Document
}

func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[string]*Document)}
}

func (s *MemStore) Create(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ID == "" {
		doc.ID = ids.New()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	clone := *doc
	s.byID[doc.ID] = &clone
	return nil
}

func (s *MemStore) FindByID(_ context.Context, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *doc
	return &clone, nil
}

func (s *MemStore) ListByOwner(_ context.Context, ownerID string) ([]*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*Document
	for _, doc := range s.byID {
		if doc.OwnerID == ownerID {
			clone := *doc
			res = append(res, &clone)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}
