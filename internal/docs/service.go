package docs

import (
	"context"
	"fmt"
	"strings"

	"docmesh.org/internal/auth"
)

// Service wraps document business rules. Every mutating operation receives the
// authenticated identity produced by the guard and applies the ownership gate
// after the store lookup, so a missing document reports NotFound before any
// ownership comparison happens.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create records metadata for an uploaded document owned by the identity.
func (s *Service) Create(ctx context.Context, identity auth.Identity, title, description, filePath string) (Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Document{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(filePath) == "" {
		return Document{}, fmt.Errorf("%w: file path is required", ErrInvalidInput)
	}
	doc := Document{
		OwnerID:     identity.ID,
		Title:       title,
		Description: strings.TrimSpace(description),
		FilePath:    filePath,
	}
	if err := s.store.Create(ctx, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ListForOwner returns the documents owned by the identity.
func (s *Service) ListForOwner(ctx context.Context, identity auth.Identity) ([]Document, error) {
	list, err := s.store.ListByOwner(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(list))
	for _, doc := range list {
		out = append(out, *doc)
	}
	return out, nil
}

// Get returns a single document. Reads are restricted the same way as
// mutations: only the owner or an admin sees the record, and a miss is
// indistinguishable in status class from a record that exists elsewhere.
func (s *Service) Get(ctx context.Context, identity auth.Identity, id string) (Document, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !auth.CanModifyResource(identity, doc.OwnerID) {
		return Document{}, ErrForbidden
	}
	return *doc, nil
}

// Delete removes a document. The owner or an ADMIN may delete; anyone else is
// denied after the existence check.
func (s *Service) Delete(ctx context.Context, identity auth.Identity, id string) error {
	doc, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanModifyResource(identity, doc.OwnerID) {
		return ErrForbidden
	}
	return s.store.Delete(ctx, doc.ID)
}

func (s *Service) find(ctx context.Context, id string) (*Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	return s.store.FindByID(ctx, id)
}
