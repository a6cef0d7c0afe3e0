// Package docs holds document metadata and the ownership rules attached to it.
// File content itself lives on disk or in object storage; this package only
// tracks where it is and who owns it.
package docs

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("docs: invalid input")
	ErrNotFound     = errors.New("docs: not found")
	ErrForbidden    = errors.New("docs: forbidden")
)

// Document is an owned resource. OwnerID is set at creation and never changes.
type Document struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FilePath    string    `json:"file_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store describes document metadata persistence.
type Store interface {
	Create(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id string) (*Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Document, error)
	Delete(ctx context.Context, id string) error
}
