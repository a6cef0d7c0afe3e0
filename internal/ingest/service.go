package ingest

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"docmesh.org/internal/auth"
	"docmesh.org/internal/docs"
)

// Enqueuer abstracts the queue client so the service can be exercised without
// a running Redis.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Service validates ownership and emits ingestion work events. The ownership
// check here is strict: no ADMIN override, only the document owner may
// trigger ingestion.
type Service struct {
	docs  docs.Store
	queue Enqueuer
}

func NewService(docStore docs.Store, queue Enqueuer) *Service {
	return &Service{docs: docStore, queue: queue}
}

// TriggerResult is returned to the caller after a successful emission.
type TriggerResult struct {
	Message string `json:"message"`
}

// Trigger looks up the document, applies the strict ownership gate, then
// emits the work event. A missing document reports NotFound before any
// ownership comparison; a denied request leaves the queue untouched.
func (s *Service) Trigger(ctx context.Context, identity auth.Identity, documentID string) (TriggerResult, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		return TriggerResult{}, err
	}
	if !auth.OwnsResource(identity, doc.OwnerID) {
		return TriggerResult{}, docs.ErrForbidden
	}

	task, err := NewIngestDocumentTask(IngestDocumentPayload{
		DocumentID: doc.ID,
		FilePath:   doc.FilePath,
	})
	if err != nil {
		return TriggerResult{}, fmt.Errorf("build ingestion task: %w", err)
	}
	if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
		return TriggerResult{}, fmt.Errorf("enqueue ingestion task: %w", err)
	}

	return TriggerResult{
		Message: fmt.Sprintf("Document ingestion for %q has been successfully triggered.", doc.Title),
	}, nil
}
