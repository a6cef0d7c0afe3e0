package ingest

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"docmesh.org/internal/audit"
)

const (
	// QueueDefault is the queue name for ingestion jobs.
	QueueDefault = "default"
	// TaskTypeIngestDocument is the task type emitted when ingestion is triggered.
	TaskTypeIngestDocument = "ingest:document"
)

// IngestDocumentPayload identifies the document to ingest. It carries only the
// resource identifier and location, never credentials.
type IngestDocumentPayload struct {
	DocumentID string `json:"document_id"`
	FilePath   string `json:"file_path"`
}

// NewIngestDocumentTask constructs an Asynq task for the payload.
func NewIngestDocumentTask(payload IngestDocumentPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeIngestDocument, data, asynq.Queue(QueueDefault)), nil
}

// HandleIngestDocumentTask processes TaskTypeIngestDocument tasks. The heavy
// lifting (parsing, embedding) belongs to the downstream pipeline; this
// handler acknowledges receipt and records the event.
func HandleIngestDocumentTask(ctx context.Context, t *asynq.Task) error {
	var payload IngestDocumentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	_ = audit.LogEvent(ctx, "ingestion.document.received", map[string]any{
		"document_id": payload.DocumentID,
		"file_path":   payload.FilePath,
	})
	return nil
}
