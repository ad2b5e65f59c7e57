package domain

import (
	"fmt"
	"time"
)

// DocumentStatus is the backend-reported processing stage of a document.
// The set is closed: the backend pipeline moves a document through these
// stages in order, and the client never invents or predicts a stage.
type DocumentStatus string

const (
	StatusPending           DocumentStatus = "pending"
	StatusTextExtracting    DocumentStatus = "text_extracting"
	StatusTextExtracted     DocumentStatus = "text_extracted"
	StatusGeneratingSummary DocumentStatus = "generating_summary"
	StatusSummaryGenerated  DocumentStatus = "summary_generated"
	StatusEmbeddingText     DocumentStatus = "embedding_text"
	StatusEmbeddedText      DocumentStatus = "embedded_text"
	StatusCompleted         DocumentStatus = "completed"
)

// AllStatuses lists every stage in pipeline order.
func AllStatuses() []DocumentStatus {
	return []DocumentStatus{
		StatusPending,
		StatusTextExtracting,
		StatusTextExtracted,
		StatusGeneratingSummary,
		StatusSummaryGenerated,
		StatusEmbeddingText,
		StatusEmbeddedText,
		StatusCompleted,
	}
}

// ParseDocumentStatus validates a raw status code from the backend.
// An unknown code is schema drift between client and server and must
// surface as an error, never as a silent default.
func ParseDocumentStatus(raw string) (DocumentStatus, error) {
	status := DocumentStatus(raw)
	switch status {
	case StatusPending, StatusTextExtracting, StatusTextExtracted,
		StatusGeneratingSummary, StatusSummaryGenerated,
		StatusEmbeddingText, StatusEmbeddedText, StatusCompleted:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// StageIndex returns the position of the status in the pipeline order,
// or -1 for a status outside the closed set.
func (s DocumentStatus) StageIndex() int {
	switch s {
	case StatusPending:
		return 0
	case StatusTextExtracting:
		return 1
	case StatusTextExtracted:
		return 2
	case StatusGeneratingSummary:
		return 3
	case StatusSummaryGenerated:
		return 4
	case StatusEmbeddingText:
		return 5
	case StatusEmbeddedText:
		return 6
	case StatusCompleted:
		return 7
	}
	return -1
}

func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted
}

// Document mirrors backend state read-only. IsFailed is orthogonal to
// Status: a document can report failure while its last known stage is
// any point in the pipeline.
type Document struct {
	ID          int64
	Title       string
	Description string
	Status      DocumentStatus
	IsFailed    bool
	ChunkCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UploadReceipt is the backend's per-file answer to an upload request.
// A multi-file upload can partially succeed; each file gets its own
// receipt.
type UploadReceipt struct {
	ID       int64
	Filename string
	Accepted bool
	Detail   string
}

// Retryable reports whether the retry action applies. Only failure
// gates it; stage progress does not.
func (d Document) Retryable() bool {
	return d.IsFailed
}

// Settled reports whether the backend is done with the document, either
// successfully or not. Used by the idle-stop watch mode.
func (d Document) Settled() bool {
	return d.IsFailed || d.Status.Terminal()
}
