package domain

import "time"

// DocumentStatus tracks a document through the ingestion lifecycle.
type DocumentStatus string

// Document lifecycle states. A document reaches exactly one terminal state
// (completed or failed) per ingestion run.
const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Terminal reports whether the status is a terminal ingestion state.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document represents an uploaded document and its ingestion state.
// The full text is not retained; only chunks live in the vector index.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original file name, used for display.
	Filename string

	// Status is the current ingestion state.
	Status DocumentStatus

	// ChunkCount is the number of chunks indexed for this document.
	// Zero until ingestion completes.
	ChunkCount int

	// UploadedAt is when the document record was created.
	UploadedAt time.Time

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time
}
