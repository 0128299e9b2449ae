package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding backend rejected the
	// call (bad credentials, quota exhausted) or timed out. Retries are a
	// caller policy, never performed transparently by the adapter.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation backend failed with
	// a transport timeout, authentication failure, or rate limiting.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrIngestionFailed indicates a document could not be ingested: either
	// chunking produced no text or embedding failed outright. The owning
	// document must be marked failed by the pipeline.
	ErrIngestionFailed = errors.New("ingestion failed")

	// ErrDocumentNotReady indicates a conversation was requested against a
	// document whose ingestion has not completed.
	ErrDocumentNotReady = errors.New("document not ready")
)
