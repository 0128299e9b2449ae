package driving

import "context"

// IngestService runs the ingestion pipeline for uploaded documents.
type IngestService interface {
	// IngestText chunks, embeds, and indexes the full text of a document,
	// then persists the index snapshot. It drives the document's status to
	// exactly one terminal state and returns the indexed chunk count.
	IngestText(ctx context.Context, documentID, text string) (int, error)
}
