package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// CreateDocument stores a new document record.
func (s *documentStore) CreateDocument(ctx context.Context, doc domain.Document) error {
	now := time.Now().UTC()
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}
	if doc.Status == "" {
		doc.Status = domain.StatusPending
	}

	var exists int
	row := s.store.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM documents WHERE id = ?`, doc.ID)
	if err := row.Scan(&exists); err != nil {
		return fmt.Errorf("checking document: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrAlreadyExists)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, status, chunk_count, uploaded_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, string(doc.Status), doc.ChunkCount, doc.UploadedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, status, chunk_count, uploaded_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns all documents ordered by upload time descending.
func (s *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, filename, status, chunk_count, uploaded_at, updated_at
		FROM documents ORDER BY uploaded_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document record. Conversations and messages
// cascade through foreign keys.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.store.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// MarkProcessing transitions the document to the processing state.
func (s *documentStore) MarkProcessing(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.StatusProcessing, -1)
}

// MarkCompleted transitions the document to completed and records the
// indexed chunk count.
func (s *documentStore) MarkCompleted(ctx context.Context, id string, chunkCount int) error {
	return s.setStatus(ctx, id, domain.StatusCompleted, chunkCount)
}

// MarkFailed transitions the document to the failed state.
func (s *documentStore) MarkFailed(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.StatusFailed, -1)
}

// setStatus updates status and update time, optionally the chunk count.
func (s *documentStore) setStatus(ctx context.Context, id string, status domain.DocumentStatus, chunkCount int) error {
	var result sql.Result
	var err error
	if chunkCount >= 0 {
		result, err = s.store.db.ExecContext(ctx, `
			UPDATE documents SET status = ?, chunk_count = ?, updated_at = ? WHERE id = ?
		`, string(status), chunkCount, time.Now().UTC(), id)
	} else {
		result, err = s.store.db.ExecContext(ctx, `
			UPDATE documents SET status = ?, updated_at = ? WHERE id = ?
		`, string(status), time.Now().UTC(), id)
	}
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument scans a document row.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var status string
	var uploadedAt, updatedAt sql.NullTime
	if err := row.Scan(&doc.ID, &doc.Filename, &status, &doc.ChunkCount, &uploadedAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	doc.Status = domain.DocumentStatus(status)
	if uploadedAt.Valid {
		doc.UploadedAt = uploadedAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}
	return &doc, nil
}
