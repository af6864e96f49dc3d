package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_paper_store.go -package=mocks sage-ai/internal/storage PaperStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PaperStore defines the interface for paper storage operations.
type PaperStore interface {
	// Insert inserts a paper record. The record ID must be set before calling.
	Insert(ctx context.Context, paper *PaperRecord) error
	// GetByID gets a paper by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*PaperRecord, error)
	// ListAll returns all papers ordered by creation time, newest first.
	ListAll(ctx context.Context) ([]*PaperRecord, error)
	// MarkIndexed transitions a paper to the indexed status and records the
	// indexing timestamp.
	MarkIndexed(ctx context.Context, id string, at time.Time) error
	// Delete removes a paper record. Returns ErrNotFound if not found.
	Delete(ctx context.Context, id string) error
}

// PaperRepo provides methods for paper operations.
// It implements the PaperStore interface.
type PaperRepo struct {
	db *sql.DB
}

// NewPaperRepo creates a new PaperRepo.
func NewPaperRepo(db *sql.DB) *PaperRepo {
	return &PaperRepo{db: db}
}

// Insert inserts a paper record. The record ID must be set before calling.
func (r *PaperRepo) Insert(ctx context.Context, paper *PaperRecord) error {
	sections, err := json.Marshal(paper.Sections)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO papers (id, filename, title, sections, chunk_count, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		paper.ID, paper.Filename, paper.Title, string(sections), paper.ChunkCount, paper.Status, paper.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert paper: %w", err)
	}
	return nil
}

// GetByID gets a paper by its ID. Returns ErrNotFound if not found.
func (r *PaperRepo) GetByID(ctx context.Context, id string) (*PaperRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, filename, title, sections, chunk_count, status, created_at, indexed_at
		 FROM papers WHERE id = ?`, id)

	paper, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query paper: %w", err)
	}
	return paper, nil
}

// ListAll returns all papers ordered by creation time, newest first.
func (r *PaperRepo) ListAll(ctx context.Context) ([]*PaperRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, filename, title, sections, chunk_count, status, created_at, indexed_at
		 FROM papers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query papers: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var papers []*PaperRecord
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan paper: %w", err)
		}
		papers = append(papers, paper)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return papers, nil
}

// MarkIndexed transitions a paper to the indexed status.
func (r *PaperRepo) MarkIndexed(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE papers SET status = ?, indexed_at = ? WHERE id = ?",
		PaperStatusIndexed, at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark paper indexed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a paper record. Returns ErrNotFound if not found.
func (r *PaperRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM papers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete paper: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*PaperRecord, error) {
	var paper PaperRecord
	var sections string
	var title sql.NullString
	var indexedAt sql.NullTime

	err := row.Scan(&paper.ID, &paper.Filename, &title, &sections,
		&paper.ChunkCount, &paper.Status, &paper.CreatedAt, &indexedAt)
	if err != nil {
		return nil, err
	}

	paper.Title = title.String
	if indexedAt.Valid {
		t := indexedAt.Time
		paper.IndexedAt = &t
	}
	if err := json.Unmarshal([]byte(sections), &paper.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
	}
	return &paper, nil
}
