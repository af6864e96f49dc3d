package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_store.go -package=mocks sage-ai/internal/storage ChunkStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ChunkStore defines the interface for chunk storage operations.
type ChunkStore interface {
	// BulkInsert inserts all chunks in one transaction.
	// Each chunk ID must be set (UUID) before calling this method.
	BulkInsert(ctx context.Context, chunks []*ChunkRecord) error
	// ListByPaper returns all chunks for a paper ordered by chunk order.
	ListByPaper(ctx context.Context, paperID string) ([]*ChunkRecord, error)
	// GetByPaperAndOrders returns the chunks of a paper whose order index is
	// in the given set. One lookup per paper, not per hit.
	GetByPaperAndOrders(ctx context.Context, paperID string, orders []int) ([]*ChunkRecord, error)
	// CountByPaper returns the number of chunks stored for a paper.
	CountByPaper(ctx context.Context, paperID string) (int, error)
	// DeleteByPaper deletes all chunks for a paper and returns the count removed.
	DeleteByPaper(ctx context.Context, paperID string) (int, error)
}

// ChunkRepo provides methods for chunk operations.
// It implements the ChunkStore interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// BulkInsert inserts all chunks in one transaction.
func (r *ChunkRepo) BulkInsert(ctx context.Context, chunks []*ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks (id, paper_id, chunk_order, section, page, text) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.PaperID, chunk.Order, chunk.Section, chunk.Page, chunk.Text); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.Order, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

// ListByPaper returns all chunks for a paper ordered by chunk order.
func (r *ChunkRepo) ListByPaper(ctx context.Context, paperID string) ([]*ChunkRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, paper_id, chunk_order, section, page, text
		 FROM chunks WHERE paper_id = ? ORDER BY chunk_order`, paperID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanChunks(rows)
}

// GetByPaperAndOrders returns the chunks of a paper whose order index is in the given set.
func (r *ChunkRepo) GetByPaperAndOrders(ctx context.Context, paperID string, orders []int) ([]*ChunkRecord, error) {
	if len(orders) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orders)), ",")
	args := make([]any, 0, len(orders)+1)
	args = append(args, paperID)
	for _, o := range orders {
		args = append(args, o)
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, paper_id, chunk_order, section, page, text
		 FROM chunks WHERE paper_id = ? AND chunk_order IN (%s)`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks by orders: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanChunks(rows)
}

// CountByPaper returns the number of chunks stored for a paper.
func (r *ChunkRepo) CountByPaper(ctx context.Context, paperID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE paper_id = ?", paperID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// DeleteByPaper deletes all chunks for a paper and returns the count removed.
func (r *ChunkRepo) DeleteByPaper(ctx context.Context, paperID string) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM chunks WHERE paper_id = ?", paperID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete chunks: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check delete result: %w", err)
	}
	return int(affected), nil
}

func scanChunks(rows *sql.Rows) ([]*ChunkRecord, error) {
	var chunks []*ChunkRecord
	for rows.Next() {
		var chunk ChunkRecord
		var section sql.NullString
		if err := rows.Scan(&chunk.ID, &chunk.PaperID, &chunk.Order, &section, &chunk.Page, &chunk.Text); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunk.Section = section.String
		chunks = append(chunks, &chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return chunks, nil
}
