package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_query_store.go -package=mocks sage-ai/internal/storage QueryStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// QuestionCount is one row of the top-questions aggregation.
type QuestionCount struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

// PaperCount is one row of the top-papers aggregation.
type PaperCount struct {
	PaperID string `json:"paper_id"`
	Title   string `json:"paper_title,omitempty"`
	Count   int    `json:"count"`
}

// QueryStore defines the interface for query history operations.
type QueryStore interface {
	// Insert persists a query record. The record ID must be set before calling.
	Insert(ctx context.Context, record *QueryRecord) error
	// List returns query records ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*QueryRecord, error)
	// UpdateRating sets the user rating for a query. Returns ErrNotFound if absent.
	UpdateRating(ctx context.Context, id string, rating int) error
	// TopQuestions aggregates the most frequently asked questions, grouped by
	// their normalized form.
	TopQuestions(ctx context.Context, limit int) ([]QuestionCount, error)
	// TopPapers aggregates the papers contributing most often to answers.
	TopPapers(ctx context.Context, limit int) ([]PaperCount, error)
}

// QueryRepo provides methods for query history operations.
// It implements the QueryStore interface.
type QueryRepo struct {
	db *sql.DB
}

// NewQueryRepo creates a new QueryRepo.
func NewQueryRepo(db *sql.DB) *QueryRepo {
	return &QueryRepo{db: db}
}

// Insert persists a query record.
func (r *QueryRepo) Insert(ctx context.Context, record *QueryRecord) error {
	paperIDs, err := json.Marshal(record.PaperIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal paper ids: %w", err)
	}
	topSources, err := json.Marshal(record.TopSources)
	if err != nil {
		return fmt.Errorf("failed to marshal top sources: %w", err)
	}
	sourcesUsed, err := json.Marshal(record.SourcesUsed)
	if err != nil {
		return fmt.Errorf("failed to marshal sources used: %w", err)
	}
	citations := record.Citations
	if len(citations) == 0 {
		citations = json.RawMessage("[]")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO queries (id, question, normalized_question, paper_ids, answer,
			retrieval_time_ms, gen_time_ms, total_time_ms, top_sources, citations,
			sources_used, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Question, record.NormalizedQuestion, string(paperIDs), record.Answer,
		record.RetrievalTimeMs, record.GenTimeMs, record.TotalTimeMs, string(topSources),
		string(citations), string(sourcesUsed), record.Confidence, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert query record: %w", err)
	}
	return nil
}

// List returns query records ordered by creation time, newest first.
func (r *QueryRepo) List(ctx context.Context, limit, offset int) ([]*QueryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question, normalized_question, paper_ids, answer,
			retrieval_time_ms, gen_time_ms, total_time_ms, top_sources, citations,
			sources_used, confidence, rating, created_at
		 FROM queries ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []*QueryRecord
	for rows.Next() {
		var rec QueryRecord
		var paperIDs, topSources, citations, sourcesUsed string
		var rating sql.NullInt64

		err := rows.Scan(&rec.ID, &rec.Question, &rec.NormalizedQuestion, &paperIDs, &rec.Answer,
			&rec.RetrievalTimeMs, &rec.GenTimeMs, &rec.TotalTimeMs, &topSources, &citations,
			&sourcesUsed, &rec.Confidence, &rating, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query record: %w", err)
		}

		if err := json.Unmarshal([]byte(paperIDs), &rec.PaperIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal paper ids: %w", err)
		}
		if err := json.Unmarshal([]byte(topSources), &rec.TopSources); err != nil {
			return nil, fmt.Errorf("failed to unmarshal top sources: %w", err)
		}
		if err := json.Unmarshal([]byte(sourcesUsed), &rec.SourcesUsed); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sources used: %w", err)
		}
		rec.Citations = json.RawMessage(citations)
		if rating.Valid {
			v := int(rating.Int64)
			rec.Rating = &v
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

// UpdateRating sets the user rating for a query. Returns ErrNotFound if absent.
func (r *QueryRepo) UpdateRating(ctx context.Context, id string, rating int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE queries SET rating = ? WHERE id = ?", rating, id)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
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

// TopQuestions aggregates the most frequently asked questions.
func (r *QueryRepo) TopQuestions(ctx context.Context, limit int) ([]QuestionCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT MIN(question), COUNT(*) AS cnt
		 FROM queries GROUP BY normalized_question ORDER BY cnt DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate questions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []QuestionCount
	for rows.Next() {
		var qc QuestionCount
		if err := rows.Scan(&qc.Question, &qc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan question count: %w", err)
		}
		out = append(out, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

// TopPapers aggregates the papers contributing most often to answers, joining
// the papers table for titles. Papers deleted since the query was recorded
// still count, with an empty title.
func (r *QueryRepo) TopPapers(ctx context.Context, limit int) ([]PaperCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT json_extract(ts.value, '$.paper_id') AS paper_id,
		        COALESCE(p.title, '') AS title,
		        COUNT(*) AS cnt
		 FROM queries q, json_each(q.top_sources) AS ts
		 LEFT JOIN papers p ON p.id = json_extract(ts.value, '$.paper_id')
		 GROUP BY paper_id ORDER BY cnt DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate papers: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []PaperCount
	for rows.Next() {
		var pc PaperCount
		if err := rows.Scan(&pc.PaperID, &pc.Title, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan paper count: %w", err)
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}
