package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func insertTestQuery(t *testing.T, repo *QueryRepo, question, normalized string, sources []TopSource) *QueryRecord {
	t.Helper()

	rec := &QueryRecord{
		ID:                 uuid.New().String(),
		Question:           question,
		NormalizedQuestion: normalized,
		Answer:             "an answer",
		RetrievalTimeMs:    12,
		GenTimeMs:          340,
		TotalTimeMs:        352,
		TopSources:         sources,
		Citations:          json.RawMessage(`[{"paper_title":"T","relevance_score":0.9}]`),
		SourcesUsed:        []string{"T"},
		Confidence:         0.9,
		CreatedAt:          time.Now().UTC(),
	}
	if err := repo.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	return rec
}

func TestQueryRepo_InsertAndList(t *testing.T) {
	db := testDB(t)
	repo := NewQueryRepo(db)

	insertTestQuery(t, repo, "What is attention?", "what is attention?", []TopSource{
		{PaperID: "p1", Section: "Methods", Page: 3, Score: 0.91},
	})

	records, err := repo.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("List() returned %d records, want 1", len(records))
	}

	rec := records[0]
	if rec.Question != "What is attention?" {
		t.Errorf("Question = %q", rec.Question)
	}
	if rec.TotalTimeMs != 352 {
		t.Errorf("TotalTimeMs = %d, want 352", rec.TotalTimeMs)
	}
	if len(rec.TopSources) != 1 || rec.TopSources[0].PaperID != "p1" {
		t.Errorf("TopSources = %+v", rec.TopSources)
	}
	if rec.Rating != nil {
		t.Errorf("Rating = %v, want nil", rec.Rating)
	}
}

func TestQueryRepo_UpdateRating(t *testing.T) {
	db := testDB(t)
	repo := NewQueryRepo(db)

	rec := insertTestQuery(t, repo, "q", "q", nil)

	if err := repo.UpdateRating(context.Background(), rec.ID, 4); err != nil {
		t.Fatalf("UpdateRating() error = %v", err)
	}

	records, err := repo.List(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if records[0].Rating == nil || *records[0].Rating != 4 {
		t.Errorf("Rating = %v, want 4", records[0].Rating)
	}

	if err := repo.UpdateRating(context.Background(), "missing", 5); err != ErrNotFound {
		t.Errorf("UpdateRating(missing) error = %v, want ErrNotFound", err)
	}
}

func TestQueryRepo_TopQuestions(t *testing.T) {
	db := testDB(t)
	repo := NewQueryRepo(db)

	insertTestQuery(t, repo, "What is X?", "what is x?", nil)
	insertTestQuery(t, repo, "what is X? ", "what is x?", nil)
	insertTestQuery(t, repo, "Other question", "other question", nil)

	top, err := repo.TopQuestions(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopQuestions() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("TopQuestions() returned %d rows, want 2", len(top))
	}
	if top[0].Count != 2 {
		t.Errorf("top question count = %d, want 2", top[0].Count)
	}
}

func TestQueryRepo_TopPapers(t *testing.T) {
	db := testDB(t)
	paperRepo := NewPaperRepo(db)
	paper := insertTestPaper(t, paperRepo, "Famous Paper")
	repo := NewQueryRepo(db)

	insertTestQuery(t, repo, "a", "a", []TopSource{{PaperID: paper.ID, Score: 0.9}})
	insertTestQuery(t, repo, "b", "b", []TopSource{
		{PaperID: paper.ID, Score: 0.8},
		{PaperID: "gone", Score: 0.7},
	})

	top, err := repo.TopPapers(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopPapers() error = %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("TopPapers() returned %d rows, want 2", len(top))
	}
	if top[0].PaperID != paper.ID || top[0].Count != 2 {
		t.Errorf("top paper = %+v, want %s with count 2", top[0], paper.ID)
	}
	if top[0].Title != "Famous Paper" {
		t.Errorf("top paper title = %q, want Famous Paper", top[0].Title)
	}
	if top[1].Title != "" {
		t.Errorf("deleted paper title = %q, want empty", top[1].Title)
	}
}
