package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"sage-ai/internal/storage"
	storage_mocks "sage-ai/internal/storage/mocks"
)

func chunkWithText(paperID string, order, size int) *storage.ChunkRecord {
	return &storage.ChunkRecord{
		PaperID: paperID,
		Order:   order,
		Text:    strings.Repeat("x", size),
	}
}

func TestAssemble_CharacterBudget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	mockChunks.EXPECT().
		GetByPaperAndOrders(gomock.Any(), "p1", []int{0, 1, 2}).
		Return([]*storage.ChunkRecord{
			chunkWithText("p1", 0, 3000),
			chunkWithText("p1", 1, 3000),
			chunkWithText("p1", 2, 3000),
		}, nil)

	assembler := NewAssembler(mockChunks)

	hits := []Hit{
		{PaperID: "p1", Title: "Paper One", Order: 0, Score: 0.9},
		{PaperID: "p1", Title: "Paper One", Order: 1, Score: 0.8},
		{PaperID: "p1", Title: "Paper One", Order: 2, Score: 0.7},
	}

	got, err := assembler.Assemble(context.Background(), hits)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	// 3000 + 3000 fits the 8000 budget; adding the third would exceed it and
	// entries are skipped whole, never truncated.
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(got.Entries))
	}
	for i, entry := range got.Entries {
		if len(entry.Text) != 3000 {
			t.Errorf("entry %d length = %d, want 3000 (no truncation)", i, len(entry.Text))
		}
	}
	if len(got.Citations) != 2 {
		t.Errorf("citations = %d, want 2 (skipped entry must not be cited)", len(got.Citations))
	}
}

func TestAssemble_CitationDedup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	mockChunks.EXPECT().
		GetByPaperAndOrders(gomock.Any(), "p1", []int{0, 1}).
		Return([]*storage.ChunkRecord{
			chunkWithText("p1", 0, 10),
			chunkWithText("p1", 1, 10),
		}, nil)

	assembler := NewAssembler(mockChunks)

	hits := []Hit{
		{PaperID: "p1", Title: "Paper One", Section: "methods", Page: 3, Order: 0, Score: 0.6},
		{PaperID: "p1", Title: "Paper One", Section: "methods", Page: 3, Order: 1, Score: 0.9},
	}

	got, err := assembler.Assemble(context.Background(), hits)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(got.Citations) != 1 {
		t.Fatalf("citations = %d, want 1 after dedup", len(got.Citations))
	}
	if got.Citations[0].RelevanceScore != 0.9 {
		t.Errorf("kept score = %v, want 0.9 (higher of the duplicates)", got.Citations[0].RelevanceScore)
	}
}

func TestAssemble_CitationsSortedAndCapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	mockChunks.EXPECT().
		GetByPaperAndOrders(gomock.Any(), "p1", gomock.Any()).
		Return([]*storage.ChunkRecord{
			chunkWithText("p1", 0, 10),
			chunkWithText("p1", 1, 10),
			chunkWithText("p1", 2, 10),
			chunkWithText("p1", 3, 10),
			chunkWithText("p1", 4, 10),
			chunkWithText("p1", 5, 10),
		}, nil)

	assembler := NewAssembler(mockChunks)

	hits := make([]Hit, 6)
	scores := []float64{0.3, 0.9, 0.5, 0.7, 0.1, 0.8}
	for i := range hits {
		hits[i] = Hit{
			PaperID: "p1",
			Title:   "Paper One",
			Section: "methods",
			Page:    i + 1, // distinct pages keep every citation unique
			Order:   i,
			Score:   scores[i],
		}
	}

	got, err := assembler.Assemble(context.Background(), hits)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(got.Citations) != 5 {
		t.Fatalf("citations = %d, want cap of 5", len(got.Citations))
	}
	for i := 1; i < len(got.Citations); i++ {
		if got.Citations[i].RelevanceScore > got.Citations[i-1].RelevanceScore {
			t.Errorf("citations not sorted descending at position %d", i)
		}
	}
	if got.Citations[0].RelevanceScore != 0.9 {
		t.Errorf("top citation score = %v, want 0.9", got.Citations[0].RelevanceScore)
	}
}

func TestAssemble_SourcesUsedFirstSeenOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	mockChunks.EXPECT().
		GetByPaperAndOrders(gomock.Any(), "p1", []int{0, 1}).
		Return([]*storage.ChunkRecord{
			chunkWithText("p1", 0, 10),
			chunkWithText("p1", 1, 10),
		}, nil)
	mockChunks.EXPECT().
		GetByPaperAndOrders(gomock.Any(), "p2", []int{0}).
		Return([]*storage.ChunkRecord{chunkWithText("p2", 0, 10)}, nil)

	assembler := NewAssembler(mockChunks)

	hits := []Hit{
		{PaperID: "p1", Title: "Alpha", Order: 0, Score: 0.9},
		{PaperID: "p2", Title: "Beta", Order: 0, Score: 0.8},
		{PaperID: "p1", Title: "Alpha", Order: 1, Score: 0.7},
	}

	got, err := assembler.Assemble(context.Background(), hits)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := []string{"Alpha", "Beta"}
	if len(got.SourcesUsed) != len(want) {
		t.Fatalf("sources_used = %v, want %v", got.SourcesUsed, want)
	}
	for i := range want {
		if got.SourcesUsed[i] != want[i] {
			t.Errorf("sources_used[%d] = %s, want %s", i, got.SourcesUsed[i], want[i])
		}
	}
}

func TestAssemble_UnresolvedChunkContributesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	mockChunks.EXPECT().
		GetByPaperAndOrders(gomock.Any(), "p1", []int{7}).
		Return(nil, nil)

	assembler := NewAssembler(mockChunks)

	hits := []Hit{{PaperID: "p1", Title: "Paper One", Order: 7, Score: 0.9}}

	got, err := assembler.Assemble(context.Background(), hits)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if len(got.Entries) != 0 {
		t.Errorf("entries = %d, want 0 when no chunk text resolves", len(got.Entries))
	}
	if len(got.Citations) != 0 || len(got.SourcesUsed) != 0 {
		t.Errorf("unresolved hit produced citations %v sources %v", got.Citations, got.SourcesUsed)
	}
}

func TestAssemble_EmptyHits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	assembler := NewAssembler(mockChunks)

	got, err := assembler.Assemble(context.Background(), nil)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(got.Entries) != 0 {
		t.Errorf("entries = %d, want 0 for no hits", len(got.Entries))
	}
}

func TestAssemble_ChunkStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChunks := storage_mocks.NewMockChunkStore(ctrl)
	mockChunks.EXPECT().
		GetByPaperAndOrders(gomock.Any(), "p1", gomock.Any()).
		Return(nil, errors.New("db down"))

	assembler := NewAssembler(mockChunks)

	_, err := assembler.Assemble(context.Background(), []Hit{
		{PaperID: "p1", Order: 0, Score: 0.9},
	})
	if err == nil {
		t.Fatal("Assemble() expected error when chunk store fails")
	}
}
