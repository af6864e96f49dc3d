// Package ingest turns uploaded papers into vector points: a durable job
// queue feeds a polling worker that batch-embeds chunk text, upserts the
// vectors and flips the paper's status to indexed.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sage-ai/internal/contextutil"
	"sage-ai/internal/embedder"
	"sage-ai/internal/storage"
	"sage-ai/internal/vectorstore"
)

// embedBatchSize bounds how many chunk texts go to the embedder per call.
const embedBatchSize = 64

// pointNamespace is the UUIDv5 namespace for vector point IDs.
var pointNamespace = uuid.MustParse("5e9a3f86-1f0c-4c8a-9c16-7b8f5942d3aa")

// PointID derives the vector point identifier for a chunk. IDs are a pure
// function of (paper, order), so a retried job re-upserts the same points
// instead of minting duplicates.
func PointID(paperID string, order int) string {
	return uuid.NewSHA1(pointNamespace, fmt.Appendf(nil, "%s:%d", paperID, order)).String()
}

// Pipeline indexes one paper's chunks into the vector collection.
type Pipeline struct {
	papers     storage.PaperStore
	chunks     storage.ChunkStore
	embedder   embedder.Gateway
	vectors    vectorstore.VectorStore
	collection string
	model      string
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	papers storage.PaperStore,
	chunks storage.ChunkStore,
	gateway embedder.Gateway,
	vectors vectorstore.VectorStore,
	collection string,
	model string,
) *Pipeline {
	return &Pipeline{
		papers:     papers,
		chunks:     chunks,
		embedder:   gateway,
		vectors:    vectors,
		collection: collection,
		model:      model,
	}
}

// IndexPaper embeds all chunks of a paper and upserts them as vector points,
// then marks the paper indexed. Any failure leaves the paper in its current
// status; the caller retries the whole attempt.
func (p *Pipeline) IndexPaper(ctx context.Context, paperID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	paper, err := p.papers.GetByID(ctx, paperID)
	if err != nil {
		return fmt.Errorf("load paper %s: %w", paperID, err)
	}

	chunks, err := p.chunks.ListByPaper(ctx, paperID)
	if err != nil {
		return fmt.Errorf("load chunks for paper %s: %w", paperID, err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("paper %s has no chunks to index", paperID)
	}

	vectors, dim, err := p.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	if err := p.vectors.EnsureCollection(ctx, p.collection, dim); err != nil {
		return fmt.Errorf("ensure collection %s: %w", p.collection, err)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:  PointID(paperID, chunk.Order),
			Vec: vectors[i],
			Payload: map[string]any{
				"paper_id":    paperID,
				"paper_title": paper.Title,
				"section":     chunk.Section,
				"page":        chunk.Page,
				"chunk_index": chunk.Order,
				"model":       p.model,
				"vector_dim":  dim,
				"created_at":  createdAt,
			},
		}
	}

	if err := p.vectors.Upsert(ctx, p.collection, points); err != nil {
		return fmt.Errorf("upsert vectors: %w", err)
	}

	if err := p.papers.MarkIndexed(ctx, paperID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark paper %s indexed: %w", paperID, err)
	}

	logger.InfoContext(ctx, "indexed paper",
		"paper_id", paperID, "chunks", len(chunks), "dim", dim)
	return nil
}

// embedChunks embeds chunk texts in fixed-size batches, preserving chunk
// order, and reports the observed vector dimensionality.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []*storage.ChunkRecord) ([][]float32, int, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	all := make([][]float32, 0, len(texts))
	dim := 0
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		vecs, batchDim, err := p.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, 0, fmt.Errorf("embed chunk batch %d-%d: %w", start, end, err)
		}
		if len(vecs) != end-start {
			return nil, 0, fmt.Errorf("embed chunk batch %d-%d: got %d vectors, want %d", start, end, len(vecs), end-start)
		}
		all = append(all, vecs...)
		dim = batchDim
	}

	return all, dim, nil
}
