package rag

import (
	"context"
	"fmt"

	"sage-ai/internal/embedder"
	"sage-ai/internal/vectorstore"
)

// ScoreThreshold is the similarity floor applied at the index layer. Matches
// below it are discarded before re-ranking rather than overfetched and cut
// client-side.
const ScoreThreshold = 0.5

// Retriever finds the chunks most similar to a question.
type Retriever struct {
	embedder   embedder.Gateway
	vectors    vectorstore.VectorStore
	collection string
}

// NewRetriever creates a new Retriever searching the given collection.
func NewRetriever(gateway embedder.Gateway, vectors vectorstore.VectorStore, collection string) *Retriever {
	return &Retriever{
		embedder:   gateway,
		vectors:    vectors,
		collection: collection,
	}
}

// Retrieve embeds the question and returns up to topK nearest chunks,
// restricted to the given papers when paperIDs is non-empty. Fewer than topK
// hits may come back when the similarity floor excludes candidates.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int, paperIDs []string) ([]Hit, error) {
	if topK < 1 {
		topK = 1
	}

	vecs, _, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embed question: no vector returned")
	}

	results, err := r.vectors.Search(ctx, r.collection, vecs[0], topK, vectorstore.SearchParams{
		PaperIDs:       paperIDs,
		ScoreThreshold: ScoreThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, Hit{
			PointID: res.PointID,
			Score:   float64(res.Score),
			PaperID: payloadString(res.Payload, "paper_id"),
			Title:   payloadString(res.Payload, "paper_title"),
			Section: payloadString(res.Payload, "section"),
			Page:    payloadInt(res.Payload, "page", 0),
			Order:   payloadInt(res.Payload, "chunk_index", -1),
		})
	}
	return hits, nil
}

func payloadString(payload map[string]any, key string) string {
	if s, ok := payload[key].(string); ok {
		return s
	}
	return ""
}

func payloadInt(payload map[string]any, key string, fallback int) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
