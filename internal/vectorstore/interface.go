package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks sage-ai/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with payload metadata.
type Point struct {
	ID      string
	Vec     []float32
	Payload map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Payload map[string]any
}

// SearchParams narrows a similarity search.
type SearchParams struct {
	// PaperIDs restricts results to the given papers (match-any). Empty
	// means unrestricted.
	PaperIDs []string
	// ScoreThreshold discards matches below this similarity. Zero disables
	// the floor.
	ScoreThreshold float32
}

// VectorStore defines the interface for vector index operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search bounded by limit and params.
	Search(ctx context.Context, collection string, query []float32, limit int, params SearchParams) ([]SearchResult, error)

	// EnsureCollection creates the collection with the given vector size and
	// Cosine distance if it does not exist.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// DeleteByPaper removes all points belonging to a paper. The returned
	// count is -1 when the backend cannot report how many were removed.
	DeleteByPaper(ctx context.Context, collection, paperID string) (int, error)

	// CountByPaper returns the number of points stored for a paper.
	CountByPaper(ctx context.Context, collection, paperID string) (int, error)
}
