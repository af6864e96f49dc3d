package storage

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Paper status values. A paper is created as "extracted" at upload time and
// transitions to "indexed" only after its vectors have been upserted.
const (
	PaperStatusExtracted = "extracted"
	PaperStatusIndexed   = "indexed"
)

// Ingest job status values.
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Section describes a named section of a paper with its page range.
type Section struct {
	Name      string `json:"name"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

// PaperRecord represents one uploaded source document.
type PaperRecord struct {
	ID         string
	Filename   string
	Title      string
	Sections   []Section
	ChunkCount int
	Status     string
	CreatedAt  time.Time
	IndexedAt  *time.Time
}

// ChunkRecord is one unit of extracted text belonging to exactly one paper.
// Order is the stable position within the paper and is the join key to
// vector payloads.
type ChunkRecord struct {
	ID      string
	PaperID string
	Order   int
	Section string
	Page    int
	Text    string
}

// TopSource is one of the top contributing sources recorded with a query.
type TopSource struct {
	PaperID string  `json:"paper_id"`
	Section string  `json:"section,omitempty"`
	Page    int     `json:"page,omitempty"`
	Score   float64 `json:"score"`
}

// QueryRecord is one historical question/answer transaction.
// Citations is stored as the serialized response citations so the storage
// layer stays independent of the rag package types.
type QueryRecord struct {
	ID                 string
	Question           string
	NormalizedQuestion string
	PaperIDs           []string
	Answer             string
	RetrievalTimeMs    int64
	GenTimeMs          int64
	TotalTimeMs        int64
	TopSources         []TopSource
	Citations          json.RawMessage
	SourcesUsed        []string
	Confidence         float64
	Rating             *int
	CreatedAt          time.Time
}

// JobRecord is a queued unit of ingestion work referencing a paper.
type JobRecord struct {
	ID          string
	PaperID     string
	Status      string
	Attempts    int
	MaxAttempts int
	NextRunAt   time.Time
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
