// Package rag implements the question-answering pipeline: retrieval,
// section-weighted re-ranking, context assembly and answer generation.
package rag

// Hit is one retrieval candidate: a scored vector match joined with the
// payload metadata the later stages need.
type Hit struct {
	PointID string
	Score   float64
	PaperID string
	Title   string
	Section string
	Page    int
	// Order is the chunk's position within its paper, the join key back to
	// the chunk store. Negative when the payload did not carry one.
	Order int
}

// Citation attributes part of an answer to a source location.
type Citation struct {
	PaperTitle     string  `json:"paper_title,omitempty"`
	Section        string  `json:"section,omitempty"`
	Page           int     `json:"page,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ContextEntry is one resolved chunk of text together with its source.
type ContextEntry struct {
	Text   string
	Source Hit
}

// AssembledContext is the output of context assembly: the packed entries,
// deduplicated citations and the distinct source titles in first-seen order.
type AssembledContext struct {
	Entries     []ContextEntry
	Citations   []Citation
	SourcesUsed []string
}

// Response is the answer payload returned to the caller and cached verbatim.
type Response struct {
	Answer      string     `json:"answer"`
	Citations   []Citation `json:"citations"`
	SourcesUsed []string   `json:"sources_used"`
	Confidence  float64    `json:"confidence"`
}
