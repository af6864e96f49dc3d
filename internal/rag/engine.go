package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sage-ai/internal/cache"
	"sage-ai/internal/contextutil"
	"sage-ai/internal/llm"
	"sage-ai/internal/storage"
)

const (
	// DefaultTopK is used when the caller does not bound the result count.
	DefaultTopK = 5
	// MaxTopK caps the result count bound.
	MaxTopK = 10

	minConfidence     = 0.2
	maxConfidence     = 0.99
	defaultConfidence = 0.5

	maxTopSources = 5
)

// UncertainAnswer is the fixed fallback emitted when no usable context was
// retrieved. It is returned with minimum confidence and no citations, and it
// is never cached as a grounded answer.
const UncertainAnswer = "I am uncertain because the retrieved context did not cover this question."

// Request is a validated question with its retrieval parameters.
type Request struct {
	Question string
	TopK     int
	// PaperIDs restricts retrieval to the given papers. Empty means all.
	PaperIDs []string
}

// Engine sequences the pipeline for one question: cache lookup, retrieval,
// re-ranking, context assembly, generation, write-through caching and
// best-effort history persistence.
type Engine struct {
	retriever *Retriever
	assembler *Assembler
	generator llm.Generator
	cache     cache.Store
	queries   storage.QueryStore
}

// NewEngine creates a new Engine.
func NewEngine(
	retriever *Retriever,
	assembler *Assembler,
	generator llm.Generator,
	cacheStore cache.Store,
	queries storage.QueryStore,
) *Engine {
	return &Engine{
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		cache:     cacheStore,
		queries:   queries,
	}
}

// Answer runs the pipeline for one question and returns the answer payload.
//
// A cache hit short-circuits everything and returns the cached payload
// verbatim. On a miss the stages run strictly in sequence; when context
// assembly produces no entries the generation service is never called and a
// fixed uncertain payload comes back instead. Cache and history failures are
// logged and swallowed so they never fail the request.
func (e *Engine) Answer(ctx context.Context, req Request) (*Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	topK := req.TopK
	if topK < 1 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	key := cache.AnswerKey(req.Question, topK, req.PaperIDs)
	if cached, ok := e.cacheGet(ctx, key); ok {
		logger.DebugContext(ctx, "answer cache hit", "key", key)
		return cached, nil
	}

	retrievalStart := time.Now()
	hits, err := e.retriever.Retrieve(ctx, req.Question, topK, req.PaperIDs)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	reranked := RerankBySectionWeight(hits, topK)
	retrievalMs := time.Since(retrievalStart).Milliseconds()

	built, err := e.assembler.Assemble(ctx, reranked)
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	if len(built.Entries) == 0 {
		logger.InfoContext(ctx, "empty context, answering uncertain",
			"question_length", len(req.Question), "hits", len(hits))
		return &Response{
			Answer:      UncertainAnswer,
			Citations:   []Citation{},
			SourcesUsed: []string{},
			Confidence:  minConfidence,
		}, nil
	}

	prompt := AssemblePrompt(req.Question, built.Entries)

	genStart := time.Now()
	answer, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	genMs := time.Since(genStart).Milliseconds()

	resp := &Response{
		Answer:      answer,
		Citations:   built.Citations,
		SourcesUsed: built.SourcesUsed,
		Confidence:  confidenceFromHits(reranked),
	}

	e.cachePut(ctx, key, resp)
	e.recordHistory(ctx, req, reranked, resp, retrievalMs, genMs)

	logger.InfoContext(ctx, "query answered",
		"hits", len(hits),
		"context_entries", len(built.Entries),
		"retrieval_ms", retrievalMs,
		"gen_ms", genMs,
		"confidence", resp.Confidence)
	return resp, nil
}

// confidenceFromHits derives a heuristic confidence from the top re-ranked
// score, clamped to [0.2, 0.99]. Without a usable score it falls back to 0.5.
func confidenceFromHits(reranked []Hit) float64 {
	confidence := defaultConfidence
	if len(reranked) > 0 && reranked[0].Score > 0 {
		confidence = reranked[0].Score
	}
	if confidence < minConfidence {
		confidence = minConfidence
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return confidence
}

// cacheGet treats any cache failure, including a corrupt entry, as a miss.
func (e *Engine) cacheGet(ctx context.Context, key string) (*Response, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	value, found, err := e.cache.Get(ctx, key)
	if err != nil {
		logger.WarnContext(ctx, "answer cache read failed", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var resp Response
	if err := json.Unmarshal([]byte(value), &resp); err != nil {
		logger.WarnContext(ctx, "answer cache entry unreadable", "key", key, "error", err)
		return nil, false
	}
	return &resp, true
}

func (e *Engine) cachePut(ctx context.Context, key string, resp *Response) {
	logger := contextutil.LoggerFromContext(ctx)

	payload, err := json.Marshal(resp)
	if err != nil {
		logger.WarnContext(ctx, "answer cache encode failed", "error", err)
		return
	}
	if err := e.cache.SetWithExpiry(ctx, key, string(payload), cache.AnswerTTL); err != nil {
		logger.WarnContext(ctx, "answer cache write failed", "key", key, "error", err)
	}
}

// recordHistory persists the query record best-effort. Failures are logged
// and never surfaced to the caller.
func (e *Engine) recordHistory(ctx context.Context, req Request, reranked []Hit, resp *Response, retrievalMs, genMs int64) {
	logger := contextutil.LoggerFromContext(ctx)

	topSources := make([]storage.TopSource, 0, maxTopSources)
	for _, hit := range reranked {
		if len(topSources) == maxTopSources {
			break
		}
		topSources = append(topSources, storage.TopSource{
			PaperID: hit.PaperID,
			Section: hit.Section,
			Page:    hit.Page,
			Score:   hit.Score,
		})
	}

	citations, err := json.Marshal(resp.Citations)
	if err != nil {
		logger.WarnContext(ctx, "failed to encode citations for history", "error", err)
		citations = []byte("[]")
	}

	record := &storage.QueryRecord{
		ID:                 uuid.New().String(),
		Question:           req.Question,
		NormalizedQuestion: cache.NormalizeQuestion(req.Question),
		PaperIDs:           req.PaperIDs,
		Answer:             resp.Answer,
		RetrievalTimeMs:    retrievalMs,
		GenTimeMs:          genMs,
		TotalTimeMs:        retrievalMs + genMs,
		TopSources:         topSources,
		Citations:          citations,
		SourcesUsed:        resp.SourcesUsed,
		Confidence:         resp.Confidence,
		CreatedAt:          time.Now().UTC(),
	}

	if err := e.queries.Insert(ctx, record); err != nil {
		logger.WarnContext(ctx, "failed to save query history", "error", err)
	}
}
