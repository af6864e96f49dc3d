// Package analytics aggregates query history and derives a popular-topic
// insight from it.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sage-ai/internal/cache"
	"sage-ai/internal/contextutil"
	"sage-ai/internal/llm"
	"sage-ai/internal/rag"
	"sage-ai/internal/storage"
)

const (
	// DefaultPopularLimit bounds the aggregation rows when the caller does
	// not specify one.
	DefaultPopularLimit = 20
	// MaxPopularLimit caps the aggregation rows.
	MaxPopularLimit = 100

	// topicQuestionCount is how many top questions feed topic summarization.
	topicQuestionCount = 10
	// topicTopK retrieves more chunks than a normal query for a broader
	// insight.
	topicTopK = 7
)

// ErrNoQuestions is returned when no query history exists to analyze.
var ErrNoQuestions = errors.New("no questions recorded yet")

// uncertainInsight is the fallback when retrieval finds nothing about the
// derived topic.
const uncertainInsight = "I am uncertain about this topic because no relevant context was found in the research papers."

// Popular is the top-questions/top-papers aggregation payload.
type Popular struct {
	TopQuestions []storage.QuestionCount `json:"top_questions"`
	TopPapers    []storage.PaperCount    `json:"top_papers"`
}

// TopicInsight is an AI-generated overview of the most-asked-about topic.
type TopicInsight struct {
	Topic             string         `json:"topic"`
	Insight           string         `json:"insight"`
	QuestionsAnalyzed []string       `json:"questions_analyzed"`
	Citations         []rag.Citation `json:"citations"`
	SourcesUsed       []string       `json:"sources_used"`
	Confidence        float64        `json:"confidence"`
}

// Service aggregates query history and generates topic insights by running
// the retrieval pipeline over a summarized topic instead of a user question.
type Service struct {
	queries   storage.QueryStore
	retriever *rag.Retriever
	assembler *rag.Assembler
	generator llm.Generator
	cache     cache.Store
}

// NewService creates a new analytics Service.
func NewService(
	queries storage.QueryStore,
	retriever *rag.Retriever,
	assembler *rag.Assembler,
	generator llm.Generator,
	cacheStore cache.Store,
) *Service {
	return &Service{
		queries:   queries,
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		cache:     cacheStore,
	}
}

// Popular returns the most frequent questions and the papers that contribute
// to answers most often. The limit is clamped to [1, 100], defaulting to 20.
func (s *Service) Popular(ctx context.Context, limit int) (*Popular, error) {
	if limit < 1 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}

	questions, err := s.queries.TopQuestions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregate top questions: %w", err)
	}
	papers, err := s.queries.TopPapers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregate top papers: %w", err)
	}

	if questions == nil {
		questions = []storage.QuestionCount{}
	}
	if papers == nil {
		papers = []storage.PaperCount{}
	}
	return &Popular{TopQuestions: questions, TopPapers: papers}, nil
}

// PopularTopicInsight summarizes the top questions into one topic, retrieves
// context about that topic and generates an overview. The result is cached
// for five minutes since it costs two generation calls to recompute.
func (s *Service) PopularTopicInsight(ctx context.Context) (*TopicInsight, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if cached, ok := s.cachedInsight(ctx); ok {
		return cached, nil
	}

	top, err := s.queries.TopQuestions(ctx, topicQuestionCount)
	if err != nil {
		return nil, fmt.Errorf("aggregate top questions: %w", err)
	}
	if len(top) == 0 {
		return nil, ErrNoQuestions
	}

	questions := make([]string, len(top))
	for i, q := range top {
		questions[i] = q.Question
	}

	topic, err := s.summarizeTopic(ctx, questions)
	if err != nil {
		return nil, fmt.Errorf("summarize topic: %w", err)
	}
	logger.InfoContext(ctx, "identified popular topic",
		"topic", topic, "questions", len(questions))

	insight, err := s.topicInsight(ctx, topic)
	if err != nil {
		return nil, err
	}
	insight.QuestionsAnalyzed = questions

	s.cacheInsight(ctx, insight)
	return insight, nil
}

// summarizeTopic asks the generation service to collapse the questions into
// one concise topic phrase.
func (s *Service) summarizeTopic(ctx context.Context, questions []string) (string, error) {
	var b strings.Builder
	b.WriteString("You are analyzing research questions to identify common topics.\n")
	b.WriteString("Below are the top questions users have been asking:\n\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	b.WriteString("\nAnalyze these questions and identify a single distinct topic or research area that best encompasses them.\n")
	b.WriteString("Respond with ONLY a concise topic phrase (2-8 words) that captures the main theme.\n")
	b.WriteString("Do not include explanations, just the topic phrase.\n")
	b.WriteString("Examples: \"Machine Learning Model Performance\", \"Climate Change Effects\", \"Quantum Computing Applications\"\n\n")
	b.WriteString("Topic:")

	topic, err := s.generator.Generate(ctx, b.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(topic), nil
}

// topicInsight runs the retrieval pipeline for the topic and generates an
// overview grounded in the packed context.
func (s *Service) topicInsight(ctx context.Context, topic string) (*TopicInsight, error) {
	hits, err := s.retriever.Retrieve(ctx, topic, topicTopK, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve topic context: %w", err)
	}
	reranked := rag.RerankBySectionWeight(hits, topicTopK)

	built, err := s.assembler.Assemble(ctx, reranked)
	if err != nil {
		return nil, fmt.Errorf("assemble topic context: %w", err)
	}

	if len(built.Entries) == 0 {
		return &TopicInsight{
			Topic:       topic,
			Insight:     uncertainInsight,
			Citations:   []rag.Citation{},
			SourcesUsed: []string{},
			Confidence:  0.2,
		}, nil
	}

	insight, err := s.generator.Generate(ctx, insightPrompt(topic, built.Entries))
	if err != nil {
		return nil, fmt.Errorf("generate topic insight: %w", err)
	}

	confidence := 0.5
	if reranked[0].Score > 0 {
		confidence = reranked[0].Score
	}
	if confidence < 0.2 {
		confidence = 0.2
	}
	if confidence > 0.99 {
		confidence = 0.99
	}

	return &TopicInsight{
		Topic:       topic,
		Insight:     insight,
		Citations:   built.Citations,
		SourcesUsed: built.SourcesUsed,
		Confidence:  confidence,
	}, nil
}

func insightPrompt(topic string, entries []rag.ContextEntry) string {
	var b strings.Builder
	b.WriteString("<context>\n")
	for i, entry := range entries {
		title := entry.Source.Title
		if title == "" {
			title = "Unknown"
		}
		fmt.Fprintf(&b, "[Source %d: %s, %s, p.%d]\n%s\n\n",
			i+1, title, entry.Source.Section, entry.Source.Page, entry.Text)
	}
	b.WriteString("</context>\n\n")
	b.WriteString("You are a research assistant named SageAI analyzing popular research topics.\n")
	fmt.Fprintf(&b, "The topic %q has been identified as a common area of interest based on user questions.\n\n", topic)
	b.WriteString("Using ONLY the provided context from research papers:\n")
	b.WriteString("1. Provide a comprehensive overview of this topic\n")
	b.WriteString("2. Highlight key findings, methods, or insights from the research\n")
	b.WriteString("3. Explain why this topic is significant or what makes it interesting\n\n")
	b.WriteString("Use markdown formatting for readability.\n")
	b.WriteString("Cite sources explicitly in the form [paper_title, section, page].\n")
	b.WriteString("If the context does not adequately cover the topic, acknowledge the limitations.\n\n")
	fmt.Fprintf(&b, "Write an insightful summary about: %s", topic)
	return b.String()
}

func (s *Service) cachedInsight(ctx context.Context) (*TopicInsight, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	value, found, err := s.cache.Get(ctx, cache.PopularTopicKey)
	if err != nil {
		logger.WarnContext(ctx, "popular topic cache read failed", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var insight TopicInsight
	if err := json.Unmarshal([]byte(value), &insight); err != nil {
		logger.WarnContext(ctx, "popular topic cache entry unreadable", "error", err)
		return nil, false
	}
	return &insight, true
}

func (s *Service) cacheInsight(ctx context.Context, insight *TopicInsight) {
	logger := contextutil.LoggerFromContext(ctx)

	payload, err := json.Marshal(insight)
	if err != nil {
		logger.WarnContext(ctx, "popular topic cache encode failed", "error", err)
		return
	}
	if err := s.cache.SetWithExpiry(ctx, cache.PopularTopicKey, string(payload), cache.PopularTopicTTL); err != nil {
		logger.WarnContext(ctx, "popular topic cache write failed", "error", err)
	}
}
