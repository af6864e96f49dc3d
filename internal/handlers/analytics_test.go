package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"sage-ai/internal/analytics"
	"sage-ai/internal/cache"
	cache_mocks "sage-ai/internal/cache/mocks"
	embedder_mocks "sage-ai/internal/embedder/mocks"
	llm_mocks "sage-ai/internal/llm/mocks"
	"sage-ai/internal/rag"
	"sage-ai/internal/storage"
	storage_mocks "sage-ai/internal/storage/mocks"
	vectorstore_mocks "sage-ai/internal/vectorstore/mocks"
)

type analyticsFixture struct {
	queries *storage_mocks.MockQueryStore
	cache   *cache_mocks.MockStore
	handler *AnalyticsHandler
}

func newAnalyticsFixture(ctrl *gomock.Controller) *analyticsFixture {
	f := &analyticsFixture{
		queries: storage_mocks.NewMockQueryStore(ctrl),
		cache:   cache_mocks.NewMockStore(ctrl),
	}
	service := analytics.NewService(
		f.queries,
		rag.NewRetriever(embedder_mocks.NewMockGateway(ctrl), vectorstore_mocks.NewMockVectorStore(ctrl), "papers_chunks"),
		rag.NewAssembler(storage_mocks.NewMockChunkStore(ctrl)),
		llm_mocks.NewMockGenerator(ctrl),
		f.cache,
	)
	f.handler = NewAnalyticsHandler(service)
	return f
}

func TestAnalyticsHandler_TopQuestions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAnalyticsFixture(ctrl)

	f.queries.EXPECT().TopQuestions(gomock.Any(), 5).Return([]storage.QuestionCount{
		{Question: "what is attention?", Count: 9},
	}, nil)
	f.queries.EXPECT().TopPapers(gomock.Any(), 5).Return([]storage.PaperCount{
		{PaperID: "p1", Title: "Attention Is All You Need", Count: 12},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/top-questions?limit=5", nil)
	rec := httptest.NewRecorder()

	f.handler.TopQuestions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var data analytics.Popular
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if len(data.TopQuestions) != 1 || data.TopQuestions[0].Count != 9 {
		t.Errorf("top_questions = %+v", data.TopQuestions)
	}
	if len(data.TopPapers) != 1 || data.TopPapers[0].Title != "Attention Is All You Need" {
		t.Errorf("top_papers = %+v", data.TopPapers)
	}
}

func TestAnalyticsHandler_PopularFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAnalyticsFixture(ctrl)

	cached := analytics.TopicInsight{
		Topic:             "transformer attention",
		Insight:           "Most questions focus on how attention works.",
		QuestionsAnalyzed: 10,
		Confidence:        0.8,
	}
	payload, _ := json.Marshal(cached)
	f.cache.EXPECT().Get(gomock.Any(), cache.PopularTopicKey).Return(string(payload), true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/popular", nil)
	rec := httptest.NewRecorder()

	f.handler.Popular(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	var data analytics.TopicInsight
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if data.Topic != cached.Topic || data.QuestionsAnalyzed != 10 {
		t.Errorf("data = %+v", data)
	}
}

func TestAnalyticsHandler_PopularNoData(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newAnalyticsFixture(ctrl)

	f.cache.EXPECT().Get(gomock.Any(), cache.PopularTopicKey).Return("", false, nil)
	f.queries.EXPECT().TopQuestions(gomock.Any(), gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/popular", nil)
	rec := httptest.NewRecorder()

	f.handler.Popular(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != CodeNoData {
		t.Errorf("error = %+v, want code %s", env.Error, CodeNoData)
	}
	if env.Error != nil && env.Error.Message != "No questions available for analysis" {
		t.Errorf("message = %q", env.Error.Message)
	}
}
