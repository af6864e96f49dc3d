package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"sage-ai/internal/cache"
	cache_mocks "sage-ai/internal/cache/mocks"
	embedder_mocks "sage-ai/internal/embedder/mocks"
	llm_mocks "sage-ai/internal/llm/mocks"
	"sage-ai/internal/rag"
	storage_mocks "sage-ai/internal/storage/mocks"
	vectorstore_mocks "sage-ai/internal/vectorstore/mocks"
)

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func newTestEngine(ctrl *gomock.Controller) (*rag.Engine, *cache_mocks.MockStore) {
	cacheStore := cache_mocks.NewMockStore(ctrl)
	engine := rag.NewEngine(
		rag.NewRetriever(embedder_mocks.NewMockGateway(ctrl), vectorstore_mocks.NewMockVectorStore(ctrl), "papers_chunks"),
		rag.NewAssembler(storage_mocks.NewMockChunkStore(ctrl)),
		llm_mocks.NewMockGenerator(ctrl),
		cacheStore,
		storage_mocks.NewMockQueryStore(ctrl),
	)
	return engine, cacheStore
}

func TestQueryHandler_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine, _ := newTestEngine(ctrl)
	handler := NewQueryHandler(engine)

	badTopK := 11
	zeroTopK := 0

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{
			name:     "missing question",
			body:     QueryRequest{},
			wantCode: CodeValidationError,
		},
		{
			name:     "whitespace question",
			body:     QueryRequest{Question: "   "},
			wantCode: CodeValidationError,
		},
		{
			name:     "question too long",
			body:     QueryRequest{Question: strings.Repeat("a", 1001)},
			wantCode: CodeValidationError,
		},
		{
			name:     "top_k too large",
			body:     QueryRequest{Question: "what is x?", TopK: &badTopK},
			wantCode: CodeValidationError,
		},
		{
			name:     "top_k zero",
			body:     QueryRequest{Question: "what is x?", TopK: &zeroTopK},
			wantCode: CodeValidationError,
		},
		{
			name:     "invalid paper id",
			body:     QueryRequest{Question: "what is x?", PaperIDs: []string{"not-a-uuid"}},
			wantCode: CodeValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			env := decodeEnvelope(t, rec)
			if env.Success {
				t.Errorf("success = true, want false")
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestQueryHandler_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine, _ := newTestEngine(ctrl)
	handler := NewQueryHandler(engine)

	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != CodeBadRequest {
		t.Errorf("error = %+v, want code %s", env.Error, CodeBadRequest)
	}
}

func TestQueryHandler_AnswersFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	engine, cacheStore := newTestEngine(ctrl)
	handler := NewQueryHandler(engine)

	cached := rag.Response{
		Answer:      "Paris is the capital of France.",
		Citations:   []rag.Citation{},
		SourcesUsed: []string{"Geography Paper"},
		Confidence:  0.9,
	}
	payload, _ := json.Marshal(cached)

	key := cache.AnswerKey("what is the capital of france?", 5, nil)
	cacheStore.EXPECT().Get(gomock.Any(), key).Return(string(payload), true, nil)

	body, _ := json.Marshal(QueryRequest{Question: "  What is the capital of FRANCE?  "})
	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("success = false, want true")
	}

	var got rag.Response
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
	if got.Answer != cached.Answer || got.Confidence != cached.Confidence {
		t.Errorf("data = %+v, want cached response", got)
	}
}
