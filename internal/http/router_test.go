package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"sage-ai/internal/analytics"
	cache_mocks "sage-ai/internal/cache/mocks"
	embedder_mocks "sage-ai/internal/embedder/mocks"
	"sage-ai/internal/handlers"
	llm_mocks "sage-ai/internal/llm/mocks"
	"sage-ai/internal/rag"
	storage_mocks "sage-ai/internal/storage/mocks"
	vectorstore_mocks "sage-ai/internal/vectorstore/mocks"
)

func testDeps(ctrl *gomock.Controller) *Deps {
	gateway := embedder_mocks.NewMockGateway(ctrl)
	vectors := vectorstore_mocks.NewMockVectorStore(ctrl)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	queries := storage_mocks.NewMockQueryStore(ctrl)
	generator := llm_mocks.NewMockGenerator(ctrl)
	cacheStore := cache_mocks.NewMockStore(ctrl)

	retriever := rag.NewRetriever(gateway, vectors, "papers_chunks")
	assembler := rag.NewAssembler(chunks)

	return &Deps{
		Engine:         rag.NewEngine(retriever, assembler, generator, cacheStore, queries),
		Analytics:      analytics.NewService(queries, retriever, assembler, generator, cacheStore),
		Papers:         storage_mocks.NewMockPaperStore(ctrl),
		Chunks:         chunks,
		Jobs:           storage_mocks.NewMockJobStore(ctrl),
		Queries:        queries,
		Vectors:        vectors,
		Extractor:      embedder_mocks.NewMockExtractor(ctrl),
		Collection:     "papers_chunks",
		MaxUploadBytes: 25 << 20,
		HealthChecks:   map[string]handlers.CheckFunc{},
	}
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(testDeps(ctrl))
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(testDeps(ctrl))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "GET /healthz",
			method:     http.MethodGet,
			path:       "/healthz",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /readyz with no checks",
			method:     http.MethodGet,
			path:       "/readyz",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/query exists",
			method:     http.MethodPost,
			path:       "/api/query",
			wantStatus: http.StatusBadRequest, // empty body, but the route exists
		},
		{
			name:       "POST /api/papers/upload exists",
			method:     http.MethodPost,
			path:       "/api/papers/upload",
			wantStatus: http.StatusBadRequest, // no multipart body, but the route exists
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/nope",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "OPTIONS preflight",
			method:     http.MethodOptions,
			path:       "/api/query",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}
