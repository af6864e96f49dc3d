package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"sage-ai/internal/contextutil"
	"sage-ai/internal/rag"
)

const maxQuestionLength = 1000

// QueryHandler handles retrieval-augmented question answering requests.
type QueryHandler struct {
	engine *rag.Engine
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine *rag.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// QueryRequest is the HTTP request payload for a question.
type QueryRequest struct {
	Question string   `json:"question"`
	TopK     *int     `json:"top_k,omitempty"`
	PaperIDs []string `json:"paper_ids,omitempty"`
}

// ServeHTTP answers a question against the indexed papers.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid request body")
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, r, http.StatusBadRequest, CodeValidationError, "Question is required")
		return
	}
	if len(question) > maxQuestionLength {
		writeError(w, r, http.StatusBadRequest, CodeValidationError,
			fmt.Sprintf("Question must be at most %d characters", maxQuestionLength))
		return
	}

	topK := rag.DefaultTopK
	if req.TopK != nil {
		if *req.TopK < 1 || *req.TopK > rag.MaxTopK {
			writeError(w, r, http.StatusBadRequest, CodeValidationError,
				fmt.Sprintf("top_k must be between 1 and %d", rag.MaxTopK))
			return
		}
		topK = *req.TopK
	}

	for _, id := range req.PaperIDs {
		if _, err := uuid.Parse(id); err != nil {
			writeError(w, r, http.StatusBadRequest, CodeValidationError,
				fmt.Sprintf("Invalid paper id: %s", id))
			return
		}
	}

	resp, err := h.engine.Answer(ctx, rag.Request{
		Question: question,
		TopK:     topK,
		PaperIDs: req.PaperIDs,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to answer question")
		return
	}

	writeSuccess(w, r, http.StatusOK, resp)
}
