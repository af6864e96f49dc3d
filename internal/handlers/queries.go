package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sage-ai/internal/contextutil"
	"sage-ai/internal/storage"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// QueriesHandler serves query history and answer ratings.
type QueriesHandler struct {
	queries storage.QueryStore
}

// NewQueriesHandler creates a new QueriesHandler.
func NewQueriesHandler(queries storage.QueryStore) *QueriesHandler {
	return &QueriesHandler{queries: queries}
}

type historyItem struct {
	ID              string    `json:"id"`
	Question        string    `json:"question"`
	PaperIDs        []string  `json:"paper_ids"`
	Answer          string    `json:"answer"`
	RetrievalTimeMs int64     `json:"retrieval_time_ms"`
	GenTimeMs       int64     `json:"gen_time_ms"`
	TotalTimeMs     int64     `json:"total_time_ms"`
	Confidence      float64   `json:"confidence"`
	Rating          *int      `json:"rating,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// RatingRequest is the payload for rating an answer.
type RatingRequest struct {
	Rating *int `json:"rating"`
}

// History returns past queries, newest first.
func (h *QueriesHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	limit := clampInt(queryInt(r, "limit", defaultHistoryLimit), 1, maxHistoryLimit)
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	records, err := h.queries.List(ctx, limit, offset)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list query history", "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to list history")
		return
	}

	items := make([]historyItem, 0, len(records))
	for _, record := range records {
		items = append(items, historyItem{
			ID:              record.ID,
			Question:        record.Question,
			PaperIDs:        record.PaperIDs,
			Answer:          record.Answer,
			RetrievalTimeMs: record.RetrievalTimeMs,
			GenTimeMs:       record.GenTimeMs,
			TotalTimeMs:     record.TotalTimeMs,
			Confidence:      record.Confidence,
			Rating:          record.Rating,
			CreatedAt:       record.CreatedAt,
		})
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{"items": items})
}

// Rate records a 1-5 user rating for a past answer.
func (h *QueriesHandler) Rate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid query id")
		return
	}

	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid request body")
		return
	}
	if req.Rating == nil || *req.Rating < 1 || *req.Rating > 5 {
		writeError(w, r, http.StatusBadRequest, CodeValidationError, "rating must be between 1 and 5")
		return
	}

	err := h.queries.UpdateRating(ctx, id, *req.Rating)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, CodeNotFound, "query not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to update rating", "query_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to update rating")
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{"id": id, "rating": *req.Rating})
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

func clampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
