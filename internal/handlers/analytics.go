package handlers

import (
	"errors"
	"net/http"

	"sage-ai/internal/analytics"
	"sage-ai/internal/contextutil"
)

// AnalyticsHandler serves usage aggregates and the popular topic insight.
type AnalyticsHandler struct {
	service *analytics.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// TopQuestions returns the most asked questions and most queried papers.
func (h *AnalyticsHandler) TopQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	limit := queryInt(r, "limit", analytics.DefaultPopularLimit)

	popular, err := h.service.Popular(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to aggregate popular questions", "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "ranking failed")
		return
	}

	writeSuccess(w, r, http.StatusOK, popular)
}

// Popular returns an AI-generated insight about the currently popular topic.
func (h *AnalyticsHandler) Popular(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	insight, err := h.service.PopularTopicInsight(ctx)
	if errors.Is(err, analytics.ErrNoQuestions) {
		writeError(w, r, http.StatusNotFound, CodeNoData, "No questions available for analysis")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to generate popular topic insight", "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to generate popular topic insight")
		return
	}

	writeSuccess(w, r, http.StatusOK, insight)
}
