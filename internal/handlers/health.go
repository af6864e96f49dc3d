package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"sage-ai/internal/contextutil"
)

const healthCheckTimeout = 5 * time.Second

// CheckFunc probes one dependency. A nil error means the dependency is ready.
type CheckFunc func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks map[string]CheckFunc
}

// NewHealthHandler creates a HealthHandler with the given named dependency
// checks.
func NewHealthHandler(checks map[string]CheckFunc) *HealthHandler {
	return &HealthHandler{checks: checks}
}

type checkDetail struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Liveness reports that the process is up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{
		"status":  "ok",
		"service": "api",
		"time":    time.Now().UTC().Format(time.RFC3339),
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger := contextutil.LoggerFromContext(r.Context())
		logger.ErrorContext(r.Context(), "failed to encode health response", "error", err)
	}
}

// Readiness probes every dependency concurrently and reports per-dependency
// results. Returns 503 unless all checks pass.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		details = make(map[string]checkDetail, len(h.checks))
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			detail := checkDetail{OK: true}
			if err := check(checkCtx); err != nil {
				logger.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
				detail = checkDetail{OK: false, Message: err.Error()}
			}
			mu.Lock()
			details[name] = detail
			mu.Unlock()
		}()
	}
	wg.Wait()

	ready := true
	for _, detail := range details {
		if !detail.OK {
			ready = false
			break
		}
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{"ready": ready, "details": details}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode readiness response", "error", err)
	}
}
