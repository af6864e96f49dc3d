package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sage-ai/internal/analytics"
	"sage-ai/internal/embedder"
	"sage-ai/internal/handlers"
	"sage-ai/internal/rag"
	"sage-ai/internal/storage"
	"sage-ai/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine    *rag.Engine
	Analytics *analytics.Service
	Papers    storage.PaperStore
	Chunks    storage.ChunkStore
	Jobs      storage.JobStore
	Queries   storage.QueryStore
	Vectors   vectorstore.VectorStore
	Extractor embedder.Extractor

	Collection     string
	MaxUploadBytes int64

	// HealthChecks maps a dependency name to its readiness probe.
	HealthChecks map[string]handlers.CheckFunc
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	queryHandler := handlers.NewQueryHandler(deps.Engine)
	papersHandler := handlers.NewPapersHandler(
		deps.Papers, deps.Chunks, deps.Jobs, deps.Vectors,
		deps.Extractor, deps.Collection, deps.MaxUploadBytes,
	)
	queriesHandler := handlers.NewQueriesHandler(deps.Queries)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics)
	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/query", queryHandler)

		r.Route("/papers", func(r chi.Router) {
			r.Post("/upload", papersHandler.Upload)
			r.Get("/", papersHandler.List)
			r.Get("/{id}", papersHandler.Get)
			r.Delete("/{id}", papersHandler.Delete)
			r.Get("/{id}/stats", papersHandler.Stats)
		})

		r.Route("/queries", func(r chi.Router) {
			r.Get("/history", queriesHandler.History)
			r.Patch("/{id}/rating", queriesHandler.Rate)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/top-questions", analyticsHandler.TopQuestions)
			r.Get("/popular", analyticsHandler.Popular)
		})
	})

	r.Get("/healthz", healthHandler.Liveness)
	r.Get("/readyz", healthHandler.Readiness)

	return r
}
