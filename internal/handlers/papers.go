package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"sage-ai/internal/contextutil"
	"sage-ai/internal/embedder"
	"sage-ai/internal/extract"
	"sage-ai/internal/ingest"
	"sage-ai/internal/storage"
	"sage-ai/internal/vectorstore"
)

// PapersHandler handles paper upload and lifecycle requests.
type PapersHandler struct {
	papers         storage.PaperStore
	chunks         storage.ChunkStore
	jobs           storage.JobStore
	vectors        vectorstore.VectorStore
	remote         embedder.Extractor
	markdown       *extract.MarkdownExtractor
	collection     string
	maxUploadBytes int64
}

// NewPapersHandler creates a new PapersHandler.
func NewPapersHandler(
	papers storage.PaperStore,
	chunks storage.ChunkStore,
	jobs storage.JobStore,
	vectors vectorstore.VectorStore,
	remote embedder.Extractor,
	collection string,
	maxUploadBytes int64,
) *PapersHandler {
	return &PapersHandler{
		papers:         papers,
		chunks:         chunks,
		jobs:           jobs,
		vectors:        vectors,
		remote:         remote,
		markdown:       extract.NewMarkdownExtractor(),
		collection:     collection,
		maxUploadBytes: maxUploadBytes,
	}
}

type paperListItem struct {
	ID         string     `json:"id"`
	Filename   string     `json:"filename"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	ChunkCount int        `json:"chunk_count"`
	CreatedAt  time.Time  `json:"created_at"`
	IndexedAt  *time.Time `json:"indexed_at,omitempty"`
}

type paperMetadata struct {
	Title string `json:"title"`
}

type paperDetail struct {
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	Metadata   paperMetadata     `json:"metadata"`
	Sections   []storage.Section `json:"sections"`
	ChunkCount int               `json:"chunk_count"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	IndexedAt  *time.Time        `json:"indexed_at,omitempty"`
}

// Upload accepts a multipart document, extracts it into chunks and enqueues
// the paper for asynchronous indexing.
func (h *PapersHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, CodeBadRequest, "File too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, CodeBadRequest, "File too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "Failed to read file")
		return
	}

	var extraction *embedder.Extraction
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".md", ".markdown":
		extraction, err = h.markdown.Extract(data, header.Filename)
		if err != nil {
			logger.WarnContext(ctx, "markdown extraction failed", "filename", header.Filename, "error", err)
			writeError(w, r, http.StatusBadRequest, CodeBadRequest, "Extraction failed")
			return
		}
	default:
		extraction, err = h.remote.Extract(ctx, header.Filename, data)
		if err != nil {
			logger.WarnContext(ctx, "embedder extraction failed", "filename", header.Filename, "error", err)
			writeError(w, r, http.StatusBadGateway, CodeEmbedderFailed, "Extraction failed")
			return
		}
	}

	now := time.Now().UTC()
	paper := &storage.PaperRecord{
		ID:         uuid.New().String(),
		Filename:   header.Filename,
		Title:      extraction.Metadata.Title,
		Sections:   toStorageSections(extraction.Sections),
		ChunkCount: len(extraction.Chunks),
		Status:     storage.PaperStatusExtracted,
		CreatedAt:  now,
	}
	if err := h.papers.Insert(ctx, paper); err != nil {
		logger.ErrorContext(ctx, "failed to insert paper", "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Upload failed")
		return
	}

	if len(extraction.Chunks) > 0 {
		records := make([]*storage.ChunkRecord, 0, len(extraction.Chunks))
		for _, chunk := range extraction.Chunks {
			records = append(records, &storage.ChunkRecord{
				ID:      uuid.New().String(),
				PaperID: paper.ID,
				Order:   chunk.Order,
				Section: chunk.Section,
				Page:    chunk.Page,
				Text:    chunk.Text,
			})
		}
		if err := h.chunks.BulkInsert(ctx, records); err != nil {
			logger.ErrorContext(ctx, "failed to insert chunks", "paper_id", paper.ID, "error", err)
			writeError(w, r, http.StatusInternalServerError, CodeInternal, "Upload failed")
			return
		}
	}

	if _, err := ingest.Enqueue(ctx, h.jobs, paper.ID); err != nil {
		logger.ErrorContext(ctx, "failed to enqueue ingestion", "paper_id", paper.ID, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Upload failed")
		return
	}

	logger.InfoContext(ctx, "paper uploaded", "paper_id", paper.ID, "filename", header.Filename, "chunks", len(extraction.Chunks))
	writeSuccess(w, r, http.StatusOK, map[string]any{"paper_id": paper.ID})
}

// List returns all papers, newest first.
func (h *PapersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	papers, err := h.papers.ListAll(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list papers", "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to list papers")
		return
	}

	items := make([]paperListItem, 0, len(papers))
	for _, paper := range papers {
		items = append(items, paperListItem{
			ID:         paper.ID,
			Filename:   paper.Filename,
			Title:      paper.Title,
			Status:     paper.Status,
			ChunkCount: paper.ChunkCount,
			CreatedAt:  paper.CreatedAt,
			IndexedAt:  paper.IndexedAt,
		})
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{"items": items})
}

// Get returns one paper with its sections and live chunk count.
func (h *PapersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id, ok := paperIDParam(w, r)
	if !ok {
		return
	}

	paper, err := h.papers.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, CodeNotFound, "paper not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to get paper", "paper_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to get paper")
		return
	}

	chunkCount, err := h.chunks.CountByPaper(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count chunks", "paper_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to get paper")
		return
	}

	writeSuccess(w, r, http.StatusOK, paperDetail{
		ID:         paper.ID,
		Filename:   paper.Filename,
		Metadata:   paperMetadata{Title: paper.Title},
		Sections:   paper.Sections,
		ChunkCount: chunkCount,
		Status:     paper.Status,
		CreatedAt:  paper.CreatedAt,
		IndexedAt:  paper.IndexedAt,
	})
}

// Delete removes a paper, its chunks and its vectors. Vectors go first so a
// partial failure never leaves unreachable points behind.
func (h *PapersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id, ok := paperIDParam(w, r)
	if !ok {
		return
	}

	if _, err := h.papers.GetByID(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, CodeNotFound, "paper not found")
			return
		}
		logger.ErrorContext(ctx, "failed to get paper", "paper_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to delete paper")
		return
	}

	removedVectors, err := h.vectors.DeleteByPaper(ctx, h.collection, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete vectors", "paper_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to delete paper")
		return
	}

	removedChunks, err := h.chunks.DeleteByPaper(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete chunks", "paper_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to delete paper")
		return
	}

	if err := h.papers.Delete(ctx, id); err != nil {
		logger.ErrorContext(ctx, "failed to delete paper", "paper_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to delete paper")
		return
	}

	logger.InfoContext(ctx, "paper deleted", "paper_id", id, "removed_chunks", removedChunks)
	writeSuccess(w, r, http.StatusOK, map[string]any{
		"removed_vectors": removedVectors,
		"removed_chunks":  removedChunks,
		"removed_paper":   true,
	})
}

// Stats reports the stored chunk count against the indexed vector count for
// one paper.
func (h *PapersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id, ok := paperIDParam(w, r)
	if !ok {
		return
	}

	paper, err := h.papers.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, CodeNotFound, "paper not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to get paper", "paper_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to get stats")
		return
	}

	vectorCount, err := h.vectors.CountByPaper(ctx, h.collection, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count vectors", "paper_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to get stats")
		return
	}

	chunkCount, err := h.chunks.CountByPaper(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to count chunks", "paper_id", id, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to get stats")
		return
	}

	writeSuccess(w, r, http.StatusOK, map[string]any{
		"paper_id":     id,
		"filename":     paper.Filename,
		"vector_count": vectorCount,
		"chunk_count":  chunkCount,
		"indexed_at":   paper.IndexedAt,
	})
}

func paperIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeValidationError, "Invalid paper id")
		return "", false
	}
	return id, true
}

func toStorageSections(sections []embedder.SectionRange) []storage.Section {
	out := make([]storage.Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, storage.Section{
			Name:      s.Name,
			StartPage: s.StartPage,
			EndPage:   s.EndPage,
		})
	}
	return out
}
