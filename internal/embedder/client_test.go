package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Texts) != 2 {
			t.Errorf("got %d texts, want 2", len(req.Texts))
		}

		_ = json.NewEncoder(w).Encode(embedResponse{
			Model:   "BAAI/bge-small-en-v1.5",
			Vectors: [][]float64{{0.1, 0.2}, {0.3, 0.4}},
			Dim:     2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "BAAI/bge-small-en-v1.5")
	vectors, dim, err := client.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if dim != 2 {
		t.Errorf("dim = %d, want 2", dim)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[0][0] != float32(0.1) {
		t.Errorf("vectors[0][0] = %f, want 0.1", vectors[0][0])
	}
}

func TestClient_EmbedEmptyInput(t *testing.T) {
	client := NewClient("http://localhost:1", "model")
	if _, _, err := client.Embed(context.Background(), nil); err == nil {
		t.Fatal("Embed() expected error for empty input")
	}
}

func TestClient_EmbedCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{
			Vectors: [][]float64{{0.1}},
			Dim:     1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "model")
	if _, _, err := client.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("Embed() expected error for vector count mismatch")
	}
}

func TestClient_EmbedBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "model")
	if _, _, err := client.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("Embed() expected error for bad status")
	}
}

func TestClient_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer func() {
			_ = file.Close()
		}()
		if header.Filename != "paper.pdf" {
			t.Errorf("filename = %q, want paper.pdf", header.Filename)
		}

		_ = json.NewEncoder(w).Encode(Extraction{
			Metadata: ExtractMetadata{Title: "A Paper"},
			Sections: []SectionRange{{Name: "Abstract", StartPage: 1, EndPage: 1}},
			Chunks: []ExtractChunk{
				{Text: "chunk text", Section: "Abstract", Page: 1, Order: 0},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "model")
	extraction, err := client.Extract(context.Background(), "paper.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if extraction.Metadata.Title != "A Paper" {
		t.Errorf("Title = %q, want A Paper", extraction.Metadata.Title)
	}
	if len(extraction.Chunks) != 1 || extraction.Chunks[0].Order != 0 {
		t.Errorf("Chunks = %+v", extraction.Chunks)
	}
}
