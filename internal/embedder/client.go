package embedder

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_gateway.go -package=mocks sage-ai/internal/embedder Gateway
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_extractor.go -package=mocks sage-ai/internal/embedder Extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Gateway converts text to vectors via the embedder service.
// Embed must preserve input order in its output.
type Gateway interface {
	Embed(ctx context.Context, texts []string) ([][]float32, int, error)
}

// Extractor turns an uploaded document into metadata, sections and chunks.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (*Extraction, error)
}

// Extraction is the result of extracting a document: metadata, detected
// section ranges and the chunk records destined for storage.
type Extraction struct {
	Metadata ExtractMetadata `json:"metadata"`
	Sections []SectionRange  `json:"sections"`
	Chunks   []ExtractChunk  `json:"chunks"`
}

// ExtractMetadata holds document-level metadata reported by extraction.
type ExtractMetadata struct {
	Title    string `json:"title"`
	Authors  string `json:"authors,omitempty"`
	Filename string `json:"filename,omitempty"`
	Pages    int    `json:"pages,omitempty"`
}

// SectionRange is a named section with its page range.
type SectionRange struct {
	Name      string `json:"name"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

// ExtractChunk is one extracted chunk of text. Order is the stable position
// within the document.
type ExtractChunk struct {
	Text    string `json:"text"`
	Section string `json:"section"`
	Page    int    `json:"page"`
	Order   int    `json:"order"`
}

// Client is an HTTP client for the embedder service, which provides both
// text embedding and PDF extraction.
type Client struct {
	BaseURL string
	Model   string
	client  *http.Client
}

// NewClient creates a new embedder service client.
func NewClient(baseURL, model string) *Client {
	return &Client{
		BaseURL: baseURL,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// embedRequest represents the request payload for the embed endpoint.
type embedRequest struct {
	Texts []string `json:"texts"`
	Model string   `json:"model,omitempty"`
}

// embedResponse represents the response from the embed endpoint.
type embedResponse struct {
	Model   string      `json:"model"`
	Vectors [][]float64 `json:"vectors"`
	Dim     int         `json:"dim"`
}

// Embed generates embeddings for the given texts, returning one vector per
// input text in input order, plus the vector dimensionality.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, int, error) {
	if len(texts) == 0 {
		return nil, 0, fmt.Errorf("empty input array")
	}

	body, err := json.Marshal(embedRequest{Texts: texts, Model: c.Model})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/embed", bytes.NewBuffer(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embedResp.Vectors) != len(texts) {
		return nil, 0, fmt.Errorf("expected %d vectors, got %d", len(texts), len(embedResp.Vectors))
	}

	// Convert []float64 to []float32
	result := make([][]float32, len(embedResp.Vectors))
	for i, vector := range embedResp.Vectors {
		vec := make([]float32, len(vector))
		for j, v := range vector {
			vec[j] = float32(v)
		}
		result[i] = vec
	}

	return result, embedResp.Dim, nil
}

// Extract sends a document to the embedder service for text extraction.
func (c *Client) Extract(ctx context.Context, filename string, data []byte) (*Extraction, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/extract", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var extraction Extraction
	if err := json.NewDecoder(resp.Body).Decode(&extraction); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &extraction, nil
}
