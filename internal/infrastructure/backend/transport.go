package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

// HTTPStatusError is a non-success backend response. Body carries the
// user-facing detail extracted from the response, when there was one.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "backend status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("backend %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("backend %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

func (c *Client) getJSON(ctx context.Context, path string, out any, operation string) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "", operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) getText(ctx context.Context, path string, operation string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "", operation)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", operation, err)
	}
	return string(body), nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json", operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// send issues a request and discards any success body.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, operation string) error {
	resp, err := c.do(ctx, method, path, body, "", operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// do issues the request and turns any non-2xx response into an
// HTTPStatusError. Callers own the body on success.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType, operation string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend %s request: %w", operation, err)
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, newStatusError(operation, resp)
	}
	return resp, nil
}

func newStatusError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	statusErr := &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       extractDetail(body),
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", domain.ErrDocumentNotFound, statusErr)
	}
	return statusErr
}

// extractDetail pulls the user-facing message out of an error body.
// The backend answers errors as JSON with a message or error field;
// anything else falls back to the raw text, and an unparseable or
// empty body yields nothing so the caller's generic message stands.
func extractDetail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return trimmed
}

func searchParams(query domain.SearchQuery) string {
	params := url.Values{}
	params.Set("query", query.Query)
	if query.Title != "" {
		params.Set("title", query.Title)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
	}
	return params.Encode()
}

// documentPayload is the wire form of a document. Status is validated
// against the closed stage set on the way in: a code this client does
// not know is schema drift and must fail, not render blank.
type documentPayload struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	IsFailed    bool      `json:"is_failed"`
	NoOfChunks  int       `json:"no_of_chunks"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p documentPayload) toDomain() (domain.Document, error) {
	status, err := domain.ParseDocumentStatus(p.Status)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document %d: %w", p.ID, err)
	}
	return domain.Document{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Status:      status,
		IsFailed:    p.IsFailed,
		ChunkCount:  p.NoOfChunks,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

type searchChunkPayload struct {
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	Similarity float64 `json:"similarity_score"`
}

type searchResultPayload struct {
	DocumentID    int64                `json:"document_id"`
	DocumentTitle string               `json:"document_title"`
	Similarity    float64              `json:"similarity_score"`
	Chunks        []searchChunkPayload `json:"chunks"`
	CreatedAt     time.Time            `json:"created_at"`
}

func (p searchResultPayload) toDomain() domain.SearchResult {
	chunks := make([]domain.SearchChunk, 0, len(p.Chunks))
	for _, chunk := range p.Chunks {
		chunks = append(chunks, domain.SearchChunk{
			ChunkIndex: chunk.ChunkIndex,
			Content:    chunk.Content,
			Similarity: chunk.Similarity,
		})
	}
	return domain.SearchResult{
		DocumentID:    p.DocumentID,
		DocumentTitle: p.DocumentTitle,
		Similarity:    p.Similarity,
		Chunks:        chunks,
		CreatedAt:     p.CreatedAt,
	}
}
