package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/", Options{HTTPClient: server.Client()})
}

func TestListDecodesDocuments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/documents" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "title": "intro.pdf", "status": "completed", "is_failed": false, "no_of_chunks": 12},
			{"id": 2, "title": "broken.docx", "status": "embedding_text", "is_failed": true, "no_of_chunks": 0}
		]`))
	})

	docs, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0].Status != domain.StatusCompleted || docs[0].ChunkCount != 12 {
		t.Fatalf("docs[0] = %+v", docs[0])
	}
	if docs[1].Status != domain.StatusEmbeddingText || !docs[1].IsFailed {
		t.Fatalf("docs[1] = %+v, want failed embedding_text", docs[1])
	}
}

func TestListUnknownStatusFailsLoudly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 7, "title": "x", "status": "transmogrifying"}]`))
	})

	_, err := client.List(context.Background())
	if !errors.Is(err, domain.ErrUnknownStatus) {
		t.Fatalf("List() error = %v, want ErrUnknownStatus", err)
	}
	if !strings.Contains(err.Error(), "document 7") {
		t.Fatalf("error %q does not name the offending document", err)
	}
}

func TestGetNotFoundWrapsSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "document not found"}`, http.StatusNotFound)
	})

	_, err := client.Get(context.Background(), 42)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("Get() error = %v, want ErrDocumentNotFound", err)
	}
}

func TestStatusErrorCarriesBackendDetail(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message": "file too large"}`, "file too large"},
		{"error field", `{"error": "unsupported type"}`, "unsupported type"},
		{"plain text", "internal blowup", "internal blowup"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			})

			err := client.Delete(context.Background(), 1)
			var statusErr *HTTPStatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("Delete() error = %v, want *HTTPStatusError", err)
			}
			if statusErr.StatusCode != http.StatusBadRequest {
				t.Fatalf("StatusCode = %d, want 400", statusErr.StatusCode)
			}
			if statusErr.Body != tc.want {
				t.Fatalf("Body = %q, want %q", statusErr.Body, tc.want)
			}
		})
	}
}

func TestDeleteUsesDeleteMethod(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/documents/5/delete" {
		t.Fatalf("request = %s %s, want DELETE /documents/5/delete", gotMethod, gotPath)
	}
}

func TestRetryPostsWithTrailingSlash(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	if err := client.Retry(context.Background(), 9); err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/documents/9/retry/" {
		t.Fatalf("request = %s %s, want POST /documents/9/retry/", gotMethod, gotPath)
	}
}

func TestSearchSendsParamsAndDecodesScores(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("query") != "load balancer" || query.Get("title") != "infra" || query.Get("limit") != "3" {
			t.Errorf("unexpected params: %v", query)
		}
		w.Write([]byte(`[{
			"document_id": 4,
			"document_title": "infra notes",
			"similarity_score": 0.91,
			"chunks": [{"chunk_index": 2, "content": "nginx upstream", "similarity_score": 0.87}]
		}]`))
	})

	results, err := client.Search(context.Background(), domain.SearchQuery{Query: "load balancer", Title: "infra", Limit: 3})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	result := results[0]
	if result.DocumentID != 4 || result.Similarity != 0.91 {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Chunks) != 1 || result.Chunks[0].Similarity != 0.87 || result.Chunks[0].ChunkIndex != 2 {
		t.Fatalf("chunks = %+v", result.Chunks)
	}
}

func TestSearchOmitsEmptyFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Has("title") || query.Has("limit") {
			t.Errorf("empty filters leaked into params: %v", query)
		}
		w.Write([]byte(`[]`))
	})

	if _, err := client.Search(context.Background(), domain.SearchQuery{Query: "q"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
}

func TestMarkdownUnwrapsContentEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/3/markdown" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"content": "# Title\n\nbody"}`))
	})

	content, err := client.Markdown(context.Background(), 3)
	if err != nil {
		t.Fatalf("Markdown() error = %v", err)
	}
	if content != "# Title\n\nbody" {
		t.Fatalf("content = %q", content)
	}
}

func TestRawReturnsBodyVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documents/3/raw" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte("plain original text"))
	})

	content, err := client.Raw(context.Background(), 3)
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if content != "plain original text" {
		t.Fatalf("content = %q", content)
	}
}
