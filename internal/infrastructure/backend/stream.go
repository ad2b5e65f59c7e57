package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

// Chat resolves one chat turn. The backend answers the same endpoint
// in either of two modes and does not label them reliably (the stream
// is flushed under a JSON content type), so the payload itself decides:
// a body opening with a JSON object is a whole response decoded once at
// the end; anything else is an incrementally flushed text stream whose
// fragments are forwarded to onChunk in arrival order.
//
// A chat turn is never retried: replaying it would duplicate fragments
// a consumer has already rendered.
func (c *Client) Chat(ctx context.Context, query string, onChunk func(fragment string) error) (*domain.ChatAnswer, error) {
	if c.metrics != nil {
		c.metrics.ChatTurnStarted()
		defer c.metrics.ChatTurnFinished()
	}

	var answer *domain.ChatAnswer
	err := c.run(ctx, "chat", chatClassifier, func(ctx context.Context) error {
		var err error
		answer, err = c.chatOnce(ctx, query, onChunk)
		return err
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

func (c *Client) chatOnce(ctx context.Context, query string, onChunk func(string) error) (*domain.ChatAnswer, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/documents/chat", strings.NewReader(string(body)), "application/json", "chat")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var (
		accumulated strings.Builder
		decoder     textDecoder
		sniffed     bool
		wholeJSON   bool
		buf         = make([]byte, 4096)
	)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			fragment := decoder.decode(buf[:n], false)
			if fragment != "" {
				if !sniffed {
					sniffed = true
					wholeJSON = strings.HasPrefix(strings.TrimLeft(fragment, " \t\r\n"), "{")
				}
				accumulated.WriteString(fragment)
				if !wholeJSON {
					if c.metrics != nil {
						c.metrics.ObserveStreamChunk()
					}
					if err := onChunk(fragment); err != nil {
						return nil, fmt.Errorf("consume chat fragment: %w", err)
					}
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read chat stream: %w", readErr)
		}
	}
	if tail := decoder.flush(); tail != "" {
		accumulated.WriteString(tail)
		if !wholeJSON {
			if err := onChunk(tail); err != nil {
				return nil, fmt.Errorf("consume chat fragment: %w", err)
			}
		}
	}

	if wholeJSON {
		return decodeWholeAnswer(accumulated.String())
	}
	return &domain.ChatAnswer{Answer: accumulated.String()}, nil
}

func decodeWholeAnswer(raw string) (*domain.ChatAnswer, error) {
	var payload struct {
		Answer  string              `json:"answer"`
		Sources []chatSourcePayload `json:"sources"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	sources := make([]domain.SearchResult, 0, len(payload.Sources))
	for _, source := range payload.Sources {
		sources = append(sources, source.toDomain())
	}
	return &domain.ChatAnswer{Answer: payload.Answer, Sources: sources}, nil
}

// chatSourcePayload is the source citation shape of the whole-JSON chat
// response. It differs from the search endpoint's field names.
type chatSourcePayload struct {
	DocumentID    int64   `json:"document_id"`
	DocumentTitle string  `json:"document_title"`
	Similarity    float64 `json:"total_similarity"`
	Chunks        []struct {
		ChunkIndex int     `json:"chunk_index"`
		Content    string  `json:"content"`
		Similarity float64 `json:"similarity"`
	} `json:"chunks"`
}

func (p chatSourcePayload) toDomain() domain.SearchResult {
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
	}
}

// textDecoder turns a byte stream into text fragments without ever
// splitting a multi-byte rune across two fragments: an incomplete
// trailing sequence is held back until the bytes that finish it arrive.
type textDecoder struct {
	pending []byte
}

func (d *textDecoder) decode(p []byte, final bool) string {
	buf := append(d.pending, p...)
	d.pending = nil
	if final {
		return string(buf)
	}
	hold := incompleteTail(buf)
	if hold > 0 {
		d.pending = append([]byte(nil), buf[len(buf)-hold:]...)
		buf = buf[:len(buf)-hold]
	}
	return string(buf)
}

// flush drains whatever is still held back, verbatim. Called once at
// end of stream.
func (d *textDecoder) flush() string {
	out := string(d.pending)
	d.pending = nil
	return out
}

// incompleteTail reports how many trailing bytes of b form the start of
// a not-yet-complete UTF-8 sequence.
func incompleteTail(b []byte) int {
	end := len(b)
	if end == 0 {
		return 0
	}
	start := end - 1
	for start > 0 && end-start < utf8.UTFMax && b[start]&0xC0 == 0x80 {
		start--
	}
	if b[start]&0xC0 != 0xC0 {
		// no leading byte in range: nothing incomplete to hold
		return 0
	}
	if utf8.FullRune(b[start:end]) {
		return 0
	}
	return end - start
}
