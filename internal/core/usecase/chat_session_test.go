package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
)

type fakeChatGateway struct {
	chunks    []string
	answer    *domain.ChatAnswer
	err       error
	calls     int
	observed  func()
	unblockCh chan struct{}
}

func (f *fakeChatGateway) Chat(ctx context.Context, query string, onChunk func(string) error) (*domain.ChatAnswer, error) {
	f.calls++
	if f.observed != nil {
		f.observed()
	}
	if f.unblockCh != nil {
		select {
		case <-f.unblockCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	var accumulated strings.Builder
	for _, chunk := range f.chunks {
		accumulated.WriteString(chunk)
		if err := onChunk(chunk); err != nil {
			return nil, err
		}
	}
	if f.answer != nil {
		return f.answer, nil
	}
	return &domain.ChatAnswer{Answer: accumulated.String()}, nil
}

func TestSubmitAppendsUserAndPlaceholderImmediately(t *testing.T) {
	gateway := &fakeChatGateway{chunks: []string{"answer"}}
	session := NewChatSession(gateway, nil)

	var midFlight []domain.ChatMessage
	gateway.observed = func() {
		midFlight = session.Messages()
	}

	if err := session.Submit(context.Background(), "What is X?"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(midFlight) != 2 {
		t.Fatalf("expected 2 messages before any data arrived, got %d", len(midFlight))
	}
	if midFlight[0].Role != domain.RoleUser || midFlight[0].Content != "What is X?" {
		t.Fatalf("unexpected user message: %+v", midFlight[0])
	}
	if midFlight[1].Role != domain.RoleAssistant || midFlight[1].Phase != domain.PhasePending {
		t.Fatalf("expected pending assistant placeholder, got %+v", midFlight[1])
	}

	final := session.Messages()
	if len(final) != 2 {
		t.Fatalf("expected 2 messages after resolution, got %d", len(final))
	}
	if final[1].Phase != domain.PhaseFinal {
		t.Fatalf("placeholder not promoted: %+v", final[1])
	}
	if final[1].Content == "" {
		t.Fatalf("placeholder content still empty after stream end")
	}
}

func TestSubmitStreamingAccumulatesPrefixes(t *testing.T) {
	gateway := &fakeChatGateway{chunks: []string{"Par", "is is", " the capital."}}
	session := NewChatSession(gateway, nil)

	if err := session.Submit(context.Background(), "capital of France?"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	messages := session.Messages()
	got := messages[len(messages)-1].Content
	if got != "Paris is the capital." {
		t.Fatalf("accumulated content = %q, want %q", got, "Paris is the capital.")
	}
}

func TestSubmitIntermediateStatesAreFullPrefixes(t *testing.T) {
	gateway := &fakeChatGateway{chunks: []string{"a", "b", "c"}}

	var seen []string
	var session *ChatSession
	session = NewChatSession(gateway, func() {
		messages := session.Messages()
		if len(messages) == 0 {
			return
		}
		last := messages[len(messages)-1]
		if last.Phase == domain.PhaseStreaming {
			seen = append(seen, last.Content)
		}
	})

	if err := session.Submit(context.Background(), "q"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	want := []string{"a", "ab", "abc"}
	if len(seen) != len(want) {
		t.Fatalf("streaming states = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("streaming state %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestSubmitWholeResponseSetsContentOnce(t *testing.T) {
	gateway := &fakeChatGateway{
		answer: &domain.ChatAnswer{
			Answer: "full answer",
			Sources: []domain.SearchResult{
				{DocumentID: 1, DocumentTitle: "doc"},
			},
		},
	}
	session := NewChatSession(gateway, nil)

	if err := session.Submit(context.Background(), "q"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	messages := session.Messages()
	last := messages[len(messages)-1]
	if last.Content != "full answer" {
		t.Fatalf("content = %q, want %q", last.Content, "full answer")
	}
	if len(last.Sources) != 1 {
		t.Fatalf("sources not retained on final message: %+v", last)
	}
}

func TestSubmitFailureRemovesPlaceholderKeepsUserMessage(t *testing.T) {
	gateway := &fakeChatGateway{chunks: []string{"fine"}}
	session := NewChatSession(gateway, nil)

	if err := session.Submit(context.Background(), "first"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	before := len(session.Messages())

	gateway.err = fmt.Errorf("backend chat status: 500 Internal Server Error")
	if err := session.Submit(context.Background(), "second"); err == nil {
		t.Fatalf("expected error from failing gateway")
	}

	after := session.Messages()
	if len(after) != before+1 {
		t.Fatalf("message count after failure = %d, want %d (user message only)", len(after), before+1)
	}
	if last := after[len(after)-1]; last.Role != domain.RoleUser || last.Content != "second" {
		t.Fatalf("surviving message should be the user message, got %+v", last)
	}
	if session.Err() == "" {
		t.Fatalf("session error not set after failure")
	}
}

func TestSubmitEmptyQueryIsRejectedLocally(t *testing.T) {
	gateway := &fakeChatGateway{}
	session := NewChatSession(gateway, nil)

	for _, query := range []string{"", "   ", "\n\t"} {
		err := session.Submit(context.Background(), query)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("Submit(%q) error = %v, want ErrInvalidInput", query, err)
		}
	}
	if gateway.calls != 0 {
		t.Fatalf("gateway called %d times for blank queries", gateway.calls)
	}
	if len(session.Messages()) != 0 {
		t.Fatalf("transcript changed by rejected submissions")
	}
}

func TestSubmitReentrancyGuardHoldsForFullDuration(t *testing.T) {
	gateway := &fakeChatGateway{
		chunks:    []string{"ok"},
		unblockCh: make(chan struct{}),
	}
	session := NewChatSession(gateway, nil)

	firstStarted := make(chan struct{})
	var startOnce sync.Once
	gateway.observed = func() { startOnce.Do(func() { close(firstStarted) }) }

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- session.Submit(context.Background(), "first")
	}()
	<-firstStarted

	if err := session.Submit(context.Background(), "second"); !errors.Is(err, domain.ErrSessionBusy) {
		t.Fatalf("concurrent Submit() error = %v, want ErrSessionBusy", err)
	}
	if got := len(session.Messages()); got != 2 {
		t.Fatalf("concurrent Submit() mutated transcript: %d messages", got)
	}
	if gateway.calls != 1 {
		t.Fatalf("gateway called %d times while guarded", gateway.calls)
	}

	close(gateway.unblockCh)
	if err := <-firstDone; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}

	// guard releases once the turn resolves
	if err := session.Submit(context.Background(), "third"); err != nil {
		t.Fatalf("Submit() after resolution error = %v", err)
	}
	if got := len(session.Messages()); got != 4 {
		t.Fatalf("expected 4 messages after two successful turns, got %d", got)
	}
}

func TestSubmitFailureClearsGuard(t *testing.T) {
	gateway := &fakeChatGateway{err: fmt.Errorf("boom")}
	session := NewChatSession(gateway, nil)

	if err := session.Submit(context.Background(), "q"); err == nil {
		t.Fatalf("expected failure")
	}

	gateway.err = nil
	gateway.chunks = []string{"recovered"}
	if err := session.Submit(context.Background(), "again"); err != nil {
		t.Fatalf("Submit() after failure error = %v", err)
	}
}

func TestPlaceholderFollowsItsUserMessage(t *testing.T) {
	gateway := &fakeChatGateway{chunks: []string{"one"}}
	session := NewChatSession(gateway, nil)

	for i := 0; i < 3; i++ {
		if err := session.Submit(context.Background(), fmt.Sprintf("turn %d", i)); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	messages := session.Messages()
	if len(messages) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(messages))
	}
	for i, msg := range messages {
		wantRole := domain.RoleUser
		if i%2 == 1 {
			wantRole = domain.RoleAssistant
		}
		if msg.Role != wantRole {
			t.Fatalf("message %d role = %s, want %s", i, msg.Role, wantRole)
		}
	}
}
