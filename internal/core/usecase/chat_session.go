package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkotenko/inteldocs-cli/internal/core/domain"
	"github.com/dkotenko/inteldocs-cli/internal/core/ports"
)

// ChatSession owns one conversation transcript against the backend's
// retrieval-augmented chat endpoint. The transcript is append-only
// except for the single in-flight assistant placeholder, which mutates
// in place while its turn streams and is removed outright if the turn
// fails.
type ChatSession struct {
	gateway ports.ChatGateway

	// notify is called after every transcript mutation so a consumer
	// can re-render and bring the latest message into view. It is a
	// courtesy: correctness never depends on it.
	notify func()

	mu       sync.Mutex
	inFlight bool
	messages []domain.ChatMessage
	errMsg   string
}

var _ ports.ChatSubmitter = (*ChatSession)(nil)

func NewChatSession(gateway ports.ChatGateway, notify func()) *ChatSession {
	if notify == nil {
		notify = func() {}
	}
	return &ChatSession{
		gateway: gateway,
		notify:  notify,
	}
}

// Submit runs one chat turn to completion. A blank query is rejected
// before any network call. At most one turn may be in flight: a
// concurrent Submit returns ErrSessionBusy and leaves the transcript
// untouched for the full duration of the first turn.
//
// The user message is appended immediately and never changes. The
// assistant placeholder is appended right after it and holds that
// position for the rest of its life: its content grows as stream
// fragments arrive (always the complete prefix received so far), then
// settles on the final answer. If the turn fails the placeholder is
// removed by id, the user message stays, and the session error is set
// for display.
func (s *ChatSession) Submit(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return domain.ErrSessionBusy
	}
	s.inFlight = true
	s.errMsg = ""

	now := time.Now().UTC()
	placeholderID := uuid.NewString()
	s.messages = append(s.messages,
		domain.ChatMessage{
			ID:        uuid.NewString(),
			Role:      domain.RoleUser,
			Phase:     domain.PhaseFinal,
			Content:   query,
			CreatedAt: now,
		},
		domain.ChatMessage{
			ID:        placeholderID,
			Role:      domain.RoleAssistant,
			Phase:     domain.PhasePending,
			CreatedAt: now,
		},
	)
	s.mu.Unlock()
	s.notify()

	var accumulated strings.Builder
	answer, err := s.gateway.Chat(ctx, query, func(fragment string) error {
		accumulated.WriteString(fragment)
		s.setPlaceholder(placeholderID, domain.PhaseStreaming, accumulated.String(), nil)
		s.notify()
		return nil
	})

	s.mu.Lock()
	s.inFlight = false
	if err != nil {
		s.removeLocked(placeholderID)
		s.errMsg = err.Error()
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.mu.Unlock()

	s.setPlaceholder(placeholderID, domain.PhaseFinal, answer.Answer, answer.Sources)
	s.notify()
	return nil
}

// Messages returns a snapshot of the transcript in append order.
func (s *ChatSession) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ChatMessage(nil), s.messages...)
}

// Err returns the session-level error from the last failed turn, empty
// after a successful one.
func (s *ChatSession) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *ChatSession) setPlaceholder(id string, phase domain.MessagePhase, content string, sources []domain.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Phase = phase
			s.messages[i].Content = content
			if sources != nil {
				s.messages[i].Sources = sources
			}
			return
		}
	}
}

func (s *ChatSession) removeLocked(id string) {
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}
