package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessagePhase tags the lifecycle of an assistant message. A string
// sentinel inside the content would be ambiguous with real answer text,
// so the phase is explicit state on the message.
type MessagePhase int

const (
	// PhaseFinal is the resting state: content is complete. User
	// messages are final from the moment they are appended.
	PhaseFinal MessagePhase = iota
	// PhasePending marks an assistant placeholder before any data has
	// arrived for its turn.
	PhasePending
	// PhaseStreaming marks an assistant message whose content is the
	// complete prefix of the answer received so far.
	PhaseStreaming
)

// ChatMessage is one entry in a chat transcript. Content of a user
// message is immutable after append; an assistant message mutates in
// place while its turn is in flight and settles on PhaseFinal.
type ChatMessage struct {
	ID        string
	Role      Role
	Phase     MessagePhase
	Content   string
	Sources   []SearchResult
	CreatedAt time.Time
}

// InFlight reports whether the message is the transient placeholder of
// an unresolved turn.
func (m ChatMessage) InFlight() bool {
	return m.Phase == PhasePending || m.Phase == PhaseStreaming
}

// ChatAnswer is the resolved result of one chat turn as reported by the
// backend. Sources are present only when the backend answered in whole
// JSON mode.
type ChatAnswer struct {
	Answer  string
	Sources []SearchResult
}
