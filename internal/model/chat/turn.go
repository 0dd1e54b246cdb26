package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role tags the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one message exchanged within a session.
type Turn struct {
	ID        string    `json:"id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// Provisional marks a placeholder ("typing...") that will be replaced or removed.
	Provisional bool `json:"provisional,omitempty"`
	// Fallback marks content substituted locally because the backend gave no usable answer.
	Fallback bool `json:"fallback,omitempty"`
}

// NewTurn builds a turn stamped with the current time.
func NewTurn(role Role, content string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// UserTurn is shorthand for NewTurn(RoleUser, content).
func UserTurn(content string) Turn {
	return NewTurn(RoleUser, content)
}

// AssistantTurn is shorthand for NewTurn(RoleAssistant, content).
func AssistantTurn(content string) Turn {
	return NewTurn(RoleAssistant, content)
}

// TypingTurn returns a provisional assistant placeholder.
func TypingTurn(content string) Turn {
	turn := NewTurn(RoleAssistant, content)
	turn.Provisional = true
	return turn
}
