// Package transcript holds the ordered turn list of a single session.
//
// A Transcript never reorders: index 0 is always the oldest turn. It is not
// safe for concurrent use; owners guard it with their own lock.
package transcript

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// ErrEmpty is returned when an operation needs at least one turn.
var ErrEmpty = errors.New("transcript is empty")

// Transcript is an append-only list of turns.
type Transcript struct {
	turns []chat.Turn
	now   func() time.Time
}

// New returns a transcript seeded with already-normalized turns.
func New(turns ...chat.Turn) *Transcript {
	t := &Transcript{now: func() time.Time { return time.Now().UTC() }}
	t.turns = append(make([]chat.Turn, 0, len(turns)+8), turns...)
	return t
}

// WithClock overrides the clock used to default timestamps.
func (t *Transcript) WithClock(now func() time.Time) *Transcript {
	t.now = now
	return t
}

// Append adds turn at the end, stamping it if the timestamp is missing.
func (t *Transcript) Append(turn chat.Turn) chat.Turn {
	turn = fill(turn, t.now())
	t.turns = append(t.turns, turn)
	return turn
}

// ReplaceLast substitutes the newest turn, typically a provisional placeholder.
func (t *Transcript) ReplaceLast(turn chat.Turn) error {
	if len(t.turns) == 0 {
		return ErrEmpty
	}
	t.turns[len(t.turns)-1] = fill(turn, t.now())
	return nil
}

// DropProvisional removes the newest turn only if it is provisional.
func (t *Transcript) DropProvisional() bool {
	n := len(t.turns)
	if n == 0 || !t.turns[n-1].Provisional {
		return false
	}
	t.turns = t.turns[:n-1]
	return true
}

// Reset replaces the whole content, normalizing it first.
func (t *Transcript) Reset(turns []chat.Turn) {
	t.turns = Normalize(turns, t.now())
}

// Clear empties the transcript.
func (t *Transcript) Clear() {
	t.turns = t.turns[:0]
}

// Last returns the newest turn.
func (t *Transcript) Last() (chat.Turn, bool) {
	if len(t.turns) == 0 {
		return chat.Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Len reports the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of the turns, oldest first.
func (t *Transcript) Turns() []chat.Turn {
	copied := make([]chat.Turn, len(t.turns))
	copy(copied, t.turns)
	return copied
}

// Normalize maps backend-provided turns onto the canonical shape without
// reordering: missing timestamps default to now, missing ids are generated
// and unknown roles are treated as assistant output.
func Normalize(raw []chat.Turn, now time.Time) []chat.Turn {
	out := make([]chat.Turn, 0, len(raw))
	for _, turn := range raw {
		out = append(out, fill(turn, now))
	}
	return out
}

func fill(turn chat.Turn, now time.Time) chat.Turn {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = now
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if !turn.Role.Valid() {
		turn.Role = chat.RoleAssistant
	}
	return turn
}
