// Package interview runs the practice interview: a locally persisted
// transcript that works fully offline or against the backend.
package interview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/store"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/transcript"
)

// TypingText is the content of the provisional turn shown while waiting.
const TypingText = "Typing..."

var (
	ErrRoleRequired = errors.New("please select a role")
	ErrNotStarted   = errors.New("interview has not been started")
	ErrBusy         = errors.New("waiting for the interviewer")
	// ErrEmptyAnswer means the answer was blank and nothing changed.
	ErrEmptyAnswer = errors.New("answer is empty")
)

// Flow is one interview. It is safe for concurrent use; at most one request
// is in flight.
type Flow struct {
	replier Replier
	store   store.Store
	key     string
	logger  zerolog.Logger

	mu         sync.Mutex
	role       string
	transcript *transcript.Transcript
	busy       bool
}

// NewFlow creates an interview persisted under key.
func NewFlow(replier Replier, st store.Store, key string, logger zerolog.Logger) *Flow {
	return &Flow{
		replier:    replier,
		store:      st,
		key:        key,
		logger:     logger.With().Str("component", "interview").Logger(),
		transcript: transcript.New(),
	}
}

// Restore loads the persisted transcript. A read failure starts empty.
func (f *Flow) Restore(ctx context.Context) {
	turns, err := f.store.LoadTranscript(ctx, f.key)
	if err != nil {
		f.logger.Warn().Err(err).Msg("loading interview transcript failed")
		return
	}

	f.mu.Lock()
	f.transcript.Reset(turns)
	// A placeholder persisted mid-request will never be resolved.
	f.transcript.DropProvisional()
	f.mu.Unlock()
}

// SetRole selects the role used by later Start and Answer calls.
func (f *Flow) SetRole(role string) {
	f.mu.Lock()
	f.role = strings.TrimSpace(role)
	f.mu.Unlock()
}

// Role returns the selected role.
func (f *Flow) Role() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.role
}

// Transcript returns a copy of the interview transcript.
func (f *Flow) Transcript() []chat.Turn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transcript.Turns()
}

// Start opens the interview for role. On success the transcript is exactly
// the first question.
func (f *Flow) Start(ctx context.Context, role string) (chat.Turn, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return chat.Turn{}, ErrRoleRequired
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return chat.Turn{}, ErrBusy
	}
	f.busy = true
	f.mu.Unlock()

	reply, err := f.replier.Start(ctx, role)

	f.mu.Lock()
	f.busy = false
	if err != nil {
		f.mu.Unlock()
		f.logger.Warn().Err(err).Str("role", role).Msg("starting interview failed")
		return chat.Turn{}, err
	}
	f.role = role
	f.transcript.Clear()
	turn := f.transcript.Append(chat.AssistantTurn(reply))
	snapshot := f.transcript.Turns()
	f.mu.Unlock()

	f.persist(ctx, snapshot)
	return turn, nil
}

// Answer sends text and replaces the typing placeholder with the reply. On
// failure only the placeholder is removed; the answer stays.
func (f *Flow) Answer(ctx context.Context, text string) (chat.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Turn{}, ErrEmptyAnswer
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return chat.Turn{}, ErrBusy
	}
	if f.role == "" {
		f.mu.Unlock()
		return chat.Turn{}, ErrNotStarted
	}
	role := f.role
	prior := f.transcript.Turns()
	f.transcript.Append(chat.UserTurn(text))
	f.transcript.Append(chat.TypingTurn(TypingText))
	f.busy = true
	snapshot := f.transcript.Turns()
	f.mu.Unlock()

	f.persist(ctx, snapshot)

	reply, err := f.replier.Continue(ctx, role, text, prior)

	f.mu.Lock()
	f.busy = false
	var turn chat.Turn
	if err != nil {
		f.transcript.DropProvisional()
	} else if last, ok := f.transcript.Last(); ok && last.Provisional {
		turn = chat.AssistantTurn(reply)
		_ = f.transcript.ReplaceLast(turn)
	} else {
		// Cleared while waiting; the reply has nowhere to go.
		turn = chat.AssistantTurn(reply)
	}
	snapshot = f.transcript.Turns()
	f.mu.Unlock()

	f.persist(ctx, snapshot)
	if err != nil {
		f.logger.Warn().Err(err).Str("role", role).Msg("sending answer failed")
		return chat.Turn{}, err
	}
	return turn, nil
}

// Clear empties the transcript and removes the persisted copy.
func (f *Flow) Clear(ctx context.Context) {
	f.mu.Lock()
	f.transcript.Clear()
	f.mu.Unlock()

	if err := f.store.DeleteTranscript(ctx, f.key); err != nil {
		f.logger.Warn().Err(err).Msg("deleting interview transcript failed")
	}
}

// Export writes the transcript as plain text.
func (f *Flow) Export(w io.Writer) error {
	turns := f.Transcript()
	if _, err := fmt.Fprintln(w, "CareerPath AI - Interview Chat"); err != nil {
		return err
	}
	for _, turn := range turns {
		speaker := "Bot"
		if turn.Role == chat.RoleUser {
			speaker = "You"
		}
		if _, err := fmt.Fprintf(w, "\n%s: %s\n", speaker, turn.Content); err != nil {
			return err
		}
	}
	return nil
}

func (f *Flow) persist(ctx context.Context, turns []chat.Turn) {
	if err := f.store.SaveTranscript(ctx, f.key, turns); err != nil {
		f.logger.Warn().Err(err).Msg("saving interview transcript failed")
	}
}
