// Package session implements the chat Session Controller: a single-flight
// state machine that keeps the active transcript consistent with the backend.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/client"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/store"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/transcript"
)

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrSubmitInFlight = errors.New("a message is already being sent")
)

// State is the controller's position in its state machine.
type State int

const (
	Idle State = iota
	Active
	Sending
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Sending:
		return "sending"
	default:
		return "unknown"
	}
}

// Backend is the part of the Remote Completion Client the controller needs.
type Backend interface {
	ContinueSession(ctx context.Context, sessionID, message string, prior []chat.Turn) (client.Reply, error)
	LoadSession(ctx context.Context, id string) (chat.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// Refresher refreshes the session catalog.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Controller owns the active session, its transcript and the persisted
// active-session pointer. It is safe for concurrent use.
type Controller struct {
	backend Backend
	store   store.Store
	catalog Refresher
	logger  zerolog.Logger

	mu         sync.Mutex
	state      State
	sessionID  string
	transcript *transcript.Transcript
	// generation changes whenever the active session is replaced; responses
	// issued under an older generation are discarded.
	generation uint64
}

// NewController wires a controller. catalog may be nil.
func NewController(backend Backend, st store.Store, catalog Refresher, logger zerolog.Logger) *Controller {
	return &Controller{
		backend:    backend,
		store:      st,
		catalog:    catalog,
		logger:     logger.With().Str("component", "session").Logger(),
		transcript: transcript.New(),
	}
}

// State reports the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the active session id, empty when none.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Transcript returns a copy of the active transcript.
func (c *Controller) Transcript() []chat.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Turns()
}

// Restore re-opens the session named by the persisted pointer. A pointer to a
// session the backend no longer knows is cleared silently; other failures are
// returned with the pointer left intact.
func (c *Controller) Restore(ctx context.Context) error {
	id, err := c.store.GetActive(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("reading active session failed, starting idle")
		return nil
	}
	if id == "" {
		return nil
	}

	gen := c.currentGeneration()
	session, err := c.backend.LoadSession(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			c.mu.Lock()
			stale := c.generation != gen
			if !stale {
				c.resetLocked()
			}
			c.mu.Unlock()
			if !stale {
				c.logger.Info().Str("sessionId", id).Msg("active session no longer exists, clearing pointer")
				c.persistActive(ctx, "")
			}
			return nil
		}
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return nil
	}
	c.adoptLocked(id, session.Messages)
	return nil
}

// Load switches to an existing session. On failure nothing changes.
func (c *Controller) Load(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return client.ErrNotFound
	}

	session, err := c.backend.LoadSession(ctx, id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.generation++
	c.adoptLocked(id, session.Messages)
	c.mu.Unlock()

	c.persistActive(ctx, id)
	return nil
}

// Submit sends text as the next user turn. The user turn is appended before
// the request and kept when the request fails.
func (c *Controller) Submit(ctx context.Context, text string) (SubmitResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return rejected(ErrEmptyMessage)
	}

	c.mu.Lock()
	if c.state == Sending {
		c.mu.Unlock()
		return rejected(ErrSubmitInFlight)
	}
	previous := c.state
	sessionID := c.sessionID
	prior := c.transcript.Turns()
	c.transcript.Append(chat.UserTurn(text))
	c.state = Sending
	gen := c.generation
	c.mu.Unlock()

	reply, err := c.backend.ContinueSession(ctx, sessionID, text, prior)
	if err != nil {
		return c.fail(gen, previous, sessionID, err)
	}

	if sessionID == "" {
		return c.reconcile(ctx, gen, reply)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return discarded(sessionID)
	}
	turn := c.transcript.Append(chat.AssistantTurn(reply.Content))
	c.state = Active
	return SubmitResult{Status: StatusAppended, SessionID: sessionID, Reply: turn}, nil
}

// reconcile adopts a newly minted session and replaces the optimistic
// transcript with the backend's copy. When that copy cannot be fetched the
// session is still adopted, the unconfirmed reply is dropped and the load
// error is returned.
func (c *Controller) reconcile(ctx context.Context, gen uint64, reply client.Reply) (SubmitResult, error) {
	session, loadErr := c.backend.LoadSession(ctx, reply.SessionID)

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return discarded(reply.SessionID)
	}

	c.sessionID = reply.SessionID
	c.state = Active
	result := SubmitResult{Status: StatusFailed, SessionID: reply.SessionID, Err: loadErr}
	if loadErr == nil {
		c.transcript.Reset(session.Messages)
		result = SubmitResult{Status: StatusReconciled, SessionID: reply.SessionID, Transcript: c.transcript.Turns()}
	}
	c.mu.Unlock()

	if loadErr != nil {
		c.logger.Warn().Err(loadErr).Str("sessionId", reply.SessionID).Msg("reconciling new session failed")
	}
	c.persistActive(ctx, reply.SessionID)
	c.refreshCatalog(ctx)
	return result, loadErr
}

func (c *Controller) fail(gen uint64, previous State, sessionID string, err error) (SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return discarded(sessionID)
	}
	c.state = previous
	c.logger.Warn().Err(err).Str("sessionId", sessionID).Msg("submit failed")
	return SubmitResult{Status: StatusFailed, SessionID: sessionID, Err: err}, err
}

// NewSession clears the active session locally. The backend is not contacted.
func (c *Controller) NewSession(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	c.resetLocked()
	c.mu.Unlock()

	c.persistActive(ctx, "")
}

// DeleteSession removes id server-side, clears it locally when active and
// refreshes the catalog. Deleting an unknown session still clears local state
// and returns the not-found error.
func (c *Controller) DeleteSession(ctx context.Context, id string) error {
	err := c.backend.DeleteSession(ctx, id)
	if err != nil && !client.IsNotFound(err) {
		return err
	}

	if c.SessionID() == id {
		c.NewSession(ctx)
	}
	c.refreshCatalog(ctx)
	return err
}

func (c *Controller) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Controller) adoptLocked(id string, turns []chat.Turn) {
	c.sessionID = id
	c.transcript.Reset(turns)
	c.state = Active
}

func (c *Controller) resetLocked() {
	c.sessionID = ""
	c.transcript.Clear()
	c.state = Idle
}

func (c *Controller) persistActive(ctx context.Context, id string) {
	if err := c.store.SetActive(ctx, id); err != nil {
		c.logger.Warn().Err(err).Str("sessionId", id).Msg("persisting active session failed")
	}
}

func (c *Controller) refreshCatalog(ctx context.Context) {
	if c.catalog == nil {
		return
	}
	// Manager.Refresh logs its own failures.
	_ = c.catalog.Refresh(ctx)
}
