package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

var (
	ErrMessageRequired = errors.New("message is required")
	ErrSessionNotFound = errors.New("session not found")
)

const kindLimit = 40

// Service keeps backend chat sessions in memory.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*chat.Session
}

// NewService bootstraps the in-memory chat service.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]*chat.Session),
	}
}

// CreateSession provisions a session whose kind is derived from the first message.
func (s *Service) CreateSession(_ context.Context, firstMessage string) (chat.Session, error) {
	firstMessage = strings.TrimSpace(firstMessage)
	if firstMessage == "" {
		return chat.Session{}, ErrMessageRequired
	}

	session := &chat.Session{
		ID:        uuid.NewString(),
		Kind:      kindFrom(firstMessage),
		CreatedAt: time.Now().UTC(),
		Messages:  make([]chat.Turn, 0, 16),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return *session, nil
}

// AppendTurn adds a turn to the session history.
func (s *Service) AppendTurn(ctx context.Context, sessionID string, turn chat.Turn) error {
	return s.AppendTurns(ctx, sessionID, turn)
}

// AppendTurns adds turns to the session history as one contiguous block.
func (s *Service) AppendTurns(_ context.Context, sessionID string, turns ...chat.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	now := time.Now().UTC()
	for _, turn := range turns {
		if turn.ID == "" {
			turn.ID = uuid.NewString()
		}
		if turn.Timestamp.IsZero() {
			turn.Timestamp = now
		}
		session.Messages = append(session.Messages, turn)
	}
	return nil
}

// GetSession returns a copy of the session including its transcript.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, ErrSessionNotFound
	}

	copied := *session
	copied.Messages = make([]chat.Turn, len(session.Messages))
	copy(copied.Messages, session.Messages)
	return copied, nil
}

// ListSessions returns catalog entries, newest first.
func (s *Service) ListSessions(_ context.Context) []chat.CatalogEntry {
	s.mu.RLock()
	entries := make([]chat.CatalogEntry, 0, len(s.sessions))
	for _, session := range s.sessions {
		entries = append(entries, session.Entry())
	}
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

// DeleteSession removes a session.
func (s *Service) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func kindFrom(message string) string {
	fields := strings.Fields(message)
	kind := strings.Join(fields, " ")
	if r := []rune(kind); len(r) > kindLimit {
		kind = string(r[:kindLimit])
	}
	return kind
}
