package store

import (
	"context"
	"sync"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// MemoryStore keeps everything in process memory. Useful for tests and
// for shells started without a writable state directory.
type MemoryStore struct {
	mu          sync.RWMutex
	active      string
	transcripts map[string][]chat.Turn
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{transcripts: make(map[string][]chat.Turn)}
}

func (s *MemoryStore) SetActive(_ context.Context, id string) error {
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetActive(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, nil
}

func (s *MemoryStore) SaveTranscript(_ context.Context, key string, turns []chat.Turn) error {
	s.mu.Lock()
	s.transcripts[key] = append([]chat.Turn(nil), turns...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadTranscript(_ context.Context, key string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns, ok := s.transcripts[key]
	if !ok {
		return nil, nil
	}
	return append([]chat.Turn(nil), turns...), nil
}

func (s *MemoryStore) DeleteTranscript(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.transcripts, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
