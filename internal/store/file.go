package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// fileState is the on-disk document.
type fileState struct {
	Active      string                 `json:"selectedChatId,omitempty"`
	Transcripts map[string][]chat.Turn `json:"transcripts,omitempty"`
}

// errCorruptState marks a state file that exists but cannot be decoded.
var errCorruptState = errors.New("corrupt state file")

// FileStore keeps the state in a single JSON document, rewritten atomically.
// A corrupt document is moved aside to <path>.corrupt on the next write.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger zerolog.Logger
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With().Str("component", "file-store").Logger(),
	}
}

func (f *FileStore) SetActive(_ context.Context, id string) error {
	return f.update(func(st *fileState) { st.Active = id })
}

func (f *FileStore) GetActive(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, err := f.read()
	if err != nil {
		return "", err
	}
	return st.Active, nil
}

func (f *FileStore) SaveTranscript(_ context.Context, key string, turns []chat.Turn) error {
	return f.update(func(st *fileState) {
		st.Transcripts[key] = append([]chat.Turn(nil), turns...)
	})
}

func (f *FileStore) LoadTranscript(_ context.Context, key string) ([]chat.Turn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, err := f.read()
	if err != nil {
		return nil, err
	}
	return st.Transcripts[key], nil
}

func (f *FileStore) DeleteTranscript(_ context.Context, key string) error {
	return f.update(func(st *fileState) { delete(st.Transcripts, key) })
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) update(mutate func(*fileState)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, err := f.read()
	if errors.Is(err, errCorruptState) {
		st, err = f.quarantine(err)
	}
	if err != nil {
		return err
	}
	mutate(st)
	return f.write(st)
}

// quarantine moves the undecodable file aside and starts from an empty state.
func (f *FileStore) quarantine(cause error) (*fileState, error) {
	aside := f.path + ".corrupt"
	if err := os.Rename(f.path, aside); err != nil {
		return nil, fmt.Errorf("failed to move corrupt state file: %w", err)
	}
	f.logger.Warn().Err(cause).Str("movedTo", aside).Msg("state file was corrupt, starting fresh")
	return &fileState{Transcripts: make(map[string][]chat.Turn)}, nil
}

func (f *FileStore) read() (*fileState, error) {
	st := &fileState{Transcripts: make(map[string][]chat.Turn)}

	data, err := os.ReadFile(f.path) // #nosec G304 - path comes from configuration
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return st, nil
	}

	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("%w: %w", errCorruptState, err)
	}
	if st.Transcripts == nil {
		st.Transcripts = make(map[string][]chat.Turn)
	}
	return st, nil
}

func (f *FileStore) write(st *fileState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}
