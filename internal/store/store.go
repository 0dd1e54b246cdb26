// Package store persists the active session pointer and locally owned
// transcripts so they survive process restarts.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// activeKey is the key holding the active chat session identifier.
const activeKey = "selectedChatId"

// Store is the durable key-value surface used by the session engine.
// LoadTranscript returns (nil, nil) for an unknown key.
type Store interface {
	SetActive(ctx context.Context, id string) error
	GetActive(ctx context.Context) (string, error)
	SaveTranscript(ctx context.Context, key string, turns []chat.Turn) error
	LoadTranscript(ctx context.Context, key string) ([]chat.Turn, error)
	DeleteTranscript(ctx context.Context, key string) error
	Close() error
}

// Open constructs the store selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.StoreDriverFile:
		return NewFileStore(cfg.Path, logger), nil
	case config.StoreDriverLibSQL:
		return OpenSQLStore(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
