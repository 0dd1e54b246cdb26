package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

//go:embed migrations/*.sql
var migrations embed.FS

const transcriptPrefix = "transcript:"

// SQLStore keeps the state in an embedded libsql database.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLStore opens (creating if needed) the database file at path and migrates it.
func OpenSQLStore(ctx context.Context, path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("could not create database directory: %w", err)
	}

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open libsql connection: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(database.DialectTurso, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *SQLStore) SetActive(ctx context.Context, id string) error {
	if id == "" {
		return s.delete(ctx, activeKey)
	}
	return s.put(ctx, activeKey, id)
}

func (s *SQLStore) GetActive(ctx context.Context) (string, error) {
	value, _, err := s.get(ctx, activeKey)
	return value, err
}

func (s *SQLStore) SaveTranscript(ctx context.Context, key string, turns []chat.Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	return s.put(ctx, transcriptPrefix+key, string(data))
}

func (s *SQLStore) LoadTranscript(ctx context.Context, key string) ([]chat.Turn, error) {
	value, ok, err := s.get(ctx, transcriptPrefix+key)
	if err != nil || !ok {
		return nil, err
	}

	var turns []chat.Turn
	if err := json.Unmarshal([]byte(value), &turns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return turns, nil
}

func (s *SQLStore) DeleteTranscript(ctx context.Context, key string) error {
	return s.delete(ctx, transcriptPrefix+key)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) put(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
