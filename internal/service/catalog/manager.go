// Package catalog keeps the display-ready session list in sync with the backend.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// Lister fetches the session catalog from the backend.
type Lister interface {
	ListSessions(ctx context.Context) ([]chat.CatalogEntry, error)
}

// Manager holds the last successfully fetched catalog. A failed refresh
// leaves the previous snapshot in place.
type Manager struct {
	lister Lister
	logger zerolog.Logger

	mu          sync.RWMutex
	entries     []chat.CatalogEntry
	refreshedAt time.Time
}

// NewManager creates a catalog manager backed by lister.
func NewManager(lister Lister, logger zerolog.Logger) *Manager {
	return &Manager{
		lister: lister,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Refresh replaces the snapshot with the backend's current catalog.
func (m *Manager) Refresh(ctx context.Context) error {
	entries, err := m.lister.ListSessions(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("catalog refresh failed")
		return err
	}

	copied := make([]chat.CatalogEntry, len(entries))
	copy(copied, entries)

	m.mu.Lock()
	m.entries = copied
	m.refreshedAt = time.Now()
	m.mu.Unlock()

	m.logger.Debug().Int("sessions", len(copied)).Msg("catalog refreshed")
	return nil
}

// Snapshot returns a copy of the current catalog.
func (m *Manager) Snapshot() []chat.CatalogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copied := make([]chat.CatalogEntry, len(m.entries))
	copy(copied, m.entries)
	return copied
}

// Find looks up an entry by id in the current snapshot.
func (m *Manager) Find(id string) (chat.CatalogEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, entry := range m.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return chat.CatalogEntry{}, false
}

// RefreshedAt reports when the last successful refresh completed.
func (m *Manager) RefreshedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshedAt
}
