package chat

import "time"

// UntitledLabel is shown for sessions the backend did not categorise.
const UntitledLabel = "Untitled Chat"

// Session is one conversation thread as returned by the backend.
type Session struct {
	ID        string    `json:"_id"`
	Kind      string    `json:"chatType,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Turn    `json:"messages"`
}

// Entry projects the session into its catalog form.
func (s Session) Entry() CatalogEntry {
	return CatalogEntry{ID: s.ID, Kind: s.Kind, CreatedAt: s.CreatedAt}
}

// CatalogEntry is the lightweight projection rendered in a session list.
type CatalogEntry struct {
	ID        string    `json:"_id"`
	Kind      string    `json:"chatType,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Label returns the display label for the entry.
func (e CatalogEntry) Label() string {
	if e.Kind == "" {
		return UntitledLabel
	}
	return e.Kind
}
