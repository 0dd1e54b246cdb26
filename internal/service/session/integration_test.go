package session

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/client"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/handler"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
	aiservice "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/ai"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/service/catalog"
	chatservice "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/store"
)

func TestControllerAgainstReferenceBackend(t *testing.T) {
	chatSvc := chatservice.NewService()
	aiSvc := aiservice.NewService(aiservice.NewCannedGenerator(), zerolog.Nop())
	srv := httptest.NewServer(handler.NewRouter(chatSvc, aiSvc, zerolog.Nop()))
	defer srv.Close()

	cl, err := client.New(config.ClientConfig{BaseURL: srv.URL + "/api", Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)

	st := store.NewMemoryStore()
	list := catalog.NewManager(cl, zerolog.Nop())
	c := NewController(cl, st, list, zerolog.Nop())
	ctx := context.Background()

	res, err := c.Submit(ctx, "Explain closures")
	require.NoError(t, err)
	require.Equal(t, StatusReconciled, res.Status)

	remote, err := cl.LoadSession(ctx, res.SessionID)
	require.NoError(t, err)
	assert.Equal(t, contents(remote.Messages), contents(c.Transcript()))

	entries := list.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, res.SessionID, entries[0].ID)

	res2, err := c.Submit(ctx, "And in Go?")
	require.NoError(t, err)
	assert.Equal(t, StatusAppended, res2.Status)
	assert.Len(t, c.Transcript(), 4)

	// A second controller over the same store picks the session back up.
	restored := NewController(cl, st, list, zerolog.Nop())
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, res.SessionID, restored.SessionID())
	assert.Equal(t, contents(c.Transcript()), contents(restored.Transcript()))

	require.NoError(t, c.DeleteSession(ctx, res.SessionID))
	assert.Empty(t, list.Snapshot())

	fresh := NewController(cl, st, list, zerolog.Nop())
	require.NoError(t, fresh.Restore(ctx))
	assert.Equal(t, Idle, fresh.State())

	roles := make([]chat.Role, 0, 4)
	for _, turn := range remote.Messages {
		roles = append(roles, turn.Role)
	}
	assert.Equal(t, []chat.Role{chat.RoleUser, chat.RoleAssistant}, roles)
}
