package interview

import (
	"bytes"
	"context"
	"errors"
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
	chatservice "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/store"
)

const key = "interview_chat"

type scriptedReplier struct {
	startErr    error
	continueErr error
	release     chan struct{}
	started     chan struct{}
	lastPrior   []chat.Turn
}

func (r *scriptedReplier) Start(_ context.Context, role string) (string, error) {
	if r.startErr != nil {
		return "", r.startErr
	}
	return "first question for " + role, nil
}

func (r *scriptedReplier) Continue(_ context.Context, _, answer string, prior []chat.Turn) (string, error) {
	r.lastPrior = prior
	if r.started != nil {
		close(r.started)
	}
	if r.release != nil {
		<-r.release
	}
	if r.continueErr != nil {
		return "", r.continueErr
	}
	return "follow-up to " + answer, nil
}

func contents(turns []chat.Turn) []string {
	out := make([]string, 0, len(turns))
	for _, turn := range turns {
		out = append(out, string(turn.Role)+":"+turn.Content)
	}
	return out
}

func TestOfflineInterview(t *testing.T) {
	st := store.NewMemoryStore()
	f := NewFlow(NewOfflineReplier(), st, key, zerolog.Nop())
	ctx := context.Background()

	first, err := f.Start(ctx, "Frontend Developer")
	require.NoError(t, err)
	assert.Equal(t, "Can you explain the virtual DOM in React?", first.Content)

	for i := 0; i < 4; i++ {
		_, err := f.Answer(ctx, "answer")
		require.NoError(t, err)
	}

	turns := f.Transcript()
	require.Len(t, turns, 9)
	assert.Equal(t, "Interesting! Can you go deeper?", turns[2].Content)
	assert.Equal(t, "Why do you think that approach works best?", turns[4].Content)
	assert.Equal(t, "Good. What would you improve in your previous answer?", turns[6].Content)
	assert.Equal(t, "Interesting! Can you go deeper?", turns[8].Content)

	saved, err := st.LoadTranscript(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, contents(turns), contents(saved))
}

func TestOfflineOpeningForUnknownRole(t *testing.T) {
	f := NewFlow(NewOfflineReplier(), store.NewMemoryStore(), key, zerolog.Nop())

	first, err := f.Start(context.Background(), "Astronaut")
	require.NoError(t, err)
	assert.Equal(t, DefaultOpening, first.Content)
}

func TestStartRequiresRole(t *testing.T) {
	f := NewFlow(NewOfflineReplier(), store.NewMemoryStore(), key, zerolog.Nop())

	_, err := f.Start(context.Background(), " ")
	assert.ErrorIs(t, err, ErrRoleRequired)
}

func TestStartReplacesTranscript(t *testing.T) {
	f := NewFlow(&scriptedReplier{}, store.NewMemoryStore(), key, zerolog.Nop())
	ctx := context.Background()

	_, err := f.Start(ctx, "Data Analyst")
	require.NoError(t, err)
	_, err = f.Answer(ctx, "mean imputation")
	require.NoError(t, err)

	_, err = f.Start(ctx, "Backend Developer")
	require.NoError(t, err)
	assert.Equal(t, []string{"assistant:first question for Backend Developer"}, contents(f.Transcript()))
}

func TestStartFailureKeepsTranscript(t *testing.T) {
	r := &scriptedReplier{}
	f := NewFlow(r, store.NewMemoryStore(), key, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "Data Analyst")
	require.NoError(t, err)

	r.startErr = errors.New("offline")
	_, err = f.Start(ctx, "Backend Developer")
	require.Error(t, err)
	assert.Equal(t, "Data Analyst", f.Role())
	assert.Len(t, f.Transcript(), 1)
}

func TestAnswerPassesPriorTranscript(t *testing.T) {
	r := &scriptedReplier{}
	f := NewFlow(r, store.NewMemoryStore(), key, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "Data Analyst")
	require.NoError(t, err)

	reply, err := f.Answer(ctx, "drop rows")
	require.NoError(t, err)
	assert.Equal(t, "follow-up to drop rows", reply.Content)
	assert.Equal(t, []string{"assistant:first question for Data Analyst"}, contents(r.lastPrior))
	assert.Equal(t, []string{
		"assistant:first question for Data Analyst",
		"user:drop rows",
		"assistant:follow-up to drop rows",
	}, contents(f.Transcript()))
}

func TestAnswerFailureDropsOnlyPlaceholder(t *testing.T) {
	r := &scriptedReplier{continueErr: errors.New("timeout")}
	st := store.NewMemoryStore()
	f := NewFlow(r, st, key, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "Data Analyst")
	require.NoError(t, err)

	_, err = f.Answer(ctx, "drop rows")
	require.Error(t, err)

	want := []string{"assistant:first question for Data Analyst", "user:drop rows"}
	assert.Equal(t, want, contents(f.Transcript()))
	saved, _ := st.LoadTranscript(ctx, key)
	assert.Equal(t, want, contents(saved))
}

func TestAnswerWhileBusy(t *testing.T) {
	r := &scriptedReplier{started: make(chan struct{}), release: make(chan struct{})}
	f := NewFlow(r, store.NewMemoryStore(), key, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "Data Analyst")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.Answer(ctx, "first")
		done <- err
	}()
	<-r.started

	turns := f.Transcript()
	require.Len(t, turns, 3)
	assert.True(t, turns[2].Provisional)
	assert.Equal(t, TypingText, turns[2].Content)

	_, err = f.Answer(ctx, "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(r.release)
	require.NoError(t, <-done)
	assert.Len(t, f.Transcript(), 3)
	assert.False(t, f.Transcript()[2].Provisional)
}

func TestAnswerValidation(t *testing.T) {
	f := NewFlow(&scriptedReplier{}, store.NewMemoryStore(), key, zerolog.Nop())
	ctx := context.Background()

	_, err := f.Answer(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	_, err = f.Answer(ctx, "hello")
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Empty(t, f.Transcript())
}

func TestRestoreAndClear(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, st.SaveTranscript(ctx, key, []chat.Turn{
		chat.AssistantTurn("q1"),
		chat.UserTurn("a1"),
		chat.TypingTurn(TypingText),
	}))

	f := NewFlow(&scriptedReplier{}, st, key, zerolog.Nop())
	f.Restore(ctx)
	assert.Equal(t, []string{"assistant:q1", "user:a1"}, contents(f.Transcript()))

	f.Clear(ctx)
	assert.Empty(t, f.Transcript())
	saved, err := st.LoadTranscript(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestExport(t *testing.T) {
	f := NewFlow(&scriptedReplier{}, store.NewMemoryStore(), key, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "QA")
	require.NoError(t, err)
	_, err = f.Answer(ctx, "I test things")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Export(&buf))
	out := buf.String()
	assert.Contains(t, out, "CareerPath AI - Interview Chat")
	assert.Contains(t, out, "Bot: first question for QA")
	assert.Contains(t, out, "You: I test things")
}

func TestRemoteReplierAgainstReferenceBackend(t *testing.T) {
	aiSvc := aiservice.NewService(aiservice.NewCannedGenerator(), zerolog.Nop())
	srv := httptest.NewServer(handler.NewRouter(chatservice.NewService(), aiSvc, zerolog.Nop()))
	defer srv.Close()

	cl, err := client.New(config.ClientConfig{BaseURL: srv.URL + "/api", Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)

	f := NewFlow(NewRemoteReplier(cl), store.NewMemoryStore(), key, zerolog.Nop())
	ctx := context.Background()

	first, err := f.Start(ctx, "Backend Developer")
	require.NoError(t, err)
	assert.Equal(t, "What are the differences between SQL and NoSQL?", first.Content)

	reply, err := f.Answer(ctx, "Schemas")
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Content)
	assert.Len(t, f.Transcript(), 3)
}
