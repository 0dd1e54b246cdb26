package mockinterview

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/analysis/verdict"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/client"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/handler"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
	aiservice "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/ai"
	chatservice "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/speech"
)

type fakeBackend struct {
	questions []string
	startErr  error
	evaluate  func(question, answer string) (chat.Evaluation, error)
	lastCfg   chat.MockInterviewConfig
	evals     int
}

func (b *fakeBackend) StartMockInterview(_ context.Context, cfg chat.MockInterviewConfig) ([]string, error) {
	b.lastCfg = cfg
	return b.questions, b.startErr
}

func (b *fakeBackend) EvaluateAnswer(_ context.Context, question, answer, _ string) (chat.Evaluation, error) {
	b.evals++
	return b.evaluate(question, answer)
}

type recordingSpeech struct {
	mu     sync.Mutex
	spoken []string
	heard  []string
}

func (s *recordingSpeech) RecognizeOnce(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.heard) == 0 {
		return "", speech.ErrNoSpeech
	}
	h := s.heard[0]
	s.heard = s.heard[1:]
	return h, nil
}

func (s *recordingSpeech) Speak(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
	return nil
}

func contents(turns []chat.Turn) []string {
	out := make([]string, 0, len(turns))
	for _, turn := range turns {
		out = append(out, string(turn.Role)+":"+turn.Content)
	}
	return out
}

func judgeByLength(_ string, answer string) (chat.Evaluation, error) {
	if len(answer) < 5 {
		return chat.Evaluation{Feedback: "That is incorrect."}, nil
	}
	return chat.Evaluation{Feedback: "Good answer.", Verdict: "correct"}, nil
}

func TestStartAsksFirstQuestion(t *testing.T) {
	b := &fakeBackend{questions: []string{"Q1", "Q2"}, evaluate: judgeByLength}
	voice := &recordingSpeech{}
	f := NewFlow(b, voice, 15, zerolog.Nop())

	first, err := f.Start(context.Background(), "Frontend Developer", "Beginner")
	require.NoError(t, err)
	assert.Equal(t, "Q1", first.Content)
	assert.Equal(t, chat.MockInterviewConfig{Role: "Frontend Developer", ExperienceLevel: "Beginner", MinQuestions: 15}, b.lastCfg)
	assert.Equal(t, []string{"Q1"}, voice.spoken)

	q, ok := f.CurrentQuestion()
	assert.True(t, ok)
	assert.Equal(t, "Q1", q)
	cur, total := f.Progress()
	assert.Equal(t, 1, cur)
	assert.Equal(t, 2, total)
}

func TestStartValidation(t *testing.T) {
	b := &fakeBackend{}
	f := NewFlow(b, nil, 0, zerolog.Nop())

	_, err := f.Start(context.Background(), "", "Beginner")
	assert.ErrorIs(t, err, ErrRoleRequired)

	_, err = f.Start(context.Background(), "QA", "Beginner")
	assert.ErrorIs(t, err, ErrNoQuestions)

	b.startErr = errors.New("offline")
	_, err = f.Start(context.Background(), "QA", "Beginner")
	assert.Error(t, err)
	assert.Equal(t, 15, b.lastCfg.MinQuestions)
}

func TestCorrectAnswerAdvancesToCompletion(t *testing.T) {
	b := &fakeBackend{questions: []string{"Q1", "Q2"}, evaluate: judgeByLength}
	voice := &recordingSpeech{}
	f := NewFlow(b, voice, 2, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "QA", "Beginner")
	require.NoError(t, err)

	out, err := f.SubmitAnswer(ctx, "a thorough answer")
	require.NoError(t, err)
	assert.Equal(t, "Feedback: Good answer.", out.Feedback.Content)
	assert.Equal(t, verdict.Correct, out.Decision.Verdict)
	assert.False(t, out.Retry)
	assert.Equal(t, "Q2", out.Next.Content)
	assert.False(t, out.Done)

	out, err = f.SubmitAnswer(ctx, "another good answer")
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Equal(t, CompletedText, out.Next.Content)
	assert.True(t, f.Done())

	_, err = f.SubmitAnswer(ctx, "too late")
	assert.ErrorIs(t, err, ErrNoActiveQuestion)

	assert.Equal(t, []string{
		"assistant:Q1",
		"user:a thorough answer",
		"assistant:Feedback: Good answer.",
		"assistant:Q2",
		"user:another good answer",
		"assistant:Feedback: Good answer.",
		"assistant:" + CompletedText,
	}, contents(f.Transcript()))
	assert.Equal(t, []string{"Q1", "Feedback: Good answer.", "Q2", "Feedback: Good answer.", CompletedText}, voice.spoken)
}

func TestIncorrectAnswerRetriesSameQuestion(t *testing.T) {
	b := &fakeBackend{questions: []string{"Q1", "Q2"}, evaluate: judgeByLength}
	f := NewFlow(b, nil, 2, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "QA", "Beginner")
	require.NoError(t, err)

	out, err := f.SubmitAnswer(ctx, "no")
	require.NoError(t, err)
	assert.True(t, out.Retry)
	assert.Equal(t, verdict.SourceKeywords, out.Decision.Source)
	assert.Equal(t, "Let's try again: Q1", out.Next.Content)

	q, _ := f.CurrentQuestion()
	assert.Equal(t, "Q1", q)

	out, err = f.SubmitAnswer(ctx, "a better answer")
	require.NoError(t, err)
	assert.Equal(t, "Q2", out.Next.Content)
}

func TestStructuredVerdictWinsOverKeywords(t *testing.T) {
	b := &fakeBackend{
		questions: []string{"Q1", "Q2"},
		evaluate: func(string, string) (chat.Evaluation, error) {
			return chat.Evaluation{Feedback: "Nothing wrong here.", Verdict: "correct"}, nil
		},
	}
	f := NewFlow(b, nil, 2, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "QA", "Beginner")
	require.NoError(t, err)

	out, err := f.SubmitAnswer(ctx, "answer")
	require.NoError(t, err)
	assert.False(t, out.Retry)
	assert.Equal(t, "Q2", out.Next.Content)
}

func TestEvaluationFailureUsesMarkedFallback(t *testing.T) {
	b := &fakeBackend{
		questions: []string{"Q1", "Q2"},
		evaluate: func(string, string) (chat.Evaluation, error) {
			return chat.Evaluation{}, &client.TransportError{Op: "evaluate answer", Err: context.DeadlineExceeded}
		},
	}
	f := NewFlow(b, nil, 2, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "QA", "Beginner")
	require.NoError(t, err)

	out, err := f.SubmitAnswer(ctx, "my answer")
	require.NoError(t, err)
	assert.Equal(t, "Feedback: "+FallbackFeedback, out.Feedback.Content)
	assert.True(t, out.Feedback.Fallback)
	assert.Equal(t, "Q2", out.Next.Content)

	for _, turn := range f.Transcript() {
		assert.False(t, turn.Provisional)
	}
}

func TestSkipQuestion(t *testing.T) {
	b := &fakeBackend{questions: []string{"Q1"}, evaluate: judgeByLength}
	f := NewFlow(b, nil, 1, zerolog.Nop())
	ctx := context.Background()

	_, err := f.SkipQuestion(ctx)
	assert.ErrorIs(t, err, ErrNoActiveQuestion)

	_, err = f.Start(ctx, "QA", "Beginner")
	require.NoError(t, err)

	out, err := f.SkipQuestion(ctx)
	require.NoError(t, err)
	assert.True(t, out.Done)
	assert.Equal(t, 0, b.evals)
	assert.Equal(t, []string{"assistant:Q1", "user:" + SkippedText, "assistant:" + CompletedText}, contents(f.Transcript()))
}

func TestTypedSkipIsAnAnswer(t *testing.T) {
	b := &fakeBackend{questions: []string{"Q1", "Q2"}, evaluate: judgeByLength}
	f := NewFlow(b, nil, 2, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "QA", "Beginner")
	require.NoError(t, err)

	_, err = f.SubmitAnswer(ctx, "skip")
	require.NoError(t, err)
	assert.Equal(t, 1, b.evals)
}

func TestSubmitAnswerValidation(t *testing.T) {
	f := NewFlow(&fakeBackend{}, nil, 1, zerolog.Nop())

	_, err := f.SubmitAnswer(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	_, err = f.SubmitAnswer(context.Background(), "answer")
	assert.ErrorIs(t, err, ErrNoActiveQuestion)
}

func TestSubmitWhileEvaluating(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	b := &fakeBackend{
		questions: []string{"Q1", "Q2"},
		evaluate: func(string, string) (chat.Evaluation, error) {
			close(started)
			<-release
			return chat.Evaluation{Feedback: "fine", Verdict: "correct"}, nil
		},
	}
	f := NewFlow(b, nil, 2, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "QA", "Beginner")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.SubmitAnswer(ctx, "first")
		done <- err
	}()
	<-started

	turns := f.Transcript()
	assert.True(t, turns[len(turns)-1].Provisional)

	_, err = f.SubmitAnswer(ctx, "second")
	assert.ErrorIs(t, err, ErrBusy)
	_, err = f.SkipQuestion(ctx)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestListenMapsVoiceCommands(t *testing.T) {
	b := &fakeBackend{questions: []string{"Q1", "Q2", "Q3"}, evaluate: judgeByLength}
	voice := &recordingSpeech{heard: []string{" Next ", "Closures capture scope"}}
	f := NewFlow(b, voice, 3, zerolog.Nop())
	ctx := context.Background()
	_, err := f.Start(ctx, "QA", "Beginner")
	require.NoError(t, err)

	heard, out, err := f.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, "next", heard)
	assert.Equal(t, "Q2", out.Next.Content)
	assert.Equal(t, 0, b.evals)

	heard, out, err = f.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, "closures capture scope", heard)
	assert.Equal(t, 1, b.evals)
	assert.Equal(t, "Q3", out.Next.Content)

	_, _, err = f.Listen(ctx)
	assert.ErrorIs(t, err, speech.ErrNoSpeech)
}

func TestListenWithoutSpeechSupport(t *testing.T) {
	b := &fakeBackend{questions: []string{"Q1"}, evaluate: judgeByLength}
	f := NewFlow(b, speech.Noop{}, 1, zerolog.Nop())
	_, err := f.Start(context.Background(), "QA", "Beginner")
	require.NoError(t, err)

	_, _, err = f.Listen(context.Background())
	assert.ErrorIs(t, err, speech.ErrUnavailable)
	assert.Len(t, f.Transcript(), 1)
}

func TestFlowAgainstReferenceBackend(t *testing.T) {
	aiSvc := aiservice.NewService(aiservice.NewCannedGenerator(), zerolog.Nop())
	srv := httptest.NewServer(handler.NewRouter(chatservice.NewService(), aiSvc, zerolog.Nop()))
	defer srv.Close()

	cl, err := client.New(config.ClientConfig{BaseURL: srv.URL + "/api", Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)

	f := NewFlow(cl, nil, 2, zerolog.Nop())
	ctx := context.Background()
	_, err = f.Start(ctx, "Data Analyst", "Intermediate")
	require.NoError(t, err)

	out, err := f.SubmitAnswer(ctx, "no")
	require.NoError(t, err)
	assert.True(t, out.Retry)

	out, err = f.SubmitAnswer(ctx, "I would impute with the median")
	require.NoError(t, err)
	assert.False(t, out.Retry)
	_, total := f.Progress()
	assert.Equal(t, 2, total)
}
