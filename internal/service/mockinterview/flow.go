// Package mockinterview runs a generated question set: each answer is
// evaluated, wrong answers are retried and the rest advance.
package mockinterview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/analysis/verdict"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/speech"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/transcript"
)

const (
	TypingText       = "AI is typing..."
	FallbackFeedback = "Unable to evaluate your answer."
	SkippedText      = "Skipped"
	CompletedText    = "Interview completed. Well done!"
)

var (
	ErrRoleRequired     = errors.New("please enter a role")
	ErrEmptyAnswer      = errors.New("please answer the question before submitting")
	ErrNoActiveQuestion = errors.New("no question is waiting for an answer")
	ErrBusy             = errors.New("waiting for the evaluation")
	ErrNoQuestions      = errors.New("no questions were generated")
)

// Backend is the mock interview part of the Remote Completion Client.
type Backend interface {
	StartMockInterview(ctx context.Context, cfg chat.MockInterviewConfig) ([]string, error)
	EvaluateAnswer(ctx context.Context, question, answer, role string) (chat.Evaluation, error)
}

// Outcome describes what happened after an answer or skip.
type Outcome struct {
	// Feedback is the feedback turn; zero for skips.
	Feedback chat.Turn
	Decision verdict.Decision
	// Retry is set when the same question was asked again.
	Retry bool
	// Next is the question or completion turn appended afterwards.
	Next chat.Turn
	Done bool
}

// Flow is one mock interview. It is safe for concurrent use.
type Flow struct {
	backend      Backend
	speech       speech.Capability
	minQuestions int
	logger       zerolog.Logger

	mu         sync.Mutex
	role       string
	questions  []string
	current    int
	done       bool
	busy       bool
	transcript *transcript.Transcript
}

// NewFlow creates a mock interview flow. capability may be nil.
func NewFlow(backend Backend, capability speech.Capability, minQuestions int, logger zerolog.Logger) *Flow {
	if capability == nil {
		capability = speech.Noop{}
	}
	if minQuestions <= 0 {
		minQuestions = 15
	}
	return &Flow{
		backend:      backend,
		speech:       capability,
		minQuestions: minQuestions,
		logger:       logger.With().Str("component", "mockinterview").Logger(),
		transcript:   transcript.New(),
	}
}

// Transcript returns a copy of the interview transcript.
func (f *Flow) Transcript() []chat.Turn {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transcript.Turns()
}

// CurrentQuestion returns the question awaiting an answer.
func (f *Flow) CurrentQuestion() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done || f.current >= len(f.questions) {
		return "", false
	}
	return f.questions[f.current], true
}

// Progress reports the 1-based index of the current question and the total.
func (f *Flow) Progress() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current + 1, len(f.questions)
}

// Done reports whether every question has been handled.
func (f *Flow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Start requests a question set and asks the first question.
func (f *Flow) Start(ctx context.Context, role, level string) (chat.Turn, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return chat.Turn{}, ErrRoleRequired
	}

	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return chat.Turn{}, ErrBusy
	}
	f.busy = true
	f.mu.Unlock()

	questions, err := f.backend.StartMockInterview(ctx, chat.MockInterviewConfig{
		Role:            role,
		ExperienceLevel: level,
		MinQuestions:    f.minQuestions,
	})
	if err == nil && len(questions) == 0 {
		err = ErrNoQuestions
	}

	f.mu.Lock()
	f.busy = false
	if err != nil {
		f.mu.Unlock()
		f.logger.Warn().Err(err).Str("role", role).Msg("starting mock interview failed")
		return chat.Turn{}, err
	}
	f.role = role
	f.questions = questions
	f.current = 0
	f.done = false
	f.transcript.Clear()
	first := f.transcript.Append(chat.AssistantTurn(questions[0]))
	f.mu.Unlock()

	f.logger.Info().Str("role", role).Int("questions", len(questions)).Msg("mock interview started")
	f.say(ctx, first.Content)
	return first, nil
}

// SubmitAnswer evaluates text against the current question. Text is never
// interpreted as a command.
func (f *Flow) SubmitAnswer(ctx context.Context, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}, ErrEmptyAnswer
	}

	f.mu.Lock()
	question, err := f.claimLocked()
	if err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	role := f.role
	f.transcript.Append(chat.UserTurn(text))
	f.transcript.Append(chat.TypingTurn(TypingText))
	f.mu.Unlock()

	eval, evalErr := f.backend.EvaluateAnswer(ctx, question, text, role)
	fallback := evalErr != nil
	if fallback {
		f.logger.Warn().Err(evalErr).Msg("evaluating answer failed")
		eval = chat.Evaluation{Feedback: FallbackFeedback}
	}
	decision := verdict.Classify(eval)

	feedback := chat.AssistantTurn("Feedback: " + eval.Feedback)
	feedback.Fallback = fallback

	f.mu.Lock()
	f.transcript.DropProvisional()
	feedback = f.transcript.Append(feedback)
	f.mu.Unlock()

	f.say(ctx, feedback.Content)

	out := Outcome{Feedback: feedback, Decision: decision}
	if decision.Retry() {
		f.mu.Lock()
		retry := f.transcript.Append(chat.AssistantTurn(fmt.Sprintf("Let's try again: %s", question)))
		f.busy = false
		f.mu.Unlock()

		f.say(ctx, retry.Content)
		out.Retry = true
		out.Next = retry
		return out, nil
	}

	out.Next, out.Done = f.advance(ctx)
	return out, nil
}

// SkipQuestion moves past the current question without evaluation.
func (f *Flow) SkipQuestion(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if _, err := f.claimLocked(); err != nil {
		f.mu.Unlock()
		return Outcome{}, err
	}
	f.transcript.Append(chat.UserTurn(SkippedText))
	f.mu.Unlock()

	next, done := f.advance(ctx)
	return Outcome{Next: next, Done: done}, nil
}

// Listen recognizes one utterance. "skip" and "next" skip the question;
// anything else is submitted as the answer.
func (f *Flow) Listen(ctx context.Context) (string, Outcome, error) {
	if _, ok := f.CurrentQuestion(); !ok {
		return "", Outcome{}, ErrNoActiveQuestion
	}

	heard, err := f.speech.RecognizeOnce(ctx)
	if err != nil {
		return "", Outcome{}, fmt.Errorf("voice recognition failed: %w", err)
	}

	utterance := strings.ToLower(strings.TrimSpace(heard))
	switch utterance {
	case "skip", "next":
		out, err := f.SkipQuestion(ctx)
		return utterance, out, err
	default:
		out, err := f.SubmitAnswer(ctx, utterance)
		return utterance, out, err
	}
}

// claimLocked marks the flow busy and returns the current question.
func (f *Flow) claimLocked() (string, error) {
	if f.busy {
		return "", ErrBusy
	}
	if f.done || f.current >= len(f.questions) {
		return "", ErrNoActiveQuestion
	}
	f.busy = true
	return f.questions[f.current], nil
}

// advance asks the next question or completes the interview, releasing busy.
func (f *Flow) advance(ctx context.Context) (chat.Turn, bool) {
	f.mu.Lock()
	f.current++
	var next chat.Turn
	if f.current < len(f.questions) {
		next = f.transcript.Append(chat.AssistantTurn(f.questions[f.current]))
	} else {
		next = f.transcript.Append(chat.AssistantTurn(CompletedText))
		f.done = true
	}
	done := f.done
	f.busy = false
	f.mu.Unlock()

	f.say(ctx, next.Content)
	return next, done
}

func (f *Flow) say(ctx context.Context, text string) {
	if err := f.speech.Speak(ctx, text); err != nil {
		f.logger.Warn().Err(err).Msg("speaking failed")
	}
}
