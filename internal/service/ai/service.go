package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// listMarker matches a leading "1." / "1)" / "-" / "*" list marker.
var listMarker = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*])\s+`)

// ErrEmptyGeneration is returned when the generator produced no usable text.
var ErrEmptyGeneration = errors.New("generator returned empty content")

// Service wraps a Generator with the prompts of each backend endpoint.
type Service struct {
	gen     Generator
	prompts *PromptManager
	logger  zerolog.Logger
}

// NewService creates a new AI service instance
func NewService(gen Generator, logger zerolog.Logger) *Service {
	return &Service{
		gen:     gen,
		prompts: NewPromptManager(),
		logger:  logger.With().Str("component", "ai").Logger(),
	}
}

// Reply continues a free-form chat.
func (s *Service) Reply(ctx context.Context, history []chat.Turn, message string) (string, error) {
	return s.generate(ctx, Request{
		Task:    TaskChat,
		System:  s.prompts.BuildSystemPrompt(TaskChat, "", ""),
		History: history,
		Query:   message,
	})
}

// InterviewReply returns the next interviewer line. An empty answer opens the interview.
func (s *Service) InterviewReply(ctx context.Context, role string, prev []chat.Turn, answer string) (string, error) {
	query := answer
	if strings.TrimSpace(answer) == "" {
		query = fmt.Sprintf("Start the interview for the %s role.", role)
		prev = nil
	}
	return s.generate(ctx, Request{
		Task:    TaskInterview,
		System:  s.prompts.BuildSystemPrompt(TaskInterview, role, ""),
		History: prev,
		Query:   query,
		Role:    role,
	})
}

// MockQuestions generates at least one question for cfg.
func (s *Service) MockQuestions(ctx context.Context, cfg chat.MockInterviewConfig) ([]string, error) {
	text, err := s.generate(ctx, Request{
		Task:   TaskQuestions,
		System: s.prompts.BuildSystemPrompt(TaskQuestions, cfg.Role, cfg.ExperienceLevel),
		Query:  fmt.Sprintf("Write %d interview questions.", cfg.MinQuestions),
		Role:   cfg.Role,
		Count:  cfg.MinQuestions,
	})
	if err != nil {
		return nil, err
	}

	questions := ParseQuestions(text)
	if len(questions) == 0 {
		return nil, ErrEmptyGeneration
	}
	return questions, nil
}

// Evaluate grades one answer. Model output that is not JSON becomes free-text
// feedback with no verdict.
func (s *Service) Evaluate(ctx context.Context, question, answer, role string) (chat.Evaluation, error) {
	text, err := s.generate(ctx, Request{
		Task:   TaskEvaluate,
		System: s.prompts.BuildSystemPrompt(TaskEvaluate, role, ""),
		History: []chat.Turn{
			chat.AssistantTurn(question),
		},
		Query: answer,
		Role:  role,
	})
	if err != nil {
		return chat.Evaluation{}, err
	}
	return ParseEvaluation(text), nil
}

func (s *Service) generate(ctx context.Context, req Request) (string, error) {
	text, err := s.gen.Generate(ctx, req)
	if err != nil {
		s.logger.Error().Err(err).Str("task", string(req.Task)).Msg("generation failed")
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyGeneration
	}
	s.logger.Debug().Str("task", string(req.Task)).Int("length", len(text)).Msg("generated response")
	return text, nil
}

// ParseQuestions splits generated text into questions, dropping list markers.
func ParseQuestions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions
}

// ParseEvaluation extracts the JSON object from model output.
func ParseEvaluation(text string) chat.Evaluation {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		var eval chat.Evaluation
		if err := json.Unmarshal([]byte(text[start:end+1]), &eval); err == nil && eval.Feedback != "" {
			eval.Verdict = normalizeVerdict(eval.Verdict)
			return eval
		}
	}
	return chat.Evaluation{Feedback: strings.TrimSpace(text)}
}

func normalizeVerdict(v string) string {
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case "correct", "incorrect", "partial":
		return v
	default:
		return ""
	}
}
