// Package client talks to the CareerPath backend REST API. Every call is a
// single request/response exchange; nothing is retried here.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
)

// RequestIDHeader carries a per-request id the backend echoes in its logs.
const RequestIDHeader = "X-Request-Id"

const maxBodyBytes = 4 << 20

// Reply is one assistant answer plus the session it belongs to.
type Reply struct {
	SessionID string
	Content   string
}

// Client is the Remote Completion Client.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is left untouched.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New builds a client for cfg.BaseURL with cfg.Timeout applied to every request.
func New(cfg config.ClientConfig, logger zerolog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", cfg.BaseURL)
	}

	// Auth is cookie based; the jar keeps the session cookie across calls.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(base.String(), "/"),
		http:    &http.Client{Timeout: timeout, Jar: jar},
		logger:  logger.With().Str("component", "client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListSessions fetches the session catalog.
func (c *Client) ListSessions(ctx context.Context) ([]chat.CatalogEntry, error) {
	var entries []chat.CatalogEntry
	if err := c.do(ctx, "list sessions", http.MethodGet, "/chat", nil, catalogSchema, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []chat.CatalogEntry{}
	}
	return entries, nil
}

// LoadSession fetches one session with its full transcript.
func (c *Client) LoadSession(ctx context.Context, id string) (chat.Session, error) {
	var session chat.Session
	path := "/chat/" + url.PathEscape(id)
	if err := c.do(ctx, "load session", http.MethodGet, path, nil, sessionSchema, &session); err != nil {
		return chat.Session{}, err
	}
	return session, nil
}

// ContinueSession sends message to the chat backend. An empty sessionID asks
// the backend to mint a new session, whose id is returned in the Reply. The
// backend keeps its own copy of the history, so prior turns are not sent.
func (c *Client) ContinueSession(ctx context.Context, sessionID, message string, _ []chat.Turn) (Reply, error) {
	body := struct {
		Message string `json:"message"`
		ChatID  string `json:"chatId,omitempty"`
	}{Message: message, ChatID: sessionID}

	var resp struct {
		Reply  string `json:"reply"`
		ChatID string `json:"chatId"`
	}
	if err := c.do(ctx, "send message", http.MethodPost, "/chat/message", body, messageSchema, &resp); err != nil {
		return Reply{}, err
	}

	id := resp.ChatID
	if id == "" {
		id = sessionID
	}
	if id == "" {
		return Reply{}, &MalformedResponseError{Op: "send message", Reason: "chatId missing for a new session"}
	}
	return Reply{SessionID: id, Content: resp.Reply}, nil
}

// DeleteSession removes a session server-side.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	path := "/chat/" + url.PathEscape(id)
	return c.do(ctx, "delete session", http.MethodDelete, path, nil, nil, nil)
}

// StartInterview opens an interview for role and returns the first question.
func (c *Client) StartInterview(ctx context.Context, role string) (Reply, error) {
	body := struct {
		Role string `json:"role"`
	}{Role: role}

	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.do(ctx, "start interview", http.MethodPost, "/interview/start", body, replySchema, &resp); err != nil {
		return Reply{}, err
	}
	return Reply{Content: resp.Reply}, nil
}

// ContinueInterview sends an answer with the full prior transcript; the
// interview endpoint is stateless.
func (c *Client) ContinueInterview(ctx context.Context, role, answer string, prior []chat.Turn) (Reply, error) {
	type prevMessage struct {
		Role    chat.Role `json:"role"`
		Content string    `json:"content"`
	}
	prev := make([]prevMessage, 0, len(prior))
	for _, turn := range prior {
		if turn.Provisional {
			continue
		}
		prev = append(prev, prevMessage{Role: turn.Role, Content: turn.Content})
	}

	body := struct {
		Role         string        `json:"role"`
		UserAnswer   string        `json:"userAnswer"`
		PrevMessages []prevMessage `json:"prevMessages"`
	}{Role: role, UserAnswer: answer, PrevMessages: prev}

	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.do(ctx, "continue interview", http.MethodPost, "/interview/start", body, replySchema, &resp); err != nil {
		return Reply{}, err
	}
	return Reply{Content: resp.Reply}, nil
}

// StartMockInterview requests a generated question set.
func (c *Client) StartMockInterview(ctx context.Context, cfg chat.MockInterviewConfig) ([]string, error) {
	var resp struct {
		Questions []string `json:"questions"`
	}
	if err := c.do(ctx, "start mock interview", http.MethodPost, "/ai/mock-interview", cfg, questionsSchema, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// EvaluateAnswer asks the backend to judge one answer.
func (c *Client) EvaluateAnswer(ctx context.Context, question, answer, role string) (chat.Evaluation, error) {
	body := struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
		Role     string `json:"role"`
	}{Question: question, Answer: answer, Role: role}

	var eval chat.Evaluation
	if err := c.do(ctx, "evaluate answer", http.MethodPost, "/ai/evaluate-answer", body, evaluationSchema, &eval); err != nil {
		return chat.Evaluation{}, err
	}
	return eval, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in any, schema *gojsonschema.Schema, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Str("requestId", reqID).Msg("request failed")
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	c.logger.Debug().
		Str("op", op).
		Str("requestId", reqID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	if schema != nil {
		if err := validate(op, schema, data); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &MalformedResponseError{Op: op, Reason: err.Error()}
	}
	return nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from an error body.
func errorMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return ""
}
