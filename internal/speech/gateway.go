package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/config"
)

// Message types exchanged with the gateway.
const (
	TypeRecognize  = "recognize"
	TypeTranscript = "transcript"
	TypeSpeak      = "speak"
	TypeSpoken     = "spoken"
	TypeError      = "error"
)

// Envelope is the frame format on the gateway connection.
type Envelope struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// RecognizeRequest asks the gateway for one utterance.
type RecognizeRequest struct {
	Language string `json:"language"`
}

// TranscriptMessage carries recognized text.
type TranscriptMessage struct {
	Text       string  `json:"text"`
	IsFinal    bool    `json:"isFinal"`
	Confidence float64 `json:"confidence,omitempty"`
}

// SpeakRequest asks the gateway to synthesize and play text.
type SpeakRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice,omitempty"`
	Language string `json:"language"`
}

// ErrorMessage is sent by the gateway when an operation fails.
type ErrorMessage struct {
	Message string `json:"message"`
}

// GatewayError is a failure reported by the gateway itself.
type GatewayError struct {
	Op      string
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("speech %s: gateway error: %s", e.Op, e.Message)
}

// Gateway implements Capability against a websocket speech gateway. Each
// operation uses its own connection; operations are serialized.
type Gateway struct {
	url      string
	language string
	voice    string
	timeout  time.Duration
	dialer   *websocket.Dialer
	logger   zerolog.Logger

	mu sync.Mutex
}

// NewGateway builds a gateway capability from cfg.
func NewGateway(cfg config.SpeechConfig, logger zerolog.Logger) (*Gateway, error) {
	if strings.TrimSpace(cfg.GatewayURL) == "" {
		return nil, fmt.Errorf("speech gateway url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	language := cfg.Language
	if language == "" {
		language = "en-US"
	}

	return &Gateway{
		url:      cfg.GatewayURL,
		language: language,
		voice:    cfg.Voice,
		timeout:  timeout,
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
		logger: logger.With().Str("component", "speech").Logger(),
	}, nil
}

// New returns the gateway when speech is enabled and Noop otherwise.
func New(cfg config.SpeechConfig, logger zerolog.Logger) (Capability, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	return NewGateway(cfg, logger)
}

// RecognizeOnce implements Capability. Interim transcripts are skipped.
func (g *Gateway) RecognizeOnce(ctx context.Context) (string, error) {
	var text string
	err := g.exchange(ctx, TypeRecognize, RecognizeRequest{Language: g.language}, func(env Envelope) (bool, error) {
		if env.Type != TypeTranscript {
			return false, nil
		}
		var msg TranscriptMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return false, fmt.Errorf("decode transcript: %w", err)
		}
		if !msg.IsFinal {
			return false, nil
		}
		text = strings.TrimSpace(msg.Text)
		return true, nil
	})
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Speak implements Capability.
func (g *Gateway) Speak(ctx context.Context, text string) error {
	req := SpeakRequest{Text: text, Voice: g.voice, Language: g.language}
	return g.exchange(ctx, TypeSpeak, req, func(env Envelope) (bool, error) {
		return env.Type == TypeSpoken, nil
	})
}

// exchange sends one request and reads frames until done reports completion.
func (g *Gateway) exchange(ctx context.Context, op string, payload any, done func(Envelope) (bool, error)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	conn, _, err := g.dialer.DialContext(ctx, g.url, nil)
	if err != nil {
		return fmt.Errorf("speech %s: dial gateway: %w", op, err)
	}
	defer conn.Close()

	// Unblock pending reads once the context ends.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("speech %s: encode request: %w", op, err)
	}

	sessionID := uuid.NewString()
	out := Envelope{Type: op, SessionID: sessionID, Data: data, Timestamp: time.Now().UnixMilli()}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	if err := conn.WriteJSON(out); err != nil {
		return fmt.Errorf("speech %s: send request: %w", op, err)
	}

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("speech %s: %w", op, ctx.Err())
			}
			return fmt.Errorf("speech %s: read response: %w", op, err)
		}

		if env.Type == TypeError {
			var msg ErrorMessage
			_ = json.Unmarshal(env.Data, &msg)
			return &GatewayError{Op: op, Message: msg.Message}
		}

		finished, err := done(env)
		if err != nil {
			return fmt.Errorf("speech %s: %w", op, err)
		}
		if finished {
			g.logger.Debug().Str("op", op).Str("sessionId", sessionID).Msg("speech exchange completed")
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		}
	}
}
