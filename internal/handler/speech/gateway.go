// Package speech serves a development speech gateway. Recognition requests
// are answered from a queue of utterances posted over HTTP, and speak
// requests are recorded and acknowledged, so voice flows can run without
// audio hardware.
package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	speechwire "github.com/Yash-Raj20/Careerpath-Frontend/internal/speech"
	"github.com/Yash-Raj20/Careerpath-Frontend/pkg/utils"
)

const (
	queueSize        = 32
	spokenHistory    = 50
	readTimeout      = 60 * time.Second
	pingInterval     = 54 * time.Second
	defaultRecognize = 30 * time.Second
)

// Handler is the development speech gateway.
type Handler struct {
	utterances       chan string
	recognizeTimeout time.Duration
	upgrader         websocket.Upgrader
	logger           zerolog.Logger

	mu     sync.Mutex
	spoken []string
}

// Option customizes a Handler.
type Option func(*Handler)

// WithRecognizeTimeout bounds how long a recognize request waits for an utterance.
func WithRecognizeTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.recognizeTimeout = d
		}
	}
}

// New creates the gateway handler.
func New(logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		utterances:       make(chan string, queueSize),
		recognizeTimeout: defaultRecognize,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.With().Str("component", "speech-gateway").Logger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the gateway routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/speech", func(r chi.Router) {
		r.Get("/ws", h.handleWebSocket)
		r.Post("/utterances", h.handleEnqueue)
		r.Get("/spoken", h.handleSpoken)
	})
}

// Spoken returns the texts spoken so far, oldest first.
func (h *Handler) Spoken() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.spoken))
	copy(out, h.spoken)
	return out
}

func (h *Handler) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	select {
	case h.utterances <- text:
		utils.RespondJSON(w, http.StatusAccepted, map[string]int{"queued": len(h.utterances)})
	default:
		utils.RespondError(w, http.StatusServiceUnavailable, "utterance queue is full")
	}
}

func (h *Handler) handleSpoken(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string][]string{"spoken": h.Spoken()})
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	var writeMu sync.Mutex
	go h.pingLoop(ctx, conn, &writeMu)

	for {
		var msg speechwire.Envelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		reply := h.handleMessage(ctx, msg)
		reply.SessionID = msg.SessionID
		reply.Timestamp = time.Now().UnixMilli()

		writeMu.Lock()
		err := conn.WriteJSON(reply)
		writeMu.Unlock()
		if err != nil {
			h.logger.Warn().Err(err).Str("type", reply.Type).Msg("write failed")
			return
		}
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg speechwire.Envelope) speechwire.Envelope {
	switch msg.Type {
	case speechwire.TypeRecognize:
		return h.recognize(ctx, msg)
	case speechwire.TypeSpeak:
		return h.speak(msg)
	default:
		return errorEnvelope("unsupported message type: " + msg.Type)
	}
}

func (h *Handler) recognize(ctx context.Context, msg speechwire.Envelope) speechwire.Envelope {
	var req speechwire.RecognizeRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			return errorEnvelope("invalid recognize payload")
		}
	}

	timer := time.NewTimer(h.recognizeTimeout)
	defer timer.Stop()

	select {
	case text := <-h.utterances:
		h.logger.Info().Str("sessionId", msg.SessionID).Str("language", req.Language).Msg("utterance recognized")
		return envelope(speechwire.TypeTranscript, speechwire.TranscriptMessage{Text: text, IsFinal: true, Confidence: 1})
	case <-timer.C:
		return errorEnvelope("no speech detected")
	case <-ctx.Done():
		return errorEnvelope("connection closed")
	}
}

func (h *Handler) speak(msg speechwire.Envelope) speechwire.Envelope {
	var req speechwire.SpeakRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return errorEnvelope("invalid speak payload")
	}
	if strings.TrimSpace(req.Text) == "" {
		return errorEnvelope("text is required")
	}

	h.mu.Lock()
	h.spoken = append(h.spoken, req.Text)
	if len(h.spoken) > spokenHistory {
		h.spoken = h.spoken[len(h.spoken)-spokenHistory:]
	}
	h.mu.Unlock()

	h.logger.Info().Str("sessionId", msg.SessionID).Str("voice", req.Voice).Int("chars", len(req.Text)).Msg("text spoken")
	return speechwire.Envelope{Type: speechwire.TypeSpoken}
}

func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn, writeMu *sync.Mutex) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			writeMu.Lock()
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func envelope(typ string, data any) speechwire.Envelope {
	raw, err := json.Marshal(data)
	if err != nil {
		return errorEnvelope("encode failed")
	}
	return speechwire.Envelope{Type: typ, Data: raw}
}

func errorEnvelope(message string) speechwire.Envelope {
	raw, _ := json.Marshal(speechwire.ErrorMessage{Message: message})
	return speechwire.Envelope{Type: speechwire.TypeError, Data: raw}
}
