package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
	aiService "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/ai"
	chatService "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/pkg/utils"
)

// Handler serves the chat session endpoints.
type Handler struct {
	chatSvc *chatService.Service
	aiSvc   *aiService.Service
	logger  zerolog.Logger
}

// New creates a chat handler.
func New(chatSvc *chatService.Service, aiSvc *aiService.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		aiSvc:   aiSvc,
		logger:  logger.With().Str("component", "chat-handler").Logger(),
	}
}

// RegisterRoutes mounts the chat routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat", func(cr chi.Router) {
		cr.Get("/", h.handleListSessions)
		cr.Post("/message", h.handleSendMessage)
		cr.Get("/{chatID}", h.handleGetSession)
		cr.Delete("/{chatID}", h.handleDeleteSession)
	})
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.ListSessions(r.Context()))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "chatID"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.DeleteSession(r.Context(), chi.URLParam(r, "chatID")); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleSendMessage replies to a message. Without chatId a session is created
// once the reply exists, so failed generations leave no empty sessions.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
		ChatID  string `json:"chatId"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx := r.Context()
	var history []chat.Turn
	if payload.ChatID != "" {
		session, err := h.chatSvc.GetSession(ctx, payload.ChatID)
		if err != nil {
			h.respondServiceError(w, err)
			return
		}
		history = session.Messages
	}

	reply, err := h.aiSvc.Reply(ctx, history, message)
	if err != nil {
		h.logger.Error().Err(err).Str("chatId", payload.ChatID).Msg("reply generation failed")
		utils.RespondError(w, http.StatusBadGateway, "failed to generate reply")
		return
	}

	chatID := payload.ChatID
	if chatID == "" {
		session, err := h.chatSvc.CreateSession(ctx, message)
		if err != nil {
			h.respondServiceError(w, err)
			return
		}
		chatID = session.ID
	}

	if err := h.chatSvc.AppendTurns(ctx, chatID, chat.UserTurn(message), chat.AssistantTurn(reply)); err != nil {
		h.respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply, "chatId": chatID})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatService.ErrMessageRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("chat service failure")
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
