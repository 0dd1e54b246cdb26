package interview

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/analysis/verdict"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/model/chat"
	aiService "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/ai"
	"github.com/Yash-Raj20/Careerpath-Frontend/pkg/utils"
)

const defaultMinQuestions = 15

// Handler serves the stateless interview and mock interview endpoints.
type Handler struct {
	aiSvc  *aiService.Service
	logger zerolog.Logger
}

// New creates an interview handler.
func New(aiSvc *aiService.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		aiSvc:  aiSvc,
		logger: logger.With().Str("component", "interview-handler").Logger(),
	}
}

// RegisterRoutes mounts the interview routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/interview/start", h.handleInterview)
	r.Post("/ai/mock-interview", h.handleMockInterview)
	r.Post("/ai/evaluate-answer", h.handleEvaluateAnswer)
}

// handleInterview opens an interview or continues it when userAnswer is set.
func (h *Handler) handleInterview(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Role         string `json:"role"`
		UserAnswer   string `json:"userAnswer"`
		PrevMessages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"prevMessages"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Role) == "" {
		utils.RespondError(w, http.StatusBadRequest, "role is required")
		return
	}

	prev := make([]chat.Turn, 0, len(payload.PrevMessages))
	for _, m := range payload.PrevMessages {
		role := chat.Role(m.Role)
		if !role.Valid() {
			role = chat.RoleAssistant
		}
		prev = append(prev, chat.NewTurn(role, m.Content))
	}

	reply, err := h.aiSvc.InterviewReply(r.Context(), payload.Role, prev, payload.UserAnswer)
	if err != nil {
		h.logger.Error().Err(err).Str("role", payload.Role).Msg("interview reply failed")
		utils.RespondError(w, http.StatusBadGateway, "failed to generate interview reply")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *Handler) handleMockInterview(w http.ResponseWriter, r *http.Request) {
	var cfg chat.MockInterviewConfig
	if err := utils.DecodeJSON(r, &cfg); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(cfg.Role) == "" {
		utils.RespondError(w, http.StatusBadRequest, "role is required")
		return
	}
	if cfg.MinQuestions <= 0 {
		cfg.MinQuestions = defaultMinQuestions
	}

	questions, err := h.aiSvc.MockQuestions(r.Context(), cfg)
	if err != nil {
		h.logger.Error().Err(err).Str("role", cfg.Role).Msg("question generation failed")
		utils.RespondError(w, http.StatusBadGateway, "failed to generate questions")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string][]string{"questions": questions})
}

func (h *Handler) handleEvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
		Role     string `json:"role"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Question) == "" || strings.TrimSpace(payload.Answer) == "" {
		utils.RespondError(w, http.StatusBadRequest, "question and answer are required")
		return
	}

	eval, err := h.aiSvc.Evaluate(r.Context(), payload.Question, payload.Answer, payload.Role)
	if err != nil {
		h.logger.Error().Err(err).Msg("answer evaluation failed")
		utils.RespondError(w, http.StatusBadGateway, "failed to evaluate answer")
		return
	}
	if eval.Verdict == "" {
		eval.Verdict = string(verdict.Classify(eval).Verdict)
	}
	utils.RespondJSON(w, http.StatusOK, eval)
}
