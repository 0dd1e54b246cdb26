package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Yash-Raj20/Careerpath-Frontend/internal/handler/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/handler/interview"
	"github.com/Yash-Raj20/Careerpath-Frontend/internal/handler/speech"
	aiService "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/ai"
	chatService "github.com/Yash-Raj20/Careerpath-Frontend/internal/service/chat"
	"github.com/Yash-Raj20/Careerpath-Frontend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, aiSvc *aiService.Service, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	chatHandler := chat.New(chatSvc, aiSvc, logger)
	interviewHandler := interview.New(aiSvc, logger)
	speechHandler := speech.New(logger)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		chatHandler.RegisterRoutes(api)
		interviewHandler.RegisterRoutes(api)
		speechHandler.RegisterRoutes(api)
	})

	return r
}

// CORS allows browser clients on any origin with credentials.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
