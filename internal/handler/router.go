package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	audioHandler "github.com/solacehq/solace/backend/internal/handler/audio"
	chatHandler "github.com/solacehq/solace/backend/internal/handler/chat"
	interviewHandler "github.com/solacehq/solace/backend/internal/handler/interview"
	reportHandler "github.com/solacehq/solace/backend/internal/handler/report"
	"github.com/solacehq/solace/backend/internal/handler/stream"
	"github.com/solacehq/solace/backend/internal/handler/voice"
	middlewarePkg "github.com/solacehq/solace/backend/internal/middleware"
	aiService "github.com/solacehq/solace/backend/internal/service/ai"
	audioService "github.com/solacehq/solace/backend/internal/service/audio"
	chatService "github.com/solacehq/solace/backend/internal/service/chat"
	interviewService "github.com/solacehq/solace/backend/internal/service/interview"
	reportService "github.com/solacehq/solace/backend/internal/service/report"
	"github.com/solacehq/solace/backend/pkg/utils"
)

// Services bundles everything the router wires up. Orchestrator and
// ChatSvc are required; the rest are optional and their routes are
// registered only when present.
type Services struct {
	ChatSvc      *chatService.Service
	Orchestrator *aiService.Orchestrator
	AudioSvc     *audioService.Service
	ReportSvc    *reportService.Service
	InterviewSvc *interviewService.Service
	HistoryLimit int
}

// NewRouter wires HTTP routes to core services.
func NewRouter(svcs Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	streamHandler := stream.New(svcs.Orchestrator, svcs.ChatSvc, svcs.HistoryLimit)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(svcs.ChatSvc, svcs.Orchestrator, svcs.HistoryLimit).RegisterRoutes(api)

		api.Get("/stream/{sessionID}", func(w http.ResponseWriter, r *http.Request) {
			sessionID := chi.URLParam(r, "sessionID")
			userMessage := r.URL.Query().Get("message")

			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streamHandler.HandleStreamRequest(r.Context(), w, sessionID, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})

		if svcs.AudioSvc != nil {
			audioHandler.New(svcs.AudioSvc).RegisterRoutes(api)
			voice.New(svcs.Orchestrator, svcs.ChatSvc, svcs.AudioSvc, svcs.HistoryLimit).RegisterRoutes(api)
		}

		if svcs.ReportSvc != nil {
			reportHandler.New(svcs.ReportSvc, svcs.ChatSvc).RegisterRoutes(api)
		}

		if svcs.InterviewSvc != nil {
			interviewHandler.New(svcs.InterviewSvc, svcs.ChatSvc, svcs.ReportSvc).RegisterRoutes(api)
		}
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"providers": svcs.Orchestrator.ProviderNames(),
		})
	})

	return r
}
