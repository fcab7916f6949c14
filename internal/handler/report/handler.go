package report

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/solacehq/solace/backend/internal/service/chat"
	reportService "github.com/solacehq/solace/backend/internal/service/report"
	"github.com/solacehq/solace/backend/pkg/utils"
)

// Handler serves session report generation and PDF download.
type Handler struct {
	reportSvc *reportService.Service
	chatSvc   *chatService.Service
}

// New creates the report handler.
func New(reportSvc *reportService.Service, chatSvc *chatService.Service) *Handler {
	return &Handler{reportSvc: reportSvc, chatSvc: chatSvc}
}

// RegisterRoutes wires the report endpoints onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/reports/{sessionID}", h.handleGenerate)
	r.Get("/reports/file/{fileName}", h.handleDownload)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		ReportType string `json:"reportType"`
	}
	if r.Body != nil {
		// Body is optional, an empty one selects the summary layout.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}
	if payload.ReportType == "" {
		payload.ReportType = "summary"
	}

	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	messages, err := h.chatSvc.RecentMessages(r.Context(), sessionID, 0)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	generated, err := h.reportSvc.GenerateSessionReport(session, messages, payload.ReportType)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"report":      generated,
		"downloadUrl": "/api/reports/file/" + generated.FileName,
	})
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	fileName := chi.URLParam(r, "fileName")

	path, ok := h.reportSvc.FilePath(fileName)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "report not found")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	http.ServeFile(w, r, path)
}
