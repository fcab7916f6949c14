package interview

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solacehq/solace/backend/internal/model/chat"
	chatService "github.com/solacehq/solace/backend/internal/service/chat"
	interviewService "github.com/solacehq/solace/backend/internal/service/interview"
	reportService "github.com/solacehq/solace/backend/internal/service/report"
	"github.com/solacehq/solace/backend/pkg/utils"
)

// Handler serves the structured clinical interview endpoints.
type Handler struct {
	interviewSvc *interviewService.Service
	chatSvc      *chatService.Service
	reportSvc    *reportService.Service
}

// New creates the interview handler. reportSvc may be nil, in which case
// interview reports are returned as text only.
func New(interviewSvc *interviewService.Service, chatSvc *chatService.Service, reportSvc *reportService.Service) *Handler {
	return &Handler{
		interviewSvc: interviewSvc,
		chatSvc:      chatSvc,
		reportSvc:    reportSvc,
	}
}

// RegisterRoutes wires the interview endpoints onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/interview/interviewers", h.handleInterviewers)
	r.Post("/interview/start", h.handleStart)
	r.Post("/interview/continue", h.handleContinue)
	r.Post("/interview/report/{sessionID}", h.handleReport)
}

func (h *Handler) handleInterviewers(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"interviewers": interviewService.Interviewers(),
	})
}

// handleStart provisions a session for the interview and records the
// interviewer's greeting as its first message.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Interviewer string `json:"interviewer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	iv, greeting := h.interviewSvc.Start(payload.Interviewer)

	session, err := h.chatSvc.CreateSession(r.Context(), "Psychology Interview - "+iv.Name, iv.Personality)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := h.chatSvc.AppendMessage(r.Context(), chat.Message{
		SessionID: session.ID,
		Content:   greeting,
		IsUser:    false,
		Mood:      "speaking",
	}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId":      session.ID,
		"interviewer":    iv,
		"message":        greeting,
		"questionCount":  1,
		"totalQuestions": h.interviewSvc.TotalQuestions(),
		"isComplete":     false,
	})
}

func (h *Handler) handleContinue(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID   string `json:"sessionId"`
		Message     string `json:"message"`
		Interviewer string `json:"interviewer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	history, err := h.chatSvc.RecentMessages(r.Context(), payload.SessionID, 0)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	if _, err := h.chatSvc.AppendMessage(r.Context(), chat.Message{
		SessionID: payload.SessionID,
		Content:   payload.Message,
		IsUser:    true,
		Mood:      "listening",
	}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	exchange := h.interviewSvc.Continue(r.Context(), payload.Message, history, payload.Interviewer)

	if _, err := h.chatSvc.AppendMessage(r.Context(), chat.Message{
		SessionID: payload.SessionID,
		Content:   exchange.Message,
		IsUser:    false,
		Mood:      "speaking",
	}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId":      payload.SessionID,
		"message":        exchange.Message,
		"questionCount":  exchange.QuestionNumber,
		"totalQuestions": exchange.TotalQuestions,
		"isComplete":     exchange.Complete,
	})
}

// handleReport produces the clinical report for a finished interview and,
// when PDF rendering is available, writes it to disk for download.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.chatSvc.RecentMessages(r.Context(), sessionID, 0)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	content := h.interviewSvc.Report(messages)

	response := map[string]any{"reportContent": content}
	if h.reportSvc != nil {
		fileName, err := h.reportSvc.WriteTextReport("Clinical Psychology Report", content)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "failed to render report")
			return
		}
		response["fileName"] = fileName
		response["downloadUrl"] = "/api/reports/file/" + fileName
	}

	utils.RespondJSON(w, http.StatusOK, response)
}
