package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solacehq/solace/backend/internal/model/chat"
	"github.com/solacehq/solace/backend/internal/model/personality"
	aiService "github.com/solacehq/solace/backend/internal/service/ai"
	chatService "github.com/solacehq/solace/backend/internal/service/chat"
	"github.com/solacehq/solace/backend/pkg/utils"
)

// Handler serves the session and message endpoints of the therapy chat.
type Handler struct {
	chatSvc      *chatService.Service
	orchestrator *aiService.Orchestrator
	historyLimit int
}

// New creates the chat handler. historyLimit bounds how many stored
// messages feed the prompt context for each reply.
func New(chatSvc *chatService.Service, orchestrator *aiService.Orchestrator, historyLimit int) *Handler {
	if historyLimit <= 0 {
		historyLimit = aiService.DefaultTurnLimit
	}
	return &Handler{
		chatSvc:      chatSvc,
		orchestrator: orchestrator,
		historyLimit: historyLimit,
	}
}

// RegisterRoutes wires the chat endpoints onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personalities", h.handleListPersonalities)
	r.Post("/sessions", h.handleCreateSession)
	r.Get("/sessions", h.handleListSessions)
	r.Get("/sessions/{sessionID}", h.handleGetSession)
	r.Get("/sessions/{sessionID}/messages", h.handleListMessages)
	r.Post("/sessions/{sessionID}/messages", h.handleSendMessage)
}

func (h *Handler) handleListPersonalities(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"personalities": personality.List(),
		"default":       personality.DefaultKey,
	})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title       string `json:"title"`
		Personality string `json:"personality"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.Title, payload.Personality)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessions": h.chatSvc.ListSessions(r.Context()),
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatSvc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatSvc.RecentMessages(r.Context(), chi.URLParam(r, "sessionID"), 0)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// handleSendMessage runs one full exchange: persist the user message,
// orchestrate a reply over the recent history, persist the reply with its
// mood, and return both to the client.
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Content  string `json:"content"`
		UserName string `json:"userName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Content == "" {
		utils.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	history, err := h.chatSvc.RecentMessages(r.Context(), sessionID, h.historyLimit*2)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	if _, err := h.chatSvc.AppendMessage(r.Context(), chat.Message{
		SessionID: sessionID,
		Content:   payload.Content,
		IsUser:    true,
	}); err != nil {
		h.respondStoreError(w, err)
		return
	}

	result := h.orchestrator.Generate(r.Context(), &aiService.PromptContext{
		UserMessage: payload.Content,
		History:     aiService.BuildTurns(history, h.historyLimit),
		Personality: session.Personality,
		UserName:    payload.UserName,
	})

	messageID, err := h.chatSvc.AppendMessage(r.Context(), chat.Message{
		SessionID: sessionID,
		Content:   result.Text,
		IsUser:    false,
		Mood:      string(result.Mood),
	})
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"response":  result.Text,
		"mood":      result.Mood,
		"sessionId": sessionID,
		"messageId": messageID,
	})
}

func (h *Handler) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, chatService.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}
