package stream

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/solacehq/solace/backend/internal/model/chat"
	aiService "github.com/solacehq/solace/backend/internal/service/ai"
	chatService "github.com/solacehq/solace/backend/internal/service/chat"
	"github.com/solacehq/solace/backend/pkg/utils"
)

// Handler delivers orchestrated replies over Server-Sent Events.
type Handler struct {
	orchestrator *aiService.Orchestrator
	chatSvc      *chatService.Service
	historyLimit int
}

// New creates the stream handler.
func New(orchestrator *aiService.Orchestrator, chatSvc *chatService.Service, historyLimit int) *Handler {
	if historyLimit <= 0 {
		historyLimit = aiService.DefaultTurnLimit
	}
	return &Handler{
		orchestrator: orchestrator,
		chatSvc:      chatSvc,
		historyLimit: historyLimit,
	}
}

// StreamResponse is one SSE frame.
type StreamResponse struct {
	Event     string `json:"event"`
	Content   string `json:"content,omitempty"`
	Mood      string `json:"mood,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	Finished  bool   `json:"finished,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HandleStreamRequest runs one exchange for the session and streams the
// result as start, message, mood and end events. The user message is
// persisted before orchestration unless the client already saved it via
// REST.
func (h *Handler) HandleStreamRequest(ctx context.Context, w http.ResponseWriter, sessionID, userMessage string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming unsupported")
	}

	utils.SetupSSEHeaders(w)

	session, err := h.chatSvc.GetSession(ctx, sessionID)
	if err != nil {
		h.sendError(w, flusher, "session not found")
		return err
	}

	history, err := h.chatSvc.RecentMessages(ctx, sessionID, h.historyLimit*2)
	if err != nil {
		h.sendError(w, flusher, "failed to load conversation")
		return err
	}

	if !hasMatchingUserMessage(history, userMessage) {
		if _, err := h.chatSvc.AppendMessage(ctx, chat.Message{
			SessionID: sessionID,
			Content:   userMessage,
			IsUser:    true,
		}); err != nil {
			log.Printf("[stream] failed to save user message: %v", err)
		}
	}

	h.send(w, flusher, StreamResponse{Event: "start", SessionID: sessionID})

	result := h.orchestrator.Generate(ctx, &aiService.PromptContext{
		UserMessage: userMessage,
		History:     aiService.BuildTurns(history, h.historyLimit),
		Personality: session.Personality,
	})

	h.send(w, flusher, StreamResponse{
		Event:     "message",
		SessionID: sessionID,
		Content:   result.Text,
	})
	h.send(w, flusher, StreamResponse{
		Event:     "mood",
		SessionID: sessionID,
		Mood:      string(result.Mood),
	})

	if _, err := h.chatSvc.AppendMessage(ctx, chat.Message{
		SessionID: sessionID,
		Content:   result.Text,
		IsUser:    false,
		Mood:      string(result.Mood),
	}); err != nil {
		log.Printf("[stream] failed to save assistant message: %v", err)
	}

	h.send(w, flusher, StreamResponse{Event: "end", SessionID: sessionID, Finished: true})

	log.Printf("[stream] completed response for session=%s, mood=%s", sessionID, result.Mood)
	return nil
}

func hasMatchingUserMessage(messages []chat.Message, content string) bool {
	if len(messages) == 0 {
		return false
	}
	last := messages[len(messages)-1]
	return last.IsUser && last.Content == content
}

func (h *Handler) send(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}

func (h *Handler) sendError(w http.ResponseWriter, flusher http.Flusher, message string) {
	h.send(w, flusher, StreamResponse{Event: "error", Error: message})
}
