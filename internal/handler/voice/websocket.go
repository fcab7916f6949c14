package voice

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/solacehq/solace/backend/internal/model/chat"
	aiService "github.com/solacehq/solace/backend/internal/service/ai"
	audioService "github.com/solacehq/solace/backend/internal/service/audio"
	chatService "github.com/solacehq/solace/backend/internal/service/chat"
)

// Handler runs the realtime voice conversation loop: audio in, transcript
// plus orchestrated reply out, synthesized speech back when available.
type Handler struct {
	orchestrator *aiService.Orchestrator
	chatSvc      *chatService.Service
	audioSvc     *audioService.Service
	historyLimit int
	upgrader     websocket.Upgrader
}

// New creates the voice websocket handler.
func New(orchestrator *aiService.Orchestrator, chatSvc *chatService.Service, audioSvc *audioService.Service, historyLimit int) *Handler {
	if historyLimit <= 0 {
		historyLimit = aiService.DefaultTurnLimit
	}
	return &Handler{
		orchestrator: orchestrator,
		chatSvc:      chatSvc,
		audioSvc:     audioSvc,
		historyLimit: historyLimit,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes wires the websocket endpoint onto the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/voice/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Language string `json:"language,omitempty"`
	Voice    string `json:"voice,omitempty"`
}

type outboundMessage struct {
	Type       string `json:"type"`
	Transcript string `json:"transcript,omitempty"`
	Response   string `json:"response,omitempty"`
	Mood       string `json:"mood,omitempty"`
	Error      string `json:"error,omitempty"`
}

type connectionState struct {
	sessionID   string
	personality string
	language    string
	voice       string
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	session, err := h.chatSvc.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[voice] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[voice] new connection for session: %s", sessionID)

	state := &connectionState{
		sessionID:   sessionID,
		personality: session.Personality,
		language:    "en-US",
	}

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[voice] read error for session %s: %v", sessionID, err)
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			h.handleAudioFrame(r.Context(), conn, state, data)
		case websocket.TextMessage:
			h.handleControlFrame(r.Context(), conn, state, data)
		}
	}
}

// handleAudioFrame treats a binary frame as one complete utterance.
func (h *Handler) handleAudioFrame(ctx context.Context, conn *websocket.Conn, state *connectionState, data []byte) {
	transcript := h.audioSvc.Transcribe(ctx, data, "utterance.webm", state.language)
	if !transcript.Remote {
		h.writeJSON(conn, outboundMessage{Type: "error", Error: "transcription unavailable"})
		return
	}

	h.writeJSON(conn, outboundMessage{Type: "transcript", Transcript: transcript.Text})
	h.respond(ctx, conn, state, transcript.Text)
}

func (h *Handler) handleControlFrame(ctx context.Context, conn *websocket.Conn, state *connectionState, data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.writeJSON(conn, outboundMessage{Type: "error", Error: "invalid message"})
		return
	}

	switch msg.Type {
	case "config":
		if msg.Language != "" {
			state.language = msg.Language
		}
		if msg.Voice != "" {
			state.voice = msg.Voice
		}
	case "text":
		if msg.Text == "" {
			h.writeJSON(conn, outboundMessage{Type: "error", Error: "text is required"})
			return
		}
		h.respond(ctx, conn, state, msg.Text)
	default:
		h.writeJSON(conn, outboundMessage{Type: "error", Error: "unknown message type"})
	}
}

// respond runs one orchestrated exchange and pushes the reply, then the
// synthesized speech as a binary frame when the audio backend is up.
func (h *Handler) respond(ctx context.Context, conn *websocket.Conn, state *connectionState, userText string) {
	history, err := h.chatSvc.RecentMessages(ctx, state.sessionID, h.historyLimit*2)
	if err != nil {
		h.writeJSON(conn, outboundMessage{Type: "error", Error: "session not found"})
		return
	}

	if _, err := h.chatSvc.AppendMessage(ctx, chat.Message{
		SessionID: state.sessionID,
		Content:   userText,
		IsUser:    true,
	}); err != nil {
		log.Printf("[voice] failed to save user message: %v", err)
	}

	result := h.orchestrator.Generate(ctx, &aiService.PromptContext{
		UserMessage: userText,
		History:     aiService.BuildTurns(history, h.historyLimit),
		Personality: state.personality,
	})

	if _, err := h.chatSvc.AppendMessage(ctx, chat.Message{
		SessionID: state.sessionID,
		Content:   result.Text,
		IsUser:    false,
		Mood:      string(result.Mood),
	}); err != nil {
		log.Printf("[voice] failed to save assistant message: %v", err)
	}

	h.writeJSON(conn, outboundMessage{
		Type:     "reply",
		Response: result.Text,
		Mood:     string(result.Mood),
	})

	if audio := h.audioSvc.SynthesizeBuffer(ctx, result.Text, state.voice); audio != nil {
		if err := conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
			log.Printf("[voice] failed to write audio frame: %v", err)
		}
	}
}

func (h *Handler) writeJSON(conn *websocket.Conn, msg outboundMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[voice] failed to write message: %v", err)
	}
}
