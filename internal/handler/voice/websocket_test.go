package voice

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/solacehq/solace/backend/internal/config"
	aiService "github.com/solacehq/solace/backend/internal/service/ai"
	audioService "github.com/solacehq/solace/backend/internal/service/audio"
	chatService "github.com/solacehq/solace/backend/internal/service/chat"
)

func setup(t *testing.T) (*chi.Mux, *chatService.Service) {
	t.Helper()

	chatSvc := chatService.NewService()
	orchestrator := aiService.NewOrchestrator(aiService.NewRuleProvider(rand.New(rand.NewSource(3))))
	audioSvc := audioService.NewService(config.AudioConfig{UploadDir: t.TempDir(), TTSVoice: "alloy"})

	r := chi.NewRouter()
	New(orchestrator, chatSvc, audioSvc, 10).RegisterRoutes(r)
	return r, chatSvc
}

func TestWebSocketTextExchange(t *testing.T) {
	r, chatSvc := setup(t)

	session, err := chatSvc.CreateSession(context.Background(), "", "warm")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/voice/ws/" + session.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "text", "text": "I had a hard day"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var reply struct {
		Type     string `json:"type"`
		Response string `json:"response"`
		Mood     string `json:"mood"`
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}

	if reply.Type != "reply" {
		t.Fatalf("expected reply frame, got %s", reply.Type)
	}
	if reply.Response == "" || reply.Mood == "" {
		t.Fatalf("reply must carry response and mood: %+v", reply)
	}

	messages, err := chatSvc.RecentMessages(context.Background(), session.ID, 0)
	if err != nil {
		t.Fatalf("load transcript: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected both turns persisted, got %d", len(messages))
	}
}

func TestWebSocketUnknownFrameType(t *testing.T) {
	r, chatSvc := setup(t)

	session, _ := chatSvc.CreateSession(context.Background(), "", "warm")

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/voice/ws/" + session.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var reply struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Type != "error" {
		t.Fatalf("expected error frame, got %s", reply.Type)
	}
}

func TestWebSocketRejectsUnknownSession(t *testing.T) {
	r, _ := setup(t)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/voice/ws/missing"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatal("expected dial to fail for unknown session")
	}
}
