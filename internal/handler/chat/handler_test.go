package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	aiService "github.com/solacehq/solace/backend/internal/service/ai"
	chatService "github.com/solacehq/solace/backend/internal/service/chat"
)

func setupRouter() (*chi.Mux, *chatService.Service) {
	chatSvc := chatService.NewService()
	orchestrator := aiService.NewOrchestrator(aiService.NewRuleProvider(rand.New(rand.NewSource(1))))
	handler := New(chatSvc, orchestrator, 10)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, chatSvc
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateSession(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(t, r, "/sessions", map[string]string{"personality": "gentle"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var session struct {
		ID          string `json:"id"`
		Personality string `json:"personality"`
		Title       string `json:"title"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Personality != "gentle" {
		t.Fatalf("expected gentle personality, got %s", session.Personality)
	}
	if session.Title != "Therapy Session" {
		t.Fatalf("expected default title, got %q", session.Title)
	}
}

func TestCreateSessionUnknownPersonalityFallsBack(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(t, r, "/sessions", map[string]string{"personality": "sarcastic"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var session struct {
		Personality string `json:"personality"`
	}
	json.Unmarshal(resp.Body.Bytes(), &session)
	if session.Personality != "warm" {
		t.Fatalf("unknown personality should resolve to warm, got %s", session.Personality)
	}
}

func TestSendMessageReturnsResponseAndMood(t *testing.T) {
	r, chatSvc := setupRouter()

	resp := postJSON(t, r, "/sessions", map[string]string{})
	var session struct {
		ID string `json:"id"`
	}
	json.Unmarshal(resp.Body.Bytes(), &session)

	resp = postJSON(t, r, "/sessions/"+session.ID+"/messages", map[string]string{"content": "I had a rough week"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var reply struct {
		Response string `json:"response"`
		Mood     string `json:"mood"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if reply.Response == "" {
		t.Fatal("response text must never be empty")
	}
	valid := map[string]bool{"idle": true, "listening": true, "speaking": true, "thinking": true, "happy": true, "concerned": true}
	if !valid[reply.Mood] {
		t.Fatalf("mood %q outside the closed set", reply.Mood)
	}

	messages, err := chatSvc.RecentMessages(context.Background(), session.ID, 0)
	if err != nil {
		t.Fatalf("load transcript: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected user + assistant messages persisted, got %d", len(messages))
	}
	if !messages[0].IsUser || messages[1].IsUser {
		t.Fatal("messages persisted out of order")
	}
	if messages[1].Mood != reply.Mood {
		t.Fatalf("persisted mood %q differs from reply mood %q", messages[1].Mood, reply.Mood)
	}
}

func TestSendMessageCrisisOverride(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(t, r, "/sessions", map[string]string{"personality": "professional"})
	var session struct {
		ID string `json:"id"`
	}
	json.Unmarshal(resp.Body.Bytes(), &session)

	resp = postJSON(t, r, "/sessions/"+session.ID+"/messages", map[string]string{"content": "I want to end it all"})
	var reply struct {
		Response string `json:"response"`
	}
	json.Unmarshal(resp.Body.Bytes(), &reply)

	if reply.Response != aiService.CrisisMessage {
		t.Fatalf("crisis content must return the crisis message, got %q", reply.Response)
	}
}

func TestSendMessageUnknownSession(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(t, r, "/sessions/missing/messages", map[string]string{"content": "hello"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestSendMessageEmptyContent(t *testing.T) {
	r, _ := setupRouter()

	resp := postJSON(t, r, "/sessions", map[string]string{})
	var session struct {
		ID string `json:"id"`
	}
	json.Unmarshal(resp.Body.Bytes(), &session)

	resp = postJSON(t, r, "/sessions/"+session.ID+"/messages", map[string]string{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
