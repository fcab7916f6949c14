package chat_test

import (
	"context"
	"fmt"
	"testing"

	modelchat "github.com/solacehq/solace/backend/internal/model/chat"
	chat "github.com/solacehq/solace/backend/internal/service/chat"
)

func TestServiceCreateAndGetSession(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "Evening check-in", "gentle")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	got, err := svc.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession err: %v", err)
	}
	if got.Personality != "gentle" {
		t.Fatalf("unexpected personality: %s", got.Personality)
	}
}

func TestServiceUnknownPersonalityResolvesToDefault(t *testing.T) {
	svc := chat.NewService()

	session, err := svc.CreateSession(context.Background(), "", "sarcastic")
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	if session.Personality != "warm" {
		t.Fatalf("expected warm fallback, got %s", session.Personality)
	}
}

func TestServiceGetSessionNotFound(t *testing.T) {
	svc := chat.NewService()

	if _, err := svc.GetSession(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestServiceRecentMessagesLimit(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, _ := svc.CreateSession(ctx, "", "warm")
	for i := 0; i < 6; i++ {
		_, err := svc.AppendMessage(ctx, modelchat.Message{
			SessionID: session.ID,
			Content:   fmt.Sprintf("m%d", i),
			IsUser:    i%2 == 0,
		})
		if err != nil {
			t.Fatalf("AppendMessage err: %v", err)
		}
	}

	recent, err := svc.RecentMessages(ctx, session.ID, 4)
	if err != nil {
		t.Fatalf("RecentMessages err: %v", err)
	}
	if len(recent) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(recent))
	}
	if recent[0].Content != "m2" {
		t.Fatalf("expected window to start at m2, got %s", recent[0].Content)
	}
}

func TestServiceAppendToMissingSession(t *testing.T) {
	svc := chat.NewService()

	if _, err := svc.AppendMessage(context.Background(), modelchat.Message{SessionID: "missing", Content: "x"}); err == nil {
		t.Fatal("expected error appending to missing session")
	}
}
