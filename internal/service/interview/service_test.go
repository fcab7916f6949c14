package interview

import (
	"context"
	"strings"
	"testing"

	"github.com/solacehq/solace/backend/internal/model/chat"
	"github.com/solacehq/solace/backend/internal/service/ai"
)

type stubGenerator struct {
	text string
}

func (g *stubGenerator) Generate(_ context.Context, _ *ai.PromptContext) ai.Result {
	return ai.Result{Text: g.text, Mood: "listening"}
}

func TestResolveInterviewerDefaultsToSarah(t *testing.T) {
	iv := ResolveInterviewer("nobody")
	if iv.ID != "sarah" {
		t.Fatalf("expected sarah fallback, got %s", iv.ID)
	}
	if got := ResolveInterviewer("AARON"); got.ID != "aaron" {
		t.Fatalf("interviewer lookup should be case insensitive, got %s", got.ID)
	}
}

func TestStartReturnsGreeting(t *testing.T) {
	svc := NewService(nil, nil)
	iv, greeting := svc.Start("aaron")
	if iv.Voice != "onyx" {
		t.Fatalf("unexpected voice: %s", iv.Voice)
	}
	if !strings.Contains(greeting, "Aaron") {
		t.Fatalf("greeting should introduce the interviewer, got %q", greeting)
	}
}

func TestContinueAsksNextQuestionWithBridge(t *testing.T) {
	bank := StaticBank{"Question one?", "Question two?"}
	svc := NewService(bank, &stubGenerator{text: "That sounds difficult. I appreciate your honesty."})

	history := []chat.Message{
		{Content: "greeting", IsUser: false},
	}
	ex := svc.Continue(context.Background(), "I feel tired", history, "sarah")

	if ex.Complete {
		t.Fatal("interview should not be complete yet")
	}
	if ex.QuestionNumber != 2 {
		t.Fatalf("expected question number 2, got %d", ex.QuestionNumber)
	}
	if !strings.HasSuffix(ex.Message, "Question one?") {
		t.Fatalf("expected first bank question, got %q", ex.Message)
	}
	if !strings.HasPrefix(ex.Message, "That sounds difficult.") {
		t.Fatalf("expected a single-sentence bridge, got %q", ex.Message)
	}
}

func TestContinueWithoutGeneratorUsesStaticBridge(t *testing.T) {
	svc := NewService(StaticBank{"Only question?"}, nil)

	ex := svc.Continue(context.Background(), "fine", []chat.Message{{IsUser: false}}, "sarah")
	if !strings.HasPrefix(ex.Message, "Thank you for sharing") {
		t.Fatalf("expected static bridge, got %q", ex.Message)
	}
}

func TestContinueCompletesWithReport(t *testing.T) {
	bank := StaticBank{"Q1?"}
	svc := NewService(bank, nil)

	history := []chat.Message{
		{Content: "greeting", IsUser: false},
		{Content: "answer to greeting", IsUser: true},
		{Content: "Q1?", IsUser: false},
	}
	ex := svc.Continue(context.Background(), "final answer", history, "sarah")

	if !ex.Complete {
		t.Fatal("expected interview completion after bank exhausted")
	}
	if !strings.Contains(ex.Message, "Clinical Interview Report") {
		t.Fatalf("expected report text, got %q", ex.Message)
	}
	if !strings.Contains(ex.Message, "2 question-answer exchanges") {
		t.Fatalf("report should count user answers, got %q", ex.Message)
	}
}

func TestDefaultBankBounds(t *testing.T) {
	if _, ok := DefaultBank.Question(DefaultBank.Total()); ok {
		t.Fatal("question past the end must report exhaustion")
	}
	if q, ok := DefaultBank.Question(0); !ok || q == "" {
		t.Fatal("first question must exist")
	}
}
