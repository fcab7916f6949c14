package ai

import (
	"fmt"
	"testing"

	"github.com/solacehq/solace/backend/internal/model/chat"
)

func msg(content string, isUser bool) chat.Message {
	return chat.Message{Content: content, IsUser: isUser}
}

func TestBuildTurnsPairsExchanges(t *testing.T) {
	turns := BuildTurns([]chat.Message{
		msg("hi", true),
		msg("hello, how are you feeling?", false),
		msg("tired", true),
		msg("tell me more about that", false),
	}, 10)

	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].User != "hi" || turns[0].Assistant != "hello, how are you feeling?" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].User != "tired" {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

func TestBuildTurnsSkipsMalformedPairings(t *testing.T) {
	turns := BuildTurns([]chat.Message{
		msg("orphan assistant", false),
		msg("first", true),
		msg("second replaces first", true),
		msg("reply", false),
	}, 10)

	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].User != "second replaces first" {
		t.Fatalf("expected latest user message kept, got %q", turns[0].User)
	}
}

func TestBuildTurnsTruncatesToMostRecent(t *testing.T) {
	messages := make([]chat.Message, 0, 30)
	for i := 0; i < 15; i++ {
		messages = append(messages, msg(fmt.Sprintf("u%d", i), true))
		messages = append(messages, msg(fmt.Sprintf("a%d", i), false))
	}

	turns := BuildTurns(messages, 10)
	if len(turns) != 10 {
		t.Fatalf("expected 10 turns, got %d", len(turns))
	}
	if turns[0].User != "u5" {
		t.Fatalf("expected truncation to keep most recent turns, first user was %q", turns[0].User)
	}
	if turns[9].Assistant != "a14" {
		t.Fatalf("expected last assistant a14, got %q", turns[9].Assistant)
	}
}

func TestBuildTurnsDanglingUserDropped(t *testing.T) {
	turns := BuildTurns([]chat.Message{
		msg("answered", true),
		msg("answer", false),
		msg("still waiting", true),
	}, 10)

	if len(turns) != 1 {
		t.Fatalf("unanswered trailing user message must not form a turn, got %d turns", len(turns))
	}
}
