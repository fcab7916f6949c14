package ai

import (
	"github.com/solacehq/solace/backend/internal/model/chat"
)

// DefaultTurnLimit bounds how many exchange pairs reach a provider.
const DefaultTurnLimit = 10

// Turn is one completed (user, assistant) exchange.
type Turn struct {
	User      string
	Assistant string
}

// PromptContext is the per-request bundle handed to providers. It is built
// fresh for every orchestration call and never shared across requests.
type PromptContext struct {
	UserMessage    string
	History        []Turn
	Personality    string
	EmotionSignals map[string]float64
	UserName       string
}

// BuildTurns pairs a chronologically ordered message log into exchange turns,
// skipping malformed pairings (e.g. two consecutive user messages) rather
// than erroring, and keeps only the most recent limit turns.
func BuildTurns(messages []chat.Message, limit int) []Turn {
	if limit <= 0 {
		limit = DefaultTurnLimit
	}

	turns := make([]Turn, 0, len(messages)/2)
	pendingUser := ""
	havePending := false

	for _, msg := range messages {
		if msg.IsUser {
			// A second user message in a row replaces the unanswered one.
			pendingUser = msg.Content
			havePending = true
			continue
		}

		if !havePending {
			// Assistant message without a preceding user message.
			continue
		}

		turns = append(turns, Turn{User: pendingUser, Assistant: msg.Content})
		havePending = false
	}

	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns
}
