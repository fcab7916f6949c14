package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/solacehq/solace/backend/internal/config"
	"github.com/solacehq/solace/backend/internal/model/personality"
)

// CloudProvider drives the primary hosted model through an eino
// template → chat-model chain.
type CloudProvider struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewCloudProvider builds the chat model and compiles its chain once.
func NewCloudProvider(ctx context.Context, cfg config.AIConfig) (*CloudProvider, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &CloudProvider{chain: runnable}, nil
}

func (p *CloudProvider) Name() string { return "cloud-primary" }

// Attempt issues one chain invocation. The user query is wrapped with the
// mood-marker instruction so the response carries a structured "MOOD:" line.
func (p *CloudProvider) Attempt(ctx context.Context, pc *PromptContext) (string, error) {
	input := map[string]any{
		"system":  personality.SystemPrompt(pc.Personality),
		"history": historyMessages(pc.History),
		"query":   moodInstructedQuery(pc.UserMessage),
	}

	msg, err := p.chain.Invoke(ctx, input)
	if err != nil {
		return "", failure(p.Name(), classifyRemoteError(err), err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", failure(p.Name(), FailureMalformed, fmt.Errorf("empty completion"))
	}

	return msg.Content, nil
}

func historyMessages(turns []Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns)*2)
	for _, turn := range turns {
		history = append(history, schema.UserMessage(turn.User))
		history = append(history, schema.AssistantMessage(turn.Assistant, nil))
	}
	return history
}

func moodInstructedQuery(userMessage string) string {
	return fmt.Sprintf(`Please provide a therapeutic response to the user's message.
At the end of your response, include on a new line: MOOD: [mood]
Where [mood] is one of: idle, listening, speaking, thinking, happy, concerned

User message: %s`, userMessage)
}

func classifyRemoteError(err error) FailureKind {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "unauthorized") || strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "api key") {
		return FailureAuth
	}
	return FailureTransport
}
