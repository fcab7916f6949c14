package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/solacehq/solace/backend/internal/model/personality"
)

// ChatCompletionProvider is the second-tier cloud backend: a plain
// OpenAI-compatible /chat/completions endpoint called directly over HTTP.
// Its output carries no mood marker; the orchestrator's keyword heuristic
// labels it instead.
type ChatCompletionProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewChatCompletionProvider configures the secondary endpoint client.
func NewChatCompletionProvider(baseURL, apiKey, model string) *ChatCompletionProvider {
	return &ChatCompletionProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *ChatCompletionProvider) Name() string { return "cloud-secondary" }

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

// Attempt serializes the bounded history plus the current message into one
// chat-completion call with fixed sampling parameters.
func (p *ChatCompletionProvider) Attempt(ctx context.Context, pc *PromptContext) (string, error) {
	if p.apiKey == "" {
		return "", failure(p.Name(), FailureUnavailable, fmt.Errorf("no api key configured"))
	}

	messages := make([]completionMessage, 0, len(pc.History)*2+2)
	messages = append(messages, completionMessage{Role: "system", Content: personality.SystemPrompt(pc.Personality)})
	for _, turn := range pc.History {
		messages = append(messages, completionMessage{Role: "user", Content: turn.User})
		messages = append(messages, completionMessage{Role: "assistant", Content: turn.Assistant})
	}
	messages = append(messages, completionMessage{Role: "user", Content: pc.UserMessage})

	body, err := json.Marshal(completionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", failure(p.Name(), FailureMalformed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", failure(p.Name(), FailureTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", failure(p.Name(), FailureTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", failure(p.Name(), FailureAuth, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return "", failure(p.Name(), FailureTransport, fmt.Errorf("status %d", resp.StatusCode))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", failure(p.Name(), FailureMalformed, err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", failure(p.Name(), FailureMalformed, fmt.Errorf("no choices in response"))
	}

	return result.Choices[0].Message.Content, nil
}
