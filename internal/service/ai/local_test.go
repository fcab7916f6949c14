package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/solacehq/solace/backend/internal/config"
)

func TestLocalProviderFastFailsWhenNotLoaded(t *testing.T) {
	provider := NewLocalProvider(config.LocalModelConfig{})

	_, err := provider.Attempt(context.Background(), &PromptContext{UserMessage: "hi"})
	perr, ok := err.(*ProviderError)
	if !ok {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if perr.Kind != FailureNotLoaded {
		t.Fatalf("expected model_not_loaded, got %s", perr.Kind)
	}
}

func TestSanitizeLocalOutputStripsTokens(t *testing.T) {
	raw := "<|start_header_id|>assistant<|end_header_id|>\nYou are doing well.<|eot_id|>"
	got := sanitizeLocalOutput(raw, "")
	if got != "You are doing well." {
		t.Fatalf("unexpected sanitized output: %q", got)
	}
}

func TestSanitizeLocalOutputScrubsIdentityName(t *testing.T) {
	got := sanitizeLocalOutput("Alex, you are doing well, Alex.", "Alex")
	if strings.Contains(got, "Alex") {
		t.Fatalf("identity name leaked into output: %q", got)
	}
}

func TestFormatPromptIncludesEmotionSummary(t *testing.T) {
	provider := &LocalProvider{cfg: config.LocalModelConfig{MaxNewTokens: 8}}

	prompt := provider.formatPrompt(&PromptContext{
		UserMessage:    "I feel off today",
		EmotionSignals: map[string]float64{"sad": 0.7, "neutral": 0.2},
	})

	if !strings.Contains(prompt, "facial emotion probabilities") {
		t.Fatalf("expected emotion summary in prompt")
	}
	if !strings.Contains(prompt, "neutral=0.20, sad=0.70") {
		t.Fatalf("expected deterministic key order, prompt was:\n%s", prompt)
	}
	if !strings.Contains(prompt, localSystemPersona) {
		t.Fatalf("expected fixed system persona in prompt")
	}
}

func TestFormatPromptOmitsEmptySignals(t *testing.T) {
	provider := &LocalProvider{cfg: config.LocalModelConfig{}}

	prompt := provider.formatPrompt(&PromptContext{UserMessage: "hello"})
	if strings.Contains(prompt, "facial emotion probabilities") {
		t.Fatalf("emotion summary injected without signals")
	}
}
