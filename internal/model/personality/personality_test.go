package personality

import (
	"strings"
	"testing"
)

func TestResolveUnknownFallsBackToWarm(t *testing.T) {
	got := Resolve("sarcastic")
	if got.Key != DefaultKey {
		t.Fatalf("expected default personality, got %s", got.Key)
	}
}

func TestResolveKnownKeys(t *testing.T) {
	for _, key := range []string{"warm", "professional", "gentle", "encouraging", "analytical"} {
		if got := Resolve(key); got.Key != key {
			t.Fatalf("Resolve(%s) returned %s", key, got.Key)
		}
	}
}

func TestSystemPromptContainsAddition(t *testing.T) {
	prompt := SystemPrompt("professional")
	if !strings.Contains(prompt, "clinical and structured") {
		t.Fatalf("professional addition missing from prompt")
	}

	fallback := SystemPrompt("does-not-exist")
	if !strings.Contains(fallback, "warm, nurturing") {
		t.Fatalf("unknown key should use the warm addition")
	}
}
