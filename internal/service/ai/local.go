package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/solacehq/solace/backend/internal/config"
)

const localSystemPersona = "You are a Psychology Assistant, designed to answer users' questions in a kind, empathetic, and respectful manner, drawing from psychological principles and research to provide thoughtful support. Do not use the name of the person in your response."

var structuralTokens = []string{
	"<|eot_id|>", "<|end_header_id|>", "<|begin_of_text|>", "<|start_header_id|>",
}

// LocalProvider runs the fine-tuned model through a llama.cpp-style local
// inference server. The runtime is probed once at construction; a failed
// probe makes every later attempt fast-fail with model_not_loaded instead
// of retrying the load.
type LocalProvider struct {
	cfg    config.LocalModelConfig
	client *http.Client
	loaded bool
}

// NewLocalProvider probes the local runtime and records availability.
func NewLocalProvider(cfg config.LocalModelConfig) *LocalProvider {
	p := &LocalProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second},
	}

	if !cfg.Enabled() {
		return p
	}

	probe := &http.Client{Timeout: 5 * time.Second}
	resp, err := probe.Get(strings.TrimRight(cfg.BaseURL, "/") + "/health")
	if err != nil {
		log.Printf("[local-llm] runtime probe failed: %v", err)
		return p
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[local-llm] runtime probe returned status %d", resp.StatusCode)
		return p
	}

	p.loaded = true
	log.Printf("[local-llm] runtime available at %s", cfg.BaseURL)
	return p
}

// Loaded reports whether the startup probe succeeded.
func (p *LocalProvider) Loaded() bool { return p.loaded }

func (p *LocalProvider) Name() string { return "local-model" }

// Attempt formats a single structured prompt and runs bounded-length
// generation. Concurrent calls are safe to interleave: the runtime queues
// inference requests itself, so no adapter-level lock is held.
func (p *LocalProvider) Attempt(ctx context.Context, pc *PromptContext) (string, error) {
	if !p.loaded {
		return "", failure(p.Name(), FailureNotLoaded, fmt.Errorf("runtime never initialized"))
	}

	body, err := json.Marshal(map[string]any{
		"prompt":      p.formatPrompt(pc),
		"n_predict":   p.cfg.MaxNewTokens,
		"temperature": 0.7,
		"stop":        []string{"<|eot_id|>"},
	})
	if err != nil {
		return "", failure(p.Name(), FailureMalformed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(p.cfg.BaseURL, "/")+"/completion", bytes.NewReader(body))
	if err != nil {
		return "", failure(p.Name(), FailureTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", failure(p.Name(), FailureTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", failure(p.Name(), FailureTransport, fmt.Errorf("status %d", resp.StatusCode))
	}

	var result struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", failure(p.Name(), FailureMalformed, err)
	}

	text := sanitizeLocalOutput(result.Content, pc.UserName)
	if text == "" {
		return "", failure(p.Name(), FailureMalformed, fmt.Errorf("empty decoded output"))
	}

	return text, nil
}

// formatPrompt embeds the fixed persona, the optional facial-emotion summary
// and the bounded history into a llama3-style header prompt.
func (p *LocalProvider) formatPrompt(pc *PromptContext) string {
	var b strings.Builder
	b.WriteString("<|begin_of_text|><|start_header_id|>system<|end_header_id|>\n")
	b.WriteString(localSystemPersona)
	if summary := emotionSummary(pc.EmotionSignals); summary != "" {
		b.WriteString("\nThe user's current facial emotion probabilities are: ")
		b.WriteString(summary)
	}
	b.WriteString("<|eot_id|>")

	for _, turn := range pc.History {
		b.WriteString("<|start_header_id|>user<|end_header_id|>\n")
		b.WriteString(turn.User)
		b.WriteString("<|eot_id|><|start_header_id|>assistant<|end_header_id|>\n")
		b.WriteString(turn.Assistant)
		b.WriteString("<|eot_id|>")
	}

	b.WriteString("<|start_header_id|>user<|end_header_id|>\n")
	b.WriteString(pc.UserMessage)
	b.WriteString("<|eot_id|><|start_header_id|>assistant<|end_header_id|>")
	return b.String()
}

func emotionSummary(signals map[string]float64) string {
	if len(signals) == 0 {
		return ""
	}

	keys := make([]string, 0, len(signals))
	for key := range signals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.2f", key, signals[key]))
	}
	return strings.Join(parts, ", ")
}

// sanitizeLocalOutput strips structural tokens the model may echo and scrubs
// the stored identity name so it never reaches the user.
func sanitizeLocalOutput(raw, userName string) string {
	text := raw
	if idx := strings.LastIndex(text, "<|end_header_id|>"); idx >= 0 {
		text = text[idx+len("<|end_header_id|>"):]
	}
	for _, token := range structuralTokens {
		text = strings.ReplaceAll(text, token, "")
	}
	if name := strings.TrimSpace(userName); name != "" {
		text = strings.ReplaceAll(text, name, "")
	}
	return strings.TrimSpace(text)
}
