package ai

import (
	"context"
	"log"

	"github.com/solacehq/solace/backend/internal/analysis/mood"
)

// Result is the normalized orchestration output. Mood is always a member of
// the closed set, whichever provider produced the text.
type Result struct {
	Text string    `json:"response"`
	Mood mood.Mood `json:"mood"`
}

// Orchestrator tries its providers in fixed priority order until one
// succeeds, then normalizes the winning output. The rule-based terminal
// adapter is held separately so the list structurally ends with a provider
// that cannot fail: Generate is total for any non-empty user message.
type Orchestrator struct {
	providers []Provider
	terminal  *RuleProvider
}

// NewOrchestrator configures the fixed adapter order. Providers are tried
// front to back; terminal answers when every configured provider has failed.
func NewOrchestrator(terminal *RuleProvider, providers ...Provider) *Orchestrator {
	if terminal == nil {
		terminal = NewRuleProvider(nil)
	}
	return &Orchestrator{providers: providers, terminal: terminal}
}

// ProviderNames lists the configured order, terminal included, for startup logs.
func (o *Orchestrator) ProviderNames() []string {
	names := make([]string, 0, len(o.providers)+1)
	for _, p := range o.providers {
		names = append(names, p.Name())
	}
	return append(names, o.terminal.Name())
}

// Generate runs the sequential fallback chain. Fallback is strictly
// sequential, never speculative: adapter k+1 is not consulted until adapter
// k's attempt has fully resolved, and a later adapter is never consulted
// once an earlier one succeeds.
func (o *Orchestrator) Generate(ctx context.Context, pc *PromptContext) Result {
	for _, p := range o.providers {
		raw, err := p.Attempt(ctx, pc)
		if err != nil {
			log.Printf("[orchestrator] provider %s failed: %v", p.Name(), err)
			continue
		}

		text, m := mood.Extract(raw, pc.UserMessage)
		if text == "" {
			log.Printf("[orchestrator] provider %s returned empty text, falling through", p.Name())
			continue
		}

		log.Printf("[orchestrator] provider %s answered, mood=%s, length=%d", p.Name(), m, len(text))
		return Result{Text: text, Mood: m}
	}

	raw, _ := o.terminal.Attempt(ctx, pc)
	text, m := mood.Extract(raw, pc.UserMessage)
	log.Printf("[orchestrator] rule-based response served, mood=%s", m)
	return Result{Text: text, Mood: m}
}
