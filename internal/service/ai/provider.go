package ai

import (
	"context"
	"fmt"
)

// FailureKind classifies why a single provider attempt failed.
type FailureKind string

const (
	FailureUnavailable FailureKind = "unavailable"
	FailureTransport   FailureKind = "transport"
	FailureAuth        FailureKind = "auth"
	FailureMalformed   FailureKind = "malformed_response"
	FailureNotLoaded   FailureKind = "model_not_loaded"
)

// ProviderError carries the diagnostic for one failed attempt. Failures are
// local to the attempt: the orchestrator logs them and moves on.
type ProviderError struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func failure(provider string, kind FailureKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// Provider wraps one response-generating backend behind a uniform capability.
// Attempt returns the raw model text or a *ProviderError; it must never panic
// through to the orchestrator.
type Provider interface {
	Name() string
	Attempt(ctx context.Context, pc *PromptContext) (string, error)
}
