// Package ai implements the completion service: an ordered list of language
// model providers tried in sequence until one returns usable text.
//
// Each provider speaks its own wire schema behind the common Provider
// interface. Responses are decoded into strict per-provider structs; a
// missing or empty content field is treated exactly like a transport
// failure, so malformed successes still trigger fallback.
package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrCompletionUnavailable is returned when every configured provider has
// failed or returned unusable content. Callers must answer the channel with
// a safe textual fallback rather than surfacing this to the end user.
var ErrCompletionUnavailable = errors.New("all completion providers unavailable")

// Provider is a single language model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Result is the outcome of one completion. Provider records which backend
// answered; it is an observability signal only and is never returned to the
// end user.
type Result struct {
	Text     string
	Provider string
}

// Service tries providers in declared order, one call per provider, at most
// one fallback hop per request.
type Service struct {
	providers []Provider
}

// NewService creates a completion service over the given providers. The
// first provider is the primary; the rest are fallbacks in order.
func NewService(providers ...Provider) *Service {
	return &Service{providers: providers}
}

// Complete obtains a reply for the user message under the given system
// prompt. It fails only when every provider fails, wrapping
// ErrCompletionUnavailable.
func (s *Service) Complete(ctx context.Context, systemPrompt, userMessage string) (*Result, error) {
	var lastErr error
	for _, p := range s.providers {
		text, err := p.Complete(ctx, systemPrompt, userMessage)
		if err != nil {
			log.Warn().
				Str("provider", p.Name()).
				Err(err).
				Msg("Provider call failed, trying next")
			lastErr = err
			continue
		}
		return &Result{Text: text, Provider: p.Name()}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompletionUnavailable, lastErr)
	}
	return nil, ErrCompletionUnavailable
}
