package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// FallbackClient tries each provider in order and returns the first
// successful completion.
type FallbackClient struct {
	providers []namedClient
}

type namedClient struct {
	name   string
	client Client
}

func NewFallbackClient() *FallbackClient {
	return &FallbackClient{}
}

// Add appends a provider. Nil clients are skipped so optional providers
// can be passed straight from configuration.
func (f *FallbackClient) Add(name string, client Client) *FallbackClient {
	if client != nil {
		f.providers = append(f.providers, namedClient{name: name, client: client})
	}
	return f
}

func (f *FallbackClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	var errs []error
	for _, p := range f.providers {
		out, err := p.client.Complete(ctx, system, prompt)
		if err == nil {
			return out, nil
		}
		slog.Warn("AI provider failed", "provider", p.name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.name, err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return "", errors.New("no AI providers configured")
	}
	return "", fmt.Errorf("all AI providers failed: %w", errors.Join(errs...))
}
