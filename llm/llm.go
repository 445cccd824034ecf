// Package llm defines the canonical request/response contract shared by
// all AI provider adapters, the agent catalog that specializes requests,
// and the dispatcher that memoizes provider calls.
package llm

import (
	"context"
	"strings"
)

// ProviderRequest is the one cross-vendor request shape. Adapters turn it
// into their vendor's wire format.
type ProviderRequest struct {
	Prompt            string
	SystemMessage     string
	Model             string
	PreferredProvider string
	Multimodal        bool
	ImageData         []byte
	ImageMIMEType     string
	Temperature       *float64
}

// ProviderResponse carries either content or an error message, never both.
type ProviderResponse struct {
	Content string
	Err     string
}

// OK reports whether the provider produced usable content.
func (r *ProviderResponse) OK() bool {
	return r.Err == ""
}

// ErrorResponse builds a failed response.
func ErrorResponse(message string) *ProviderResponse {
	return &ProviderResponse{Err: message}
}

// Provider executes one canonical request against a single LLM vendor.
// Implementations never propagate transport errors; failures come back in
// ProviderResponse.Err.
type Provider interface {
	Name() string
	ExecuteTask(ctx context.Context, req *ProviderRequest) *ProviderResponse
}

// Registry resolves provider hints to adapters, falling back to the
// default provider for absent or unknown hints.
type Registry struct {
	providers   map[string]Provider
	defaultName string
}

func NewRegistry(defaultName string, providers ...Provider) *Registry {
	r := &Registry{
		providers:   make(map[string]Provider, len(providers)),
		defaultName: strings.ToLower(defaultName),
	}
	for _, p := range providers {
		r.providers[strings.ToLower(p.Name())] = p
	}
	return r
}

// Resolve returns the adapter for hint, or the default adapter when the
// hint is empty or unrecognized.
func (r *Registry) Resolve(hint string) Provider {
	if p, ok := r.providers[strings.ToLower(hint)]; ok {
		return p
	}
	return r.providers[r.defaultName]
}
