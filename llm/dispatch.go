package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Dispatcher routes requests to the right provider and memoizes results
// by request fingerprint. Completed results live for the process lifetime
// (no eviction, not persisted); concurrent identical requests share a
// single in-flight provider call.
type Dispatcher struct {
	registry *Registry

	mu      sync.RWMutex
	results map[string]*ProviderResponse
	flight  singleflight.Group
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		results:  make(map[string]*ProviderResponse),
	}
}

// Execute runs the request through its provider, returning a cached
// result when an identical request already completed.
func (d *Dispatcher) Execute(ctx context.Context, req *ProviderRequest) *ProviderResponse {
	key := Fingerprint(req)

	d.mu.RLock()
	cached, ok := d.results[key]
	d.mu.RUnlock()
	if ok {
		return cached
	}

	resp, _, _ := d.flight.Do(key, func() (any, error) {
		provider := d.registry.Resolve(req.PreferredProvider)
		resp := provider.ExecuteTask(ctx, req)
		d.mu.Lock()
		d.results[key] = resp
		d.mu.Unlock()
		return resp, nil
	})
	return resp.(*ProviderResponse)
}

// Len reports the number of memoized results.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.results)
}

// Clear drops all memoized results.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	d.results = make(map[string]*ProviderResponse)
	d.mu.Unlock()
}

// Fingerprint hashes every request field into a stable cache key.
func Fingerprint(req *ProviderRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%t\x00%s\x00", req.Prompt, req.SystemMessage, req.Model, req.PreferredProvider, req.Multimodal, req.ImageMIMEType)
	if req.Temperature != nil {
		fmt.Fprintf(h, "%g", *req.Temperature)
	}
	h.Write([]byte{0})
	h.Write(req.ImageData)
	return hex.EncodeToString(h.Sum(nil))
}
