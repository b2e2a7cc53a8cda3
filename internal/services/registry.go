package services

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Registry tracks the dependencies readiness depends on
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	timeout   time.Duration
}

// NewRegistry creates a registry whose checks are bounded by timeout
func NewRegistry(timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Registry{
		providers: make(map[string]Provider),
		timeout:   timeout,
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
}

// List returns the registered provider names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status is the outcome of one provider check
type Status struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthCheckAll checks every provider concurrently and returns the statuses
// in name order with whether all of them are healthy
func (r *Registry) HealthCheckAll(ctx context.Context) ([]Status, bool) {
	r.mu.RLock()
	providers := make(map[string]Provider, len(r.providers))
	for name, p := range r.providers {
		providers[name] = p
	}
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)

	statuses := make([]Status, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := providers[name]
			st := Status{Name: name, Type: p.Type(), Healthy: true}
			if err := p.HealthCheck(ctx); err != nil {
				st.Healthy = false
				st.Error = err.Error()
			}
			statuses[i] = st
		}()
	}
	wg.Wait()

	ready := true
	for _, st := range statuses {
		ready = ready && st.Healthy
	}
	return statuses, ready
}
