package adapters

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/tunebridge/tunebridge/internal/domain"
	"github.com/tunebridge/tunebridge/internal/ports"
)

// ProviderRegistry maps provider identifiers to their MusicProvider
// implementations. It is built once at startup and never mutated, so it is
// safe for concurrent use without locking.
type ProviderRegistry struct {
	providers map[string]ports.MusicProvider
	order     []string
}

// NewProviderRegistry creates a registry holding the given providers, keyed
// by their Name(). Listing order follows the argument order.
func NewProviderRegistry(providers ...ports.MusicProvider) *ProviderRegistry {
	r := &ProviderRegistry{
		providers: make(map[string]ports.MusicProvider, len(providers)),
	}
	for _, p := range providers {
		if _, dup := r.providers[p.Name()]; dup {
			continue
		}
		r.providers[p.Name()] = p
		r.order = append(r.order, p.Name())
	}
	return r
}

// Get returns the provider for the given name, or an error if not found.
func (r *ProviderRegistry) Get(name string) (ports.MusicProvider, error) {
	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return provider, nil
}

// List returns id and display name for every registered provider, in
// registration order.
func (r *ProviderRegistry) List() []domain.ProviderInfo {
	return lo.Map(r.order, func(name string, _ int) domain.ProviderInfo {
		return domain.ProviderInfo{
			ID:          name,
			DisplayName: r.providers[name].DisplayName(),
		}
	})
}
