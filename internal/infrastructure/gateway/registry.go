package gateway

import (
	"fmt"
	"sort"

	"github.com/salehub/backend/internal/domain/sale"
)

// Registry maps gateway slugs to adapters. It is built once at startup and
// never mutated afterwards, so it is safe for concurrent reads.
type Registry struct {
	adapters map[sale.Gateway]sale.GatewayAdapter
	slugs    []sale.Gateway
}

// NewRegistry builds a registry from the given adapters.
// It panics when two adapters claim the same slug.
func NewRegistry(adapters ...sale.GatewayAdapter) *Registry {
	r := &Registry{
		adapters: make(map[sale.Gateway]sale.GatewayAdapter, len(adapters)),
		slugs:    make([]sale.Gateway, 0, len(adapters)),
	}
	for _, a := range adapters {
		slug := sale.NormalizeGateway(a.Gateway().String())
		if _, exists := r.adapters[slug]; exists {
			panic(fmt.Sprintf("gateway: duplicate adapter for %q", slug))
		}
		r.adapters[slug] = a
		r.slugs = append(r.slugs, slug)
	}
	sort.Slice(r.slugs, func(i, j int) bool { return r.slugs[i] < r.slugs[j] })
	return r
}

// DefaultRegistry returns a registry with every built-in vendor
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewVegaAdapter(),
		NewOrionAdapter(),
		NewLyraAdapter(),
		NewNovaAdapter(),
	)
}

// Lookup returns the adapter for a slug. Matching ignores case and
// surrounding whitespace.
func (r *Registry) Lookup(slug string) (sale.GatewayAdapter, bool) {
	if r == nil {
		return nil, false
	}
	a, ok := r.adapters[sale.NormalizeGateway(slug)]
	return a, ok
}

// All returns the adapters ordered by slug
func (r *Registry) All() []sale.GatewayAdapter {
	if r == nil {
		return nil
	}
	out := make([]sale.GatewayAdapter, 0, len(r.slugs))
	for _, slug := range r.slugs {
		out = append(out, r.adapters[slug])
	}
	return out
}

// Slugs returns the registered slugs in order
func (r *Registry) Slugs() []sale.Gateway {
	if r == nil {
		return nil
	}
	return append([]sale.Gateway(nil), r.slugs...)
}
