package provider

import (
	"net/http"

	"jobfeed-engine/internal/fetchutil"
)

// Registry is the closed, ordered table of known providers. Order is the
// order providers run in a scheduler pass.
type Registry struct {
	order []string
	byID  map[string]*Provider
}

func NewRegistry(hc *http.Client, limiter *fetchutil.HostLimiter) *Registry {
	r := &Registry{byID: make(map[string]*Provider)}
	for _, def := range Definitions() {
		r.order = append(r.order, def.ID)
		r.byID[def.ID] = New(def, hc, limiter)
	}
	return r
}

// NewRegistryFrom builds a registry from explicit definitions; tests use it
// to register stub providers.
func NewRegistryFrom(defs []Definition, hc *http.Client, limiter *fetchutil.HostLimiter) *Registry {
	r := &Registry{byID: make(map[string]*Provider)}
	for _, def := range defs {
		r.order = append(r.order, def.ID)
		r.byID[def.ID] = New(def, hc, limiter)
	}
	return r
}

func (r *Registry) Get(id string) (*Provider, bool) {
	p, ok := r.byID[id]
	return p, ok
}

func (r *Registry) All() []*Provider {
	out := make([]*Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
