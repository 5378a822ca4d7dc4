package grading

import (
	"fmt"
)

// Registry resolves policies by id. It is populated once at startup and
// read-only afterwards, so concurrent requests need no locking.
type Registry struct {
	policies map[string]Policy
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{policies: make(map[string]Policy)}
}

// Register adds a policy, replacing any previous one with the same id.
func (r *Registry) Register(p Policy) {
	if _, exists := r.policies[p.ID()]; !exists {
		r.order = append(r.order, p.ID())
	}
	r.policies[p.ID()] = p
}

// Resolve returns the policy for id, or ErrUnknownPolicy.
func (r *Registry) Resolve(id string) (Policy, error) {
	p, ok := r.policies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, id)
	}
	return p, nil
}

// PolicyInfo describes one registered policy for listings.
type PolicyInfo struct {
	ID     string   `json:"id"`
	Grades []string `json:"grades"`
}

// List enumerates registered policies in registration order.
func (r *Registry) List() []PolicyInfo {
	infos := make([]PolicyInfo, 0, len(r.order))
	for _, id := range r.order {
		info := PolicyInfo{ID: id}
		if bp, ok := r.policies[id].(*BandPolicy); ok {
			for _, band := range bp.Bands() {
				info.Grades = append(info.Grades, band.Label)
			}
		}
		if _, ok := r.policies[id].(*PassFailPolicy); ok {
			info.Grades = []string{"Pass", "Fail"}
		}
		infos = append(infos, info)
	}
	return infos
}
