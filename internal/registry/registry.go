package registry

import (
	"fmt"
	"sync"
)

// CollisionError reports two generators producing the same task name.
type CollisionError struct {
	Name     string
	Existing string
	Incoming string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("duplicate generated task name %q: produced by %s and by %s", e.Name, e.Existing, e.Incoming)
}

// Registry maps each claimed task name to the generator that owns it.
type Registry struct {
	mu    sync.Mutex
	names map[string]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{names: make(map[string]string)}
}

// Claim records name as owned by owner. It fails if the name is already
// claimed, including by the same owner.
func (r *Registry) Claim(name, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.names[name]; ok {
		return &CollisionError{Name: name, Existing: existing, Incoming: owner}
	}
	r.names[name] = owner
	return nil
}

// ClaimAll claims every name for owner, stopping at the first collision.
// Names claimed before the collision stay claimed; the run is aborted on
// any collision so there is nothing to roll back for.
func (r *Registry) ClaimAll(owner string, names ...string) error {
	for _, n := range names {
		if err := r.Claim(n, owner); err != nil {
			return err
		}
	}
	return nil
}
