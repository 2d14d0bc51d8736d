package behavior

import (
	"log"
	"sort"
)

// A Registry is the ordered set of behavior modules attached to one actor.
// The order is descending by priority and is recomputed lazily, only after
// modules were added or removed since the last query.
type Registry struct {
	modules []Module
	sorted  bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add attaches a module. Module names must be unique within one registry.
func (r *Registry) Add(m Module) {
	for _, existing := range r.modules {
		if existing.Name() == m.Name() {
			log.Panicf("module %s already registered", m.Name())
		}
	}

	r.modules = append(r.modules, m)
	r.sorted = false
}

// Remove detaches the module with the given name and reports whether it was
// present.
func (r *Registry) Remove(name string) bool {
	for i, m := range r.modules {
		if m.Name() == name {
			r.modules = append(r.modules[:i], r.modules[i+1:]...)
			r.sorted = false

			return true
		}
	}

	return false
}

// Len returns the number of attached modules.
func (r *Registry) Len() int {
	return len(r.modules)
}

// Modules returns the modules in descending priority order, resorting first
// if the set changed. Modules that observe ordering are notified of the
// reshuffle.
func (r *Registry) Modules() []Module {
	if !r.sorted {
		sort.SliceStable(r.modules, func(i, j int) bool {
			return r.modules[i].Priority() > r.modules[j].Priority()
		})

		for _, m := range r.modules {
			if observer, ok := m.(OrderObserver); ok {
				observer.NotifyReordered()
			}
		}

		r.sorted = true
	}

	return r.modules
}
