package migration

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// idPattern is the required migration identifier format. Two digits keep
// lexical and numeric ordering identical.
var idPattern = regexp.MustCompile(`^\d{2}$`)

// Registry is an ordered collection of migration modules, validated for
// unique well-formed ids at construction. The module list is fixed at
// startup; the registry is never mutated afterwards.
type Registry struct {
	modules []Module
}

// NewRegistry builds a registry from an explicit module list. It fails
// with ErrConfiguration if two modules share an id, an id is not a
// two-digit string, or a module is missing required metadata.
func NewRegistry(modules ...Module) (*Registry, error) {
	seen := make(map[string]string, len(modules))
	ordered := make([]Module, 0, len(modules))

	for _, mod := range modules {
		id := mod.ID()
		if !idPattern.MatchString(id) {
			return nil, fmt.Errorf("%w: id %q does not match the two-digit convention", ErrConfiguration, id)
		}
		if strings.TrimSpace(mod.Name()) == "" {
			return nil, fmt.Errorf("%w: migration %s has no name", ErrConfiguration, id)
		}
		if strings.TrimSpace(mod.Description()) == "" {
			return nil, fmt.Errorf("%w: migration %s has no description", ErrConfiguration, id)
		}
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: id %s registered by both %s and %s", ErrConfiguration, id, existing, mod.Name())
		}
		seen[id] = mod.Name()
		ordered = append(ordered, mod)
	}

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ID() < ordered[j].ID()
	})

	return &Registry{modules: ordered}, nil
}

// List returns the registered modules in ascending id order.
func (r *Registry) List() []Module {
	out := make([]Module, len(r.modules))
	copy(out, r.modules)
	return out
}

// Get returns the module registered under id, or ErrNotFound.
func (r *Registry) Get(id string) (Module, error) {
	for _, mod := range r.modules {
		if mod.ID() == id {
			return mod, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Before returns the modules ordered strictly before id.
func (r *Registry) Before(id string) []Module {
	var out []Module
	for _, mod := range r.modules {
		if mod.ID() >= id {
			break
		}
		out = append(out, mod)
	}
	return out
}
