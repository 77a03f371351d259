package checks

import (
	"sync"
)

// Registry is an immutable, ordered catalog of checks. Serializer and
// deserializer consult the same registry to agree on parameter order.
type Registry struct {
	checks   []Check
	byID     map[string]int
	nonLabel map[string][]Param
}

// NewRegistry validates the given checks and builds a registry from them.
func NewRegistry(checks ...Check) (*Registry, error) {
	if err := validateChecks(checks); err != nil {
		return nil, err
	}

	r := &Registry{
		checks:   make([]Check, len(checks)),
		byID:     make(map[string]int, len(checks)),
		nonLabel: make(map[string][]Param, len(checks)),
	}
	copy(r.checks, checks)

	for i, c := range r.checks {
		r.byID[c.ID] = i
		params := make([]Param, 0, len(c.Params))
		for _, p := range c.Params {
			if !p.IsLabel() {
				params = append(params, p)
			}
		}
		r.nonLabel[c.ID] = params
	}
	return r, nil
}

// MustNewRegistry is like NewRegistry but panics on an invalid catalog.
func MustNewRegistry(checks ...Check) *Registry {
	r, err := NewRegistry(checks...)
	if err != nil {
		panic(err)
	}
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return MustNewRegistry(Catalog()...)
})

// DefaultRegistry returns the built-in catalog.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Lookup returns the check with the given id.
func (r *Registry) Lookup(id string) (Check, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Check{}, false
	}
	return r.checks[i], true
}

// NonLabelParams returns the wire-visible params of a check in declared order.
// The returned slice must not be modified.
func (r *Registry) NonLabelParams(id string) []Param {
	return r.nonLabel[id]
}

// Checks returns every check in declared order.
func (r *Registry) Checks() []Check {
	out := make([]Check, len(r.checks))
	copy(out, r.checks)
	return out
}

// ForFilters returns the checks offered in the filter bar.
func (r *Registry) ForFilters() []Check {
	return r.filter(func(c Check) bool { return !c.EvalOnly })
}

// ForEvals returns the checks offered in evaluation checklists.
func (r *Registry) ForEvals() []Check {
	return r.filter(func(c Check) bool { return !c.ExcludedFromEvals })
}

func (r *Registry) filter(keep func(Check) bool) []Check {
	var out []Check
	for _, c := range r.checks {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
