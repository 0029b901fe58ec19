package journey

import (
	"fmt"
	"strings"
	"sync"
)

// StepGroup is one journey step: a non-empty set of conversation templates.
// A group with more than one template runs its conversations in parallel and
// the journey only advances past it once every member completes.
type StepGroup []string

// Contains reports whether the group includes the template
// (case-insensitive).
func (g StepGroup) Contains(template string) bool {
	for _, t := range g {
		if strings.EqualFold(t, template) {
			return true
		}
	}
	return false
}

// Journey is a static, ordered sequence of step groups. Loaded from
// configuration and read-only at runtime.
type Journey struct {
	ID    string
	Steps []StepGroup
}

// TotalSteps returns the number of step groups.
func (j *Journey) TotalSteps() int { return len(j.Steps) }

// First returns the first step group, or nil for an empty journey.
func (j *Journey) First() StepGroup {
	if len(j.Steps) == 0 {
		return nil
	}
	return j.Steps[0]
}

// StepOf returns the index of the first step group containing the template.
func (j *Journey) StepOf(template string) (int, bool) {
	for i, g := range j.Steps {
		if g.Contains(template) {
			return i, true
		}
	}
	return 0, false
}

// Validate checks the structural invariants: a non-empty id, at least one
// step and no empty step group.
func (j *Journey) Validate() error {
	if strings.TrimSpace(j.ID) == "" {
		return fmt.Errorf("journey without id")
	}
	if len(j.Steps) == 0 {
		return fmt.Errorf("journey %s has no steps", j.ID)
	}
	for i, g := range j.Steps {
		if len(g) == 0 {
			return fmt.Errorf("journey %s step %d is empty", j.ID, i)
		}
		for _, t := range g {
			if strings.TrimSpace(t) == "" {
				return fmt.Errorf("journey %s step %d has an empty template name", j.ID, i)
			}
		}
	}
	return nil
}

// Registry holds the declared journeys. It is an explicit, injectable
// registry constructed at startup; there is deliberately no package-level
// instance. Safe for concurrent reads after construction.
type Registry struct {
	mu       sync.RWMutex
	journeys []*Journey
	byID     map[string]*Journey
}

// NewRegistry constructs a Registry from the given journeys. Invalid or
// duplicate journeys are rejected.
func NewRegistry(journeys ...*Journey) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Journey, len(journeys))}
	for _, j := range journeys {
		if err := r.Add(j); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add registers a journey after validation.
func (r *Registry) Add(j *Journey) error {
	if err := j.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[j.ID]; exists {
		return fmt.Errorf("duplicate journey id %q", j.ID)
	}
	r.byID[j.ID] = j
	r.journeys = append(r.journeys, j)
	return nil
}

// Get returns the journey with the given id.
func (r *Registry) Get(id string) (*Journey, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.byID[id]
	return j, ok
}

// All returns the registered journeys in registration order.
func (r *Registry) All() []*Journey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Journey, len(r.journeys))
	copy(out, r.journeys)
	return out
}

// StartingWith returns every journey whose first step group contains the
// template. Used to infer journey membership for conversations that carry no
// persisted binding yet.
func (r *Registry) StartingWith(template string) []*Journey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []*Journey
	for _, j := range r.journeys {
		if j.First().Contains(template) {
			matches = append(matches, j)
		}
	}
	return matches
}
