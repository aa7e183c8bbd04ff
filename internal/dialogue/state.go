// Package dialogue implements the slot-filling engine: the belief state
// accumulated over a conversation, the completeness policy, the guidance
// planner that decides what to ask next, and the loop controller that
// drives a conversation to a terminal state.
package dialogue

import "github.com/fieldops/intake/internal/schema"

// State is the accumulated booking knowledge for one conversation. A
// field is present only when it holds a non-empty, validated value.
// State is owned by a single Controller; it is not safe for concurrent
// use and must never be shared across conversations.
type State struct {
	values  map[string]any
	skipped map[string]bool
}

// NewState creates an empty belief state.
func NewState() *State {
	return &State{
		values:  make(map[string]any),
		skipped: make(map[string]bool),
	}
}

// Merge folds a candidate field set into the state. Unknown field names
// and values that fail their declared type or enumeration are dropped,
// as are null and empty values. New values overwrite existing ones
// (last write wins); fields absent from the candidate set are left
// untouched, so the state only ever gains information.
func (s *State) Merge(candidate map[string]any) {
	for name, raw := range candidate {
		f, ok := schema.ByName(name)
		if !ok {
			continue
		}
		v, ok := schema.Normalize(f, raw)
		if !ok {
			continue
		}
		s.values[name] = v
	}
}

// Get returns the value for a field, if present.
func (s *State) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether a field holds a value.
func (s *State) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Skip marks an optional field as explicitly declined by the user, a
// state distinct from merely unknown: skipped fields are not re-asked
// and count as resolved.
func (s *State) Skip(name string) {
	s.skipped[name] = true
}

// Skipped reports whether the user explicitly declined the field.
func (s *State) Skipped(name string) bool {
	return s.skipped[name]
}

// Resolved reports whether a field needs no further asking: it holds a
// value or was explicitly skipped.
func (s *State) Resolved(name string) bool {
	return s.Has(name) || s.Skipped(name)
}

// Len returns the number of fields holding values.
func (s *State) Len() int {
	return len(s.values)
}

// Snapshot returns a flat copy of the known field values, suitable for
// handing to the confirmation and persistence collaborators.
func (s *State) Snapshot() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
