// Package selection holds the dashboard's filter state and the reducer that updates it.
package selection

import (
	"maps"
	"slices"
)

// Set is an unordered set of strings. A nil Set is empty.
type Set map[string]struct{}

// NewSet creates a set containing the given values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of values.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the values in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// toggled returns a copy of s with v added or removed.
func (s Set) toggled(v string) Set {
	out := maps.Clone(s)
	if out == nil {
		out = make(Set)
	}
	if out.Has(v) {
		delete(out, v)
	} else {
		out[v] = struct{}{}
	}
	return out
}

// State is the current selection: an optional cluster plus genre and artist filters.
// An empty set places no restriction. State values are never mutated in place.
type State struct {
	Cluster *int
	Genres  Set
	Artists Set
}

// Initial returns the "no selection" state.
func Initial() State {
	return State{}
}

// HasCluster reports whether a cluster is selected.
func (s State) HasCluster() bool {
	return s.Cluster != nil
}

// ClusterID returns the selected cluster and whether one is selected.
func (s State) ClusterID() (int, bool) {
	if s.Cluster == nil {
		return 0, false
	}
	return *s.Cluster, true
}

// Action is a user interaction that produces a new State.
type Action interface {
	apply(State) State
}

// Reduce applies an action to a state and returns the resulting state.
// The input state is left untouched.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// SelectCluster selects a cluster. Filter controls are rebuilt for the
// cluster, so any genre and artist selections are cleared.
type SelectCluster struct {
	ID int
}

func (a SelectCluster) apply(State) State {
	id := a.ID
	return State{Cluster: &id}
}

// ToggleGenre adds or removes one genre from the filter.
type ToggleGenre struct {
	Name string
}

func (a ToggleGenre) apply(s State) State {
	s.Genres = s.Genres.toggled(a.Name)
	return s
}

// ToggleArtist adds or removes one artist from the filter.
type ToggleArtist struct {
	Name string
}

func (a ToggleArtist) apply(s State) State {
	s.Artists = s.Artists.toggled(a.Name)
	return s
}

// SetFilters replaces both filter sets with the given checked values.
type SetFilters struct {
	Genres  []string
	Artists []string
}

func (a SetFilters) apply(s State) State {
	s.Genres = NewSet(a.Genres...)
	s.Artists = NewSet(a.Artists...)
	return s
}

// Reset clears the cluster and every filter.
type Reset struct{}

func (Reset) apply(State) State {
	return Initial()
}
