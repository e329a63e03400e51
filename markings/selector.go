// Package markings turns the states of an icon into alpha markings: copies of
// the states painted through a mask, written into a new or existing icon.
package markings

import (
	"strings"

	"badc0de.net/pkg/go-dmi/dmi"
)

// NameSet is a set of state names. An empty set selects every state.
type NameSet map[string]struct{}

// NewNameSet returns a set holding names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ParseStateList splits a comma separated list of state names. Names are
// taken as written, spaces included. The empty string yields an empty set.
func ParseStateList(list string) NameSet {
	if list == "" {
		return NameSet{}
	}
	return NewNameSet(strings.Split(list, ",")...)
}

// Select returns the states whose names are in names, in their original
// order. Names matching no state are ignored.
func Select(states []*dmi.State, names NameSet) []*dmi.State {
	if len(names) == 0 {
		return append([]*dmi.State(nil), states...)
	}
	var out []*dmi.State
	for _, s := range states {
		if names.Has(s.Name) {
			out = append(out, s)
		}
	}
	return out
}
