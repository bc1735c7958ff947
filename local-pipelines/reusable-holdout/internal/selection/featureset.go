package selection

import (
	"sort"
	"strings"
)

// FeatureSet is a set of feature names
type FeatureSet map[string]struct{}

// NewFeatureSet builds a set from names; duplicates collapse
func NewFeatureSet(names ...string) FeatureSet {
	s := make(FeatureSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Len returns the number of features
func (s FeatureSet) Len() int {
	return len(s)
}

// Contains reports whether name is in the set
func (s FeatureSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Clone returns an independent copy
func (s FeatureSet) Clone() FeatureSet {
	out := make(FeatureSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Union returns a new set holding the features of both s and other
func (s FeatureSet) Union(other FeatureSet) FeatureSet {
	out := s.Clone()
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

// SubsetOf reports whether every feature of s is in other
func (s FeatureSet) SubsetOf(other FeatureSet) bool {
	for n := range s {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}

// Sorted returns the names in lexical order
func (s FeatureSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s FeatureSet) String() string {
	return "{" + strings.Join(s.Sorted(), ",") + "}"
}
