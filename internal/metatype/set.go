// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package metatype

import (
	"maps"
	"slices"
)

// Set is a set of metatypes identified by key.
type Set map[string]struct{}

// NewSet builds a set from metatypes.
func NewSet(mts ...*Metatype) Set {
	s := make(Set, len(mts))
	for _, mt := range mts {
		s[mt.Key] = struct{}{}
	}
	return s
}

// Add inserts a metatype into the set.
func (s Set) Add(mt *Metatype) {
	s[mt.Key] = struct{}{}
}

// Contains reports whether the metatype is a member.
func (s Set) Contains(mt *Metatype) bool {
	if mt == nil {
		return false
	}
	_, ok := s[mt.Key]
	return ok
}

// Keys returns the sorted member keys.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}
