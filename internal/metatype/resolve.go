// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package metatype

import "github.com/specialistvlad/tracegraph/internal/layerattr"

// DetermineSubtype evaluates every direct subtype of mt against the node.
//
//   - no match: returns nil, the caller keeps mt;
//   - one match: recurses into it and returns the deepest match found;
//   - several matches: returns an *AmbiguityError wrapping ErrAmbiguousSubtype.
func DetermineSubtype(mt *Metatype, attrs layerattr.Attributes, call CallContext) (*Metatype, error) {
	var matches []*Metatype
	for _, st := range mt.Subtypes {
		if st.Match != nil && st.Match.Match(attrs, call) {
			matches = append(matches, st)
		}
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		nested, err := DetermineSubtype(matches[0], attrs, call)
		if err != nil {
			return nil, err
		}
		if nested != nil {
			return nested, nil
		}
		return matches[0], nil
	default:
		keys := make([]string, len(matches))
		for i, m := range matches {
			keys[i] = m.Key
		}
		return nil, &AmbiguityError{Parent: mt.Key, Matches: keys}
	}
}
