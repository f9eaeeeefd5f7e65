// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package metatype

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAmbiguousSubtype indicates that two or more sibling subtypes matched the same node.
	ErrAmbiguousSubtype = errors.New("multiple subtypes match operator call")

	// ErrDuplicateKey indicates that a metatype key is already registered.
	ErrDuplicateKey = errors.New("metatype key already registered")

	// ErrAliasConflict indicates that an operator alias already maps to an unrelated root metatype.
	ErrAliasConflict = errors.New("operator alias maps to multiple metatypes")

	// ErrMissingPredicate indicates a subtype without a match predicate.
	ErrMissingPredicate = errors.New("subtype has no match predicate")

	// ErrNotFound indicates a metatype key that is not registered.
	ErrNotFound = errors.New("metatype not found")
)

// AmbiguityError reports which sibling subtypes matched the same node.
type AmbiguityError struct {
	Parent  string
	Matches []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s: cannot determine single subtype of '%s', candidates: %s",
		ErrAmbiguousSubtype, e.Parent, strings.Join(e.Matches, ", "))
}

func (e *AmbiguityError) Unwrap() error {
	return ErrAmbiguousSubtype
}
