// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package metatype

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// Fingerprint returns a hex digest of the registry's classification rules:
// the metatype trees, their aliases, descriptors and match expressions. Two
// registries with the same fingerprint classify every node the same way.
//
// Built-in predicates are compiled in and only contribute their position in
// the tree.
func (r *Registry) Fingerprint() string {
	roots := r.Roots()

	r.mu.RLock()
	defer r.mu.RUnlock()

	h := sha256.New()
	for _, root := range roots {
		writeTree(h, root, 0)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeTree(h hash.Hash, m *Metatype, depth int) {
	axis := "-"
	if m.OutputChannelAxis != nil {
		axis = fmt.Sprint(*m.OutputChannelAxis)
	}
	fmt.Fprintf(h, "%d|%s|%s|%s|%s|%v|%s|%d|%d|%s\n",
		depth, m.Key, m.Name,
		strings.Join(m.AllAliases(), ","),
		axis, m.IgnoredInputPorts,
		strings.Join(m.HWConfigNames, ","),
		m.Traits, m.Role,
		predicateSource(m.Match),
	)
	for _, st := range m.Subtypes {
		writeTree(h, st, depth+1)
	}
}

func predicateSource(p Predicate) string {
	switch p := p.(type) {
	case nil:
		return ""
	case fmt.Stringer:
		return p.String()
	default:
		return "builtin"
	}
}
