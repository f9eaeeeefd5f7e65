// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package metatype

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/tracegraph/internal/layerattr"
)

// Unknown is the fallback metatype for operator names nobody registered.
// It is shared by every registry and must not be mutated.
var Unknown = &Metatype{Key: "unknown", Name: "UnknownOp"}

// Registry maps operator-name aliases to root metatypes. It is safe for
// concurrent lookups; registration is expected to finish during startup.
type Registry struct {
	mu      sync.RWMutex
	byKey   map[string]*Metatype
	byAlias map[string]*Metatype
	roots   []*Metatype
}

// New creates an empty registry. Only the Unknown fallback is known to it.
func New() *Registry {
	return &Registry{
		byKey:   map[string]*Metatype{Unknown.Key: Unknown},
		byAlias: make(map[string]*Metatype),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry holding the built-in catalog.
// It is built once, on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewDefault()
	})
	return defaultRegistry
}

// NewDefault builds a fresh registry holding the built-in catalog. Use it when
// custom catalogs will be registered on top, so the shared Default stays untouched.
func NewDefault() *Registry {
	r := New()
	for _, mt := range Builtin() {
		r.MustRegister(mt)
	}
	return r
}

// Register adds a root metatype and its whole subtype tree.
//
// Registering the very same descriptor twice is a no-op. An alias already mapped
// to another root is tolerated only when that root is part of the new
// descriptor's subtype tree; the new descriptor then takes over the alias.
func (r *Registry) Register(mt *Metatype) error {
	if mt == nil || mt.Key == "" {
		return fmt.Errorf("metatype must have a non-empty key")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkTree(mt, true); err != nil {
		return err
	}

	var conflicts []string
	for _, alias := range mt.AllAliases() {
		existing, ok := r.byAlias[alias]
		if !ok || existing == mt || mt.Contains(existing) {
			continue
		}
		conflicts = append(conflicts, fmt.Sprintf("'%s' is already registered for '%s'", alias, existing.Key))
	}
	if len(conflicts) > 0 {
		return fmt.Errorf("%w: registering '%s':\n- %s", ErrAliasConflict, mt.Key, strings.Join(conflicts, "\n- "))
	}

	// Roots adopted into the new tree stop being roots.
	r.roots = slices.DeleteFunc(r.roots, func(root *Metatype) bool {
		return root != mt && mt.Contains(root)
	})

	mt.parent = nil
	linkTree(mt)
	mt.Walk(func(m *Metatype) { r.byKey[m.Key] = m })
	for alias, existing := range r.byAlias {
		if existing != mt && mt.Contains(existing) {
			r.byAlias[alias] = mt
		}
	}
	for _, alias := range mt.AllAliases() {
		r.byAlias[alias] = mt
	}
	if !slices.Contains(r.roots, mt) {
		r.roots = append(r.roots, mt)
	}
	return nil
}

// MustRegister is like Register but panics on error. A failure here is a
// configuration defect that must stop the process at startup.
func (r *Registry) MustRegister(mt *Metatype) {
	if err := r.Register(mt); err != nil {
		panic(err)
	}
}

// Extend attaches subtypes beneath an already registered metatype.
func (r *Registry) Extend(key string, subtypes ...*Metatype) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	parent, ok := r.byKey[key]
	if !ok || parent == Unknown {
		return fmt.Errorf("%w: cannot extend '%s'", ErrNotFound, key)
	}

	for _, st := range subtypes {
		if err := r.checkTree(st, false); err != nil {
			return err
		}
	}
	for _, st := range subtypes {
		parent.Subtypes = append(parent.Subtypes, st)
		st.parent = parent
		linkTree(st)
		st.Walk(func(m *Metatype) { r.byKey[m.Key] = m })
	}
	return nil
}

// checkTree verifies key uniqueness and predicate presence for a tree about to
// be registered. Keys already held by the very same descriptor are accepted.
func (r *Registry) checkTree(top *Metatype, isRoot bool) error {
	var errs []string
	sentinel := ErrMissingPredicate
	seen := make(map[string]*Metatype)

	var visit func(m *Metatype, root bool)
	visit = func(m *Metatype, root bool) {
		if m.Key == "" {
			errs = append(errs, "metatype with empty key")
		}
		if prev, ok := seen[m.Key]; ok && prev != m {
			sentinel = ErrDuplicateKey
			errs = append(errs, fmt.Sprintf("key '%s' declared twice in the same tree", m.Key))
		}
		seen[m.Key] = m
		if existing, ok := r.byKey[m.Key]; ok && existing != m {
			sentinel = ErrDuplicateKey
			errs = append(errs, fmt.Sprintf("key '%s' is already registered", m.Key))
		}
		if !root && m.Match == nil {
			errs = append(errs, fmt.Sprintf("subtype '%s' has no match predicate", m.Key))
		}
		for _, st := range m.Subtypes {
			visit(st, false)
		}
	}
	visit(top, isRoot)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: metatype '%s' is invalid:\n- %s", sentinel, top.Key, strings.Join(errs, "\n- "))
}

// linkTree sets parent pointers along a subtype tree.
func linkTree(m *Metatype) {
	for _, st := range m.Subtypes {
		st.parent = m
		linkTree(st)
	}
}

// Lookup returns the root metatype registered for an exact operator name, or
// Unknown. It never fails.
func (r *Registry) Lookup(operatorName string) *Metatype {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if mt, ok := r.byAlias[operatorName]; ok {
		return mt
	}
	return Unknown
}

// Get returns the metatype (root or subtype) registered under a key.
func (r *Registry) Get(key string) (*Metatype, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mt, ok := r.byKey[key]
	return mt, ok
}

// SetOf resolves keys into a Set, failing on the first unknown key.
func (r *Registry) SetOf(keys ...string) (Set, error) {
	s := make(Set, len(keys))
	for _, k := range keys {
		mt, ok := r.Get(k)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrNotFound, k)
		}
		s.Add(mt)
	}
	return s, nil
}

// Roots returns the registered root metatypes sorted by key.
func (r *Registry) Roots() []*Metatype {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roots := slices.Clone(r.roots)
	slices.SortFunc(roots, func(a, b *Metatype) int { return strings.Compare(a.Key, b.Key) })
	return roots
}

// Len returns the number of registered metatypes, subtypes included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// WithRole returns every registered metatype carrying the given role.
func (r *Registry) WithRole(role Role) Set {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := make(Set)
	for _, mt := range r.byKey {
		if mt.Role == role {
			s.Add(mt)
		}
	}
	return s
}

// InputNoops returns the designated graph-input metatypes.
func (r *Registry) InputNoops() Set { return r.WithRole(RoleInputNoop) }

// OutputNoops returns the designated graph-output metatypes.
func (r *Registry) OutputNoops() Set { return r.WithRole(RoleOutputNoop) }

// Noops returns the designated pass-through metatypes.
func (r *Registry) Noops() Set { return r.WithRole(RoleNoop) }

// Resolve looks up the root metatype for an operator name and narrows it to the
// most specific matching subtype.
func (r *Registry) Resolve(operatorName string, attrs layerattr.Attributes, call CallContext) (*Metatype, error) {
	mt := r.Lookup(operatorName)
	if len(mt.Subtypes) == 0 {
		return mt, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	subtype, err := DetermineSubtype(mt, attrs, call)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve metatype for operator '%s': %w", operatorName, err)
	}
	if subtype != nil {
		return subtype, nil
	}
	return mt, nil
}
