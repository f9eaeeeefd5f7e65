// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package metatype

import "slices"

// Trait marks a capability of the operators a metatype describes.
type Trait uint8

const (
	// TraitWeighted marks operators that own a weight tensor.
	TraitWeighted Trait = 1 << iota
	// TraitBias marks operators that can carry a bias.
	TraitBias
	// TraitFused marks operators usually fused into their producer by runtimes.
	TraitFused
	// TraitUnificationProducer marks operators whose outputs drive scale unification.
	TraitUnificationProducer
)

var traitNames = []struct {
	trait Trait
	name  string
}{
	{TraitWeighted, "weighted"},
	{TraitBias, "bias"},
	{TraitFused, "fused"},
	{TraitUnificationProducer, "unification_producer"},
}

// Names returns the names of the traits set, in declaration order.
func (t Trait) Names() []string {
	var names []string
	for _, tn := range traitNames {
		if t&tn.trait != 0 {
			names = append(names, tn.name)
		}
	}
	return names
}

// Role designates metatypes that the converter and downstream passes treat specially.
type Role uint8

const (
	RoleNone Role = iota
	// RoleInputNoop marks the graph-input metatypes.
	RoleInputNoop
	// RoleOutputNoop marks the graph-output metatypes.
	RoleOutputNoop
	// RoleNoop marks operators that do not change their input.
	RoleNoop
)

// String returns the role name used in catalogs.
func (r Role) String() string {
	switch r {
	case RoleInputNoop:
		return "input_noop"
	case RoleOutputNoop:
		return "output_noop"
	case RoleNoop:
		return "noop"
	default:
		return ""
	}
}

// Metatype describes one semantic group of operators.
type Metatype struct {
	// Key uniquely identifies the metatype inside a registry, e.g. "module_conv2d".
	Key string
	// Name is the display name, shared along a subtype chain, e.g. "Conv2DOp".
	Name string
	// Aliases are the operator names this metatype is registered under.
	// Only root aliases populate the registry's lookup table.
	Aliases []string
	// Subtypes are the narrower specializations, tried in order.
	Subtypes []*Metatype
	// Match decides whether a node belongs to this subtype. Nil on roots.
	Match Predicate

	OutputChannelAxis *int
	IgnoredInputPorts []int
	HWConfigNames     []string
	Traits            Trait
	Role              Role

	parent *Metatype
}

// String returns the metatype key.
func (m *Metatype) String() string {
	if m == nil {
		return "<nil>"
	}
	return m.Key
}

// Parent returns the metatype this one is a subtype of, or nil for roots.
// It is set when the metatype is registered.
func (m *Metatype) Parent() *Metatype {
	return m.parent
}

// IsSubtype reports whether the metatype was registered beneath another one.
func (m *Metatype) IsSubtype() bool {
	return m.parent != nil
}

// Root returns the top of the metatype's subtype chain.
func (m *Metatype) Root() *Metatype {
	r := m
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// HasTrait reports whether all the given traits are set.
func (m *Metatype) HasTrait(t Trait) bool {
	return m.Traits&t == t
}

// Walk calls fn for the metatype and, depth-first, for every nested subtype.
func (m *Metatype) Walk(fn func(*Metatype)) {
	fn(m)
	for _, st := range m.Subtypes {
		st.Walk(fn)
	}
}

// Contains reports whether other is this metatype or one of its nested subtypes.
func (m *Metatype) Contains(other *Metatype) bool {
	if m == other {
		return true
	}
	return slices.ContainsFunc(m.Subtypes, func(st *Metatype) bool { return st.Contains(other) })
}

// AllAliases returns the deduplicated aliases, in declaration order.
func (m *Metatype) AllAliases() []string {
	seen := make(map[string]struct{}, len(m.Aliases))
	out := make([]string, 0, len(m.Aliases))
	for _, a := range m.Aliases {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// axis returns a pointer to an output channel axis value.
func axis(v int) *int {
	return &v
}
