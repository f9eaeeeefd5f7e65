// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package metatype

import "github.com/specialistvlad/tracegraph/internal/layerattr"

// CallContext carries the facts about an operator invocation that predicates may inspect.
type CallContext struct {
	// InsideModule is true when the operator ran inside a stateful unit's call.
	InsideModule bool
}

// Predicate decides whether a node belongs to a subtype. Implementations must be
// pure functions of their arguments.
type Predicate interface {
	Match(attrs layerattr.Attributes, call CallContext) bool
}

// PredicateFunc adapts a plain function to the Predicate interface.
type PredicateFunc func(attrs layerattr.Attributes, call CallContext) bool

// Match implements Predicate.
func (f PredicateFunc) Match(attrs layerattr.Attributes, call CallContext) bool {
	return f(attrs, call)
}

// CalledInsideModule matches operators invoked while executing a stateful unit.
var CalledInsideModule Predicate = PredicateFunc(func(_ layerattr.Attributes, call CallContext) bool {
	return call.InsideModule
})

// Depthwise matches convolutions where groups == in_channels and in_channels > 1.
var Depthwise Predicate = PredicateFunc(func(attrs layerattr.Attributes, _ CallContext) bool {
	conv, ok := attrs.(*layerattr.Convolution)
	if !ok || conv == nil {
		return false
	}
	return conv.IsDepthwise()
})
