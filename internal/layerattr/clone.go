// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package layerattr

import "slices"

// Clone returns a deep copy so that a graph never aliases attributes owned by a trace.
func Clone(a Attributes) Attributes {
	switch v := a.(type) {
	case nil:
		return nil
	case *Convolution:
		c := *v
		c.KernelSize = slices.Clone(v.KernelSize)
		c.Stride = slices.Clone(v.Stride)
		c.PaddingValues = slices.Clone(v.PaddingValues)
		return &c
	case *Linear:
		c := *v
		return &c
	case *GenericWeighted:
		c := *v
		c.WeightShape = slices.Clone(v.WeightShape)
		return &c
	case *GroupNorm:
		c := *v
		return &c
	case *Reshape:
		return &Reshape{InputShape: slices.Clone(v.InputShape), OutputShape: slices.Clone(v.OutputShape)}
	case *Transpose:
		c := *v
		return &c
	default:
		// Attribute types defined outside this package are treated as immutable.
		return a
	}
}
