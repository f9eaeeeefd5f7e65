// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package layerattr

// Kind discriminates the concrete attribute type.
type Kind string

const (
	KindConvolution     Kind = "convolution"
	KindLinear          Kind = "linear"
	KindGenericWeighted Kind = "generic_weighted"
	KindGroupNorm       Kind = "group_norm"
	KindReshape         Kind = "reshape"
	KindTranspose       Kind = "transpose"
)

// Attributes is implemented by every concrete attribute type.
type Attributes interface {
	Kind() Kind
}

// Convolution describes a convolution or transposed convolution call.
type Convolution struct {
	WeightRequiresGrad bool  `json:"weight_requires_grad" cty:"weight_requires_grad"`
	InChannels         int   `json:"in_channels" cty:"in_channels" validate:"gte=0"`
	OutChannels        int   `json:"out_channels" cty:"out_channels" validate:"gte=0"`
	KernelSize         []int `json:"kernel_size" cty:"kernel_size" validate:"dive,gt=0"`
	Stride             []int `json:"stride" cty:"stride" validate:"dive,gt=0"`
	Groups             int   `json:"groups" cty:"groups" validate:"gte=1"`
	Transpose          bool  `json:"transpose" cty:"transpose"`
	PaddingValues      []int `json:"padding_values" cty:"padding_values" validate:"dive,gte=0"`
}

func (*Convolution) Kind() Kind { return KindConvolution }

// IsDepthwise reports whether every input channel is convolved separately.
func (c *Convolution) IsDepthwise() bool {
	return c.Groups == c.InChannels && c.InChannels > 1
}

// Linear describes a fully connected layer call.
type Linear struct {
	WeightRequiresGrad bool `json:"weight_requires_grad" cty:"weight_requires_grad"`
	InFeatures         int  `json:"in_features" cty:"in_features" validate:"gte=0"`
	OutFeatures        int  `json:"out_features" cty:"out_features" validate:"gte=0"`
	WithBias           bool `json:"with_bias" cty:"with_bias"`
}

func (*Linear) Kind() Kind { return KindLinear }

// GenericWeighted describes any other weighted layer (embeddings, norms).
type GenericWeighted struct {
	WeightRequiresGrad bool  `json:"weight_requires_grad" cty:"weight_requires_grad"`
	WeightShape        []int `json:"weight_shape" cty:"weight_shape" validate:"dive,gte=0"`
	FilterDimensionIdx int   `json:"filter_dimension_idx" cty:"filter_dimension_idx"`
}

func (*GenericWeighted) Kind() Kind { return KindGenericWeighted }

// GroupNorm describes a group normalization layer.
type GroupNorm struct {
	WeightRequiresGrad bool `json:"weight_requires_grad" cty:"weight_requires_grad"`
	NumChannels        int  `json:"num_channels" cty:"num_channels" validate:"gte=0"`
	NumGroups          int  `json:"num_groups" cty:"num_groups" validate:"gte=1"`
}

func (*GroupNorm) Kind() Kind { return KindGroupNorm }

// Reshape records the input and output shapes of a reshape-like operation.
type Reshape struct {
	InputShape  []int `json:"input_shape" cty:"input_shape"`
	OutputShape []int `json:"output_shape" cty:"output_shape"`
}

func (*Reshape) Kind() Kind { return KindReshape }

// Transpose records the two swapped dimensions of a transpose call.
type Transpose struct {
	Dim0 int `json:"dim0" cty:"dim0"`
	Dim1 int `json:"dim1" cty:"dim1"`
}

func (*Transpose) Kind() Kind { return KindTranspose }

// newOfKind returns an empty value for the given kind, or nil if the kind is unknown.
func newOfKind(k Kind) Attributes {
	switch k {
	case KindConvolution:
		return &Convolution{}
	case KindLinear:
		return &Linear{}
	case KindGenericWeighted:
		return &GenericWeighted{}
	case KindGroupNorm:
		return &GroupNorm{}
	case KindReshape:
		return &Reshape{}
	case KindTranspose:
		return &Transpose{}
	default:
		return nil
	}
}
