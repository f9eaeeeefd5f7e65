// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package metatype

// Aliases of the synthetic nodes a tracer inserts for model inputs and outputs.
const (
	ModelInputOperator  = "nncf_model_input"
	ModelOutputOperator = "nncf_model_output"
)

// simple declares a root metatype without subtypes.
func simple(key, name string, hw []string, aliases ...string) *Metatype {
	return &Metatype{Key: key, Name: name, Aliases: aliases, HWConfigNames: hw}
}

// moduleBound declares a root metatype with a single subtype that matches calls
// made from inside a stateful unit.
func moduleBound(key, name string, hw []string, traits Trait, aliases ...string) *Metatype {
	module := &Metatype{
		Key:           "module_" + key,
		Name:          name,
		Aliases:       aliases,
		Match:         CalledInsideModule,
		HWConfigNames: hw,
		Traits:        traits,
	}
	return &Metatype{
		Key:           key,
		Name:          name,
		Aliases:       aliases,
		Subtypes:      []*Metatype{module},
		HWConfigNames: hw,
	}
}

// withAxis sets the output channel axis on a metatype and all of its subtypes.
func withAxis(mt *Metatype, v int) *Metatype {
	mt.Walk(func(m *Metatype) { m.OutputChannelAxis = axis(v) })
	return mt
}

// convolution declares the conv -> module conv -> depthwise conv chain.
func convolution(dim string) *Metatype {
	name := "Conv" + dim + "DOp"
	alias := "conv" + dim + "d"
	weighted := TraitWeighted | TraitBias | TraitUnificationProducer

	depthwise := &Metatype{
		Key:           "depthwise_conv" + dim + "d",
		Name:          name,
		Aliases:       []string{alias},
		Match:         Depthwise,
		HWConfigNames: []string{HWDepthwiseConvolution},
		Traits:        weighted,
	}
	module := &Metatype{
		Key:           "module_conv" + dim + "d",
		Name:          name,
		Aliases:       []string{alias},
		Subtypes:      []*Metatype{depthwise},
		Match:         CalledInsideModule,
		HWConfigNames: []string{HWConvolution},
		Traits:        weighted,
	}
	root := &Metatype{
		Key:           "conv" + dim + "d",
		Name:          name,
		Aliases:       []string{alias},
		Subtypes:      []*Metatype{module},
		HWConfigNames: []string{HWConvolution},
	}
	return withAxis(root, 1)
}

// transposedConvolution declares the conv transpose -> module conv transpose chain.
func transposedConvolution(dim string) *Metatype {
	mt := moduleBound("conv_transpose"+dim+"d", "ConvTranspose"+dim+"DOp", []string{HWConvolution},
		TraitWeighted|TraitBias|TraitUnificationProducer, "conv_transpose"+dim+"d")
	return withAxis(mt, 1)
}

func hw(names ...string) []string { return names }

// Builtin returns freshly allocated descriptors for the built-in catalog.
// Every call returns new values, so registries never share mutable state.
func Builtin() []*Metatype {
	inputNoop := simple("input_noop", "input_noop", nil, "input_noop", ModelInputOperator)
	inputNoop.Role = RoleInputNoop
	outputNoop := simple("output_noop", "output_noop", nil, "output_noop", ModelOutputOperator)
	outputNoop.Role = RoleOutputNoop
	noop := simple("noop", "noop", nil, "noop", "contiguous", "clone")
	noop.Role = RoleNoop

	batchNorm := moduleBound("batch_norm", "BatchNormOp", nil, TraitWeighted|TraitFused, "batch_norm")

	baddbmm := simple("baddbmm", "MatMulOp", hw(HWMatMul), "baddbmm")
	// The first operand is a bias fused into the matrix multiplication.
	baddbmm.IgnoredInputPorts = []int{0}

	return []*Metatype{
		inputNoop,
		outputNoop,
		noop,

		convolution("1"),
		convolution("2"),
		convolution("3"),
		transposedConvolution("1"),
		transposedConvolution("2"),
		transposedConvolution("3"),
		moduleBound("deform_conv2d", "DeformConv2dOp", nil, 0, "deform_conv2d"),
		withAxis(moduleBound("linear", "LinearOp", hw(HWMatMul), TraitWeighted|TraitUnificationProducer, "linear", "addmm"), -1),

		simple("hardtanh", "HardTanhOP", nil, "hardtanh"),
		simple("hardswish", "HardSwishOp", nil, "hardswish"),
		simple("hardsigmoid", "HardSigmoidOp", nil, "hardsigmoid"),
		simple("tanh", "TanhOp", nil, "tanh"),
		simple("elu", "EluOp", nil, "elu", "elu_"),
		simple("prelu", "PReluOp", nil, "prelu"),
		simple("leaky_relu", "LeakyReluOp", nil, "leaky_relu"),
		moduleBound("layer_norm", "LayerNormOp", hw(HWMVN), TraitWeighted, "layer_norm"),
		moduleBound("group_norm", "GroupNormOp", hw(HWMVN), TraitWeighted, "group_norm"),
		simple("gelu", "GeluOp", hw(HWGelu), "gelu"),
		simple("silu", "SiluOp", nil, "silu"),
		simple("sigmoid", "SigmoidOp", nil, "sigmoid"),

		simple("add", "AddOp", hw(HWAdd), "add", "__add__", "__iadd__", "__radd__"),
		simple("sub", "SubOp", hw(HWSubtract), "sub", "__sub__", "__isub__", "__rsub__"),
		simple("mul", "MulOp", hw(HWMultiply), "mul", "__mul__", "__imul__", "__rmul__"),
		simple("div", "DivOp", hw(HWDivide), "__div__", "__idiv__", "__truediv__", "div"),
		simple("floordiv", "FloordivOp", nil, "__floordiv__", "__ifloordiv__", "__rfloordiv__"),
		simple("exp", "ExpOp", nil, "exp"),
		simple("log", "LogOp", nil, "log"),
		simple("abs", "AbsOp", nil, "abs"),
		simple("erf", "ErfOp", nil, "erf"),
		simple("matmul", "MatMulOp", hw(HWMatMul), "matmul", "__matmul__", "bmm", "mm"),
		baddbmm,
		simple("mean", "MeanOp", hw(HWReduceMean), "mean"),
		simple("round", "RoundOp", nil, "round"),
		simple("dropout", "DropoutOp", nil, "dropout"),
		simple("threshold", "ThresholdOp", nil, "threshold"),
		batchNorm,

		simple("avg_pool2d", "AvgPool2DOp", hw(HWAvgPool), "avg_pool2d", "adaptive_avg_pool2d"),
		simple("avg_pool3d", "AvgPool3DOp", hw(HWAvgPool), "avg_pool3d", "adaptive_avg_pool3d"),
		simple("max_pool1d", "MaxPool1DOp", hw(HWMaxPool), "max_pool1d", "adaptive_max_pool1d"),
		simple("max_pool2d", "MaxPool2DOp", hw(HWMaxPool), "max_pool2d", "adaptive_max_pool2d"),
		simple("max_pool3d", "MaxPool3DOp", hw(HWMaxPool), "max_pool3d", "adaptive_max_pool3d"),
		simple("max_unpool1d", "MaxUnPool1DOp", nil, "max_unpool1d"),
		simple("max_unpool2d", "MaxUnPool2DOp", nil, "max_unpool2d"),
		simple("max_unpool3d", "MaxUnPool3DOp", nil, "max_unpool3d"),
		simple("pad", "PadOp", nil, "pad"),
		simple("cat", "CatOp", hw(HWConcat), "cat", "stack"),
		simple("relu", "ReluOp", nil, "relu", "relu_"),
		simple("relu6", "Relu6Op", nil, "relu6"),
		simple("max", "MaxOp", hw(HWMaximum, HWReduceMax), "max"),
		simple("min", "MinOp", hw(HWMinimum), "min"),
		simple("transpose", "TransposeOp", hw(HWTranspose), "transpose", "permute", "transpose_"),
		simple("gather", "GatherOp", nil, "index_select", "__getitem__", "gather", "where"),
		simple("scatter", "ScatterOp", nil, "scatter", "masked_fill", "masked_fill_"),
		simple("reshape", "ReshapeOp", hw(HWReshape, HWUnsqueeze, HWFlatten), "reshape", "view", "flatten", "unsqueeze"),
		simple("squeeze", "SqueezeOp", hw(HWSqueeze), "squeeze"),
		simple("split", "SplitOp", hw(HWSplit, HWChunk), "split", "chunk", "unbind"),
		simple("expand", "ExpandOp", nil, "expand"),
		simple("expand_as", "ExpandAsOp", nil, "expand_as"),

		moduleBound("embedding", "EmbeddingOp", hw(HWEmbedding), TraitWeighted, "embedding"),
		moduleBound("embedding_bag", "EmbeddingBagOp", hw(HWEmbeddingBag), TraitWeighted, "embedding_bag"),
		simple("softmax", "SoftmaxOp", nil, "softmax"),
		simple("less", "LessOp", hw(HWLess), "__lt__"),
		simple("less_equal", "LessEqualOp", hw(HWLessEqual), "__le__"),
		simple("greater", "GreaterOp", hw(HWGreater), "__gt__"),
		simple("greater_equal", "GreaterEqualOp", hw(HWGreaterEqual), "__ge__"),
		simple("mod", "ModOp", hw(HWFloorMod), "__mod__"),
		simple("equals", "EqualsOp", hw(HWEqual), "__eq__"),
		simple("not_equal", "NotEqualOp", hw(HWNotEqual), "__ne__"),
		simple("logical_or", "LogicalOrOp", hw(HWLogicalOr), "__or__"),
		simple("logical_xor", "LogicalXorOp", hw(HWLogicalXor), "__xor__"),
		simple("logical_and", "LogicalAndOp", hw(HWLogicalAnd), "__and__"),
		simple("logical_not", "LogicalNotOp", hw(HWLogicalNot), "logical_not_"),
		simple("power", "PowerOp", hw(HWPower), "__pow__", "pow"),
		simple("sqrt", "SqrtOp", hw(HWPower), "sqrt", "sqrt_"),
		simple("interpolate", "InterpolateOp", hw(HWInterpolate), "interpolate"),
		simple("repeat", "RepeatOp", hw(HWTile), "repeat_interleave"),
		simple("pixel_shuffle", "PixelShuffleOp", nil, "pixel_shuffle"),
		simple("sum", "SumOp", hw(HWReduceSum), "sum"),
		simple("reduce_l2", "ReduceL2", hw(HWReduceL2), "normalize"),
	}
}
