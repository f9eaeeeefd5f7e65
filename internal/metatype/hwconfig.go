// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package metatype

// Hardware configuration operation names, as used by target-device descriptions.
const (
	HWConvolution          = "Convolution"
	HWDepthwiseConvolution = "DepthWiseConvolution"
	HWMatMul               = "MatMul"
	HWAdd                  = "Add"
	HWSubtract             = "Subtract"
	HWMultiply             = "Multiply"
	HWDivide               = "Divide"
	HWMaximum              = "Maximum"
	HWMinimum              = "Minimum"
	HWLess                 = "Less"
	HWLessEqual            = "LessEqual"
	HWGreater              = "Greater"
	HWGreaterEqual         = "GreaterEqual"
	HWEqual                = "Equal"
	HWNotEqual             = "NotEqual"
	HWFloorMod             = "FloorMod"
	HWLogicalOr            = "LogicalOr"
	HWLogicalXor           = "LogicalXor"
	HWLogicalAnd           = "LogicalAnd"
	HWLogicalNot           = "LogicalNot"
	HWPower                = "Power"
	HWAvgPool              = "AvgPool"
	HWMaxPool              = "MaxPool"
	HWReduceMean           = "ReduceMean"
	HWReduceMax            = "ReduceMax"
	HWReduceSum            = "ReduceSum"
	HWReduceL2             = "ReduceL2"
	HWInterpolate          = "Interpolate"
	HWMVN                  = "MVN"
	HWConcat               = "Concat"
	HWReshape              = "Reshape"
	HWFlatten              = "Flatten"
	HWSqueeze              = "Squeeze"
	HWUnsqueeze            = "Unsqueeze"
	HWSplit                = "Split"
	HWChunk                = "Chunk"
	HWTranspose            = "Transpose"
	HWTile                 = "Tile"
	HWEmbedding            = "Embedding"
	HWEmbeddingBag         = "EmbeddingBag"
	HWGelu                 = "Gelu"
)
