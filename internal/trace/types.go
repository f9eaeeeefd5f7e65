// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package trace

import (
	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"github.com/specialistvlad/tracegraph/internal/scope"
)

// DType is the coarse element type of a tensor.
type DType string

const (
	DTypeFloat DType = "float"
	DTypeInt   DType = "int"
)

// Node is one executed operation.
type Node struct {
	ID           int    `json:"id" validate:"gte=0"`
	OperatorName string `json:"operator_name" validate:"required"`
	// ModuleID identifies the module instance that issued the call. Nil for
	// free-function calls outside any module.
	ModuleID *int        `json:"module_id,omitempty" validate:"omitempty,gte=0"`
	Scope    scope.Scope `json:"scope"`
	// CallOrder is the operation's call order inside its scope. For model input
	// nodes it is the index into the declared input sequence.
	CallOrder         int                  `json:"call_order" validate:"gte=0"`
	LayerAttributes   layerattr.Attributes `json:"-"`
	InIterationScope  bool                 `json:"in_iteration_scope,omitempty"`
	IgnoredAlgorithms []string             `json:"ignored_algorithms,omitempty"`
}

// Address returns the operation address of the node.
func (n *Node) Address() scope.OperationAddress {
	return scope.OperationAddress{
		OperatorName: n.OperatorName,
		Scope:        n.Scope,
		CallOrder:    n.CallOrder,
	}
}

// Edge is one tensor flowing from a producer's output port to a consumer's input port.
type Edge struct {
	From               int   `json:"from" validate:"gte=0"`
	To                 int   `json:"to" validate:"gte=0"`
	Shape              []int `json:"shape" validate:"dive,gte=0"`
	DType              DType `json:"dtype" validate:"oneof=float int"`
	InputPort          int   `json:"input_port" validate:"gte=0"`
	OutputPort         int   `json:"output_port" validate:"gte=0"`
	ParallelInputPorts []int `json:"parallel_input_ports,omitempty" validate:"dive,gte=0"`
}

// InputSpec declares one model input. The position in the input sequence is
// what model input nodes refer to by their call order.
type InputSpec struct {
	DType DType `json:"dtype" validate:"oneof=float int"`
	Shape []int `json:"shape,omitempty" validate:"dive,gte=0"`
}

// IsInteger reports whether the input carries integer data.
func (s InputSpec) IsInteger() bool {
	return s.DType == DTypeInt
}

// Trace is a complete captured forward pass.
type Trace struct {
	Nodes  []*Node     `json:"nodes" validate:"dive,required"`
	Edges  []*Edge     `json:"edges" validate:"dive,required"`
	Inputs []InputSpec `json:"inputs,omitempty" validate:"dive"`
}
