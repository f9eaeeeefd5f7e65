package graph

import (
	"fmt"

	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
)

// EdgeID addresses an edge slot. It is stable until the edge is removed.
type EdgeID int

// Node is a vertex of the static graph.
type Node struct {
	// ID is the trace node id, preserved verbatim.
	ID int
	// Name is the node's operation address string, e.g. `Net/Conv2d[conv1]/conv2d_0`.
	Name            string
	OperatorName    string
	Metatype        *metatype.Metatype
	LayerAttributes layerattr.Attributes
	// LayerName is the canonical scope string of the issuing layer.
	LayerName string
	// IsShared is set when the issuing layer was called from more than one scope.
	IsShared          bool
	IsIntegerInput    bool
	InIterationScope  bool
	IgnoredAlgorithms []string
}

// Key returns the node key, `"<id> <name>"`.
func (n *Node) Key() string {
	return fmt.Sprintf("%d %s", n.ID, n.Name)
}

// MetatypeKey returns the key of the node's metatype, or "" if none is set.
func (n *Node) MetatypeKey() string {
	if n.Metatype == nil {
		return ""
	}
	return n.Metatype.Key
}

// Edge is a directed tensor connection from a producer's output port to a
// consumer's input port.
type Edge struct {
	From               int
	To                 int
	Shape              []int
	DType              trace.DType
	InputPort          int
	OutputPort         int
	ParallelInputPorts []int
}

type nodeSlot struct {
	node *Node
	in   []EdgeID
	out  []EdgeID
}

// Graph is the static computation graph.
type Graph struct {
	nodes []*nodeSlot
	index map[int]int
	edges []*Edge

	liveEdges int
}
