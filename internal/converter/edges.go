package converter

import (
	"slices"

	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/trace"
)

// emitEdges copies every trace edge into g.
func emitEdges(edges []*trace.Edge, g *graph.Graph) error {
	for _, te := range edges {
		_, err := g.AddEdge(&graph.Edge{
			From:               te.From,
			To:                 te.To,
			Shape:              slices.Clone(te.Shape),
			DType:              te.DType,
			InputPort:          te.InputPort,
			OutputPort:         te.OutputPort,
			ParallelInputPorts: slices.Clone(te.ParallelInputPorts),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
