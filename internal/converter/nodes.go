package converter

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
)

// emitNodes resolves every trace node and adds it to g.
func (c *Converter) emitNodes(ctx context.Context, nodes []*trace.Node, specs []trace.InputSpec, layers map[int]layer, g *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)
	inputNoops := c.registry.InputNoops()

	for _, tn := range nodes {
		call := metatype.CallContext{InsideModule: tn.ModuleID != nil}
		mt, err := c.registry.Resolve(tn.OperatorName, tn.LayerAttributes, call)
		if err != nil {
			return fmt.Errorf("node %d (%s): %w", tn.ID, tn.Address(), err)
		}
		if mt == metatype.Unknown {
			logger.Debug("Convert: Operator has no registered metatype.", "node", tn.ID, "operator", tn.OperatorName)
		}

		l := layerOf(tn, layers)
		n := &graph.Node{
			ID:                tn.ID,
			Name:              tn.Address().String(),
			OperatorName:      tn.OperatorName,
			Metatype:          mt,
			LayerAttributes:   layerattr.Clone(tn.LayerAttributes),
			LayerName:         l.name,
			IsShared:          l.shared,
			IsIntegerInput:    inputNoops.Contains(mt) && isIntegerInput(specs, tn.CallOrder),
			InIterationScope:  tn.InIterationScope,
			IgnoredAlgorithms: slices.Clone(tn.IgnoredAlgorithms),
		}
		if err := g.AddNode(n); err != nil {
			return fmt.Errorf("malformed trace: %w", err)
		}
	}
	return nil
}

// isIntegerInput reports whether the declared input at index is integer-valued.
// A missing declaration or an index outside it means false.
func isIntegerInput(specs []trace.InputSpec, index int) bool {
	if index < 0 || index >= len(specs) {
		return false
	}
	return specs[index].IsInteger()
}
