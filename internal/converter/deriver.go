package converter

import (
	"context"
	"slices"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"go.opentelemetry.io/otel/attribute"
)

// AttributeDeriver fills in per-node layer attributes on a populated graph,
// using each node's metatype and the shapes on its edges. It may only mutate
// node layer attributes.
type AttributeDeriver interface {
	Derive(ctx context.Context, g *graph.Graph) error
}

// NopDeriver leaves the graph untouched.
type NopDeriver struct{}

// Derive implements AttributeDeriver.
func (NopDeriver) Derive(context.Context, *graph.Graph) error { return nil }

// reshapeKeys are the metatypes whose attributes follow from their edge shapes.
var reshapeKeys = []string{"reshape", "squeeze"}

// ShapeDeriver records input and output shapes on reshape-like nodes that the
// tracer left without attributes.
type ShapeDeriver struct{}

// Derive implements AttributeDeriver.
func (ShapeDeriver) Derive(ctx context.Context, g *graph.Graph) error {
	ctx, span := tracer.Start(ctx, "ShapeDeriver.Derive")
	defer span.End()
	logger := ctxlog.FromContext(ctx)

	derived := 0
	for _, n := range g.Nodes() {
		if n.LayerAttributes != nil || !slices.Contains(reshapeKeys, n.MetatypeKey()) {
			continue
		}
		in, ok := firstEdge(g, g.InEdges(n.ID))
		if !ok {
			continue
		}
		out, ok := firstEdge(g, g.OutEdges(n.ID))
		if !ok {
			continue
		}
		n.LayerAttributes = &layerattr.Reshape{
			InputShape:  slices.Clone(in.Shape),
			OutputShape: slices.Clone(out.Shape),
		}
		derived++
	}

	span.SetAttributes(attribute.Int("derive.node_count", derived))
	logger.Debug("Derive: Reshape attributes derived.", "nodes", derived)
	return nil
}

// firstEdge picks the edge on the lowest input port, then the earliest added.
func firstEdge(g *graph.Graph, ids []graph.EdgeID) (*graph.Edge, bool) {
	var best *graph.Edge
	for _, id := range ids {
		e, ok := g.Edge(id)
		if !ok {
			continue
		}
		if best == nil || e.InputPort < best.InputPort {
			best = e
		}
	}
	return best, best != nil
}
