package editor

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("tracegraph.editor")

// RemoveNodesAndReconnect removes every node whose metatype is in targets and
// connects its single producer to each of its consumers. For a removed node N
// with incoming edge P and outgoing edges O_1..O_k, each new edge runs from P's
// source to O_i's destination, takes its output port, shape and dtype from P,
// its input port from O_i, and has no parallel ports. A node without outgoing
// edges is simply deleted.
//
// Qualifying nodes are processed in topological order, ties broken by id.
// Each must have exactly one incoming edge, outgoing shapes equal to the
// incoming shape and no parallel ports on any of these edges. If any node
// fails, an *UnsafeRewriteError is returned and g is left unchanged.
func RemoveNodesAndReconnect(ctx context.Context, g *graph.Graph, targets metatype.Set) error {
	ctx, span := tracer.Start(ctx, "Editor.RemoveNodesAndReconnect",
		trace.WithAttributes(attribute.StringSlice("editor.targets", targets.Keys())),
	)
	defer span.End()
	logger := ctxlog.FromContext(ctx)

	selected, err := qualifying(g, targets)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	logger.Debug("Remove: Qualifying nodes selected.", "count", len(selected), "targets", targets.Keys())
	if len(selected) == 0 {
		return nil
	}

	// First pass: validate everything against a simulation of the rewrite.
	sim := newSimulation(g)
	for _, n := range selected {
		if reason := sim.check(n.ID); reason != "" {
			err := &UnsafeRewriteError{NodeID: n.ID, NodeKey: n.Key(), Reason: reason}
			logger.Error("Remove: Unsafe rewrite rejected.", "node", n.Key(), "reason", reason)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		sim.remove(n.ID)
	}

	// Second pass: rewrite, in the same order.
	for _, n := range selected {
		if err := rewire(g, n.ID); err != nil {
			return fmt.Errorf("rewrite of validated node '%s' failed: %w", n.Key(), err)
		}
		logger.Debug("Remove: Node removed.", "node", n.Key())
	}

	span.SetAttributes(attribute.Int("editor.removed", len(selected)))
	logger.Info("Remove: Nodes removed and reconnected.", "removed", len(selected), "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return nil
}

// qualifying returns the nodes to remove in topological order. The graph is
// only ordered when some node matches.
func qualifying(g *graph.Graph, targets metatype.Set) ([]*graph.Node, error) {
	if len(targets) == 0 || !slices.ContainsFunc(g.Nodes(), func(n *graph.Node) bool { return targets.Contains(n.Metatype) }) {
		return nil, nil
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("cannot order graph for removal: %w", err)
	}
	var selected []*graph.Node
	for _, id := range order {
		n, _ := g.Node(id)
		if targets.Contains(n.Metatype) {
			selected = append(selected, n)
		}
	}
	return selected, nil
}

// rewire deletes a node and bridges its producer to its consumers.
func rewire(g *graph.Graph, id int) error {
	in := g.InEdges(id)
	if len(in) != 1 {
		return fmt.Errorf("node %d has %d incoming edges", id, len(in))
	}
	p, _ := g.Edge(in[0])
	producer := *p

	var consumers []graph.Edge
	for _, eid := range g.OutEdges(id) {
		o, _ := g.Edge(eid)
		consumers = append(consumers, *o)
	}

	if err := g.RemoveNode(id); err != nil {
		return err
	}
	for _, o := range consumers {
		_, err := g.AddEdge(&graph.Edge{
			From:       producer.From,
			To:         o.To,
			Shape:      slices.Clone(producer.Shape),
			DType:      producer.DType,
			InputPort:  o.InputPort,
			OutputPort: producer.OutputPort,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
