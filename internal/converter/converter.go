package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Converter builds static graphs from traces. It holds no mutable state and
// may be shared by concurrent conversions of independent traces.
type Converter struct {
	registry *metatype.Registry
	deriver  AttributeDeriver
}

// Option configures a Converter.
type Option func(*Converter)

// WithDeriver replaces the default ShapeDeriver.
func WithDeriver(d AttributeDeriver) Option {
	return func(c *Converter) {
		c.deriver = d
	}
}

// New creates a converter backed by the given registry. A nil registry means
// metatype.Default().
func New(r *metatype.Registry, opts ...Option) *Converter {
	if r == nil {
		r = metatype.Default()
	}
	c := &Converter{registry: r, deriver: ShapeDeriver{}}
	for _, opt := range opts {
		opt(c)
	}
	if c.deriver == nil {
		c.deriver = NopDeriver{}
	}
	return c
}

// Registry returns the registry the converter resolves metatypes with.
func (c *Converter) Registry() *metatype.Registry {
	return c.registry
}

// Convert builds the static graph for t. specs declares the model inputs in
// order; nil disables integer-input tagging.
func (c *Converter) Convert(ctx context.Context, t *trace.Trace, specs []trace.InputSpec) (g *graph.Graph, err error) {
	ctx, span := tracer.Start(ctx, "Converter.Convert",
		oteltrace.WithAttributes(
			attribute.Int("trace.node_count", len(t.Nodes)),
			attribute.Int("trace.edge_count", len(t.Edges)),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		nodes, edges := 0, 0
		if g != nil {
			nodes, edges = g.NodeCount(), g.EdgeCount()
		}
		recordConvertMetrics(ctx, time.Since(start), nodes, edges, err == nil)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Convert: Starting graph conversion.", "nodes", len(t.Nodes), "edges", len(t.Edges), "input_specs", len(specs))

	// First pass: canonical layer name per owning module.
	layers := canonicalLayers(t.Nodes)
	logger.Debug("Convert: Scope canonicalization complete.", "modules", len(layers))

	// Second pass: resolve, tag and emit nodes.
	g = graph.New()
	if err := c.emitNodes(ctx, t.Nodes, specs, layers, g); err != nil {
		return nil, err
	}
	logger.Debug("Convert: Node emission complete.", "node_count", g.NodeCount())

	// Third pass: edges, verbatim.
	if err := emitEdges(t.Edges, g); err != nil {
		return nil, fmt.Errorf("malformed trace: %w", err)
	}
	logger.Debug("Convert: Edge emission complete.", "edge_count", g.EdgeCount())

	// Final pass: attribute derivation.
	if err := c.deriver.Derive(ctx, g); err != nil {
		return nil, fmt.Errorf("attribute derivation failed: %w", err)
	}

	span.SetAttributes(
		attribute.Int("graph.node_count", g.NodeCount()),
		attribute.Int("graph.edge_count", g.EdgeCount()),
	)
	logger.Info("Convert: Graph conversion successful.", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}
