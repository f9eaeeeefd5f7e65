// Package pipeline runs the full trace-to-graph flow shared by the CLI and
// the HTTP server: convert, optionally remove nodes, and store the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/tracegraph/internal/converter"
	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/editor"
	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/graphstore"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
	"golang.org/x/sync/singleflight"
)

// Request describes one conversion.
type Request struct {
	// Name labels the request in logs and errors, e.g. the trace file path.
	Name  string
	Trace *trace.Trace
	// Remove lists metatype keys whose nodes are removed after conversion.
	Remove []string
}

// Result is a converted graph and where it came from.
type Result struct {
	Name  string
	ID    string
	Graph *graph.Graph
	// Cached is true when the graph was loaded from the store.
	Cached bool
}

// Pipeline converts traces and stores the graphs.
type Pipeline struct {
	converter *converter.Converter
	store     *graphstore.Store
	// catalog fingerprints the converter's registry so graphs classified
	// under another catalog are never served from the store.
	catalog string
	flight  singleflight.Group
}

// New creates a pipeline. A nil store disables caching. The converter's
// registry must be fully loaded by now.
func New(conv *converter.Converter, store *graphstore.Store) *Pipeline {
	return &Pipeline{converter: conv, store: store, catalog: conv.Registry().Fingerprint()}
}

// Converter returns the pipeline's converter.
func (p *Pipeline) Converter() *converter.Converter {
	return p.converter
}

// Store returns the pipeline's store, or nil.
func (p *Pipeline) Store() *graphstore.Store {
	return p.store
}

// prepared is a request with its removal targets resolved and its id computed.
type prepared struct {
	Request
	id      string
	targets metatype.Set
}

func (p *Pipeline) prepare(req Request) (*prepared, error) {
	targets, err := p.converter.Registry().SetOf(req.Remove...)
	if err != nil {
		return nil, fmt.Errorf("invalid removal target: %w", err)
	}
	digest, err := trace.Digest(req.Trace)
	if err != nil {
		return nil, err
	}
	return &prepared{Request: req, id: graphstore.ID(digest, p.catalog, req.Remove), targets: targets}, nil
}

// Run converts req.Trace, removes the requested metatypes and stores the
// graph. Concurrent runs for the same trace and removal set share one
// conversion, so callers must treat the returned graph as read-only.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	pr, err := p.prepare(req)
	if err != nil {
		return nil, err
	}

	v, err, shared := p.flight.Do(pr.id, func() (any, error) {
		if res := p.lookup(ctx, pr); res != nil {
			return res, nil
		}
		g, err := p.converter.Convert(ctx, pr.Trace, pr.Trace.Inputs)
		if err != nil {
			return nil, err
		}
		return p.finish(ctx, pr, g)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		ctxlog.FromContext(ctx).Debug("Pipeline: Shared an in-flight conversion.", "id", pr.id)
	}
	return v.(*Result), nil
}

// RunAll processes independent requests, converting the ones missing from the
// store in one concurrent batch of at most workers conversions. Results are
// returned in request order.
func (p *Pipeline) RunAll(ctx context.Context, reqs []Request, workers int) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	pending := make([]*prepared, 0, len(reqs))
	slots := make([]int, 0, len(reqs))

	for i, req := range reqs {
		pr, err := p.prepare(req)
		if err != nil {
			return nil, fmt.Errorf("'%s': %w", req.Name, err)
		}
		if res := p.lookup(ctx, pr); res != nil {
			results[i] = res
			continue
		}
		pending = append(pending, pr)
		slots = append(slots, i)
	}
	if len(pending) == 0 {
		return results, nil
	}

	jobs := make([]converter.Job, len(pending))
	for i, pr := range pending {
		jobs[i] = converter.Job{Name: pr.Name, Trace: pr.Trace, Specs: pr.Trace.Inputs}
	}
	graphs, err := p.converter.ConvertAll(ctx, jobs, workers)
	if err != nil {
		return nil, err
	}

	for i, pr := range pending {
		res, err := p.finish(ctx, pr, graphs[i])
		if err != nil {
			return nil, fmt.Errorf("'%s': %w", pr.Name, err)
		}
		results[slots[i]] = res
	}
	return results, nil
}

// lookup returns the stored result for pr, or nil on a miss. Store failures
// are logged and treated as misses.
func (p *Pipeline) lookup(ctx context.Context, pr *prepared) *Result {
	if p.store == nil {
		return nil
	}
	g, err := p.store.Get(ctx, pr.id)
	switch {
	case err == nil:
		ctxlog.FromContext(ctx).Debug("Pipeline: Graph loaded from store.", "id", pr.id, "name", pr.Name)
		return &Result{Name: pr.Name, ID: pr.id, Graph: g, Cached: true}
	case !errors.Is(err, graphstore.ErrNotFound):
		ctxlog.FromContext(ctx).Warn("Pipeline: Store lookup failed, converting anyway.", "id", pr.id, "error", err)
	}
	return nil
}

// finish applies node removal to a freshly converted graph and stores it. A
// failed write is logged and the graph is returned anyway.
func (p *Pipeline) finish(ctx context.Context, pr *prepared, g *graph.Graph) (*Result, error) {
	if len(pr.targets) > 0 {
		if err := editor.RemoveNodesAndReconnect(ctx, g, pr.targets); err != nil {
			return nil, err
		}
	}
	if p.store != nil {
		if err := p.store.Put(ctx, pr.id, g); err != nil {
			ctxlog.FromContext(ctx).Warn("Pipeline: Failed to store graph, returning it uncached.", "id", pr.id, "error", err)
		}
	}
	ctxlog.FromContext(ctx).Info("Pipeline: Graph converted.", "id", pr.id, "name", pr.Name, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return &Result{Name: pr.Name, ID: pr.id, Graph: g}, nil
}
