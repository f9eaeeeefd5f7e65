package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/tracegraph/internal/graphio"
	"github.com/specialistvlad/tracegraph/internal/pipeline"
	"github.com/specialistvlad/tracegraph/internal/trace"
)

// ConvertOptions describes one `convert` invocation.
type ConvertOptions struct {
	// TracePaths are trace files to convert.
	TracePaths []string
	// SocketIO, when set, fetches one more trace from a live tracer.
	SocketIO *trace.SocketIOSource
	// Remove lists metatype keys whose nodes are removed after conversion.
	Remove []string
	Format graphio.Format
	// OutDir receives one file per trace. Empty writes a single graph to the
	// app's output.
	OutDir string
}

// Convert loads every requested trace, converts them concurrently and writes
// the graphs.
func (a *App) Convert(ctx context.Context, opts ConvertOptions) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Convert started.", "traces", len(opts.TracePaths), "socketio", opts.SocketIO != nil)

	reqs := make([]pipeline.Request, 0, len(opts.TracePaths)+1)
	for _, path := range opts.TracePaths {
		t, err := trace.Load(ctx, path)
		if err != nil {
			return err
		}
		reqs = append(reqs, pipeline.Request{Name: path, Trace: t, Remove: opts.Remove})
	}
	if opts.SocketIO != nil {
		t, err := opts.SocketIO.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch trace from %s: %w", opts.SocketIO.URL, err)
		}
		reqs = append(reqs, pipeline.Request{Name: "socketio", Trace: t, Remove: opts.Remove})
	}

	if len(reqs) == 0 {
		return errors.New("no traces to convert")
	}
	if len(reqs) > 1 && opts.OutDir == "" {
		return fmt.Errorf("%d traces given: an output directory is required for more than one", len(reqs))
	}

	results, err := a.pipeline.RunAll(ctx, reqs, a.config.Workers)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if opts.OutDir == "" {
		return graphio.Encode(a.outW, results[0].Graph, opts.Format)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, res := range results {
		path := filepath.Join(opts.OutDir, outputName(res.Name)+opts.Format.Extension())
		if err := writeGraph(path, res, opts.Format); err != nil {
			return err
		}
		a.logger.Info("Graph written.", "path", path, "graph_id", res.ID, "cached", res.Cached)
	}
	return nil
}

// outputName derives an output file stem from a trace path.
func outputName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeGraph(path string, res *pipeline.Result, format graphio.Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := graphio.Encode(f, res.Graph, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
