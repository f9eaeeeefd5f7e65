package converter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/trace"
	"golang.org/x/sync/errgroup"
)

// Job is one trace to convert together with its declared inputs.
type Job struct {
	Name  string
	Trace *trace.Trace
	Specs []trace.InputSpec
}

// ConvertAll converts independent traces concurrently, at most workers at a
// time (workers <= 0 means unbounded). Results are returned in job order. The
// first failure cancels the remaining jobs and is returned.
func (c *Converter) ConvertAll(ctx context.Context, jobs []Job, workers int) ([]*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("ConvertAll: Starting batch conversion.", "jobs", len(jobs), "workers", workers)

	results := make([]*graph.Graph, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}

	for i, job := range jobs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			jobCtx := ctxlog.With(egCtx, "job", job.Name)
			g, err := c.Convert(jobCtx, job.Trace, job.Specs)
			if err != nil {
				return fmt.Errorf("job '%s': %w", job.Name, err)
			}
			results[i] = g
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	logger.Info("ConvertAll: Batch conversion successful.", "jobs", len(jobs))
	return results, nil
}
