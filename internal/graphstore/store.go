package graphstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/graphio"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned when no graph is stored under an id.
var ErrNotFound = errors.New("graph not found")

var tracer = otel.Tracer("tracegraph.graphstore")

// ID names the graph converted from the trace with the given digest, under
// the metatype catalog with the given fingerprint, after removing the given
// metatype keys. Key order does not matter. Only a short prefix of the
// catalog fingerprint is kept.
func ID(traceDigest, catalog string, removed []string) string {
	id := traceDigest
	if catalog != "" {
		id += "@" + catalog[:min(len(catalog), catalogPrefixLen)]
	}
	if len(removed) == 0 {
		return id
	}
	keys := slices.Clone(removed)
	slices.Sort(keys)
	return id + "~" + strings.Join(slices.Compact(keys), "+")
}

const catalogPrefixLen = 16

// Backend stores opaque graph documents by id.
type Backend interface {
	// Name identifies the backend in logs and spans.
	Name() string
	PutBlob(ctx context.Context, id string, data []byte) error
	// GetBlob returns ErrNotFound when nothing is stored under id.
	GetBlob(ctx context.Context, id string) ([]byte, error)
	DeleteBlob(ctx context.Context, id string) error
	// ListIDs returns the stored ids in ascending order.
	ListIDs(ctx context.Context) ([]string, error)
	Close() error
}

// Store saves and loads graphs through a Backend.
type Store struct {
	backend  Backend
	registry *metatype.Registry
}

// New creates a store. Loaded graphs bind their metatypes through r.
func New(backend Backend, r *metatype.Registry) *Store {
	if r == nil {
		r = metatype.Default()
	}
	return &Store{backend: backend, registry: r}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

func (s *Store) startSpan(ctx context.Context, op, id string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "GraphStore."+op,
		trace.WithAttributes(
			attribute.String("graphstore.backend", s.backend.Name()),
			attribute.String("graphstore.id", id),
		),
	)
}

// Put stores g under id, replacing any previous graph.
func (s *Store) Put(ctx context.Context, id string, g *graph.Graph) error {
	ctx, span := s.startSpan(ctx, "Put", id)
	defer span.End()

	data, err := graphio.Marshal(g, graphio.FormatJSON)
	if err != nil {
		return fmt.Errorf("failed to encode graph '%s': %w", id, err)
	}
	if err := s.backend.PutBlob(ctx, id, data); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to store graph '%s' in %s: %w", id, s.backend.Name(), err)
	}
	ctxlog.FromContext(ctx).Debug("GraphStore: Graph stored.", "id", id, "backend", s.backend.Name(), "bytes", len(data))
	return nil
}

// Get loads the graph stored under id.
func (s *Store) Get(ctx context.Context, id string) (*graph.Graph, error) {
	ctx, span := s.startSpan(ctx, "Get", id)
	defer span.End()

	data, err := s.backend.GetBlob(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
		}
		return nil, fmt.Errorf("failed to load graph '%s' from %s: %w", id, s.backend.Name(), err)
	}
	g, err := graphio.Decode(data, s.registry)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("stored graph '%s' is corrupt: %w", id, err)
	}
	return g, nil
}

// Delete removes the graph stored under id. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, span := s.startSpan(ctx, "Delete", id)
	defer span.End()

	if err := s.backend.DeleteBlob(ctx, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete graph '%s' from %s: %w", id, s.backend.Name(), err)
	}
	return nil
}

// List returns the ids of all stored graphs in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ctx, span := s.startSpan(ctx, "List", "")
	defer span.End()

	ids, err := s.backend.ListIDs(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list graphs in %s: %w", s.backend.Name(), err)
	}
	return ids, nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
