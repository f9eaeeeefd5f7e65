package converter

import (
	"context"
	"testing"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"github.com/specialistvlad/tracegraph/internal/scope"
	"github.com/specialistvlad/tracegraph/internal/trace"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.Discard(context.Background())
}

func intPtr(v int) *int { return &v }

func mustScope(t *testing.T, raw string) scope.Scope {
	t.Helper()
	s, err := scope.Parse(raw)
	require.NoError(t, err)
	return s
}

// traceNode builds a trace node; moduleID < 0 means a free-function call.
func traceNode(t *testing.T, id int, op string, moduleID int, rawScope string, callOrder int, attrs layerattr.Attributes) *trace.Node {
	t.Helper()
	n := &trace.Node{
		ID:              id,
		OperatorName:    op,
		Scope:           mustScope(t, rawScope),
		CallOrder:       callOrder,
		LayerAttributes: attrs,
	}
	if moduleID >= 0 {
		n.ModuleID = intPtr(moduleID)
	}
	return n
}

func floatEdge(from, to int, shape ...int) *trace.Edge {
	return &trace.Edge{From: from, To: to, Shape: shape, DType: trace.DTypeFloat}
}
