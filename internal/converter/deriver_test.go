package converter

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reshapeTrace(t *testing.T) *trace.Trace {
	t.Helper()
	preset := &layerattr.Reshape{InputShape: []int{9}, OutputShape: []int{3, 3}}
	return &trace.Trace{
		Nodes: []*trace.Node{
			traceNode(t, 0, metatype.ModelInputOperator, -1, "Net", 0, nil),
			traceNode(t, 1, "view", -1, "Net", 0, nil),
			traceNode(t, 2, "squeeze", -1, "Net", 0, preset),
			traceNode(t, 3, "flatten", -1, "Net", 0, nil),
			traceNode(t, 4, "relu", -1, "Net", 0, nil),
		},
		Edges: []*trace.Edge{
			floatEdge(0, 1, 1, 2, 6),
			floatEdge(1, 2, 1, 12),
			floatEdge(2, 4, 12),
			floatEdge(0, 4, 1, 2, 6),
			// flatten has no outgoing edge: nothing to derive from.
			floatEdge(4, 3, 12),
		},
	}
}

func TestShapeDeriver(t *testing.T) {
	g, err := New(nil).Convert(testContext(), reshapeTrace(t), nil)
	require.NoError(t, err)

	view, _ := g.Node(1)
	assert.Equal(t, &layerattr.Reshape{InputShape: []int{1, 2, 6}, OutputShape: []int{1, 12}}, view.LayerAttributes)

	squeeze, _ := g.Node(2)
	assert.Equal(t, &layerattr.Reshape{InputShape: []int{9}, OutputShape: []int{3, 3}}, squeeze.LayerAttributes, "existing attributes are kept")

	flatten, _ := g.Node(3)
	assert.Nil(t, flatten.LayerAttributes)

	relu, _ := g.Node(4)
	assert.Nil(t, relu.LayerAttributes)
}

func TestNopDeriver(t *testing.T) {
	g, err := New(nil, WithDeriver(NopDeriver{})).Convert(testContext(), reshapeTrace(t), nil)
	require.NoError(t, err)
	view, _ := g.Node(1)
	assert.Nil(t, view.LayerAttributes)
}

type failingDeriver struct{}

func (failingDeriver) Derive(context.Context, *graph.Graph) error {
	return errors.New("boom")
}

func TestConvert_DeriverError(t *testing.T) {
	_, err := New(nil, WithDeriver(failingDeriver{})).Convert(testContext(), reshapeTrace(t), nil)
	assert.ErrorContains(t, err, "attribute derivation failed: boom")
}

type deriverFunc func(ctx context.Context, g *graph.Graph) error

func (f deriverFunc) Derive(ctx context.Context, g *graph.Graph) error { return f(ctx, g) }

func TestConvert_DeriverDoesNotTouchTrace(t *testing.T) {
	attrs := &layerattr.Convolution{InChannels: 8, OutChannels: 16, Groups: 1, KernelSize: []int{3, 3}}
	tr := &trace.Trace{Nodes: []*trace.Node{traceNode(t, 0, "conv2d", 1, "Net/Conv2d[c]", 0, attrs)}}

	rewrite := deriverFunc(func(_ context.Context, g *graph.Graph) error {
		for _, n := range g.Nodes() {
			if conv, ok := n.LayerAttributes.(*layerattr.Convolution); ok {
				conv.Groups = 99
				conv.KernelSize[0] = 7
			}
		}
		return nil
	})

	g, err := New(nil, WithDeriver(rewrite)).Convert(testContext(), tr, nil)
	require.NoError(t, err)

	n, _ := g.Node(0)
	assert.Equal(t, 99, n.LayerAttributes.(*layerattr.Convolution).Groups)
	assert.Equal(t, 1, attrs.Groups)
	assert.Equal(t, []int{3, 3}, attrs.KernelSize)
	assert.NotSame(t, attrs, n.LayerAttributes)
}
