package converter

import (
	"errors"
	"testing"

	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_NodeIdentity(t *testing.T) {
	tr := &trace.Trace{
		Nodes: []*trace.Node{
			traceNode(t, 10, metatype.ModelInputOperator, -1, "Net", 0, nil),
			traceNode(t, 3, "relu", -1, "Net", 0, nil),
			traceNode(t, 7, metatype.ModelOutputOperator, -1, "Net", 0, nil),
		},
		Edges: []*trace.Edge{floatEdge(10, 3, 1, 4), floatEdge(3, 7, 1, 4)},
	}

	g, err := New(nil).Convert(testContext(), tr, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 7, 10}, g.NodeIDs())
	assert.Equal(t, len(tr.Nodes), g.NodeCount())
	for _, tn := range tr.Nodes {
		n, ok := g.Node(tn.ID)
		require.True(t, ok, "trace node %d missing from graph", tn.ID)
		assert.Equal(t, tn.OperatorName, n.OperatorName)
		assert.Equal(t, tn.Address().String(), n.Name)
	}

	relu, _ := g.Node(3)
	assert.Equal(t, "Net/relu_0", relu.Name)
	assert.Equal(t, "3 Net/relu_0", relu.Key())
	assert.Equal(t, "relu", relu.MetatypeKey())
}

func TestConvert_CanonicalScope(t *testing.T) {
	newTrace := func() *trace.Trace {
		return &trace.Trace{
			Nodes: []*trace.Node{
				traceNode(t, 0, "linear", 1, "b", 0, nil),
				traceNode(t, 1, "linear", 1, "a", 0, nil),
				traceNode(t, 2, "linear", 1, "c", 0, nil),
				// Module 2 is invoked twice from the same scope: not shared.
				traceNode(t, 3, "conv2d", 2, "Net/Conv2d[conv]", 0, nil),
				traceNode(t, 4, "conv2d", 2, "Net/Conv2d[conv]", 1, nil),
				// A free call keeps its own scope.
				traceNode(t, 5, "relu", -1, "Net/Seq[z]", 0, nil),
			},
		}
	}

	c := New(nil)
	first, err := c.Convert(testContext(), newTrace(), nil)
	require.NoError(t, err)

	for _, id := range []int{0, 1, 2} {
		n, _ := first.Node(id)
		assert.Equal(t, "a", n.LayerName, "node %d", id)
		assert.True(t, n.IsShared, "node %d", id)
	}
	for _, id := range []int{3, 4} {
		n, _ := first.Node(id)
		assert.Equal(t, "Net/Conv2d[conv]", n.LayerName)
		assert.False(t, n.IsShared)
	}
	free, _ := first.Node(5)
	assert.Equal(t, "Net/Seq[z]", free.LayerName)
	assert.False(t, free.IsShared)

	// The node name keeps the node's own call site.
	n0, _ := first.Node(0)
	assert.Equal(t, "b/linear_0", n0.Name)

	for range 5 {
		again, err := c.Convert(testContext(), newTrace(), nil)
		require.NoError(t, err)
		for _, n := range first.Nodes() {
			m, _ := again.Node(n.ID)
			assert.Equal(t, n.LayerName, m.LayerName)
			assert.Equal(t, n.IsShared, m.IsShared)
		}
	}
}

func TestConvert_SubtypeResolution(t *testing.T) {
	depthwise := &layerattr.Convolution{InChannels: 8, OutChannels: 8, Groups: 8, KernelSize: []int{3, 3}}
	regular := &layerattr.Convolution{InChannels: 8, OutChannels: 16, Groups: 1, KernelSize: []int{3, 3}}

	testCases := []struct {
		name     string
		moduleID int
		attrs    layerattr.Attributes
		wantKey  string
	}{
		{name: "depthwise inside module", moduleID: 1, attrs: depthwise, wantKey: "depthwise_conv2d"},
		{name: "regular inside module", moduleID: 1, attrs: regular, wantKey: "module_conv2d"},
		{name: "depthwise functional call", moduleID: -1, attrs: depthwise, wantKey: "conv2d"},
		{name: "no attributes inside module", moduleID: 1, attrs: nil, wantKey: "module_conv2d"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := &trace.Trace{Nodes: []*trace.Node{traceNode(t, 0, "conv2d", tc.moduleID, "Net/Conv2d[c]", 0, tc.attrs)}}
			g, err := New(nil).Convert(testContext(), tr, nil)
			require.NoError(t, err)
			n, _ := g.Node(0)
			assert.Equal(t, tc.wantKey, n.MetatypeKey())
			assert.Equal(t, tc.attrs, n.LayerAttributes)
		})
	}
}

func TestConvert_UnknownOperator(t *testing.T) {
	tr := &trace.Trace{Nodes: []*trace.Node{traceNode(t, 0, "frobnicate", -1, "Net", 0, nil)}}
	g, err := New(nil).Convert(testContext(), tr, nil)
	require.NoError(t, err)
	n, _ := g.Node(0)
	assert.Same(t, metatype.Unknown, n.Metatype)
}

func TestConvert_Ambiguity(t *testing.T) {
	always := metatype.PredicateFunc(func(layerattr.Attributes, metatype.CallContext) bool { return true })
	r := metatype.New()
	r.MustRegister(&metatype.Metatype{
		Key:     "op",
		Aliases: []string{"op"},
		Subtypes: []*metatype.Metatype{
			{Key: "first", Match: always},
			{Key: "second", Match: always},
		},
	})

	tr := &trace.Trace{Nodes: []*trace.Node{traceNode(t, 0, "op", -1, "Net", 0, nil)}}
	g, err := New(r).Convert(testContext(), tr, nil)
	require.Error(t, err)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, metatype.ErrAmbiguousSubtype)

	var ambiguity *metatype.AmbiguityError
	require.True(t, errors.As(err, &ambiguity))
	assert.Equal(t, "op", ambiguity.Parent)
	assert.Equal(t, []string{"first", "second"}, ambiguity.Matches)
}

func TestConvert_EdgeRoundTrip(t *testing.T) {
	edges := []*trace.Edge{
		{From: 0, To: 1, Shape: []int{1, 3, 8, 8}, DType: trace.DTypeFloat, InputPort: 0, OutputPort: 0},
		{From: 0, To: 2, Shape: []int{1, 3, 8, 8}, DType: trace.DTypeFloat, InputPort: 1, OutputPort: 0, ParallelInputPorts: []int{2, 3}},
		{From: 1, To: 2, Shape: []int{4}, DType: trace.DTypeInt, InputPort: 0, OutputPort: 1},
	}
	tr := &trace.Trace{
		Nodes: []*trace.Node{
			traceNode(t, 0, metatype.ModelInputOperator, -1, "Net", 0, nil),
			traceNode(t, 1, "relu", -1, "Net", 0, nil),
			traceNode(t, 2, "add", -1, "Net", 0, nil),
		},
		Edges: edges,
	}

	g, err := New(nil).Convert(testContext(), tr, nil)
	require.NoError(t, err)

	got := g.Edges()
	require.Len(t, got, len(edges))
	for i, te := range edges {
		assert.Equal(t, graph.Edge{
			From:               te.From,
			To:                 te.To,
			Shape:              te.Shape,
			DType:              te.DType,
			InputPort:          te.InputPort,
			OutputPort:         te.OutputPort,
			ParallelInputPorts: te.ParallelInputPorts,
		}, *got[i])
	}

	// The graph owns its copies.
	got[0].Shape[0] = 99
	assert.Equal(t, 1, edges[0].Shape[0])
}

func TestConvert_DanglingEdge(t *testing.T) {
	tr := &trace.Trace{
		Nodes: []*trace.Node{traceNode(t, 0, "relu", -1, "Net", 0, nil)},
		Edges: []*trace.Edge{floatEdge(0, 5, 1)},
	}
	_, err := New(nil).Convert(testContext(), tr, nil)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	assert.ErrorContains(t, err, "malformed trace")
}

func TestConvert_IntegerInputs(t *testing.T) {
	newTrace := func() *trace.Trace {
		return &trace.Trace{
			Nodes: []*trace.Node{
				traceNode(t, 0, metatype.ModelInputOperator, -1, "Net", 0, nil),
				traceNode(t, 1, metatype.ModelInputOperator, -1, "Net", 1, nil),
				traceNode(t, 2, metatype.ModelInputOperator, -1, "Net", 5, nil),
				// Not an input: its call order must not be looked up.
				traceNode(t, 3, "embedding", -1, "Net", 1, nil),
			},
		}
	}
	specs := []trace.InputSpec{{DType: trace.DTypeFloat}, {DType: trace.DTypeInt}}

	testCases := []struct {
		name  string
		specs []trace.InputSpec
		want  map[int]bool
	}{
		{name: "with specs", specs: specs, want: map[int]bool{0: false, 1: true, 2: false, 3: false}},
		{name: "without specs", specs: nil, want: map[int]bool{0: false, 1: false, 2: false, 3: false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := New(nil).Convert(testContext(), newTrace(), tc.specs)
			require.NoError(t, err)
			for id, want := range tc.want {
				n, _ := g.Node(id)
				assert.Equal(t, want, n.IsIntegerInput, "node %d", id)
			}
		})
	}
}

func TestConvert_CarriesFlags(t *testing.T) {
	tn := traceNode(t, 0, "relu", -1, "Net", 0, nil)
	tn.InIterationScope = true
	tn.IgnoredAlgorithms = []string{"quantization"}

	g, err := New(nil).Convert(testContext(), &trace.Trace{Nodes: []*trace.Node{tn}}, nil)
	require.NoError(t, err)
	n, _ := g.Node(0)
	assert.True(t, n.InIterationScope)
	assert.Equal(t, []string{"quantization"}, n.IgnoredAlgorithms)
}
