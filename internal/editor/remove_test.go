package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	inputID = iota
	dropoutID
	linearID
	outputID
)

func testContext() context.Context {
	return ctxlog.Discard(context.Background())
}

func addNode(t *testing.T, g *graph.Graph, id int, key string) {
	t.Helper()
	mt, ok := metatype.Default().Get(key)
	require.True(t, ok, "metatype %s", key)
	require.NoError(t, g.AddNode(&graph.Node{ID: id, Name: key, Metatype: mt}))
}

func addEdge(t *testing.T, g *graph.Graph, e graph.Edge) {
	t.Helper()
	if e.DType == "" {
		e.DType = trace.DTypeFloat
	}
	_, err := g.AddEdge(&e)
	require.NoError(t, err)
}

// dropoutChain builds Input -> Dropout -> Linear -> Output.
func dropoutChain(t *testing.T, inEdge, outEdge graph.Edge) *graph.Graph {
	t.Helper()
	g := graph.New()
	addNode(t, g, inputID, "input_noop")
	addNode(t, g, dropoutID, "dropout")
	addNode(t, g, linearID, "module_linear")
	addNode(t, g, outputID, "output_noop")

	inEdge.From, inEdge.To = inputID, dropoutID
	outEdge.From, outEdge.To = dropoutID, linearID
	addEdge(t, g, inEdge)
	addEdge(t, g, outEdge)
	addEdge(t, g, graph.Edge{From: linearID, To: outputID, Shape: []int{1, 4}})
	return g
}

func dropoutSet(t *testing.T) metatype.Set {
	t.Helper()
	set, err := metatype.Default().SetOf("dropout")
	require.NoError(t, err)
	return set
}

func TestRemoveNodesAndReconnect_Dropout(t *testing.T) {
	g := dropoutChain(t,
		graph.Edge{Shape: []int{1, 10}, OutputPort: 2, InputPort: 0},
		graph.Edge{Shape: []int{1, 10}, OutputPort: 0, InputPort: 0, DType: trace.DTypeFloat},
	)

	require.NoError(t, RemoveNodesAndReconnect(testContext(), g, dropoutSet(t)))

	assert.Equal(t, []int{inputID, linearID, outputID}, g.NodeIDs())
	require.Len(t, g.InEdges(linearID), 1)

	e, ok := g.Edge(g.InEdges(linearID)[0])
	require.True(t, ok)
	assert.Equal(t, graph.Edge{
		From:       inputID,
		To:         linearID,
		Shape:      []int{1, 10},
		DType:      trace.DTypeFloat,
		InputPort:  0,
		OutputPort: 2,
	}, *e)
	assert.Equal(t, 2, g.EdgeCount())
}

func TestRemoveNodesAndReconnect_PortsComeFromBothSides(t *testing.T) {
	g := dropoutChain(t,
		graph.Edge{Shape: []int{1, 10}, OutputPort: 3, InputPort: 5},
		graph.Edge{Shape: []int{1, 10}, OutputPort: 7, InputPort: 1},
	)
	require.NoError(t, RemoveNodesAndReconnect(testContext(), g, dropoutSet(t)))

	e, _ := g.Edge(g.InEdges(linearID)[0])
	assert.Equal(t, 3, e.OutputPort, "producer's output port")
	assert.Equal(t, 1, e.InputPort, "consumer's input port")
}

func TestRemoveNodesAndReconnect_Rejections(t *testing.T) {
	testCases := []struct {
		name    string
		inEdge  graph.Edge
		outEdge graph.Edge
		reason  string
	}{
		{
			name:    "shape mismatch",
			inEdge:  graph.Edge{Shape: []int{1, 10}},
			outEdge: graph.Edge{Shape: []int{1, 5}},
			reason:  "has shape [1 5]",
		},
		{
			name:    "parallel ports on incoming edge",
			inEdge:  graph.Edge{Shape: []int{1, 10}, ParallelInputPorts: []int{1}},
			outEdge: graph.Edge{Shape: []int{1, 10}},
			reason:  "incoming edge from node 0 carries parallel input ports",
		},
		{
			name:    "parallel ports on outgoing edge",
			inEdge:  graph.Edge{Shape: []int{1, 10}},
			outEdge: graph.Edge{Shape: []int{1, 10}, ParallelInputPorts: []int{1, 2}},
			reason:  "outgoing edge to node 2 carries parallel input ports",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := dropoutChain(t, tc.inEdge, tc.outEdge)
			before := g.Clone()

			err := RemoveNodesAndReconnect(testContext(), g, dropoutSet(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsafeRewrite)
			assert.ErrorContains(t, err, tc.reason)

			var unsafe *UnsafeRewriteError
			require.True(t, errors.As(err, &unsafe))
			assert.Equal(t, dropoutID, unsafe.NodeID)

			assert.Equal(t, before.Nodes(), g.Nodes())
			assert.Equal(t, before.Edges(), g.Edges())
		})
	}
}

func TestRemoveNodesAndReconnect_ZeroIncoming(t *testing.T) {
	g := graph.New()
	addNode(t, g, 0, "dropout")
	addNode(t, g, 1, "relu")
	addEdge(t, g, graph.Edge{From: 0, To: 1, Shape: []int{2}})

	err := RemoveNodesAndReconnect(testContext(), g, dropoutSet(t))
	assert.ErrorIs(t, err, ErrUnsafeRewrite)
	assert.ErrorContains(t, err, "has 0 incoming edges")
	assert.Equal(t, 2, g.NodeCount())
}

func TestRemoveNodesAndReconnect_MultipleIncoming(t *testing.T) {
	g := graph.New()
	addNode(t, g, 0, "input_noop")
	addNode(t, g, 1, "input_noop")
	addNode(t, g, 2, "dropout")
	addEdge(t, g, graph.Edge{From: 0, To: 2, Shape: []int{2}})
	addEdge(t, g, graph.Edge{From: 1, To: 2, Shape: []int{2}, InputPort: 1})

	err := RemoveNodesAndReconnect(testContext(), g, dropoutSet(t))
	assert.ErrorContains(t, err, "has 2 incoming edges")
}

func TestRemoveNodesAndReconnect_Chained(t *testing.T) {
	// Input -> Dropout -> Noop -> Dropout -> Linear, with a fan-out from the noop.
	g := graph.New()
	addNode(t, g, 0, "input_noop")
	addNode(t, g, 1, "dropout")
	addNode(t, g, 2, "noop")
	addNode(t, g, 3, "dropout")
	addNode(t, g, 4, "module_linear")
	addNode(t, g, 5, "output_noop")
	addEdge(t, g, graph.Edge{From: 0, To: 1, Shape: []int{1, 8}, OutputPort: 1})
	addEdge(t, g, graph.Edge{From: 1, To: 2, Shape: []int{1, 8}})
	addEdge(t, g, graph.Edge{From: 2, To: 3, Shape: []int{1, 8}})
	addEdge(t, g, graph.Edge{From: 2, To: 5, Shape: []int{1, 8}, InputPort: 4})
	addEdge(t, g, graph.Edge{From: 3, To: 4, Shape: []int{1, 8}, InputPort: 2})

	targets, err := metatype.Default().SetOf("dropout", "noop")
	require.NoError(t, err)
	require.NoError(t, RemoveNodesAndReconnect(testContext(), g, targets))

	assert.Equal(t, []int{0, 4, 5}, g.NodeIDs())
	require.Equal(t, 2, g.EdgeCount())

	toLinear, _ := g.Edge(g.InEdges(4)[0])
	assert.Equal(t, graph.Edge{From: 0, To: 4, Shape: []int{1, 8}, DType: trace.DTypeFloat, InputPort: 2, OutputPort: 1}, *toLinear)

	toOutput, _ := g.Edge(g.InEdges(5)[0])
	assert.Equal(t, graph.Edge{From: 0, To: 5, Shape: []int{1, 8}, DType: trace.DTypeFloat, InputPort: 4, OutputPort: 1}, *toOutput)
}

func TestRemoveNodesAndReconnect_ChainedRejectionLeavesGraphUntouched(t *testing.T) {
	// The second dropout changes shape; the first one must not be removed either.
	g := graph.New()
	addNode(t, g, 0, "input_noop")
	addNode(t, g, 1, "dropout")
	addNode(t, g, 2, "dropout")
	addNode(t, g, 3, "relu")
	addEdge(t, g, graph.Edge{From: 0, To: 1, Shape: []int{4}})
	addEdge(t, g, graph.Edge{From: 1, To: 2, Shape: []int{4}})
	addEdge(t, g, graph.Edge{From: 2, To: 3, Shape: []int{2, 2}})
	before := g.Clone()

	err := RemoveNodesAndReconnect(testContext(), g, dropoutSet(t))
	var unsafe *UnsafeRewriteError
	require.ErrorAs(t, err, &unsafe)
	assert.Equal(t, 2, unsafe.NodeID)
	assert.Equal(t, before.Nodes(), g.Nodes())
	assert.Equal(t, before.Edges(), g.Edges())
}

func TestRemoveNodesAndReconnect_DeadEnd(t *testing.T) {
	g := graph.New()
	addNode(t, g, 0, "input_noop")
	addNode(t, g, 1, "dropout")
	addNode(t, g, 2, "relu")
	addEdge(t, g, graph.Edge{From: 0, To: 1, Shape: []int{3}})
	addEdge(t, g, graph.Edge{From: 0, To: 2, Shape: []int{3}})

	require.NoError(t, RemoveNodesAndReconnect(testContext(), g, dropoutSet(t)))
	assert.Equal(t, []int{0, 2}, g.NodeIDs())
	assert.Equal(t, 1, g.EdgeCount())
}

func TestRemoveNodesAndReconnect_NoTargets(t *testing.T) {
	g := dropoutChain(t, graph.Edge{Shape: []int{1, 10}}, graph.Edge{Shape: []int{1, 5}})
	require.NoError(t, RemoveNodesAndReconnect(testContext(), g, metatype.Set{}))
	assert.Equal(t, 4, g.NodeCount())
}

func TestRemoveNodesAndReconnect_Cycle(t *testing.T) {
	g := graph.New()
	addNode(t, g, 0, "relu")
	addNode(t, g, 1, "dropout")
	addEdge(t, g, graph.Edge{From: 0, To: 1})
	addEdge(t, g, graph.Edge{From: 1, To: 0})

	err := RemoveNodesAndReconnect(testContext(), g, dropoutSet(t))
	assert.ErrorIs(t, err, graph.ErrCycle)

	t.Run("nothing to remove leaves a cyclic graph alone", func(t *testing.T) {
		g := graph.New()
		addNode(t, g, 0, "relu")
		addNode(t, g, 1, "sigmoid")
		addEdge(t, g, graph.Edge{From: 0, To: 1})
		addEdge(t, g, graph.Edge{From: 1, To: 0})

		require.NoError(t, RemoveNodesAndReconnect(testContext(), g, dropoutSet(t)))
		require.NoError(t, RemoveNodesAndReconnect(testContext(), g, metatype.Set{}))
		assert.Equal(t, 2, g.NodeCount())
		assert.Equal(t, 2, g.EdgeCount())
	})
}
