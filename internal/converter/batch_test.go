package converter

import (
	"fmt"
	"testing"

	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertAll(t *testing.T) {
	var jobs []Job
	for i := range 8 {
		nodes := []*trace.Node{traceNode(t, 0, metatype.ModelInputOperator, -1, "Net", 0, nil)}
		for j := 1; j <= i; j++ {
			nodes = append(nodes, traceNode(t, j, "relu", -1, "Net", j-1, nil))
		}
		jobs = append(jobs, Job{Name: fmt.Sprintf("trace-%d", i), Trace: &trace.Trace{Nodes: nodes}})
	}

	graphs, err := New(nil).ConvertAll(testContext(), jobs, 3)
	require.NoError(t, err)
	require.Len(t, graphs, len(jobs))
	for i, g := range graphs {
		assert.Equal(t, i+1, g.NodeCount(), "results keep job order")
	}
}

func TestConvertAll_Error(t *testing.T) {
	jobs := []Job{
		{Name: "good", Trace: &trace.Trace{Nodes: []*trace.Node{traceNode(t, 0, "relu", -1, "Net", 0, nil)}}},
		{Name: "bad", Trace: &trace.Trace{
			Nodes: []*trace.Node{traceNode(t, 0, "relu", -1, "Net", 0, nil)},
			Edges: []*trace.Edge{floatEdge(0, 1, 1)},
		}},
	}

	graphs, err := New(nil).ConvertAll(testContext(), jobs, 0)
	assert.Nil(t, graphs)
	assert.ErrorContains(t, err, "job 'bad'")
}
