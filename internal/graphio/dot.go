package graphio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/specialistvlad/tracegraph/internal/graph"
)

// EncodeDOT renders the graph in Graphviz DOT. Node labels show the node key
// and metatype; edge labels show the shape and ports.
func EncodeDOT(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph {")
	for _, n := range g.Nodes() {
		attrs := []string{
			"label=" + strconv.Quote(n.Key()+"\n"+n.MetatypeKey()),
		}
		if n.IsShared {
			attrs = append(attrs, `style="dashed"`)
		}
		fmt.Fprintf(bw, "  %d [%s];\n", n.ID, strings.Join(attrs, " "))
	}
	for _, e := range g.Edges() {
		label := fmt.Sprintf("%v %s\n%d -> %d", e.Shape, e.DType, e.OutputPort, e.InputPort)
		if len(e.ParallelInputPorts) > 0 {
			label += fmt.Sprintf(" parallel %v", e.ParallelInputPorts)
		}
		fmt.Fprintf(bw, "  %d -> %d [label=%s];\n", e.From, e.To, strconv.Quote(label))
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
