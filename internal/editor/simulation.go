package editor

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/tracegraph/internal/graph"
)

// edgeView is the part of an edge validation looks at.
type edgeView struct {
	from, to int
	shape    []int
	parallel []int
}

// simulation replays removals on per-node edge views without touching the graph.
type simulation struct {
	in  map[int][]*edgeView
	out map[int][]*edgeView
}

func newSimulation(g *graph.Graph) *simulation {
	s := &simulation{
		in:  make(map[int][]*edgeView),
		out: make(map[int][]*edgeView),
	}
	for _, e := range g.Edges() {
		s.add(&edgeView{from: e.From, to: e.To, shape: e.Shape, parallel: e.ParallelInputPorts})
	}
	return s
}

func (s *simulation) add(v *edgeView) {
	s.out[v.from] = append(s.out[v.from], v)
	s.in[v.to] = append(s.in[v.to], v)
}

func (s *simulation) drop(v *edgeView) {
	s.out[v.from] = slices.DeleteFunc(s.out[v.from], func(x *edgeView) bool { return x == v })
	s.in[v.to] = slices.DeleteFunc(s.in[v.to], func(x *edgeView) bool { return x == v })
}

// check reports the first precondition the node violates, or "".
func (s *simulation) check(id int) string {
	in := s.in[id]
	if len(in) != 1 {
		return fmt.Sprintf("has %d incoming edges, expected exactly 1", len(in))
	}
	p := in[0]
	if len(p.parallel) > 0 {
		return fmt.Sprintf("incoming edge from node %d carries parallel input ports %v", p.from, p.parallel)
	}
	for _, o := range s.out[id] {
		if len(o.parallel) > 0 {
			return fmt.Sprintf("outgoing edge to node %d carries parallel input ports %v", o.to, o.parallel)
		}
		if !slices.Equal(o.shape, p.shape) {
			return fmt.Sprintf("outgoing edge to node %d has shape %v, incoming edge has shape %v", o.to, o.shape, p.shape)
		}
	}
	return ""
}

// remove applies the rewrite of a node that passed check.
func (s *simulation) remove(id int) {
	p := s.in[id][0]
	outs := slices.Clone(s.out[id])

	s.drop(p)
	for _, o := range outs {
		s.drop(o)
		s.add(&edgeView{from: p.from, to: o.to, shape: p.shape})
	}
	delete(s.in, id)
	delete(s.out, id)
}
