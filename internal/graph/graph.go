package graph

import (
	"fmt"
	"slices"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{index: make(map[int]int)}
}

// AddNode adds a node. A node with the same id must not already exist.
func (g *Graph) AddNode(n *Node) error {
	if _, ok := g.index[n.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, &nodeSlot{node: n})
	return nil
}

// AddEdge appends an edge and returns its id. Both endpoints must exist.
func (g *Graph) AddEdge(e *Edge) (EdgeID, error) {
	if e.From == e.To {
		return -1, fmt.Errorf("%w: %d -> %d", ErrSelfLoop, e.From, e.To)
	}
	from, ok := g.slot(e.From)
	if !ok {
		return -1, fmt.Errorf("%w: source node %d", ErrNodeNotFound, e.From)
	}
	to, ok := g.slot(e.To)
	if !ok {
		return -1, fmt.Errorf("%w: destination node %d", ErrNodeNotFound, e.To)
	}

	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, e)
	from.out = append(from.out, id)
	to.in = append(to.in, id)
	g.liveEdges++
	return id, nil
}

// RemoveEdge invalidates an edge slot.
func (g *Graph) RemoveEdge(id EdgeID) error {
	e, ok := g.Edge(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrEdgeNotFound, id)
	}
	if from, ok := g.slot(e.From); ok {
		from.out = slices.DeleteFunc(from.out, func(x EdgeID) bool { return x == id })
	}
	if to, ok := g.slot(e.To); ok {
		to.in = slices.DeleteFunc(to.in, func(x EdgeID) bool { return x == id })
	}
	g.edges[id] = nil
	g.liveEdges--
	return nil
}

// RemoveNode invalidates a node slot together with all of its incident edges.
func (g *Graph) RemoveNode(id int) error {
	s, ok := g.slot(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	for _, eid := range slices.Concat(s.in, s.out) {
		if err := g.RemoveEdge(eid); err != nil {
			return err
		}
	}
	g.nodes[g.index[id]] = nil
	delete(g.index, id)
	return nil
}

func (g *Graph) slot(id int) (*nodeSlot, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Node retrieves a node by id.
func (g *Graph) Node(id int) (*Node, bool) {
	s, ok := g.slot(id)
	if !ok {
		return nil, false
	}
	return s.node, true
}

// Nodes returns all live nodes ordered by ascending id.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.index))
	for _, s := range g.nodes {
		if s != nil {
			out = append(out, s.node)
		}
	}
	slices.SortFunc(out, func(a, b *Node) int { return a.ID - b.ID })
	return out
}

// NodeIDs returns the ids of all live nodes in ascending order.
func (g *Graph) NodeIDs() []int {
	ids := make([]int, 0, len(g.index))
	for id := range g.index {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Edge retrieves a live edge by id.
func (g *Graph) Edge(id EdgeID) (*Edge, bool) {
	if id < 0 || int(id) >= len(g.edges) || g.edges[id] == nil {
		return nil, false
	}
	return g.edges[id], true
}

// EdgeIDs returns the ids of all live edges in insertion order.
func (g *Graph) EdgeIDs() []EdgeID {
	ids := make([]EdgeID, 0, g.liveEdges)
	for i, e := range g.edges {
		if e != nil {
			ids = append(ids, EdgeID(i))
		}
	}
	return ids
}

// Edges returns all live edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, g.liveEdges)
	for _, e := range g.edges {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

// InEdges returns the ids of the node's incoming edges in insertion order.
func (g *Graph) InEdges(id int) []EdgeID {
	s, ok := g.slot(id)
	if !ok {
		return nil
	}
	return slices.Clone(s.in)
}

// OutEdges returns the ids of the node's outgoing edges in insertion order.
func (g *Graph) OutEdges(id int) []EdgeID {
	s, ok := g.slot(id)
	if !ok {
		return nil
	}
	return slices.Clone(s.out)
}

// NodeCount returns the number of live nodes.
func (g *Graph) NodeCount() int { return len(g.index) }

// EdgeCount returns the number of live edges.
func (g *Graph) EdgeCount() int { return g.liveEdges }

// Clone returns a deep copy of the graph's structure. Nodes and edges are
// copied; metatypes and layer attributes are shared.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		nodes:     make([]*nodeSlot, len(g.nodes)),
		index:     make(map[int]int, len(g.index)),
		edges:     make([]*Edge, len(g.edges)),
		liveEdges: g.liveEdges,
	}
	for i, s := range g.nodes {
		if s == nil {
			continue
		}
		n := *s.node
		n.IgnoredAlgorithms = slices.Clone(s.node.IgnoredAlgorithms)
		c.nodes[i] = &nodeSlot{node: &n, in: slices.Clone(s.in), out: slices.Clone(s.out)}
	}
	for id, i := range g.index {
		c.index[id] = i
	}
	for i, e := range g.edges {
		if e == nil {
			continue
		}
		ec := *e
		ec.Shape = slices.Clone(e.Shape)
		ec.ParallelInputPorts = slices.Clone(e.ParallelInputPorts)
		c.edges[i] = &ec
	}
	return c
}
