package graph

import (
	"container/heap"
	"fmt"
)

// TopologicalOrder returns all live node ids in Kahn order. Among nodes that
// are ready at the same time the smallest id comes first, so the order is
// stable for a given graph. A cycle yields ErrCycle.
func (g *Graph) TopologicalOrder() ([]int, error) {
	indegree := make(map[int]int, len(g.index))
	ready := &idHeap{}
	for _, id := range g.NodeIDs() {
		s, _ := g.slot(id)
		indegree[id] = len(s.in)
		if len(s.in) == 0 {
			*ready = append(*ready, id)
		}
	}
	heap.Init(ready)

	order := make([]int, 0, len(g.index))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(int)
		order = append(order, id)

		s, _ := g.slot(id)
		for _, eid := range s.out {
			to := g.edges[eid].To
			indegree[to]--
			if indegree[to] == 0 {
				heap.Push(ready, to)
			}
		}
	}

	if len(order) != len(g.index) {
		return nil, fmt.Errorf("%w: %d of %d nodes are on or behind a cycle", ErrCycle, len(g.index)-len(order), len(g.index))
	}
	return order, nil
}

// idHeap is a min-heap of node ids.
type idHeap []int

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
