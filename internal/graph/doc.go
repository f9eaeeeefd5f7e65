// Package graph holds the static computation graph produced from a trace.
//
// # Why Graph Package Exists
//
// A trace records what happened during one forward pass; the static graph is
// the canonical, analyzable form of the same computation. Every node carries
// its resolved metatype and the canonical name of the layer that issued it, and
// every edge carries the tensor metadata (shape, dtype, ports) of the value it
// transports. Later passes, such as the editor, rewrite the graph in place.
//
// # Storage: Arena With Stable Ids
//
// Nodes and edges live in slices of slots. A node slot is found through a map
// from the node's stable id (the trace node id) to its slot index; an edge is
// addressed directly by its EdgeID, which is its slot index.
//
//	nodes:  [ slot0 | slot1 | (removed) | slot3 ]   index: {id -> slot}
//	edges:  [ e0 | (removed) | e2 | e3 | e4 ]       e4 appended by a rewrite
//
// Removal invalidates a slot and never reuses it, so ids and EdgeIDs held by a
// caller stay unambiguous for the lifetime of the graph. Reconnection appends
// new edge slots. Adjacency is kept per node slot as lists of EdgeIDs, in the
// order edges were added.
//
// # Invariants
//
//   - Node ids are unique and never reassigned.
//   - Every live edge references two live nodes.
//   - Removing a node removes all of its incident edges.
//
// # Thread-Safety
//
// A Graph is not safe for concurrent mutation. Conversion and editing are
// single-threaded per graph; independent graphs may be processed in parallel.
package graph
