// Package editor rewrites static graphs in place.
//
// RemoveNodesAndReconnect elides pass-through operations (dropout, noops and
// the like) and wires each removed node's producer straight to its consumers.
// The rewrite is all or nothing: every qualifying node is validated first,
// against the graph as it will look once the qualifying nodes upstream of it
// are gone, and the graph is only touched when all of them pass.
package editor
