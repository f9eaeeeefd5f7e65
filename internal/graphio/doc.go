// Package graphio serializes static graphs.
//
// JSON is the interchange format: Encode writes it and Decode reads it back,
// re-binding every node to its metatype by key. YAML carries the same document
// for humans, and DOT renders the graph for Graphviz.
package graphio
