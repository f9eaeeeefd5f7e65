// Package server exposes conversion over HTTP.
//
//	POST /v1/graphs?remove=dropout&format=json   trace document in, graph out
//	GET  /v1/graphs                              stored graph ids
//	GET  /v1/graphs/:id?format=dot               a stored graph
//	GET  /v1/metatypes                           the metatype catalog tree
//	GET  /health
//	GET  /metrics
//
// Converted graphs are stored under an id derived from the trace digest and
// the removed metatype keys, so resubmitting a trace is a store lookup.
// Concurrent submissions of the same trace share one conversion.
package server
