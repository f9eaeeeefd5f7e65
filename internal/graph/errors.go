package graph

import "errors"

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrEdgeNotFound  = errors.New("edge not found")
	ErrSelfLoop      = errors.New("self-referential edge not allowed")
	ErrCycle         = errors.New("cycle detected")
)
