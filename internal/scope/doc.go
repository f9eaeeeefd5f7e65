// internal/scope/doc.go

/*
Package scope provides a structured, type-safe representation of the call-site
scope recorded for every traced operation, and of the operation address built
on top of it.

A scope is a slash-separated sequence of elements, each naming the class of a
stateful unit and, optionally, the field it is held under in its parent,
e.g. `ResNet/Sequential[layer1]/Conv2d[conv1]`.

An operation address appends the operator name and its call order inside that
scope, e.g. `ResNet/Sequential[layer1]/Conv2d[conv1]/conv2d_0`. Its string form
is the human-readable name of a graph node.

This package centralizes all formatting and parsing logic so that the string
forms used for canonical-scope ordering are produced in exactly one place.
*/
package scope
