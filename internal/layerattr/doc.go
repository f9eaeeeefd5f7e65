// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package layerattr defines the structured per-operation attributes a tracer may
// attach to a node (convolution geometry, linear feature counts, reshape shapes and
// so on).
//
// Attributes are carried through conversion untouched, read by metatype match
// predicates, and filled in for some operations by the attribute-derivation pass.
//
// Three representations exist for every attribute kind:
//
//   - The Go struct (Convolution, Linear, ...), used by native predicates.
//
//   - A kind-tagged JSON object, used in trace documents and graph exports:
//     {"kind": "convolution", "groups": 32, "in_channels": 32, ...}
//
//   - A cty object, used as the `attrs` variable when evaluating HCL match
//     expressions from custom metatype catalogs.
package layerattr
