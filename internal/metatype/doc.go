// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package metatype classifies traced operators into semantic operator types
// ("metatypes") such as convolution, linear or dropout.
//
// # Core Concepts
//
//   - Metatype: a descriptor registered under one or more operator-name aliases.
//     A root metatype may carry an ordered list of subtypes, each with a match
//     Predicate. Subtypes may nest, e.g. conv2d -> module_conv2d -> depthwise_conv2d.
//
//   - Registry: the alias -> root catalog. Lookup never fails: names nobody
//     registered resolve to the Unknown metatype, because operator names come
//     from uncontrolled model code.
//
//   - DetermineSubtype: walks the subtype tree, returning the deepest match.
//     At most one sibling may match at each level; two or more matches is a
//     catalog defect and is reported as ErrAmbiguousSubtype rather than being
//     resolved silently.
//
// The built-in catalog covers the operators of common PyTorch models. Custom
// catalogs can be declared in HCL, with `match` expressions evaluated against the
// node's layer attributes and call context.
package metatype
