// Package converter turns a captured trace into the canonical static graph.
//
// # Why Converter Exists
//
// A trace is a faithful record of one concrete run: the same layer may show
// up under several call-site scopes, operator names are raw strings, and
// nothing is classified. The converter canonicalizes all of that in a single
// deterministic pass over the trace, so downstream passes see one stable graph
// for a given trace and registry.
//
// # How It Works
//
// Convert runs these passes in order:
//  1. **Group:** collect, per owning module id, the distinct scopes it was invoked from.
//  2. **Canonicalize:** the lexicographically least scope string is the module's
//     canonical layer name; a module seen from more than one scope is shared.
//     Free-function calls keep their own scope and are never shared.
//  3. **Resolve:** look up the root metatype by operator name and narrow it to the
//     most specific matching subtype. The call counts as module-bound when the
//     node has an owning module.
//  4. **Tag inputs:** model input nodes index the declared input specs by their
//     call order; integer-valued inputs are flagged.
//  5. **Emit:** one graph node per trace node, with the trace id preserved, then
//     one graph edge per trace edge, copied verbatim.
//  6. **Derive:** run the AttributeDeriver over the finished graph.
//
// Example:
//
//	module 4 invoked from {"Net/Block[b]/Linear[fc]", "Net/Block[a]/Linear[fc]"}
//	  -> LayerName "Net/Block[a]/Linear[fc]", IsShared true
//
// # Failure Modes
//
// An ambiguous subtype match (metatype.ErrAmbiguousSubtype) is the only
// failure over a well-formed trace. A dangling edge endpoint is a tracer
// defect; the graph rejects it and Convert returns that error wrapped.
package converter
