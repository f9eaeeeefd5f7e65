package converter

import (
	"slices"

	"github.com/specialistvlad/tracegraph/internal/trace"
)

// layer is the canonical naming of one owning module.
type layer struct {
	name   string
	shared bool
}

// canonicalLayers groups nodes by owning module id and picks, for each
// module, the least of its distinct scope strings.
func canonicalLayers(nodes []*trace.Node) map[int]layer {
	scopes := make(map[int]map[string]struct{})
	for _, n := range nodes {
		if n.ModuleID == nil {
			continue
		}
		set, ok := scopes[*n.ModuleID]
		if !ok {
			set = make(map[string]struct{})
			scopes[*n.ModuleID] = set
		}
		set[n.Scope.String()] = struct{}{}
	}

	layers := make(map[int]layer, len(scopes))
	for moduleID, set := range scopes {
		names := make([]string, 0, len(set))
		for s := range set {
			names = append(names, s)
		}
		slices.Sort(names)
		layers[moduleID] = layer{name: names[0], shared: len(names) > 1}
	}
	return layers
}

// layerOf returns the layer naming for a single node.
func layerOf(n *trace.Node, layers map[int]layer) layer {
	if n.ModuleID == nil {
		return layer{name: n.Scope.String()}
	}
	return layers[*n.ModuleID]
}
