package graphio

import (
	"slices"

	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"github.com/specialistvlad/tracegraph/internal/trace"
)

// Document is the serialized form of a graph.
type Document struct {
	Nodes []NodeDoc `json:"nodes"`
	Edges []EdgeDoc `json:"edges"`
}

// NodeDoc is a serialized node. The metatype is referenced by key; the
// remaining metatype fields are informational and ignored by Decode.
type NodeDoc struct {
	ID                int             `json:"id"`
	Key               string          `json:"key"`
	Name              string          `json:"name"`
	OperatorName      string          `json:"operator_name"`
	Metatype          string          `json:"metatype"`
	MetatypeName      string          `json:"metatype_name,omitempty"`
	HWConfigNames     []string        `json:"hw_config_names,omitempty"`
	Traits            []string        `json:"traits,omitempty"`
	OutputChannelAxis *int            `json:"output_channel_axis,omitempty"`
	IgnoredInputPorts []int           `json:"ignored_input_ports,omitempty"`
	LayerAttributes   layerattr.Value `json:"layer_attributes"`
	LayerName         string          `json:"layer_name"`
	IsShared          bool            `json:"is_shared,omitempty"`
	IsIntegerInput    bool            `json:"is_integer_input,omitempty"`
	InIterationScope  bool            `json:"in_iteration_scope,omitempty"`
	IgnoredAlgorithms []string        `json:"ignored_algorithms,omitempty"`
}

// EdgeDoc is a serialized edge.
type EdgeDoc struct {
	From               int         `json:"from"`
	To                 int         `json:"to"`
	Shape              []int       `json:"shape"`
	DType              trace.DType `json:"dtype"`
	InputPort          int         `json:"input_port"`
	OutputPort         int         `json:"output_port"`
	ParallelInputPorts []int       `json:"parallel_input_ports,omitempty"`
}

// NewDocument captures the graph's live nodes (by id) and edges (by insertion order).
func NewDocument(g *graph.Graph) *Document {
	doc := &Document{
		Nodes: make([]NodeDoc, 0, g.NodeCount()),
		Edges: make([]EdgeDoc, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		nd := NodeDoc{
			ID:                n.ID,
			Key:               n.Key(),
			Name:              n.Name,
			OperatorName:      n.OperatorName,
			Metatype:          n.MetatypeKey(),
			LayerAttributes:   layerattr.Value{Attributes: n.LayerAttributes},
			LayerName:         n.LayerName,
			IsShared:          n.IsShared,
			IsIntegerInput:    n.IsIntegerInput,
			InIterationScope:  n.InIterationScope,
			IgnoredAlgorithms: n.IgnoredAlgorithms,
		}
		if mt := n.Metatype; mt != nil {
			nd.MetatypeName = mt.Name
			nd.HWConfigNames = mt.HWConfigNames
			nd.Traits = mt.Traits.Names()
			nd.OutputChannelAxis = mt.OutputChannelAxis
			nd.IgnoredInputPorts = mt.IgnoredInputPorts
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeDoc{
			From:               e.From,
			To:                 e.To,
			Shape:              e.Shape,
			DType:              e.DType,
			InputPort:          e.InputPort,
			OutputPort:         e.OutputPort,
			ParallelInputPorts: e.ParallelInputPorts,
		})
	}
	return doc
}

// bind rebuilds a graph from a document. Keys the registry does not know
// resolve to metatype.Unknown.
func (d *Document) bind(r *metatype.Registry) (*graph.Graph, error) {
	resolve := func(key string) *metatype.Metatype {
		if mt, ok := r.Get(key); ok {
			return mt
		}
		return metatype.Unknown
	}

	g := graph.New()
	for _, nd := range d.Nodes {
		n := &graph.Node{
			ID:                nd.ID,
			Name:              nd.Name,
			OperatorName:      nd.OperatorName,
			Metatype:          resolve(nd.Metatype),
			LayerAttributes:   nd.LayerAttributes.Attributes,
			LayerName:         nd.LayerName,
			IsShared:          nd.IsShared,
			IsIntegerInput:    nd.IsIntegerInput,
			InIterationScope:  nd.InIterationScope,
			IgnoredAlgorithms: slices.Clone(nd.IgnoredAlgorithms),
		}
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, ed := range d.Edges {
		_, err := g.AddEdge(&graph.Edge{
			From:               ed.From,
			To:                 ed.To,
			Shape:              slices.Clone(ed.Shape),
			DType:              ed.DType,
			InputPort:          ed.InputPort,
			OutputPort:         ed.OutputPort,
			ParallelInputPorts: slices.Clone(ed.ParallelInputPorts),
		})
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}
