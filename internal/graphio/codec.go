package graphio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/tracegraph/internal/graph"
	"github.com/specialistvlad/tracegraph/internal/metatype"
	"gopkg.in/yaml.v3"
)

// Format names an output serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDOT  Format = "dot"
)

// ErrUnknownFormat is returned for format names Encode does not support.
var ErrUnknownFormat = errors.New("unknown graph format")

// ParseFormat validates a format name. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatDOT:
		return FormatDOT, nil
	default:
		return "", fmt.Errorf("%w: '%s'", ErrUnknownFormat, s)
	}
}

// ContentType returns the media type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/json"
	}
}

// Extension returns the file extension of the format, with the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Encode writes the graph in the given format.
func Encode(w io.Writer, g *graph.Graph, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(g))
	case FormatYAML:
		return encodeYAML(w, g)
	case FormatDOT:
		return EncodeDOT(w, g)
	default:
		return fmt.Errorf("%w: '%s'", ErrUnknownFormat, format)
	}
}

// Marshal is Encode into a byte slice.
func Marshal(g *graph.Graph, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, g, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeYAML routes the document through JSON so both formats share one schema.
func encodeYAML(w io.Writer, g *graph.Graph) error {
	data, err := json.Marshal(NewDocument(g))
	if err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to re-read graph: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return enc.Close()
}

// Decode reads a JSON graph document, binding metatypes through r. The
// decoded graph must be acyclic.
func Decode(data []byte, r *metatype.Registry) (*graph.Graph, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %w", err)
	}
	g, err := doc.bind(r)
	if err != nil {
		return nil, fmt.Errorf("invalid graph document: %w", err)
	}
	if _, err := g.TopologicalOrder(); err != nil {
		return nil, fmt.Errorf("invalid graph document: %w", err)
	}
	return g, nil
}
