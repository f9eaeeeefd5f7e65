// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a trace document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported trace file extension '%s'", ErrInvalidTrace, filepath.Ext(path))
	}
}

// Load reads, decodes and validates the trace file at path.
func Load(ctx context.Context, path string) (*Trace, error) {
	logger := ctxlog.FromContext(ctx).With("path", path)
	logger.Debug("Load: Reading trace file.")

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	t, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load trace from %s: %w", path, err)
	}
	logger.Debug("Load: Trace loaded.", "nodes", len(t.Nodes), "edges", len(t.Edges), "inputs", len(t.Inputs))
	return t, nil
}

// Decode parses and validates a trace document. Unknown fields are rejected.
func Decode(data []byte, format Format) (*Trace, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	t := &Trace{}
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrace, err)
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Encode writes the trace document in the given format.
func Encode(t *Trace, format Format) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trace: %w", err)
	}
	if format != FormatYAML {
		return data, nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to re-read trace: %w", err)
	}
	return yaml.Marshal(doc)
}

// yamlToJSON decodes YAML into generic values and re-encodes them as JSON, so
// that both formats share one set of struct tags and codecs.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrace, err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: YAML document cannot be represented as JSON: %v", ErrInvalidTrace, err)
	}
	return out, nil
}
