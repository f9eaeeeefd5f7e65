// Package testutil holds trace fixtures and helpers shared by tests across
// packages.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// DropoutTraceJSON is a straight chain input -> relu -> dropout -> output with
// one float input, so removing dropout is always safe.
const DropoutTraceJSON = `{
  "nodes": [
    {"id": 0, "operator_name": "nncf_model_input", "scope": "Net", "call_order": 0},
    {"id": 1, "operator_name": "relu", "scope": "Net", "call_order": 0},
    {"id": 2, "operator_name": "dropout", "scope": "Net", "call_order": 0},
    {"id": 3, "operator_name": "nncf_model_output", "scope": "Net", "call_order": 0}
  ],
  "edges": [
    {"from": 0, "to": 1, "shape": [1, 8], "dtype": "float"},
    {"from": 1, "to": 2, "shape": [1, 8], "dtype": "float"},
    {"from": 2, "to": 3, "shape": [1, 8], "dtype": "float"}
  ],
  "inputs": [{"dtype": "float", "shape": [1, 8]}]
}`

// DropoutTraceYAML is DropoutTraceJSON written as YAML.
const DropoutTraceYAML = `
nodes:
  - {id: 0, operator_name: nncf_model_input, scope: Net, call_order: 0}
  - {id: 1, operator_name: relu, scope: Net, call_order: 0}
  - {id: 2, operator_name: dropout, scope: Net, call_order: 0}
  - {id: 3, operator_name: nncf_model_output, scope: Net, call_order: 0}
edges:
  - {from: 0, to: 1, shape: [1, 8], dtype: float}
  - {from: 1, to: 2, shape: [1, 8], dtype: float}
  - {from: 2, to: 3, shape: [1, 8], dtype: float}
inputs:
  - {dtype: float, shape: [1, 8]}
`

// SharedConvTraceJSON calls one Conv2d module from two scopes and feeds it
// an integer input, so conversion exercises canonical layers, shared flags,
// module subtypes and integer-input tagging.
const SharedConvTraceJSON = `{
  "nodes": [
    {"id": 0, "operator_name": "nncf_model_input", "scope": "Net", "call_order": 0},
    {"id": 1, "operator_name": "conv2d", "module_id": 7, "scope": "Net/Conv2d[b]", "call_order": 0,
     "layer_attributes": {"kind": "convolution", "in_channels": 4, "out_channels": 4, "kernel_size": [3, 3], "groups": 4}},
    {"id": 2, "operator_name": "conv2d", "module_id": 7, "scope": "Net/Conv2d[a]", "call_order": 0,
     "layer_attributes": {"kind": "convolution", "in_channels": 4, "out_channels": 4, "kernel_size": [3, 3], "groups": 4}},
    {"id": 3, "operator_name": "nncf_model_output", "scope": "Net", "call_order": 0}
  ],
  "edges": [
    {"from": 0, "to": 1, "shape": [1, 4, 8, 8], "dtype": "int"},
    {"from": 1, "to": 2, "shape": [1, 4, 6, 6], "dtype": "float"},
    {"from": 2, "to": 3, "shape": [1, 4, 4, 4], "dtype": "float"}
  ],
  "inputs": [{"dtype": "int", "shape": [1, 4, 8, 8]}]
}`

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles writes files (relative path -> content) under a fresh temporary
// directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}
