package trace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/tracegraph/internal/ctxlog"
	"github.com/specialistvlad/tracegraph/internal/layerattr"
	"github.com/specialistvlad/tracegraph/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const convTraceJSON = `{
  "nodes": [
    {"id": 0, "operator_name": "nncf_model_input", "scope": "Net", "call_order": 0},
    {"id": 1, "operator_name": "conv2d", "module_id": 3, "scope": "Net/Conv2d[conv1]", "call_order": 0,
     "layer_attributes": {"kind": "convolution", "in_channels": 3, "out_channels": 8, "kernel_size": [3, 3],
                          "stride": [1, 1], "groups": 1, "weight_requires_grad": true}},
    {"id": 2, "operator_name": "nncf_model_output", "scope": "Net", "call_order": 0, "ignored_algorithms": ["quantization"]}
  ],
  "edges": [
    {"from": 0, "to": 1, "shape": [1, 3, 32, 32], "dtype": "float", "input_port": 0, "output_port": 0},
    {"from": 1, "to": 2, "shape": [1, 8, 30, 30], "dtype": "float", "input_port": 0, "output_port": 0}
  ],
  "inputs": [{"dtype": "float", "shape": [1, 3, 32, 32]}]
}`

const convTraceYAML = `
nodes:
  - id: 0
    operator_name: nncf_model_input
    scope: Net
    call_order: 0
  - id: 1
    operator_name: conv2d
    module_id: 3
    scope: Net/Conv2d[conv1]
    call_order: 0
    layer_attributes:
      kind: convolution
      in_channels: 3
      out_channels: 8
      kernel_size: [3, 3]
      stride: [1, 1]
      groups: 1
      weight_requires_grad: true
  - id: 2
    operator_name: nncf_model_output
    scope: Net
    call_order: 0
    ignored_algorithms: [quantization]
edges:
  - {from: 0, to: 1, shape: [1, 3, 32, 32], dtype: float, input_port: 0, output_port: 0}
  - {from: 1, to: 2, shape: [1, 8, 30, 30], dtype: float, input_port: 0, output_port: 0}
inputs:
  - {dtype: float, shape: [1, 3, 32, 32]}
`

func TestDecode_JSON(t *testing.T) {
	tr, err := Decode([]byte(convTraceJSON), FormatJSON)
	require.NoError(t, err)

	require.Len(t, tr.Nodes, 3)
	require.Len(t, tr.Edges, 2)
	require.Len(t, tr.Inputs, 1)

	conv := tr.Nodes[1]
	assert.Equal(t, "conv2d", conv.OperatorName)
	require.NotNil(t, conv.ModuleID)
	assert.Equal(t, 3, *conv.ModuleID)
	assert.Equal(t, "Net/Conv2d[conv1]/conv2d_0", conv.Address().String())

	attrs, ok := conv.LayerAttributes.(*layerattr.Convolution)
	require.True(t, ok, "expected convolution attributes, got %T", conv.LayerAttributes)
	assert.Equal(t, 3, attrs.InChannels)
	assert.Equal(t, []int{3, 3}, attrs.KernelSize)

	assert.Nil(t, tr.Nodes[0].ModuleID)
	assert.Nil(t, tr.Nodes[0].LayerAttributes)
	assert.Equal(t, []string{"quantization"}, tr.Nodes[2].IgnoredAlgorithms)
	assert.Equal(t, DTypeFloat, tr.Edges[0].DType)
	assert.False(t, tr.Inputs[0].IsInteger())
}

func TestDecode_YAMLMatchesJSON(t *testing.T) {
	fromJSON, err := Decode([]byte(convTraceJSON), FormatJSON)
	require.NoError(t, err)
	fromYAML, err := Decode([]byte(convTraceYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)

	d1, err := Digest(fromJSON)
	require.NoError(t, err)
	d2, err := Digest(fromYAML)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
}

func TestEncode_RoundTrip(t *testing.T) {
	original, err := Decode([]byte(convTraceJSON), FormatJSON)
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(original, format)
			require.NoError(t, err)
			decoded, err := Decode(data, format)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "malformed json",
			doc:     `{"nodes": [`,
			wantErr: "invalid trace",
		},
		{
			name:    "unknown field",
			doc:     `{"nodes": [{"id": 0, "operator_name": "relu", "colour": "red"}], "edges": []}`,
			wantErr: "unknown field",
		},
		{
			name:    "duplicate ids",
			doc:     `{"nodes": [{"id": 0, "operator_name": "relu"}, {"id": 0, "operator_name": "relu"}], "edges": []}`,
			wantErr: "id 0 is not unique",
		},
		{
			name:    "missing operator name",
			doc:     `{"nodes": [{"id": 0}], "edges": []}`,
			wantErr: "OperatorName",
		},
		{
			name:    "dangling edge",
			doc:     `{"nodes": [{"id": 0, "operator_name": "relu"}], "edges": [{"from": 0, "to": 7, "dtype": "float"}]}`,
			wantErr: "destination node 7 does not exist",
		},
		{
			name:    "bad dtype",
			doc:     `{"nodes": [{"id": 0, "operator_name": "relu"}, {"id": 1, "operator_name": "relu"}], "edges": [{"from": 0, "to": 1, "dtype": "complex"}]}`,
			wantErr: "oneof",
		},
		{
			name:    "bad scope",
			doc:     `{"nodes": [{"id": 0, "operator_name": "relu", "scope": "Net/Conv2d[conv1"}], "edges": []}`,
			wantErr: "invalid trace",
		},
		{
			name:    "invalid layer attributes",
			doc:     `{"nodes": [{"id": 0, "operator_name": "conv2d", "layer_attributes": {"kind": "convolution", "groups": 0}}], "edges": []}`,
			wantErr: "Groups",
		},
		{
			name:    "unknown attribute kind",
			doc:     `{"nodes": [{"id": 0, "operator_name": "conv2d", "layer_attributes": {"kind": "lstm"}}], "edges": []}`,
			wantErr: "unknown layer attribute kind",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.doc), FormatJSON)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTrace)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	tr := &Trace{
		Nodes: []*Node{
			{ID: 0, OperatorName: "relu"},
			{ID: 0, OperatorName: ""},
		},
		Edges: []*Edge{
			{From: 5, To: 6, DType: DTypeFloat},
		},
	}

	err := Validate(tr)
	require.Error(t, err)
	assert.ErrorContains(t, err, "trace validation failed")
	assert.ErrorContains(t, err, "id 0 is not unique")
	assert.ErrorContains(t, err, "source node 5 does not exist")
	assert.ErrorContains(t, err, "destination node 6 does not exist")
	assert.ErrorContains(t, err, "OperatorName")
}

func TestLoad(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "trace.json")
	yamlPath := filepath.Join(dir, "trace.yml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(convTraceJSON), 0o600))
	require.NoError(t, os.WriteFile(yamlPath, []byte(convTraceYAML), 0o600))

	t.Run("json", func(t *testing.T) {
		tr, err := Load(ctx, jsonPath)
		require.NoError(t, err)
		assert.Len(t, tr.Nodes, 3)
	})

	t.Run("yaml", func(t *testing.T) {
		tr, err := Load(ctx, yamlPath)
		require.NoError(t, err)
		assert.True(t, tr.Nodes[1].Scope.Equal(scope.New(
			scope.NewElement("Net"),
			scope.NewElementWithField("Conv2d", "conv1"),
		)))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(dir, "trace.txt"))
		assert.ErrorIs(t, err, ErrInvalidTrace)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(dir, "missing.json"))
		assert.ErrorContains(t, err, "failed to read trace file")
	})
}
