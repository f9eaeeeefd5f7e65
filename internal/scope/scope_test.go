// internal/scope/scope_test.go
package scope

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_String(t *testing.T) {
	testCases := []struct {
		name        string
		scope       Scope
		expectedStr string
	}{
		{
			name:        "empty",
			scope:       Scope{},
			expectedStr: "",
		},
		{
			name:        "class only",
			scope:       New(NewElement("Model")),
			expectedStr: "Model",
		},
		{
			name:        "with fields",
			scope:       New(NewElement("Model"), NewElementWithField("Linear", "fc")),
			expectedStr: "Model/Linear[fc]",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.scope.String())
		})
	}
}

func TestScope_RoundTrip(t *testing.T) {
	testScopes := []string{
		"Model",
		"ResNet/Sequential[layer1]/BasicBlock[0]/Conv2d[conv1]",
		"Net/ModuleDict[heads]/Linear[cls.out]",
	}

	for _, raw := range testScopes {
		t.Run(raw, func(t *testing.T) {
			s, err := Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, s.String())

			again, err := Parse(s.String())
			require.NoError(t, err)
			assert.True(t, s.Equal(again))
		})
	}
}

func TestScope_Child(t *testing.T) {
	parent := New(NewElement("Model"))
	child := parent.Child(NewElementWithField("Conv2d", "conv1"))

	assert.Equal(t, "Model", parent.String(), "parent must not be mutated")
	assert.Equal(t, "Model/Conv2d[conv1]", child.String())
}

func TestScope_JSON(t *testing.T) {
	type holder struct {
		Scope Scope `json:"scope"`
	}

	var h holder
	require.NoError(t, json.Unmarshal([]byte(`{"scope":"Model/Conv2d[conv1]"}`), &h))
	assert.Equal(t, "Model/Conv2d[conv1]", h.Scope.String())

	out, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"scope":"Model/Conv2d[conv1]"}`, string(out))

	err = json.Unmarshal([]byte(`{"scope":"Model//x"}`), &h)
	assert.Error(t, err)
}

func TestOperationAddress_String(t *testing.T) {
	addr := OperationAddress{
		OperatorName: "linear",
		Scope:        New(NewElement("Model"), NewElementWithField("Linear", "fc")),
		CallOrder:    2,
	}
	assert.Equal(t, "Model/Linear[fc]/linear_2", addr.String())

	parsed, err := ParseOperationAddress(addr.String())
	require.NoError(t, err)
	assert.True(t, addr.Equal(parsed))
}
