package layerattr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal(t *testing.T) {
	t.Run("convolution", func(t *testing.T) {
		a, err := Unmarshal([]byte(`{"kind":"convolution","in_channels":32,"out_channels":32,"groups":32,"kernel_size":[3,3],"stride":[1,1]}`))
		require.NoError(t, err)

		conv, ok := a.(*Convolution)
		require.True(t, ok)
		assert.Equal(t, 32, conv.InChannels)
		assert.Equal(t, []int{3, 3}, conv.KernelSize)
		assert.True(t, conv.IsDepthwise())
	})

	t.Run("null decodes to nil", func(t *testing.T) {
		a, err := Unmarshal([]byte(`null`))
		require.NoError(t, err)
		assert.Nil(t, a)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"kind":"lstm"}`))
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"kind":`))
		assert.Error(t, err)
	})
}

func TestMarshal_AddsKind(t *testing.T) {
	out, err := Marshal(&Linear{InFeatures: 10, OutFeatures: 5, WithBias: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"linear","weight_requires_grad":false,"in_features":10,"out_features":5,"with_bias":true}`, string(out))

	back, err := Unmarshal(out)
	require.NoError(t, err)
	assert.Equal(t, &Linear{InFeatures: 10, OutFeatures: 5, WithBias: true}, back)
}

func TestValue_EmbeddedInDocument(t *testing.T) {
	type doc struct {
		Attrs Value `json:"layer_attributes"`
	}

	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"layer_attributes":{"kind":"reshape","input_shape":[1,4],"output_shape":[4]}}`), &d))
	require.IsType(t, &Reshape{}, d.Attrs.Attributes)

	var empty doc
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.Nil(t, empty.Attrs.Attributes)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(nil))
	assert.NoError(t, Validate(&Convolution{InChannels: 3, OutChannels: 8, Groups: 1, KernelSize: []int{3}}))
	assert.Error(t, Validate(&Convolution{InChannels: 3, OutChannels: 8, Groups: 0}))
	assert.Error(t, Validate(&Linear{InFeatures: -1}))
}

func TestClone(t *testing.T) {
	orig := &Convolution{InChannels: 3, Groups: 1, KernelSize: []int{3, 3}}
	c := Clone(orig).(*Convolution)
	c.KernelSize[0] = 5
	c.Groups = 3

	assert.Equal(t, []int{3, 3}, orig.KernelSize)
	assert.Equal(t, 1, orig.Groups)
	assert.Nil(t, Clone(nil))
}
