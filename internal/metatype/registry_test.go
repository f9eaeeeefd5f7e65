package metatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewDefault()

	t.Run("alias resolves to root", func(t *testing.T) {
		mt := r.Lookup("conv2d")
		assert.Equal(t, "conv2d", mt.Key)
		assert.False(t, mt.IsSubtype())
	})

	t.Run("dunder alias", func(t *testing.T) {
		assert.Equal(t, "add", r.Lookup("__iadd__").Key)
	})

	t.Run("unknown operator never fails", func(t *testing.T) {
		assert.Same(t, Unknown, r.Lookup("my_custom_kernel"))
		assert.Same(t, Unknown, r.Lookup(""))
	})

	t.Run("subtypes are not reachable by alias", func(t *testing.T) {
		mt, ok := r.Get("module_conv2d")
		require.True(t, ok)
		assert.Equal(t, "conv2d", mt.Parent().Key)
		assert.Equal(t, "conv2d", r.Lookup("conv2d").Key)
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Run("duplicate key", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(&Metatype{Key: "a", Aliases: []string{"a"}}))

		err := r.Register(&Metatype{Key: "a", Aliases: []string{"other"}})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("duplicate key inside one tree", func(t *testing.T) {
		r := New()
		err := r.Register(&Metatype{Key: "a", Subtypes: []*Metatype{
			{Key: "b", Match: CalledInsideModule},
			{Key: "b", Match: Depthwise},
		}})
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})

	t.Run("reregistering the same descriptor is a no-op", func(t *testing.T) {
		r := New()
		mt := &Metatype{Key: "a", Aliases: []string{"a"}}
		require.NoError(t, r.Register(mt))
		require.NoError(t, r.Register(mt))
		assert.Len(t, r.Roots(), 1)
	})

	t.Run("alias conflict between unrelated roots", func(t *testing.T) {
		r := New()
		require.NoError(t, r.Register(&Metatype{Key: "a", Aliases: []string{"op"}}))

		err := r.Register(&Metatype{Key: "b", Aliases: []string{"op"}})
		assert.ErrorIs(t, err, ErrAliasConflict)
		assert.Equal(t, "a", r.Lookup("op").Key)
	})

	t.Run("parent adopts a previously registered subtype", func(t *testing.T) {
		r := New()
		child := &Metatype{Key: "module_op", Aliases: []string{"op"}, Match: CalledInsideModule}
		require.NoError(t, r.Register(child))
		assert.Equal(t, "module_op", r.Lookup("op").Key)

		parent := &Metatype{Key: "op", Aliases: []string{"op"}, Subtypes: []*Metatype{child}}
		require.NoError(t, r.Register(parent))

		assert.Equal(t, "op", r.Lookup("op").Key)
		assert.Same(t, parent, child.Parent())
		roots := r.Roots()
		require.Len(t, roots, 1)
		assert.Equal(t, "op", roots[0].Key)
	})

	t.Run("subtype without predicate", func(t *testing.T) {
		r := New()
		err := r.Register(&Metatype{Key: "a", Subtypes: []*Metatype{{Key: "b"}}})
		assert.ErrorIs(t, err, ErrMissingPredicate)
	})

	t.Run("empty key", func(t *testing.T) {
		assert.Error(t, New().Register(&Metatype{}))
	})

	t.Run("must register panics", func(t *testing.T) {
		r := New()
		assert.Panics(t, func() { r.MustRegister(&Metatype{Key: Unknown.Key}) })
	})
}

func TestRegistry_Extend(t *testing.T) {
	r := NewDefault()
	pointwise := &Metatype{Key: "pointwise_conv2d", Name: "Conv2DOp", Match: CalledInsideModule}

	require.NoError(t, r.Extend("conv2d", pointwise))
	got, ok := r.Get("pointwise_conv2d")
	require.True(t, ok)
	assert.Equal(t, "conv2d", got.Parent().Key)

	assert.ErrorIs(t, r.Extend("does_not_exist", &Metatype{Key: "x", Match: Depthwise}), ErrNotFound)
	assert.ErrorIs(t, r.Extend("conv2d", &Metatype{Key: "module_conv2d", Match: Depthwise}), ErrDuplicateKey)
}

func TestRegistry_Roles(t *testing.T) {
	r := NewDefault()

	assert.Equal(t, []string{"input_noop"}, r.InputNoops().Keys())
	assert.Equal(t, []string{"output_noop"}, r.OutputNoops().Keys())
	assert.Equal(t, []string{"noop"}, r.Noops().Keys())
	assert.True(t, r.InputNoops().Contains(r.Lookup(ModelInputOperator)))
}

func TestRegistry_SetOf(t *testing.T) {
	r := NewDefault()

	s, err := r.SetOf("dropout", "noop")
	require.NoError(t, err)
	assert.True(t, s.Contains(r.Lookup("dropout")))
	assert.True(t, s.Contains(r.Lookup("clone")))
	assert.False(t, s.Contains(r.Lookup("relu")))
	assert.False(t, s.Contains(nil))

	_, err = r.SetOf("dropout", "nonsense")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.NotSame(t, Default(), NewDefault())
}
