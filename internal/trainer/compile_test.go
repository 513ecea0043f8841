package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestScalarValue(t *testing.T) {
	v, err := scalarValue(tensor.New(tensor.FromScalar(4.25)))
	require.NoError(t, err)
	assert.Equal(t, 4.25, v)

	// One-element tensors count as scalars, in both dtypes.
	v, err = scalarValue(vec(1.5))
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = scalarValue(tensor.New(tensor.WithShape(1), tensor.WithBacking([]float32{2})))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = scalarValue(nil)
	assert.Error(t, err)

	_, err = scalarValue(vec(1, 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not scalar")
}

func TestScalarOf(t *testing.T) {
	assert.Equal(t, float32(0.5), scalarOf(tensor.Float32, 0.5))
	assert.Equal(t, 0.5, scalarOf(tensor.Float64, 0.5))
}
