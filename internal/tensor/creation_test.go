package tensor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerosAndFull(t *testing.T) {
	backend := NewMockBackend()

	z := Zeros[int64](Shape{2, 3}, backend)
	assert.Equal(t, Shape{2, 3}, z.Shape())
	assert.Equal(t, []int64{0, 0, 0, 0, 0, 0}, z.Data())

	f := Full[bool](Shape{3}, true, backend)
	assert.Equal(t, []bool{true, true, true}, f.Data())

	empty := Zeros[float32](Shape{0, 4}, backend)
	assert.Empty(t, empty.Data())
}

func TestArange_NegativeStart(t *testing.T) {
	x, err := Arange(-2, 3, Float32, CPU)
	require.NoError(t, err)
	assert.Equal(t, Shape{5}, x.Shape())
	assert.Equal(t, []float32{-2, -1, 0, 1, 2}, x.AsFloat32())

	empty, err := Arange(4, 1, Int64, CPU)
	require.NoError(t, err)
	assert.Equal(t, Shape{0}, empty.Shape())
}

func TestRandRaw(t *testing.T) {
	a, err := RandRaw(Shape{4, 5}, Float64, CPU, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	b, err := RandRaw(Shape{4, 5}, Float64, CPU, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, a.AsFloat64(), b.AsFloat64(), "same seed, same values")
	for _, v := range a.AsFloat64() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}

	ints, err := RandRaw(Shape{50}, Int32, CPU, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	for _, v := range ints.AsInt32() {
		assert.GreaterOrEqual(t, v, int32(0))
		assert.Less(t, v, int32(100))
	}
}

func TestShapeTensor(t *testing.T) {
	s := ShapeTensor(Shape{3, 0, 7}, CPU)
	assert.Equal(t, Int64, s.DType())
	assert.Equal(t, []int64{3, 0, 7}, s.AsInt64())

	scalar := ShapeTensor(Shape{}, CPU)
	assert.Equal(t, Shape{0}, scalar.Shape())
}

func TestFloorDiv(t *testing.T) {
	x, err := FromFloat64s([]float64{7, -7, 6, -1, 0}, Shape{5}, Int64, CPU)
	require.NoError(t, err)
	out, err := FloorDiv(x, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, -4, 3, -1, 0}, out.AsInt64())

	x32, err := FromFloat64s([]float64{5, -5}, Shape{2}, Int32, CPU)
	require.NoError(t, err)
	out, err = FloorDiv(x32, -2)
	require.NoError(t, err)
	assert.Equal(t, []int32{-3, 2}, out.AsInt32())

	_, err = FloorDiv(x, 0)
	assert.Error(t, err)

	f, err := FromFloat64s([]float64{1}, Shape{1}, Float32, CPU)
	require.NoError(t, err)
	_, err = FloorDiv(f, 2)
	assert.ErrorIs(t, err, ErrUnsupportedDType)
}
