package tensor

import (
	"fmt"
	"testing"

	"github.com/d4l3k/go-bfloat16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestNewRaw_ZeroSized(t *testing.T) {
	for _, shape := range []Shape{{0, 3}, {4, 0, 3}, {0}} {
		raw, err := NewRaw(shape, Float32, CPU)
		require.NoError(t, err)
		assert.Equal(t, 0, raw.NumElements())
		assert.Empty(t, raw.AsFloat32())
		assert.Empty(t, raw.Data())
	}

	_, err := NewRaw(Shape{2, -1}, Float32, CPU)
	require.Error(t, err)
}

func TestRawTensorAsFloat16(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float16, CPU)
	require.NoError(t, err)
	assert.Equal(t, 12, raw.ByteSize())

	data := raw.AsFloat16()
	require.Len(t, data, 6)
	data[0] = float16.Fromfloat32(1.5)
	assert.Equal(t, float32(1.5), raw.AsFloat16()[0].Float32(), "AsFloat16 should return zero-copy slice")
}

func TestRawTensorAsBFloat16(t *testing.T) {
	raw, err := NewRaw(Shape{4}, BFloat16, CPU)
	require.NoError(t, err)

	data := raw.AsBFloat16()
	require.Len(t, data, 4)
	data[3] = bfloat16.FromFloat32(-2)
	assert.Equal(t, float32(-2), bfloat16.ToFloat32(raw.AsBFloat16()[3]))
}

func TestRawTensor_WrongDTypePanics(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Int32, CPU)
	require.NoError(t, err)
	assert.Panics(t, func() { raw.AsFloat32() })
	assert.Panics(t, func() { Words[uint64](raw) })
	assert.Len(t, Words[uint32](raw), 2)
}

func TestRawTensor_CloneSharesCopyDoesNot(t *testing.T) {
	raw, err := FromFloat64s([]float64{1, 2, 3}, Shape{3}, Int64, CPU)
	require.NoError(t, err)

	clone := raw.Clone()
	assert.False(t, raw.IsUnique())
	clone.AsInt64()[0] = 10
	assert.Equal(t, int64(10), raw.AsInt64()[0])

	deep := raw.Copy()
	deep.AsInt64()[1] = 20
	assert.Equal(t, int64(2), raw.AsInt64()[1])
	assert.True(t, deep.IsUnique())
}

func TestRawTensor_ForceNonUnique(t *testing.T) {
	raw, err := NewRaw(Shape{2}, Float32, CPU)
	require.NoError(t, err)
	require.True(t, raw.IsUnique())

	restore := raw.ForceNonUnique()
	assert.False(t, raw.IsUnique())
	restore()
	assert.True(t, raw.IsUnique())
}

func TestDataType(t *testing.T) {
	assert.Equal(t, 2, Float16.Size())
	assert.Equal(t, 2, BFloat16.Size())
	assert.Equal(t, 1, Bool.Size())
	assert.Equal(t, Float16, DataTypeOf[float16.Float16]())
	assert.Equal(t, BFloat16, DataTypeOf[bfloat16.BF16]())

	for _, dt := range AllDataTypes {
		parsed, ok := ParseDataType(dt.String())
		require.True(t, ok, dt.String())
		assert.Equal(t, dt, parsed)
	}
	_, ok := ParseDataType("complex64")
	assert.False(t, ok)
}

func TestShape(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())

	outer, dim, inner := s.Split(1)
	assert.Equal(t, []int{2, 3, 4}, []int{outer, dim, inner})

	axis, err := s.NormalizeAxis(-1)
	require.NoError(t, err)
	assert.Equal(t, 2, axis)
	_, err = s.NormalizeAxis(3)
	require.ErrorIs(t, err, ErrInvalidAxis)
}

func TestNewRaw_InvalidShapeError(t *testing.T) {
	_, err := NewRaw(Shape{2, -1}, Float32, CPU)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid shape: invalid dimension at index 1: -1")
	// Errors carry the stack where they were created.
	assert.Contains(t, fmt.Sprintf("%+v", err), "tensor.NewRaw")

	_, err = FromFloat64s([]float64{1, 2}, Shape{3}, Float64, CPU)
	require.Error(t, err)
	assert.Contains(t, fmt.Sprintf("%+v", err), "tensor.FromFloat64s")
}
