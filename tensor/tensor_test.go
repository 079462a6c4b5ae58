// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/rollkit/backend/cpu"
	"github.com/born-ml/rollkit/tensor"
)

// TestBackendInterface verifies that the CPU backend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend = (*cpu.Backend)(nil)
}

func TestRawTensorAPI(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, raw.Shape())
	assert.Equal(t, tensor.Float32, raw.DType())
	assert.Equal(t, tensor.CPU, raw.Device())
	assert.Equal(t, 6, raw.NumElements())
	assert.Equal(t, 24, raw.ByteSize())
}

func TestRoll_PublicAPI(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{3, 3}, backend)
	require.NoError(t, err)

	flat, err := x.Roll([]int{1})
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 1, 2, 3, 4, 5, 6, 7, 8}, flat.Data())

	rows, err := x.Roll([]int{1}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8, 9, 1, 2, 3, 4, 5, 6}, rows.Data())

	both, err := x.Roll([]int{1, -1}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 9, 7, 2, 3, 1, 5, 6, 4}, both.Data())

	_, err = x.Roll([]int{1}, 10)
	require.ErrorIs(t, err, tensor.ErrInvalidAxis)
}

func TestRollBy_HalfShape(t *testing.T) {
	backend := cpu.New()
	raw, err := tensor.Arange(0, 9, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	x := tensor.New[int64](backend.Reshape(raw, tensor.Shape{3, 3}), backend)

	half, err := tensor.FloorDiv(tensor.ShapeTensor(x.Shape(), tensor.CPU), 2)
	require.NoError(t, err)
	y, err := x.RollBy(half, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 6, 7, 2, 0, 1, 5, 3, 4}, y.Data())
}

func TestInferRollShape(t *testing.T) {
	shape, err := tensor.InferRollShape(tensor.Shape{-1, 3}, 2, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{-1, 3}, shape)

	_, err = tensor.InferRollShape(tensor.Shape{3, 3}, 3, []int{0, 1})
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)

	plan, err := tensor.PlanRoll(tensor.Shape{4}, []int{-1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.FlatShift)
	assert.Equal(t, []int{1}, tensor.NegateShifts([]int{-1}))
}

func TestParseDataType(t *testing.T) {
	dt, ok := tensor.ParseDataType("bfloat16")
	require.True(t, ok)
	assert.Equal(t, tensor.BFloat16, dt)
	_, ok = tensor.ParseDataType("complex128")
	assert.False(t, ok)
}
