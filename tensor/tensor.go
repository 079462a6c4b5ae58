// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/rollkit/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float32, float64, int32, int64, uint8, bool, float16.Float16, bfloat16.BF16.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32  DataType = tensor.Float32
	Float64  DataType = tensor.Float64
	Int32    DataType = tensor.Int32
	Int64    DataType = tensor.Int64
	Uint8    DataType = tensor.Uint8
	Bool     DataType = tensor.Bool
	Float16  DataType = tensor.Float16
	BFloat16 DataType = tensor.BFloat16
)

// ParseDataType maps a name such as "float32" or "bfloat16" to a DataType.
func ParseDataType(s string) (DataType, bool) {
	return tensor.ParseDataType(s)
}

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a generic type-safe tensor.
//
// T is the data type, B the backend implementation (CPU, WebGPU, autodiff, ...).
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{3, 3}, backend)
//	y, err := x.Roll([]int{1}, 0) // [[7 8 9] [1 2 3] [4 5 6]]
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// Creation functions

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// FromSlice creates a tensor from a Go slice.
//
// Example:
//
//	backend := cpu.New()
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T, B](data, shape, b)
}

// New creates a tensor from a raw tensor.
//
// This is a low-level function. Most users should use Zeros, Full or FromSlice instead.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw creates a new zero-filled raw tensor with the given shape, dtype, and device.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Arange creates a 1-D raw tensor holding start, ..., end-1 converted to dtype.
func Arange(start, end int, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.Arange(start, end, dtype, device)
}

// FromFloat64s creates a raw tensor of dtype from float64 values, rounding as needed.
func FromFloat64s(values []float64, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.FromFloat64s(values, shape, dtype, device)
}

// ToFloat64s returns the values of r widened to float64.
func ToFloat64s(r *RawTensor) []float64 {
	return tensor.ToFloat64s(r)
}

// ShapeTensor returns shape as a 1-D Int64 tensor.
func ShapeTensor(shape Shape, device Device) *RawTensor {
	return tensor.ShapeTensor(shape, device)
}

// FloorDiv divides an Int32/Int64 tensor by divisor, rounding toward negative infinity.
//
// Example:
//
//	half, _ := tensor.FloorDiv(tensor.ShapeTensor(x.Shape(), tensor.CPU), 2)
//	y, _ := x.RollBy(half, 0, 1)
func FloorDiv(x *RawTensor, divisor int64) (*RawTensor, error) {
	return tensor.FloorDiv(x, divisor)
}
