// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensors and the roll operation.
//
// # Overview
//
// Roll circularly shifts the elements of a tensor along one or more axes:
// elements pushed past the end of an axis re-enter at its start. This package
// provides:
//   - Generic type-safe tensors (Tensor[T, B]) over float32, float64, int32,
//     int64, uint8, bool, float16 and bfloat16
//   - Roll with literal shifts and RollBy with shifts read from a tensor
//   - Shape inference (InferRollShape) that never touches values
//   - Device abstraction (CPU, WebGPU)
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/rollkit/tensor"
//	    "github.com/born-ml/rollkit/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromSlice([]int64{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{3, 3}, backend)
//
//	    flat, _ := x.Roll([]int{1})            // [[9 1 2] [3 4 5] [6 7 8]]
//	    rows, _ := x.Roll([]int{1}, 0)         // [[7 8 9] [1 2 3] [4 5 6]]
//	    both, _ := x.Roll([]int{1, -1}, 0, 1)  // [[8 9 7] [2 3 1] [5 6 4]]
//	}
//
// # Shifts and axes
//
// Shifts may be negative or larger than the axis: only shift mod size
// matters. Negative axes count from the end. A single shift with several axes
// applies to each of them, and repeating an axis adds its shifts. Invalid
// axes fail with ErrInvalidAxis, a wrong number of shifts with
// ErrShapeMismatch.
//
// # Memory Management
//
// RawTensor buffers are reference counted. Roll never modifies its input and
// always returns a freshly allocated tensor.
package tensor
