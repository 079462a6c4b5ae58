// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/rollkit/internal/tensor"

// Backend defines the interface that all compute backends must implement.
//
// Implementations:
//   - backend/cpu: Pure Go, parallel over independent blocks
//   - backend/webgpu: WGSL compute shaders (Windows builds)
//
// Decorator backends for additional functionality:
//   - autodiff: Automatic differentiation (wraps any backend)
//
// Example:
//
//	import (
//	    "github.com/born-ml/rollkit/tensor"
//	    "github.com/born-ml/rollkit/backend/cpu"
//	)
//
//	backend := cpu.New()
//	out, err := backend.Roll(x.Raw(), []int{1, -1}, []int{0, 1})
type Backend interface {
	// Roll circularly shifts x along axes. With no axes x is rolled as one
	// flattened sequence and shifts must hold a single value.
	Roll(x *RawTensor, shifts, axes []int) (*RawTensor, error)

	Add(a, b *RawTensor) *RawTensor                  // Element-wise addition.
	Reshape(t *RawTensor, newShape Shape) *RawTensor // Reshape tensor.
	Cast(x *RawTensor, dtype DataType) *RawTensor    // Cast to different data type.

	// Metadata.
	Name() string               // Backend name (e.g., "CPU", "WebGPU").
	Device() Device             // Device type.
	Capabilities() Capabilities // Supported dtypes.
}

// Compile-time check that internal Backend implements public Backend.
var _ Backend = tensor.Backend(nil)

// Capabilities lists the dtypes a backend can execute.
type Capabilities = tensor.Capabilities

// AllDTypes returns Capabilities supporting every DataType.
func AllDTypes() Capabilities {
	return tensor.AllDTypes()
}
