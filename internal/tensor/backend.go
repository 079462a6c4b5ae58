package tensor

import "maps"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations; device
// placement is expressed by picking a backend, never inside a kernel.
//
// Implementations:
//   - cpu: pure Go, parallel over independent blocks
//   - webgpu: WGSL compute shaders (Windows builds)
//   - MockBackend: naive reference implementation for tests
//
// Decorators:
//   - autodiff: records operations on a gradient tape (wraps any backend)
type Backend interface {
	// Roll circularly shifts x along axes by shifts.
	// With no axes the tensor is rolled as a flat sequence.
	// Errors wrap ErrInvalidAxis or ErrShapeMismatch.
	Roll(x *RawTensor, shifts []int, axes []int) (*RawTensor, error)

	// Add performs element-wise addition of same-shaped tensors.
	// Used for gradient accumulation.
	Add(a, b *RawTensor) *RawTensor

	// Reshape returns the same data under a new shape with equal element count.
	Reshape(x *RawTensor, newShape Shape) *RawTensor

	// Cast converts x to dtype.
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata
	Name() string
	Device() Device
	Capabilities() Capabilities
}

// Capabilities holds what a backend supports.
// If a DataType is not listed it is assumed unsupported.
type Capabilities struct {
	DTypes map[DataType]bool
}

// AllDTypes returns Capabilities supporting every DataType.
func AllDTypes() Capabilities {
	c := Capabilities{DTypes: make(map[DataType]bool, len(AllDataTypes))}
	for _, dt := range AllDataTypes {
		c.DTypes[dt] = true
	}
	return c
}

// Supports reports whether dtype is supported.
func (c Capabilities) Supports(dtype DataType) bool {
	return c.DTypes[dtype]
}

// Clone makes a deep copy of the Capabilities.
func (c Capabilities) Clone() Capabilities {
	var c2 Capabilities
	c2.DTypes = make(map[DataType]bool, len(c.DTypes))
	maps.Copy(c2.DTypes, c.DTypes)
	return c2
}
