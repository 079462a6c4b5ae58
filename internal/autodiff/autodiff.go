// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation (CPU, mock, etc.) and adds
// gradient tracking capabilities through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: Records operations during forward pass
//   - Operation interface: Each op (Roll, Add, Reshape, Cast) implements backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend)
//	y, _ := x.Roll([]int{1})
//
//	gradients := autodiff.Backward(y, backend)
//	fmt.Println(gradients[x.Raw()]) // ones, rolled back by -1
package autodiff

import (
	"k8s.io/klog/v2"

	"github.com/born-ml/rollkit/internal/autodiff/ops"
	"github.com/born-ml/rollkit/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend (CPU, mock, etc.)
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
// Useful for:
//   - Starting/stopping recording
//   - Clearing tape between iterations
//   - Inspecting recorded operations
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// Capabilities returns the wrapped backend's capabilities.
func (b *AutodiffBackend[B]) Capabilities() tensor.Capabilities {
	return b.inner.Capabilities()
}

// Roll performs a circular shift and records the operation.
// Nothing is recorded when the arguments are rejected.
func (b *AutodiffBackend[B]) Roll(x *tensor.RawTensor, shifts, axes []int) (*tensor.RawTensor, error) {
	result, err := b.inner.Roll(x, shifts, axes)
	if err != nil {
		return nil, err
	}

	if b.tape.IsRecording() {
		klog.V(2).Infof("autodiff: record roll shifts=%v axes=%v", shifts, axes)
		b.tape.Record(ops.NewRollOp(x, result, shifts, axes))
	}

	return result, nil
}

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(a, c *tensor.RawTensor) *tensor.RawTensor {
	// CRITICAL: Prevent inplace modification that would corrupt autodiff graph.
	// Temporarily increase refCount so IsUnique() returns false.
	// This forces CPU backend to allocate new result instead of inplace modification.
	defer a.ForceNonUnique()()
	defer c.ForceNonUnique()()

	result := b.inner.Add(a, c)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(a, c, result))
	}

	return result
}

// Reshape changes tensor shape and records the operation.
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(t, newShape)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(t, result))
	}

	return result
}

// Cast converts dtype and records the operation.
func (b *AutodiffBackend[B]) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	result := b.inner.Cast(x, dtype)

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewCastOp(x, result))
	}

	return result
}
