// Package ops defines operation interfaces and implementations for automatic differentiation.
//
// Each operation implements the Operation interface, which provides:
//   - Forward pass: computed by the backend
//   - Backward pass: computes gradients for inputs given output gradient
//
// Supported operations:
//   - RollOp: circular shift (d(roll(x, s))/dx applied to g = roll(g, -s))
//   - AddOp: element-wise addition (d(a+b)/da = 1, d(a+b)/db = 1)
//   - ReshapeOp: reshape (gradient is reshaped back)
//   - CastOp: dtype conversion (gradient is cast back)
package ops

import "github.com/born-ml/rollkit/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor.
	//
	// Example for RollOp with shifts [1] on axis 0:
	//   inputs: [x]
	//   outputGrad: dL/d(roll(x))
	//   returns: [roll(dL/d(roll(x)), [-1], axis 0)]
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
