package ops

import "github.com/born-ml/rollkit/internal/tensor"

// CastOp records a dtype conversion.
//
// Backward:
//   - d_input: Cast(d_output, input.dtype())
//
// Only floating point inputs take part in differentiation; gradients
// towards integer or bool inputs are dropped.
type CastOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewCastOp creates a new Cast operation.
func NewCastOp(input, output *tensor.RawTensor) *CastOp {
	return &CastOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *CastOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *CastOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward casts the output gradient back to the input dtype.
func (op *CastOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	if !op.input.DType().IsFloat() {
		return []*tensor.RawTensor{nil}
	}
	return []*tensor.RawTensor{backend.Cast(outputGrad, op.input.DType())}
}
