package ops

import (
	"fmt"
	"slices"

	"github.com/born-ml/rollkit/internal/tensor"
)

// RollOp records a circular shift for autodiff.
//
// Forward: output = Roll(input, shifts, axes)
//
// Backward:
//   - d_input: Roll(d_output, -shifts, axes)
//
// Roll only permutes elements, so its adjoint is the inverse permutation.
// The gradient keeps the dtype and shape of the output gradient.
type RollOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	shifts []int
	axes   []int
}

// NewRollOp creates a new Roll operation. shifts and axes are copied.
func NewRollOp(input, output *tensor.RawTensor, shifts, axes []int) *RollOp {
	return &RollOp{
		input:  input,
		output: output,
		shifts: slices.Clone(shifts),
		axes:   slices.Clone(axes),
	}
}

// Inputs returns the input tensors.
func (op *RollOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *RollOp) Output() *tensor.RawTensor {
	return op.output
}

// Shifts returns the forward shifts.
func (op *RollOp) Shifts() []int {
	return op.shifts
}

// Axes returns the forward axes (nil for a flattened roll).
func (op *RollOp) Axes() []int {
	return op.axes
}

// Backward rolls the output gradient back by the negated shifts.
func (op *RollOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	grad, err := backend.Roll(outputGrad, tensor.NegateShifts(op.shifts), op.axes)
	if err != nil {
		// Forward already validated the same shifts and axes for this shape.
		panic(fmt.Sprintf("roll backward: %v", err))
	}
	return []*tensor.RawTensor{grad}
}
