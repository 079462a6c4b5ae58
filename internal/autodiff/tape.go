package autodiff

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/born-ml/rollkit/internal/autodiff/ops"
	"github.com/born-ml/rollkit/internal/tensor"
)

// GradientTape is the list of operations recorded by an AutodiffBackend.
//
// Only the ops in this package are ever recorded: rolls, the reshapes and
// casts around them, and additions. All of them map every input element to
// an output element of the same shape family, so a gradient is always a
// tensor shaped like the value it belongs to.
//
//	tape := backend.Tape()
//	tape.StartRecording()
//	y, _ := backend.Roll(x, []int{1}, []int{0})
//	grads := tape.Backward(seed, backend.Inner()) // grads[x] == roll(seed, -1, axis 0)
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape creates an empty tape that is not recording.
func NewGradientTape() *GradientTape {
	return &GradientTape{operations: make([]ops.Operation, 0, 16)}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording reports whether new operations are appended to the tape.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record appends op while recording; otherwise it is dropped.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear drops every recorded operation. The recording state is kept.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward propagates seed from the output of the last recorded operation
// back to every tensor that contributed to it, and returns the gradients
// keyed by tensor.
//
// seed must have the shape of that last output: a roll gradient is itself a
// roll, so a mismatched seed cannot be moved back and Backward panics.
// Tensors reached through several operations get the sum of their gradients.
// Nothing is recorded while Backward runs and seed is never modified.
func (t *GradientTape) Backward(seed *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	last := t.operations[len(t.operations)-1].Output()
	if !seed.Shape().Equal(last.Shape()) {
		panic(fmt.Sprintf("backward: output gradient shape %v, want %v", seed.Shape(), last.Shape()))
	}
	grads[last] = seed
	klog.V(1).Infof("backward: %d recorded ops, seed %s%v", len(t.operations), seed.DType(), seed.Shape())

	defer func(recording bool) { t.recording = recording }(t.recording)
	t.recording = false

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			// Not on a path to the seeded output.
			continue
		}
		inputGrads := op.Backward(outGrad, backend)
		for j, input := range op.Inputs() {
			if j < len(inputGrads) && inputGrads[j] != nil {
				accumulate(grads, input, inputGrads[j], seed, backend)
			}
		}
	}
	return grads
}

// accumulate adds g to the gradient stored for input.
func accumulate(grads map[*tensor.RawTensor]*tensor.RawTensor, input, g, seed *tensor.RawTensor, backend tensor.Backend) {
	existing, ok := grads[input]
	if !ok {
		grads[input] = g
		return
	}
	if existing == seed {
		// Add writes into a unique left operand.
		defer existing.ForceNonUnique()()
	}
	grads[input] = backend.Add(existing, g)
}
