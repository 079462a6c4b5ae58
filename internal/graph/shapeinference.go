package graph

import (
	"github.com/pkg/errors"

	"github.com/born-ml/rollkit/internal/tensor"
)

// checkShape accepts non-negative dimensions and DynamicDim.
func checkShape(shape tensor.Shape) error {
	for i, d := range shape {
		if d < 0 && d != DynamicDim {
			return errors.Errorf("dimension %d has invalid size %d (use DynamicDim for unknown sizes)", i, d)
		}
	}
	return nil
}

// isStatic reports whether every dimension is known.
func isStatic(shape tensor.Shape) bool {
	for _, d := range shape {
		if d == DynamicDim {
			return false
		}
	}
	return true
}

// rollShape is the output shape of a roll with numShifts literal shifts.
// Only the rank of x matters, so dynamic dimensions pass through.
func rollShape(x tensor.Shape, numShifts int, axes []int) (tensor.Shape, error) {
	return tensor.InferRollShape(x, numShifts, axes)
}

// rollDynamicShape validates a roll whose shifts come from a node. The number
// of shifts is checked now when the shifts shape is static, at run time otherwise.
func rollDynamicShape(x, shifts *Node, axes []int) (tensor.Shape, error) {
	if !shifts.dtype.IsInteger() {
		return nil, errors.Wrapf(tensor.ErrUnsupportedDType, "shifts must be an integer node, got %s", shifts.dtype)
	}
	if shifts.Rank() > 1 {
		return nil, errors.Wrapf(tensor.ErrIncompatibleShape, "shifts must have rank 0 or 1, got shape %v", shifts.shape)
	}
	if !isStatic(shifts.shape) {
		if len(axes) == 0 {
			// Flattened rolls take exactly one shift: only the axes can be checked.
			return x.shape.Clone(), nil
		}
		if _, err := rollShape(x.shape, 1, axes); err != nil {
			return nil, err
		}
		return x.shape.Clone(), nil
	}
	return rollShape(x.shape, shifts.shape.NumElements(), axes)
}

// floorDivShape is the output shape of an integer division by a scalar.
func floorDivShape(x *Node, divisor int64) (tensor.Shape, error) {
	if x.dtype != tensor.Int32 && x.dtype != tensor.Int64 {
		return nil, errors.Wrapf(tensor.ErrUnsupportedDType, "floordiv: integer node required, got %s", x.dtype)
	}
	if divisor == 0 {
		return nil, errors.New("floordiv: division by zero")
	}
	return x.shape.Clone(), nil
}
