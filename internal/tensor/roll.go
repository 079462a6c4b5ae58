package tensor

import (
	"github.com/pkg/errors"
)

// RollPlan is the normalized form of a roll request for a given shape.
//
// In flattened mode the tensor is treated as one sequence of NumElements
// values and FlatShift applies to it. Otherwise AxisShifts[d] holds the
// effective shift for dimension d, already reduced into [0, shape[d]).
// Zero-sized dimensions always carry a shift of 0.
type RollPlan struct {
	Shape      Shape
	Flattened  bool
	FlatShift  int
	AxisShifts []int
}

// PlanRoll validates (shifts, axes) against shape and normalizes them.
//
// Rules:
//   - axes empty: shifts must hold exactly one value, applied to the flattened tensor
//   - axes non-empty: len(shifts) == len(axes), or a single shift broadcast to every axis
//   - negative axes count from the end, -1 is the last dimension
//   - repeated axes accumulate their shifts
//
// Errors wrap ErrShapeMismatch or ErrInvalidAxis and are reported before any
// allocation happens.
func PlanRoll(shape Shape, shifts, axes []int) (RollPlan, error) {
	normAxes, err := checkRollArgs(shape, len(shifts), axes)
	if err != nil {
		return RollPlan{}, err
	}

	plan := RollPlan{Shape: shape.Clone()}
	if len(normAxes) == 0 {
		plan.Flattened = true
		plan.FlatShift = normalizeShift(shifts[0], shape.NumElements())
		return plan, nil
	}

	plan.AxisShifts = make([]int, len(shape))
	for i, axis := range normAxes {
		shift := shifts[0]
		if len(shifts) > 1 {
			shift = shifts[i]
		}
		size := shape[axis]
		if size == 0 {
			continue
		}
		plan.AxisShifts[axis] = (plan.AxisShifts[axis] + normalizeShift(shift, size)) % size
	}
	return plan, nil
}

// InferRollShape returns the output shape of a roll without looking at any
// values: it is always the input shape. Axes and the number of shifts are
// still validated, so graph builders get the same errors as eager execution.
// Dimensions may be unknown (negative); they are propagated as is.
func InferRollShape(shape Shape, numShifts int, axes []int) (Shape, error) {
	if _, err := checkRollArgs(shape, numShifts, axes); err != nil {
		return nil, err
	}
	return shape.Clone(), nil
}

func checkRollArgs(shape Shape, numShifts int, axes []int) ([]int, error) {
	if len(axes) == 0 {
		if numShifts != 1 {
			return nil, errors.Wrapf(ErrShapeMismatch, "roll over the flattened tensor takes 1 shift, got %d", numShifts)
		}
		return nil, nil
	}
	if numShifts != len(axes) && numShifts != 1 {
		return nil, errors.Wrapf(ErrShapeMismatch, "got %d shifts for %d axes", numShifts, len(axes))
	}
	normAxes := make([]int, len(axes))
	for i, axis := range axes {
		a, err := shape.NormalizeAxis(axis)
		if err != nil {
			return nil, errors.WithMessage(err, "roll")
		}
		normAxes[i] = a
	}
	return normAxes, nil
}

// normalizeShift reduces shift into [0, size). A size of 0 has nothing to
// move and yields 0 without evaluating the modulo.
func normalizeShift(shift, size int) int {
	if size <= 0 {
		return 0
	}
	return ((shift % size) + size) % size
}

// Identity reports whether the plan leaves every element in place.
func (p RollPlan) Identity() bool {
	if p.Flattened {
		return p.FlatShift == 0
	}
	for _, s := range p.AxisShifts {
		if s != 0 {
			return false
		}
	}
	return true
}

// Inverse returns the plan that undoes p: the roll by the negated shifts.
// It is the adjoint used for gradients.
func (p RollPlan) Inverse() RollPlan {
	inv := RollPlan{Shape: p.Shape.Clone(), Flattened: p.Flattened}
	if p.Flattened {
		inv.FlatShift = normalizeShift(-p.FlatShift, p.Shape.NumElements())
		return inv
	}
	inv.AxisShifts = make([]int, len(p.AxisShifts))
	for d, s := range p.AxisShifts {
		inv.AxisShifts[d] = normalizeShift(-s, p.Shape[d])
	}
	return inv
}

// SourceIndex returns the linear index of the input element that lands at
// linear output index i.
func (p RollPlan) SourceIndex(i int) int {
	if p.Flattened {
		n := p.Shape.NumElements()
		return (i - p.FlatShift + n) % n
	}
	src := 0
	stride := 1
	for d := len(p.Shape) - 1; d >= 0; d-- {
		size := p.Shape[d]
		coord := i % size
		i /= size
		coord = (coord - p.AxisShifts[d] + size) % size
		src += coord * stride
		stride *= size
	}
	return src
}

// NegateShifts returns a new slice holding -s for every shift.
func NegateShifts(shifts []int) []int {
	neg := make([]int, len(shifts))
	for i, s := range shifts {
		neg[i] = -s
	}
	return neg
}

// ShiftsFromRaw reads runtime-valued shifts out of an integer tensor of rank
// 0 or 1. It lets shifts come from other computed quantities, e.g. a shape.
func ShiftsFromRaw(r *RawTensor) ([]int, error) {
	if len(r.Shape()) > 1 {
		return nil, errors.Wrapf(ErrIncompatibleShape, "shifts tensor must have rank 0 or 1, got shape %v", r.Shape())
	}
	shifts := make([]int, r.NumElements())
	switch r.DType() {
	case Int64:
		for i, v := range r.AsInt64() {
			shifts[i] = int(v)
		}
	case Int32:
		for i, v := range r.AsInt32() {
			shifts[i] = int(v)
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedDType, "shifts tensor must be int32 or int64, got %s", r.DType())
	}
	return shifts, nil
}
