// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/rollkit/internal/tensor"
)

// Errors returned by roll validation. Use errors.Is to match them.
var (
	ErrInvalidAxis       = tensor.ErrInvalidAxis
	ErrShapeMismatch     = tensor.ErrShapeMismatch
	ErrUnsupportedDType  = tensor.ErrUnsupportedDType
	ErrIncompatibleShape = tensor.ErrIncompatibleShape
)

// RollPlan is the normalized form of a roll request for a given shape.
type RollPlan = tensor.RollPlan

// PlanRoll validates shifts and axes against shape and reduces every shift
// into [0, size) of its axis. Repeated axes accumulate.
func PlanRoll(shape Shape, shifts, axes []int) (RollPlan, error) {
	return tensor.PlanRoll(shape, shifts, axes)
}

// InferRollShape returns the output shape of a roll (the input shape) after
// validating axes and the number of shifts. No values are read.
func InferRollShape(shape Shape, numShifts int, axes []int) (Shape, error) {
	return tensor.InferRollShape(shape, numShifts, axes)
}

// ShiftsFromRaw reads shifts from an Int32/Int64 tensor of rank 0 or 1.
func ShiftsFromRaw(r *RawTensor) ([]int, error) {
	return tensor.ShiftsFromRaw(r)
}

// NegateShifts returns the shifts that undo a roll by shifts.
func NegateShifts(shifts []int) []int {
	return tensor.NegateShifts(shifts)
}
