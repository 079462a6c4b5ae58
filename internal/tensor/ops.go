package tensor

// Roll circularly shifts the tensor along axes.
//
// Elements pushed past the end of an axis re-enter at its start. Shifts may be
// negative or larger than the axis. With no axes the tensor is rolled as one
// flat row-major sequence and a single shift is expected.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, Shape{3, 3}, backend)
//	y, _ := x.Roll([]int{1})    // [[9 1 2] [3 4 5] [6 7 8]]
//	z, _ := x.Roll([]int{1}, 0) // [[7 8 9] [1 2 3] [4 5 6]]
func (t *Tensor[T, B]) Roll(shifts []int, axes ...int) (*Tensor[T, B], error) {
	result, err := t.backend.Roll(t.raw, shifts, axes)
	if err != nil {
		return nil, err
	}
	return New[T, B](result, t.backend), nil
}

// RollBy is Roll with shifts read from an integer tensor at call time.
//
// Example:
//
//	shape := tensor.ShapeTensor(x.Shape())          // int64 [3, 3]
//	half := tensor.FloorDiv(shape, 2)               // int64 [1, 1]
//	y, _ := x.RollBy(half, 0, 1)
func (t *Tensor[T, B]) RollBy(shifts *RawTensor, axes ...int) (*Tensor[T, B], error) {
	values, err := ShiftsFromRaw(shifts)
	if err != nil {
		return nil, err
	}
	return t.Roll(values, axes...)
}

// Add performs element-wise addition of same-shaped tensors.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Reshape returns a tensor with the same data but different shape.
// The new shape must have the same number of elements.
func (t *Tensor[T, B]) Reshape(newShape ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Reshape(t.raw, Shape(newShape)), t.backend)
}

// Flatten reshapes the tensor into one dimension.
func (t *Tensor[T, B]) Flatten() *Tensor[T, B] {
	return t.Reshape(t.NumElements())
}
