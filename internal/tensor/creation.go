package tensor

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	raw, err := NewRaw(shape, DataTypeOf[T](), b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return New[T, B](raw, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Arange creates a 1-D tensor holding start, start+1, ..., end-1 converted to dtype.
//
// Example:
//
//	x, _ := tensor.Arange(0, 9, tensor.Int64, tensor.CPU) // [0 1 ... 8]
func Arange(start, end int, dtype DataType, device Device) (*RawTensor, error) {
	n := max(end-start, 0)
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(start + i)
	}
	return FromFloat64s(values, Shape{n}, dtype, device)
}

// RandRaw creates a tensor of dtype with values drawn uniformly from [0, 1),
// rounded to the dtype. Bool tensors get random truth values.
// Note: Uses math/rand (not crypto/rand), seeded by the caller.
func RandRaw(shape Shape, dtype DataType, device Device, rng *rand.Rand) (*RawTensor, error) {
	values := make([]float64, shape.NumElements())
	for i := range values {
		v := rng.Float64()
		if dtype == Bool {
			v = float64(rng.Intn(2))
		} else if !dtype.IsFloat() {
			v = float64(rng.Intn(100))
		}
		values[i] = v
	}
	return FromFloat64s(values, shape, dtype, device)
}

// ShapeTensor returns shape as a 1-D Int64 tensor.
func ShapeTensor(shape Shape, device Device) *RawTensor {
	raw, err := NewRaw(Shape{len(shape)}, Int64, device)
	if err != nil {
		panic(err)
	}
	data := raw.AsInt64()
	for i, d := range shape {
		data[i] = int64(d)
	}
	return raw
}

// FloorDiv divides every element of an Int32/Int64 tensor by divisor,
// rounding toward negative infinity.
func FloorDiv(x *RawTensor, divisor int64) (*RawTensor, error) {
	if divisor == 0 {
		return nil, errors.New("floordiv: division by zero")
	}
	out, err := NewRaw(x.Shape(), x.DType(), x.Device())
	if err != nil {
		return nil, err
	}
	switch x.DType() {
	case Int64:
		dst := out.AsInt64()
		for i, v := range x.AsInt64() {
			dst[i] = floorDiv(v, divisor)
		}
	case Int32:
		dst := out.AsInt32()
		for i, v := range x.AsInt32() {
			dst[i] = int32(floorDiv(int64(v), divisor))
		}
	default:
		return nil, errors.Wrapf(ErrUnsupportedDType, "floordiv: integer tensor required, got %s", x.DType())
	}
	return out, nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
