package tensor

import (
	"fmt"

	"github.com/d4l3k/go-bfloat16"
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// FromFloat64s creates a tensor of dtype from float64 values.
// Values are rounded to the target encoding; for Bool any non-zero value is true.
func FromFloat64s(values []float64, shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if shape.NumElements() != len(values) {
		return nil, errors.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(values))
	}
	raw, err := NewRaw(shape, dtype, device)
	if err != nil {
		return nil, err
	}
	storeFloat64s(raw, values)
	return raw, nil
}

// ToFloat64s returns a copy of the tensor's values widened to float64.
func ToFloat64s(r *RawTensor) []float64 {
	out := make([]float64, r.NumElements())
	switch r.DType() {
	case Float32:
		for i, v := range r.AsFloat32() {
			out[i] = float64(v)
		}
	case Float64:
		copy(out, r.AsFloat64())
	case Int32:
		for i, v := range r.AsInt32() {
			out[i] = float64(v)
		}
	case Int64:
		for i, v := range r.AsInt64() {
			out[i] = float64(v)
		}
	case Uint8:
		for i, v := range r.AsUint8() {
			out[i] = float64(v)
		}
	case Bool:
		for i, v := range r.AsBool() {
			if v {
				out[i] = 1
			}
		}
	case Float16:
		for i, v := range r.AsFloat16() {
			out[i] = float64(v.Float32())
		}
	case BFloat16:
		for i, v := range r.AsBFloat16() {
			out[i] = float64(bfloat16.ToFloat32(v))
		}
	default:
		panic(fmt.Sprintf("tofloat64s: unsupported dtype %s", r.DType()))
	}
	return out
}

// ToInt64s returns a copy of the tensor's values as int64.
// Float values are truncated toward zero.
func ToInt64s(r *RawTensor) []int64 {
	out := make([]int64, r.NumElements())
	switch r.DType() {
	case Int32:
		for i, v := range r.AsInt32() {
			out[i] = int64(v)
		}
	case Int64:
		copy(out, r.AsInt64())
	case Uint8:
		for i, v := range r.AsUint8() {
			out[i] = int64(v)
		}
	case Bool:
		for i, v := range r.AsBool() {
			if v {
				out[i] = 1
			}
		}
	default:
		for i, v := range ToFloat64s(r) {
			out[i] = int64(v)
		}
	}
	return out
}

// ConvertRaw returns a new tensor holding x's values converted to dtype.
// Integer-to-integer conversions go through int64 so they stay exact.
func ConvertRaw(x *RawTensor, dtype DataType, device Device) *RawTensor {
	out, err := NewRaw(x.Shape(), dtype, device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}
	if x.DType() == dtype {
		copy(out.Data(), x.Data())
		return out
	}
	if !x.DType().IsFloat() && !dtype.IsFloat() {
		storeInt64s(out, ToInt64s(x))
		return out
	}
	storeFloat64s(out, ToFloat64s(x))
	return out
}

func storeFloat64s(r *RawTensor, values []float64) {
	switch r.DType() {
	case Float32:
		dst := r.AsFloat32()
		for i, v := range values {
			dst[i] = float32(v)
		}
	case Float64:
		copy(r.AsFloat64(), values)
	case Int32:
		dst := r.AsInt32()
		for i, v := range values {
			dst[i] = int32(v)
		}
	case Int64:
		dst := r.AsInt64()
		for i, v := range values {
			dst[i] = int64(v)
		}
	case Uint8:
		dst := r.AsUint8()
		for i, v := range values {
			dst[i] = uint8(v)
		}
	case Bool:
		dst := r.AsBool()
		for i, v := range values {
			dst[i] = v != 0
		}
	case Float16:
		dst := r.AsFloat16()
		for i, v := range values {
			dst[i] = float16.Fromfloat32(float32(v))
		}
	case BFloat16:
		dst := r.AsBFloat16()
		for i, v := range values {
			dst[i] = bfloat16.FromFloat32(float32(v))
		}
	default:
		panic(fmt.Sprintf("store: unsupported dtype %s", r.DType()))
	}
}

func storeInt64s(r *RawTensor, values []int64) {
	switch r.DType() {
	case Int32:
		dst := r.AsInt32()
		for i, v := range values {
			dst[i] = int32(v)
		}
	case Int64:
		copy(r.AsInt64(), values)
	case Uint8:
		dst := r.AsUint8()
		for i, v := range values {
			dst[i] = uint8(v)
		}
	case Bool:
		dst := r.AsBool()
		for i, v := range values {
			dst[i] = v != 0
		}
	default:
		panic(fmt.Sprintf("store: unsupported dtype %s", r.DType()))
	}
}
