// Package cpu implements the CPU backend: pure Go kernels parallelized over
// independent blocks.
package cpu

import (
	"fmt"

	"github.com/d4l3k/go-bfloat16"
	"github.com/x448/float16"

	"github.com/born-ml/rollkit/internal/config"
	"github.com/born-ml/rollkit/internal/parallel"
	"github.com/born-ml/rollkit/internal/tensor"
)

// Verify that CPUBackend implements tensor.Backend.
var _ tensor.Backend = (*CPUBackend)(nil)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithParallel overrides the worker configuration read from the environment.
func WithParallel(cfg parallel.Config) Option {
	return func(cpu *CPUBackend) {
		cpu.parallel = cfg
	}
}

// New creates a new CPU backend.
// Parallelism defaults to config.Parallel (ROLLKIT_* environment variables).
func New(opts ...Option) *CPUBackend {
	cpu := &CPUBackend{
		device:   tensor.CPU,
		parallel: config.Parallel(),
	}
	for _, opt := range opts {
		opt(cpu)
	}
	return cpu
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Capabilities reports that every dtype is supported.
func (cpu *CPUBackend) Capabilities() tensor.Capabilities {
	return tensor.AllDTypes()
}

// ParallelConfig returns the worker configuration in use.
func (cpu *CPUBackend) ParallelConfig() parallel.Config {
	return cpu.parallel
}

// Add performs element-wise addition of same-shaped numeric tensors.
//
// When a is the only reference to its buffer the sum is written in place.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("add: shapes %v and %v differ", a.Shape(), b.Shape()))
	}
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("add: dtypes %s and %s differ", a.DType(), b.DType()))
	}

	result := a
	if !a.IsUnique() {
		var err error
		result, err = tensor.NewRaw(a.Shape(), a.DType(), cpu.device)
		if err != nil {
			panic(fmt.Sprintf("add: failed to create result tensor: %v", err))
		}
	}

	switch a.DType() {
	case tensor.Float32:
		addSlices(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), cpu.parallel)
	case tensor.Float64:
		addSlices(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), cpu.parallel)
	case tensor.Int32:
		addSlices(result.AsInt32(), a.AsInt32(), b.AsInt32(), cpu.parallel)
	case tensor.Int64:
		addSlices(result.AsInt64(), a.AsInt64(), b.AsInt64(), cpu.parallel)
	case tensor.Uint8:
		addSlices(result.AsUint8(), a.AsUint8(), b.AsUint8(), cpu.parallel)
	case tensor.Float16:
		// Half types accumulate in float32 and round once.
		dst, x, y := result.AsFloat16(), a.AsFloat16(), b.AsFloat16()
		parallel.For(len(dst), func(i int) {
			dst[i] = float16.Fromfloat32(x[i].Float32() + y[i].Float32())
		}, cpu.parallel)
	case tensor.BFloat16:
		dst, x, y := result.AsBFloat16(), a.AsBFloat16(), b.AsBFloat16()
		parallel.For(len(dst), func(i int) {
			dst[i] = bfloat16.FromFloat32(bfloat16.ToFloat32(x[i]) + bfloat16.ToFloat32(y[i]))
		}, cpu.parallel)
	default:
		panic(fmt.Sprintf("add: unsupported dtype %s", a.DType()))
	}
	return result
}

func addSlices[T int32 | int64 | uint8 | float32 | float64](dst, a, b []T, cfg parallel.Config) {
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = a[i] + b[i]
		}
	}, cfg)
}

// Reshape returns a copy of t under newShape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}

	result, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	copy(result.Data(), t.Data())
	return result
}

// Cast converts x to dtype. Float16 and BFloat16 are widened or rounded
// through float64.
func (cpu *CPUBackend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return tensor.ConvertRaw(x, dtype, cpu.device)
}
