package cpu

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/born-ml/rollkit/internal/parallel"
	"github.com/born-ml/rollkit/internal/tensor"
)

// Roll circularly shifts x along axes by shifts and returns a new tensor.
//
// Supports negative axes (-1 = last dimension), negative shifts and shifts
// larger than the axis. With no axes the tensor is rolled as one flat
// row-major sequence. Zero-sized tensors come back as equally empty tensors.
//
// The kernel never looks at element values: tensors are viewed as 1, 2, 4 or
// 8-byte words and moved block by block, so every dtype (bool, float16,
// bfloat16 included) goes through the same code.
//
// Example:
//
//	x := [[1 2 3] [4 5 6] [7 8 9]]
//	backend.Roll(x, []int{1}, nil)       // [[9 1 2] [3 4 5] [6 7 8]]
//	backend.Roll(x, []int{1}, []int{0})  // [[7 8 9] [1 2 3] [4 5 6]]
func (cpu *CPUBackend) Roll(x *tensor.RawTensor, shifts, axes []int) (*tensor.RawTensor, error) {
	plan, err := tensor.PlanRoll(x.Shape(), shifts, axes)
	if err != nil {
		return nil, err
	}
	return cpu.RollPlan(x, plan), nil
}

// RollGrad computes the gradient of Roll with respect to its input: the
// output gradient moved by the inverse of the forward plan.
func (cpu *CPUBackend) RollGrad(gradOutput *tensor.RawTensor, shifts, axes []int) (*tensor.RawTensor, error) {
	plan, err := tensor.PlanRoll(gradOutput.Shape(), shifts, axes)
	if err != nil {
		return nil, err
	}
	return cpu.RollPlan(gradOutput, plan.Inverse()), nil
}

// RollPlan executes an already validated plan. The plan's shape must match x.
func (cpu *CPUBackend) RollPlan(x *tensor.RawTensor, plan tensor.RollPlan) *tensor.RawTensor {
	if !plan.Shape.Equal(x.Shape()) {
		panic(fmt.Sprintf("roll: plan for shape %v applied to %v", plan.Shape, x.Shape()))
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("roll: %v", err))
	}
	if x.NumElements() == 0 {
		return result
	}

	klog.V(2).Infof("roll: %s%v flattened=%v flatShift=%d axisShifts=%v",
		x.DType(), x.Shape(), plan.Flattened, plan.FlatShift, plan.AxisShifts)

	switch x.DType().Size() {
	case 1:
		rollWords(tensor.Words[uint8](result), tensor.Words[uint8](x), plan, cpu.parallel)
	case 2:
		rollWords(tensor.Words[uint16](result), tensor.Words[uint16](x), plan, cpu.parallel)
	case 4:
		rollWords(tensor.Words[uint32](result), tensor.Words[uint32](x), plan, cpu.parallel)
	case 8:
		rollWords(tensor.Words[uint64](result), tensor.Words[uint64](x), plan, cpu.parallel)
	default:
		panic(fmt.Sprintf("roll: unsupported element size %d", x.DType().Size()))
	}
	return result
}

// rollWords applies plan to src, writing into dst.
//
// Each dimension with a non-zero shift is one pass. Passes alternate between
// dst and a scratch buffer, ordered so that the last one lands in dst.
func rollWords[E uint8 | uint16 | uint32 | uint64](dst, src []E, plan tensor.RollPlan, cfg parallel.Config) {
	if plan.Flattened {
		rollAxis(dst, src, 1, len(src), 1, plan.FlatShift, cfg)
		return
	}

	var moving []int
	for d, s := range plan.AxisShifts {
		if s != 0 {
			moving = append(moving, d)
		}
	}
	if len(moving) == 0 {
		copy(dst, src)
		return
	}

	var scratch []E
	if len(moving) > 1 {
		scratch = make([]E, len(src))
	}
	in := src
	for k, d := range moving {
		out := dst
		if (len(moving)-1-k)%2 == 1 {
			out = scratch
		}
		outer, dim, inner := plan.Shape.Split(d)
		rollAxis(out, in, outer, dim, inner, plan.AxisShifts[d], cfg)
		in = out
	}
}

// rollAxis rolls a [outer, dim, inner] view by shift along the middle axis.
//
// Within one outer block the rows [0, dim-shift) move to [shift, dim) and the
// last shift rows wrap to the front: two contiguous copies per block.
func rollAxis[E uint8 | uint16 | uint32 | uint64](dst, src []E, outer, dim, inner, shift int, cfg parallel.Config) {
	block := dim * inner
	tail := shift * inner
	head := block - tail

	if outer == 1 {
		// A single block: split the copy itself across workers.
		parallel.ForRange(block, func(start, end int) {
			copyRotated(dst, src, head, tail, start, end)
		}, cfg)
		return
	}

	parallel.ForRange(outer, func(start, end int) {
		for o := start; o < end; o++ {
			base := o * block
			d := dst[base : base+block]
			s := src[base : base+block]
			copy(d[tail:], s[:head])
			copy(d[:tail], s[head:])
		}
	}, cfg)
}

// copyRotated fills dst[start:end] of a block rotated right by tail elements.
// dst[p] = src[p+head] for p < tail, src[p-tail] otherwise.
func copyRotated[E uint8 | uint16 | uint32 | uint64](dst, src []E, head, tail, start, end int) {
	if start < tail {
		e := min(end, tail)
		copy(dst[start:e], src[start+head:e+head])
		start = e
	}
	if start < end {
		copy(dst[start:end], src[start-tail:end-tail])
	}
}
