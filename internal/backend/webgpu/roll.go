//go:build windows

package webgpu

import (
	"encoding/binary"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/rollkit/internal/tensor"
)

// Roll circularly shifts x along axes on the GPU, one invocation per output
// element. Arguments are validated with tensor.PlanRoll before anything is
// uploaded, so errors match the CPU backend.
func (b *Backend) Roll(x *tensor.RawTensor, shifts, axes []int) (*tensor.RawTensor, error) {
	plan, err := tensor.PlanRoll(x.Shape(), shifts, axes)
	if err != nil {
		return nil, err
	}
	if err := b.checkDType("roll", x.DType()); err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), tensor.WebGPU)
	if err != nil {
		return nil, err
	}
	numElements := x.NumElements()
	if numElements == 0 {
		return result, nil
	}
	if plan.Identity() {
		copy(result.Data(), x.Data())
		return result, nil
	}

	klog.V(2).Infof("webgpu roll: %s%v flattened=%v flatShift=%d axisShifts=%v",
		x.DType(), x.Shape(), plan.Flattened, plan.FlatShift, plan.AxisShifts)

	data, err := b.runRoll(x, plan)
	if err != nil {
		return nil, errors.Wrap(err, "webgpu: roll")
	}
	copy(result.Data(), data)
	return result, nil
}

// rollGeometry encodes dims followed by shifts as little-endian u32 words.
// Rank-0 and flattened plans still get one word so the binding is never empty.
func rollGeometry(plan tensor.RollPlan) []byte {
	rank := len(plan.Shape)
	words := max(2*rank, 1)
	buf := make([]byte, 4*words)
	if plan.Flattened {
		return buf
	}
	for d := 0; d < rank; d++ {
		//nolint:gosec // G115: dimensions and reduced shifts are non-negative
		binary.LittleEndian.PutUint32(buf[4*d:], uint32(plan.Shape[d]))
		//nolint:gosec // G115: dimensions and reduced shifts are non-negative
		binary.LittleEndian.PutUint32(buf[4*(rank+d):], uint32(plan.AxisShifts[d]))
	}
	return buf
}

// rollParams encodes the Params uniform of rollShader.
func rollParams(plan tensor.RollPlan) []byte {
	params := make([]byte, 16)
	flattened := uint32(0)
	if plan.Flattened {
		flattened = 1
	}
	//nolint:gosec // G115: element counts, ranks and reduced shifts are non-negative
	binary.LittleEndian.PutUint32(params[0:4], uint32(plan.Shape.NumElements()))
	//nolint:gosec // G115: see above
	binary.LittleEndian.PutUint32(params[4:8], uint32(len(plan.Shape)))
	binary.LittleEndian.PutUint32(params[8:12], flattened)
	//nolint:gosec // G115: see above
	binary.LittleEndian.PutUint32(params[12:16], uint32(plan.FlatShift))
	return params
}

func (b *Backend) runRoll(x *tensor.RawTensor, plan tensor.RollPlan) ([]byte, error) {
	pipeline := b.getOrCreatePipeline("roll", b.compileShader("roll", rollShader))

	bufferInput := b.createBuffer(x.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferInput.Release()

	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	resultSize := uint64(x.ByteSize())
	bufferResult := b.createResultBuffer(resultSize)
	defer bufferResult.Release()

	bufferParams := b.createUniformBuffer(rollParams(plan))
	defer bufferParams.Release()

	geometry := rollGeometry(plan)
	bufferGeometry := b.createBuffer(geometry, wgpu.BufferUsageStorage)
	defer bufferGeometry.Release()

	bindGroup := b.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferInput, 0, resultSize),
		wgpu.BufferBindingEntry(1, bufferResult, 0, resultSize),
		wgpu.BufferBindingEntry(2, bufferParams, 0, 16),
		wgpu.BufferBindingEntry(3, bufferGeometry, 0, uint64(len(geometry))),
	})
	defer bindGroup.Release()

	if err := b.dispatch(pipeline, bindGroup, x.NumElements()); err != nil {
		return nil, err
	}
	return b.readBuffer(bufferResult, resultSize)
}
