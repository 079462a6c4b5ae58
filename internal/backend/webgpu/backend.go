//go:build windows

// Package webgpu implements the WebGPU backend: roll and add run as WGSL
// compute shaders through go-webgpu (github.com/go-webgpu/webgpu), zero-CGO.
//
// Only 4-byte dtypes (float32, int32) are supported on the device.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/born-ml/rollkit/internal/tensor"
)

// Verify that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Backend implements tensor operations on GPU using WebGPU.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex
}

// New creates a new WebGPU backend.
// Returns an error if WebGPU is not available or initialization fails.
func New() (backend *Backend, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = errors.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, errors.Wrap(adapterErr, "webgpu: failed to request adapter")
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, errors.Wrap(deviceErr, "webgpu: failed to request device")
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, errors.New("webgpu: failed to get queue")
	}

	return &Backend{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
	}, nil
}

// Release frees the cached pipelines and shaders and the device.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for name, p := range b.pipelines {
		p.Release()
		delete(b.pipelines, name)
	}
	for name, s := range b.shaders {
		s.Release()
		delete(b.shaders, name)
	}
	if b.queue != nil {
		b.queue.Release()
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "WebGPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// Capabilities lists the dtypes the shaders handle.
func (b *Backend) Capabilities() tensor.Capabilities {
	return tensor.Capabilities{DTypes: map[tensor.DataType]bool{
		tensor.Float32: true,
		tensor.Int32:   true,
	}}
}

// Add performs element-wise addition on the GPU.
func (b *Backend) Add(a, other *tensor.RawTensor) *tensor.RawTensor {
	var code string
	switch a.DType() {
	case tensor.Float32:
		code = addShaderF32
	case tensor.Int32:
		code = addShaderI32
	default:
		panic(fmt.Sprintf("webgpu: add: unsupported dtype %s", a.DType()))
	}
	result, err := b.runBinaryOp(a, other, "add_"+a.DType().String(), code)
	if err != nil {
		panic(fmt.Sprintf("webgpu: add: %v", err))
	}
	return result
}

// Reshape copies t under newShape. Layout is row-major on both sides, so no
// shader is involved.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("webgpu: reshape: incompatible shapes: %v -> %v", t.Shape(), newShape))
	}
	result, err := tensor.NewRaw(newShape, t.DType(), tensor.WebGPU)
	if err != nil {
		panic(fmt.Sprintf("webgpu: reshape: %v", err))
	}
	copy(result.Data(), t.Data())
	return result
}

// Cast converts between the supported dtypes on the host.
func (b *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if !b.Capabilities().Supports(dtype) {
		panic(fmt.Sprintf("webgpu: cast: unsupported dtype %s", dtype))
	}
	return tensor.ConvertRaw(x, dtype, tensor.WebGPU)
}

func (b *Backend) checkDType(op string, dtype tensor.DataType) error {
	if !b.Capabilities().Supports(dtype) {
		return errors.Wrapf(tensor.ErrUnsupportedDType, "webgpu: %s: %s", op, dtype)
	}
	return nil
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() (available bool) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()

	return true
}
