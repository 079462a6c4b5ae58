package tensor

import "fmt"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing.
// It implements all operations naively for correctness verification:
// Roll maps every output coordinate back to its source coordinate one
// element at a time.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Capabilities returns support for every dtype.
func (m *MockBackend) Capabilities() Capabilities {
	return AllDTypes()
}

// Roll computes out[i] = x[plan.SourceIndex(i)] byte by byte.
func (m *MockBackend) Roll(x *RawTensor, shifts, axes []int) (*RawTensor, error) {
	plan, err := PlanRoll(x.Shape(), shifts, axes)
	if err != nil {
		return nil, err
	}
	result, err := NewRaw(x.Shape(), x.DType(), m.Device())
	if err != nil {
		return nil, err
	}
	size := x.DType().Size()
	src, dst := x.Data(), result.Data()
	for i := 0; i < x.NumElements(); i++ {
		j := plan.SourceIndex(i)
		copy(dst[i*size:(i+1)*size], src[j*size:(j+1)*size])
	}
	return result, nil
}

// Add performs element-wise addition in float64.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(fmt.Sprintf("add: shapes %v and %v differ", a.Shape(), b.Shape()))
	}
	av, bv := ToFloat64s(a), ToFloat64s(b)
	for i := range av {
		av[i] += bv[i]
	}
	result, err := FromFloat64s(av, a.Shape(), a.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	return result
}

// Reshape copies x under newShape.
func (m *MockBackend) Reshape(x *RawTensor, newShape Shape) *RawTensor {
	if x.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v", x.Shape(), newShape))
	}
	result, err := NewRaw(newShape, x.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	copy(result.Data(), x.Data())
	return result
}

// Cast converts x to dtype.
func (m *MockBackend) Cast(x *RawTensor, dtype DataType) *RawTensor {
	return ConvertRaw(x, dtype, m.Device())
}
