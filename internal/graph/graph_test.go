package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/rollkit/internal/backend/cpu"
	"github.com/born-ml/rollkit/internal/tensor"
)

func arange(t *testing.T, n int, dtype tensor.DataType, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.Arange(0, n, dtype, tensor.CPU)
	require.NoError(t, err)
	return tensor.NewMockBackend().Reshape(raw, shape)
}

func TestRoll_DynamicBatch(t *testing.T) {
	g := New("dynamic_batch")
	x := g.Parameter("x", tensor.Float32, tensor.Shape{DynamicDim, 3})
	y := Roll(x, []int{1}, 0)
	require.NoError(t, g.Err())
	assert.Equal(t, tensor.Shape{DynamicDim, 3}, y.Shape())
	assert.True(t, y.IsDynamic())
	assert.Equal(t, tensor.Float32, y.DType())

	exec, err := g.Compile(cpu.New(), y)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, exec.ParameterNames())

	raw, err := tensor.FromFloat64s([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{3, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	outputs, err := exec.Run(context.Background(), map[string]*tensor.RawTensor{"x": raw})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, tensor.Shape{3, 3}, outputs[0].Shape())
	assert.Equal(t, []float32{7, 8, 9, 1, 2, 3, 4, 5, 6}, outputs[0].AsFloat32())

	// Same executable, different batch size.
	raw = arange(t, 6, tensor.Float32, tensor.Shape{2, 3})
	outputs, err = exec.Run(context.Background(), map[string]*tensor.RawTensor{"x": raw})
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 4, 5, 0, 1, 2}, outputs[0].AsFloat32())
}

func TestRollDynamic_HalfShape(t *testing.T) {
	g := New("half_shape")
	x := g.Parameter("x", tensor.Int64, tensor.Shape{3, 3})
	shape := ShapeOf(x)
	half := FloorDivScalar(shape, 2)
	y := RollDynamic(x, half, 0, 1)
	require.NoError(t, g.Err())
	assert.Equal(t, tensor.Shape{2}, shape.Shape())
	assert.Equal(t, tensor.Int64, half.DType())
	assert.Equal(t, tensor.Shape{3, 3}, y.Shape())

	exec, err := g.Compile(cpu.New(), y, half)
	require.NoError(t, err)
	outputs, err := exec.Run(context.Background(), map[string]*tensor.RawTensor{
		"x": arange(t, 9, tensor.Int64, tensor.Shape{3, 3}),
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 6, 7, 2, 0, 1, 5, 3, 4}, outputs[0].AsInt64())
	assert.Equal(t, []int64{1, 1}, outputs[1].AsInt64())
}

func TestRollDynamic_ShiftsParameter(t *testing.T) {
	g := New("shifts_parameter")
	x := g.Parameter("x", tensor.Float64, tensor.Shape{2, 3})
	s := g.Parameter("s", tensor.Int32, tensor.Shape{DynamicDim})
	y := RollDynamic(x, s, 0, 1)
	require.NoError(t, g.Err())

	exec, err := g.Compile(cpu.New(), y)
	require.NoError(t, err)
	assert.Equal(t, []string{"s", "x"}, exec.ParameterNames())

	x0 := arange(t, 6, tensor.Float64, tensor.Shape{2, 3})
	shifts, err := tensor.FromFloat64s([]float64{1, -1}, tensor.Shape{2}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	outputs, err := exec.Run(context.Background(), map[string]*tensor.RawTensor{"x": x0, "s": shifts})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 3, 1, 2, 0}, outputs[0].AsFloat64())

	// A shift count that only turns out wrong at run time.
	three, err := tensor.FromFloat64s([]float64{1, 1, 1}, tensor.Shape{3}, tensor.Int32, tensor.CPU)
	require.NoError(t, err)
	_, err = exec.Run(context.Background(), map[string]*tensor.RawTensor{"x": x0, "s": three})
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestRoll_InvalidAxisAtBuildTime(t *testing.T) {
	g := New("bad_axis")
	x := g.Parameter("x", tensor.Float32, tensor.Shape{3, 3})
	y := Roll(x, []int{1}, 10)
	require.ErrorIs(t, g.Err(), tensor.ErrInvalidAxis)
	assert.False(t, y.IsValid())
	assert.Equal(t, "Node(invalid)", y.String())

	// Later ops are no-ops and the first error is kept.
	z := Roll(x, []int{1, 2, 3}, 0, 1)
	assert.False(t, z.IsValid())
	require.ErrorIs(t, g.Err(), tensor.ErrInvalidAxis)
	assert.Len(t, g.Nodes(), 1)

	_, err := g.Compile(cpu.New(), x)
	require.ErrorIs(t, err, tensor.ErrInvalidAxis)
	assert.Panics(t, g.MustOk)
}

func TestGraph_BuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *Graph)
		is    error
	}{
		{"ShiftCount", func(g *Graph) {
			Roll(g.Parameter("x", tensor.Float32, tensor.Shape{3, 3}), []int{1, 2, 3}, 0, 1)
		}, tensor.ErrShapeMismatch},
		{"FlattenedShiftCount", func(g *Graph) {
			Roll(g.Parameter("x", tensor.Float32, tensor.Shape{3, 3}), []int{1, 2})
		}, tensor.ErrShapeMismatch},
		{"StaticShiftsNodeCount", func(g *Graph) {
			x := g.Parameter("x", tensor.Float32, tensor.Shape{3, 3})
			RollDynamic(x, ShapeOf(x), 0)
		}, tensor.ErrShapeMismatch},
		{"FloatShifts", func(g *Graph) {
			x := g.Parameter("x", tensor.Float32, tensor.Shape{3, 3})
			RollDynamic(x, x, 0)
		}, tensor.ErrUnsupportedDType},
		{"DynamicShiftsBadAxis", func(g *Graph) {
			x := g.Parameter("x", tensor.Float32, tensor.Shape{3, 3})
			s := g.Parameter("s", tensor.Int64, tensor.Shape{DynamicDim})
			RollDynamic(x, s, 0, -3)
		}, tensor.ErrInvalidAxis},
		{"FloorDivFloat", func(g *Graph) {
			FloorDivScalar(g.Parameter("x", tensor.Float32, tensor.Shape{2}), 2)
		}, tensor.ErrUnsupportedDType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.name)
			tt.build(g)
			require.ErrorIs(t, g.Err(), tt.is)
		})
	}

	t.Run("DuplicateParameter", func(t *testing.T) {
		g := New("dup")
		g.Parameter("x", tensor.Float32, tensor.Shape{2})
		g.Parameter("x", tensor.Float32, tensor.Shape{2})
		require.ErrorContains(t, g.Err(), "already defined")
	})

	t.Run("BadDimension", func(t *testing.T) {
		g := New("dim")
		g.Parameter("x", tensor.Float32, tensor.Shape{2, -4})
		require.Error(t, g.Err())
	})

	t.Run("MixedGraphs", func(t *testing.T) {
		g1, g2 := New("g1"), New("g2")
		x := g1.Parameter("x", tensor.Float32, tensor.Shape{3})
		s := FloorDivScalar(ShapeOf(g2.Parameter("y", tensor.Float32, tensor.Shape{3})), 2)
		RollDynamic(x, s)
		require.ErrorContains(t, g1.Err(), "belongs to graph")
		require.NoError(t, g2.Err())
	})

	t.Run("DivisionByZero", func(t *testing.T) {
		g := New("div0")
		FloorDivScalar(ShapeOf(g.Parameter("x", tensor.Float32, tensor.Shape{3})), 0)
		require.ErrorContains(t, g.Err(), "division by zero")
	})
}

func TestExecutable_FeedErrors(t *testing.T) {
	g := New("feeds")
	x := g.Parameter("x", tensor.Float32, tensor.Shape{DynamicDim, 3})
	y := Roll(x, []int{1})
	exec, err := g.Compile(cpu.New(), y)
	require.NoError(t, err)
	ctx := context.Background()

	good := arange(t, 6, tensor.Float32, tensor.Shape{2, 3})

	_, err = exec.Run(ctx, map[string]*tensor.RawTensor{"x": good, "z": good})
	require.ErrorIs(t, err, ErrUnknownParameter)

	_, err = exec.Run(ctx, map[string]*tensor.RawTensor{})
	require.ErrorIs(t, err, ErrMissingFeed)

	_, err = exec.Run(ctx, map[string]*tensor.RawTensor{"x": arange(t, 6, tensor.Float32, tensor.Shape{3, 2})})
	require.ErrorIs(t, err, ErrFeedShape)

	_, err = exec.Run(ctx, map[string]*tensor.RawTensor{"x": arange(t, 6, tensor.Float32, tensor.Shape{6})})
	require.ErrorIs(t, err, ErrFeedShape)

	_, err = exec.Run(ctx, map[string]*tensor.RawTensor{"x": arange(t, 6, tensor.Float64, tensor.Shape{2, 3})})
	require.ErrorIs(t, err, ErrFeedShape)

	outputs, err := exec.Run(ctx, map[string]*tensor.RawTensor{"x": good})
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 0, 1, 2, 3, 4}, outputs[0].AsFloat32())
}

func TestExecutable_Cancelled(t *testing.T) {
	g := New("cancel")
	y := Roll(g.Constant(arange(t, 4, tensor.Int32, tensor.Shape{4})), []int{1})
	exec, err := g.Compile(cpu.New(), y)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = exec.Run(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)

	outputs, err := exec.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 0, 1, 2}, outputs[0].AsInt32())
}

// float32Backend only advertises float32 support.
type float32Backend struct {
	*cpu.CPUBackend
}

func (float32Backend) Capabilities() tensor.Capabilities {
	return tensor.Capabilities{DTypes: map[tensor.DataType]bool{tensor.Float32: true}}
}

func TestCompile_Capabilities(t *testing.T) {
	backend := float32Backend{cpu.New()}

	g := New("caps")
	x := g.Parameter("x", tensor.Float32, tensor.Shape{4})
	y := Roll(x, []int{1})
	b := g.Parameter("b", tensor.BFloat16, tensor.Shape{4})
	z := Roll(b, []int{1})

	_, err := g.Compile(backend, y)
	require.NoError(t, err)

	_, err = g.Compile(backend, y, z)
	require.ErrorIs(t, err, tensor.ErrUnsupportedDType)

	_, err = g.Compile(backend)
	require.Error(t, err)

	other := New("other")
	_, err = g.Compile(backend, Roll(other.Parameter("x", tensor.Float32, tensor.Shape{2}), []int{1}))
	require.Error(t, err)
}

func TestExecutable_MatchesEager(t *testing.T) {
	backend := cpu.New()
	cases := []struct {
		shape  tensor.Shape
		shifts []int
		axes   []int
	}{
		{tensor.Shape{100, 4, 5}, []int{101, -1}, []int{0, -2}},
		{tensor.Shape{100, 10, 5}, []int{8, -1}, []int{-1, -2}},
		{tensor.Shape{11, 11}, []int{1, 1}, []int{-1, 1}},
		{tensor.Shape{4, 5}, []int{-7}, nil},
	}
	for _, tc := range cases {
		g := New("eager")
		y := Roll(g.Parameter("x", tensor.Float64, tc.shape), tc.shifts, tc.axes...)
		exec, err := g.Compile(backend, y)
		require.NoError(t, err)

		x := arange(t, tc.shape.NumElements(), tensor.Float64, tc.shape)
		outputs, err := exec.Run(context.Background(), map[string]*tensor.RawTensor{"x": x})
		require.NoError(t, err)

		want, err := backend.Roll(x, tc.shifts, tc.axes)
		require.NoError(t, err)
		assert.Equal(t, want.AsFloat64(), outputs[0].AsFloat64(), "shape %v", tc.shape)
	}
}

func TestExecutable_ConcurrentRuns(t *testing.T) {
	g := New("concurrent")
	x := g.Parameter("x", tensor.Int64, tensor.Shape{DynamicDim, 4})
	y := RollDynamic(x, FloorDivScalar(ShapeOf(x), 2), 0, 1)
	exec, err := g.Compile(cpu.New(), y)
	require.NoError(t, err)

	inputs := make([]*tensor.RawTensor, 8)
	for i := range inputs {
		inputs[i] = arange(t, (i+1)*4, tensor.Int64, tensor.Shape{i + 1, 4})
	}

	var eg errgroup.Group
	results := make([][]int64, len(inputs))
	for i, x := range inputs {
		eg.Go(func() error {
			outputs, err := exec.Run(context.Background(), map[string]*tensor.RawTensor{"x": x})
			if err != nil {
				return err
			}
			results[i] = outputs[0].AsInt64()
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	// One row: only the columns move, by 4/2 = 2.
	assert.Equal(t, []int64{2, 3, 0, 1}, results[0])
	// Two rows: rows swap (2/2 = 1) and columns move by 2.
	assert.Equal(t, []int64{6, 7, 4, 5, 2, 3, 0, 1}, results[1])
}

func TestNode_String(t *testing.T) {
	g := New("strings")
	x := g.Parameter("x", tensor.Float32, tensor.Shape{DynamicDim, 3})
	y := Roll(x, []int{1}, 0)
	assert.Equal(t, `#0 Parameter("x"): float32[-1 3]`, x.String())
	assert.Equal(t, "#1 Roll[#0]: float32[-1 3]", y.String())
	assert.Equal(t, "Roll", y.Type().String())
	assert.Equal(t, []*Node{x}, y.Inputs())
	assert.Same(t, g, y.Graph())
	assert.Equal(t, "x", x.ParameterName())
	assert.Same(t, x, g.ParameterByName("x"))
	assert.Equal(t, []*Node{x}, g.Parameters())
}

func TestRoll_BoolScenarios(t *testing.T) {
	raw, err := tensor.FromFloat64s([]float64{1, 0, 1, 0, 1, 0, 1, 0, 1}, tensor.Shape{3, 3}, tensor.Bool, tensor.CPU)
	require.NoError(t, err)

	g := New("bool")
	x := g.Parameter("x", tensor.Bool, tensor.Shape{DynamicDim, 3})
	flat := Roll(x, []int{1})
	rows := Roll(x, []int{1}, 0)
	require.NoError(t, g.Err())

	exec, err := g.Compile(cpu.New(), flat, rows)
	require.NoError(t, err)
	outputs, err := exec.Run(context.Background(), map[string]*tensor.RawTensor{"x": raw})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false, true, false, true, false, true, false}, outputs[0].AsBool())
	assert.Equal(t, []bool{true, false, true, true, false, true, false, true, false}, outputs[1].AsBool())
}

func TestExecutable_ZeroSize(t *testing.T) {
	for _, shape := range []tensor.Shape{{0, 3}, {4, 0, 3}} {
		t.Run(fmt.Sprint(shape), func(t *testing.T) {
			one, err := tensor.FromFloat64s([]float64{1}, tensor.Shape{}, tensor.Int64, tensor.CPU)
			require.NoError(t, err)
			allAxes := make([]int, len(shape))
			for i := range allAxes {
				allAxes[i] = i
			}

			g := New("zero_size")
			x := g.Parameter("x", tensor.Float32, shape)
			outputs := []*Node{
				Roll(x, []int{5}),
				Roll(x, []int{1}, 0),
				RollDynamic(x, g.Constant(one), 0),
				RollDynamic(x, FloorDivScalar(ShapeOf(x), 2), allAxes...),
			}
			require.NoError(t, g.Err())

			exec, err := g.Compile(cpu.New(), outputs...)
			require.NoError(t, err)
			raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
			require.NoError(t, err)
			results, err := exec.Run(context.Background(), map[string]*tensor.RawTensor{"x": raw})
			require.NoError(t, err)
			require.Len(t, results, len(outputs))
			for i, out := range results {
				assert.Equal(t, shape, out.Shape(), "output %d", i)
				assert.Zero(t, out.NumElements(), "output %d", i)
			}
		})
	}
}

func TestExecutable_OutputsDoNotAlias(t *testing.T) {
	g := New("alias")
	x := g.Parameter("x", tensor.Int32, tensor.Shape{3})
	c := g.Constant(arange(t, 3, tensor.Int32, tensor.Shape{3}))
	y := Roll(x, []int{1})
	require.NoError(t, g.Err())

	exec, err := g.Compile(cpu.New(), x, c, y)
	require.NoError(t, err)
	raw := arange(t, 3, tensor.Int32, tensor.Shape{3})
	feeds := map[string]*tensor.RawTensor{"x": raw}

	outputs, err := exec.Run(context.Background(), feeds)
	require.NoError(t, err)
	assert.NotSame(t, raw, outputs[0])
	assert.Equal(t, []int32{0, 1, 2}, outputs[0].AsInt32())

	outputs[0].AsInt32()[0] = 100
	outputs[1].AsInt32()[0] = 100
	assert.Equal(t, []int32{0, 1, 2}, raw.AsInt32())

	again, err := exec.Run(context.Background(), feeds)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 2}, again[1].AsInt32())
	assert.Equal(t, []int32{2, 0, 1}, again[2].AsInt32())
}
