package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/born-ml/rollkit/autodiff"
	"github.com/born-ml/rollkit/backend/cpu"
	"github.com/born-ml/rollkit/tensor"
)

type rollOptions struct {
	shape  string
	shifts string
	axes   string
	dtype  string
	values string
	grad   bool
}

func newRollCmd() *cobra.Command {
	var opts rollOptions

	cmd := &cobra.Command{
		Use:   "roll",
		Short: "Roll a tensor along axes",
		Long: `Roll circularly shifts a tensor. Without --axis the tensor is rolled as
one flat row-major sequence. Values default to 1, 2, ... in row-major order.`,
		Example: `  rollkit roll --shape 3,3 --shifts 1
  rollkit roll --shape 3,3 --shifts 1,-1 --axis 0,1 --dtype int32 --grad`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoll(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.shape, "shape", "3,3", "Tensor shape, comma separated")
	cmd.Flags().StringVar(&opts.shifts, "shifts", "1", "Shift per axis, comma separated")
	cmd.Flags().StringVar(&opts.axes, "axis", "", "Axes to roll, comma separated (empty rolls the flattened tensor)")
	cmd.Flags().StringVar(&opts.dtype, "dtype", "float32", "Element type")
	cmd.Flags().StringVar(&opts.values, "values", "", "Tensor values, comma separated")
	cmd.Flags().BoolVar(&opts.grad, "grad", false, "Also print the gradient flowing back through the roll")
	return cmd
}

func runRoll(w io.Writer, opts rollOptions) error {
	dims, err := parseInts(opts.shape)
	if err != nil {
		return errors.Wrap(err, "--shape")
	}
	shape := tensor.Shape(dims)
	if err := shape.Validate(); err != nil {
		return errors.Wrap(err, "--shape")
	}
	shifts, err := parseInts(opts.shifts)
	if err != nil {
		return errors.Wrap(err, "--shifts")
	}
	axes, err := parseInts(opts.axes)
	if err != nil {
		return errors.Wrap(err, "--axis")
	}
	dtype, ok := tensor.ParseDataType(opts.dtype)
	if !ok {
		return errors.Errorf("--dtype: unknown type %q", opts.dtype)
	}

	values, err := parseValues(opts.values, shape.NumElements())
	if err != nil {
		return errors.Wrap(err, "--values")
	}
	x, err := tensor.FromFloat64s(values, shape, dtype, tensor.CPU)
	if err != nil {
		return err
	}
	klog.V(1).Infof("input %s%v (%s)", dtype, shape, humanize.Bytes(uint64(x.ByteSize())))

	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	y, err := backend.Roll(x, shifts, axes)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "input:")
	printTensor(w, x)
	fmt.Fprintln(w, "rolled:")
	printTensor(w, y)

	if !opts.grad {
		return nil
	}
	// Seeding with 1, 2, ... shows where each output gradient lands.
	seed, err := tensor.FromFloat64s(arange(y.NumElements()), y.Shape(), y.DType(), tensor.CPU)
	if err != nil {
		return err
	}
	grads := backend.Tape().Backward(seed, backend.Inner())
	fmt.Fprintln(w, "output gradient:")
	printTensor(w, seed)
	fmt.Fprintln(w, "input gradient:")
	printTensor(w, grads[x])
	return nil
}

func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Errorf("invalid integer %q", p)
		}
		out[i] = n
	}
	return out, nil
}

func parseValues(s string, n int) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return arange(n), nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.Errorf("got %d values for %d elements", len(parts), n)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Errorf("invalid number %q", p)
		}
		out[i] = v
	}
	return out, nil
}

func arange(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func formatValues(r *tensor.RawTensor) []string {
	vals := tensor.ToFloat64s(r)
	out := make([]string, len(vals))
	for i, v := range vals {
		if r.DType() == tensor.Bool {
			out[i] = strconv.FormatBool(v != 0)
		} else {
			out[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return out
}

// printTensor writes 2-D tensors as a table and anything else on one line.
func printTensor(w io.Writer, r *tensor.RawTensor) {
	cells := formatValues(r)
	shape := r.Shape()
	if len(shape) != 2 || r.NumElements() == 0 {
		fmt.Fprintf(w, "%s%v [%s]\n", r.DType(), shape, strings.Join(cells, " "))
		return
	}

	cols := shape[1]
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding(" ")
	for row := 0; row < shape[0]; row++ {
		table.Append(cells[row*cols : (row+1)*cols])
	}
	table.Render()
}
