package graph

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/rollkit/internal/tensor"
)

// Feed errors reported by Executable.Run.
var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrMissingFeed      = errors.New("missing feed")
	ErrFeedShape        = errors.New("feed does not match parameter")
)

// Executable is a graph bound to a backend, ready to run.
//
// It keeps no state between runs, so Run may be called concurrently.
type Executable struct {
	graph   *Graph
	backend tensor.Backend
	outputs []*Node
	order   []*Node // nodes the outputs depend on, in creation order
	params  []*Node // parameters the outputs depend on
}

// Compile prepares the computation of outputs on backend.
//
// It fails with the graph's building error if there is one, and with
// tensor.ErrUnsupportedDType when a node's dtype is not in the backend's
// Capabilities.
func (g *Graph) Compile(backend tensor.Backend, outputs ...*Node) (*Executable, error) {
	if !g.Ok() {
		return nil, errors.WithMessagef(g.Err(), "compile graph %q", g.name)
	}
	if len(outputs) == 0 {
		return nil, errors.Errorf("compile graph %q: no outputs", g.name)
	}
	for i, out := range outputs {
		if out == nil || out.graph != g || !out.IsValid() {
			return nil, errors.Errorf("compile graph %q: output #%d is not a valid node of this graph", g.name, i)
		}
	}

	needed := make([]bool, len(g.nodes))
	var mark func(n *Node)
	mark = func(n *Node) {
		if needed[n.id] {
			return
		}
		needed[n.id] = true
		for _, in := range n.inputs {
			mark(in)
		}
	}
	for _, out := range outputs {
		mark(out)
	}

	e := &Executable{graph: g, backend: backend, outputs: outputs}
	caps := backend.Capabilities()
	for _, n := range g.nodes {
		if !needed[n.id] {
			continue
		}
		if !caps.Supports(n.dtype) {
			return nil, errors.Wrapf(tensor.ErrUnsupportedDType,
				"compile graph %q: backend %s cannot run %s", g.name, backend.Name(), n)
		}
		e.order = append(e.order, n)
		if n.typ == NodeTypeParameter {
			e.params = append(e.params, n)
		}
	}

	klog.V(1).Infof("graph %q: compiled %d of %d nodes for backend %s",
		g.name, len(e.order), len(g.nodes), backend.Name())
	return e, nil
}

// Graph returns the compiled graph.
func (e *Executable) Graph() *Graph {
	return e.graph
}

// Backend returns the backend the graph runs on.
func (e *Executable) Backend() tensor.Backend {
	return e.backend
}

// ParameterNames returns the names of the parameters Run expects, sorted.
func (e *Executable) ParameterNames() []string {
	names := make([]string, len(e.params))
	for i, p := range e.params {
		names[i] = p.name
	}
	sort.Strings(names)
	return names
}

// Run evaluates the outputs for the given feeds, keyed by parameter name.
//
// Every parameter the outputs depend on must be fed with its declared dtype
// and a shape matching the declared one, where DynamicDim matches any size.
// Cancelling ctx stops the evaluation between nodes. Outputs never share a
// buffer with a feed or a constant.
func (e *Executable) Run(ctx context.Context, feeds map[string]*tensor.RawTensor) ([]*tensor.RawTensor, error) {
	if err := e.checkFeeds(feeds); err != nil {
		return nil, err
	}

	values := make([]*tensor.RawTensor, len(e.graph.nodes))
	for _, n := range e.order {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "graph %q: interrupted before %s", e.graph.name, n)
		}
		v, err := e.eval(n, values, feeds)
		if err != nil {
			return nil, errors.WithMessagef(err, "graph %q: %s", e.graph.name, n)
		}
		klog.V(2).Infof("graph %q: %s -> %s%v", e.graph.name, n, v.DType(), v.Shape())
		values[n.id] = v
	}

	results := make([]*tensor.RawTensor, len(e.outputs))
	for i, out := range e.outputs {
		results[i] = values[out.id]
		if out.typ == NodeTypeParameter || out.typ == NodeTypeConstant {
			results[i] = results[i].Copy()
		}
	}
	return results, nil
}

func (e *Executable) checkFeeds(feeds map[string]*tensor.RawTensor) error {
	names := make([]string, 0, len(feeds))
	for name := range feeds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if e.graph.parameterByName[name] == nil {
			return errors.Wrapf(ErrUnknownParameter, "graph %q has no parameter %q", e.graph.name, name)
		}
	}

	for _, p := range e.params {
		value, found := feeds[p.name]
		if !found || value == nil {
			return errors.Wrapf(ErrMissingFeed, "graph %q: parameter %q", e.graph.name, p.name)
		}
		if value.DType() != p.dtype {
			return errors.Wrapf(ErrFeedShape, "parameter %q: got dtype %s, want %s", p.name, value.DType(), p.dtype)
		}
		if !shapeMatches(p.shape, value.Shape()) {
			return errors.Wrapf(ErrFeedShape, "parameter %q: got shape %v, want %v", p.name, value.Shape(), p.shape)
		}
	}
	return nil
}

// shapeMatches compares a declared shape, possibly with DynamicDim entries,
// against a concrete one.
func shapeMatches(declared, actual tensor.Shape) bool {
	if len(declared) != len(actual) {
		return false
	}
	for i, d := range declared {
		if d != DynamicDim && d != actual[i] {
			return false
		}
	}
	return true
}

func (e *Executable) eval(n *Node, values []*tensor.RawTensor, feeds map[string]*tensor.RawTensor) (*tensor.RawTensor, error) {
	input := func(i int) *tensor.RawTensor { return values[n.inputs[i].id] }

	switch n.typ {
	case NodeTypeParameter:
		return feeds[n.name], nil
	case NodeTypeConstant:
		return n.value, nil
	case NodeTypeShapeOf:
		return tensor.ShapeTensor(input(0).Shape(), e.backend.Device()), nil
	case NodeTypeFloorDiv:
		return tensor.FloorDiv(input(0), n.divisor)
	case NodeTypeRoll:
		return e.backend.Roll(input(0), n.shifts, n.axes)
	case NodeTypeRollDynamic:
		shifts, err := tensor.ShiftsFromRaw(input(1))
		if err != nil {
			return nil, err
		}
		return e.backend.Roll(input(0), shifts, n.axes)
	default:
		return nil, errors.Errorf("cannot evaluate node type %s", n.typ)
	}
}
