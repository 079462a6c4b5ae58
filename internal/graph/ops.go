package graph

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/born-ml/rollkit/internal/tensor"
)

// validateInputs checks that every input is a valid node of the same graph
// and returns that graph. On failure the error is recorded on the graph of the
// first non-nil input and nil is returned.
func validateInputs(op string, inputs ...*Node) *Graph {
	var g *Graph
	for _, n := range inputs {
		if n != nil && n.graph != nil {
			g = n.graph
			break
		}
	}
	if g == nil || !g.Ok() {
		return nil
	}
	for i, n := range inputs {
		switch {
		case n == nil || n.graph == nil:
			g.SetErrorf("%s: input #%d is nil", op, i)
			return nil
		case n.graph != g:
			g.SetErrorf("%s: input #%d belongs to graph %q, not %q", op, i, n.graph.name, g.name)
			return nil
		case !n.IsValid():
			g.SetErrorf("%s: input #%d is invalid", op, i)
			return nil
		}
	}
	return g
}

// invalidFor returns the invalid node of whichever graph the inputs belong to.
func invalidFor(inputs ...*Node) *Node {
	for _, n := range inputs {
		if n != nil && n.graph != nil {
			return n.graph.invalidNode()
		}
	}
	return &Node{id: InvalidNodeId}
}

// Parameter declares an input fed at execution time. Dimensions may be
// DynamicDim. Parameter names must be unique within the graph.
func (g *Graph) Parameter(name string, dtype tensor.DataType, shape tensor.Shape) *Node {
	if !g.Ok() {
		return g.invalidNode()
	}
	if name == "" {
		g.SetErrorf("parameter: empty name")
		return g.invalidNode()
	}
	if _, found := g.parameterByName[name]; found {
		g.SetErrorf("parameter: %q already defined in graph %q", name, g.name)
		return g.invalidNode()
	}
	if err := checkShape(shape); err != nil {
		g.SetError(errors.WithMessagef(err, "parameter %q", name))
		return g.invalidNode()
	}
	node := g.registerNode(&Node{
		typ:   NodeTypeParameter,
		dtype: dtype,
		shape: shape.Clone(),
		name:  name,
	})
	g.parameters = append(g.parameters, node)
	g.parameterByName[name] = node
	return node
}

// Constant embeds value in the graph. The tensor is copied.
func (g *Graph) Constant(value *tensor.RawTensor) *Node {
	if !g.Ok() {
		return g.invalidNode()
	}
	if value == nil {
		g.SetErrorf("constant: nil value")
		return g.invalidNode()
	}
	return g.registerNode(&Node{
		typ:   NodeTypeConstant,
		dtype: value.DType(),
		shape: value.Shape().Clone(),
		value: value.Copy(),
	})
}

// ShapeOf returns x's runtime shape as a rank-1 Int64 node with one entry per dimension.
func ShapeOf(x *Node) *Node {
	g := validateInputs("ShapeOf", x)
	if g == nil {
		return invalidFor(x)
	}
	return g.registerNode(&Node{
		typ:    NodeTypeShapeOf,
		dtype:  tensor.Int64,
		shape:  tensor.Shape{x.Rank()},
		inputs: []*Node{x},
	})
}

// FloorDivScalar divides an Int32 or Int64 node by divisor, rounding toward
// negative infinity.
func FloorDivScalar(x *Node, divisor int64) *Node {
	g := validateInputs("FloorDivScalar", x)
	if g == nil {
		return invalidFor(x)
	}
	shape, err := floorDivShape(x, divisor)
	if err != nil {
		g.SetError(errors.WithStack(err))
		return g.invalidNode()
	}
	return g.registerNode(&Node{
		typ:     NodeTypeFloorDiv,
		dtype:   x.dtype,
		shape:   shape,
		inputs:  []*Node{x},
		divisor: divisor,
	})
}

// Roll circularly shifts x by literal shifts along axes. With no axes x is
// rolled as one flattened sequence and a single shift is expected.
// Invalid axes or shift counts fail here, at graph building time.
func Roll(x *Node, shifts []int, axes ...int) *Node {
	g := validateInputs("Roll", x)
	if g == nil {
		return invalidFor(x)
	}
	shape, err := rollShape(x.shape, len(shifts), axes)
	if err != nil {
		g.SetError(errors.WithStack(err))
		return g.invalidNode()
	}
	return g.registerNode(&Node{
		typ:    NodeTypeRoll,
		dtype:  x.dtype,
		shape:  shape,
		inputs: []*Node{x},
		shifts: slices.Clone(shifts),
		axes:   slices.Clone(axes),
	})
}

// RollDynamic is Roll with shifts computed by another node, e.g.
// FloorDivScalar(ShapeOf(x), 2). shifts must be an Int32 or Int64 node of
// rank 0 or 1; its values are read when the graph runs.
func RollDynamic(x, shifts *Node, axes ...int) *Node {
	g := validateInputs("RollDynamic", x, shifts)
	if g == nil {
		return invalidFor(x, shifts)
	}
	shape, err := rollDynamicShape(x, shifts, axes)
	if err != nil {
		g.SetError(errors.WithStack(err))
		return g.invalidNode()
	}
	return g.registerNode(&Node{
		typ:    NodeTypeRollDynamic,
		dtype:  x.dtype,
		shape:  shape,
		inputs: []*Node{x, shifts},
		axes:   slices.Clone(axes),
	})
}
