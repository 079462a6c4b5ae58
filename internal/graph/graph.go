// Package graph builds static computation graphs around the roll kernel and
// executes them on any tensor.Backend.
//
// Building and running are separate steps:
//
//   - Graph building time: Parameter, Constant, ShapeOf, FloorDivScalar, Roll
//     and RollDynamic create nodes. Shapes are inferred right away and invalid
//     axes or shift counts are reported here, without evaluating anything.
//   - Execution time: Compile binds the graph to a backend and Run evaluates it
//     for concrete feeds. Dimensions declared as DynamicDim are resolved from
//     the fed tensors.
//
// ## Deferred error handling
//
// Node creation does not return errors. The first error is stored in the Graph
// and every later op becomes a no-op returning an invalid node. Check Err once
// building is done, or let Compile report it.
//
// Example:
//
//	g := graph.New("center")
//	x := g.Parameter("x", tensor.Int64, tensor.Shape{graph.DynamicDim, 3})
//	half := graph.FloorDivScalar(graph.ShapeOf(x), 2)
//	y := graph.RollDynamic(x, half, 0, 1)
//	exec, err := g.Compile(cpu.New(), y)
//	outputs, err := exec.Run(ctx, map[string]*tensor.RawTensor{"x": raw})
package graph

import (
	"fmt"

	"github.com/pkg/errors"
)

// DynamicDim marks a dimension whose size is only known when the graph runs.
const DynamicDim = -1

// Graph holds the nodes of a computation and the first error raised while
// building it.
type Graph struct {
	err   error
	name  string
	nodes []*Node

	parameters      []*Node
	parameterByName map[string]*Node
}

// New creates an empty graph.
func New(name string) *Graph {
	return &Graph{
		name:            name,
		parameterByName: make(map[string]*Node),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string {
	return g.name
}

// Err returns the first error that happened while building the graph.
func (g *Graph) Err() error {
	if g == nil {
		return errors.New("the Graph is nil")
	}
	return g.err
}

// Ok returns whether there were no errors building the graph so far.
func (g *Graph) Ok() bool { return g != nil && g.err == nil }

// MustOk panics if the graph has an error, printing where it happened.
func (g *Graph) MustOk() {
	if !g.Ok() {
		panic(fmt.Sprintf("Graph failed: %+v", g.Err()))
	}
}

// SetError stores err as the graph error. Only the first error is kept.
func (g *Graph) SetError(err error) {
	if !g.Ok() {
		return
	}
	g.err = err
}

// SetErrorf is similar to SetError, but formats the message and adds a stack trace.
func (g *Graph) SetErrorf(format string, args ...any) {
	if !g.Ok() {
		return
	}
	g.SetError(errors.Errorf(format, args...))
}

// Nodes returns every node in creation order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Parameters returns the parameter nodes in creation order.
func (g *Graph) Parameters() []*Node {
	return g.parameters
}

// ParameterByName returns the parameter called name, or nil.
func (g *Graph) ParameterByName(name string) *Node {
	return g.parameterByName[name]
}

// registerNode assigns the node its id. It returns an invalid node when the
// graph already failed.
func (g *Graph) registerNode(node *Node) *Node {
	if !g.Ok() {
		return g.invalidNode()
	}
	node.graph = g
	node.id = NodeId(len(g.nodes))
	g.nodes = append(g.nodes, node)
	return node
}

func (g *Graph) invalidNode() *Node {
	return &Node{graph: g, id: InvalidNodeId, typ: NodeTypeInvalid}
}
