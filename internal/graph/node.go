package graph

import (
	"fmt"
	"strings"

	"github.com/born-ml/rollkit/internal/tensor"
)

// NodeId is the index of a node within its Graph.
type NodeId int

// InvalidNodeId is carried by nodes returned after the graph failed.
const InvalidNodeId = NodeId(-1)

// NodeType identifies the operation a node performs.
type NodeType int

const (
	NodeTypeInvalid NodeType = iota
	NodeTypeParameter
	NodeTypeConstant
	NodeTypeShapeOf
	NodeTypeFloorDiv
	NodeTypeRoll
	NodeTypeRollDynamic
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeParameter:
		return "Parameter"
	case NodeTypeConstant:
		return "Constant"
	case NodeTypeShapeOf:
		return "ShapeOf"
	case NodeTypeFloorDiv:
		return "FloorDiv"
	case NodeTypeRoll:
		return "Roll"
	case NodeTypeRollDynamic:
		return "RollDynamic"
	default:
		return "Invalid"
	}
}

// Node is the result of an operation in a Graph. Its dtype and shape are
// known at graph building time; dimensions may be DynamicDim.
type Node struct {
	graph  *Graph
	id     NodeId
	typ    NodeType
	dtype  tensor.DataType
	shape  tensor.Shape
	inputs []*Node

	name    string            // Parameter
	value   *tensor.RawTensor // Constant
	shifts  []int             // Roll
	axes    []int             // Roll, RollDynamic
	divisor int64             // FloorDiv
}

// Type returns the operation of the node.
func (n *Node) Type() NodeType { return n.typ }

// Graph returns the graph the node belongs to.
func (n *Node) Graph() *Graph { return n.graph }

// Id returns the node index within the graph.
func (n *Node) Id() NodeId { return n.id }

// DType returns the element type of the node's value.
func (n *Node) DType() tensor.DataType { return n.dtype }

// Shape returns the inferred shape. Unknown dimensions are DynamicDim.
func (n *Node) Shape() tensor.Shape { return n.shape }

// Rank returns the number of dimensions.
func (n *Node) Rank() int { return len(n.shape) }

// Inputs returns the nodes this node reads.
func (n *Node) Inputs() []*Node { return n.inputs }

// ParameterName returns the name of a parameter node, "" for other nodes.
func (n *Node) ParameterName() string { return n.name }

// IsValid reports whether the node was created on a healthy graph.
func (n *Node) IsValid() bool { return n != nil && n.id != InvalidNodeId }

// IsDynamic reports whether any dimension is only known at execution time.
func (n *Node) IsDynamic() bool {
	for _, d := range n.shape {
		if d == DynamicDim {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	if !n.IsValid() {
		return "Node(invalid)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", n.id, n.typ)
	if n.name != "" {
		fmt.Fprintf(&b, "(%q)", n.name)
	}
	if len(n.inputs) > 0 {
		ids := make([]string, len(n.inputs))
		for i, in := range n.inputs {
			ids[i] = fmt.Sprintf("#%d", in.id)
		}
		fmt.Fprintf(&b, "[%s]", strings.Join(ids, ", "))
	}
	fmt.Fprintf(&b, ": %s%v", n.dtype, n.shape)
	return b.String()
}
