// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph builds static computation graphs around roll. Shapes are
// inferred and arguments validated while the graph is built; values are only
// read when a compiled Executable runs.
//
// Example:
//
//	g := graph.New("center")
//	x := g.Parameter("x", tensor.Int64, tensor.Shape{graph.DynamicDim, 3})
//	y := graph.RollDynamic(x, graph.FloorDivScalar(graph.ShapeOf(x), 2), 0, 1)
//	if err := g.Err(); err != nil {
//	    return err
//	}
//	exec, err := g.Compile(cpu.New(), y)
//	outputs, err := exec.Run(ctx, map[string]*tensor.RawTensor{"x": raw})
package graph

import (
	"github.com/born-ml/rollkit/internal/graph"
	"github.com/born-ml/rollkit/internal/tensor"
)

// DynamicDim marks a dimension whose size is only known when the graph runs.
const DynamicDim = graph.DynamicDim

// Graph holds nodes and the first error raised while building them.
type Graph = graph.Graph

// Node is the result of an operation in a Graph.
type Node = graph.Node

// Executable is a graph compiled for a backend.
type Executable = graph.Executable

// Errors returned by Executable.Run.
var (
	ErrUnknownParameter = graph.ErrUnknownParameter
	ErrMissingFeed      = graph.ErrMissingFeed
	ErrFeedShape        = graph.ErrFeedShape
)

// New creates an empty graph.
func New(name string) *Graph {
	return graph.New(name)
}

// ShapeOf returns x's runtime shape as a rank-1 Int64 node.
func ShapeOf(x *Node) *Node {
	return graph.ShapeOf(x)
}

// FloorDivScalar divides an integer node by divisor, rounding toward negative infinity.
func FloorDivScalar(x *Node, divisor int64) *Node {
	return graph.FloorDivScalar(x, divisor)
}

// Roll circularly shifts x by literal shifts along axes.
func Roll(x *Node, shifts []int, axes ...int) *Node {
	return graph.Roll(x, shifts, axes...)
}

// RollDynamic circularly shifts x by shifts computed in the graph.
func RollDynamic(x, shifts *Node, axes ...int) *Node {
	return graph.RollDynamic(x, shifts, axes...)
}

// Compile is a convenience for g.Compile(backend, outputs...).
func Compile(g *Graph, backend tensor.Backend, outputs ...*Node) (*Executable, error) {
	return g.Compile(backend, outputs...)
}
