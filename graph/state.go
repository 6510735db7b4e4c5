package graph

import (
	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/kevinxiao27/lww-graph/lww"
)

// State is a full snapshot of a graph.
type State[T comparable] struct {
	Nodes lww.State[T]              `json:"nodes"`
	Edges lww.State[lww.Pair[T, T]] `json:"edges"`
}

func (g *Graph[T]) State() State[T] {
	return State[T]{
		Nodes: g.nodes.State(),
		Edges: g.edges.State(),
	}
}

func FromState[T comparable](c clock.Clock, st State[T]) *Graph[T] {
	if c == nil {
		c = clock.NewHybrid()
	}
	return &Graph[T]{
		nodes: lww.FromState(c, st.Nodes),
		edges: lww.FromState(c, st.Edges),
	}
}

func (st State[T]) MaxTag() clock.Tag {
	return clock.Max(st.Nodes.MaxTag(), st.Edges.MaxTag())
}
