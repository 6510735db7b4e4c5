// Package graph implements a last-write-wins element graph: a directed graph
// whose nodes and edges are two independent LWW sets.
//
// An edge can only be added between existing nodes and a node can only be
// removed once no edge uses it. Both rules are checked on local changes
// only. Merging unions the two sets without checking them again, so a
// merged graph may hold edges whose endpoints are gone; see Dangling.
package graph

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/kevinxiao27/lww-graph/lww"
	"github.com/kevinxiao27/lww-graph/util"
	"github.com/sanity-io/litter"
)

type Graph[T comparable] struct {
	nodes *lww.Set[T]
	edges *lww.Set[lww.Pair[T, T]]
}

var _ lww.Replicatable[Entry[string], *Graph[string]] = (*Graph[string])(nil)

// New returns an empty graph. Nodes and edges share c; a nil clock falls
// back to a hybrid logical clock.
func New[T comparable](c clock.Clock) *Graph[T] {
	if c == nil {
		c = clock.NewHybrid()
	}
	return &Graph[T]{
		nodes: lww.NewSet[T](c),
		edges: lww.NewSet[lww.Pair[T, T]](c),
	}
}

func (g *Graph[T]) Clock() clock.Clock {
	return g.nodes.Clock()
}

func (g *Graph[T]) Add(e Entry[T]) error {
	switch e.Kind {
	case KindNode:
		return g.nodes.Add(e.From)
	case KindEdge:
		if !g.nodes.Contains(e.From) {
			return &DependentNotFoundError[T]{Entry: Node(e.From)}
		}
		if !g.nodes.Contains(e.To) {
			return &DependentNotFoundError[T]{Entry: Node(e.To)}
		}
		return g.edges.Add(e.pair())
	}
	return ErrInvalidEntry
}

// Remove fails with a DependentFoundError naming the first edge, in
// canonical order, that still starts or ends at a removed node. Removing an
// entry that is not in the graph records the tombstone and returns
// lww.ErrElementDoesNotExist.
func (g *Graph[T]) Remove(e Entry[T]) error {
	switch e.Kind {
	case KindNode:
		n := e.From
		blocking, found := util.Find(g.edges.Elements(), func(p lww.Pair[T, T]) bool {
			return p.First == n || p.Second == n
		})
		if found {
			return &DependentFoundError[T]{Entry: Edge(blocking.First, blocking.Second)}
		}
		return g.nodes.Remove(n)
	case KindEdge:
		return g.edges.Remove(e.pair())
	}
	return ErrInvalidEntry
}

func (g *Graph[T]) Contains(e Entry[T]) bool {
	switch e.Kind {
	case KindNode:
		return g.nodes.Contains(e.From)
	case KindEdge:
		return g.edges.Contains(e.pair())
	}
	return false
}

func (g *Graph[T]) Nodes() []T {
	return g.nodes.Elements()
}

func (g *Graph[T]) Edges() []lww.Pair[T, T] {
	return g.edges.Elements()
}

// Elements lists nodes first, then edges, each in canonical order.
func (g *Graph[T]) Elements() []Entry[T] {
	entries := util.Map(g.Nodes(), Node[T])
	return append(entries, util.Map(g.Edges(), func(p lww.Pair[T, T]) Entry[T] {
		return Edge(p.First, p.Second)
	})...)
}

func (g *Graph[T]) All() mapset.Set[Entry[T]] {
	return mapset.NewSet(g.Elements()...)
}

// Dangling returns the edges that are members while one of their endpoints
// is not. Only merges can produce them.
func (g *Graph[T]) Dangling() []lww.Pair[T, T] {
	return util.Filter(g.Edges(), func(p lww.Pair[T, T]) bool {
		return !g.nodes.Contains(p.First) || !g.nodes.Contains(p.Second)
	})
}

// Merging merges nodes with nodes and edges with edges.
func (g *Graph[T]) Merging(other *Graph[T]) *Graph[T] {
	return &Graph[T]{
		nodes: g.nodes.Merging(other.nodes),
		edges: g.edges.Merging(other.edges),
	}
}

func (g *Graph[T]) Equal(other *Graph[T]) bool {
	return g.All().Equal(other.All())
}

func (g *Graph[T]) String() string {
	edges := util.Map(g.Edges(), func(p lww.Pair[T, T]) string {
		return p.String()
	})
	return strings.Join([]string{
		"Nodes:", g.nodes.String(),
		"Edges:", strings.Join(edges, " "),
	}, "\n")
}

func (g *Graph[T]) Dump() string {
	return litter.Sdump(g.State())
}
