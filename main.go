package main

import (
	"fmt"

	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/kevinxiao27/lww-graph/graph"
	"github.com/sanity-io/litter"
)

func main() {
	litter.Config.HidePrivateFields = false
	c := clock.NewCounter()

	a := graph.New[int](c)
	a.Add(graph.Node(1))
	a.Add(graph.Node(2))
	a.Add(graph.Node(3))
	a.Add(graph.Edge(1, 2))
	a.Add(graph.Edge(2, 1))

	b := graph.New[int](c)
	b.Add(graph.Node(1))
	b.Add(graph.Node(2))
	if err := b.Remove(graph.Node(3)); err != nil {
		fmt.Printf("b: remove node 3: %v\n", err)
	}
	b.Add(graph.Edge(1, 2))
	if err := b.Remove(graph.Edge(2, 1)); err != nil {
		fmt.Printf("b: remove edge (2,1): %v\n", err)
	}
	b.Add(graph.Node(4))
	b.Add(graph.Node(5))
	b.Add(graph.Edge(4, 5))

	if err := b.Remove(graph.Node(4)); err != nil {
		fmt.Printf("b: remove node 4: %v\n", err)
	}

	ab := a.Merging(b)
	ba := b.Merging(a)

	fmt.Println(ab)
	fmt.Printf("a+b == b+a: %v\n", ab.Equal(ba))
	fmt.Println(litter.Sdump(ab.All().ToSlice()))
	fmt.Println(ab.Dump())
}
