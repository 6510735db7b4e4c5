package graph

import (
	"fmt"

	"github.com/kevinxiao27/lww-graph/lww"
	"github.com/pkg/errors"
)

type Kind int

const (
	KindNode Kind = iota + 1
	KindEdge
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	switch s {
	case "node":
		return KindNode, nil
	case "edge":
		return KindEdge, nil
	}
	return 0, errors.Errorf("unknown entry kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Entry names either a node or a directed edge of a graph. A node only
// uses From. Build entries with Node and Edge; the zero Entry is invalid.
type Entry[T comparable] struct {
	Kind Kind `json:"kind"`
	From T    `json:"from"`
	To   T    `json:"to"`
}

func Node[T comparable](n T) Entry[T] {
	return Entry[T]{Kind: KindNode, From: n}
}

func Edge[T comparable](from, to T) Entry[T] {
	return Entry[T]{Kind: KindEdge, From: from, To: to}
}

func (e Entry[T]) pair() lww.Pair[T, T] {
	return lww.MakePair(e.From, e.To)
}

func (e Entry[T]) String() string {
	switch e.Kind {
	case KindNode:
		return fmt.Sprint(e.From)
	case KindEdge:
		return fmt.Sprintf("(%v,%v)", e.From, e.To)
	}
	return e.Kind.String()
}
