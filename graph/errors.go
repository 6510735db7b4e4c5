package graph

import (
	"errors"
	"fmt"
)

var (
	ErrDependentNotFound = errors.New("dependent not found")
	ErrDependentFound    = errors.New("dependent found")
	ErrInvalidEntry      = errors.New("invalid entry")
)

// DependentNotFoundError is returned when an edge is added while one of its
// endpoints is not a node of the graph. Entry is the missing node.
type DependentNotFoundError[T comparable] struct {
	Entry Entry[T]
}

func (e *DependentNotFoundError[T]) Error() string {
	return fmt.Sprintf("dependent %s not found: %s", e.Entry.Kind, e.Entry)
}

func (e *DependentNotFoundError[T]) Is(target error) bool {
	return target == ErrDependentNotFound
}

// DependentFoundError is returned when a node is removed while an edge still
// uses it. Entry is the blocking edge.
type DependentFoundError[T comparable] struct {
	Entry Entry[T]
}

func (e *DependentFoundError[T]) Error() string {
	return fmt.Sprintf("dependent %s found: %s", e.Entry.Kind, e.Entry)
}

func (e *DependentFoundError[T]) Is(target error) bool {
	return target == ErrDependentFound
}
