package lww

import "fmt"

// Pair is an ordered tuple. (a, b) and (b, a) are different pairs.
type Pair[T, U comparable] struct {
	First  T `json:"first"`
	Second U `json:"second"`
}

func MakePair[T, U comparable](first T, second U) Pair[T, U] {
	return Pair[T, U]{First: first, Second: second}
}

func (p Pair[T, U]) Unpack() (T, U) {
	return p.First, p.Second
}

func (p Pair[T, U]) String() string {
	return fmt.Sprintf("%v -> %v", p.First, p.Second)
}
