// Package crdttest checks the join-semilattice laws every replicated
// collection has to satisfy.
package crdttest

import (
	"testing"

	"github.com/kevinxiao27/lww-graph/lww"
	"github.com/stretchr/testify/assert"
)

// Snapshotter is a replicated collection with a canonical element order
// and a full snapshot of type S.
type Snapshotter[E comparable, S any, R any] interface {
	lww.Replicatable[E, R]
	Elements() []E
	State() S
}

func assertSame[E comparable, R lww.Replicatable[E, R]](t *testing.T, want, got R, msg string) {
	t.Helper()
	assert.True(t, want.Equal(got), "%s: want %v, got %v", msg, want.All(), got.All())
}

func assertCanonical[E comparable, S any, R Snapshotter[E, S, R]](t *testing.T, r R, msg string) {
	t.Helper()
	elements := r.Elements()
	seen := make(map[E]struct{}, len(elements))
	for _, e := range elements {
		_, dup := seen[e]
		assert.False(t, dup, "%s: %v listed twice in %v", msg, e, elements)
		seen[e] = struct{}{}
	}
	assert.Equal(t, r.All().Cardinality(), len(elements), "%s: elements %v", msg, elements)
}

// CheckLaws asserts that merging a, b and c is commutative, associative and
// idempotent, and that merges keep the canonical order free of duplicates
// and leave snapshots unchanged when nothing new arrives.
func CheckLaws[E comparable, S any, R Snapshotter[E, S, R]](t *testing.T, a, b, c R) {
	t.Helper()

	t.Run("commutativity", func(t *testing.T) {
		assertSame[E](t, a.Merging(b), b.Merging(a), "a+b vs b+a")
		assertSame[E](t, a.Merging(c), c.Merging(a), "a+c vs c+a")
		assertSame[E](t, b.Merging(c), c.Merging(b), "b+c vs c+b")
	})

	t.Run("associativity", func(t *testing.T) {
		assertSame[E](t, a.Merging(b).Merging(c), a.Merging(b.Merging(c)), "(a+b)+c vs a+(b+c)")
	})

	t.Run("idempotence", func(t *testing.T) {
		assertSame[E](t, a, a.Merging(a), "a+a")
		abc := lww.MergeAll[E](a, b, c)
		assertSame[E](t, abc, abc.Merging(a), "abc+a")
		assertSame[E](t, abc, abc.Merging(b), "abc+b")
		assertSame[E](t, abc, abc.Merging(c), "abc+c")
	})

	t.Run("canonical order", func(t *testing.T) {
		for name, r := range map[string]R{
			"a+a":     a.Merging(a),
			"a+b":     a.Merging(b),
			"b+a":     b.Merging(a),
			"(a+b)+c": a.Merging(b).Merging(c),
			"a+(b+c)": a.Merging(b.Merging(c)),
		} {
			assertCanonical[E, S](t, r, name)
		}
	})

	t.Run("snapshots", func(t *testing.T) {
		for name, r := range map[string]R{"a": a, "b": b, "c": c} {
			assert.Equal(t, r.State(), r.Merging(r).State(), "%s+%s", name, name)

			again := r
			for i := 0; i < 5; i++ {
				again = again.Merging(r)
			}
			assert.Equal(t, r.State(), again.State(), "%s merged repeatedly", name)
		}

		abc := lww.MergeAll[E](a, b, c)
		for name, r := range map[string]R{"a": a, "b": b, "c": c} {
			assert.Equal(t, abc.State(), abc.Merging(r).State(), "abc+%s", name)
		}
	})
}
