// Package lww implements a last-write-wins element set.
//
// Every element carries the tag of its latest addition and of its latest
// removal. Removal tags are tombstones and are never dropped, so merging
// replicas in any order converges on the same membership.
package lww

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/kevinxiao27/lww-graph/util"
	"github.com/sanity-io/litter"
)

type Set[E comparable] struct {
	clock     clock.Clock
	additions map[E]clock.Tag
	removals  map[E]clock.Tag
	order     []E // first time each element was recorded
}

// NewSet returns an empty set stamping its operations with c. A nil clock
// falls back to a hybrid logical clock.
func NewSet[E comparable](c clock.Clock) *Set[E] {
	if c == nil {
		c = clock.NewHybrid()
	}
	return &Set[E]{
		clock:     c,
		additions: make(map[E]clock.Tag),
		removals:  make(map[E]clock.Tag),
		order:     []E{},
	}
}

func (s *Set[E]) Clock() clock.Clock {
	return s.clock
}

func (s *Set[E]) known(e E) bool {
	_, added := s.additions[e]
	_, removed := s.removals[e]
	return added || removed
}

func (s *Set[E]) track(e E) {
	if !s.known(e) {
		s.order = append(s.order, e)
	}
}

// Add never fails.
func (s *Set[E]) Add(e E) error {
	s.track(e)
	s.additions[e] = s.clock.Now()
	return nil
}

// Remove records a tombstone for e even when e is not a member, in which
// case ErrElementDoesNotExist is returned as well.
func (s *Set[E]) Remove(e E) error {
	existed := s.Contains(e)
	s.track(e)
	s.removals[e] = s.clock.Now()
	if !existed {
		return ErrElementDoesNotExist
	}
	return nil
}

// Contains reports membership. An addition and removal with the same tag
// leave the element in the set.
func (s *Set[E]) Contains(e E) bool {
	added, ok := s.additions[e]
	if !ok {
		return false
	}
	removed, ok := s.removals[e]
	if !ok {
		return true
	}
	return !added.Less(removed)
}

func (s *Set[E]) AddedAt(e E) (clock.Tag, bool) {
	tag, ok := s.additions[e]
	return tag, ok
}

func (s *Set[E]) RemovedAt(e E) (clock.Tag, bool) {
	tag, ok := s.removals[e]
	return tag, ok
}

// Elements returns the members in the order they were first recorded.
func (s *Set[E]) Elements() []E {
	return util.Filter(s.order, s.Contains)
}

func (s *Set[E]) All() mapset.Set[E] {
	return mapset.NewSet(s.Elements()...)
}

func (s *Set[E]) Len() int {
	return len(s.Elements())
}

// Merging returns the union of both replicas, keeping the greater tag for
// every element. Neither s nor other is modified; the result shares the
// clock of s.
func (s *Set[E]) Merging(other *Set[E]) *Set[E] {
	merged := NewSet[E](s.clock)
	seen := make(map[E]struct{}, len(s.order))
	for _, order := range [][]E{s.order, other.order} {
		for _, e := range order {
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			merged.order = append(merged.order, e)
		}
	}
	mergeTags(merged.additions, s.additions, other.additions)
	mergeTags(merged.removals, s.removals, other.removals)
	return merged
}

func mergeTags[E comparable](dst map[E]clock.Tag, sources ...map[E]clock.Tag) {
	for _, src := range sources {
		for e, tag := range src {
			if cur, ok := dst[e]; ok {
				tag = clock.Max(cur, tag)
			}
			dst[e] = tag
		}
	}
}

// Equal compares membership only.
func (s *Set[E]) Equal(other *Set[E]) bool {
	return s.All().Equal(other.All())
}

func (s *Set[E]) String() string {
	return strings.Join(util.Map(s.Elements(), func(e E) string {
		return fmt.Sprint(e)
	}), " ")
}

// Dump pretty prints the full tagged state, tombstones included.
func (s *Set[E]) Dump() string {
	return litter.Sdump(s.State())
}
