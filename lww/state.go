package lww

import (
	"github.com/kevinxiao27/lww-graph/clock"
	"github.com/kevinxiao27/lww-graph/util"
)

// Record is one tagged entry of a set snapshot.
type Record[E comparable] struct {
	Element E         `json:"element"`
	Tag     clock.Tag `json:"tag"`
}

// State is a full snapshot of a set, additions and tombstones alike, in the
// set's canonical order. It is what replicas exchange.
type State[E comparable] struct {
	Additions []Record[E] `json:"additions"`
	Removals  []Record[E] `json:"removals"`
}

func (s *Set[E]) State() State[E] {
	st := State[E]{Additions: []Record[E]{}, Removals: []Record[E]{}}
	for _, e := range s.order {
		if tag, ok := s.additions[e]; ok {
			st.Additions = append(st.Additions, Record[E]{Element: e, Tag: tag})
		}
		if tag, ok := s.removals[e]; ok {
			st.Removals = append(st.Removals, Record[E]{Element: e, Tag: tag})
		}
	}
	return st
}

// FromState rebuilds a set from a snapshot. Duplicate records keep the
// greatest tag.
func FromState[E comparable](c clock.Clock, st State[E]) *Set[E] {
	s := NewSet[E](c)
	load := func(dst map[E]clock.Tag, records []Record[E]) {
		for _, r := range records {
			s.track(r.Element)
			mergeTags(dst, map[E]clock.Tag{r.Element: r.Tag})
		}
	}
	load(s.additions, st.Additions)
	load(s.removals, st.Removals)
	return s
}

// MaxTag is the greatest tag in the snapshot, zero when it is empty.
func (st State[E]) MaxTag() clock.Tag {
	latest := func(r Record[E], top clock.Tag) clock.Tag {
		return clock.Max(top, r.Tag)
	}
	return util.Reduce(st.Removals, latest, util.Reduce(st.Additions, latest, clock.Tag(0)))
}
