package lww

import mapset "github.com/deckarep/golang-set/v2"

// Replicatable is a collection whose replicas accept local changes
// independently and reconcile through Merging.
type Replicatable[E comparable, R any] interface {
	All() mapset.Set[E]
	Add(e E) error
	Remove(e E) error
	Contains(e E) bool
	Merging(other R) R
	Equal(other R) bool
}

var _ Replicatable[string, *Set[string]] = (*Set[string])(nil)

// MergeAll folds every replica into first.
func MergeAll[E comparable, R Replicatable[E, R]](first R, rest ...R) R {
	merged := first
	for _, r := range rest {
		merged = merged.Merging(r)
	}
	return merged
}
