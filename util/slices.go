package util

func Map[T, V any](ts []T, fn func(T) V) []V {
	result := make([]V, 0, len(ts))
	for _, t := range ts {
		result = append(result, fn(t))
	}
	return result
}

func Filter[T any](ts []T, fn func(T) bool) []T {
	result := []T{}
	for _, v := range ts {
		if fn(v) {
			result = append(result, v)
		}
	}
	return result
}

// Reduce folds ts left to right, starting from init.
func Reduce[T, V any](ts []T, fold func(T, V) V, init V) V {
	acc := init
	for _, t := range ts {
		acc = fold(t, acc)
	}
	return acc
}

// Find returns the first element matching fn.
func Find[T any](ts []T, fn func(T) bool) (T, bool) {
	for _, v := range ts {
		if fn(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
