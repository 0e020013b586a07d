// Package setutil provides a small generic set for id collections.
package setutil

// Set is an unordered collection of distinct values.
type Set[T comparable] struct {
	items map[T]struct{}
}

func New[T comparable](values ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(values))}
	s.AddAll(values)
	return s
}

func (s *Set[T]) Add(v T) {
	s.items[v] = struct{}{}
}

func (s *Set[T]) AddAll(values []T) {
	for _, v := range values {
		s.items[v] = struct{}{}
	}
}

func (s *Set[T]) Has(v T) bool {
	_, ok := s.items[v]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.items)
}

// Difference returns the values of ordered that are not in s, keeping the
// order of ordered and dropping repeats.
func (s *Set[T]) Difference(ordered []T) []T {
	seen := make(map[T]struct{}, len(ordered))
	out := make([]T, 0, len(ordered))
	for _, v := range ordered {
		if s.Has(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Unique returns values with repeats removed, first occurrence wins.
func Unique[T comparable](values []T) []T {
	return New[T]().Difference(values)
}
