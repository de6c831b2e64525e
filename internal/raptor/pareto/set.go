// Package pareto keeps sets of mutually non-dominated values.
package pareto

import (
	"iter"
	"slices"
)

// Dominates reports whether a is at least as good as b in every criterion.
// For values equal in every criterion it returns true, so the value already
// in a set wins over an equal newcomer.
type Dominates[T any] func(a, b T) bool

// Set holds values none of which dominates another. The zero value is not
// usable; create sets with New.
type Set[T any] struct {
	dominates Dominates[T]
	items     []T
}

func New[T any](dominates Dominates[T]) *Set[T] {
	return &Set[T]{dominates: dominates}
}

// Add inserts v unless a value in the set dominates it, and drops every
// value v dominates. It reports whether v was inserted.
func (s *Set[T]) Add(v T) bool {
	if s.Dominated(v) {
		return false
	}
	s.items = slices.DeleteFunc(s.items, func(item T) bool {
		return s.dominates(v, item)
	})
	s.items = append(s.items, v)
	return true
}

// Dominated reports whether some value in the set dominates v.
func (s *Set[T]) Dominated(v T) bool {
	for _, item := range s.items {
		if s.dominates(item, v) {
			return true
		}
	}
	return false
}

// Items returns the values in insertion order. The slice is owned by the
// set and is only valid until the next Add or Clear.
func (s *Set[T]) Items() []T {
	return s.items
}

func (s *Set[T]) All() iter.Seq[T] {
	return slices.Values(s.items)
}

func (s *Set[T]) Len() int {
	return len(s.items)
}

func (s *Set[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}
