package stack

import (
	"errors"
)

var ErrEmptyStack = errors.New("empty stack")

// Stack is a slice-backed stack whose slots are reused after Pop. Pushing
// onto a previously used slot resets it to the zero value instead of
// allocating, so a walk only allocates up to the deepest level it has seen.
//
// Pointers returned by Push, Top and At stay valid until the next Push.
type Stack[T any] struct {
	s   []T
	len int
}

func New[T any](initialSize int) *Stack[T] {
	return &Stack[T]{s: make([]T, 0, initialSize)}
}

// Push appends a zeroed slot and returns it.
func (s *Stack[T]) Push() *T {
	var zero T
	if s.len == len(s.s) {
		s.s = append(s.s, zero)
	} else {
		s.s[s.len] = zero
	}
	s.len++
	return &s.s[s.len-1]
}

func (s *Stack[T]) Pop() *T {
	if s.len == 0 {
		panic(ErrEmptyStack)
	}
	s.len--
	return &s.s[s.len]
}

func (s *Stack[T]) Top() *T {
	if s.len == 0 {
		panic(ErrEmptyStack)
	}
	return &s.s[s.len-1]
}

// At returns the slot at depth i counted from the bottom.
func (s *Stack[T]) At(i int) *T {
	if i < 0 || i >= s.len {
		panic(ErrEmptyStack)
	}
	return &s.s[i]
}

func (s *Stack[T]) Size() int {
	return s.len
}

// Capacity is the number of slots allocated so far.
func (s *Stack[T]) Capacity() int {
	return len(s.s)
}

// Reset empties the stack and keeps the slots for reuse.
func (s *Stack[T]) Reset() {
	s.len = 0
}
