package stack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type frame struct {
	node  int
	count int
}

func TestStackPushPop(t *testing.T) {
	s := New[frame](2)
	require.Equal(t, 0, s.Size())

	f := s.Push()
	f.node = 1
	f = s.Push()
	f.node = 2
	f.count = 5

	require.Equal(t, 2, s.Size())
	require.Equal(t, 2, s.Top().node)
	require.Equal(t, 1, s.At(0).node)

	require.Equal(t, 2, s.Pop().node)
	require.Equal(t, 1, s.Top().node)
}

func TestStackReusesAndResetsSlots(t *testing.T) {
	s := New[frame](0)
	s.Push().count = 3
	s.Push().count = 4
	s.Pop()
	s.Pop()
	require.Equal(t, 2, s.Capacity())

	f := s.Push()
	require.Equal(t, frame{}, *f)
	s.Push()
	require.Equal(t, 2, s.Capacity())

	s.Reset()
	require.Equal(t, 0, s.Size())
	require.Equal(t, 2, s.Capacity())
}

func TestStackEmptyPanics(t *testing.T) {
	s := New[int](0)
	require.PanicsWithValue(t, ErrEmptyStack, func() { s.Pop() })
	require.PanicsWithValue(t, ErrEmptyStack, func() { s.Top() })
	require.PanicsWithValue(t, ErrEmptyStack, func() { s.At(0) })
}
