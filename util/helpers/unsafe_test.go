package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type pod struct {
	A uint32
	B int16
	C [2]uint8
}

type withPtr struct {
	A int
	P *int
}

func TestBytesofRoundTrip(t *testing.T) {
	src := pod{A: 0xDEADBEEF, B: -3, C: [2]uint8{7, 9}}
	b := Bytesof(&src)
	require.Len(t, b, Sizeof(src))

	var dst pod
	Frombytes(b, &dst)
	require.Equal(t, src, dst)

	// view aliases the value
	b[0] ^= 0xFF
	require.NotEqual(t, dst, src)
}

func TestHasPointers(t *testing.T) {
	require.False(t, HasPointers[pod]())
	require.False(t, HasPointers[[4]float64]())
	require.True(t, HasPointers[withPtr]())
	require.True(t, HasPointers[string]())
	require.True(t, HasPointers[[]byte]())
	require.True(t, HasPointers[any]())
}
