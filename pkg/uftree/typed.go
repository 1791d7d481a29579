package uftree

import (
	"io"

	"go-gametree/pkg/allocator"
	"go-gametree/util/helpers"

	"github.com/pkg/errors"
)

// Codec maps a record payload to a value of T and back. Size is the payload
// size in bytes; Encode and Decode get slices of exactly that length.
type Codec[T any] interface {
	Size() int
	Encode(dst []byte, v *T)
	Decode(src []byte, v *T)
}

// Typed views the payloads of a flat tree as values of T.
type Typed[T any] struct {
	*Tree
	codec Codec[T]
}

func NewTyped[T any](alloc *allocator.Allocator, nodesCount int64, codec Codec[T]) (*Typed[T], error) {
	t, err := New(alloc, nodesCount, DepthSize+codec.Size())
	if err != nil {
		return nil, err
	}
	return &Typed[T]{Tree: t, codec: codec}, nil
}

// Wrap views an existing tree through codec. The record size must match.
func Wrap[T any](t *Tree, codec Codec[T]) (*Typed[T], error) {
	if t.RecordSize() != DepthSize+codec.Size() {
		return nil, errors.Wrapf(ErrRecordSize, "tree records are %d bytes, codec needs %d",
			t.RecordSize(), DepthSize+codec.Size())
	}
	return &Typed[T]{Tree: t, codec: codec}, nil
}

func ReadTyped[T any](r io.Reader, alloc *allocator.Allocator, codec Codec[T], opts *ReadOptions) (*Typed[T], error) {
	t, err := Read(r, alloc, DepthSize+codec.Size(), opts)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{Tree: t, codec: codec}, nil
}

func OpenTypedFDA[T any](path string, alloc *allocator.Allocator, codec Codec[T], opts *ReadOptions) (*Typed[T], error) {
	t, err := OpenFDA(path, alloc, DepthSize+codec.Size(), opts)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{Tree: t, codec: codec}, nil
}

func (t *Typed[T]) Get(i int64) T {
	var v T
	t.codec.Decode(t.Payload(i), &v)
	return v
}

func (t *Typed[T]) Set(i int64, v T) {
	t.codec.Encode(t.Payload(i), &v)
}

// Update applies fn to the value of node i in place.
func (t *Typed[T]) Update(i int64, fn func(v *T)) {
	p := t.Payload(i)
	var v T
	t.codec.Decode(p, &v)
	fn(&v)
	t.codec.Encode(p, &v)
}

// PODCodec stores values of a pointer-free T by their in-memory layout.
// Files written with it are only portable between hosts of the same byte
// order and alignment rules.
type PODCodec[T any] struct {
	size int
}

func NewPODCodec[T any]() (*PODCodec[T], error) {
	if helpers.HasPointers[T]() {
		return nil, ErrNotPOD
	}
	var zero T
	return &PODCodec[T]{size: helpers.Sizeof(zero)}, nil
}

func (c *PODCodec[T]) Size() int {
	return c.size
}

func (c *PODCodec[T]) Encode(dst []byte, v *T) {
	copy(dst[:c.size], helpers.Bytesof(v))
}

func (c *PODCodec[T]) Decode(src []byte, v *T) {
	helpers.Frombytes(src[:c.size], v)
}
