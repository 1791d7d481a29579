// Package uftree implements the flat tree store: a fixed number of
// fixed-size records laid out in pre-order in one contiguous buffer.
//
// Every record starts with its node depth (one byte) followed by the
// application payload. Parent/child links are not stored; they follow from
// the depth sequence, where record i+1 is the first child of record i iff it
// is exactly one level deeper.
package uftree

import (
	"math"

	"go-gametree/pkg/allocator"
	"go-gametree/pkg/header"
	"go-gametree/util/logger"

	"github.com/pkg/errors"
)

var log = logger.Component("uftree")

// DepthSize is the number of bytes preceding the payload of each record.
const DepthSize = 1

func DefaultVersion() *header.Version {
	return &header.Version{
		Major:       1,
		Description: "UFTree",
	}
}

// Tree is a flat tree. It exclusively owns its buffer; Close releases it.
type Tree struct {
	// Version is written ahead of the tree body. Read and OpenFDA set it
	// from the stored header.
	Version *header.Version

	buf        *allocator.Buffer
	data       []byte
	nodesCount int64
	recordSize int
	chunkSize  int
	userData   []byte
	fda        bool
}

// New allocates a zeroed tree of nodesCount records of recordSize bytes
// each, depth byte included.
func New(alloc *allocator.Allocator, nodesCount int64, recordSize int) (*Tree, error) {
	if recordSize < DepthSize {
		return nil, errors.Wrapf(ErrRecordSize, "record size %d", recordSize)
	}
	if nodesCount < 0 || nodesCount > math.MaxInt/int64(recordSize) {
		return nil, errors.Wrapf(ErrCorrupt, "nodes count %d", nodesCount)
	}

	buf, err := alloc.Alloc(int(nodesCount) * recordSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate tree buffer")
	}

	return &Tree{
		Version:    DefaultVersion(),
		buf:        buf,
		data:       buf.Bytes(),
		nodesCount: nodesCount,
		recordSize: recordSize,
		chunkSize:  alloc.ChunkSize(),
	}, nil
}

func (t *Tree) NodesCount() int64 {
	return t.nodesCount
}

func (t *Tree) RecordSize() int {
	return t.recordSize
}

func (t *Tree) PayloadSize() int {
	return t.recordSize - DepthSize
}

// FDA reports whether the tree body is mapped straight from a file.
func (t *Tree) FDA() bool {
	return t.fda
}

func (t *Tree) Depth(i int64) uint8 {
	return t.data[t.offset(i)]
}

func (t *Tree) SetDepth(i int64, d uint8) {
	t.data[t.offset(i)] = d
}

// Record returns the raw record of node i, depth byte included. The slice
// aliases the tree buffer.
func (t *Tree) Record(i int64) []byte {
	off := t.offset(i)
	end := off + t.recordSize
	return t.data[off:end:end]
}

// Payload returns the application bytes of node i.
func (t *Tree) Payload(i int64) []byte {
	return t.Record(i)[DepthSize:]
}

// Bytes returns the whole tree body.
func (t *Tree) Bytes() []byte {
	return t.data
}

func (t *Tree) offset(i int64) int {
	if i < 0 || i >= t.nodesCount {
		panic(&IndexError{Index: i, NodesCount: t.nodesCount})
	}
	return int(i) * t.recordSize
}

// SubtreeEnd returns the index one past the last descendant of node i.
func (t *Tree) SubtreeEnd(i int64) int64 {
	d := t.Depth(i)
	j := i + 1
	for j < t.nodesCount && t.Depth(j) > d {
		j++
	}
	return j
}

// IsLeaf reports whether node i has no children.
func (t *Tree) IsLeaf(i int64) bool {
	return i+1 >= t.nodesCount || int(t.Depth(i+1)) <= int(t.Depth(i))
}

// Validate checks that the depth sequence describes a tree: the first record
// is the root at depth 0 and no record is more than one level deeper than
// its predecessor.
func (t *Tree) Validate() error {
	if t.nodesCount == 0 {
		return nil
	}
	if d := t.Depth(0); d != 0 {
		return errors.Wrapf(ErrBadDepth, "root has depth %d", d)
	}
	prev := uint8(0)
	for i := int64(1); i < t.nodesCount; i++ {
		d := t.Depth(i)
		if int(d) > int(prev)+1 {
			return errors.Wrapf(ErrBadDepth, "node %d: depth %d follows depth %d", i, d, prev)
		}
		prev = d
	}
	return nil
}

// Flush writes in-place modifications of a writable FDA tree to its file.
func (t *Tree) Flush() error {
	return t.buf.Flush()
}

// Close releases the tree buffer. The tree must not be used afterwards.
func (t *Tree) Close() error {
	if t == nil || t.buf.Released() {
		return nil
	}
	err := t.buf.Release()
	t.data = nil
	return err
}
