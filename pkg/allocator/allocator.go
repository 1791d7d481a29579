// Package allocator provides raw byte buffers for flat trees. Buffers live
// either on the Go heap or in anonymous mappings outside of it, and can be
// wrapped with guard bytes that detect overruns when the buffer is freed.
package allocator

import (
	"fmt"
	"io"

	"go-gametree/util/helpers"
	"go-gametree/util/logger"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

var (
	ErrInvalidSize       = errors.New("invalid allocation size")
	ErrAllocatorMismatch = errors.New("buffer freed with different diagnostics setting than allocated")
	ErrForeignBuffer     = errors.New("buffer belongs to another allocator")
	ErrShortRead         = errors.New("stream ended before buffer was filled")
)

var log = logger.Component("allocator")

func New(opts *Options) *Allocator {
	if opts == nil {
		opts = &defaultOptions
	}

	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	return &Allocator{
		diagnostics: opts.Diagnostics,
		offHeap:     opts.OffHeap,
		chunkSize:   chunk,
	}
}

// Allocator hands out Buffers and keeps allocation statistics.
// It is not safe for concurrent use.
type Allocator struct {
	diagnostics bool
	offHeap     bool
	chunkSize   int
	stats       Stats
}

type Stats struct {
	Allocs    int64
	Frees     int64
	LiveBytes int64
}

func (a *Allocator) Diagnostics() bool { return a.diagnostics }
func (a *Allocator) OffHeap() bool     { return a.offHeap }
func (a *Allocator) ChunkSize() int    { return a.chunkSize }
func (a *Allocator) Stats() Stats      { return a.stats }

// Alloc returns a zeroed buffer of size bytes.
func (a *Allocator) Alloc(size int) (*Buffer, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "size %d", size)
	}

	total := size
	offset := 0
	if a.diagnostics {
		total += 2 * guardSize
		offset = guardSize
	}

	b := &Buffer{
		owner:   a,
		size:    size,
		guarded: a.diagnostics,
	}

	if a.offHeap && total > 0 {
		m, err := mmap.MapRegion(nil, total, mmap.RDWR, mmap.ANON, 0)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to map %d bytes", total)
		}
		b.mapped = m
		b.mem = []byte(m)
		b.kind = kindAnon
	} else {
		b.mem = make([]byte, total)
		b.kind = kindHeap
	}

	if b.guarded {
		writeGuards(b.mem, size)
	}
	// capacity runs into the tail guard, like raw memory would
	b.data = b.mem[offset : offset+size]

	a.stats.Allocs++
	a.stats.LiveBytes += int64(size)
	if size >= a.chunkSize {
		log.WithFields(map[string]interface{}{
			"size":    size,
			"offheap": a.offHeap,
			"guarded": a.diagnostics,
		}).Debug("large allocation")
	}
	return b, nil
}

// Free releases b. Freeing a nil or already released buffer is a no-op.
// In diagnostics mode the guard bytes are verified first; the memory is
// released even when corruption is reported.
func (a *Allocator) Free(b *Buffer) error {
	if b == nil || b.released {
		return nil
	}
	if b.owner != a {
		return ErrForeignBuffer
	}
	if b.kind != kindFile && b.guarded != a.diagnostics {
		return errors.Wrapf(ErrAllocatorMismatch, "allocated guarded=%v, freeing guarded=%v", b.guarded, a.diagnostics)
	}

	var checkErr error
	if b.guarded {
		checkErr = checkGuards(b.mem, b.size)
		if checkErr != nil {
			log.WithError(checkErr).Error("heap corruption detected on free")
		}
	}

	if err := b.unmap(); err != nil {
		return errors.Wrap(err, "failed to unmap buffer")
	}

	b.released = true
	b.mem = nil
	b.data = nil
	if b.kind != kindFile {
		a.stats.LiveBytes -= int64(b.size)
	}
	a.stats.Frees++
	return checkErr
}

// Set fills b with value.
func Set(b []byte, value byte) {
	if len(b) == 0 {
		return
	}
	b[0] = value
	for filled := 1; filled < len(b); filled *= 2 {
		copy(b[filled:], b[:filled])
	}
}

// Write writes b to w in chunks of at most the allocator chunk size.
func (a *Allocator) Write(w io.Writer, b []byte) error {
	return WriteChunked(w, b, a.chunkSize)
}

// Read fills b from r in chunks of at most the allocator chunk size.
func (a *Allocator) Read(r io.Reader, b []byte) error {
	return ReadChunked(r, b, a.chunkSize)
}

func WriteChunked(w io.Writer, b []byte, chunk int) error {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	for off := 0; off < len(b); {
		n := helpers.Min(chunk, len(b)-off)
		if _, err := w.Write(b[off : off+n]); err != nil {
			return errors.Wrapf(err, "failed to write chunk at offset %d", off)
		}
		off += n
	}
	return nil
}

func ReadChunked(r io.Reader, b []byte, chunk int) error {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	for off := 0; off < len(b); {
		n := helpers.Min(chunk, len(b)-off)
		if _, err := io.ReadFull(r, b[off:off+n]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return errors.Wrapf(ErrShortRead, "at offset %d of %d", off, len(b))
			}
			return errors.Wrapf(err, "failed to read chunk at offset %d", off)
		}
		off += n
	}
	return nil
}

func (a *Allocator) String() string {
	return fmt.Sprintf("allocator{diagnostics:%v offheap:%v chunk:%d}", a.diagnostics, a.offHeap, a.chunkSize)
}
