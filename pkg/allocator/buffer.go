package allocator

import (
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

type kind uint8

const (
	kindHeap kind = iota
	kindAnon
	kindFile
)

// Buffer exclusively owns one allocation. It must be released exactly once,
// either through Release or its allocator's Free; further releases are no-ops.
type Buffer struct {
	owner    *Allocator
	mem      []byte
	data     []byte
	mapped   mmap.MMap
	size     int
	kind     kind
	guarded  bool
	released bool
}

// Bytes returns the user region. It must not be used after Release.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Len() int {
	return b.size
}

func (b *Buffer) Guarded() bool {
	return b.guarded
}

// Mapped reports whether the buffer lives outside the Go heap.
func (b *Buffer) Mapped() bool {
	return b.mapped != nil
}

func (b *Buffer) Released() bool {
	return b == nil || b.released
}

func (b *Buffer) Release() error {
	if b == nil || b.released {
		return nil
	}
	return b.owner.Free(b)
}

// Flush writes modified pages of a file mapping back to the file.
func (b *Buffer) Flush() error {
	if b.kind != kindFile || b.released {
		return nil
	}
	return errors.Wrap(b.mapped.Flush(), "failed to flush mapping")
}

func (b *Buffer) unmap() error {
	if b.mapped == nil {
		return nil
	}
	err := b.mapped.Unmap()
	b.mapped = nil
	return err
}

// MapFile maps the whole of f into memory. With writable set, stores into the
// buffer reach the file.
func (a *Allocator) MapFile(f *os.File, writable bool) (*Buffer, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}
	if fi.Size() == 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "cannot map empty file %s", f.Name())
	}

	prot := mmap.RDONLY
	if writable {
		prot = mmap.RDWR
	}

	m, err := mmap.Map(f, prot, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map %s", f.Name())
	}

	a.stats.Allocs++
	log.WithField("file", f.Name()).WithField("size", len(m)).Debug("mapped file")
	return &Buffer{
		owner:  a,
		mem:    []byte(m),
		data:   []byte(m),
		mapped: m,
		size:   len(m),
		kind:   kindFile,
	}, nil
}
