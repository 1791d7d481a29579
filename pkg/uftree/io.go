package uftree

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"

	"go-gametree/pkg/allocator"
	"go-gametree/pkg/header"
	"go-gametree/util/helpers"

	"github.com/pkg/errors"
)

// bin is the byte order used for all marshals/unmarshals.
var bin = binary.LittleEndian

const (
	// FormatVersion is the newest tree format this package reads and the
	// one Write produces. Format 1 has no user data block.
	FormatVersion       int32 = 2
	userDataSinceFormat int32 = 2

	// format:int32 nodesCount:int64
	treeHeaderSize = 12
	ioBufferSize   = 1 << 16
)

type ReadOptions struct {
	// AfterRead runs once the tree is fully loaded, before it is returned.
	// Returning an error discards the tree.
	AfterRead func(t *Tree) error

	// Writable maps FDA trees read-write so that in-place changes reach the
	// file after Flush. Ignored by Read.
	Writable bool
}

// Write serializes the tree: version header, tree format, nodes count, body
// and user data block.
func (t *Tree) Write(w io.Writer) error {
	return t.WriteFormat(w, FormatVersion)
}

// WriteFormat serializes the tree in the given tree format. Format 1 drops
// the user data block.
func (t *Tree) WriteFormat(w io.Writer, format int32) error {
	if format < 1 || format > FormatVersion {
		return errors.Wrapf(ErrUnsupportedFormat, "cannot write format %d", format)
	}

	v := t.Version
	if v == nil {
		v = DefaultVersion()
	}
	if _, err := v.WriteTo(w); err != nil {
		return err
	}

	buf := make([]byte, treeHeaderSize)
	bin.PutUint32(buf[0:4], uint32(format))
	bin.PutUint64(buf[4:12], uint64(t.nodesCount))
	if _, err := w.Write(buf); err != nil {
		return errors.Wrap(err, "failed to write tree header")
	}

	if err := allocator.WriteChunked(w, t.data, t.chunkSize); err != nil {
		return errors.Wrap(err, "failed to write tree body")
	}

	if format >= userDataSinceFormat {
		bin.PutUint32(buf[0:4], uint32(len(t.userData)))
		if _, err := w.Write(buf[0:4]); err != nil {
			return errors.Wrap(err, "failed to write user data length")
		}
		if _, err := w.Write(t.userData); err != nil {
			return errors.Wrap(err, "failed to write user data")
		}
	}

	log.WithField("nodes", t.nodesCount).WithField("format", format).Debug("tree written")
	return nil
}

// Read loads a tree written by Write. The body is copied verbatim into a
// buffer from alloc; recordSize must match the one used by the writer.
func Read(r io.Reader, alloc *allocator.Allocator, recordSize int, opts *ReadOptions) (*Tree, error) {
	avail := int64(-1)
	if l, ok := r.(interface{ Len() int }); ok {
		avail = int64(l.Len())
	}
	return read(r, alloc, recordSize, opts, avail)
}

// read is Read with an upper bound on the bytes r can still deliver, -1 when
// unknown. The nodes count is checked against it before allocating; with no
// bound the body is staged so a corrupt count fails as truncated.
func read(r io.Reader, alloc *allocator.Allocator, recordSize int, opts *ReadOptions, avail int64) (*Tree, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}

	v, err := header.Read(r)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, treeHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrapf(ErrTruncated, "tree header: %v", err)
	}
	format, count, err := parseTreeHeader(buf)
	if err != nil {
		return nil, err
	}

	if recordSize < DepthSize {
		return nil, errors.Wrapf(ErrRecordSize, "record size %d", recordSize)
	}
	if avail >= 0 && count > avail/int64(recordSize) {
		return nil, errors.Wrapf(ErrTruncated, "body of %d nodes of %d bytes, at most %d bytes left",
			count, recordSize, avail)
	}
	if avail < 0 && count > 0 {
		if count > math.MaxInt/int64(recordSize) {
			return nil, errors.Wrapf(ErrCorrupt, "nodes count %d", count)
		}
		size := count * int64(recordSize)
		staged := &bytes.Buffer{}
		n, err := staged.ReadFrom(io.LimitReader(r, size))
		if err != nil {
			return nil, errors.Wrap(err, "failed to read tree body")
		}
		if n < size {
			return nil, errors.Wrapf(ErrTruncated, "body: got %d of %d bytes", n, size)
		}
		r = io.MultiReader(staged, r)
	}

	t, err := New(alloc, count, recordSize)
	if err != nil {
		return nil, err
	}
	t.Version = v

	if err := readBody(r, alloc, t, format); err != nil {
		t.Close()
		return nil, err
	}

	if opts.AfterRead != nil {
		if err := opts.AfterRead(t); err != nil {
			t.Close()
			return nil, errors.Wrap(err, "after read")
		}
	}

	log.WithField("nodes", count).WithField("format", format).Debug("tree read")
	return t, nil
}

func readBody(r io.Reader, alloc *allocator.Allocator, t *Tree, format int32) error {
	if err := alloc.Read(r, t.data); err != nil {
		if errors.Is(err, allocator.ErrShortRead) {
			return errors.Wrapf(ErrTruncated, "body: %v", err)
		}
		return errors.Wrap(err, "failed to read tree body")
	}

	if format < userDataSinceFormat {
		return nil
	}

	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return errors.Wrapf(ErrTruncated, "user data length: %v", err)
	}
	l := int32(bin.Uint32(buf))
	if l < 0 || l > maxUserDataSize {
		return errors.Wrapf(ErrCorrupt, "user data length %d", l)
	}
	if l == 0 {
		return nil
	}

	t.userData = make([]byte, l)
	if _, err := io.ReadFull(r, t.userData); err != nil {
		return errors.Wrapf(ErrTruncated, "user data: %v", err)
	}
	return nil
}

func parseTreeHeader(buf []byte) (int32, int64, error) {
	format := int32(bin.Uint32(buf[0:4]))
	count := int64(bin.Uint64(buf[4:12]))

	if format < 1 || format > FormatVersion {
		return 0, 0, errors.Wrapf(ErrUnsupportedFormat, "format %d, max supported %d", format, FormatVersion)
	}
	if count < 0 {
		return 0, 0, errors.Wrapf(ErrCorrupt, "nodes count %d", count)
	}
	return format, count, nil
}

// WriteFile writes the tree to path through a temp file and rename.
func (t *Tree) WriteFile(path string) error {
	return helpers.WriteFileAtomic(path, func(f *os.File) error {
		w := bufio.NewWriterSize(f, ioBufferSize)
		if err := t.Write(w); err != nil {
			return err
		}
		return errors.Wrap(w.Flush(), "failed to flush tree file")
	})
}

func ReadFile(path string, alloc *allocator.Allocator, recordSize int, opts *ReadOptions) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open tree file")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat tree file")
	}
	return read(bufio.NewReaderSize(f, ioBufferSize), alloc, recordSize, opts, fi.Size())
}
