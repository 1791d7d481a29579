package uftree

import (
	"os"

	"go-gametree/pkg/allocator"
	"go-gametree/pkg/header"

	"github.com/pkg/errors"
)

// OpenFDA opens a tree file for direct access: the file is mapped into
// memory and the tree body is used in place, without copying it into an
// allocated buffer. The user data block is not loaded.
func OpenFDA(path string, alloc *allocator.Allocator, recordSize int, opts *ReadOptions) (*Tree, error) {
	if opts == nil {
		opts = &ReadOptions{}
	}
	if recordSize < DepthSize {
		return nil, errors.Wrapf(ErrRecordSize, "record size %d", recordSize)
	}

	flag := os.O_RDONLY
	if opts.Writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open tree file")
	}
	// the mapping outlives the descriptor
	defer f.Close()

	buf, err := alloc.MapFile(f, opts.Writable)
	if err != nil {
		return nil, err
	}

	t, err := fdaTree(buf, recordSize)
	if err != nil {
		buf.Release()
		return nil, err
	}
	t.chunkSize = alloc.ChunkSize()

	if opts.AfterRead != nil {
		if err := opts.AfterRead(t); err != nil {
			t.Close()
			return nil, errors.Wrap(err, "after read")
		}
	}

	log.WithField("file", path).WithField("nodes", t.nodesCount).Debug("tree opened for direct access")
	return t, nil
}

func fdaTree(buf *allocator.Buffer, recordSize int) (*Tree, error) {
	d := buf.Bytes()
	v, off, err := header.Decode(d)
	if err != nil {
		return nil, err
	}

	if len(d)-off < treeHeaderSize {
		return nil, errors.Wrap(ErrTruncated, "tree header")
	}
	_, count, err := parseTreeHeader(d[off : off+treeHeaderSize])
	if err != nil {
		return nil, err
	}
	off += treeHeaderSize

	avail := int64(len(d) - off)
	if count > avail/int64(recordSize) {
		return nil, errors.Wrapf(ErrTruncated, "body of %d nodes needs %d bytes, file has %d",
			count, count*int64(recordSize), avail)
	}
	end := off + int(count)*recordSize

	return &Tree{
		Version:    v,
		buf:        buf,
		data:       d[off:end:end],
		nodesCount: count,
		recordSize: recordSize,
		fda:        true,
	}, nil
}
