package uftree

import (
	"os"

	"go-gametree/pkg/allocator"
	"go-gametree/pkg/header"

	"github.com/pkg/errors"
)

// Info describes a tree file without loading its body.
type Info struct {
	Version    *header.Version
	Format     int32
	NodesCount int64

	// BodyOffset is the file offset of record 0.
	BodyOffset int64
	FileSize   int64

	// RecordSize is inferred from the file layout, 0 when no record size
	// fits it.
	RecordSize  int
	UserDataLen int
}

// Stat reads the headers of a tree file and infers its record size.
func Stat(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open tree file")
	}
	defer f.Close()

	buf, err := allocator.New(nil).MapFile(f, false)
	if err != nil {
		return nil, err
	}
	defer buf.Release()

	d := buf.Bytes()
	v, off, err := header.Decode(d)
	if err != nil {
		return nil, err
	}
	if len(d)-off < treeHeaderSize {
		return nil, errors.Wrap(ErrTruncated, "tree header")
	}
	format, count, err := parseTreeHeader(d[off : off+treeHeaderSize])
	if err != nil {
		return nil, err
	}
	off += treeHeaderSize

	info := &Info{
		Version:    v,
		Format:     format,
		NodesCount: count,
		BodyOffset: int64(off),
		FileSize:   int64(len(d)),
	}
	info.RecordSize, info.UserDataLen = inferRecordSize(d[off:], count, format)
	return info, nil
}

// inferRecordSize returns the smallest record size for which count records
// followed by the trailing blocks of format exactly fill rest.
func inferRecordSize(rest []byte, count int64, format int32) (int, int) {
	if count == 0 {
		return 0, 0
	}
	if format < userDataSinceFormat {
		if int64(len(rest))%count != 0 {
			return 0, 0
		}
		return int(int64(len(rest)) / count), 0
	}

	n := int64(len(rest))
	if count > n {
		return 0, 0
	}
	for rs := int64(DepthSize); rs <= (n-4)/count; rs++ {
		end := count * rs
		l := int64(int32(bin.Uint32(rest[end : end+4])))
		if l >= 0 && end+4+l == n {
			return int(rs), int(l)
		}
	}
	return 0, 0
}
