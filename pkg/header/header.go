// Package header implements the self-describing, checksummed version block
// that prefixes every persisted artifact.
//
// Layout (little-endian):
//
//	format:int32 payloadLength:int32 payload crc32(payload):uint32
//	payload = major:int32 minor:int32 revision:int32 build:int32
//	          sourceInfo:str buildInfo:str description:str userDescription:str
//	str     = length:uvarint utf8-bytes
//
// The checksum is present from format 5 on.
package header

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"
)

// bin is the byte order used for all marshals/unmarshals.
var bin = binary.LittleEndian

const (
	// FormatVersion is the newest header format this package reads and
	// the one it writes.
	FormatVersion  int32 = 5
	crcSinceFormat int32 = 5

	prefixSize     = 8
	crcSize        = 4
	fixedPayloadSz = 16
	maxPayloadSize = 1 << 20
)

var (
	ErrUnsupportedFormat = errors.New("unsupported header format version")
	ErrChecksum          = errors.New("header checksum mismatch")
	ErrCorrupt           = errors.New("corrupt header")
)

type Version struct {
	Major    int32
	Minor    int32
	Revision int32
	Build    int32

	SourceInfo      string
	BuildInfo       string
	Description     string
	UserDescription string
}

func (v *Version) String() string {
	s := fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Revision, v.Build)
	if v.Description != "" {
		s += " " + v.Description
	}
	if v.UserDescription != "" {
		s += " (" + v.UserDescription + ")"
	}
	return s
}

// MarshalBinary encodes the payload only, without framing.
func (v *Version) MarshalBinary() ([]byte, error) {
	strs := []string{v.SourceInfo, v.BuildInfo, v.Description, v.UserDescription}
	size := fixedPayloadSz
	for _, s := range strs {
		size += binary.MaxVarintLen64 + len(s)
	}

	buf := make([]byte, size)
	bin.PutUint32(buf[0:4], uint32(v.Major))
	bin.PutUint32(buf[4:8], uint32(v.Minor))
	bin.PutUint32(buf[8:12], uint32(v.Revision))
	bin.PutUint32(buf[12:16], uint32(v.Build))

	offset := fixedPayloadSz
	for _, s := range strs {
		offset += binary.PutUvarint(buf[offset:], uint64(len(s)))
		offset += copy(buf[offset:], s)
	}

	return buf[:offset], nil
}

func (v *Version) UnmarshalBinary(d []byte) error {
	if v == nil {
		return errors.New("cannot unmarshal into nil")
	}
	if len(d) < fixedPayloadSz {
		return errors.Wrapf(ErrCorrupt, "payload of %d bytes is too short", len(d))
	}

	v.Major = int32(bin.Uint32(d[0:4]))
	v.Minor = int32(bin.Uint32(d[4:8]))
	v.Revision = int32(bin.Uint32(d[8:12]))
	v.Build = int32(bin.Uint32(d[12:16]))

	offset := fixedPayloadSz
	for _, dst := range []*string{&v.SourceInfo, &v.BuildInfo, &v.Description, &v.UserDescription} {
		l, n := binary.Uvarint(d[offset:])
		if n <= 0 || l > uint64(len(d)-offset-n) {
			return errors.Wrapf(ErrCorrupt, "bad string at payload offset %d", offset)
		}
		offset += n
		*dst = string(d[offset : offset+int(l)])
		offset += int(l)
	}

	if offset != len(d) {
		return errors.Wrapf(ErrCorrupt, "%d trailing payload bytes", len(d)-offset)
	}
	return nil
}

// WriteTo writes the framed header in the current format.
func (v *Version) WriteTo(w io.Writer) (int64, error) {
	return v.WriteFormat(w, FormatVersion)
}

// WriteFormat writes the framed header in an older format, for producing
// artifacts readable by older readers.
func (v *Version) WriteFormat(w io.Writer, format int32) (int64, error) {
	if format < 1 || format > FormatVersion {
		return 0, errors.Wrapf(ErrUnsupportedFormat, "cannot write format %d", format)
	}

	payload, err := v.MarshalBinary()
	if err != nil {
		return 0, err
	}

	size := prefixSize + len(payload)
	if format >= crcSinceFormat {
		size += crcSize
	}

	buf := make([]byte, size)
	bin.PutUint32(buf[0:4], uint32(format))
	bin.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[prefixSize:], payload)
	if format >= crcSinceFormat {
		bin.PutUint32(buf[prefixSize+len(payload):], crc32.ChecksumIEEE(payload))
	}

	n, err := w.Write(buf)
	return int64(n), errors.Wrap(err, "failed to write header")
}

// Read reads and validates a framed header from r.
func Read(r io.Reader) (*Version, error) {
	prefix := make([]byte, prefixSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, errors.Wrap(err, "failed to read header prefix")
	}

	format, length, err := parsePrefix(prefix)
	if err != nil {
		return nil, err
	}

	rest := make([]byte, length+trailerSize(format))
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, errors.Wrap(err, "failed to read header payload")
	}

	return decodeBody(format, rest)
}

// Decode parses a framed header at the start of d and returns the number of
// bytes it occupies.
func Decode(d []byte) (*Version, int, error) {
	if len(d) < prefixSize {
		return nil, 0, errors.Wrap(io.ErrUnexpectedEOF, "failed to read header prefix")
	}

	format, length, err := parsePrefix(d[:prefixSize])
	if err != nil {
		return nil, 0, err
	}

	end := prefixSize + length + trailerSize(format)
	if len(d) < end {
		return nil, 0, errors.Wrap(io.ErrUnexpectedEOF, "failed to read header payload")
	}

	v, err := decodeBody(format, d[prefixSize:end])
	if err != nil {
		return nil, 0, err
	}
	return v, end, nil
}

func parsePrefix(prefix []byte) (int32, int, error) {
	format := int32(bin.Uint32(prefix[0:4]))
	length := int32(bin.Uint32(prefix[4:8]))

	if format < 1 || format > FormatVersion {
		return 0, 0, errors.Wrapf(ErrUnsupportedFormat, "format %d, max supported %d", format, FormatVersion)
	}
	if length < 0 || length > maxPayloadSize {
		return 0, 0, errors.Wrapf(ErrCorrupt, "payload length %d", length)
	}
	return format, int(length), nil
}

func trailerSize(format int32) int {
	if format >= crcSinceFormat {
		return crcSize
	}
	return 0
}

func decodeBody(format int32, body []byte) (*Version, error) {
	payload := body[:len(body)-trailerSize(format)]
	if format >= crcSinceFormat {
		stored := bin.Uint32(body[len(payload):])
		if actual := crc32.ChecksumIEEE(payload); actual != stored {
			return nil, errors.Wrapf(ErrChecksum, "stored %#08x, computed %#08x", stored, actual)
		}
	}

	v := &Version{}
	if err := v.UnmarshalBinary(payload); err != nil {
		return nil, err
	}
	return v, nil
}
