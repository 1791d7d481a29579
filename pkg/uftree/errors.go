package uftree

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrIndexOutOfRange   = errors.New("node index out of range")
	ErrUnsupportedFormat = errors.New("unsupported tree format version")
	ErrTruncated         = errors.New("tree data truncated")
	ErrCorrupt           = errors.New("corrupt tree data")
	ErrBadDepth          = errors.New("depth sequence violates tree invariants")
	ErrRecordSize        = errors.New("invalid record size")
	ErrNoUserData        = errors.New("tree carries no user data")
	ErrNotPOD            = errors.New("type contains pointers")
)

// IndexError is the panic value for accesses past NodesCount.
type IndexError struct {
	Index      int64
	NodesCount int64
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("node index %d out of range [0, %d)", e.Index, e.NodesCount)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
