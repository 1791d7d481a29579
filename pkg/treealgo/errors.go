package treealgo

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrStructureMismatch = errors.New("trees differ in structure")
	ErrTooDeep           = errors.New("tree too deep for flat storage")
)

// MismatchError reports where a pointer tree and a flat tree walked in
// lockstep stopped agreeing.
type MismatchError struct {
	// Index is the flat tree record expected to match the pointer node,
	// Depth the depth of that pointer node relative to the walk root.
	Index int64
	Depth int

	// FlatDepth is the relative depth found at Index, -1 when the flat
	// tree ran out of nodes. When the pointer tree ran out first, Depth is
	// -1 and Index is the first flat record left over.
	FlatDepth int
}

func (e *MismatchError) Error() string {
	switch {
	case e.Depth < 0:
		return fmt.Sprintf("flat node %d at depth %d has no pointer counterpart: %s", e.Index, e.FlatDepth, ErrStructureMismatch)
	case e.FlatDepth < 0:
		return fmt.Sprintf("pointer node at depth %d has no flat counterpart at %d: %s", e.Depth, e.Index, ErrStructureMismatch)
	default:
		return fmt.Sprintf("flat node %d: depth %d, want %d: %s", e.Index, e.FlatDepth, e.Depth, ErrStructureMismatch)
	}
}

func (e *MismatchError) Unwrap() error {
	return ErrStructureMismatch
}
