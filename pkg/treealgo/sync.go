package treealgo

import (
	"go-gametree/pkg/uftree"
	"go-gametree/pkg/walk"

	"github.com/pkg/errors"
)

// SyncFunc is called for every pointer node with its flat counterpart.
// depth is relative to the walk roots and childIdx is the position of the
// node among its siblings, 0 for the root.
type SyncFunc[T, N any] func(tree T, node N, uf *uftree.Tree, idx int64, depth, childIdx int) error

// SyncUniAndUF walks the pointer subtree at root and the flat subtree at
// start together in pre-order. The first depth mismatch stops the walk with
// a *MismatchError; so does an error returned by fn, which is passed
// through unchanged.
func SyncUniAndUF[T, N, I any](a walk.Accessor[T, N, I], tree T, root N, uf *uftree.Tree, start int64, fn SyncFunc[T, N]) error {
	if start < 0 || start >= uf.NodesCount() {
		return errors.Wrapf(uftree.ErrIndexOutOfRange, "start node %d of %d", start, uf.NodesCount())
	}

	end, base, idx := uf.SubtreeEnd(start), int(uf.Depth(start)), start

	var err error
	var w *walk.PP[T, N, I, struct{}]
	w = &walk.PP[T, N, I, struct{}]{
		Access: a,
		PruneIf: func(T, N, int) bool {
			return err != nil
		},
		OnNodeBegin: func(tree T, f *walk.Frame[N, I, struct{}], depth int) bool {
			if idx >= end {
				err = &MismatchError{Index: idx, Depth: depth, FlatDepth: -1}
				return false
			}
			if d := int(uf.Depth(idx)) - base; d != depth {
				err = &MismatchError{Index: idx, Depth: depth, FlatDepth: d}
				return false
			}

			childIdx := 0
			if parent := w.Parent(); parent != nil {
				childIdx = parent.ChildrenCount - 1
			}
			if err = fn(tree, f.Node, uf, idx, depth, childIdx); err != nil {
				return false
			}
			idx++
			return true
		},
	}
	w.Walk(tree, root)

	if err == nil && idx < end {
		err = &MismatchError{Index: idx, Depth: -1, FlatDepth: int(uf.Depth(idx)) - base}
	}
	return err
}
