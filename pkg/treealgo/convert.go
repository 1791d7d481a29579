package treealgo

import (
	"math"

	"go-gametree/pkg/allocator"
	"go-gametree/pkg/ptree"
	"go-gametree/pkg/uftree"
	"go-gametree/pkg/walk"
	"go-gametree/util/logger"

	"github.com/pkg/errors"
)

var log = logger.Component("treealgo")

// ToUFTree stores the pointer subtree at root as a flat tree. encode fills
// the payload of each record; the depth byte is already set.
func ToUFTree[T, N, I any](
	a walk.Accessor[T, N, I], tree T, root N,
	alloc *allocator.Allocator, recordSize int,
	encode func(tree T, node N, payload []byte) error,
) (*uftree.Tree, error) {
	count := CountNodes(a, tree, root)
	uf, err := uftree.New(alloc, count, recordSize)
	if err != nil {
		return nil, err
	}

	var idx int64
	w := &walk.PP[T, N, I, struct{}]{
		Access: a,
		PruneIf: func(T, N, int) bool {
			return err != nil
		},
		OnNodeBegin: func(tree T, f *walk.Frame[N, I, struct{}], depth int) bool {
			if depth > math.MaxUint8 {
				err = errors.Wrapf(ErrTooDeep, "node %d at depth %d", idx, depth)
				return false
			}
			uf.SetDepth(idx, uint8(depth))
			if err = encode(tree, f.Node, uf.Payload(idx)); err != nil {
				err = errors.Wrapf(err, "failed to encode node %d", idx)
				return false
			}
			idx++
			return true
		},
	}
	w.Walk(tree, root)

	if err != nil {
		uf.Close()
		return nil, err
	}
	log.Debugf("converted %d nodes to a flat tree of %d byte records", count, recordSize)
	return uf, nil
}

// ToPointerTree rebuilds the flat subtree at start as a pointer tree.
// decode receives each record payload.
func ToPointerTree[V any](uf *uftree.Tree, start int64, decode func(payload []byte) V) (*ptree.Node[V], error) {
	var root *ptree.Node[V]
	var w *walk.UF[*ptree.Node[V]]
	w = &walk.UF[*ptree.Node[V]]{
		PruneIf: subtreeOnly(start),
		OnNodeBegin: func(tree *uftree.Tree, f *walk.UFFrame[*ptree.Node[V]], _ int) bool {
			f.Extra = &ptree.Node[V]{Value: decode(tree.Payload(f.Node))}
			if parent := w.Parent(); parent != nil {
				parent.Extra.Children = append(parent.Extra.Children, f.Extra)
			} else {
				root = f.Extra
			}
			return true
		},
	}
	if err := w.Walk(uf, start); err != nil {
		return nil, err
	}
	return root, nil
}
