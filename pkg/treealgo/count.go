package treealgo

import (
	"go-gametree/pkg/uftree"
	"go-gametree/pkg/walk"
)

// CountNodes returns the number of nodes of the subtree rooted at root.
func CountNodes[T, N, I any](a walk.Accessor[T, N, I], tree T, root N) int64 {
	var n int64
	w := &walk.PP[T, N, I, struct{}]{
		Access: a,
		OnNodeBegin: func(T, *walk.Frame[N, I, struct{}], int) bool {
			n++
			return true
		},
	}
	w.Walk(tree, root)
	return n
}

// CountLeaves returns the number of nodes without children below root,
// root included.
func CountLeaves[T, N, I any](a walk.Accessor[T, N, I], tree T, root N) int64 {
	var n int64
	w := &walk.PP[T, N, I, struct{}]{
		Access: a,
		OnNodeEnd: func(_ T, f *walk.Frame[N, I, struct{}], _ int) {
			if f.ChildrenCount == 0 {
				n++
			}
		},
	}
	w.Walk(tree, root)
	return n
}

// CountUFLeaves counts the leaves of the flat subtree rooted at start.
func CountUFLeaves(tree *uftree.Tree, start int64) (int64, error) {
	var n int64
	w := &walk.UF[struct{}]{
		PruneIf: subtreeOnly(start),
		OnNodeEnd: func(_ *uftree.Tree, f *walk.UFFrame[struct{}], _ int) {
			if f.ChildrenCount == 0 {
				n++
			}
		},
	}
	if err := w.Walk(tree, start); err != nil {
		return 0, err
	}
	return n, nil
}

// FindFirstPreOrder returns the first node in pre-order for which pred is
// true. Nodes after it are not visited.
func FindFirstPreOrder[T, N, I any](a walk.Accessor[T, N, I], tree T, root N, pred func(tree T, node N) bool) (found N, ok bool) {
	w := &walk.PP[T, N, I, struct{}]{
		Access: a,
		PruneIf: func(T, N, int) bool {
			return ok
		},
		OnNodeBegin: func(tree T, f *walk.Frame[N, I, struct{}], _ int) bool {
			if pred(tree, f.Node) {
				found, ok = f.Node, true
			}
			return !ok
		},
	}
	w.Walk(tree, root)
	return found, ok
}

// subtreeOnly restricts a flat walk from start to the subtree of start by
// pruning its following siblings.
func subtreeOnly(start int64) func(*uftree.Tree, int64, int) bool {
	var startDepth int
	return func(tree *uftree.Tree, node int64, depth int) bool {
		if node == start {
			startDepth = depth
			return false
		}
		return depth == startDepth
	}
}
