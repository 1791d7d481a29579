// Package treealgo holds algorithms over pointer trees and flat trees built
// on the walkers of pkg/walk.
package treealgo

import "go-gametree/pkg/uftree"

// UFToUni presents a flat tree through the pointer-tree child accessor.
// Nodes are record indices. The iterator holds the last child returned, 0
// before the first call and -1 once the children are exhausted; index 0 is
// the root and never a child.
type UFToUni struct{}

func (UFToUni) TryGetNextChild(tree *uftree.Tree, node int64, it *int64) (int64, bool) {
	if *it < 0 {
		return 0, false
	}

	next := node + 1
	if *it > 0 {
		next = tree.SubtreeEnd(*it)
	}
	if next >= tree.NodesCount() || int(tree.Depth(next)) != int(tree.Depth(node))+1 {
		*it = -1
		return 0, false
	}
	*it = next
	return next, true
}

// ChildrenBeginIdxAndCount returns the index of the first child of node and
// the number of its children. begin is -1 for a leaf.
func (UFToUni) ChildrenBeginIdxAndCount(tree *uftree.Tree, node int64) (begin int64, count int) {
	if tree.IsLeaf(node) {
		return -1, 0
	}
	begin = node + 1
	end := tree.SubtreeEnd(node)
	for i := begin; i < end; i = tree.SubtreeEnd(i) {
		count++
	}
	return begin, count
}
