// Package walk implements iterative depth-first tree walkers.
//
// The walkers keep one Frame per tree level in a reusable stack instead of
// recursing, so the depth of a tree is bounded by memory rather than by the
// goroutine stack. Descent is strictly pre-order and ascent is the exact
// reverse; hooks may rely on that for bottom-up accumulation.
//
// Pointer trees need no common node type: any tree handle T and node handle
// N can be walked as long as an Accessor enumerates the children of a node.
package walk

// Accessor enumerates children. TryGetNextChild is called repeatedly for a
// node until it returns false; it is the accessor's job to advance it, which
// starts at the zero value of I for every node.
type Accessor[T, N, I any] interface {
	TryGetNextChild(tree T, node N, it *I) (child N, ok bool)
}

// AccessorFunc adapts a plain function to Accessor.
type AccessorFunc[T, N, I any] func(tree T, node N, it *I) (N, bool)

func (f AccessorFunc[T, N, I]) TryGetNextChild(tree T, node N, it *I) (N, bool) {
	return f(tree, node, it)
}

// Frame is the walk state of one tree level.
type Frame[N, I, X any] struct {
	Node N

	// ChildrenCount is the number of children begun so far. Once the node
	// ends it is the total number of its children, pruned-at-begin
	// children included and PruneIf-skipped children excluded.
	ChildrenCount int

	// Iter is the accessor state for Node.
	Iter I

	// Extra is caller state, reset to its zero value for every node.
	Extra X
}
