// Package ptree is a plain object-graph tree with a child accessor usable
// by the walkers in pkg/walk.
package ptree

// Node is a tree node owning its children. The tree handle of a Node tree
// is its root.
type Node[V any] struct {
	Value    V
	Children []*Node[V]
}

func New[V any](value V, children ...*Node[V]) *Node[V] {
	return &Node[V]{Value: value, Children: children}
}

// Add appends children and returns n.
func (n *Node[V]) Add(children ...*Node[V]) *Node[V] {
	n.Children = append(n.Children, children...)
	return n
}

func (n *Node[V]) IsLeaf() bool {
	return len(n.Children) == 0
}

// Access enumerates Node children. The iterator is the index of the next
// child.
type Access[V any] struct{}

func (Access[V]) TryGetNextChild(_ *Node[V], node *Node[V], it *int) (*Node[V], bool) {
	if *it >= len(node.Children) {
		return nil, false
	}
	child := node.Children[*it]
	*it++
	return child, true
}

// Uniform builds a tree where every node above maxDepth has branching
// children. value receives the pre-order index and depth of each node.
func Uniform[V any](branching, maxDepth int, value func(index, depth int) V) *Node[V] {
	next := 0
	var build func(depth int) *Node[V]
	build = func(depth int) *Node[V] {
		n := &Node[V]{Value: value(next, depth)}
		next++
		if depth < maxDepth {
			n.Children = make([]*Node[V], 0, branching)
			for i := 0; i < branching; i++ {
				n.Children = append(n.Children, build(depth+1))
			}
		}
		return n
	}
	return build(0)
}

// UniformCount is the number of nodes Uniform builds.
func UniformCount(branching, maxDepth int) int64 {
	total, level := int64(0), int64(1)
	for d := 0; d <= maxDepth; d++ {
		total += level
		level *= int64(branching)
	}
	return total
}

// Chain builds a degenerate tree of n nodes, each the only child of the
// previous one.
func Chain[V any](n int, value func(index int) V) *Node[V] {
	if n <= 0 {
		return nil
	}
	root := &Node[V]{Value: value(0)}
	cur := root
	for i := 1; i < n; i++ {
		child := &Node[V]{Value: value(i)}
		cur.Children = []*Node[V]{child}
		cur = child
	}
	return root
}
