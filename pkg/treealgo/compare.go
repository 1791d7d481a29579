package treealgo

import (
	"go-gametree/pkg/stack"
	"go-gametree/pkg/uftree"
	"go-gametree/pkg/walk"
)

type Result int

const (
	Equal Result = iota
	StructureDiffers
	ValueDiffers
)

func (r Result) String() string {
	switch r {
	case Equal:
		return "equal"
	case StructureDiffers:
		return "structure differs"
	case ValueDiffers:
		return "value differs"
	default:
		return "unknown"
	}
}

// Comparison is the outcome of comparing two trees. DiffersAt is the
// pre-order position of the first differing node counted from the compared
// roots, -1 when the trees are equal or their node counts differ.
type Comparison struct {
	Result    Result
	DiffersAt int64
}

func (c Comparison) Equal() bool {
	return c.Result == Equal
}

var identical = Comparison{Result: Equal, DiffersAt: -1}

// cursor follows a second tree in lockstep with a walk.
type cursor[N, I any] struct {
	node N
	iter I
}

// CompareTrees compares the subtrees at r1 and r2 of two pointer trees of
// possibly different types. Node counts are compared first. A difference
// in shape anywhere wins over a value difference; otherwise the first node
// in pre-order for which eq is false is reported.
func CompareTrees[T1, N1, I1, T2, N2, I2 any](
	a1 walk.Accessor[T1, N1, I1], t1 T1, r1 N1,
	a2 walk.Accessor[T2, N2, I2], t2 T2, r2 N2,
	eq func(t1 T1, n1 N1, t2 T2, n2 N2) bool,
) Comparison {
	if CountNodes(a1, t1, r1) != CountNodes(a2, t2, r2) {
		return Comparison{Result: StructureDiffers, DiffersAt: -1}
	}

	var (
		other     = stack.New[cursor[N2, I2]](16)
		ordinal   int64
		valueDiff int64 = -1
		shapeDiff int64 = -1
	)

	w := &walk.PP[T1, N1, I1, struct{}]{
		Access: a1,
		PruneIf: func(T1, N1, int) bool {
			return shapeDiff >= 0
		},
		OnNodeBegin: func(_ T1, f *walk.Frame[N1, I1, struct{}], depth int) bool {
			var n2 N2
			if depth == 0 {
				n2 = r2
			} else {
				parent := other.Top()
				child, ok := a2.TryGetNextChild(t2, parent.node, &parent.iter)
				if !ok {
					shapeDiff = ordinal
					return false
				}
				n2 = child
			}
			other.Push().node = n2

			if valueDiff < 0 && !eq(t1, f.Node, t2, n2) {
				valueDiff = ordinal
			}
			ordinal++
			return true
		},
		OnNodeEnd: func(T1, *walk.Frame[N1, I1, struct{}], int) {
			top := other.Top()
			if shapeDiff < 0 {
				if _, ok := a2.TryGetNextChild(t2, top.node, &top.iter); ok {
					shapeDiff = ordinal
				}
			}
			other.Pop()
		},
	}
	w.Walk(t1, r1)

	switch {
	case shapeDiff >= 0:
		return Comparison{Result: StructureDiffers, DiffersAt: shapeDiff}
	case valueDiff >= 0:
		return Comparison{Result: ValueDiffers, DiffersAt: valueDiff}
	default:
		return identical
	}
}

// CompareUFTrees compares the subtrees at s1 and s2 of two flat trees with
// the same rules as CompareTrees. The shape is compared as the sequence of
// depths relative to each subtree root.
func CompareUFTrees(t1 *uftree.Tree, s1 int64, t2 *uftree.Tree, s2 int64, eq func(t1 *uftree.Tree, i1 int64, t2 *uftree.Tree, i2 int64) bool) Comparison {
	n := t1.SubtreeEnd(s1) - s1
	if n != t2.SubtreeEnd(s2)-s2 {
		return Comparison{Result: StructureDiffers, DiffersAt: -1}
	}

	d1, d2 := int(t1.Depth(s1)), int(t2.Depth(s2))
	valueDiff := int64(-1)
	for k := int64(0); k < n; k++ {
		if int(t1.Depth(s1+k))-d1 != int(t2.Depth(s2+k))-d2 {
			return Comparison{Result: StructureDiffers, DiffersAt: k}
		}
		if valueDiff < 0 && !eq(t1, s1+k, t2, s2+k) {
			valueDiff = k
		}
	}

	if valueDiff >= 0 {
		return Comparison{Result: ValueDiffers, DiffersAt: valueDiff}
	}
	return identical
}
