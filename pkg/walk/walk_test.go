package walk

import (
	"fmt"
	"testing"

	"go-gametree/pkg/ptree"

	"github.com/stretchr/testify/require"
)

type intNode = *ptree.Node[int]

type counter struct {
	treeBegin, treeEnd int
	begins, ends       int
	beginOrder         []int
	endOrder           []int
}

func countingPP(c *counter) *PP[intNode, intNode, int, struct{}] {
	return &PP[intNode, intNode, int, struct{}]{
		Access:      ptree.Access[int]{},
		OnTreeBegin: func(intNode, intNode) { c.treeBegin++ },
		OnTreeEnd:   func(intNode, intNode) { c.treeEnd++ },
		OnNodeBegin: func(_ intNode, f *Frame[intNode, int, struct{}], _ int) bool {
			c.begins++
			c.beginOrder = append(c.beginOrder, f.Node.Value)
			return true
		},
		OnNodeEnd: func(_ intNode, f *Frame[intNode, int, struct{}], _ int) {
			c.ends++
			c.endOrder = append(c.endOrder, f.Node.Value)
		},
	}
}

func uniformTree(b, d int) intNode {
	return ptree.Uniform(b, d, func(index, _ int) int { return index })
}

func TestPPVisitsEveryNodeOnce(t *testing.T) {
	for _, tc := range []struct{ b, d int }{{1, 0}, {2, 1}, {3, 4}, {4, 3}, {1, 50}} {
		t.Run(fmt.Sprintf("b%d_d%d", tc.b, tc.d), func(t *testing.T) {
			c := &counter{}
			countingPP(c).Walk(nil, uniformTree(tc.b, tc.d))

			want := int(ptree.UniformCount(tc.b, tc.d))
			require.Equal(t, 1, c.treeBegin)
			require.Equal(t, 1, c.treeEnd)
			require.Equal(t, want, c.begins)
			require.Equal(t, want, c.ends)

			for i, v := range c.beginOrder {
				require.Equal(t, i, v, "pre-order position %d", i)
			}
		})
	}
}

func TestPPPostOrder(t *testing.T) {
	root := ptree.New(0,
		ptree.New(1, ptree.New(2), ptree.New(3)),
		ptree.New(4),
		ptree.New(5, ptree.New(6, ptree.New(7))),
	)
	c := &counter{}
	countingPP(c).Walk(nil, root)

	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, c.beginOrder)
	require.Equal(t, []int{2, 3, 1, 4, 7, 6, 5, 0}, c.endOrder)
}

func TestPPDepthAndFrames(t *testing.T) {
	root := uniformTree(2, 3)
	w := &PP[intNode, intNode, int, struct{}]{Access: ptree.Access[int]{}}
	require.Equal(t, -1, w.Depth())

	maxDepth := 0
	w.OnNodeBegin = func(_ intNode, f *Frame[intNode, int, struct{}], depth int) bool {
		require.Equal(t, depth, w.Depth())
		require.Same(t, f, w.Frame(depth))
		if depth > 0 {
			parent := w.Parent()
			require.Same(t, parent, w.Frame(depth-1))
			require.Contains(t, parent.Node.Children, f.Node)
		} else {
			require.Nil(t, w.Parent())
		}
		if depth > maxDepth {
			maxDepth = depth
		}
		return true
	}
	w.Walk(nil, root)

	require.Equal(t, 3, maxDepth)
	require.Equal(t, -1, w.Depth())
}

func TestPPChildrenCount(t *testing.T) {
	root := ptree.New(0,
		ptree.New(1, ptree.New(2), ptree.New(3), ptree.New(4)),
		ptree.New(5),
	)
	counts := map[int]int{}
	w := &PP[intNode, intNode, int, struct{}]{
		Access: ptree.Access[int]{},
		OnNodeEnd: func(_ intNode, f *Frame[intNode, int, struct{}], _ int) {
			counts[f.Node.Value] = f.ChildrenCount
		},
	}
	w.Walk(nil, root)

	require.Equal(t, map[int]int{0: 2, 1: 3, 2: 0, 3: 0, 4: 0, 5: 0}, counts)
}

func TestPPPruneAtBegin(t *testing.T) {
	// 4-ary depth 3: the second child of the root roots 21 nodes.
	root := uniformTree(4, 3)
	second := root.Children[1]

	c := &counter{}
	w := countingPP(c)
	begin := w.OnNodeBegin
	var rootChildren int
	w.OnNodeBegin = func(tree intNode, f *Frame[intNode, int, struct{}], depth int) bool {
		begin(tree, f, depth)
		return f.Node != second
	}
	w.OnNodeEnd = func(_ intNode, f *Frame[intNode, int, struct{}], depth int) {
		c.ends++
		if depth == 0 {
			rootChildren = f.ChildrenCount
		}
	}
	w.Walk(nil, root)

	require.Equal(t, 85-21+1, c.begins)
	require.Equal(t, c.begins-1, c.ends)
	require.Equal(t, 4, rootChildren)
}

func TestPPPruneIf(t *testing.T) {
	root := uniformTree(4, 3)
	second := root.Children[1]

	c := &counter{}
	w := countingPP(c)
	var rootChildren int
	w.PruneIf = func(_ intNode, n intNode, _ int) bool { return n == second }
	w.OnNodeEnd = func(_ intNode, f *Frame[intNode, int, struct{}], depth int) {
		c.ends++
		if depth == 0 {
			rootChildren = f.ChildrenCount
		}
	}
	w.Walk(nil, root)

	require.Equal(t, 85-21, c.begins)
	require.Equal(t, c.begins, c.ends)
	require.Equal(t, 3, rootChildren)
}

func TestPPPruneRoot(t *testing.T) {
	c := &counter{}
	w := countingPP(c)
	w.PruneIf = func(intNode, intNode, int) bool { return true }
	w.Walk(nil, uniformTree(2, 2))

	require.Equal(t, 1, c.treeBegin)
	require.Equal(t, 1, c.treeEnd)
	require.Zero(t, c.begins)
	require.Zero(t, c.ends)
}

func TestPPSingleNode(t *testing.T) {
	c := &counter{}
	var children = -1
	w := countingPP(c)
	end := w.OnNodeEnd
	w.OnNodeEnd = func(tree intNode, f *Frame[intNode, int, struct{}], depth int) {
		end(tree, f, depth)
		children = f.ChildrenCount
	}
	w.Walk(nil, ptree.New(7))

	require.Equal(t, []int{7}, c.beginOrder)
	require.Equal(t, []int{7}, c.endOrder)
	require.Equal(t, 0, children)
}

func TestPPAccumulatesBottomUp(t *testing.T) {
	// Each node's Extra collects the number of leaves below it.
	root := uniformTree(3, 3)
	var leaves int
	var w *PP[intNode, intNode, int, int]
	w = &PP[intNode, intNode, int, int]{
		Access: ptree.Access[int]{},
		OnNodeBegin: func(_ intNode, f *Frame[intNode, int, int], _ int) bool {
			require.Zero(t, f.Extra)
			return true
		},
		OnNodeEnd: func(_ intNode, f *Frame[intNode, int, int], depth int) {
			if f.ChildrenCount == 0 {
				f.Extra = 1
			}
			if parent := w.Parent(); parent != nil {
				parent.Extra += f.Extra
			} else {
				leaves = f.Extra
			}
		},
	}
	w.Walk(nil, root)
	require.Equal(t, 27, leaves)

	// Reuse resets frames.
	w.Walk(nil, uniformTree(2, 2))
	require.Equal(t, 4, leaves)
}

func TestPPDeepChain(t *testing.T) {
	const n = 200000
	c := &counter{}
	w := countingPP(c)
	w.OnNodeBegin = func(intNode, *Frame[intNode, int, struct{}], int) bool {
		c.begins++
		return true
	}
	w.OnNodeEnd = func(_ intNode, _ *Frame[intNode, int, struct{}], depth int) {
		if c.ends == 0 {
			require.Equal(t, n-1, depth)
		}
		c.ends++
	}
	w.Walk(nil, ptree.Chain(n, func(i int) int { return i }))

	require.Equal(t, n, c.begins)
	require.Equal(t, n, c.ends)
}

func TestPPAccessorFunc(t *testing.T) {
	// Children by adjacency list; the tree handle is the list itself.
	adj := map[string][]string{
		"root": {"a", "b"},
		"a":    {"a1"},
		"b":    {"b1", "b2"},
	}
	type iter struct{ next int }

	var order []string
	w := &PP[map[string][]string, string, iter, struct{}]{
		Access: AccessorFunc[map[string][]string, string, iter](
			func(tree map[string][]string, node string, it *iter) (string, bool) {
				children := tree[node]
				if it.next >= len(children) {
					return "", false
				}
				it.next++
				return children[it.next-1], true
			}),
		OnNodeBegin: func(_ map[string][]string, f *Frame[string, iter, struct{}], _ int) bool {
			order = append(order, f.Node)
			return true
		},
	}
	w.Walk(adj, "root")

	require.Equal(t, []string{"root", "a", "a1", "b", "b1", "b2"}, order)
}

func TestSEventOrder(t *testing.T) {
	// 0
	// ├─1
	// │ ├─2
	// │ └─3
	// ├─4
	// │ ├─5
	// │ │ └─6
	// │ └─7
	// ├─8
	// └─9
	//   ├─10
	//   ├─11
	//   └─12
	n := func(v int, children ...intNode) intNode { return ptree.New(v, children...) }
	root := n(0,
		n(1, n(2), n(3)),
		n(4, n(5, n(6)), n(7)),
		n(8),
		n(9, n(10), n(11), n(12)),
	)

	var events []string
	record := func(kind string) func(intNode, *Frame[intNode, int, struct{}], int) {
		return func(_ intNode, f *Frame[intNode, int, struct{}], _ int) {
			events = append(events, fmt.Sprintf("%s%d", kind, f.Node.Value))
		}
	}
	w := &S[intNode, intNode, int, struct{}]{
		PP: PP[intNode, intNode, int, struct{}]{
			Access:      ptree.Access[int]{},
			OnTreeBegin: func(intNode, intNode) { events = append(events, "TB") },
			OnTreeEnd:   func(intNode, intNode) { events = append(events, "TE") },
			OnNodeBegin: func(tree intNode, f *Frame[intNode, int, struct{}], depth int) bool {
				record("B")(tree, f, depth)
				return true
			},
			OnNodeEnd: record("E"),
		},
		BeforeDirectChildren: record("BDC"),
		AfterDirectChildren:  record("ADC"),
	}
	w.Walk(nil, root)

	want := []string{
		"TB",
		"B0", "BDC0",
		"B1", "BDC1",
		"B2", "BDC2", "ADC2", "E2",
		"B3", "BDC3", "ADC3", "E3",
		"ADC1", "E1",
		"B4", "BDC4",
		"B5", "BDC5",
		"B6", "BDC6", "ADC6", "E6",
		"ADC5", "E5",
		"B7", "BDC7", "ADC7", "E7",
		"ADC4", "E4",
		"B8", "BDC8", "ADC8", "E8",
		"B9", "BDC9",
		"B10", "BDC10", "ADC10", "E10",
		"B11", "BDC11", "ADC11", "E11",
		"B12", "BDC12", "ADC12", "E12",
		"ADC9", "E9",
		"ADC0", "E0",
		"TE",
	}
	require.Equal(t, want, events)
}

func TestSPrunedNodeHasNoChildrenHooks(t *testing.T) {
	root := ptree.New(0, ptree.New(1, ptree.New(2)), ptree.New(3))

	var events []string
	w := &S[intNode, intNode, int, struct{}]{
		PP: PP[intNode, intNode, int, struct{}]{
			Access: ptree.Access[int]{},
			OnNodeBegin: func(_ intNode, f *Frame[intNode, int, struct{}], _ int) bool {
				return f.Node.Value != 1
			},
			PruneIf: func(_ intNode, n intNode, _ int) bool { return n.Value == 3 },
		},
		BeforeDirectChildren: func(_ intNode, f *Frame[intNode, int, struct{}], _ int) {
			events = append(events, fmt.Sprintf("BDC%d", f.Node.Value))
		},
		AfterDirectChildren: func(_ intNode, f *Frame[intNode, int, struct{}], _ int) {
			events = append(events, fmt.Sprintf("ADC%d", f.Node.Value))
		},
	}
	w.Walk(nil, root)

	require.Equal(t, []string{"BDC0", "ADC0"}, events)
}
