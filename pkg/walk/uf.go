package walk

import (
	"go-gametree/pkg/stack"
	"go-gametree/pkg/uftree"

	"github.com/pkg/errors"
)

// UFFrame is the walk state of one level of a flat tree.
type UFFrame[X any] struct {
	Node          int64
	Depth         int
	ChildrenCount int
	Extra         X
}

// UF walks a flat tree in one forward pass over its depth sequence, with
// the same hook semantics as PP. Depths passed to hooks are the stored
// absolute depths.
type UF[X any] struct {
	OnTreeBegin func(tree *uftree.Tree, start int64)
	OnTreeEnd   func(tree *uftree.Tree, start int64)
	OnNodeBegin func(tree *uftree.Tree, f *UFFrame[X], depth int) bool
	OnNodeEnd   func(tree *uftree.Tree, f *UFFrame[X], depth int)
	PruneIf     func(tree *uftree.Tree, node int64, depth int) bool

	frames *stack.Stack[UFFrame[X]]
}

// Walk visits the records from start on until the depth drops below the
// depth of start. Starting at the root walks the whole tree; starting
// elsewhere also walks the following siblings of start and their subtrees.
//
// A record more than one level deeper than its predecessor stops the walk:
// open nodes are closed and an error wrapping uftree.ErrBadDepth is returned.
func (w *UF[X]) Walk(tree *uftree.Tree, start int64) error {
	if w.frames == nil {
		w.frames = stack.New[UFFrame[X]](initialFrames)
	}
	w.frames.Reset()

	n := tree.NodesCount()
	if n == 0 && start == 0 {
		w.treeBegin(tree, start)
		w.treeEnd(tree, start)
		return nil
	}
	if start < 0 || start >= n {
		return errors.Wrapf(uftree.ErrIndexOutOfRange, "start node %d of %d", start, n)
	}

	w.treeBegin(tree, start)

	var err error
	startDepth := int(tree.Depth(start))
	prev := startDepth
	pruned := -1
	for i := start; i < n; i++ {
		d := int(tree.Depth(i))
		if d < startDepth {
			break
		}
		if d > prev+1 {
			err = errors.Wrapf(uftree.ErrBadDepth, "node %d: depth %d follows depth %d", i, d, prev)
			break
		}
		prev = d

		w.closeTo(tree, d)

		if pruned >= 0 {
			if d > pruned {
				continue
			}
			pruned = -1
		}
		if w.PruneIf != nil && w.PruneIf(tree, i, d) {
			pruned = d
			continue
		}

		if w.frames.Size() > 0 {
			w.frames.Top().ChildrenCount++
		}
		f := w.frames.Push()
		f.Node = i
		f.Depth = d
		if w.OnNodeBegin != nil && !w.OnNodeBegin(tree, f, d) {
			w.frames.Pop()
			pruned = d
		}
	}

	w.closeTo(tree, startDepth)
	w.treeEnd(tree, start)
	return err
}

// Depth returns the number of open frames minus one.
func (w *UF[X]) Depth() int {
	if w.frames == nil {
		return -1
	}
	return w.frames.Size() - 1
}

// Frame returns the i-th open frame counted from the start level.
func (w *UF[X]) Frame(i int) *UFFrame[X] {
	return w.frames.At(i)
}

func (w *UF[X]) Parent() *UFFrame[X] {
	if w.frames.Size() < 2 {
		return nil
	}
	return w.frames.At(w.frames.Size() - 2)
}

// closeTo ends every open node at depth d or deeper, deepest first.
func (w *UF[X]) closeTo(tree *uftree.Tree, d int) {
	for w.frames.Size() > 0 {
		f := w.frames.Top()
		if f.Depth < d {
			return
		}
		if w.OnNodeEnd != nil {
			w.OnNodeEnd(tree, f, f.Depth)
		}
		w.frames.Pop()
	}
}

func (w *UF[X]) treeBegin(tree *uftree.Tree, start int64) {
	if w.OnTreeBegin != nil {
		w.OnTreeBegin(tree, start)
	}
}

func (w *UF[X]) treeEnd(tree *uftree.Tree, start int64) {
	if w.OnTreeEnd != nil {
		w.OnTreeEnd(tree, start)
	}
}
