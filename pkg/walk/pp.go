package walk

import "go-gametree/pkg/stack"

const initialFrames = 16

// PP walks a pointer tree calling hooks in pre-order (OnNodeBegin) and
// post-order (OnNodeEnd). All hooks are optional. A PP value may be reused
// for several walks but is not reentrant.
type PP[T, N, I, X any] struct {
	Access Accessor[T, N, I]

	OnTreeBegin func(tree T, root N)
	OnTreeEnd   func(tree T, root N)

	// OnNodeBegin returning false prunes the node: its children are not
	// visited and OnNodeEnd is not called for it.
	OnNodeBegin func(tree T, f *Frame[N, I, X], depth int) bool
	OnNodeEnd   func(tree T, f *Frame[N, I, X], depth int)

	// PruneIf returning true skips the node entirely, as if it was not in
	// the tree: no OnNodeBegin, no OnNodeEnd.
	PruneIf func(tree T, node N, depth int) bool

	frames *stack.Stack[Frame[N, I, X]]
}

func (w *PP[T, N, I, X]) Walk(tree T, root N) {
	w.walk(tree, root, nil, nil)
}

// Depth returns the depth of the innermost open node, -1 outside a walk.
func (w *PP[T, N, I, X]) Depth() int {
	if w.frames == nil {
		return -1
	}
	return w.frames.Size() - 1
}

// Frame returns the frame of the open node at depth. Valid only inside
// hooks, for depths up to the current one.
func (w *PP[T, N, I, X]) Frame(depth int) *Frame[N, I, X] {
	return w.frames.At(depth)
}

// Parent returns the frame of the parent of the current node, or nil at
// the root.
func (w *PP[T, N, I, X]) Parent() *Frame[N, I, X] {
	if w.frames.Size() < 2 {
		return nil
	}
	return w.frames.At(w.frames.Size() - 2)
}

type levelHook[T, N, I, X any] func(tree T, f *Frame[N, I, X], depth int)

func (w *PP[T, N, I, X]) walk(tree T, root N, before, after levelHook[T, N, I, X]) {
	if w.frames == nil {
		w.frames = stack.New[Frame[N, I, X]](initialFrames)
	}
	w.frames.Reset()

	if w.OnTreeBegin != nil {
		w.OnTreeBegin(tree, root)
	}

	w.enter(tree, root, 0, before)
	for w.frames.Size() > 0 {
		depth := w.frames.Size() - 1
		f := w.frames.Top()

		child, ok := w.Access.TryGetNextChild(tree, f.Node, &f.Iter)
		if ok {
			w.enter(tree, child, depth+1, before)
			continue
		}

		if after != nil {
			after(tree, f, depth)
		}
		if w.OnNodeEnd != nil {
			w.OnNodeEnd(tree, f, depth)
		}
		w.frames.Pop()
	}

	if w.OnTreeEnd != nil {
		w.OnTreeEnd(tree, root)
	}
}

func (w *PP[T, N, I, X]) enter(tree T, node N, depth int, before levelHook[T, N, I, X]) {
	if w.PruneIf != nil && w.PruneIf(tree, node, depth) {
		return
	}
	if depth > 0 {
		w.frames.Top().ChildrenCount++
	}

	f := w.frames.Push()
	f.Node = node
	if w.OnNodeBegin != nil && !w.OnNodeBegin(tree, f, depth) {
		w.frames.Pop()
		return
	}
	if before != nil {
		before(tree, f, depth)
	}
}
