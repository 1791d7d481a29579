package walk

// S is PP with two more hooks bracketing the direct children of every
// begun node, leaves included. For a node N with children C1..Ck the events
// are:
//
//	OnNodeBegin(N) BeforeDirectChildren(N)
//	  subtree(C1) ... subtree(Ck)
//	AfterDirectChildren(N) OnNodeEnd(N)
type S[T, N, I, X any] struct {
	PP[T, N, I, X]

	BeforeDirectChildren func(tree T, f *Frame[N, I, X], depth int)
	AfterDirectChildren  func(tree T, f *Frame[N, I, X], depth int)
}

func (w *S[T, N, I, X]) Walk(tree T, root N) {
	w.walk(tree, root, w.BeforeDirectChildren, w.AfterDirectChildren)
}
