package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Walker yields every node of a tree exactly once in pre-order depth-first
// order, children left to right, which follows the lexical order of the source.
// A Walker is single-use; call Tree.Walk for a fresh traversal.
type Walker struct {
	source []byte
	stack  []*sitter.Node
}

func newWalker(root *sitter.Node, source []byte) *Walker {
	w := &Walker{source: source}
	if root != nil && !root.IsNull() {
		w.stack = append(w.stack, root)
	}
	return w
}

// Next returns the next node, or false once the traversal is exhausted.
func (w *Walker) Next() (Node, bool) {
	if len(w.stack) == 0 {
		return Node{}, false
	}
	last := len(w.stack) - 1
	n := w.stack[last]
	w.stack = w.stack[:last]

	// push in reverse so the leftmost child is popped first
	for i := int(n.ChildCount()) - 1; i >= 0; i-- {
		if child := n.Child(i); child != nil {
			w.stack = append(w.stack, child)
		}
	}
	return Node{node: n, source: w.source}, true
}
