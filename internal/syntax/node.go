package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Node is a read-only view of one tree-sitter node. It borrows the tree and
// must not be used after the owning Tree is closed.
type Node struct {
	node   *sitter.Node
	source []byte
}

// Kind classifies the node. Anonymous tokens such as keywords are KindOther.
func (n Node) Kind() Kind {
	if n.node == nil || !n.node.IsNamed() {
		return KindOther
	}
	k := kindOfNodeType(n.node.Type())
	if k == KindAssign {
		return assignmentKind(n.node)
	}
	return k
}

// assignmentKind follows Python's own statement shapes: `x: int = 1` is an
// annotated assignment, and `a = b = v` is one assignment whose nested links
// are not counted again.
func assignmentKind(node *sitter.Node) Kind {
	if node.ChildByFieldName("type") != nil {
		return KindAnnAssign
	}
	parent := node.Parent()
	if parent == nil || parent.Type() != "assignment" {
		return KindAssign
	}
	if right := parent.ChildByFieldName("right"); right != nil &&
		right.StartByte() == node.StartByte() && right.EndByte() == node.EndByte() {
		return KindOther
	}
	return KindAssign
}

// Type returns the raw tree-sitter node type.
func (n Node) Type() string {
	if n.node == nil {
		return ""
	}
	return n.node.Type()
}

// Line returns the 1-based line the node starts on.
func (n Node) Line() int {
	return int(n.node.StartPoint().Row) + 1
}

// Column returns the 1-based byte column the node starts on.
func (n Node) Column() int {
	return int(n.node.StartPoint().Column) + 1
}

// Text returns the source text spanned by the node.
func (n Node) Text() string {
	return n.node.Content(n.source)
}

// CalleeName returns the name of the called function when the node is a call
// whose callee is a plain identifier. Method calls, subscripts and any other
// computed callee report false.
func (n Node) CalleeName() (string, bool) {
	if n.Kind() != KindCall {
		return "", false
	}
	callee := n.node.ChildByFieldName("function")
	if callee == nil || callee.Type() != "identifier" {
		return "", false
	}
	return callee.Content(n.source), true
}
