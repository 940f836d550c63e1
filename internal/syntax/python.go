package syntax

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// SyntaxError reports the first position where the source is not valid Python.
type SyntaxError struct {
	Line   int
	Column int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax at line %d, column %d: %s", e.Line, e.Column, e.Reason)
}

// Tree is one parsed source file. Close releases the underlying tree-sitter tree.
type Tree struct {
	tree   *sitter.Tree
	source []byte
}

// Root returns the module node.
func (t *Tree) Root() Node {
	return Node{node: t.tree.RootNode(), source: t.source}
}

// Walk starts a fresh pre-order traversal of the tree.
func (t *Tree) Walk() *Walker {
	return newWalker(t.tree.RootNode(), t.source)
}

// Close releases the tree. Nodes obtained from it must not be used afterwards.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

// PythonProvider parses Python 3 source with tree-sitter.
// tree-sitter parsers are not safe for concurrent use, so each Parse call
// borrows its own parser from a pool.
type PythonProvider struct {
	pool sync.Pool
}

// NewPythonProvider creates a provider with an empty parser pool.
func NewPythonProvider() *PythonProvider {
	return &PythonProvider{
		pool: sync.Pool{
			New: func() interface{} {
				parser := sitter.NewParser()
				parser.SetLanguage(python.GetLanguage())
				return parser
			},
		},
	}
}

// Parse parses source into a Tree. Sources tree-sitter can only recover from
// with ERROR or MISSING nodes are rejected with a *SyntaxError, as are the
// Python 2 statements the grammar still accepts.
func (p *PythonProvider) Parse(ctx context.Context, source []byte) (*Tree, error) {
	parser := p.pool.Get().(*sitter.Parser)
	defer func() {
		parser.Reset()
		p.pool.Put(parser)
	}()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	root := tree.RootNode()
	serr := firstError(root)
	if serr == nil && root.HasError() {
		serr = &SyntaxError{Line: 1, Column: 1, Reason: "unparsable source"}
	}
	if serr != nil {
		tree.Close()
		return nil, serr
	}

	return &Tree{tree: tree, source: source}, nil
}

// python2Statements are accepted by tree-sitter-python but rejected by Python 3.
var python2Statements = map[string]string{
	"print_statement": "missing parentheses in call to 'print'",
	"exec_statement":  "missing parentheses in call to 'exec'",
}

// firstError locates the first ERROR, MISSING or Python 2 statement node in
// pre-order, or returns nil.
func firstError(root *sitter.Node) *SyntaxError {
	w := newWalker(root, nil)
	for {
		n, ok := w.Next()
		if !ok {
			return nil
		}
		switch {
		case n.node.IsMissing():
			return &SyntaxError{Line: n.Line(), Column: n.Column(), Reason: fmt.Sprintf("missing %q", n.node.Type())}
		case n.node.Type() == "ERROR":
			return &SyntaxError{Line: n.Line(), Column: n.Column(), Reason: "unexpected token"}
		}
		if reason, ok := python2Statements[n.node.Type()]; ok && n.node.IsNamed() && !isChevronPrint(n.node) {
			return &SyntaxError{Line: n.Line(), Column: n.Column(), Reason: reason}
		}
	}
}

// isChevronPrint reports `print >>f, x`, which Python 3 reads as a tuple
// holding a shift expression.
func isChevronPrint(n *sitter.Node) bool {
	if n.Type() != "print_statement" || n.NamedChildCount() == 0 {
		return false
	}
	return n.NamedChild(0).Type() == "chevron"
}
