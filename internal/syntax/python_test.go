package syntax

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := NewPythonProvider().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func namedTypes(w *Walker) []string {
	var types []string
	for {
		n, ok := w.Next()
		if !ok {
			return types
		}
		if n.node.IsNamed() {
			types = append(types, n.Type())
		}
	}
}

func TestWalkerPreOrder(t *testing.T) {
	tree := parse(t, "import os\nx = f(a)\n")

	want := []string{
		"module",
		"import_statement", "dotted_name", "identifier",
		"expression_statement", "assignment", "identifier",
		"call", "identifier", "argument_list", "identifier",
	}
	assert.Equal(t, want, namedTypes(tree.Walk()))
}

func TestWalkerIsRestartable(t *testing.T) {
	tree := parse(t, "def f():\n    return g(1)\n")

	first := namedTypes(tree.Walk())
	second := namedTypes(tree.Walk())
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestWalkerVisitsEveryNodeOnce(t *testing.T) {
	tree := parse(t, "a = [1, 2]\nb = a[0]\n")

	seen := map[[2]uint32]map[string]int{}
	count := 0
	w := tree.Walk()
	for {
		n, ok := w.Next()
		if !ok {
			break
		}
		count++
		key := [2]uint32{n.node.StartByte(), n.node.EndByte()}
		if seen[key] == nil {
			seen[key] = map[string]int{}
		}
		seen[key][n.Type()]++
		assert.Equal(t, 1, seen[key][n.Type()], "node %s visited twice", n.Type())
	}
	assert.Greater(t, count, 10)
}

func TestNodeKindsAndLines(t *testing.T) {
	src := `from __future__ import annotations
import pickle
from os import path

class Handler:
    def run(self, data):
        assert data
        with open(data) as fh:
            value = fh.read()[0]
        try:
            fn = lambda v: v
        except Exception:
            raise
        global counter
a = b = eval(x)
limit: int = 1
name: str
`
	tree := parse(t, src)

	lines := map[Kind][]int{}
	w := tree.Walk()
	for {
		n, ok := w.Next()
		if !ok {
			break
		}
		if k := n.Kind(); k != KindOther {
			lines[k] = append(lines[k], n.Line())
		}
	}

	assert.Equal(t, []int{2}, lines[KindImport])
	assert.Equal(t, []int{1, 3}, lines[KindImportFrom])
	assert.Equal(t, []int{5}, lines[KindClassDef])
	assert.Equal(t, []int{6}, lines[KindFunctionDef])
	assert.Equal(t, []int{7}, lines[KindAssert])
	assert.Equal(t, []int{8}, lines[KindWith])
	assert.Equal(t, []int{8, 9, 15}, lines[KindCall])
	assert.Equal(t, []int{9}, lines[KindAttribute])
	assert.Equal(t, []int{9}, lines[KindSubscript])
	// the chained assignment on line 15 counts once
	assert.Equal(t, []int{9, 11, 15}, lines[KindAssign])
	assert.Equal(t, []int{16, 17}, lines[KindAnnAssign])
	assert.Equal(t, []int{10}, lines[KindTry])
	assert.Equal(t, []int{11}, lines[KindLambda])
	assert.Equal(t, []int{13}, lines[KindRaise])
	assert.Equal(t, []int{14}, lines[KindGlobal])
	assert.NotContains(t, lines, KindUnknown)
}

func TestCalleeName(t *testing.T) {
	tests := []struct {
		src    string
		want   string
		wantOK bool
	}{
		{src: "eval(user_input)", want: "eval", wantOK: true},
		{src: "safe_eval(x)", want: "safe_eval", wantOK: true},
		{src: "obj.eval(x)", wantOK: false},
		{src: "handlers[0](x)", wantOK: false},
		{src: "(eval)(x)", wantOK: false},
		{src: "make()(x)", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree := parse(t, tt.src+"\n")

			// the outermost call is the first one in pre-order
			w := tree.Walk()
			for {
				n, ok := w.Next()
				require.True(t, ok, "no call node found")
				if n.Kind() != KindCall {
					continue
				}
				name, ok := n.CalleeName()
				assert.Equal(t, tt.wantOK, ok)
				assert.Equal(t, tt.want, name)
				return
			}
		})
	}
}

func TestCalleeNameOnNonCall(t *testing.T) {
	tree := parse(t, "eval\n")
	name, ok := tree.Root().CalleeName()
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestParseRejectsInvalidPython(t *testing.T) {
	tests := []string{
		"def broken(:\n    pass\n",
		"x = = 1\n",
		"print('ok')\nif True\n    pass\n",
		"print 'hello'\n",
		"exec 'import os'\n",
		"exec code\n",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			tree, err := NewPythonProvider().Parse(context.Background(), []byte(src))
			assert.Nil(t, tree)

			var serr *SyntaxError
			require.ErrorAs(t, err, &serr)
			assert.GreaterOrEqual(t, serr.Line, 1)
			assert.Contains(t, serr.Error(), "invalid syntax at line")
		})
	}
}

func TestParsePython2Statements(t *testing.T) {
	tests := []struct {
		src    string
		line   int
		reason string
	}{
		{src: "import os\nprint 'hello'\n", line: 2, reason: "'print'"},
		{src: "def f(code):\n    exec code\n", line: 2, reason: "'exec'"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := NewPythonProvider().Parse(context.Background(), []byte(tt.src))

			var serr *SyntaxError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.line, serr.Line)
			assert.Contains(t, serr.Reason, tt.reason)
		})
	}
}

func TestParseAcceptsPython3Builtins(t *testing.T) {
	tree := parse(t, "print('hello')\nexec('import os')\nprint(*args, sep='')\n")
	assert.Contains(t, namedTypes(tree.Walk()), "call")
}

func TestParseEmptySource(t *testing.T) {
	tree := parse(t, "")
	assert.Equal(t, []string{"module"}, namedTypes(tree.Walk()))
}

func TestProviderConcurrentParse(t *testing.T) {
	provider := NewPythonProvider()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := provider.Parse(context.Background(), []byte("eval(x)\nexec(y)\n"))
			if !assert.NoError(t, err) {
				return
			}
			defer tree.Close()

			calls := 0
			w := tree.Walk()
			for {
				n, ok := w.Next()
				if !ok {
					break
				}
				if n.Kind() == KindCall {
					calls++
				}
			}
			assert.Equal(t, 2, calls)
		}()
	}
	wg.Wait()
}
