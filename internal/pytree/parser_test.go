package pytree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"only comment", "# just a comment\n"},
		{"no trailing newline", "x = 1"},
		{"crlf", "x = 1\r\ny = 2\r\n"},
		{"bom", "\ufeffimport os\n"},
		{"trailing blank lines", "x = 1\n\n\n# tail\n"},
		{"print statement", "print 'a', b,\nprint >>sys.stderr, 'x'\nprint\n"},
		{"backticks and diamond", "s = `x`\nif a <> b: pass\n"},
		{"octal and long", "m = 0755\nn = 10L\nh = 0xFFL\nc = 1j\n"},
		{"floats", "a = 1.5e-3 + .5 + 5. + 1E10\n"},
		{"backslash", "x = 1 + \\\n    2\n"},
		{"brackets span lines", "d = {\n    'a': 1,  # one\n    'b': [2,\n          3],\n}\n"},
		{"decorators", "@property\n@cache(1, key=2)\ndef f(self):\n    return self._f\n"},
		{"try except comma", "try:\n    pass\nexcept (IOError, OSError), e:\n    raise ValueError, 'bad', tb\nelse:\n    x = 1\nfinally:\n    y = 2\n"},
		{"lambda", "f = lambda x, (y, z)=(1, 2), *a, **k: x\n"},
		{"comprehensions", "a = [x for x in y if x if not x]\nb = {k: v for k, v in d.items()}\nc = {x for x in s}\ng = sum(x for x in y)\n"},
		{"slices", "a[1:2], a[::2], a[:], a[1:], a[..., 0], a[x, y:z]\n"},
		{"nested blocks", "class A(B, C):\n    def f(self, a=1):\n        if a:\n            for i in range(a):\n                while i:\n                    i -= 1\n            else:\n                pass\n        elif a is not None:\n            pass\n        return a\n"},
		{"tabs", "if x:\n\tif y:\n\t\tpass\n"},
		{"comment dedent", "if x:\n    a = 1\n# dedented comment\n    b = 2\nc = 3\n"},
		{"imports", "import os.path as p, sys\nfrom . import a\nfrom ..b import (c,\n    d as e,)\nfrom x import *\n"},
		{"exec global assert", "def f():\n    global a, b\n    exec code in g, l\n    assert a, 'msg'\n"},
		{"with", "with open(f) as fh, lock:\n    data = fh.read()\n"},
		{"yield", "def g():\n    x = yield\n    yield x, 1\n    y = (yield)\n"},
		{"strings", "s = u'a' b\"b\" r'\\d' ur'x' '''multi\nline''' \"\"\"doc\"\"\"\n"},
		{"semicolons", "a = 1; b = 2;\n"},
		{"augassign", "a += 1; b //= 2; c **= 3; d >>= 1\n"},
		{"ternary and boolean", "x = a if b else c or d and not e\n"},
		{"comparisons", "ok = a < b <= c != d not in e is not f in g\n"},
		{"unary and power", "x = -a ** -b + ~c\n"},
		{"dict keys check", "if k in d.keys():\n    pass\n"},
		{"del", "del a[0], b.c\n"},
		{"inline suite", "if x: y = 1; z = 2\n"},
		{"print function", "from __future__ import print_function\nprint('a', file=sys.stderr)\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tree, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, FileInput, tree.Type)
			assert.Equal(t, tt.src, tree.Code())
			assert.Equal(t, EndMarker, tree.Children[len(tree.Children)-1].Type)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unterminated string", "x = 'abc\n", 1},
		{"unclosed paren", "x = (1,\n", 2},
		{"unmatched bracket", "x = 1]\n", 1},
		{"bad dedent", "if x:\n        a\n    b\n", 3},
		{"unexpected indent", "a = 1\n    b = 2\n", 2},
		{"missing colon", "if x\n    pass\n", 1},
		{"stray character", "x = $\n", 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.line, se.Line)
		})
	}
}

func TestParseShapes(t *testing.T) {
	t.Parallel()

	t.Run("power with trailers", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("a.b(c)[d]\n")
		require.NoError(t, err)

		stmt := tree.Children[0]
		require.Equal(t, SimpleStmt, stmt.Type)
		power := stmt.Children[0]
		require.Equal(t, Power, power.Type)
		require.Len(t, power.Children, 4)
		assert.True(t, power.Children[0].Is(Name, "a"))
		assert.Equal(t, ".b", power.Children[1].Code())
		assert.Equal(t, "(c)", power.Children[2].Code())
		assert.Equal(t, "[d]", power.Children[3].Code())
		for _, tr := range power.Children[1:] {
			assert.Equal(t, Trailer, tr.Type)
		}
	})

	t.Run("single child rules collapse", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("x\n")
		require.NoError(t, err)
		assert.True(t, tree.Children[0].Children[0].Is(Name, "x"))
	})

	t.Run("not in is a comp_op node", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("a not in b\n")
		require.NoError(t, err)
		cmp := tree.Children[0].Children[0]
		require.Equal(t, Comparison, cmp.Type)
		assert.Equal(t, CompOp, cmp.Children[1].Type)
		assert.True(t, cmp.Children[1].Children[1].IsKeyword("in"))
	})

	t.Run("plain in is a keyword leaf", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("a in b\n")
		require.NoError(t, err)
		cmp := tree.Children[0].Children[0]
		require.Equal(t, Comparison, cmp.Type)
		assert.True(t, cmp.Children[1].IsKeyword("in"))
	})

	t.Run("for iterable at index three", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("for k in d.iteritems():\n    pass\n[x for x in y.keys()]\n")
		require.NoError(t, err)
		forStmt := tree.Children[0]
		require.Equal(t, ForStmt, forStmt.Type)
		assert.Equal(t, "d.iteritems()", forStmt.Children[3].Text())

		atom := tree.Children[1].Children[0]
		require.Equal(t, Atom, atom.Type)
		compFor := atom.Children[1].Children[1]
		require.Equal(t, CompFor, compFor.Type)
		assert.Equal(t, "y.keys()", compFor.Children[3].Text())
	})

	t.Run("suite starts with newline", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("if x:\n    a\n    b\n")
		require.NoError(t, err)
		suite := tree.Children[0].Children[3]
		require.Equal(t, Suite, suite.Type)
		assert.Equal(t, Newline, suite.Children[0].Type)
		assert.Len(t, suite.Children, 3)
	})

	t.Run("comment at line end belongs to newline", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("x = 1  # note\n")
		require.NoError(t, err)
		nl := tree.Children[0].Children[1]
		require.Equal(t, Newline, nl.Type)
		assert.Equal(t, "  # note", nl.Prefix)
	})

	t.Run("missing final newline yields empty newline leaf", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("x")
		require.NoError(t, err)
		nl := tree.Children[0].Children[1]
		assert.Equal(t, Newline, nl.Type)
		assert.Equal(t, "", nl.Value)
	})

	t.Run("trailing comments go to endmarker", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("x\n\n# bye\n")
		require.NoError(t, err)
		end := tree.Children[len(tree.Children)-1]
		assert.Equal(t, "\n# bye\n", end.Prefix)
	})

	t.Run("print statement keyword", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("print x\n")
		require.NoError(t, err)
		stmt := tree.Children[0].Children[0]
		require.Equal(t, PrintStmt, stmt.Type)
		assert.True(t, stmt.Children[0].IsKeyword("print"))
	})

	t.Run("print function import makes print a name", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("from __future__ import print_function\nprint(x)\n")
		require.NoError(t, err)
		power := tree.Children[1].Children[0]
		require.Equal(t, Power, power.Type)
		assert.True(t, power.Children[0].Is(Name, "print"))
	})

	t.Run("print function grammar", func(t *testing.T) {
		t.Parallel()
		tree, err := ParseGrammar("print(x, end='')\n", Grammar{PrintFunction: true})
		require.NoError(t, err)
		assert.Equal(t, Power, tree.Children[0].Children[0].Type)
	})

	t.Run("binary chains are flat", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("a + b - c\n")
		require.NoError(t, err)
		arith := tree.Children[0].Children[0]
		require.Equal(t, ArithExpr, arith.Type)
		assert.Len(t, arith.Children, 5)
	})

	t.Run("keyword argument", func(t *testing.T) {
		t.Parallel()
		tree, err := Parse("f(x, dtype=int)\n")
		require.NoError(t, err)
		power := tree.Children[0].Children[0]
		arglist := power.Children[1].Children[1]
		require.Equal(t, Arglist, arglist.Type)
		arg := arglist.Children[2]
		require.Equal(t, Argument, arg.Type)
		assert.True(t, arg.Children[0].Is(Name, "dtype"))
		assert.True(t, arg.Children[2].Is(Name, "int"))
	})
}
