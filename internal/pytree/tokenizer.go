package pytree

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEndMarker tokenKind = iota
	tokName
	tokNumber
	tokString
	tokOp
	tokNewline
	tokIndent
	tokDedent
)

func (k tokenKind) String() string {
	switch k {
	case tokEndMarker:
		return "ENDMARKER"
	case tokName:
		return "NAME"
	case tokNumber:
		return "NUMBER"
	case tokString:
		return "STRING"
	case tokOp:
		return "OP"
	case tokNewline:
		return "NEWLINE"
	case tokIndent:
		return "INDENT"
	case tokDedent:
		return "DEDENT"
	default:
		return "UNKNOWN"
	}
}

// token is a lexical token. Prefix holds everything between the previous
// token and this one: whitespace, comments, blank lines, indentation and
// backslash continuations. INDENT and DEDENT tokens never own a prefix.
type token struct {
	kind   tokenKind
	value  string
	prefix string
	line   int
	col    int
}

const (
	tabSize = 8
	bom     = "\ufeff"
)

var (
	threeCharOps = []string{"**=", "//=", ">>=", "<<="}
	twoCharOps   = []string{
		"**", "//", ">>", "<<", "<>", "!=", "==", "<=", ">=",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "->",
	}
	oneCharOps = "+-*/%&|^~<>()[]{},:.;@=`"
)

type tokenizer struct {
	src         string
	pos         int
	line        int
	col         int
	prefixStart int
	parenDepth  int
	indents     []int
	lineOpen    bool
	tokens      []token
}

// tokenize splits src into tokens. Concatenating prefix and value of every
// token reproduces src exactly.
func tokenize(src string) ([]token, error) {
	t := &tokenizer{src: src, line: 1, indents: []int{0}}
	if err := t.run(); err != nil {
		return nil, err
	}
	return t.tokens, nil
}

func (t *tokenizer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: t.line, Column: t.col, Msg: fmt.Sprintf(format, args...)}
}

func (t *tokenizer) run() error {
	if strings.HasPrefix(t.src, bom) {
		t.consume(len(bom))
	}

	atLineStart := true
	for {
		if atLineStart && t.parenDepth == 0 {
			eof, err := t.lineStart()
			if err != nil {
				return err
			}
			if eof {
				break
			}
			atLineStart = false
		}

		if err := t.skipSpace(); err != nil {
			return err
		}
		if t.pos >= len(t.src) {
			break
		}

		if nl := t.newlineAt(t.pos); nl > 0 {
			if t.parenDepth > 0 {
				t.consume(nl)
				continue
			}
			t.emit(tokNewline, nl)
			t.lineOpen = false
			atLineStart = true
			continue
		}

		if err := t.scanToken(); err != nil {
			return err
		}
		t.lineOpen = true
	}

	if t.parenDepth > 0 {
		return t.errorf("unexpected EOF in multi-line statement")
	}
	if t.lineOpen {
		t.emit(tokNewline, 0)
	}
	for len(t.indents) > 1 {
		t.indents = t.indents[:len(t.indents)-1]
		t.emitStructural(tokDedent)
	}
	t.consume(len(t.src) - t.pos)
	t.emit(tokEndMarker, 0)
	return nil
}

// lineStart consumes blank and comment-only lines and emits INDENT/DEDENT
// tokens for the first line carrying code. It reports whether EOF was hit.
func (t *tokenizer) lineStart() (bool, error) {
	for {
		width := t.measureIndent()
		if t.pos >= len(t.src) {
			return true, nil
		}
		if t.src[t.pos] == '#' {
			t.skipComment()
		}
		if t.pos >= len(t.src) {
			return true, nil
		}
		if nl := t.newlineAt(t.pos); nl > 0 {
			t.consume(nl)
			continue
		}

		top := t.indents[len(t.indents)-1]
		switch {
		case width > top:
			t.indents = append(t.indents, width)
			t.emitStructural(tokIndent)
		case width < top:
			for width < t.indents[len(t.indents)-1] {
				t.indents = t.indents[:len(t.indents)-1]
				t.emitStructural(tokDedent)
			}
			if width != t.indents[len(t.indents)-1] {
				return false, t.errorf("unindent does not match any outer indentation level")
			}
		}
		return false, nil
	}
}

// measureIndent consumes leading whitespace and returns its width.
func (t *tokenizer) measureIndent() int {
	width := 0
	for t.pos < len(t.src) {
		switch t.src[t.pos] {
		case ' ':
			width++
		case '\t':
			width = (width/tabSize + 1) * tabSize
		case '\f':
			width = 0
		default:
			return width
		}
		t.consume(1)
	}
	return width
}

func (t *tokenizer) skipSpace() error {
	for t.pos < len(t.src) {
		switch c := t.src[t.pos]; c {
		case ' ', '\t', '\f':
			t.consume(1)
		case '\\':
			nl := t.newlineAt(t.pos + 1)
			if nl == 0 {
				return t.errorf("unexpected character after line continuation character")
			}
			t.consume(1 + nl)
		case '#':
			t.skipComment()
		default:
			return nil
		}
	}
	return nil
}

func (t *tokenizer) skipComment() {
	end := t.pos
	for end < len(t.src) && t.src[end] != '\n' && t.src[end] != '\r' {
		end++
	}
	t.consume(end - t.pos)
}

// newlineAt returns the length of the line terminator starting at i, or 0.
func (t *tokenizer) newlineAt(i int) int {
	if i >= len(t.src) {
		return 0
	}
	switch t.src[i] {
	case '\n':
		return 1
	case '\r':
		if i+1 < len(t.src) && t.src[i+1] == '\n' {
			return 2
		}
		return 1
	}
	return 0
}

func (t *tokenizer) scanToken() error {
	c := t.src[t.pos]
	switch {
	case isNameStart(c):
		if q := t.stringPrefixEnd(); q >= 0 {
			return t.scanString(q)
		}
		end := t.pos + 1
		for end < len(t.src) && isNameChar(t.src[end]) {
			end++
		}
		t.emit(tokName, end-t.pos)
	case isDigit(c) || (c == '.' && t.pos+1 < len(t.src) && isDigit(t.src[t.pos+1])):
		t.scanNumber()
	case c == '"' || c == '\'':
		return t.scanString(t.pos)
	default:
		return t.scanOperator()
	}
	return nil
}

// stringPrefixEnd returns the index of the opening quote when the name at
// the cursor is a string prefix such as u, b, r, ur or br; otherwise -1.
func (t *tokenizer) stringPrefixEnd() int {
	i := t.pos
	if i < len(t.src) && strings.IndexByte("uUbB", t.src[i]) >= 0 {
		i++
	}
	if i < len(t.src) && strings.IndexByte("rR", t.src[i]) >= 0 {
		i++
	}
	if i > t.pos && i < len(t.src) && (t.src[i] == '"' || t.src[i] == '\'') {
		return i
	}
	return -1
}

func (t *tokenizer) scanString(quoteAt int) error {
	quote := t.src[quoteAt]
	triple := strings.HasPrefix(t.src[quoteAt:], strings.Repeat(string(quote), 3))
	i := quoteAt + 1
	if triple {
		i = quoteAt + 3
	}
	for {
		if i >= len(t.src) {
			return t.errorf("EOF while scanning string literal")
		}
		c := t.src[i]
		switch {
		case c == '\\':
			i += 1 + max(t.newlineAt(i+1), 1)
			continue
		case !triple && (c == '\n' || c == '\r'):
			return t.errorf("EOL while scanning string literal")
		case c == quote:
			if !triple {
				t.emit(tokString, i+1-t.pos)
				return nil
			}
			if strings.HasPrefix(t.src[i:], strings.Repeat(string(quote), 3)) {
				t.emit(tokString, i+3-t.pos)
				return nil
			}
		}
		i++
	}
}

func (t *tokenizer) scanNumber() {
	src := t.src
	i := t.pos
	digits := func(ok func(byte) bool) {
		for i < len(src) && ok(src[i]) {
			i++
		}
	}

	if src[i] == '0' && i+1 < len(src) && strings.IndexByte("xXoObB", src[i+1]) >= 0 {
		i += 2
		digits(isHexDigit)
	} else {
		digits(isDigit)
		if i < len(src) && src[i] == '.' {
			i++
			digits(isDigit)
		}
		if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
			j := i + 1
			if j < len(src) && (src[j] == '+' || src[j] == '-') {
				j++
			}
			if j < len(src) && isDigit(src[j]) {
				i = j
				digits(isDigit)
			}
		}
	}
	if i < len(src) && strings.IndexByte("lLjJ", src[i]) >= 0 {
		i++
	}
	t.emit(tokNumber, i-t.pos)
}

func (t *tokenizer) scanOperator() error {
	rest := t.src[t.pos:]
	for _, op := range threeCharOps {
		if strings.HasPrefix(rest, op) {
			t.emit(tokOp, 3)
			return nil
		}
	}
	for _, op := range twoCharOps {
		if strings.HasPrefix(rest, op) {
			t.emit(tokOp, 2)
			return nil
		}
	}
	c := rest[0]
	if strings.IndexByte(oneCharOps, c) < 0 {
		return t.errorf("unexpected character %q", c)
	}
	switch c {
	case '(', '[', '{':
		t.parenDepth++
	case ')', ']', '}':
		if t.parenDepth == 0 {
			return t.errorf("unmatched %q", c)
		}
		t.parenDepth--
	}
	t.emit(tokOp, 1)
	return nil
}

// emit turns the next n bytes into a token owning the pending prefix.
func (t *tokenizer) emit(kind tokenKind, n int) {
	prefix := t.src[t.prefixStart:t.pos]
	line, col := t.line, t.col
	value := t.src[t.pos : t.pos+n]
	t.consume(n)
	t.tokens = append(t.tokens, token{kind: kind, value: value, prefix: prefix, line: line, col: col})
	t.prefixStart = t.pos
}

func (t *tokenizer) emitStructural(kind tokenKind) {
	t.tokens = append(t.tokens, token{kind: kind, line: t.line, col: t.col})
}

func (t *tokenizer) consume(n int) {
	for _, c := range []byte(t.src[t.pos : t.pos+n]) {
		if c == '\n' {
			t.line++
			t.col = 0
		} else {
			t.col++
		}
	}
	t.pos += n
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
