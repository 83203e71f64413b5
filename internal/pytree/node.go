package pytree

import (
	"slices"
	"strings"
)

// Type is the structural tag of a tree node. Leaf tags and composite tags
// share the namespace; composite tags follow the Python 2.7 grammar rule
// that produced the node.
type Type string

// Leaf types
const (
	Name      Type = "name"
	Keyword   Type = "keyword"
	Operator  Type = "operator"
	Number    Type = "number"
	String    Type = "string"
	Newline   Type = "newline"
	EndMarker Type = "endmarker"
)

// Composite types
const (
	FileInput      Type = "file_input"
	SimpleStmt     Type = "simple_stmt"
	ExprStmt       Type = "expr_stmt"
	PrintStmt      Type = "print_stmt"
	DelStmt        Type = "del_stmt"
	ReturnStmt     Type = "return_stmt"
	RaiseStmt      Type = "raise_stmt"
	ImportName     Type = "import_name"
	ImportFrom     Type = "import_from"
	ImportAsName   Type = "import_as_name"
	ImportAsNames  Type = "import_as_names"
	DottedAsName   Type = "dotted_as_name"
	DottedAsNames  Type = "dotted_as_names"
	DottedName     Type = "dotted_name"
	GlobalStmt     Type = "global_stmt"
	ExecStmt       Type = "exec_stmt"
	AssertStmt     Type = "assert_stmt"
	IfStmt         Type = "if_stmt"
	WhileStmt      Type = "while_stmt"
	ForStmt        Type = "for_stmt"
	TryStmt        Type = "try_stmt"
	ExceptClause   Type = "except_clause"
	WithStmt       Type = "with_stmt"
	WithItem       Type = "with_item"
	Suite          Type = "suite"
	Funcdef        Type = "funcdef"
	Parameters     Type = "parameters"
	VarArgsList    Type = "varargslist"
	Fplist         Type = "fplist"
	Classdef       Type = "classdef"
	Decorated      Type = "decorated"
	Decorators     Type = "decorators"
	Decorator      Type = "decorator"
	Lambdef        Type = "lambdef"
	Test           Type = "test"
	OrTest         Type = "or_test"
	AndTest        Type = "and_test"
	NotTest        Type = "not_test"
	Comparison     Type = "comparison"
	CompOp         Type = "comp_op"
	Expr           Type = "expr"
	XorExpr        Type = "xor_expr"
	AndExpr        Type = "and_expr"
	ShiftExpr      Type = "shift_expr"
	ArithExpr      Type = "arith_expr"
	Term           Type = "term"
	Factor         Type = "factor"
	Power          Type = "power"
	Trailer        Type = "trailer"
	Atom           Type = "atom"
	Strings        Type = "strings"
	TestlistComp   Type = "testlist_comp"
	DictOrSetMaker Type = "dictorsetmaker"
	Testlist       Type = "testlist"
	Exprlist       Type = "exprlist"
	Arglist        Type = "arglist"
	Argument       Type = "argument"
	Subscriptlist  Type = "subscriptlist"
	Subscript      Type = "subscript"
	Sliceop        Type = "sliceop"
	CompFor        Type = "comp_for"
	CompIf         Type = "comp_if"
	YieldExpr      Type = "yield_expr"
)

var leafTypes = map[Type]bool{
	Name:      true,
	Keyword:   true,
	Operator:  true,
	Number:    true,
	String:    true,
	Newline:   true,
	EndMarker: true,
}

// IsLeaf reports whether t tags a leaf.
func (t Type) IsLeaf() bool {
	return leafTypes[t]
}

// Node is a concrete syntax tree node. Leaves carry Value and Prefix (the
// whitespace and comments preceding the value); composites carry Children.
//
// A node owns its children. Parent is a back-reference used only for
// navigating upward.
type Node struct {
	Type     Type
	Value    string
	Prefix   string
	Children []*Node
	Parent   *Node
}

// NewLeaf creates a detached leaf.
func NewLeaf(typ Type, value, prefix string) *Node {
	return &Node{Type: typ, Value: value, Prefix: prefix}
}

// NewNode creates a composite node and adopts the given children.
func NewNode(typ Type, children []*Node) *Node {
	n := &Node{Type: typ, Children: children}
	for _, c := range children {
		c.Parent = n
	}
	return n
}

func (n *Node) IsLeaf() bool {
	return n.Type.IsLeaf()
}

// Is reports whether n is a leaf of type typ with the given value.
func (n *Node) Is(typ Type, value string) bool {
	return n != nil && n.Type == typ && n.Value == value
}

// IsOperator reports whether n is the operator leaf op.
func (n *Node) IsOperator(op string) bool {
	return n.Is(Operator, op)
}

// IsKeyword reports whether n is the keyword leaf kw.
func (n *Node) IsKeyword(kw string) bool {
	return n.Is(Keyword, kw)
}

// Code serializes the subtree. For a freshly parsed tree, the root's Code
// is the original source text.
func (n *Node) Code() string {
	var sb strings.Builder
	n.writeCode(&sb)
	return sb.String()
}

func (n *Node) writeCode(sb *strings.Builder) {
	if n.IsLeaf() {
		sb.WriteString(n.Prefix)
		sb.WriteString(n.Value)
		return
	}
	for _, c := range n.Children {
		c.writeCode(sb)
	}
}

// Text is Code without the leading prefix of the first leaf.
func (n *Node) Text() string {
	code := n.Code()
	if first := n.FirstLeaf(); first != nil {
		return code[len(first.Prefix):]
	}
	return code
}

// FirstLeaf returns the first leaf of the subtree, or nil for an empty composite.
func (n *Node) FirstLeaf() *Node {
	for !n.IsLeaf() {
		if len(n.Children) == 0 {
			return nil
		}
		n = n.Children[0]
	}
	return n
}

// LastLeaf returns the last leaf of the subtree, or nil for an empty composite.
func (n *Node) LastLeaf() *Node {
	for !n.IsLeaf() {
		if len(n.Children) == 0 {
			return nil
		}
		n = n.Children[len(n.Children)-1]
	}
	return n
}

// Index returns the position of n in its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	return slices.Index(n.Parent.Children, n)
}

func (n *Node) NextSibling() *Node {
	i := n.Index()
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

func (n *Node) PrevSibling() *Node {
	i := n.Index()
	if i <= 0 {
		return nil
	}
	return n.Parent.Children[i-1]
}

// NextLeaf returns the leaf following n in document order.
func (n *Node) NextLeaf() *Node {
	cur := n
	for {
		sib := cur.NextSibling()
		if sib != nil {
			if leaf := sib.FirstLeaf(); leaf != nil {
				return leaf
			}
			cur = sib
			continue
		}
		if cur.Parent == nil {
			return nil
		}
		cur = cur.Parent
	}
}

// PrevLeaf returns the leaf preceding n in document order.
func (n *Node) PrevLeaf() *Node {
	cur := n
	for {
		sib := cur.PrevSibling()
		if sib != nil {
			if leaf := sib.LastLeaf(); leaf != nil {
				return leaf
			}
			cur = sib
			continue
		}
		if cur.Parent == nil {
			return nil
		}
		cur = cur.Parent
	}
}

func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Ancestor returns the nearest proper ancestor whose type is one of types.
func (n *Node) Ancestor(types ...Type) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if slices.Contains(types, p.Type) {
			return p
		}
	}
	return nil
}

// Statement returns the enclosing statement of n: the nearest ancestor
// that is a direct child of a file_input or suite.
func (n *Node) Statement() *Node {
	cur := n
	for cur.Parent != nil {
		if cur.Parent.Type == FileInput || cur.Parent.Type == Suite {
			return cur
		}
		cur = cur.Parent
	}
	return nil
}

// SetChild replaces the i-th child. The old child is detached.
func (n *Node) SetChild(i int, child *Node) {
	old := n.Children[i]
	if old != child && old.Parent == n {
		old.Parent = nil
	}
	n.Children[i] = child
	child.Parent = n
}

// InsertChild inserts child at position i.
func (n *Node) InsertChild(i int, child *Node) {
	n.Children = slices.Insert(n.Children, i, child)
	child.Parent = n
}

// RemoveChild detaches the i-th child and returns it.
func (n *Node) RemoveChild(i int) *Node {
	old := n.Children[i]
	n.Children = slices.Delete(n.Children, i, i+1)
	old.Parent = nil
	return old
}

// Position is a 1-based line and 0-based column, following the Python
// tokenizer convention.
type Position struct {
	Line   int
	Column int
}

// StartPos returns the position where the value of n's first leaf begins,
// computed from the current content of the whole tree.
func (n *Node) StartPos() Position {
	first := n.FirstLeaf()
	if first == nil {
		return Position{Line: 1}
	}
	pos := Position{Line: 1}
	for leaf := range Leaves(n.Root()) {
		pos = advance(pos, leaf.Prefix)
		if leaf == first {
			return pos
		}
		pos = advance(pos, leaf.Value)
	}
	return pos
}

// EndPos returns the position just past the value of n's last leaf.
func (n *Node) EndPos() Position {
	last := n.LastLeaf()
	if last == nil {
		return n.StartPos()
	}
	return advance(last.StartPos(), last.Value)
}

func advance(pos Position, text string) Position {
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		pos.Line += strings.Count(text, "\n")
		pos.Column = len(text) - i - 1
		return pos
	}
	pos.Column += len(text)
	return pos
}
