package cst

// Kind is the syntactic category label on a CST node. The constants below are
// the kinds the rewrite rules special-case; parsers are free to supply any
// other kind, which the traversal handles through its default rule.
type Kind string

const (
	KindVerusMacroUse       Kind = "verus_macro_use"
	KindParamList           Kind = "param_list"
	KindClosureParamList    Kind = "closure_param_list"
	KindFnBlockExpr         Kind = "fn_block_expr"
	KindCommaDelimitedExprs Kind = "comma_delimited_exprs"
	KindArgList             Kind = "arg_list"
	KindComment             Kind = "comment"
	KindFn                  Kind = "fn"
	KindName                Kind = "name"
	KindExpr                Kind = "expr"
	KindExprInner           Kind = "expr_inner"
	KindPathNoGenerics      Kind = "path_no_generics"
)

// Node is a typed view over one node of a concrete syntax tree. The tree is
// produced by an upstream parser and borrowed read-only by the rewrite
// traversal: Text is the exact verbatim source slice spanning the node, and
// Children are ordered as they appear in the source. A node's text is the
// concatenation of its children's text plus any structural text the grammar
// discarded (separators, delimiters); leaves carry their literal text
// directly.
type Node struct {
	Kind     Kind
	Text     string
	Children []*Node

	// Source location, for diagnostics only.
	StartByte uint
	EndByte   uint
	StartLine int
}

// NewLeaf creates a leaf node carrying its literal source text.
func NewLeaf(kind Kind, text string) *Node {
	return &Node{Kind: kind, Text: text}
}

// NewInner creates an interior node. The caller supplies the verbatim text
// spanning the whole node; per-child text is not re-derived from it.
func NewInner(kind Kind, text string, children ...*Node) *Node {
	return &Node{Kind: kind, Text: text, Children: children}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// ChildByKind returns the first child with the given kind, or nil.
func (n *Node) ChildByKind(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}
