package cst

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// KindMap translates grammar-specific node kind names into the rewrite kind
// vocabulary. Kinds absent from the map pass through unchanged and are
// handled by the traversal's default rule.
type KindMap map[string]Kind

// RustKinds returns the kind mapping for the tree-sitter Rust grammar.
// Context-dependent kinds (function name fields, body blocks, callee paths,
// the verus! macro wrapper) are resolved by the adapter itself.
func RustKinds() KindMap {
	return KindMap{
		"function_item":      KindFn,
		"parameters":         KindParamList,
		"closure_parameters": KindClosureParamList,
		"arguments":          KindArgList,
		"call_expression":    KindExpr,
		"line_comment":       KindComment,
		"block_comment":      KindComment,
	}
}

// ParseRust parses source with the tree-sitter Rust grammar and adapts the
// resulting tree into the borrowed Node view. The parser and tree are closed
// before returning; the adapted tree owns no tree-sitter resources.
func ParseRust(source []byte) (*Node, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(sitter.NewLanguage(rust.Language()))

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter could not parse source")
	}
	defer tree.Close()

	return FromSitter(tree.RootNode(), source, RustKinds()), nil
}

// FromSitter converts a tree-sitter tree into the Node view, translating kind
// names through the given KindMap. Delimiter and separator tokens of shapes
// the rewrite rules canonicalize (parameter lists, argument lists, block
// braces) are dropped, since those rules regenerate them.
func FromSitter(root *sitter.Node, source []byte, kinds KindMap) *Node {
	a := &sitterAdapter{source: source, kinds: kinds}
	return a.adapt(root, "")
}

type sitterAdapter struct {
	source []byte
	kinds  KindMap
}

// adapt converts one tree-sitter node. kindOverride carries a kind decided by
// the parent (name field, body block), empty when the node maps on its own.
func (a *sitterAdapter) adapt(n *sitter.Node, kindOverride Kind) *Node {
	kind := kindOverride
	if kind == "" {
		kind = a.mapKind(n)
	}

	out := &Node{
		Kind:      kind,
		Text:      a.text(n),
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		StartLine: int(n.StartPosition().Row) + 1,
	}

	if kind == KindVerusMacroUse {
		out.Children = a.macroInterior(n)
		return out
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(uint(i))
		if dropToken(kind, child.Kind()) {
			continue
		}
		out.Children = append(out.Children, a.adaptChild(n, kind, child))
	}
	return out
}

// adaptChild converts a child node, resolving the kinds that depend on the
// parent's shape rather than on the child's own grammar kind.
func (a *sitterAdapter) adaptChild(parent *sitter.Node, parentKind Kind, child *sitter.Node) *Node {
	switch parentKind {
	case KindFn:
		if sameNode(child, parent.ChildByFieldName("name")) {
			return a.adapt(child, KindName)
		}
		if child.Kind() == "block" && sameNode(child, parent.ChildByFieldName("body")) {
			return a.adapt(child, KindFnBlockExpr)
		}
	case KindExpr:
		if sameNode(child, parent.ChildByFieldName("function")) && isBareCalleePath(child.Kind()) {
			return a.calleePath(child)
		}
	}
	if child.Kind() == "block" && parent.Kind() == "closure_expression" &&
		sameNode(child, parent.ChildByFieldName("body")) {
		return a.adapt(child, KindFnBlockExpr)
	}
	return a.adapt(child, "")
}

// calleePath wraps a bare callee path in the expression-interior shape the
// call-extraction rule looks for.
func (a *sitterAdapter) calleePath(n *sitter.Node) *Node {
	path := a.adapt(n, KindPathNoGenerics)
	path.Children = nil // the path is recorded whole, as a leaf
	return &Node{
		Kind:      KindExprInner,
		Text:      path.Text,
		Children:  []*Node{path},
		StartByte: path.StartByte,
		EndByte:   path.EndByte,
		StartLine: path.StartLine,
	}
}

func (a *sitterAdapter) mapKind(n *sitter.Node) Kind {
	name := n.Kind()
	if name == "macro_invocation" {
		if macro := n.ChildByFieldName("macro"); macro != nil && a.text(macro) == "verus" {
			return KindVerusMacroUse
		}
		return Kind(name)
	}
	if mapped, ok := a.kinds[name]; ok {
		return mapped
	}
	return Kind(name)
}

// macroInterior returns the adapted children of a verus! macro's token tree,
// without the macro name, the bang, or the outer braces; the wrapper rule
// regenerates the marker syntax.
func (a *sitterAdapter) macroInterior(n *sitter.Node) []*Node {
	body := findSitterChild(n, "token_tree")
	if body == nil {
		return nil
	}
	var children []*Node
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		if (i == 0 && child.Kind() == "{") || (i == int(body.ChildCount())-1 && child.Kind() == "}") {
			continue
		}
		children = append(children, a.adapt(child, ""))
	}
	return children
}

func (a *sitterAdapter) text(n *sitter.Node) string {
	return string(a.source[n.StartByte():n.EndByte()])
}

// dropToken reports whether a grammar token is a delimiter or separator of a
// canonicalized shape, regenerated by the shape's rule.
func dropToken(parentKind Kind, childKind string) bool {
	switch parentKind {
	case KindParamList, KindArgList:
		return childKind == "(" || childKind == ")" || childKind == ","
	case KindClosureParamList:
		return childKind == "|" || childKind == ","
	case KindFnBlockExpr:
		return childKind == "{" || childKind == "}"
	}
	return false
}

// isBareCalleePath reports whether a callee expression is a plain, non-generic
// identifier or dotted/scoped path.
func isBareCalleePath(kind string) bool {
	switch kind {
	case "identifier", "scoped_identifier", "field_expression":
		return true
	}
	return false
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

func findSitterChild(n *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(uint(i)); child.Kind() == kind {
			return child
		}
	}
	return nil
}
