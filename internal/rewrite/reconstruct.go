package rewrite

import (
	"strings"

	"github.com/mvp-joe/verus-rewrite/internal/cst"
)

// Buffer is the minimal accumulator: reconstructed program text only.
type Buffer struct {
	program strings.Builder
}

// WriteProgram appends a text fragment to the reconstructed program.
func (b *Buffer) WriteProgram(s string) {
	b.program.WriteString(s)
}

// Program returns the reconstructed program text so far.
func (b *Buffer) Program() string {
	return b.program.String()
}

// Reconstruct rebuilds canonicalized source text from a CST. The output is
// syntactically normalized but not width-wrapped; line breaking and
// indentation belong to a downstream formatter.
func Reconstruct(root *cst.Node) (string, error) {
	buf := &Buffer{}
	if err := Visit(buf, root, ReconstructionRules[*Buffer]()); err != nil {
		return "", err
	}
	return buf.Program(), nil
}

// ReconstructionRules builds the base rule set: canonicalizing rules for the
// verus! wrapper, parameter and argument lists, clause lists, function-body
// blocks, and comments, over the default passthrough fallback.
func ReconstructionRules[A TextSink]() *Registry[A] {
	r := NewRegistry[A](nil)
	r.Register(cst.KindVerusMacroUse, visitVerusMacroUse[A])
	r.Register(cst.KindParamList, visitParamList[A])
	r.Register(cst.KindClosureParamList, visitClosureParamList[A])
	r.Register(cst.KindFnBlockExpr, visitFnBlockExpr[A])
	r.Register(cst.KindCommaDelimitedExprs, visitCommaDelimitedExprs[A])
	r.Register(cst.KindArgList, visitArgList[A])
	r.Register(cst.KindComment, visitComment[A])
	return r
}

// visitVerusMacroUse emits the literal macro markers around the reconstructed
// contents, regardless of the original spacing of the invocation.
func visitVerusMacroUse[A TextSink](acc A, node *cst.Node, rules *Registry[A]) error {
	acc.WriteProgram("verus!{\n")
	if err := VisitAll(acc, node.Children, rules); err != nil {
		return err
	}
	acc.WriteProgram("}\n")
	return nil
}

// visitParamList canonicalizes the separators but keeps each parameter's raw
// text, so nested structure inside a single parameter survives verbatim.
// Never adds a trailing comma.
func visitParamList[A TextSink](acc A, node *cst.Node, rules *Registry[A]) error {
	acc.WriteProgram("(")
	writeRawList(acc, node.Children)
	acc.WriteProgram(")")
	return nil
}

func visitClosureParamList[A TextSink](acc A, node *cst.Node, rules *Registry[A]) error {
	acc.WriteProgram("|")
	writeRawList(acc, node.Children)
	acc.WriteProgram("|")
	return nil
}

// writeRawList emits raw child text joined by ", ". Comments cannot be
// repositioned inside a regenerated list, so they contribute nothing.
func writeRawList[A TextSink](acc A, children []*cst.Node) {
	first := true
	for _, child := range children {
		if child.Kind == cst.KindComment {
			continue
		}
		if !first {
			acc.WriteProgram(", ")
		}
		acc.WriteProgram(child.Text)
		first = false
	}
}

// visitFnBlockExpr forces the braces of a function or closure body onto fresh
// lines, independent of the source's original layout.
func visitFnBlockExpr[A TextSink](acc A, node *cst.Node, rules *Registry[A]) error {
	acc.WriteProgram("\n {")
	if err := VisitAll(acc, node.Children, rules); err != nil {
		return err
	}
	acc.WriteProgram("\n } \n")
	return nil
}

// visitCommaDelimitedExprs reconstructs clause lists (requires/ensures/
// decreases items). Each element is recursively canonicalized, and the
// separator follows every element including the last. The trailing separator
// is deliberate and differs from parameter lists, which never add one.
func visitCommaDelimitedExprs[A TextSink](acc A, node *cst.Node, rules *Registry[A]) error {
	for _, child := range node.Children {
		if err := Visit(acc, child, rules); err != nil {
			return err
		}
		acc.WriteProgram(", ")
	}
	return nil
}

// visitArgList wraps the recursively reconstructed arguments in parentheses,
// so nested calls are themselves canonicalized.
func visitArgList[A TextSink](acc A, node *cst.Node, rules *Registry[A]) error {
	acc.WriteProgram("(")
	if err := VisitAll(acc, node.Children, rules); err != nil {
		return err
	}
	acc.WriteProgram(")")
	return nil
}

// visitComment drops the comment. Comments inside rebuilt lists cannot be
// faithfully placed among regenerated separators; comments elsewhere survive
// inside the verbatim leaf text the default rule passes through.
func visitComment[A TextSink](acc A, node *cst.Node, rules *Registry[A]) error {
	return nil
}
