// Package rewrite walks a borrowed CST with a rule-per-kind dispatch and
// produces canonicalized source text, optionally accumulating a function and
// call-site table on the way. A single traversal owns its accumulator
// exclusively; registries are built once and never mutated mid-traversal.
// Traversal recurses as deep as the input nests, so callers feeding
// adversarially nested sources should bound nesting upstream.
package rewrite

import "github.com/mvp-joe/verus-rewrite/internal/cst"

// TextSink is the minimal accumulator capability every rule can rely on: a
// growable program-text buffer.
type TextSink interface {
	WriteProgram(s string)
	Program() string
}

// Rule handles one node kind. A rule fully consumes its node: it appends text
// and/or records facts, recursing through the registry for children that need
// generic handling.
type Rule[A TextSink] func(acc A, node *cst.Node, rules *Registry[A]) error

// Registry maps node kinds to rules, with a first-class fallback for every
// kind that has no entry. Registering a kind twice shadows the earlier rule,
// which is how the extraction rule set layers over reconstruction's.
type Registry[A TextSink] struct {
	rules    map[cst.Kind]Rule[A]
	fallback Rule[A]
}

// NewRegistry creates a registry with the given fallback rule. A nil fallback
// means the default rule: verbatim passthrough for leaves, child
// concatenation for interior nodes.
func NewRegistry[A TextSink](fallback Rule[A]) *Registry[A] {
	if fallback == nil {
		fallback = Default[A]
	}
	return &Registry[A]{
		rules:    make(map[cst.Kind]Rule[A]),
		fallback: fallback,
	}
}

// Register binds a rule to a kind, replacing any earlier binding. Call only
// while assembling the registry; it must not be mutated once a traversal has
// started.
func (r *Registry[A]) Register(kind cst.Kind, rule Rule[A]) {
	r.rules[kind] = rule
}

func (r *Registry[A]) rule(kind cst.Kind) Rule[A] {
	if rule, ok := r.rules[kind]; ok {
		return rule
	}
	return r.fallback
}

// Visit dispatches a node to its registered rule, or to the fallback.
func Visit[A TextSink](acc A, node *cst.Node, rules *Registry[A]) error {
	return rules.rule(node.Kind)(acc, node, rules)
}

// VisitAll visits children in order. This is the only place child ordering is
// imposed; reconstruction fidelity and argument-order fidelity depend on it.
// The first rule error aborts the traversal.
func VisitAll[A TextSink](acc A, children []*cst.Node, rules *Registry[A]) error {
	for _, child := range children {
		if err := Visit(acc, child, rules); err != nil {
			return err
		}
	}
	return nil
}

// Default is the fallback rule. Leaves contribute their verbatim text followed
// by a single separating space; interior nodes contribute nothing beyond
// their children. Unrecognized kinds therefore degrade to lossless
// reassembly, modulo whitespace normalized to single spaces between tokens.
func Default[A TextSink](acc A, node *cst.Node, rules *Registry[A]) error {
	if node.IsLeaf() {
		acc.WriteProgram(node.Text + " ")
		return nil
	}
	return VisitAll(acc, node.Children, rules)
}
