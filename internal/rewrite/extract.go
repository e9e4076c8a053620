package rewrite

import (
	"sort"

	"github.com/mvp-joe/verus-rewrite/internal/cst"
)

// CallSite is the raw text of one call's arguments, one entry per
// comma-separated argument, unparsed, in left-to-right order.
type CallSite []string

// FunctionRecorder is the capability extraction's function rule needs on top
// of the base text sink.
type FunctionRecorder interface {
	TextSink
	RecordFunction(name, source string)
}

// CallRecorder is the capability extraction's call rule needs on top of the
// base text sink.
type CallRecorder interface {
	TextSink
	RecordCall(callee string, args []string)
}

// Extraction accumulates full text reconstruction plus the function and
// call-site tables. Create one per traversal; it carries no state between
// inputs.
type Extraction struct {
	Buffer

	// Functions maps function name to the full verbatim source text of its
	// definition. Names are assumed unique; on a duplicate the last
	// definition wins, silently.
	Functions map[string]string

	// Calls maps callee name to every recognized call site, in traversal
	// order.
	Calls map[string][]CallSite

	// OnMacroBlock, when set, observes a snapshot of the tables each time a
	// verus! wrapper finishes, for callers that want a running report rather
	// than only the final tables.
	OnMacroBlock func(Snapshot)
}

// NewExtraction creates an empty extraction accumulator.
func NewExtraction() *Extraction {
	return &Extraction{
		Functions: make(map[string]string),
		Calls:     make(map[string][]CallSite),
	}
}

// RecordFunction records a function definition, last write wins.
func (e *Extraction) RecordFunction(name, source string) {
	e.Functions[name] = source
}

// RecordCall appends one call site for the callee.
func (e *Extraction) RecordCall(callee string, args []string) {
	e.Calls[callee] = append(e.Calls[callee], CallSite(args))
}

// Snapshot is a point-in-time copy of the extraction tables.
type Snapshot struct {
	// FunctionNames are the recorded function names, sorted.
	FunctionNames []string
	// Calls is a deep copy of the call table.
	Calls map[string][]CallSite
}

func (e *Extraction) snapshot() Snapshot {
	s := Snapshot{
		FunctionNames: make([]string, 0, len(e.Functions)),
		Calls:         make(map[string][]CallSite, len(e.Calls)),
	}
	for name := range e.Functions {
		s.FunctionNames = append(s.FunctionNames, name)
	}
	sort.Strings(s.FunctionNames)
	for callee, sites := range e.Calls {
		copied := make([]CallSite, len(sites))
		for i, site := range sites {
			copied[i] = append(CallSite(nil), site...)
		}
		s.Calls[callee] = copied
	}
	return s
}

// Extract runs one extraction traversal over a CST. The returned accumulator
// holds the reconstructed text and the complete function and call tables.
func Extract(root *cst.Node) (*Extraction, error) {
	ext := NewExtraction()
	if err := Run(ext, root); err != nil {
		return nil, err
	}
	return ext, nil
}

// Run traverses a CST into an existing extraction accumulator, so one
// accumulator can aggregate several trees or install an OnMacroBlock observer
// beforehand.
func Run(ext *Extraction, root *cst.Node) error {
	return Visit(ext, root, ExtractionRules())
}

// ExtractionRules layers the fact-recording rules over the reconstruction
// set, so extraction still produces full canonicalized text as a side effect.
func ExtractionRules() *Registry[*Extraction] {
	r := ReconstructionRules[*Extraction]()
	r.Register(cst.KindFn, visitFunction[*Extraction])
	r.Register(cst.KindExpr, visitCallExpr[*Extraction])
	r.Register(cst.KindVerusMacroUse, visitMacroBlockReport)
	return r
}

// visitFunction records the definition under its name child, then visits the
// children through the registry so the body is reconstructed and calls inside
// it are still extracted. A definition without a name is a grammar contract
// violation and aborts the traversal.
func visitFunction[A FunctionRecorder](acc A, node *cst.Node, rules *Registry[A]) error {
	name := node.ChildByKind(cst.KindName)
	if name == nil {
		return &MalformedInputError{
			Kind:   node.Kind,
			Line:   node.StartLine,
			Reason: "function definition has no name child",
		}
	}
	acc.RecordFunction(name.Text, node.Text)
	return VisitAll(acc, node.Children, rules)
}

// visitCallExpr records a call site when the expression has a bare callee
// path and an argument list; otherwise it records nothing. Either way the
// subtree is reconstructed through the default rule.
func visitCallExpr[A CallRecorder](acc A, node *cst.Node, rules *Registry[A]) error {
	if callee, args, ok := calleeAndArgs(node); ok {
		acc.RecordCall(callee, args)
	}
	return Default(acc, node, rules)
}

func calleeAndArgs(node *cst.Node) (string, []string, bool) {
	inner := node.ChildByKind(cst.KindExprInner)
	argList := node.ChildByKind(cst.KindArgList)
	if inner == nil || argList == nil {
		return "", nil, false
	}
	path := inner.ChildByKind(cst.KindPathNoGenerics)
	if path == nil {
		return "", nil, false
	}
	args := make([]string, 0, len(argList.Children))
	for _, c := range argList.Children {
		if c.Kind == cst.KindComment {
			continue
		}
		args = append(args, c.Text)
	}
	return path.Text, args, true
}

// visitMacroBlockReport reconstructs the wrapper exactly as the base rule
// does, then publishes a snapshot of what has been discovered so far.
func visitMacroBlockReport(acc *Extraction, node *cst.Node, rules *Registry[*Extraction]) error {
	if err := visitVerusMacroUse(acc, node, rules); err != nil {
		return err
	}
	if acc.OnMacroBlock != nil {
		acc.OnMacroBlock(acc.snapshot())
	}
	return nil
}
