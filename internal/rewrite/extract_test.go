package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/verus-rewrite/internal/cst"
)

// Test Plan for the extraction rule set:
// - Function definitions record name -> full verbatim source text
// - A definition without a name child aborts with ErrMalformedInput
// - Duplicate names: last definition wins, silently
// - Call sites record raw per-argument text, order preserved
// - Repeated calls to one callee accumulate sites in traversal order
// - Calls with no recognizable callee path or no argument list are skipped
// - Extraction still reconstructs full text as a side effect
// - The macro wrapper publishes a snapshot to OnMacroBlock
// - Two runs over identical input are byte- and table-identical

// callNode builds an expr node shaped like callee(args...).
func callNode(callee string, args ...string) *cst.Node {
	argChildren := make([]*cst.Node, len(args))
	for i, a := range args {
		argChildren[i] = cst.NewLeaf("expr", a)
	}
	return cst.NewInner(cst.KindExpr, callee+"(...)",
		cst.NewInner(cst.KindExprInner, callee,
			cst.NewLeaf(cst.KindPathNoGenerics, callee),
		),
		cst.NewInner(cst.KindArgList, "(...)", argChildren...),
	)
}

// fnNode builds a fn definition node with the given name, params, and body
// children.
func fnNode(name, text string, body ...*cst.Node) *cst.Node {
	return cst.NewInner(cst.KindFn, text,
		cst.NewLeaf("kw", "fn"),
		cst.NewLeaf(cst.KindName, name),
		cst.NewInner(cst.KindParamList, "(a, b)",
			cst.NewLeaf("param", "a"),
			cst.NewLeaf("param", "b"),
		),
		cst.NewInner(cst.KindFnBlockExpr, "{...}", body...),
	)
}

func TestExtract_FunctionDefinition(t *testing.T) {
	t.Parallel()

	src := "fn foo(a, b) { bar(1, 2); }"
	root := fnNode("foo", src, callNode("bar", "1", "2"), cst.NewLeaf("punct", ";"))

	ext, err := Extract(root)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"foo": src}, ext.Functions)
	assert.Equal(t, map[string][]CallSite{"bar": {{"1", "2"}}}, ext.Calls)
}

func TestExtract_MissingNameIsFatal(t *testing.T) {
	t.Parallel()

	root := cst.NewInner(cst.KindFn, "fn (a, b) {}",
		cst.NewLeaf("kw", "fn"),
		cst.NewInner(cst.KindParamList, "(a, b)"),
	)
	root.StartLine = 7

	ext, err := Extract(root)

	require.ErrorIs(t, err, ErrMalformedInput)
	assert.Nil(t, ext)

	var malformed *MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, cst.KindFn, malformed.Kind)
	assert.Equal(t, 7, malformed.Line)
}

func TestExtract_DuplicateNameLastWins(t *testing.T) {
	t.Parallel()

	root := cst.NewInner("source", "",
		fnNode("foo", "fn foo() { 1 }"),
		fnNode("foo", "fn foo() { 2 }"),
	)

	ext, err := Extract(root)
	require.NoError(t, err)
	assert.Equal(t, "fn foo() { 2 }", ext.Functions["foo"])
}

func TestExtract_CallSitesAccumulateInOrder(t *testing.T) {
	t.Parallel()

	root := cst.NewInner("source", "",
		callNode("bar", "1", "2"),
		callNode("bar", "x", "y", "z"),
		callNode("baz"),
	)

	ext, err := Extract(root)
	require.NoError(t, err)

	assert.Equal(t, []CallSite{{"1", "2"}, {"x", "y", "z"}}, ext.Calls["bar"])
	assert.Equal(t, []CallSite{{}}, ext.Calls["baz"])
}

func TestExtract_UnrecognizableCallsSkipped(t *testing.T) {
	t.Parallel()

	// No expr_inner child.
	noInner := cst.NewInner(cst.KindExpr, "(f)(1)",
		cst.NewInner(cst.KindArgList, "(1)", cst.NewLeaf("lit", "1")),
	)
	// No arg_list child.
	noArgs := cst.NewInner(cst.KindExpr, "bar",
		cst.NewInner(cst.KindExprInner, "bar",
			cst.NewLeaf(cst.KindPathNoGenerics, "bar"),
		),
	)
	// Callee path is generic, not bare.
	genericPath := cst.NewInner(cst.KindExpr, "bar::<T>(1)",
		cst.NewInner(cst.KindExprInner, "bar::<T>",
			cst.NewLeaf("path_with_generics", "bar::<T>"),
		),
		cst.NewInner(cst.KindArgList, "(1)", cst.NewLeaf("lit", "1")),
	)

	root := cst.NewInner("source", "", noInner, noArgs, genericPath)

	ext, err := Extract(root)
	require.NoError(t, err)

	// Silent skip: no facts recorded, no error raised.
	assert.Empty(t, ext.Calls)
	// The subtrees were still reconstructed.
	assert.NotEmpty(t, ext.Program())
}

func TestExtract_EndToEndMacroBlock(t *testing.T) {
	t.Parallel()

	fnSrc := "fn foo(a, b) { bar(1, 2); }"
	root := cst.NewInner(cst.KindVerusMacroUse, "verus!{ "+fnSrc+" }",
		fnNode("foo", fnSrc, callNode("bar", "1", "2"), cst.NewLeaf("punct", ";")),
	)

	ext, err := Extract(root)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"foo": fnSrc}, ext.Functions)
	assert.Equal(t, map[string][]CallSite{"bar": {{"1", "2"}}}, ext.Calls)

	// Extraction reconstructs the full canonical text as a side effect.
	assert.Equal(t, "verus!{\nfn foo (a, b)\n {bar (1 2 ); \n } \n}\n", ext.Program())
}

func TestExtract_OnMacroBlockSnapshot(t *testing.T) {
	t.Parallel()

	root := cst.NewInner(cst.KindVerusMacroUse, "verus!{...}",
		fnNode("zeta", "fn zeta() {}"),
		fnNode("alpha", "fn alpha() {}", callNode("bar", "1")),
	)

	var snaps []Snapshot
	ext := NewExtraction()
	ext.OnMacroBlock = func(s Snapshot) { snaps = append(snaps, s) }

	require.NoError(t, Run(ext, root))

	require.Len(t, snaps, 1)
	assert.Equal(t, []string{"alpha", "zeta"}, snaps[0].FunctionNames)
	assert.Equal(t, map[string][]CallSite{"bar": {{"1"}}}, snaps[0].Calls)

	// The snapshot is a copy: mutating it must not leak back.
	snaps[0].Calls["bar"][0][0] = "mutated"
	assert.Equal(t, "1", ext.Calls["bar"][0][0])
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	root := cst.NewInner(cst.KindVerusMacroUse, "verus!{...}",
		fnNode("foo", "fn foo(a, b) { bar(1, 2); }", callNode("bar", "1", "2")),
		callNode("bar", "x", "y", "z"),
	)

	first, err := Extract(root)
	require.NoError(t, err)
	second, err := Extract(root)
	require.NoError(t, err)

	assert.Equal(t, first.Program(), second.Program())
	assert.Equal(t, first.Functions, second.Functions)
	assert.Equal(t, first.Calls, second.Calls)
}
