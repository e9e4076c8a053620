package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/verus-rewrite/internal/config"
	"github.com/mvp-joe/verus-rewrite/internal/rewrite"
)

// Test Plan for CLI helpers:
// - formatSource canonicalizes a parsed source
// - extractFile aggregates tables across files into one accumulator
// - resolveFiles passes explicit args through untouched

func TestFormatSource(t *testing.T) {
	t.Parallel()

	out, err := formatSource([]byte("fn foo(a: u32,    b: u32) { bar(1, 2); }"))
	require.NoError(t, err)

	assert.Contains(t, out, "(a: u32, b: u32)")
	assert.Contains(t, out, "\n {")
}

func TestExtractFile_Aggregates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.rs", "fn foo() { bar(1); }")
	b := writeTestFile(t, dir, "b.rs", "fn baz() { bar(2); }")

	ext := rewrite.NewExtraction()
	require.NoError(t, extractFile(ext, a))
	require.NoError(t, extractFile(ext, b))

	assert.Len(t, ext.Functions, 2)
	assert.Equal(t, []rewrite.CallSite{{"1"}, {"2"}}, ext.Calls["bar"])
}

func TestResolveFiles_ExplicitArgs(t *testing.T) {
	t.Parallel()

	files, err := resolveFiles([]string{"x.rs", "y.rs"}, config.Default())
	require.NoError(t, err)
	assert.Equal(t, []string{"x.rs", "y.rs"}, files)
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
