package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/verus-rewrite/internal/config"
	"github.com/mvp-joe/verus-rewrite/internal/cst"
	"github.com/mvp-joe/verus-rewrite/internal/discovery"
	"github.com/mvp-joe/verus-rewrite/internal/rewrite"
)

// loadConfig loads the project configuration from the configured root.
func loadConfig() (*config.Config, error) {
	return config.NewLoader(cfgRoot).Load()
}

// resolveFiles returns the explicitly named files, or discovers them from the
// configured glob patterns when none are given.
func resolveFiles(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	d, err := discovery.New(cfgRoot, cfg.Paths.Code, cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}
	return d.Find()
}

// formatSource parses one source and reconstructs its canonical text.
func formatSource(source []byte) (string, error) {
	root, err := cst.ParseRust(source)
	if err != nil {
		return "", err
	}
	return rewrite.Reconstruct(root)
}

// extractFile parses one file and runs extraction into the shared accumulator.
func extractFile(ext *rewrite.Extraction, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	root, err := cst.ParseRust(source)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := rewrite.Run(ext, root); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
