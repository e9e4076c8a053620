package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/verus-rewrite/internal/rewrite"
)

// extractReport is the JSON shape emitted by the extract command.
type extractReport struct {
	Files     int                           `json:"files"`
	Functions map[string]string             `json:"functions"`
	Calls     map[string][]rewrite.CallSite `json:"calls"`
}

// extractCmd runs the extraction traversal and emits the function/call tables.
var extractCmd = &cobra.Command{
	Use:   "extract [paths...]",
	Short: "Extract function bodies and call sites",
	Long: `Run the extraction traversal over each source and emit a JSON table
of function definitions (name to full source text) and call sites (callee
name to raw argument lists).`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := resolveFiles(args, cfg)
	if err != nil {
		return err
	}

	ext := rewrite.NewExtraction()
	for _, path := range files {
		if err := extractFile(ext, path); err != nil {
			return err
		}
	}

	report := extractReport{
		Files:     len(files),
		Functions: ext.Functions,
		Calls:     ext.Calls,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
