package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/verus-rewrite/internal/callgraph"
	"github.com/mvp-joe/verus-rewrite/internal/rewrite"
)

var callsJSON bool

// callsCmd builds and reports the call graph.
var callsCmd = &cobra.Command{
	Use:   "calls [paths...]",
	Short: "Report the extracted call graph",
	RunE:  runCalls,
}

func init() {
	callsCmd.Flags().BoolVar(&callsJSON, "json", false, "emit the full graph as JSON")
	rootCmd.AddCommand(callsCmd)
}

func runCalls(cmd *cobra.Command, args []string) error {
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

	cg, err := callgraph.Build(ext)
	if err != nil {
		return err
	}

	if callsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cg.Data())
	}

	for _, name := range cg.Defined() {
		callers, err := cg.Callers(name)
		if err != nil {
			return err
		}
		fmt.Printf("%s  (%d call sites, %d callers)\n", name, len(cg.CallSites(name)), len(callers))
	}
	if unresolved := cg.Unresolved(); len(unresolved) > 0 {
		fmt.Println("\nCalled but not defined:")
		for _, name := range unresolved {
			fmt.Printf("  %s  (%d call sites)\n", name, len(cg.CallSites(name)))
		}
	}
	return nil
}
