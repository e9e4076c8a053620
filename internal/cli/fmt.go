package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var fmtWrite bool

// fmtCmd rewrites dialect sources into their canonical form.
var fmtCmd = &cobra.Command{
	Use:   "fmt [paths...]",
	Short: "Canonicalize dialect sources",
	Long: `Parse each source, reconstruct it with canonicalized macro markers,
parameter/argument/clause lists, and brace placement, and print the result
(or rewrite the file in place with --write).`,
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "rewrite files in place instead of printing")
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := resolveFiles(args, cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Println("No files to rewrite")
		return nil
	}

	write := fmtWrite || cfg.Format.Write

	var bar *progressbar.ProgressBar
	if write && len(files) > 1 && !verbose {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Rewriting files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
		)
	}

	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		out, err := formatSource(source)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if write {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
				return err
			}
			if verbose {
				log.Printf("Rewrote %s", path)
			}
		} else {
			fmt.Print(out)
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		fmt.Println()
	}
	return nil
}
