package cli

import (
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/verus-rewrite/internal/watcher"
)

// watchCmd reruns fmt --write whenever monitored sources change.
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rewrite sources whenever they change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfgRoot
	if len(args) == 1 {
		dir = args[0]
	}

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	fw, err := watcher.New([]string{dir}, cfg.Watch.Extensions, debounce)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err = fw.Start(ctx, func(files []string) {
		for _, path := range files {
			source, err := os.ReadFile(path)
			if err != nil {
				log.Printf("Warning: %v", err)
				continue
			}
			out, err := formatSource(source)
			if err != nil {
				log.Printf("Warning: %v", err)
				continue
			}
			if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
				log.Printf("Warning: %v", err)
				continue
			}
			log.Printf("Rewrote %s", path)
		}
	})
	if err != nil {
		return err
	}

	log.Printf("Watching %s (debounce %s), Ctrl-C to stop", dir, debounce)
	<-ctx.Done()
	return fw.Stop()
}
