package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"cadvision/internal/batch"
	"cadvision/internal/logging"
	"cadvision/internal/prompt"
	"cadvision/internal/usage"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Extract each image dropped into a directory",
	Long: `Watches a directory and runs the extraction for every image that is
created or rewritten there, after it has been quiet for the debounce window.
Images are processed one at a time. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&promptFlag, "prompt", "", "Prompt template name (default from config)")
	watchCmd.Flags().StringVar(&outDirFlag, "out-dir", "", "Output directory (default from config)")
	watchCmd.Flags().BoolVar(&batchDXF, "dxf", false, "Also write a DXF next to each entity JSON")
}

func runWatch(cmd *cobra.Command, args []string) error {
	// Runs until interrupted; model calls keep their own timeout.
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(usage.NewContext(parent, tokens), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ex, err := newExtractor(ctx, promptFlag)
	if err != nil {
		return err
	}
	dir := outDirFlag
	if dir == "" {
		dir = cfg.Extract.OutputDir
	}
	opts := []batch.RunnerOption{batch.WithRunnerLogger(logging.For(logger, logging.CategoryBatch))}
	if batchDXF {
		if ex.Template().Schema != prompt.SchemaEntities {
			return fmt.Errorf("--dxf needs an entity prompt, %q produces %s", ex.Template().Name, ex.Template().Schema)
		}
		opts = append(opts, batch.WithPostProcess(writeDXFFor))
	}
	runner := batch.NewRunner(ex, dir, cfg.Extract.OutputPrefix, opts...)

	w, err := batch.NewWatcher(args[0], runner,
		batch.WithDebounce(cfg.GetWatchDebounce()),
		batch.WithWatcherLogger(logging.For(logger, logging.CategoryBatch)),
		batch.OnItem(func(item batch.ItemReport) {
			if item.OK() {
				fmt.Printf("%s -> %s\n", filepath.Base(item.Image), item.Output)
				return
			}
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", filepath.Base(item.Image), item.Err)
		}))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("Watching %s (Ctrl-C to stop)\n", args[0])

	<-w.Done()
	w.Stop()
	stats := w.Stats()
	fmt.Printf("%s processed, %d failed\n", plural(stats.Processed, "image"), stats.Failed)
	return nil
}
