package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cadvision/internal/batch"
	"cadvision/internal/entity"
	"cadvision/internal/extractor"
	"cadvision/internal/logging"
	"cadvision/internal/preview"
	"cadvision/internal/prompt"
)

const (
	pingDefault   = "Reply with the single word: pong"
	dimensionsPfx = "dimensions_"
)

var (
	outputFlag   string
	outDirFlag   string
	promptFlag   string
	prefixFlag   string
	withEntities bool
	summaryFlag  bool
	batchDXF     bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <image>",
	Short: "Extract entity JSON from a drawing image",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var dimensionsCmd = &cobra.Command{
	Use:   "dimensions <image|dir>",
	Short: "Extract labelled dimensions from an image or a directory of images",
	Args:  cobra.ExactArgs(1),
	RunE:  runDimensions,
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract every image in a directory, one at a time",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

var pingCmd = &cobra.Command{
	Use:   "ping [message]",
	Short: "Check the API key and model with a text-only request",
	Args:  cobra.ArbitraryArgs,
	RunE:  runPing,
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the available prompt templates",
	Args:  cobra.NoArgs,
	RunE:  runPrompts,
}

func init() {
	extractCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output JSON path (default <output_dir>/<prefix><name>.json)")
	extractCmd.Flags().StringVar(&promptFlag, "prompt", "", "Prompt template name (default from config)")

	dimensionsCmd.Flags().BoolVar(&withEntities, "with-entities", false, "Also ask for the entity count and names")
	dimensionsCmd.Flags().BoolVar(&summaryFlag, "summary", false, "Render a markdown table of the dimensions")
	dimensionsCmd.Flags().StringVar(&outDirFlag, "out-dir", "", "Output directory (default from config)")
	dimensionsCmd.Flags().StringVar(&prefixFlag, "prefix", dimensionsPfx, "Output file prefix")

	batchCmd.Flags().StringVar(&promptFlag, "prompt", "", "Prompt template name (default from config)")
	batchCmd.Flags().StringVar(&outDirFlag, "out-dir", "", "Output directory (default from config)")
	batchCmd.Flags().BoolVar(&batchDXF, "dxf", false, "Also write a DXF next to each entity JSON")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	ex, err := newExtractor(ctx, promptFlag)
	if err != nil {
		return err
	}
	out := outputPathFor(args[0], outputFlag, "", cfg.Extract.OutputPrefix)
	res, err := ex.Extract(ctx, args[0], out)
	if err != nil {
		return err
	}
	logger.Debug("extract finished", zap.String("run_id", res.RunID), zap.Duration("duration", res.Duration))
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func runDimensions(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	name := prompt.DefaultDimensions
	if withEntities {
		name = "dimensions-entities"
	}
	ex, err := newExtractor(ctx, name)
	if err != nil {
		return err
	}

	target := args[0]
	if !isDir(target) {
		out := outputPathFor(target, "", outDirFlag, prefixFlag)
		res, err := ex.Extract(ctx, target, out)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", out)
		if summaryFlag {
			return printDimensionSummary(res)
		}
		return nil
	}

	dir := outDirFlag
	if dir == "" {
		dir = cfg.Extract.OutputDir
	}
	runner := batch.NewRunner(ex, dir, prefixFlag, batch.WithRunnerLogger(logging.For(logger, logging.CategoryBatch)))
	report, err := runner.Run(ctx, target)
	if report != nil {
		printBatchReport(report)
		if summaryFlag {
			for _, item := range report.Items {
				if item.OK() {
					if serr := printDimensionSummary(item.Result); serr != nil {
						logger.Warn("summary failed", zap.String("image", item.Image), zap.Error(serr))
					}
				}
			}
		}
	}
	if err != nil {
		return err
	}
	return batchError(report)
}

func printDimensionSummary(res *extractor.Result) error {
	rep, err := entity.DecodeDimensions(res.Data)
	if err != nil {
		return err
	}
	md := rep.Markdown(filepath.Base(res.ImagePath))
	out, err := preview.Markdown(md, 80)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

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

	report, err := batch.NewRunner(ex, dir, cfg.Extract.OutputPrefix, opts...).Run(ctx, args[0])
	if report != nil {
		printBatchReport(report)
	}
	if err != nil {
		return err
	}
	return batchError(report)
}

// writeDXFFor materializes a successful entity extraction next to its JSON.
func writeDXFFor(ctx context.Context, res *extractor.Result) error {
	return materializeData(res.Data, replaceExt(res.OutputPath, ".dxf"), false)
}

func printBatchReport(report *batch.Report) {
	for _, item := range report.Items {
		status := "ok"
		if !item.OK() {
			status = "FAILED: " + item.Err.Error()
		}
		fmt.Printf("  %s -> %s [%s]\n", filepath.Base(item.Image), item.Output, status)
	}
	fmt.Printf("%s processed, %d succeeded, %d failed\n",
		plural(len(report.Items), "image"), report.Succeeded(), report.Failed())
}

func batchError(report *batch.Report) error {
	if report != nil && report.AllFailed() {
		return fmt.Errorf("all %s failed", plural(len(report.Items), "image"))
	}
	return nil
}

func runPing(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	client, err := visionClient(ctx)
	if err != nil {
		return err
	}
	msg := strings.TrimSpace(strings.Join(args, " "))
	if msg == "" {
		msg = pingDefault
	}
	reply, err := client.Complete(ctx, msg)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	fmt.Printf("%s: %s\n", client.Model(), strings.TrimSpace(reply))
	return nil
}

func runPrompts(cmd *cobra.Command, args []string) error {
	lib, err := loadPrompts()
	if err != nil {
		return err
	}
	for _, name := range lib.Names() {
		tmpl, _ := lib.Get(name)
		fmt.Printf("%-22s %-11s %s\n", name, tmpl.Schema, tmpl.Description)
	}
	return nil
}
