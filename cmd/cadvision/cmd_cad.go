package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"cadvision/internal/cad"
	"cadvision/internal/entity"
	"cadvision/internal/logging"
	"cadvision/internal/preview"
)

var (
	previewFlag bool
	allLayers   bool
)

var materializeCmd = &cobra.Command{
	Use:   "materialize <entities.json> <out.dxf>",
	Short: "Turn entity JSON into a DXF file",
	Args:  cobra.ExactArgs(2),
	RunE:  runMaterialize,
}

var convertCmd = &cobra.Command{
	Use:   "convert <image>",
	Short: "Extract entities from an image and write JSON plus DXF",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.dxf>",
	Short: "Print the lines, circles and arcs of a DXF file as entity JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	materializeCmd.Flags().BoolVar(&previewFlag, "preview", false, "Draw the document in the terminal")

	convertCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output JSON path; the DXF uses the same basename")
	convertCmd.Flags().StringVar(&promptFlag, "prompt", "", "Entity prompt template name (default from config)")
	convertCmd.Flags().BoolVar(&previewFlag, "preview", false, "Draw the document in the terminal")

	inspectCmd.Flags().BoolVar(&allLayers, "all", false, "Include rendered dimension geometry")
}

func runMaterialize(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read entity file: %w", err)
	}
	return materializeData(data, args[1], previewFlag)
}

// materializeData decodes an entity document, builds the drawing and saves
// it to dxfPath.
func materializeData(data []byte, dxfPath string, showPreview bool) error {
	coll, err := entity.DecodeWith(data, entity.DecodeOptions{
		DefaultDistance: cfg.CAD.DefaultDistance,
		DefaultStyle:    cfg.CAD.DefaultDimStyle,
	})
	if err != nil {
		return err
	}

	doc, report := cad.Materialize(coll, cad.Options{
		DefaultStyle: cfg.CAD.DefaultDimStyle,
		Logger:       logging.For(logger, logging.CategoryCAD),
	})
	if err := cad.SaveDXF(doc, dxfPath); err != nil {
		return err
	}

	summary := describeReport(report)
	fmt.Printf("Wrote %s (%s)\n", dxfPath, summary)
	if showPreview {
		canvas := preview.Render(doc, preview.Options{
			Width:      cfg.CAD.PreviewWidth,
			Height:     cfg.CAD.PreviewHeight,
			CellAspect: 2,
		})
		fmt.Println(preview.Frame(canvas, filepath.Base(dxfPath), summary))
	}
	return nil
}

func describeReport(r *cad.Report) string {
	kinds := make([]string, 0, len(r.Created))
	for k := range r.Created {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	parts := []string{plural(r.Total(), "object")}
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, r.Created[entity.Kind(k)]))
	}
	if n := len(r.Skipped); n > 0 {
		parts = append(parts, fmt.Sprintf("skipped=%d", n))
	}
	return strings.Join(parts, ", ")
}

func runConvert(cmd *cobra.Command, args []string) error {
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
	fmt.Printf("Wrote %s\n", out)
	return materializeData(res.Data, replaceExt(out, ".dxf"), previewFlag)
}

func runInspect(cmd *cobra.Command, args []string) error {
	coll, err := cad.ReadDXF(args[0], cad.ReadOptions{IncludeAnnotations: allLayers})
	if err != nil {
		return err
	}
	data, err := entity.Encode(coll)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
