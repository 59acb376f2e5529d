// Command cadvision extracts geometry from CAD drawing images with a vision
// model and converts the result to DXF.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cadvision/internal/config"
	"cadvision/internal/extractor"
	"cadvision/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	envFile    string
	timeout    time.Duration

	// Loaded once per invocation by PersistentPreRunE.
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cadvision",
	Short: "Extract CAD geometry from drawing images",
	Long: `cadvision sends CAD drawing images to a Gemini vision model, recovers the
JSON description of lines, circles, arcs and angular dimensions it returns,
and materializes that description into a DXF file.

The two halves are independent: "extract" writes entity JSON, "materialize"
turns entity JSON into DXF, and "convert" does both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(config.ValidateOptions{}); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded

		l, err := logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logTokenUsage()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "cadvision.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file with GEMINI_API_KEY")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall timeout for a command")

	rootCmd.AddCommand(
		extractCmd,
		dimensionsCmd,
		batchCmd,
		materializeCmd,
		convertCmd,
		inspectCmd,
		watchCmd,
		pingCmd,
		promptsCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func logTokenUsage() {
	stats := tokens.Stats()
	if stats.Total.Calls == 0 {
		return
	}
	for _, model := range stats.Models() {
		c := stats.ByModel[model]
		logger.Info("token usage",
			zap.String("model", model),
			zap.Int("calls", c.Calls),
			zap.Int64("input_tokens", c.Input),
			zap.Int64("output_tokens", c.Output))
	}
}

// reportError prints err, plus the raw model reply when parsing failed.
func reportError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	var perr *extractor.ParseError
	if errors.As(err, &perr) {
		fmt.Fprintln(os.Stderr, "Raw model response:")
		fmt.Fprintln(os.Stderr, perr.Raw)
	}
	if errors.Is(err, config.ErrMissingAPIKey) {
		fmt.Fprintln(os.Stderr, "Add the key to your environment or to a .env file.")
	}
}
