package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"cadvision/internal/config"
	"cadvision/internal/extractor"
	"cadvision/internal/logging"
	"cadvision/internal/perception"
	"cadvision/internal/prompt"
	"cadvision/internal/usage"
)

// newVisionClient is replaced in tests.
var newVisionClient = func(ctx context.Context, pc perception.Config) (perception.VisionClient, error) {
	return perception.NewGenAIClient(ctx, pc)
}

// tokens counts model usage for the current invocation.
var tokens = usage.NewTracker()

// commandContext applies --timeout and cancels on SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx := usage.NewContext(context.Background(), tokens)
	var cancelTimeout context.CancelFunc = func() {}
	if timeout > 0 {
		ctx, cancelTimeout = context.WithTimeout(ctx, timeout)
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	return ctx, func() {
		stop()
		cancelTimeout()
	}
}

func perceptionConfig(c *config.Config) perception.Config {
	return perception.Config{
		APIKey:      c.Model.APIKey,
		Model:       c.Model.Name,
		BaseURL:     c.Model.BaseURL,
		Temperature: c.Model.Temperature,
		Timeout:     c.Model.GetTimeout(),
	}
}

// visionClient validates the credential and builds a traced client.
func visionClient(ctx context.Context) (perception.VisionClient, error) {
	if err := cfg.Validate(config.ValidateOptions{RequireAPIKey: true}); err != nil {
		return nil, err
	}
	client, err := newVisionClient(ctx, perceptionConfig(cfg))
	if err != nil {
		return nil, err
	}
	return perception.NewTracingClient(client, logging.For(logger, logging.CategoryPerception)), nil
}

func loadPrompts() (*prompt.Library, error) {
	if cfg.Extract.PromptFile != "" {
		return prompt.Load(cfg.Extract.PromptFile)
	}
	return prompt.LoadBuiltin()
}

// newExtractor resolves the prompt by name and wires a client to it.
func newExtractor(ctx context.Context, promptName string) (*extractor.Extractor, error) {
	lib, err := loadPrompts()
	if err != nil {
		return nil, err
	}
	if promptName == "" {
		promptName = cfg.Extract.Prompt
	}
	tmpl, err := lib.Get(promptName)
	if err != nil {
		return nil, err
	}
	client, err := visionClient(ctx)
	if err != nil {
		return nil, err
	}
	return extractor.New(client, tmpl,
		extractor.WithConsole(os.Stdout),
		extractor.WithLogger(logging.For(logger, logging.CategoryExtractor))), nil
}

// outputPathFor returns the JSON path for image: explicit wins, else
// <dir>/<prefix><basename>.json.
func outputPathFor(image, explicit, dir, prefix string) string {
	if explicit != "" {
		return explicit
	}
	if dir == "" {
		dir = cfg.Extract.OutputDir
	}
	return filepath.Join(dir, extractor.OutputName(prefix, image))
}

// replaceExt swaps the extension of path.
func replaceExt(path, ext string) string {
	return path[:len(path)-len(filepath.Ext(path))] + ext
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
