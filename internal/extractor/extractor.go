// Package extractor turns a drawing image into a JSON document by asking a
// vision model and recovering the JSON from its reply.
package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cadvision/internal/entity"
	"cadvision/internal/perception"
	"cadvision/internal/prompt"
)

// Result describes one extraction run.
type Result struct {
	RunID      string
	ImagePath  string
	OutputPath string
	Model      string
	Prompt     string
	Duration   time.Duration
	// Raw is the model reply as received.
	Raw string
	// Payload is nil when the reply could not be parsed.
	Payload *Payload
	// Data is the bytes written to OutputPath.
	Data []byte
}

// Extractor runs one prompt against one image at a time.
type Extractor struct {
	client   perception.VisionClient
	template *prompt.Template
	console  io.Writer
	logger   *zap.Logger
	newRunID func() string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConsole sets where the written JSON is echoed. Pass io.Discard to
// silence it.
func WithConsole(w io.Writer) Option {
	return func(e *Extractor) { e.console = w }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Extractor bound to a client and a prompt template.
func New(client perception.VisionClient, tmpl *prompt.Template, opts ...Option) *Extractor {
	e := &Extractor{
		client:   client,
		template: tmpl,
		console:  os.Stdout,
		logger:   zap.NewNop(),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Template returns the prompt template in use.
func (e *Extractor) Template() *prompt.Template {
	return e.template
}

// Extract sends imagePath to the model, parses the reply and writes it to
// outputPath. Nothing is written when the reply cannot be parsed; the
// returned error is then a *ParseError and the Result still carries Raw.
func (e *Extractor) Extract(ctx context.Context, imagePath, outputPath string) (*Result, error) {
	res := &Result{
		RunID:      e.newRunID(),
		ImagePath:  imagePath,
		OutputPath: outputPath,
		Model:      e.client.Model(),
		Prompt:     e.template.Name,
	}
	log := e.logger.With(zap.String("run_id", res.RunID), zap.String("image", imagePath))
	ctx = perception.WithRunID(ctx, res.RunID)
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	img, err := perception.LoadImage(imagePath)
	if err != nil {
		return res, err
	}

	log.Debug("requesting extraction", zap.String("prompt", e.template.Name))
	raw, err := e.client.Describe(ctx, e.template.Text, img)
	if err != nil {
		return res, fmt.Errorf("model call failed for %s: %w", imagePath, err)
	}
	res.Raw = raw

	payload, err := ParseResponse(raw)
	if err != nil {
		log.Warn("could not parse model response", zap.Int("response_len", len(raw)), zap.Error(err))
		return res, err
	}
	res.Payload = payload
	e.checkSchema(log, payload)

	data, err := entity.MarshalIndent(payload.Value)
	if err != nil {
		return res, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := writeFile(outputPath, data); err != nil {
		return res, err
	}
	res.Data = data

	if _, err := e.console.Write(data); err != nil {
		log.Debug("console echo failed", zap.Error(err))
	}
	log.Info("extraction written", zap.String("output", outputPath), zap.Int("bytes", len(data)))
	return res, nil
}

// checkSchema logs when the payload does not look like the template's
// schema. The payload is still written.
func (e *Extractor) checkSchema(log *zap.Logger, p *Payload) {
	obj, ok := p.Value.(map[string]any)
	if !ok {
		log.Warn("model response is not a JSON object")
		return
	}
	key := string(e.template.Schema)
	if _, ok := obj[key]; !ok {
		log.Warn("model response is missing the expected root key", zap.String("key", key))
	}
}

// OutputName returns "<prefix><basename>.json" for an image path.
func OutputName(prefix, imagePath string) string {
	base := filepath.Base(imagePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return prefix + base + ".json"
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
