package batch

import (
	"context"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"cadvision/internal/extractor"
)

// Extractor is the per-image job.
type Extractor interface {
	Extract(ctx context.Context, imagePath, outputPath string) (*extractor.Result, error)
}

// PostProcess runs after a successful extraction, e.g. to write a DXF next
// to the JSON. Its error marks the item as failed.
type PostProcess func(ctx context.Context, res *extractor.Result) error

// ItemReport is the outcome of one image.
type ItemReport struct {
	Image    string
	Output   string
	Result   *extractor.Result
	Err      error
	Duration time.Duration
}

// OK reports whether the item succeeded.
func (i ItemReport) OK() bool { return i.Err == nil }

// Report collects the items of one run in processing order.
type Report struct {
	Dir   string
	Items []ItemReport
}

// Succeeded counts successful items.
func (r *Report) Succeeded() int {
	n := 0
	for _, it := range r.Items {
		if it.OK() {
			n++
		}
	}
	return n
}

// Failed counts failed items.
func (r *Report) Failed() int {
	return len(r.Items) - r.Succeeded()
}

// AllFailed is true when there was at least one item and none succeeded.
func (r *Report) AllFailed() bool {
	return len(r.Items) > 0 && r.Succeeded() == 0
}

// Runner processes images one at a time.
type Runner struct {
	extractor Extractor
	outDir    string
	prefix    string
	post      PostProcess
	logger    *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithPostProcess sets a hook run after each successful extraction.
func WithPostProcess(p PostProcess) RunnerOption {
	return func(r *Runner) { r.post = p }
}

// WithRunnerLogger sets the logger.
func WithRunnerLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a Runner writing "<prefix><basename>.json" files into
// outDir. An empty outDir writes next to each image.
func NewRunner(ex Extractor, outDir, prefix string, opts ...RunnerOption) *Runner {
	r := &Runner{
		extractor: ex,
		outDir:    outDir,
		prefix:    prefix,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OutputPath returns where the JSON for image is written.
func (r *Runner) OutputPath(image string) string {
	dir := r.outDir
	if dir == "" {
		dir = filepath.Dir(image)
	}
	return filepath.Join(dir, extractor.OutputName(r.prefix, image))
}

// Run processes every image in dir sequentially. A failed item is recorded
// and the loop continues. Cancellation stops before the next item and is
// returned alongside the partial report.
func (r *Runner) Run(ctx context.Context, dir string) (*Report, error) {
	images, err := ScanImages(dir)
	if err != nil {
		return nil, err
	}
	report := &Report{Dir: dir}
	if len(images) == 0 {
		r.logger.Warn("no images found", zap.String("dir", dir))
		return report, nil
	}
	r.logger.Info("batch started", zap.String("dir", dir), zap.Int("images", len(images)))

	for _, img := range images {
		if err := ctx.Err(); err != nil {
			r.logger.Warn("batch cancelled", zap.Int("done", len(report.Items)), zap.Int("remaining", len(images)-len(report.Items)))
			return report, err
		}
		report.Items = append(report.Items, r.Process(ctx, img))
	}

	r.logger.Info("batch finished",
		zap.String("dir", dir),
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", report.Failed()))
	return report, nil
}

// Process runs the job for a single image.
func (r *Runner) Process(ctx context.Context, image string) ItemReport {
	item := ItemReport{Image: image, Output: r.OutputPath(image)}
	start := time.Now()

	res, err := r.extractor.Extract(ctx, image, item.Output)
	item.Result = res
	if err == nil && r.post != nil {
		err = r.post(ctx, res)
	}
	item.Err = err
	item.Duration = time.Since(start)

	if err != nil {
		r.logger.Warn("image failed", zap.String("image", image), zap.Error(err))
	} else {
		r.logger.Debug("image done", zap.String("image", image), zap.Duration("duration", item.Duration))
	}
	return item
}
