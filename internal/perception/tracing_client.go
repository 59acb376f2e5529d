package perception

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type runIDKey struct{}

// WithRunID attaches a run identifier used to correlate log lines.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run identifier attached to ctx, if any.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// CallStats summarises the calls made through a TracingClient.
type CallStats struct {
	Calls         int
	Failures      int
	TotalDuration time.Duration
	LastDuration  time.Duration
}

// TracingClient wraps any VisionClient and logs every call.
type TracingClient struct {
	underlying VisionClient
	logger     *zap.Logger

	mu    sync.Mutex
	stats CallStats
}

// NewTracingClient creates a tracing wrapper around an existing client.
func NewTracingClient(underlying VisionClient, logger *zap.Logger) *TracingClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TracingClient{underlying: underlying, logger: logger}
}

// Model returns the wrapped client's model.
func (tc *TracingClient) Model() string {
	return tc.underlying.Model()
}

// Describe implements VisionClient.Describe with logging.
func (tc *TracingClient) Describe(ctx context.Context, prompt string, img *Image) (string, error) {
	fields := []zap.Field{
		zap.String("model", tc.underlying.Model()),
		zap.Int("prompt_len", len(prompt)),
	}
	if img != nil {
		fields = append(fields,
			zap.String("image", img.Path),
			zap.String("mime", img.MIMEType),
			zap.Int("image_bytes", img.Size()))
	}
	return tc.trace(ctx, "describe", fields, func() (string, error) {
		return tc.underlying.Describe(ctx, prompt, img)
	})
}

// Complete implements VisionClient.Complete with logging.
func (tc *TracingClient) Complete(ctx context.Context, prompt string) (string, error) {
	fields := []zap.Field{
		zap.String("model", tc.underlying.Model()),
		zap.Int("prompt_len", len(prompt)),
	}
	return tc.trace(ctx, "complete", fields, func() (string, error) {
		return tc.underlying.Complete(ctx, prompt)
	})
}

// Stats returns a snapshot of the call statistics.
func (tc *TracingClient) Stats() CallStats {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.stats
}

func (tc *TracingClient) trace(ctx context.Context, op string, fields []zap.Field, call func() (string, error)) (string, error) {
	if id := RunID(ctx); id != "" {
		fields = append(fields, zap.String("run_id", id))
	}
	log := tc.logger.With(fields...)
	log.Debug("model call started", zap.String("op", op))

	start := time.Now()
	text, err := call()
	elapsed := time.Since(start)

	tc.mu.Lock()
	tc.stats.Calls++
	tc.stats.TotalDuration += elapsed
	tc.stats.LastDuration = elapsed
	if err != nil {
		tc.stats.Failures++
	}
	tc.mu.Unlock()

	if err != nil {
		log.Warn("model call failed", zap.String("op", op), zap.Duration("duration", elapsed), zap.Error(err))
		return "", err
	}
	log.Info("model call completed",
		zap.String("op", op),
		zap.Duration("duration", elapsed),
		zap.Int("response_len", len(text)))
	return text, nil
}
