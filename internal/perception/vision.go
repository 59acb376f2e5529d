package perception

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// VisionClient is a text/vision generation backend.
type VisionClient interface {
	// Describe sends an instruction plus one image and returns the model's text.
	Describe(ctx context.Context, prompt string, img *Image) (string, error)
	// Complete sends a text-only prompt.
	Complete(ctx context.Context, prompt string) (string, error)
	// Model names the backing model.
	Model() string
}

// Config holds everything needed to reach the model. It is built once at
// start-up and passed to the client constructor.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns sensible defaults for the Gemini API.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		Model:       "gemini-2.5-flash",
		Temperature: 0.1,
		Timeout:     120 * time.Second,
	}
}
