package perception

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"cadvision/internal/usage"
)

// GenAIClient implements VisionClient with the Google GenAI SDK against the
// Gemini API backend.
type GenAIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	config      Config
}

// NewGenAIClient creates a client from an explicit Config.
func NewGenAIClient(ctx context.Context, cfg Config) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultConfig("").Model
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIClient{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		config:      cfg,
	}, nil
}

// Model returns the model name.
func (c *GenAIClient) Model() string {
	return c.model
}

// Describe sends the instruction followed by the image as inline data.
func (c *GenAIClient) Describe(ctx context.Context, prompt string, img *Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("image is required")
	}
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(img.Data, img.MIMEType),
	}
	return c.generate(ctx, "describe", parts)
}

// Complete sends a text-only prompt.
func (c *GenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, "complete", []*genai.Part{genai.NewPartFromText(prompt)})
}

func (c *GenAIClient) generate(ctx context.Context, op string, parts []*genai.Part) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if t := usage.FromContext(ctx); t != nil && resp.UsageMetadata != nil {
		t.Track(c.model, op, int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
