package gemini

import (
	"context"

	"github.com/cockroachdb/errors"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-pro"
	// APIKeyEnv holds the Gemini credential.
	APIKeyEnv = "GEMINI_API_KEY"
)

// Request defines a single generation call.
type Request struct {
	Model       string
	Prompt      string
	Temperature *float32
}

// Client wraps the calls to the Gemini API.
type Client struct {
	genai *genai.Client
}

// Option customises the underlying genai client configuration.
type Option func(*genai.ClientConfig)

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = url
	}
}

// NewClient builds a ready-to-use Gemini client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &Client{genai: c}, nil
}

// Generate sends a prompt to the model and returns the text of the response.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	var cfg *genai.GenerateContentConfig
	if req.Temperature != nil {
		cfg = &genai.GenerateContentConfig{Temperature: req.Temperature}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", errors.Wrapf(err, "generate content with %s", model)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.Newf("gemini returned no candidates for %s", model)
	}

	return resp.Text(), nil
}
