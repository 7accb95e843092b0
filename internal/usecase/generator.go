package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/riskibarqy/go-commitmsg/internal/commit"
	"github.com/riskibarqy/go-commitmsg/internal/gemini"
)

var (
	// ErrCredentialNotSet is reported when no API key was configured.
	ErrCredentialNotSet = errors.New(gemini.APIKeyEnv + " not set")
	// ErrService marks any failure of the remote generation call.
	ErrService = errors.New("gemini service error")
)

// LLMClient represents the behaviour needed from a Gemini client.
type LLMClient interface {
	Generate(ctx context.Context, req gemini.Request) (string, error)
}

// ClientFactory builds an LLMClient authenticated with apiKey.
type ClientFactory func(ctx context.Context, apiKey string) (LLMClient, error)

// GeminiFactory is the production ClientFactory.
func GeminiFactory(ctx context.Context, apiKey string) (LLMClient, error) {
	return gemini.NewClient(ctx, apiKey)
}

// Outcome is the result of a generation attempt. Exactly one of Message
// and Err is meaningful.
type Outcome struct {
	Message string
	Err     error
}

// OK reports whether a usable message was produced.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Message != ""
}

// Generator turns a prompt into a commit message. It never returns an error
// to its caller; failures are logged and reported through Outcome.
type Generator struct {
	APIKey      string
	Model       string
	Temperature *float32
	NewClient   ClientFactory
	Log         *zap.Logger
}

// Generate asks the model for a commit message.
func (g *Generator) Generate(ctx context.Context, prompt string) (out Outcome) {
	log := g.Log
	if log == nil {
		log = zap.NewNop()
	}

	if g.APIKey == "" {
		log.Error("Error: "+gemini.APIKeyEnv+" not set", zap.String("env", gemini.APIKeyEnv))
		return Outcome{Err: ErrCredentialNotSet}
	}

	defer func() {
		if r := recover(); r != nil {
			err := errors.Mark(errors.AssertionFailedf("panic: %v", r), ErrService)
			log.Error("Gemini API Error", zap.Error(err))
			out = Outcome{Err: err}
		}
	}()

	text, err := g.call(ctx, prompt)
	if err != nil {
		log.Error("Gemini API Error", zap.String("model", g.Model), zap.Error(err))
		return Outcome{Err: errors.Mark(err, ErrService)}
	}

	msg := commit.Sanitize(text)
	if msg == "" {
		err := errors.Mark(errors.New("model returned an empty message"), ErrService)
		log.Error("Gemini API Error", zap.String("model", g.Model), zap.Error(err))
		return Outcome{Err: err}
	}

	log.Debug("Generated commit message", zap.String("model", g.Model), zap.Int("chars", len(msg)))
	return Outcome{Message: msg}
}

func (g *Generator) call(ctx context.Context, prompt string) (string, error) {
	factory := g.NewClient
	if factory == nil {
		factory = GeminiFactory
	}

	client, err := factory(ctx, g.APIKey)
	if err != nil {
		return "", err
	}

	return client.Generate(ctx, gemini.Request{
		Model:       g.Model,
		Prompt:      prompt,
		Temperature: g.Temperature,
	})
}
