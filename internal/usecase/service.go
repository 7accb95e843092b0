package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/riskibarqy/go-commitmsg/internal/commit"
	"github.com/riskibarqy/go-commitmsg/internal/git"
	"github.com/riskibarqy/go-commitmsg/internal/prompt"
	"github.com/riskibarqy/go-commitmsg/internal/rules"
	"github.com/riskibarqy/go-commitmsg/internal/util"
)

// Service orchestrates diff collection and commit message generation.
type Service struct {
	Repo      git.Repository
	Generator *Generator
	Log       *zap.Logger
}

// Options is a light copy of the config options needed inside the use case.
type Options struct {
	Files     []string
	RulesPath string
	MaxBytes  int
}

// Result captures the outputs of the use case.
type Result struct {
	NoChanges bool
	Outcome   Outcome
	DiffUsed  string
}

// Text is what gets printed for the result.
func (r Result) Text() string {
	if r.NoChanges {
		return commit.NoChanges
	}
	if r.Outcome.Err != nil {
		return commit.Fallback
	}
	return commit.OrFallback(r.Outcome.Message)
}

// NewService constructs a Service with the provided dependencies.
func NewService(repo git.Repository, gen *Generator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Repo: repo, Generator: gen, Log: log}
}

// Execute collects the staged diff and generates a message for it. Only
// failures to read the diff are returned as errors.
func (s *Service) Execute(ctx context.Context, opts Options) (Result, error) {
	if s == nil || s.Repo == nil || s.Generator == nil {
		return Result{}, errors.New("service not properly initialized")
	}
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}

	diff, err := s.Repo.StagedDiff(ctx, opts.Files)
	if err != nil {
		return Result{}, errors.WithHint(err, "make sure git is installed and the paths exist")
	}
	if strings.TrimSpace(diff) == "" {
		log.Debug("No staged changes", zap.Strings("files", opts.Files))
		return Result{NoChanges: true}, nil
	}

	diff = util.TrimTo(diff, opts.MaxBytes)
	text := prompt.Commit(rules.Load(log, opts.RulesPath), diff)

	log.Debug("Requesting commit message",
		zap.String("model", s.Generator.Model),
		zap.Int("diff_bytes", len(diff)),
		zap.Int("prompt_bytes", len(text)))

	return Result{
		Outcome:  s.Generator.Generate(ctx, text),
		DiffUsed: diff,
	}, nil
}
