package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/riskibarqy/go-commitmsg/internal/config"
	"github.com/riskibarqy/go-commitmsg/internal/git"
	"github.com/riskibarqy/go-commitmsg/internal/logging"
	"github.com/riskibarqy/go-commitmsg/internal/usecase"
)

const dotEnvFile = ".env"

// Deps holds the collaborators of the root command. Zero values are
// replaced with the production implementations.
type Deps struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Viper     *viper.Viper
	Repo      git.Repository
	Locate    func(dir string) (string, error)
	NewClient usecase.ClientFactory
}

func (d *Deps) defaults() {
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Viper == nil {
		d.Viper = config.NewViper()
	}
	if d.Repo == nil {
		d.Repo = git.NewCLIRepository()
	}
	if d.Locate == nil {
		d.Locate = git.Locate
	}
	if d.NewClient == nil {
		d.NewClient = usecase.GeminiFactory
	}
}

// NewRootCmd builds the commit message command.
func NewRootCmd(deps Deps) *cobra.Command {
	deps.defaults()

	cmd := &cobra.Command{
		Use:   "go-commitmsg",
		Short: "Generate a commit message for the staged changes with Gemini",
		Long: `go-commitmsg reads the staged diff, combines it with the formatting rules
from Git-Commit-Message-rules.md (or a built-in rule set) and asks Gemini
to write the commit message. The message is printed on stdout.

Paths can be given with --files or as trailing arguments, so both
"--files a.go --files b.go" and "--files a.go b.go" restrict the diff.

When generation fails the fixed fallback message is printed instead, so
scripts consuming the output always receive a usable commit message.

The API key is read from ` + config.APIKeyEnv + `; a .env file in the working
directory is loaded first when present.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, deps)
		},
	}
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)
	config.RegisterFlags(cmd.Flags())

	return cmd
}

func run(cmd *cobra.Command, args []string, deps Deps) error {
	if err := config.BindFlags(cmd.Flags(), deps.Viper); err != nil {
		return errors.Wrap(err, "bind flags")
	}
	opts, err := config.Load(cmd.Flags(), deps.Viper, args)
	if err != nil {
		return err
	}

	log, err := logging.New(deps.Stderr, opts.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// go-git does not honour GIT_DIR/GIT_WORK_TREE, so leave those setups to git itself.
	if os.Getenv("GIT_DIR") == "" && os.Getenv("GIT_WORK_TREE") == "" {
		root, err := deps.Locate(".")
		if err != nil {
			return err
		}
		log.Debug("Using repository", zap.String("root", root), zap.Strings("files", opts.Files))
	}

	svc := usecase.NewService(deps.Repo, &usecase.Generator{
		APIKey:      opts.APIKey,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		NewClient:   deps.NewClient,
		Log:         log,
	}, log)

	res, err := svc.Execute(ctx, usecase.Options{
		Files:     opts.Files,
		RulesPath: opts.RulesPath,
		MaxBytes:  opts.MaxBytes,
	})
	if err != nil {
		return err
	}
	if !res.NoChanges && !res.Outcome.OK() {
		log.Warn("Using fallback commit message", zap.Error(res.Outcome.Err))
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text())
	return err
}

// Execute runs the command with production dependencies and returns the
// process exit code.
func Execute() int {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if err := NewRootCmd(Deps{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		return 1
	}
	return 0
}
