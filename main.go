package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/saint0x/ggreadme/pkg/ai"
	"github.com/saint0x/ggreadme/pkg/config"
	"github.com/saint0x/ggreadme/pkg/github"
	"github.com/saint0x/ggreadme/pkg/log"
	"github.com/saint0x/ggreadme/pkg/pipeline"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "dev"

type flags struct {
	out     string
	cfgFile string
	model   string
	debug   bool
	quiet   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "ggreadme <repo_url>",
		Short: "Generate a README for a GitHub repository with Gemini",
		Long: `ggreadme reads a sample of files from a public GitHub repository,
asks Gemini to describe the project and writes the result as Markdown.

Examples:
  ggreadme https://github.com/owner/repo
  ggreadme https://github.com/owner/repo/tree/dev --out docs/README.md

Environment:
  GOOGLE_API_KEY   Gemini API key (required)
  GITHUB_TOKEN     GitHub token (optional, raises rate limits)
  GEMINI_MODEL     model name (default ` + ai.DefaultModel + `)`,
		Version:       Version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f, args[0])
		},
	}

	cmd.Flags().StringVarP(&f.out, "out", "o", config.DefaultOut, "output README path")
	cmd.Flags().StringVar(&f.cfgFile, "config", "", "config file (default "+config.DefaultPath()+")")
	cmd.Flags().StringVar(&f.model, "model", "", "Gemini model (overrides GEMINI_MODEL)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Hide the progress bar")

	return cmd
}

func run(cmd *cobra.Command, f flags, repoURL string) error {
	env, err := config.Load(f.cfgFile)
	if err != nil {
		log.New(f.debug).Error("Failed to load config: %v", err)
		return err
	}
	if cmd.Flags().Changed("out") {
		env.Out = f.out
	}
	if f.model != "" {
		env.Model = f.model
	}
	if f.debug {
		env.Debug = true
	}

	logger := log.New(env.Debug)
	logger.SetColor(isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stderr.Fd()))
	if err := generate(cmd.Context(), logger, env, repoURL, !f.quiet && isatty.IsTerminal(os.Stderr.Fd())); err != nil {
		logger.Error("%v", err)
		return err
	}
	return nil
}

func generate(ctx context.Context, logger *log.Logger, env *config.Environment, repoURL string, progress bool) error {
	gen, err := ai.New(ctx, logger, ai.Options{
		APIKey:  env.GoogleAPIKey,
		Model:   env.Model,
		BaseURL: env.GeminiAPI,
	})
	if err != nil {
		return err
	}

	ghClient, err := github.New(logger, github.Options{
		Token:             env.GitHubToken,
		BaseURL:           env.GitHubAPI,
		RequestsPerSecond: env.RequestsPerSecond,
	})
	if err != nil {
		return err
	}

	p, err := pipeline.New(logger, ghClient, gen, pipeline.Options{Progress: progress})
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	logger.Info("Using model %s", gen.Model())
	return p.Run(ctx, repoURL, env.Out)
}
