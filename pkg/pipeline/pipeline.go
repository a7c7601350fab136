package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/saint0x/ggreadme/pkg/github"
	"github.com/saint0x/ggreadme/pkg/log"
	"github.com/saint0x/ggreadme/pkg/prompt"
	"github.com/saint0x/ggreadme/pkg/selector"
	"github.com/saint0x/ggreadme/pkg/snippet"
)

// Forge interface for repository reads
type Forge interface {
	FetchTree(ctx context.Context, ref github.RepoRef) (github.RepoRef, []github.TreeEntry, error)
	FetchSnippet(ctx context.Context, ref github.RepoRef, path string) (string, error)
}

// Generator interface for README generation
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options tunes a Pipeline
type Options struct {
	// Progress shows a progress bar on stderr while files are fetched.
	Progress bool
}

// Pipeline turns a repository URL into a README file
type Pipeline struct {
	logger    *log.Logger
	forge     Forge
	generator Generator
	opts      Options
}

// New creates a new pipeline instance
func New(logger *log.Logger, forge Forge, generator Generator, opts Options) (*Pipeline, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if forge == nil {
		return nil, fmt.Errorf("github client is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("readme generator is required")
	}

	return &Pipeline{
		logger:    logger,
		forge:     forge,
		generator: generator,
		opts:      opts,
	}, nil
}

// Run generates a README for repoURL and writes it to out. Nothing is
// written unless every step succeeds.
func (p *Pipeline) Run(ctx context.Context, repoURL, out string) error {
	ref, err := github.ParseRepoURL(repoURL)
	if err != nil {
		return err
	}

	p.logger.Repo("Fetching repo tree for %s (branch: %s)...", ref.FullName(), ref.Branch)
	ref, tree, err := p.forge.FetchTree(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to fetch repo tree: %w", err)
	}
	p.logger.Info("Found %d entries in %s@%s", len(tree), ref.FullName(), ref.Branch)

	picked := selector.Select(tree)
	p.logger.Step("Selected %d files for snippet extraction.", len(picked))

	p.logger.Loading("Fetching %d files...", len(picked))
	snippets := p.fetchSnippets(ctx, ref, picked)
	if err := ctx.Err(); err != nil {
		return err
	}

	text, stats := prompt.BuildWithStats(ref, snippets)
	p.logger.Debug("Prompt: %d bytes, %d snippets included, %d empty, %d omitted by budget",
		len(text), stats.Included, stats.Empty, stats.Omitted)
	if stats.Omitted > 0 {
		p.logger.Warning("%d files left out of the prompt to stay within %d bytes", stats.Omitted, prompt.MaxTotalBytes)
	}

	p.logger.Prompt("Sending prompt to Gemini API...")
	readme, err := p.generator.Generate(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to generate README: %w", err)
	}

	if err := os.WriteFile(out, []byte(readme), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	p.logger.Success("README saved to %s", out)
	return nil
}

// fetchSnippets reads each file in order. A file that cannot be read
// becomes an empty snippet.
func (p *Pipeline) fetchSnippets(ctx context.Context, ref github.RepoRef, picked []github.TreeEntry) []snippet.Snippet {
	var bar *pb.ProgressBar
	if p.opts.Progress && len(picked) > 0 {
		bar = pb.Full.New(len(picked)).SetWriter(os.Stderr).Start()
	}

	fetched := 0
	snippets := make([]snippet.Snippet, 0, len(picked))
	for _, entry := range picked {
		if ctx.Err() != nil {
			break
		}

		content, err := p.forge.FetchSnippet(ctx, ref, entry.Path)
		if err != nil {
			p.logger.Warning("Failed to fetch %s: %v", entry.Path, err)
			content = ""
		} else {
			content = snippet.Truncate(content)
			fetched++
			p.logger.Debug("Fetched %s (%d bytes after trimming)", entry.Path, len(content))
		}
		snippets = append(snippets, snippet.Snippet{Path: entry.Path, Content: content})

		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	p.logger.File("Fetched %d of %d files", fetched, len(picked))
	return snippets
}
