package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/saint0x/ggreadme/pkg/log"
	"golang.org/x/oauth2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond paces calls to the GitHub API
const DefaultRequestsPerSecond = 10

// Options configures a Client
type Options struct {
	// Token is optional; without it requests are unauthenticated.
	Token string
	// BaseURL overrides https://api.github.com/.
	BaseURL string
	// RequestsPerSecond <= 0 disables pacing.
	RequestsPerSecond float64
}

// Client reads repository trees and file contents from GitHub
type Client struct {
	client  *github.Client
	logger  *log.Logger
	limiter *rate.Limiter
}

// New creates a new GitHub client
func New(logger *log.Logger, opts Options) (*Client, error) {
	var httpClient *http.Client
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: opts.Token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		logger.Debug("GITHUB_TOKEN not set, using unauthenticated requests")
	}

	gh := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
		}
		gh.BaseURL = u
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		client:  gh,
		logger:  logger,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// ParseRepoURL extracts owner, repository and branch from a GitHub URL.
// The branch comes from a /tree/<branch> segment and defaults to main.
func ParseRepoURL(repoURL string) (RepoRef, error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return RepoRef{}, fmt.Errorf("%w: %s", ErrInvalidRepoURL, repoURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("%w: %s", ErrInvalidRepoURL, repoURL)
	}

	ref := RepoRef{
		Owner:  parts[0],
		Repo:   strings.TrimSuffix(parts[1], ".git"),
		Branch: DefaultBranch,
		URL:    repoURL,
	}
	if len(parts) >= 4 && parts[2] == "tree" && parts[3] != "" {
		ref.Branch = parts[3]
	}

	return ref, nil
}

// FetchTree resolves the branch to a commit and lists every entry of its tree.
// When the branch does not exist the repository's default branch is used
// instead, and the returned RepoRef carries that branch.
func (c *Client) FetchTree(ctx context.Context, ref RepoRef) (RepoRef, []TreeEntry, error) {
	sha, err := c.resolveBranch(ctx, &ref)
	if err != nil {
		return ref, nil, err
	}
	c.logger.Debug("Resolved %s@%s to %s", ref.FullName(), ref.Branch, sha)

	if err := c.wait(ctx); err != nil {
		return ref, nil, err
	}
	tree, resp, err := c.client.Git.GetTree(ctx, ref.Owner, ref.Repo, sha, true)
	if err != nil {
		return ref, nil, forgeError("tree listing", resp, err)
	}
	if tree.GetTruncated() {
		c.logger.Warning("Tree listing for %s was truncated by GitHub", ref.FullName())
	}

	entries := make([]TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, TreeEntry{
			Path: e.GetPath(),
			Type: e.GetType(),
			SHA:  e.GetSHA(),
			Size: e.GetSize(),
		})
	}

	return ref, entries, nil
}

// resolveBranch returns the commit SHA for ref.Branch. A missing branch is
// retried exactly once with the default branch, which replaces ref.Branch.
func (c *Client) resolveBranch(ctx context.Context, ref *RepoRef) (string, error) {
	sha, resp, err := c.lookupRef(ctx, *ref, ref.Branch)
	if err == nil {
		return sha, nil
	}
	if !isNotFound(resp) {
		return "", forgeError("ref lookup", resp, err)
	}

	c.logger.Warning("Branch %q not found, falling back to the default branch", ref.Branch)
	fallback, err := c.GetDefaultBranch(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return "", &BranchResolutionError{Repo: ref.FullName(), Requested: ref.Branch, Err: err}
	}

	sha, resp, err = c.lookupRef(ctx, *ref, fallback)
	if err != nil {
		return "", &BranchResolutionError{
			Repo:      ref.FullName(),
			Requested: ref.Branch,
			Fallback:  fallback,
			Err:       forgeError("ref lookup", resp, err),
		}
	}

	c.logger.Branch("Using default branch: %s", fallback)
	ref.Branch = fallback
	return sha, nil
}

func (c *Client) lookupRef(ctx context.Context, ref RepoRef, branch string) (string, *github.Response, error) {
	if err := c.wait(ctx); err != nil {
		return "", nil, err
	}
	r, resp, err := c.client.Git.GetRef(ctx, ref.Owner, ref.Repo, "heads/"+branch)
	if err != nil {
		return "", resp, err
	}
	return r.GetObject().GetSHA(), resp, nil
}

// GetDefaultBranch gets the default branch for a repository
func (c *Client) GetDefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	repository, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", forgeError("repository lookup", resp, err)
	}

	if branch := repository.GetDefaultBranch(); branch != "" {
		return branch, nil
	}
	return DefaultBranch, nil
}

// FetchSnippet returns the decoded content of one file at ref.Branch.
// Bytes that are not valid UTF-8 are replaced with U+FFFD.
func (c *Client) FetchSnippet(ctx context.Context, ref RepoRef, path string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	file, _, resp, err := c.client.Repositories.GetContents(ctx, ref.Owner, ref.Repo, path,
		&github.RepositoryContentGetOptions{Ref: ref.Branch})
	if err != nil {
		return "", forgeError("content fetch of "+path, resp, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s is not a file", path)
	}

	raw, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}

	text, err := unicode.UTF8.NewDecoder().String(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return text, nil
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func isNotFound(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}

// forgeError turns an HTTP failure into a ForgeAPIError and passes
// transport errors through wrapped.
func forgeError(op string, resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &ForgeAPIError{
			Op:         op,
			StatusCode: http.StatusForbidden,
			Body:       rateErr.Message + " (set GITHUB_TOKEN to raise the limit)",
		}
	}

	if resp == nil || resp.Response == nil {
		return fmt.Errorf("failed to perform %s: %w", op, err)
	}

	body := ""
	if resp.Body != nil {
		if data, readErr := io.ReadAll(resp.Body); readErr == nil {
			body = strings.TrimSpace(string(data))
		}
	}
	if body == "" {
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) {
			body = errResp.Message
		}
	}

	return &ForgeAPIError{
		Op:         op,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}
