package github

import (
	"errors"
	"fmt"
)

// ErrInvalidRepoURL is returned when a URL does not name an owner and a repository
var ErrInvalidRepoURL = errors.New("invalid GitHub repo URL")

// BranchResolutionError means neither the requested branch nor the
// repository's default branch could be resolved to a commit.
type BranchResolutionError struct {
	Repo      string
	Requested string
	Fallback  string
	Err       error
}

func (e *BranchResolutionError) Error() string {
	if e.Fallback == "" {
		return fmt.Sprintf("failed to resolve branch %q of %s: %v", e.Requested, e.Repo, e.Err)
	}
	return fmt.Sprintf("failed to resolve branch %q (fallback %q) of %s: %v", e.Requested, e.Fallback, e.Repo, e.Err)
}

func (e *BranchResolutionError) Unwrap() error {
	return e.Err
}

// ForgeAPIError carries a non-success response from the GitHub API
type ForgeAPIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ForgeAPIError) Error() string {
	return fmt.Sprintf("GitHub API error during %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}
