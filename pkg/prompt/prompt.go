package prompt

import (
	"fmt"
	"strings"

	"github.com/saint0x/ggreadme/pkg/github"
	"github.com/saint0x/ggreadme/pkg/snippet"
)

// MaxTotalBytes bounds the snippet bodies included in one prompt
const MaxTotalBytes = 40 * 1024

const preamble = "You are an expert developer & technical writer. " +
	"Analyze this repository deeply and write a precise README. " +
	"Do NOT wrap output in ```markdown or triple backticks. " +
	"Output clean GitHub-flavored Markdown (GFM) only.\n"

const instructions = "\nWrite a concise README with:\n" +
	"- Short project description\n" +
	"- Key features (bullet points)\n" +
	"- Installation steps\n" +
	"- Usage examples\n" +
	"- Tech stack and dependencies\n" +
	"- 3 suggestions for improvements\n" +
	"Keep it 300-800 words and use Markdown.\n"

// Stats describes which snippet bodies made it into a prompt
type Stats struct {
	Included int
	// Empty counts every snippet without content, before or after the budget ran out.
	Empty int
	// Omitted counts non-empty snippets left out by the budget.
	Omitted int
	Bytes   int
}

// Build assembles the README prompt for ref from snippets in order
func Build(ref github.RepoRef, snippets []snippet.Snippet) string {
	p, _ := BuildWithStats(ref, snippets)
	return p
}

// BuildWithStats is Build plus a summary of the byte budget.
// Every snippet is listed in the manifest. Bodies are added in order until
// the first one that would push the total past MaxTotalBytes; that one and
// all later ones are omitted.
func BuildWithStats(ref github.RepoRef, snippets []snippet.Snippet) (string, Stats) {
	var b strings.Builder
	var stats Stats

	b.WriteString(preamble)
	fmt.Fprintf(&b, "\nRepository: %s/%s\nURL: %s\nBranch: %s\n\n", ref.Owner, ref.Repo, ref.URL, ref.Branch)

	b.WriteString("Files included:\n")
	for _, s := range snippets {
		fmt.Fprintf(&b, "- %s : %d lines\n", s.Path, snippet.CountLines(s.Content))
		if s.Content == "" {
			stats.Empty++
		}
	}
	b.WriteString("\n")

	for i, s := range snippets {
		size := len(s.Content)
		if size == 0 {
			continue
		}
		if stats.Bytes+size > MaxTotalBytes {
			stats.Omitted = countNonEmpty(snippets[i:])
			break
		}
		fmt.Fprintf(&b, "---\nFile: %s\n```\n%s\n```\n", s.Path, s.Content)
		stats.Bytes += size
		stats.Included++
	}

	b.WriteString(instructions)
	return b.String(), stats
}

func countNonEmpty(snippets []snippet.Snippet) int {
	n := 0
	for _, s := range snippets {
		if s.Content != "" {
			n++
		}
	}
	return n
}
