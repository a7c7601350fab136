package selector

import (
	"strings"

	"github.com/saint0x/ggreadme/pkg/github"
)

// MaxFiles caps how many files are read from a repository
const MaxFiles = 50

// Extensions lists the file suffixes preferred for README context
var Extensions = []string{".py", ".md", ".txt", ".json", ".yml", ".yaml", ".toml", ".ini", ".cfg"}

// Select picks up to MaxFiles blobs in tree order, preferring files with a
// known extension. When none match, every blob is a candidate.
func Select(entries []github.TreeEntry) []github.TreeEntry {
	var blobs, picked []github.TreeEntry
	for _, e := range entries {
		if !e.IsBlob() {
			continue
		}
		blobs = append(blobs, e)
		if hasExtension(e.Path) {
			picked = append(picked, e)
		}
	}

	if len(picked) == 0 {
		picked = blobs
	}
	if len(picked) > MaxFiles {
		picked = picked[:MaxFiles]
	}
	return picked
}

func hasExtension(path string) bool {
	for _, ext := range Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
