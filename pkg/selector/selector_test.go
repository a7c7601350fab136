package selector

import (
	"fmt"
	"testing"

	"github.com/saint0x/ggreadme/pkg/github"
	"github.com/stretchr/testify/assert"
)

func blob(path string) github.TreeEntry {
	return github.TreeEntry{Path: path, Type: "blob"}
}

func paths(entries []github.TreeEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path)
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		entries []github.TreeEntry
		want    []string
	}{
		{
			name: "keeps matching blobs in tree order",
			entries: []github.TreeEntry{
				blob("main.go"),
				{Path: "docs", Type: "tree"},
				blob("docs/guide.md"),
				blob("setup.cfg"),
				blob("app.py"),
				{Path: "docs.md", Type: "tree"},
			},
			want: []string{"docs/guide.md", "setup.cfg", "app.py"},
		},
		{
			name: "falls back to all blobs",
			entries: []github.TreeEntry{
				{Path: "cmd", Type: "tree"},
				blob("cmd/main.go"),
				blob("Makefile"),
				blob("go.sum"),
			},
			want: []string{"cmd/main.go", "Makefile", "go.sum"},
		},
		{
			name:    "empty tree",
			entries: nil,
			want:    []string{},
		},
		{
			name: "submodules are not blobs",
			entries: []github.TreeEntry{
				{Path: "vendor/lib", Type: "commit"},
				blob("LICENSE"),
			},
			want: []string{"LICENSE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths(Select(tt.entries)))
		})
	}
}

func TestSelectCapsAtMaxFiles(t *testing.T) {
	var entries []github.TreeEntry
	for i := 0; i < 120; i++ {
		entries = append(entries, blob(fmt.Sprintf("file%03d.txt", i)))
	}

	got := Select(entries)

	assert.Len(t, got, MaxFiles)
	assert.Equal(t, "file000.txt", got[0].Path)
	assert.Equal(t, "file049.txt", got[MaxFiles-1].Path)
}

func TestSelectFallbackIsCapped(t *testing.T) {
	var entries []github.TreeEntry
	for i := 0; i < 75; i++ {
		entries = append(entries, blob(fmt.Sprintf("src/%02d.go", i)))
	}

	assert.Len(t, Select(entries), MaxFiles)
}

func TestSelectIsDeterministic(t *testing.T) {
	entries := []github.TreeEntry{blob("b.md"), blob("a.md"), blob("c.go"), blob("d.json")}

	first := Select(entries)
	second := Select(entries)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"b.md", "a.md", "d.json"}, paths(first))
}
