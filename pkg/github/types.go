package github

// DefaultBranch is used when the URL does not name a branch
const DefaultBranch = "main"

// RepoRef identifies a repository and the branch to read from
type RepoRef struct {
	Owner  string
	Repo   string
	Branch string
	URL    string
}

// FullName returns owner/repo
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// TreeEntry is one item of a recursive tree listing
type TreeEntry struct {
	Path string
	Type string
	SHA  string
	Size int
}

// IsBlob reports whether the entry is a file
func (e TreeEntry) IsBlob() bool {
	return e.Type == "blob"
}
