package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saint0x/ggreadme/pkg/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupServers starts fake GitHub and Gemini endpoints and points the
// environment at them. It returns the recorded Gemini request bodies.
func setupServers(t *testing.T, geminiBody string) (*[]string, *[]string) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{"GITHUB_TOKEN", "GEMINI_MODEL", "DEBUG"} {
		t.Setenv(key, "")
	}
	t.Setenv("GOOGLE_API_KEY", "test-key")
	t.Chdir(dir)

	var ghRequests, prompts []string
	files := map[string]string{
		"README.md":        "# Widgets\nold readme\n",
		"requirements.txt": "requests==2.31\n",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/git/ref/heads/", func(w http.ResponseWriter, r *http.Request) {
		ghRequests = append(ghRequests, r.URL.Path)
		if !strings.HasSuffix(r.URL.Path, "/main") {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{"ref": "refs/heads/main", "object": map[string]any{"sha": "abc"}})
	})
	mux.HandleFunc("/repos/acme/widgets/git/trees/abc", func(w http.ResponseWriter, r *http.Request) {
		ghRequests = append(ghRequests, r.URL.Path)
		writeJSON(w, map[string]any{"sha": "abc", "tree": []map[string]any{
			{"path": "README.md", "type": "blob"},
			{"path": "main.c", "type": "blob"},
			{"path": "requirements.txt", "type": "blob"},
		}})
	})
	mux.HandleFunc("/repos/acme/widgets/contents/", func(w http.ResponseWriter, r *http.Request) {
		ghRequests = append(ghRequests, r.URL.Path)
		path := strings.TrimPrefix(r.URL.Path, "/repos/acme/widgets/contents/")
		writeJSON(w, map[string]any{
			"type":     "file",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(files[path])),
		})
	})
	gh := httptest.NewServer(mux)
	t.Cleanup(gh.Close)
	t.Setenv("GGREADME_GITHUB_API", gh.URL)

	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		prompts = append(prompts, string(data))
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(geminiBody, `"error"`) {
			w.WriteHeader(http.StatusBadRequest)
		}
		io.WriteString(w, geminiBody)
	}))
	t.Cleanup(gemini.Close)
	t.Setenv("GGREADME_GEMINI_API", gemini.URL)

	return &ghRequests, &prompts
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestGenerateReadme(t *testing.T) {
	ghRequests, prompts := setupServers(t,
		`{"candidates":[{"content":{"parts":[{"text":"# Widgets\n\nFresh README."}]}}]}`)
	out := filepath.Join(t.TempDir(), "OUT.md")

	err := execute("https://github.com/acme/widgets", "--out", out, "--quiet")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "# Widgets\n\nFresh README.", string(data))

	assert.Contains(t, *ghRequests, "/repos/acme/widgets/contents/README.md")
	assert.Contains(t, *ghRequests, "/repos/acme/widgets/contents/requirements.txt")
	assert.NotContains(t, *ghRequests, "/repos/acme/widgets/contents/main.c")

	require.Len(t, *prompts, 1)
	assert.Contains(t, (*prompts)[0], "requests==2.31")
}

func TestGenerateReadmeDefaultOut(t *testing.T) {
	setupServers(t, `{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`)

	require.NoError(t, execute("https://github.com/acme/widgets", "-q"))

	data, err := os.ReadFile("README.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestGenerateReadmeFailures(t *testing.T) {
	tests := []struct {
		name       string
		geminiBody string
		apiKey     string
		url        string
		check      func(t *testing.T, err error)
	}{
		{
			name:   "missing API key",
			apiKey: " ",
			url:    "https://github.com/acme/widgets",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ai.ErrMissingCredentials)
			},
		},
		{
			name: "invalid URL",
			url:  "https://github.com/acme",
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "invalid GitHub repo URL")
			},
		},
		{
			name:       "empty completion",
			geminiBody: `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
			url:        "https://github.com/acme/widgets",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ai.ErrEmptyCompletion)
			},
		},
		{
			name:       "malformed response",
			geminiBody: `{"candidates":[]}`,
			url:        "https://github.com/acme/widgets",
			check: func(t *testing.T, err error) {
				var malformed *ai.MalformedResponseError
				assert.ErrorAs(t, err, &malformed)
			},
		},
		{
			name:       "completion API error",
			geminiBody: `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`,
			url:        "https://github.com/acme/widgets",
			check: func(t *testing.T, err error) {
				var apiErr *ai.CompletionAPIError
				require.ErrorAs(t, err, &apiErr)
				assert.Contains(t, apiErr.Body, "API key not valid")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ghRequests, _ := setupServers(t, tt.geminiBody)
			if tt.apiKey != "" {
				t.Setenv("GOOGLE_API_KEY", tt.apiKey)
			}
			out := filepath.Join(t.TempDir(), "README.md")

			err := execute(tt.url, "--out", out, "--quiet")

			require.Error(t, err)
			tt.check(t, err)
			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr), "output file must not exist")
			if tt.apiKey != "" {
				assert.Empty(t, *ghRequests)
			}
		})
	}
}

func TestRequiresOneArgument(t *testing.T) {
	setupServers(t, "")

	assert.Error(t, execute())
	assert.Error(t, execute("a", "b"))
}
