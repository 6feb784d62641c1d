package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/agile-notes/internal/app"
	"github.com/runoshun/agile-notes/internal/domain"
)

// newTestVault creates a vault with the given config content and isolates
// the global config directory.
func newTestVault(t *testing.T, config string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("AGILE_NOTES_JIRA_EMAIL", "")
	t.Setenv("AGILE_NOTES_JIRA_API_TOKEN", "")

	root := t.TempDir()
	if config != "" {
		appDir := domain.AppDir(root)
		require.NoError(t, os.MkdirAll(appDir, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(appDir, domain.ConfigFileName), []byte(config), 0o600))
	}
	return root
}

// newTestContainer builds a real container for root.
func newTestContainer(t *testing.T, root string) *app.Container {
	t.Helper()
	c, err := app.New(root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// newJiraServer serves issues as a single search page.
func newJiraServer(t *testing.T, issues ...map[string]any) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"total": len(issues), "issues": issues})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func issue(key, status string) map[string]any {
	return map[string]any{
		"key": key,
		"fields": map[string]any{
			"status":    map[string]any{"name": status},
			"issuetype": map[string]any{"name": "Bug"},
			"summary":   "Fix " + key,
			"assignee":  map[string]any{"displayName": "Alice"},
		},
	}
}

func jiraConfig(baseURL string) string {
	return `
[jira]
base_url = "` + baseURL + `"
usernames = '"alice"'
email = "me@acme.io"
api_token = "secret-token"
`
}

// execute runs the root command with args and returns stdout and stderr.
func execute(c *app.Container, args ...string) (string, string, error) {
	cmd := NewRootCommand(c, "test")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
