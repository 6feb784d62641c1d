package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_ListsCommands(t *testing.T) {
	stdout, _, err := execute(nil, "--help")

	require.NoError(t, err)
	for _, name := range []string{"sync", "board", "status", "config", "--vault"} {
		assert.Contains(t, stdout, name)
	}
}

func TestNewRootCommand_Version(t *testing.T) {
	stdout, _, err := execute(nil, "--version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "test")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	// Setup
	root := newTestVault(t, "[notes]\nfolder = \"X\"\n\n[extra]\nkey = 1\n")
	c := newTestContainer(t, root)

	// Execute
	_, stderr, err := execute(c, "status")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: unknown key in [notes]: folder")
	assert.Contains(t, stderr, "Warning: unknown section: extra")
}

func TestNewRootCommand_TemplateSkipsWarnings(t *testing.T) {
	root := newTestVault(t, "[extra]\nkey = 1\n")
	c := newTestContainer(t, root)

	_, stderr, err := execute(c, "config", "template")

	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestVaultFromArgs(t *testing.T) {
	env := func(v string) func(string) string {
		return func(key string) string {
			if key == EnvVault {
				return v
			}
			return ""
		}
	}

	tests := []struct {
		name   string
		args   []string
		getenv func(string) string
		want   string
	}{
		{"default", []string{"sync"}, env(""), "."},
		{"environment", []string{"sync"}, env("/env/vault"), "/env/vault"},
		{"flag", []string{"sync", "--vault", "/my/vault"}, env("/env/vault"), "/my/vault"},
		{"flag with equals", []string{"--vault=/my/vault", "board"}, env(""), "/my/vault"},
		{"flag without value", []string{"sync", "--vault"}, env(""), "."},
		{"after terminator", []string{"sync", "--", "--vault", "/x"}, env(""), "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VaultFromArgs(tt.args, tt.getenv))
		})
	}
}
