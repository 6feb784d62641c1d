package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/agile-notes/internal/domain"
)

func TestConfigCommand_NoSubcommand_ShowsHelp(t *testing.T) {
	c := newTestContainer(t, newTestVault(t, ""))

	stdout, _, err := execute(c, "config")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Available Commands:")
	assert.Contains(t, stdout, "show")
	assert.Contains(t, stdout, "template")
	assert.Contains(t, stdout, "init")
}

func TestConfigShowCommand_MasksToken(t *testing.T) {
	// Setup
	root := newTestVault(t, jiraConfig("acme.atlassian.net")+"request_timeout = \"30s\"\n")
	c := newTestContainer(t, root)

	// Execute
	stdout, _, err := execute(c, "config", "show")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "[Loaded from]")
	assert.Contains(t, stdout, filepath.Join(domain.AppDir(root), domain.ConfigFileName)+"\n")
	assert.Contains(t, stdout, "(not found)", "global config is absent")
	assert.Contains(t, stdout, "[Effective Config]")
	assert.Contains(t, stdout, "acme.atlassian.net")
	assert.Regexp(t, `request_timeout = ['"]30s['"]`, stdout)
	assert.Contains(t, stdout, maskedSecret)
	assert.NotContains(t, stdout, "secret-token")
}

func TestConfigShowCommand_InvalidConfig(t *testing.T) {
	c := newTestContainer(t, newTestVault(t, "[jira]\nmax_results = \"many\"\n"))

	_, _, err := execute(c, "config", "show")

	assert.ErrorIs(t, err, domain.ErrInvalidConfigType)
}

func TestConfigTemplateCommand_OutputsTemplate(t *testing.T) {
	// Broken config files do not matter
	c := newTestContainer(t, newTestVault(t, "not toml ["))

	stdout, _, err := execute(c, "config", "template")

	require.NoError(t, err)
	assert.Contains(t, stdout, "[jira]")
	assert.Contains(t, stdout, "[board]")
	assert.NotContains(t, stdout, "[Loaded from]")
}

func TestConfigInitCommand_CreatesVaultConfig(t *testing.T) {
	root := newTestVault(t, "")
	c := newTestContainer(t, root)

	stdout, _, err := execute(c, "config", "init")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Created config file:")
	info := c.ConfigManager.GetVaultConfigInfo()
	assert.True(t, info.Exists)
	assert.Contains(t, info.Content, "[jira]")

	// A second init refuses to overwrite
	_, _, err = execute(c, "config", "init")
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestConfigInitCommand_WithGlobalFlag(t *testing.T) {
	c := newTestContainer(t, newTestVault(t, ""))

	stdout, _, err := execute(c, "config", "init", "--global")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Created config file:")
	info := c.ConfigManager.GetGlobalConfigInfo()
	assert.True(t, info.Exists)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "agile-notes", domain.ConfigFileName), info.Path)
}
