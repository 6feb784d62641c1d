package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/agile-notes/internal/domain"
)

func TestManager_GetVaultConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		appDir := t.TempDir()
		configContent := "[board]\nid = \"OPS\""
		writeConfig(t, appDir, configContent)

		manager := NewManagerWithGlobalDir(appDir, "")
		info := manager.GetVaultConfigInfo()

		assert.Equal(t, filepath.Join(appDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		appDir := t.TempDir()

		manager := NewManagerWithGlobalDir(appDir, "")
		info := manager.GetVaultConfigInfo()

		assert.Equal(t, filepath.Join(appDir, domain.ConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		writeConfig(t, globalDir, "[log]\nlevel = \"debug\"")

		info := NewManagerWithGlobalDir("", globalDir).GetGlobalConfigInfo()

		assert.Equal(t, "[log]\nlevel = \"debug\"", info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns empty info when global dir is empty", func(t *testing.T) {
		info := NewManagerWithGlobalDir("", "").GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitVaultConfig(t *testing.T) {
	t.Run("creates config file and directory", func(t *testing.T) {
		appDir := filepath.Join(t.TempDir(), domain.AppDirName)
		cfg := domain.NewDefaultConfig()
		cfg.Jira.BaseURL = "acme.atlassian.net"

		manager := NewManagerWithGlobalDir(appDir, "")
		require.NoError(t, manager.InitVaultConfig(cfg))

		content, err := os.ReadFile(filepath.Join(appDir, domain.ConfigFileName))
		require.NoError(t, err)
		assert.Contains(t, string(content), `base_url = "acme.atlassian.net"`)

		// The written template loads back cleanly
		loaded, err := newTestLoader(appDir, "", nil).Load()
		require.NoError(t, err)
		assert.Equal(t, "acme.atlassian.net", loaded.Jira.BaseURL)
		assert.Empty(t, loaded.Warnings)
	})

	t.Run("returns error if file exists", func(t *testing.T) {
		appDir := t.TempDir()
		writeConfig(t, appDir, "existing")

		err := NewManagerWithGlobalDir(appDir, "").InitVaultConfig(domain.NewDefaultConfig())

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "agile-notes")

		err := NewManagerWithGlobalDir("", globalDir).InitGlobalConfig(domain.NewDefaultConfig())

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(globalDir, domain.ConfigFileName))
	})

	t.Run("returns error when global dir is unavailable", func(t *testing.T) {
		err := NewManagerWithGlobalDir("", "").InitGlobalConfig(domain.NewDefaultConfig())

		assert.Error(t, err)
	})
}
