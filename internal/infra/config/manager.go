package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/agile-notes/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	appDir        string // Path to <vault>/.agile-notes
	globalConfDir string // Path to global config directory (e.g., ~/.config/agile-notes)
}

// NewManager creates a new Manager.
func NewManager(appDir string) *Manager {
	return NewManagerWithGlobalDir(appDir, defaultGlobalConfigDir())
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(appDir, globalConfDir string) *Manager {
	return &Manager{
		appDir:        appDir,
		globalConfDir: globalConfDir,
	}
}

// GetVaultConfigInfo returns information about the vault config file.
func (m *Manager) GetVaultConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(filepath.Join(m.appDir, domain.ConfigFileName))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitVaultConfig creates the vault config file from the template.
func (m *Manager) InitVaultConfig(cfg *domain.Config) error {
	return m.initConfig(m.appDir, cfg)
}

// InitGlobalConfig creates the global config file from the template.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	return m.initConfig(m.globalConfDir, cfg)
}

// initConfig creates dir/config.toml unless it already exists.
func (m *Manager) initConfig(dir string, cfg *domain.Config) error {
	path := filepath.Join(dir, domain.ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	// The file may carry an API token
	return os.WriteFile(path, []byte(domain.RenderConfigTemplate(cfg)), 0o600)
}
