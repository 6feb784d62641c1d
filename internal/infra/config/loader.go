// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/agile-notes/internal/domain"
)

// Environment variables overriding the tracker credentials.
const (
	EnvJiraEmail    = "AGILE_NOTES_JIRA_EMAIL"
	EnvJiraAPIToken = "AGILE_NOTES_JIRA_API_TOKEN"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	lookupEnv     func(string) (string, bool)
	appDir        string // Path to <vault>/.agile-notes
	globalConfDir string // Path to global config directory (e.g., ~/.config/agile-notes)
}

// NewLoader creates a new Loader.
func NewLoader(appDir string) *Loader {
	return NewLoaderWithGlobalDir(appDir, defaultGlobalConfigDir())
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(appDir, globalConfDir string) *Loader {
	return &Loader{
		appDir:        appDir,
		globalConfDir: globalConfDir,
		lookupEnv:     os.LookupEnv,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Merge order: defaults <- global <- vault <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	var paths []string
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, domain.ConfigFileName))
	}
	if l.appDir != "" {
		paths = append(paths, filepath.Join(l.appDir, domain.ConfigFileName))
	}

	for _, path := range paths {
		if err := l.applyFile(cfg, path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
	}

	if v, ok := l.lookupEnv(EnvJiraEmail); ok && v != "" {
		cfg.Jira.Email = v
	}
	if v, ok := l.lookupEnv(EnvJiraAPIToken); ok && v != "" {
		cfg.Jira.APIToken = v
	}

	sort.Strings(cfg.Warnings)
	return cfg, nil
}

// applyFile overlays the settings found in path onto cfg.
func (l *Loader) applyFile(cfg *domain.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if err := applyRaw(cfg, raw); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// applyRaw overlays a raw TOML document onto cfg, collecting warnings for
// unknown sections and keys.
func applyRaw(cfg *domain.Config, raw map[string]any) error {
	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}

		var err error
		switch section {
		case "jira":
			err = applyJira(&cfg.Jira, m, &cfg.Warnings)
		case "notes":
			err = applyNotes(&cfg.Notes, m, &cfg.Warnings)
		case "board":
			err = applyBoard(&cfg.Board, m, &cfg.Warnings)
		case "filter":
			err = applyFilter(&cfg.Filter, m, &cfg.Warnings)
		case "git":
			err = applyGit(&cfg.Git, m, &cfg.Warnings)
		case "log":
			err = applyLog(&cfg.Log, m, &cfg.Warnings)
		default:
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown section: %s", section))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyJira(c *domain.JiraConfig, m map[string]any, warnings *[]string) error {
	for k, v := range m {
		var err error
		switch k {
		case "base_url":
			err = setString(&c.BaseURL, "jira", k, v)
		case "usernames":
			err = setString(&c.Usernames, "jira", k, v)
		case "email":
			err = setString(&c.Email, "jira", k, v)
		case "api_token":
			err = setString(&c.APIToken, "jira", k, v)
		case "sprint_field":
			err = setString(&c.SprintField, "jira", k, v)
		case "max_results":
			err = setInt(&c.MaxResults, "jira", k, v)
		case "terminal_statuses":
			err = setStrings(&c.TerminalStatuses, "jira", k, v)
		case "request_timeout":
			err = setDuration(&c.RequestTimeout, "jira", k, v)
		default:
			*warnings = append(*warnings, fmt.Sprintf("unknown key in [jira]: %s", k))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyNotes(c *domain.NotesConfig, m map[string]any, warnings *[]string) error {
	for k, v := range m {
		var err error
		switch k {
		case "target_folder":
			err = setString(&c.TargetFolder, "notes", k, v)
		case "note_name":
			err = setString(&c.NoteName, "notes", k, v)
		case "template":
			err = setString(&c.Template, "notes", k, v)
		case "template_file":
			err = setString(&c.TemplateFile, "notes", k, v)
		case "archive_inactive":
			err = setBool(&c.ArchiveInactive, "notes", k, v)
		default:
			*warnings = append(*warnings, fmt.Sprintf("unknown key in [notes]: %s", k))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyBoard(c *domain.BoardConfig, m map[string]any, warnings *[]string) error {
	for k, v := range m {
		var err error
		switch k {
		case "id":
			err = setString(&c.ID, "board", k, v)
		case "column_order":
			err = setStrings(&c.ColumnOrder, "board", k, v)
		default:
			*warnings = append(*warnings, fmt.Sprintf("unknown key in [board]: %s", k))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyFilter(c *domain.FilterConfig, m map[string]any, warnings *[]string) error {
	for k, v := range m {
		var err error
		switch k {
		case "assignee_substring":
			err = setString(&c.AssigneeSubstring, "filter", k, v)
		case "gated_state":
			err = setString(&c.GatedState, "filter", k, v)
		case "excluded_states":
			err = setStrings(&c.ExcludedStates, "filter", k, v)
		default:
			*warnings = append(*warnings, fmt.Sprintf("unknown key in [filter]: %s", k))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyGit(c *domain.GitConfig, m map[string]any, warnings *[]string) error {
	for k, v := range m {
		var err error
		switch k {
		case "commit":
			err = setBool(&c.Commit, "git", k, v)
		case "author_name":
			err = setString(&c.AuthorName, "git", k, v)
		case "author_email":
			err = setString(&c.AuthorEmail, "git", k, v)
		default:
			*warnings = append(*warnings, fmt.Sprintf("unknown key in [git]: %s", k))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func applyLog(c *domain.LogConfig, m map[string]any, warnings *[]string) error {
	for k, v := range m {
		switch k {
		case "level":
			if err := setString(&c.Level, "log", k, v); err != nil {
				return err
			}
		default:
			*warnings = append(*warnings, fmt.Sprintf("unknown key in [log]: %s", k))
		}
	}
	return nil
}

func typeError(section, key, want string) error {
	return fmt.Errorf("[%s].%s must be %s: %w", section, key, want, domain.ErrInvalidConfigType)
}

func setString(dst *string, section, key string, v any) error {
	s, ok := v.(string)
	if !ok {
		return typeError(section, key, "a string")
	}
	*dst = s
	return nil
}

func setBool(dst *bool, section, key string, v any) error {
	b, ok := v.(bool)
	if !ok {
		return typeError(section, key, "a boolean")
	}
	*dst = b
	return nil
}

func setInt(dst *int, section, key string, v any) error {
	n, ok := v.(int64)
	if !ok || n < 0 {
		return typeError(section, key, "a non-negative integer")
	}
	*dst = int(n)
	return nil
}

func setStrings(dst *[]string, section, key string, v any) error {
	items, ok := v.([]any)
	if !ok {
		return typeError(section, key, "an array of strings")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return typeError(section, key, "an array of strings")
		}
		out = append(out, s)
	}
	*dst = out
	return nil
}

func setDuration(dst *time.Duration, section, key string, v any) error {
	s, ok := v.(string)
	if !ok {
		return typeError(section, key, `a duration string such as "30s"`)
	}
	if s == "" {
		*dst = 0
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return typeError(section, key, `a duration string such as "30s"`)
	}
	*dst = d
	return nil
}
