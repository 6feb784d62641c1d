package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string     `toml:"-"`
	Jira     JiraConfig   `toml:"jira"`
	Notes    NotesConfig  `toml:"notes"`
	Board    BoardConfig  `toml:"board"`
	Filter   FilterConfig `toml:"filter"`
	Git      GitConfig    `toml:"git"`
	Log      LogConfig    `toml:"log"`
}

// JiraConfig holds tracker connection settings from [jira] section.
type JiraConfig struct {
	BaseURL          string        `toml:"base_url,omitempty"`          // Site host, e.g. "example.atlassian.net"
	Usernames        string        `toml:"usernames,omitempty"`         // Quoted assignees separated by ",\n"
	Email            string        `toml:"email,omitempty"`             // Basic auth user
	APIToken         string        `toml:"api_token,omitempty"`         // Basic auth token
	SprintField      string        `toml:"sprint_field,omitempty"`      // Custom field carrying sprints
	TerminalStatuses []string      `toml:"terminal_statuses,omitempty"` // Statuses never fetched
	RequestTimeout   time.Duration `toml:"-"`                           // Per-request timeout, 0 means none
	MaxResults       int           `toml:"max_results,omitempty"`       // Upper bound on fetched issues
}

// NotesConfig holds note layout settings from [notes] section.
type NotesConfig struct {
	TargetFolder    string `toml:"target_folder,omitempty"` // Vault folder receiving task notes
	NoteName        string `toml:"note_name,omitempty"`     // File name template over Task
	Template        string `toml:"template,omitempty"`      // Inline body template
	TemplateFile    string `toml:"template_file,omitempty"` // Vault-relative body template file
	ArchiveInactive bool   `toml:"archive_inactive,omitempty"`
}

// BoardConfig holds Kanban board settings from [board] section.
type BoardConfig struct {
	ID          string   `toml:"id,omitempty"`           // Board identifier used in the file name
	ColumnOrder []string `toml:"column_order,omitempty"` // Lane priority
}

// FilterConfig holds task filter settings from [filter] section.
type FilterConfig struct {
	AssigneeSubstring string   `toml:"assignee_substring,omitempty"`
	GatedState        string   `toml:"gated_state,omitempty"`
	ExcludedStates    []string `toml:"excluded_states,omitempty"`
}

// GitConfig holds vault snapshot settings from [git] section.
type GitConfig struct {
	AuthorName  string `toml:"author_name,omitempty"`
	AuthorEmail string `toml:"author_email,omitempty"`
	Commit      bool   `toml:"commit,omitempty"` // Commit vault changes after a sync
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// Default configuration values.
const (
	DefaultLogLevel     = "info"
	DefaultTargetFolder = "Tasks"
	DefaultNoteName     = "{{.ID}}"
	DefaultBoardID      = "FP"
	DefaultSprintField  = "customfield_10020"
	DefaultGatedState   = "Backlog"
	DefaultAuthorName   = "agile-notes"
	DefaultAuthorEmail  = "agile-notes@localhost"
)

// DefaultExcludedStates are the states filtered out for every assignee.
var DefaultExcludedStates = []string{"PM Evaluation", "Ready for Engineering"}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Jira: JiraConfig{
			MaxResults:       DefaultMaxResults,
			SprintField:      DefaultSprintField,
			TerminalStatuses: append([]string(nil), DefaultTerminalStatuses...),
		},
		Notes: NotesConfig{
			TargetFolder: DefaultTargetFolder,
			NoteName:     DefaultNoteName,
		},
		Board: BoardConfig{
			ID:          DefaultBoardID,
			ColumnOrder: append([]string(nil), DefaultColumnOrder...),
		},
		Filter: FilterConfig{
			GatedState:     DefaultGatedState,
			ExcludedStates: append([]string(nil), DefaultExcludedStates...),
		},
		Git: GitConfig{
			AuthorName:  DefaultAuthorName,
			AuthorEmail: DefaultAuthorEmail,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks that the tracker connection is usable.
func (j JiraConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(j.BaseURL) == "" {
		missing = append(missing, "jira.base_url")
	}
	if strings.TrimSpace(j.Email) == "" {
		missing = append(missing, "jira.email")
	}
	if strings.TrimSpace(j.APIToken) == "" {
		missing = append(missing, "jira.api_token")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), ErrNotConfigured)
	}
	return nil
}

// Policy returns the filter policy described by the [filter] section.
func (f FilterConfig) Policy() FilterPolicy {
	return FilterPolicy{
		AssigneeSubstring: f.AssigneeSubstring,
		GatedState:        f.GatedState,
		ExcludedStates:    f.ExcludedStates,
	}
}

// templateData holds all data for rendering the config template.
type templateData struct {
	BaseURL          string
	TargetFolder     string
	NoteName         string
	BoardID          string
	SprintField      string
	GatedState       string
	AuthorName       string
	AuthorEmail      string
	LogLevel         string
	TerminalStatuses string
	ColumnOrder      string
	ExcludedStates   string
	MaxResults       int
}

// RenderConfigTemplate renders a commented config file from the given Config.
func RenderConfigTemplate(cfg *Config) string {
	data := templateData{
		BaseURL:          cfg.Jira.BaseURL,
		TargetFolder:     cfg.Notes.TargetFolder,
		NoteName:         cfg.Notes.NoteName,
		BoardID:          cfg.Board.ID,
		SprintField:      cfg.Jira.SprintField,
		GatedState:       cfg.Filter.GatedState,
		AuthorName:       cfg.Git.AuthorName,
		AuthorEmail:      cfg.Git.AuthorEmail,
		LogLevel:         cfg.Log.Level,
		TerminalStatuses: tomlStringArray(cfg.Jira.TerminalStatuses),
		ColumnOrder:      tomlStringArray(cfg.Board.ColumnOrder),
		ExcludedStates:   tomlStringArray(cfg.Filter.ExcludedStates),
		MaxResults:       cfg.Jira.MaxResults,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}

func tomlStringArray(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
