package domain

import (
	"context"
	"time"
)

// IssueTracker queries the remote issue tracker.
type IssueTracker interface {
	// Search returns the issues matching the query.
	Search(ctx context.Context, q SearchQuery) ([]Issue, error)
}

// SearchQuery is one remote search request.
type SearchQuery struct {
	JQL        string // Query string
	MaxResults int    // Upper bound on returned issues
}

// NoteStore persists task notes inside the vault.
// All paths are vault-relative and slash-separated.
type NoteStore interface {
	// EnsureFolders creates the folders if they don't exist.
	EnsureFolders(folders ...string) error

	// SaveNote creates or updates the note for a task below folder.
	// An existing note with the same task id is updated in place.
	SaveNote(folder string, task *Task) (NoteWrite, error)

	// FindNote returns the path of the note for a task id below folder.
	// Returns "" if there is none.
	FindNote(folder, id string) (string, error)

	// MoveNote renames a note. Moving a note onto itself is a no-op.
	MoveNote(from, to string) error

	// ListNotes returns every task note below folder, sorted by path.
	ListNotes(folder string) ([]NoteRef, error)
}

// NoteWrite describes the outcome of SaveNote.
type NoteWrite struct {
	Path    string // Note path
	Created bool   // The note did not exist before
	Changed bool   // The file content was written
}

// NoteRef is a task read back from a note file.
type NoteRef struct {
	Task *Task
	Path string
}

// BoardRenderer writes the Kanban board view.
type BoardRenderer interface {
	// RenderBoard writes the board for tasks with the given lane order.
	// Returns true if the board file changed.
	RenderBoard(folder string, tasks []*Task, columns []string, boardID string) (bool, error)
}

// RunLocker serializes sync runs against one vault.
type RunLocker interface {
	// Lock blocks until the run lock is held and returns its release function.
	Lock() (unlock func(), err error)
}

// RunRecorder keeps the history of sync runs.
type RunRecorder interface {
	// Record appends a finished run.
	Record(rec SyncRecord) error

	// List returns up to limit runs, newest first. limit <= 0 means all.
	List(limit int) ([]SyncRecord, error)
}

// VaultCommitter snapshots vault changes after a run.
type VaultCommitter interface {
	// Commit stages all changes and commits them.
	// Returns false when there was nothing to commit.
	Commit(message string) (bool, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + vault).
	Load() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetVaultConfigInfo returns information about the vault config file.
	GetVaultConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitVaultConfig writes the config template into the vault.
	InitVaultConfig(cfg *Config) error

	// InitGlobalConfig writes the config template into the global config directory.
	InitGlobalConfig(cfg *Config) error
}

// ConfigInfo describes one config file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Logger records sync activity.
// key is an issue key or empty for run-level entries.
type Logger interface {
	Info(key, category, msg string)
	Debug(key, category, msg string)
	Warn(key, category, msg string)
	Error(key, category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
