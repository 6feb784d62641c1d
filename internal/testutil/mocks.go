// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/agile-notes/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockIssueTracker is a test double for domain.IssueTracker.
// Fields are ordered to minimize memory padding.
type MockIssueTracker struct {
	SearchErr   error
	Issues      []domain.Issue
	Queries     []domain.SearchQuery
	PanicValue  any
	mu          sync.Mutex
	SearchCalls int
}

// Search records the query and returns the configured issues.
func (m *MockIssueTracker) Search(_ context.Context, q domain.SearchQuery) ([]domain.Issue, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()

	if m.PanicValue != nil {
		panic(m.PanicValue)
	}
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Issues, nil
}

// MockNoteStore is an in-memory domain.NoteStore.
// Notes are keyed by path; the id of each note is tracked separately.
// Fields are ordered to minimize memory padding.
type MockNoteStore struct {
	EnsureErr  error
	SaveErr    error
	MoveErr    error
	ListErr    error
	SavePanic  any                     // Panic value raised by SaveNote
	FindPanic  any                     // Panic value raised by FindNote
	Notes      map[string]*domain.Task // path -> task
	Occupied   map[string]bool         // Paths held by files that are not task notes
	Folders    []string
	Moves      [][2]string
	mu         sync.Mutex
	SaveCalls  int
	WriteCount int
}

// NewMockNoteStore creates a new MockNoteStore with initialized maps.
func NewMockNoteStore() *MockNoteStore {
	return &MockNoteStore{
		Notes:    make(map[string]*domain.Task),
		Occupied: make(map[string]bool),
	}
}

// EnsureFolders records the folders.
func (m *MockNoteStore) EnsureFolders(folders ...string) error {
	if m.EnsureErr != nil {
		return m.EnsureErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Folders = append(m.Folders, folders...)
	return nil
}

// SaveNote stores the task at folder/<id>.md unless a note with the id exists.
func (m *MockNoteStore) SaveNote(folder string, task *domain.Task) (domain.NoteWrite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SavePanic != nil {
		panic(m.SavePanic)
	}
	if m.SaveErr != nil {
		return domain.NoteWrite{}, m.SaveErr
	}

	p := m.findLocked(folder, task.ID)
	created := p == ""
	if created {
		p = path.Join(folder, task.ID+domain.NoteExt)
	}
	changed := created || *m.Notes[p] != *task
	if changed {
		copied := *task
		m.Notes[p] = &copied
		m.WriteCount++
	}
	return domain.NoteWrite{Path: p, Created: created, Changed: changed}, nil
}

// FindNote returns the path of the note holding id below folder.
func (m *MockNoteStore) FindNote(folder, id string) (string, error) {
	if m.FindPanic != nil {
		panic(m.FindPanic)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findLocked(folder, id), nil
}

func (m *MockNoteStore) findLocked(folder, id string) string {
	for p, t := range m.Notes {
		if t.ID == id && under(folder, p) {
			return p
		}
	}
	return ""
}

// MoveNote renames a note.
func (m *MockNoteStore) MoveNote(from, to string) error {
	if m.MoveErr != nil {
		return m.MoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if from == to {
		return nil
	}
	if _, taken := m.Notes[to]; taken || m.Occupied[to] {
		return fmt.Errorf("move %s to %s: %w", from, to, domain.ErrNoteExists)
	}
	t, ok := m.Notes[from]
	if !ok {
		return fmt.Errorf("move %s: not found", from)
	}
	delete(m.Notes, from)
	m.Notes[to] = t
	m.Moves = append(m.Moves, [2]string{from, to})
	return nil
}

// ListNotes returns all notes below folder sorted by path.
func (m *MockNoteStore) ListNotes(folder string) ([]domain.NoteRef, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	refs := make([]domain.NoteRef, 0, len(m.Notes))
	for p, t := range m.Notes {
		if under(folder, p) {
			refs = append(refs, domain.NoteRef{Path: p, Task: t})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	return refs, nil
}

// Put seeds a note at p.
func (m *MockNoteStore) Put(p string, task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notes[p] = task
}

func under(folder, p string) bool {
	return folder == "." || strings.HasPrefix(p, folder+"/")
}

// MockBoardRenderer is a test double for domain.BoardRenderer.
// Fields are ordered to minimize memory padding.
type MockBoardRenderer struct {
	RenderErr error
	Folder    string
	BoardID   string
	Tasks     []*domain.Task
	Columns   []string
	Calls     int
	Changed   bool
}

// RenderBoard records its arguments.
func (m *MockBoardRenderer) RenderBoard(folder string, tasks []*domain.Task, columns []string, boardID string) (bool, error) {
	m.Calls++
	if m.RenderErr != nil {
		return false, m.RenderErr
	}
	m.Folder = folder
	m.Tasks = tasks
	m.Columns = columns
	m.BoardID = boardID
	return m.Changed, nil
}

// MockRunLocker is a test double for domain.RunLocker.
type MockRunLocker struct {
	LockErr  error
	Locked   int
	Unlocked int
}

// Lock counts lock acquisitions.
func (m *MockRunLocker) Lock() (func(), error) {
	if m.LockErr != nil {
		return nil, m.LockErr
	}
	m.Locked++
	return func() { m.Unlocked++ }, nil
}

// MockRunRecorder is an in-memory domain.RunRecorder.
type MockRunRecorder struct {
	RecordErr error
	ListErr   error
	Records   []domain.SyncRecord
}

// Record appends a record.
func (m *MockRunRecorder) Record(rec domain.SyncRecord) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.Records = append(m.Records, rec)
	return nil
}

// List returns up to limit records, newest first.
func (m *MockRunRecorder) List(limit int) ([]domain.SyncRecord, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]domain.SyncRecord, 0, len(m.Records))
	for i := len(m.Records) - 1; i >= 0; i-- {
		out = append(out, m.Records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MockVaultCommitter is a test double for domain.VaultCommitter.
type MockVaultCommitter struct {
	CommitErr error
	Messages  []string
	Committed bool
}

// Commit records the message.
func (m *MockVaultCommitter) Commit(message string) (bool, error) {
	if m.CommitErr != nil {
		return false, m.CommitErr
	}
	m.Messages = append(m.Messages, message)
	return m.Committed, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitVaultErr     error
	InitGlobalErr    error
	VaultConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitVaultCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{}
}

// GetVaultConfigInfo returns the configured vault config info.
func (m *MockConfigManager) GetVaultConfigInfo() domain.ConfigInfo {
	return m.VaultConfigInfo
}

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitVaultConfig records the call.
func (m *MockConfigManager) InitVaultConfig(_ *domain.Config) error {
	m.InitVaultCalled = true
	return m.InitVaultErr
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// NewMockConfigLoader creates a new MockConfigLoader returning the default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LogEntry is one message captured by MockLogger.
type LogEntry struct {
	Level    string
	Key      string
	Category string
	Msg      string
}

// MockLogger captures log messages.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, key, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Key: key, Category: category, Msg: msg})
}

// Info records an info message.
func (m *MockLogger) Info(key, category, msg string) { m.add("INFO", key, category, msg) }

// Debug records a debug message.
func (m *MockLogger) Debug(key, category, msg string) { m.add("DEBUG", key, category, msg) }

// Warn records a warning.
func (m *MockLogger) Warn(key, category, msg string) { m.add("WARN", key, category, msg) }

// Error records an error.
func (m *MockLogger) Error(key, category, msg string) { m.add("ERROR", key, category, msg) }

// Has reports whether a message at level containing substr was logged.
func (m *MockLogger) Has(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Level == level && strings.Contains(e.Msg, substr) {
			return true
		}
	}
	return false
}

// Issue builds a well-formed issue for tests.
func Issue(key, state, assignee string) domain.Issue {
	issue := domain.Issue{
		Key: key,
		Fields: domain.IssueFields{
			Status:    &domain.NamedValue{Name: state},
			IssueType: &domain.NamedValue{Name: "Task"},
			Summary:   "Summary of " + key,
		},
	}
	if assignee != "" {
		issue.Fields.Assignee = &domain.User{DisplayName: assignee}
	}
	return issue
}
