// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/runoshun/agile-notes/internal/domain"
	"github.com/runoshun/agile-notes/internal/infra/config"
	"github.com/runoshun/agile-notes/internal/infra/jira"
	"github.com/runoshun/agile-notes/internal/infra/logging"
	"github.com/runoshun/agile-notes/internal/infra/runlog"
	"github.com/runoshun/agile-notes/internal/infra/vault"
	"github.com/runoshun/agile-notes/internal/infra/vaultgit"
	"github.com/runoshun/agile-notes/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	VaultRoot string // Root directory of the vault
	AppDir    string // Path to <vault>/.agile-notes
}

// newConfig creates a new Config for the vault at root.
func newConfig(root string) Config {
	return Config{
		VaultRoot: root,
		AppDir:    domain.AppDir(root),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tracker       domain.IssueTracker
	Notes         domain.NoteStore
	Board         domain.BoardRenderer
	Locker        domain.RunLocker
	Runs          domain.RunRecorder
	Committer     domain.VaultCommitter
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Clock         domain.Clock
	SyncLog       domain.Logger

	// Pointer fields
	Logger  *slog.Logger
	fileLog *logging.Logger

	// Configuration
	Config Config
}

// New creates a new Container for the vault at dir.
// Settings that shape the adapters (Jira site, note templates, log level)
// are read once here; an unreadable config falls back to defaults and is
// reported again when a use case loads it.
func New(dir string) (*Container, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve vault directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open vault: %s is not a directory", root)
	}

	cfg := newConfig(root)

	configLoader := config.NewLoader(cfg.AppDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		appConfig = domain.NewDefaultConfig()
	}

	clock := domain.RealClock{}
	store := vault.New(root, vault.WithNotesConfig(appConfig.Notes))
	fileLog := logging.New(cfg.AppDir, logging.ParseLevel(appConfig.Log.Level))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &Container{
		Tracker:       jira.NewClient(appConfig.Jira),
		Notes:         store,
		Board:         store,
		Locker:        vault.NewRunLock(cfg.AppDir),
		Runs:          runlog.New(cfg.AppDir),
		Committer:     vaultgit.New(root, appConfig.Git, clock),
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(cfg.AppDir),
		Clock:         clock,
		SyncLog:       fileLog,
		Logger:        logger,
		fileLog:       fileLog,
		Config:        cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
// Ports left nil can be assigned on the returned value.
func NewWithDeps(cfg Config, clock domain.Clock, logger *slog.Logger) *Container {
	return &Container{
		Clock:  clock,
		Logger: logger,
		Config: cfg,
	}
}

// MirrorSyncLog copies sync log entries to w.
func (c *Container) MirrorSyncLog(w io.Writer) {
	if c.fileLog != nil {
		c.fileLog.WithMirror(w)
	}
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	if c.fileLog != nil {
		return c.fileLog.Close()
	}
	return nil
}

// UseCase factory methods

// SyncTasksUseCase returns a new SyncTasks use case.
func (c *Container) SyncTasksUseCase() *usecase.SyncTasks {
	return usecase.NewSyncTasks(c.Tracker, c.Notes, c.Board, c.Locker, c.Runs, c.Committer, c.ConfigLoader, c.Clock, c.SyncLog)
}

// ShowBoardUseCase returns a new ShowBoard use case.
func (c *Container) ShowBoardUseCase() *usecase.ShowBoard {
	return usecase.NewShowBoard(c.Notes, c.ConfigLoader)
}

// ShowStatusUseCase returns a new ShowStatus use case.
func (c *Container) ShowStatusUseCase() *usecase.ShowStatus {
	return usecase.NewShowStatus(c.Runs)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}
