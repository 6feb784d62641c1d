// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/runoshun/agile-notes/internal/domain"
)

// syncConcurrency bounds the number of note operations in flight.
const syncConcurrency = 8

// SyncTasksInput contains the input for the SyncTasks use case.
type SyncTasksInput struct {
	DryRun bool // Fetch and map only; write nothing
}

// SyncTasks pulls the assigned issues from the tracker and mirrors them as
// notes plus a Kanban board in the vault.
type SyncTasks struct {
	tracker      domain.IssueTracker
	notes        domain.NoteStore
	board        domain.BoardRenderer
	locker       domain.RunLocker
	runs         domain.RunRecorder
	committer    domain.VaultCommitter
	configLoader domain.ConfigLoader
	clock        domain.Clock
	logger       domain.Logger
	newRunID     func() string
}

// NewSyncTasks creates a new SyncTasks use case.
// committer may be nil when vault snapshots are not available.
func NewSyncTasks(
	tracker domain.IssueTracker,
	notes domain.NoteStore,
	board domain.BoardRenderer,
	locker domain.RunLocker,
	runs domain.RunRecorder,
	committer domain.VaultCommitter,
	configLoader domain.ConfigLoader,
	clock domain.Clock,
	logger domain.Logger,
) *SyncTasks {
	return &SyncTasks{
		tracker:      tracker,
		notes:        notes,
		board:        board,
		locker:       locker,
		runs:         runs,
		committer:    committer,
		configLoader: configLoader,
		clock:        clock,
		logger:       logger,
		newRunID:     uuid.NewString,
	}
}

// Execute runs one sync. It never returns an error and never panics: every
// failure is logged and reported through the result. Work done before a
// failure is kept.
func (uc *SyncTasks) Execute(ctx context.Context, in SyncTasksInput) (res *domain.SyncResult) {
	res = &domain.SyncResult{
		RunID:   uc.newRunID(),
		Started: uc.clock.Now(),
		Stage:   domain.StageConfigure,
		DryRun:  in.DryRun,
	}

	defer func() {
		if r := recover(); r != nil {
			res.Fail(fmt.Errorf("%w: %v", domain.ErrSyncPanicked, r))
		}
		res.Finished = uc.clock.Now()
		uc.finish(res)
	}()

	if err := uc.run(ctx, in, res); err != nil {
		res.Fail(err)
	}
	return res
}

func (uc *SyncTasks) finish(res *domain.SyncResult) {
	if res.Err != nil {
		uc.logger.Error("", "sync", fmt.Sprintf("run %s failed during %s (%s): %v", res.RunID, res.Stage, res.Kind, res.Err))
	} else {
		uc.logger.Info("", "sync", fmt.Sprintf("run %s done: %d fetched, %d active, %d written, %d unchanged, %d moved, %d archived",
			res.RunID, res.Fetched, len(res.Tasks), res.Written, res.Unchanged, res.Moved, res.Archived))
	}

	if res.DryRun {
		return
	}
	if err := uc.runs.Record(res.Record()); err != nil {
		uc.logger.Warn("", "sync", fmt.Sprintf("record run %s: %v", res.RunID, err))
	}
}

func (uc *SyncTasks) run(ctx context.Context, in SyncTasksInput, res *domain.SyncResult) error {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Jira.Validate(); err != nil {
		return err
	}
	target, err := domain.NormalizeFolder(cfg.Notes.TargetFolder)
	if err != nil {
		return fmt.Errorf("target folder: %w", err)
	}
	completed := domain.CompletedFolder(target)

	if !in.DryRun {
		unlock, lockErr := uc.locker.Lock()
		if lockErr != nil {
			return fmt.Errorf("acquire sync lock: %w", lockErr)
		}
		defer unlock()

		res.Stage = domain.StageFolders
		if err := uc.notes.EnsureFolders(target, completed); err != nil {
			return fmt.Errorf("ensure folders: %w", err)
		}
	}

	res.Stage = domain.StageQuery
	issues, err := uc.fetch(ctx, cfg)
	if err != nil {
		return err
	}
	res.Fetched = len(issues)

	res.Stage = domain.StageMap
	tasks := make([]*domain.Task, 0, len(issues))
	for _, issue := range issues {
		if err := issue.Validate(); err != nil {
			return err
		}
		tasks = append(tasks, domain.ToTask(issue, cfg.Jira.BaseURL))
	}
	res.Tasks = domain.FilterActive(tasks, cfg.Filter.Policy())
	res.Columns = domain.SequenceColumns(res.Tasks, cfg.Board.ColumnOrder)
	uc.logger.Debug("", "sync", fmt.Sprintf("%d of %d tasks active", len(res.Tasks), len(tasks)))

	if in.DryRun {
		res.Stage = domain.StageDone
		return nil
	}

	res.Stage = domain.StagePersist
	if err := uc.persist(ctx, target, res); err != nil {
		return err
	}

	res.Stage = domain.StageRelocate
	if err := uc.relocate(ctx, target, cfg.Notes.NoteName, res); err != nil {
		return err
	}

	if cfg.Notes.ArchiveInactive {
		res.Stage = domain.StageArchive
		if err := uc.archive(target, completed, res); err != nil {
			return err
		}
	}

	res.Stage = domain.StageBoard
	changed, err := uc.board.RenderBoard(target, res.Tasks, res.Columns, cfg.Board.ID)
	if err != nil {
		return fmt.Errorf("render board: %w", err)
	}
	res.BoardChanged = changed

	if cfg.Git.Commit && uc.committer != nil {
		res.Stage = domain.StageCommit
		msg := fmt.Sprintf("agile-notes: sync %d tasks\n\nRun: %s", len(res.Tasks), res.RunID)
		committed, err := uc.committer.Commit(msg)
		switch {
		case errors.Is(err, domain.ErrNotGitRepository):
			uc.logger.Warn("", "git", "git.commit is enabled but the vault is not a git repository")
		case err != nil:
			return fmt.Errorf("commit vault: %w", err)
		}
		res.Committed = committed
	}

	res.Stage = domain.StageDone
	return nil
}

// fetch queries the tracker. An empty assignee list skips the query.
func (uc *SyncTasks) fetch(ctx context.Context, cfg *domain.Config) ([]domain.Issue, error) {
	usernames := domain.ParseUsernames(cfg.Jira.Usernames)
	if len(usernames) == 0 {
		uc.logger.Warn("", "jira", "no usernames configured, skipping remote query")
		return nil, nil
	}

	q := domain.SearchQuery{
		JQL:        domain.BuildJQL(usernames, cfg.Jira.TerminalStatuses),
		MaxResults: cfg.Jira.MaxResults,
	}
	uc.logger.Debug("", "jira", "search: "+q.JQL)

	issues, err := uc.tracker.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	return issues, nil
}

// persist writes one note per active task. Distinct tasks touch distinct
// files, so the writes run concurrently.
func (uc *SyncTasks) persist(ctx context.Context, target string, res *domain.SyncResult) error {
	writes := make([]domain.NoteWrite, len(res.Tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for i, t := range res.Tasks {
		g.Go(func() (err error) {
			defer recoverPanic(&err)
			if err := gctx.Err(); err != nil {
				return err
			}
			w, err := uc.notes.SaveNote(target, t)
			if err != nil {
				return fmt.Errorf("save note %s: %w", t.ID, err)
			}
			writes[i] = w
			switch {
			case w.Created:
				uc.logger.Info(t.ID, "note", "created "+w.Path)
			case w.Changed:
				uc.logger.Info(t.ID, "note", "updated "+w.Path)
			}
			return nil
		})
	}
	err := g.Wait()

	for _, w := range writes {
		switch {
		case w.Changed:
			res.Written++
		case w.Path != "":
			res.Unchanged++
		}
	}
	return err
}

// relocate moves each active note to its canonical name directly below the
// target folder. A note already in place is left alone.
func (uc *SyncTasks) relocate(ctx context.Context, target, pattern string, res *domain.SyncResult) error {
	moved := make([]bool, len(res.Tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for i, t := range res.Tasks {
		g.Go(func() (err error) {
			defer recoverPanic(&err)
			if err := gctx.Err(); err != nil {
				return err
			}
			from, err := uc.notes.FindNote(target, t.ID)
			if err != nil {
				return fmt.Errorf("locate note %s: %w", t.ID, err)
			}
			if from == "" {
				return fmt.Errorf("locate note %s: note missing after save", t.ID)
			}

			name, err := domain.NoteFileName(pattern, t)
			if err != nil {
				return err
			}
			to := path.Join(target, name)
			if from == to {
				return nil
			}

			err = uc.notes.MoveNote(from, to)
			if errors.Is(err, domain.ErrNoteExists) {
				// Canonical name is taken by another note; use the name SaveNote falls back to.
				to = path.Join(target, domain.AlternateNoteName(name, t.ID, 0))
				if from == to {
					return nil
				}
				err = uc.notes.MoveNote(from, to)
			}
			if errors.Is(err, domain.ErrNoteExists) {
				uc.logger.Warn(t.ID, "note", fmt.Sprintf("left %s in place: %s is taken", from, to))
				return nil
			}
			if err != nil {
				return fmt.Errorf("move note %s: %w", t.ID, err)
			}
			moved[i] = true
			uc.logger.Info(t.ID, "note", fmt.Sprintf("moved %s -> %s", from, to))
			return nil
		})
	}
	err := g.Wait()

	for _, m := range moved {
		if m {
			res.Moved++
		}
	}
	return err
}

// archive moves notes directly below target whose task is no longer active
// into the completed folder.
func (uc *SyncTasks) archive(target, completed string, res *domain.SyncResult) error {
	active := make(map[string]struct{}, len(res.Tasks))
	for _, t := range res.Tasks {
		active[t.ID] = struct{}{}
	}

	refs, err := uc.notes.ListNotes(target)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	for _, ref := range refs {
		if path.Dir(ref.Path) != target {
			continue
		}
		if _, ok := active[ref.Task.ID]; ok {
			continue
		}
		to := path.Join(completed, path.Base(ref.Path))
		if err := uc.notes.MoveNote(ref.Path, to); err != nil {
			return fmt.Errorf("archive note %s: %w", ref.Task.ID, err)
		}
		res.Archived++
		uc.logger.Info(ref.Task.ID, "note", "archived to "+to)
	}
	return nil
}

// recoverPanic turns a panic in the calling goroutine into an ErrSyncPanicked
// error stored in err. Goroutines started by the run defer it themselves.
func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", domain.ErrSyncPanicked, r)
	}
}
