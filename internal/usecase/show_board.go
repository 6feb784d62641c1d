package usecase

import (
	"context"
	"fmt"
	"path"

	"github.com/runoshun/agile-notes/internal/domain"
)

// ShowBoardInput contains the input for the ShowBoard use case.
type ShowBoardInput struct{}

// ShowBoardOutput contains the board as read back from the vault.
type ShowBoardOutput struct {
	BoardID string
	Folder  string
	Lanes   []domain.Lane
}

// ShowBoard reads the task notes of the target folder and groups them into
// board lanes. Archived notes are left out.
type ShowBoard struct {
	notes        domain.NoteStore
	configLoader domain.ConfigLoader
}

// NewShowBoard creates a new ShowBoard use case.
func NewShowBoard(notes domain.NoteStore, configLoader domain.ConfigLoader) *ShowBoard {
	return &ShowBoard{
		notes:        notes,
		configLoader: configLoader,
	}
}

// Execute builds the board lanes.
func (uc *ShowBoard) Execute(_ context.Context, _ ShowBoardInput) (*ShowBoardOutput, error) {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	target, err := domain.NormalizeFolder(cfg.Notes.TargetFolder)
	if err != nil {
		return nil, fmt.Errorf("target folder: %w", err)
	}

	refs, err := uc.notes.ListNotes(target)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	completed := domain.CompletedFolder(target)
	open := make([]domain.NoteRef, 0, len(refs))
	tasks := make([]*domain.Task, 0, len(refs))
	for _, ref := range refs {
		if path.Dir(ref.Path) == completed {
			continue
		}
		open = append(open, ref)
		tasks = append(tasks, ref.Task)
	}

	columns := domain.SequenceColumns(tasks, cfg.Board.ColumnOrder)
	return &ShowBoardOutput{
		BoardID: cfg.Board.ID,
		Folder:  target,
		Lanes:   domain.GroupLanes(open, columns),
	}, nil
}
