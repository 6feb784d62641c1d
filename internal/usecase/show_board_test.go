package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/agile-notes/internal/domain"
	"github.com/runoshun/agile-notes/internal/testutil"
	"github.com/runoshun/agile-notes/internal/usecase"
)

func TestShowBoard_Execute(t *testing.T) {
	// Setup
	notes := testutil.NewMockNoteStore()
	notes.Put("Tasks/FP-1.md", &domain.Task{ID: "FP-1", State: "In Progress"})
	notes.Put("Tasks/FP-2.md", &domain.Task{ID: "FP-2", State: "Backlog"})
	notes.Put("Tasks/FP-3.md", &domain.Task{ID: "FP-3", State: "In Progress"})
	notes.Put("Tasks/Completed/FP-0.md", &domain.Task{ID: "FP-0", State: "Done"})
	notes.Put("Other/X-1.md", &domain.Task{ID: "X-1", State: "To Do"})

	uc := usecase.NewShowBoard(notes, testutil.NewMockConfigLoader())

	// Execute
	out, err := uc.Execute(context.Background(), usecase.ShowBoardInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "FP", out.BoardID)
	assert.Equal(t, "Tasks", out.Folder)
	require.Len(t, out.Lanes, 2)
	assert.Equal(t, "Backlog", out.Lanes[0].State)
	assert.Equal(t, "In Progress", out.Lanes[1].State)
	require.Len(t, out.Lanes[1].Cards, 2)
	assert.Equal(t, "FP-1", out.Lanes[1].Cards[0].Task.ID)
	assert.Equal(t, "FP-3", out.Lanes[1].Cards[1].Task.ID)
}

func TestShowBoard_Execute_ListError(t *testing.T) {
	notes := testutil.NewMockNoteStore()
	notes.ListErr = assert.AnError

	uc := usecase.NewShowBoard(notes, testutil.NewMockConfigLoader())
	_, err := uc.Execute(context.Background(), usecase.ShowBoardInput{})

	assert.ErrorIs(t, err, assert.AnError)
}
