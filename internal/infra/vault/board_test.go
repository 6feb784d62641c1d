package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/agile-notes/internal/domain"
)

func TestStore_RenderBoard(t *testing.T) {
	// Setup
	root := t.TempDir()
	s := New(root)
	tasks := []*domain.Task{
		newTask("FP-1", "To Do"),
		newTask("FP-2", "Backlog"),
		newTask("FP-3", "To Do"),
		newTask("FP-4", "Unlisted"),
	}
	// FP-3's note was renamed by hand
	writeFile(t, root, "Tasks/Sub/Login bug.md", "---\nid: FP-3\n---\n")
	for _, task := range tasks[:2] {
		_, err := s.SaveNote("Tasks", task)
		require.NoError(t, err)
	}

	// Execute
	changed, err := s.RenderBoard("Tasks", tasks, []string{"Backlog", "To Do"}, "FP")

	// Assert
	require.NoError(t, err)
	assert.True(t, changed)
	want := "---\n\nkanban-plugin: basic\n\n---\n\n" +
		"## Backlog\n\n" +
		"- [ ] [[FP-2]]\n" +
		"\n\n" +
		"## To Do\n\n" +
		"- [ ] [[FP-1]]\n" +
		"- [ ] [[Login bug]]\n" +
		"\n\n%% kanban:settings\n```\n{\"kanban-plugin\":\"basic\"}\n```\n%%\n"
	assert.Equal(t, want, readFile(t, root, "Tasks/FP_Board.md"))

	// Rendering the same board again changes nothing
	changed, err = s.RenderBoard("Tasks", tasks, []string{"Backlog", "To Do"}, "FP")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestStore_RenderBoard_EmptyAndUnsavedNotes(t *testing.T) {
	root := t.TempDir()
	s := New(root, WithNoteName("{{.ID}} {{.Title}}"))

	changed, err := s.RenderBoard("Tasks", nil, nil, "FP/2")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, boardHeader+boardSettings, readFile(t, root, "Tasks/FP-2_Board.md"))

	_, err = s.RenderBoard("Tasks", []*domain.Task{newTask("FP-9", "To Do")}, []string{"To Do"}, "FP")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, root, "Tasks/FP_Board.md"), "- [ ] [[FP-9 Title FP-9]]\n")
}

func TestStore_RenderBoard_InvalidFolder(t *testing.T) {
	_, err := New(t.TempDir()).RenderBoard("/abs", nil, nil, "FP")

	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}
