package board

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/agile-notes/internal/domain"
	"github.com/runoshun/agile-notes/internal/usecase"
)

type fakeLoader struct {
	out   *usecase.ShowBoardOutput
	err   error
	calls int
}

func (f *fakeLoader) Execute(_ context.Context, _ usecase.ShowBoardInput) (*usecase.ShowBoardOutput, error) {
	f.calls++
	return f.out, f.err
}

func ref(id, state string) domain.NoteRef {
	return domain.NoteRef{
		Task: &domain.Task{ID: id, State: state, Title: "Title " + id, AssignedTo: "Alice", Desc: "Body of " + id},
		Path: "Tasks/" + id + ".md",
	}
}

func sampleBoard() *usecase.ShowBoardOutput {
	return &usecase.ShowBoardOutput{
		BoardID: "FP",
		Folder:  "Tasks",
		Lanes: []domain.Lane{
			{State: "Backlog", Cards: []domain.NoteRef{ref("FP-1", "Backlog")}},
			{State: "To Do", Cards: []domain.NoteRef{ref("FP-2", "To Do"), ref("FP-3", "To Do")}},
			{State: "In Progress"},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loaded returns a model that has received the sample board.
func loaded(t *testing.T) (*Model, *fakeLoader) {
	t.Helper()
	loader := &fakeLoader{out: sampleBoard()}
	m := New(loader)

	msg := m.Init()()
	_, _ = m.Update(msg)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	require.NotNil(t, m.board)
	return m, loader
}

func press(m *Model, msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestModel_Navigation(t *testing.T) {
	m, _ := loaded(t)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "FP-1", sel.Task.ID)

	press(m, runes("l"), runes("j"))
	sel, _ = m.Selected()
	assert.Equal(t, "FP-3", sel.Task.ID)

	// Moving down past the last card stays put
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	sel, _ = m.Selected()
	assert.Equal(t, "FP-3", sel.Task.ID)

	press(m, runes("k"))
	sel, _ = m.Selected()
	assert.Equal(t, "FP-2", sel.Task.ID)

	// An empty lane has no selection; moving back clamps the card
	press(m, tea.KeyMsg{Type: tea.KeyRight}, runes("l"))
	assert.Equal(t, 2, m.lane)
	_, ok = m.Selected()
	assert.False(t, ok)

	press(m, runes("h"), runes("h"), runes("h"))
	assert.Equal(t, 0, m.lane)
	sel, _ = m.Selected()
	assert.Equal(t, "FP-1", sel.Task.ID)
}

func TestModel_DetailPane(t *testing.T) {
	m, _ := loaded(t)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.showDetail)
	view := m.View()
	assert.Contains(t, view, "Assignee: Alice")
	assert.Contains(t, view, "Body of FP-1")
	assert.Contains(t, view, "Tasks/FP-1.md")

	// Switching lanes follows the selection
	press(m, runes("l"))
	assert.Contains(t, m.View(), "Body of FP-2")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showDetail)
	assert.NotContains(t, m.View(), "Body of FP-2")

	// Enter on an empty lane does nothing
	press(m, runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.showDetail)
}

func TestModel_LaneMoveWithClosedDetail(t *testing.T) {
	m, _ := loaded(t)

	press(m, runes("l"), runes("l"), runes("h"))

	assert.False(t, m.showDetail)
	assert.NotContains(t, m.detail.View(), "Body of FP-2")

	// Opening the pane renders the current selection
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.detail.View(), "Body of FP-2")
}

func TestModel_ReloadAndQuit(t *testing.T) {
	m, loader := loaded(t)
	press(m, runes("l"), runes("j"))

	// The reloaded board has fewer cards; the cursor is clamped
	loader.out = &usecase.ShowBoardOutput{
		BoardID: "FP",
		Folder:  "Tasks",
		Lanes:   []domain.Lane{{State: "Backlog", Cards: []domain.NoteRef{ref("FP-1", "Backlog")}}},
	}
	cmd := press(m, runes("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	_, _ = m.Update(cmd())

	assert.Equal(t, 2, loader.calls)
	assert.False(t, m.loading)
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "FP-1", sel.Task.ID)

	cmd = press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_LoadError(t *testing.T) {
	m := New(&fakeLoader{err: errors.New("load config: boom")})
	_, _ = m.Update(m.Init()())
	_, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()

	assert.Contains(t, view, "Error: load config: boom")
	assert.Contains(t, view, "q quit")
}

func TestModel_View(t *testing.T) {
	m := New(&fakeLoader{out: sampleBoard()})
	assert.Equal(t, "Loading...", m.View())

	m, _ = loaded(t)
	view := m.View()

	assert.Contains(t, view, "Board FP")
	assert.Contains(t, view, "Tasks · 3 lanes · 3 tasks")
	assert.Contains(t, view, "Backlog (1)")
	assert.Contains(t, view, "To Do (2)")
	assert.Contains(t, view, "Title FP-3")
}

func TestModel_View_ScrollsToFocusedLane(t *testing.T) {
	m, _ := loaded(t)
	_, _ = m.Update(tea.WindowSizeMsg{Width: minLaneWidth, Height: 40})

	assert.Contains(t, m.View(), "Backlog (1)")

	press(m, runes("l"), runes("l"))
	view := m.View()
	assert.Contains(t, view, "In Progress (0)")
	assert.NotContains(t, view, "Backlog (1)")
}

func TestRender(t *testing.T) {
	out := Render(sampleBoard(), 120)

	assert.Contains(t, out, "Board FP")
	for _, s := range []string{"Backlog (1)", "To Do (2)", "In Progress (0)", "FP-1", "FP-2", "Title FP-3"} {
		assert.Contains(t, out, s)
	}
	assert.NotContains(t, out, "quit", "static output has no help line")
}

func TestRender_WrapsLanes(t *testing.T) {
	out := Render(sampleBoard(), minLaneWidth*2+laneGap)

	lines := strings.Split(out, "\n")
	var backlogLine, progressLine int
	for i, line := range lines {
		if strings.Contains(line, "Backlog (1)") {
			backlogLine = i
		}
		if strings.Contains(line, "In Progress (0)") {
			progressLine = i
		}
	}
	assert.Greater(t, progressLine, backlogLine, "third lane starts a new row")
}

func TestRender_Empty(t *testing.T) {
	out := Render(&usecase.ShowBoardOutput{BoardID: "FP", Folder: "Tasks"}, 80)

	assert.Contains(t, out, "No task notes in Tasks")
}

func TestLaneLayout(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		lanes      int
		wantPerRow int
		wantWidth  int
	}{
		{"unbounded", 0, 5, 5, defaultLaneWidth},
		{"all fit", 100, 3, 3, 32},
		{"narrow", 10, 3, 1, minLaneWidth},
		{"two per row", minLaneWidth*2 + laneGap, 3, 2, minLaneWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perRow, width := laneLayout(tt.width, tt.lanes)
			assert.Equal(t, tt.wantPerRow, perRow)
			assert.Equal(t, tt.wantWidth, width)
		})
	}
}
