// Package board provides the interactive Kanban board viewer.
package board

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/agile-notes/internal/domain"
	"github.com/runoshun/agile-notes/internal/usecase"
)

// Loader reads the board from the vault.
type Loader interface {
	Execute(ctx context.Context, in usecase.ShowBoardInput) (*usecase.ShowBoardOutput, error)
}

// Model is the board viewer model.
// Fields are ordered to minimize memory padding.
type Model struct {
	// Dependencies
	loader Loader

	// State
	board *usecase.ShowBoardOutput
	err   error

	// Components
	keys   KeyMap
	styles Styles
	detail viewport.Model

	// Numeric state
	lane   int
	card   int
	width  int
	height int

	// Boolean state
	showDetail bool
	loading    bool
}

// New creates a board viewer reading lanes through loader.
func New(loader Loader) *Model {
	return &Model{
		loader:  loader,
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
		detail:  viewport.New(0, 0),
		loading: true,
	}
}

// Init starts loading the board.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		out, err := m.loader.Execute(context.Background(), usecase.ShowBoardInput{})
		return MsgBoardLoaded{Board: out, Err: err}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeDetail()
		return m, nil

	case MsgBoardLoaded:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.board = msg.Board
		}
		m.clampCursor()
		if m.showDetail {
			m.refreshDetail()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.load()

	case m.showDetail && (key.Matches(msg, m.keys.Detail) || key.Matches(msg, m.keys.Close)):
		m.showDetail = false
		return m, nil

	case m.showDetail && (key.Matches(msg, m.keys.Up) || key.Matches(msg, m.keys.Down)):
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.Selected(); ok {
			m.showDetail = true
			m.resizeDetail()
			m.refreshDetail()
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.lane > 0 {
			m.lane--
			m.clampCursor()
			if m.showDetail {
				m.refreshDetail()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.lane < len(m.lanes())-1 {
			m.lane++
			m.clampCursor()
			if m.showDetail {
				m.refreshDetail()
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.card > 0 {
			m.card--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		lanes := m.lanes()
		if m.lane < len(lanes) && m.card < len(lanes[m.lane].Cards)-1 {
			m.card++
		}
		return m, nil
	}

	return m, nil
}

// Selected returns the card under the cursor.
func (m *Model) Selected() (domain.NoteRef, bool) {
	lanes := m.lanes()
	if m.lane >= len(lanes) {
		return domain.NoteRef{}, false
	}
	cards := lanes[m.lane].Cards
	if m.card >= len(cards) {
		return domain.NoteRef{}, false
	}
	return cards[m.card], true
}

func (m *Model) lanes() []domain.Lane {
	if m.board == nil {
		return nil
	}
	return m.board.Lanes
}

// clampCursor keeps the cursor on an existing lane and card.
func (m *Model) clampCursor() {
	lanes := m.lanes()
	m.lane = min(m.lane, max(len(lanes)-1, 0))
	if len(lanes) == 0 {
		m.card = 0
		return
	}
	m.card = min(m.card, max(len(lanes[m.lane].Cards)-1, 0))
}

func (m *Model) resizeDetail() {
	m.detail.Width = max(m.width-4, 0)
	m.detail.Height = max(m.height/2-2, 3)
}

func (m *Model) refreshDetail() {
	ref, ok := m.Selected()
	if !ok {
		m.showDetail = false
		return
	}
	m.detail.SetContent(renderDetail(ref, m.detail.Width))
	m.detail.GotoTop()
}
