package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/agile-notes/internal/domain"
	"github.com/runoshun/agile-notes/internal/usecase"
)

const (
	minLaneWidth     = 22
	defaultLaneWidth = 28
	laneGap          = 1
	// laneChrome is the border plus horizontal padding of a lane.
	laneChrome = 4
)

// View renders the viewer.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.board == nil:
		b.WriteString(m.styles.Empty.Render("Loading board..."))
		b.WriteString("\n")
	default:
		b.WriteString(header(m.styles, m.board, m.loading))
		b.WriteString(m.viewLanes())
		b.WriteString("\n")
	}

	if m.showDetail {
		b.WriteString(m.styles.Detail.Render(m.detail.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(helpLine(m.keys)))
	return b.String()
}

// viewLanes renders the lanes that fit the width, scrolled so the focused
// lane is visible.
func (m *Model) viewLanes() string {
	lanes := m.lanes()
	if len(lanes) == 0 {
		return m.styles.Empty.Render("No task notes in " + m.board.Folder)
	}

	perRow, width := laneLayout(m.width, len(lanes))
	first := 0
	if m.lane >= perRow {
		first = m.lane - perRow + 1
	}
	last := min(first+perRow, len(lanes))

	rendered := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		selected := -1
		if i == m.lane {
			selected = m.card
		}
		rendered = append(rendered, renderLane(m.styles, lanes[i], width, i == m.lane, selected))
	}
	return joinLanes(rendered)
}

// Render returns a static view of the board for non-interactive output.
// Lanes that do not fit the width continue on further rows. A width of 0
// or less puts every lane on one row.
func Render(board *usecase.ShowBoardOutput, width int) string {
	styles := DefaultStyles()

	var b strings.Builder
	b.WriteString(header(styles, board, false))
	if len(board.Lanes) == 0 {
		b.WriteString(styles.Empty.Render("No task notes in " + board.Folder))
		b.WriteString("\n")
		return b.String()
	}

	perRow, laneWidth := laneLayout(width, len(board.Lanes))
	for start := 0; start < len(board.Lanes); start += perRow {
		end := min(start+perRow, len(board.Lanes))
		rendered := make([]string, 0, end-start)
		for _, lane := range board.Lanes[start:end] {
			rendered = append(rendered, renderLane(styles, lane, laneWidth, false, -1))
		}
		b.WriteString(joinLanes(rendered))
		b.WriteString("\n")
	}
	return b.String()
}

func header(styles Styles, board *usecase.ShowBoardOutput, loading bool) string {
	cards := 0
	for _, lane := range board.Lanes {
		cards += len(lane.Cards)
	}
	sub := fmt.Sprintf("%s · %d lanes · %d tasks", board.Folder, len(board.Lanes), cards)
	if loading {
		sub += " · reloading"
	}
	return styles.Title.Render("Board "+board.BoardID) + "\n" + styles.Subtitle.Render(sub) + "\n"
}

// laneLayout returns how many lanes fit in one row and the width of each.
func laneLayout(width, lanes int) (perRow, laneWidth int) {
	if width <= 0 {
		return lanes, defaultLaneWidth
	}
	perRow = (width + laneGap) / (minLaneWidth + laneGap)
	perRow = max(min(perRow, lanes), 1)
	laneWidth = max((width-laneGap*(perRow-1))/perRow, minLaneWidth)
	return perRow, laneWidth
}

func renderLane(styles Styles, lane domain.Lane, width int, focused bool, selected int) string {
	inner := width - laneChrome

	var b strings.Builder
	b.WriteString(styles.LaneTitle.Width(inner).Render(fmt.Sprintf("%s (%d)", lane.State, len(lane.Cards))))
	for i, ref := range lane.Cards {
		style := styles.Card
		if i == selected {
			style = styles.CardSelected
		}
		b.WriteString("\n")
		b.WriteString(style.Width(inner).Render(styles.CardID.Render(ref.Task.ID) + "\n" + ref.Task.Title))
	}

	laneStyle := styles.Lane
	if focused {
		laneStyle = styles.LaneFocused
	}
	return laneStyle.Width(width - 2).Render(b.String())
}

func joinLanes(rendered []string) string {
	parts := make([]string, 0, len(rendered)*2)
	gap := strings.Repeat(" ", laneGap)
	for i, r := range rendered {
		if i > 0 {
			parts = append(parts, gap)
		}
		parts = append(parts, r)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderDetail(ref domain.NoteRef, width int) string {
	t := ref.Task
	lines := []string{
		t.ID + "  " + t.Title,
		"",
		"State:    " + t.State,
		"Type:     " + t.Type,
		"Assignee: " + t.AssignedTo,
		"Sprint:   " + t.SprintName,
		"Link:     " + t.Link,
		"Note:     " + ref.Path,
	}
	if t.Desc != "" {
		lines = append(lines, "", t.Desc)
	}
	content := strings.Join(lines, "\n")
	if width > 0 {
		content = lipgloss.NewStyle().Width(width).Render(content)
	}
	return content
}

func helpLine(k KeyMap) string {
	bindings := k.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
