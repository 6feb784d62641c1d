package vault

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/runoshun/agile-notes/internal/domain"
)

const (
	boardHeader   = "---\n\nkanban-plugin: basic\n\n---\n\n"
	boardSettings = "\n\n%% kanban:settings\n```\n{\"kanban-plugin\":\"basic\"}\n```\n%%\n"
)

// RenderBoard writes <folder>/<boardID>_Board.md in Obsidian Kanban basic
// format: one lane per column, one card per task linking to its note.
// Tasks whose state has no column are left off the board.
func (s *Store) RenderBoard(folder string, tasks []*domain.Task, columns []string, boardID string) (bool, error) {
	folder, err := domain.NormalizeFolder(folder)
	if err != nil {
		return false, err
	}

	links := make(map[string]string, len(tasks))
	for _, t := range tasks {
		link, err := s.cardLink(folder, t)
		if err != nil {
			return false, err
		}
		links[t.ID] = link
	}

	content := renderBoard(tasks, columns, links)
	p := path.Join(folder, domain.BoardFileName(boardID))

	existing, err := os.ReadFile(s.abs(p))
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.abs(p)), 0o755); err != nil {
		return false, fmt.Errorf("create folder for %s: %w", p, err)
	}
	if err := writeAtomic(s.abs(p), content, 0o644); err != nil {
		return false, fmt.Errorf("write board %s: %w", p, err)
	}
	return true, nil
}

// cardLink returns the wiki link target for a task: the basename of its
// note, or of the name it would get if it has none yet.
func (s *Store) cardLink(folder string, t *domain.Task) (string, error) {
	p, err := s.FindNote(folder, t.ID)
	if err != nil {
		return "", err
	}
	name := path.Base(p)
	if p == "" {
		name, err = domain.NoteFileName(s.noteName, t)
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSuffix(name, domain.NoteExt), nil
}

func renderBoard(tasks []*domain.Task, columns []string, links map[string]string) []byte {
	var buf bytes.Buffer
	buf.WriteString(boardHeader)

	for i, col := range columns {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString("## " + col + "\n\n")
		for _, t := range tasks {
			if t.State == col {
				buf.WriteString("- [ ] [[" + links[t.ID] + "]]\n")
			}
		}
	}

	buf.WriteString(boardSettings)
	return buf.Bytes()
}
