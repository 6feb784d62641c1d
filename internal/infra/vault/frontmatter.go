package vault

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/agile-notes/internal/domain"
)

const frontmatterDelim = "---"

// noteFrontmatter is the YAML header of a task note.
// id is the join key back to the remote issue.
type noteFrontmatter struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	State    string `yaml:"state"`
	Type     string `yaml:"type"`
	Assignee string `yaml:"assignee"`
	Sprint   string `yaml:"sprint"`
	Link     string `yaml:"link"`
}

// renderNote returns the full note content: frontmatter, blank line, body.
func renderNote(t *domain.Task, body string) ([]byte, error) {
	fm := noteFrontmatter{
		ID:       t.ID,
		Title:    t.Title,
		State:    t.State,
		Type:     t.Type,
		Assignee: t.AssignedTo,
		Sprint:   t.SprintName,
		Link:     t.Link,
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelim + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString(frontmatterDelim + "\n\n")

	body = strings.TrimRight(body, "\n")
	if body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// splitFrontmatter separates the YAML header from the body.
// ok is false when content does not start with a frontmatter block.
func splitFrontmatter(content string) (header, body string, ok bool) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, frontmatterDelim+"\n") {
		return "", "", false
	}
	rest := content[len(frontmatterDelim)+1:]

	// The header may be empty, in which case the closing delimiter comes first.
	if strings.HasPrefix(rest, frontmatterDelim+"\n") || rest == frontmatterDelim {
		return "", strings.TrimPrefix(rest[len(frontmatterDelim):], "\n"), true
	}
	end := strings.Index(rest, "\n"+frontmatterDelim+"\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n"+frontmatterDelim) {
			return rest[:len(rest)-len(frontmatterDelim)-1], "", true
		}
		return "", "", false
	}
	return rest[:end], rest[end+len(frontmatterDelim)+2:], true
}

// parseNote reads a task back from note content.
// Returns nil for files that are not task notes.
func parseNote(content []byte) (*domain.Task, error) {
	header, body, ok := splitFrontmatter(string(content))
	if !ok {
		return nil, nil
	}

	var fm noteFrontmatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if strings.TrimSpace(fm.ID) == "" {
		return nil, nil
	}

	return &domain.Task{
		ID:         fm.ID,
		State:      fm.State,
		Title:      fm.Title,
		Type:       fm.Type,
		AssignedTo: fm.Assignee,
		Link:       fm.Link,
		Desc:       strings.TrimSpace(body),
		SprintName: fm.Sprint,
	}, nil
}
