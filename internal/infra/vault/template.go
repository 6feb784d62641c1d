package vault

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/runoshun/agile-notes/internal/domain"
)

//go:embed note_template.md
var defaultNoteTemplate string

// DefaultNoteTemplate returns the body template used when none is configured.
func DefaultNoteTemplate() string {
	return defaultNoteTemplate
}

// ParseNoteTemplate parses a note body template over domain.Task.
// An empty text selects the default template.
func ParseNoteTemplate(text string) (*template.Template, error) {
	if strings.TrimSpace(text) == "" {
		text = defaultNoteTemplate
	}
	tmpl, err := template.New("note").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse note template: %w: %v", domain.ErrInvalidTemplate, err)
	}
	return tmpl, nil
}

// LoadNoteTemplate resolves the body template from notes settings.
// An inline template wins over template_file; a relative file is resolved
// against the vault root.
func LoadNoteTemplate(vaultRoot string, cfg domain.NotesConfig) (*template.Template, error) {
	if cfg.Template != "" || cfg.TemplateFile == "" {
		return ParseNoteTemplate(cfg.Template)
	}

	p := cfg.TemplateFile
	if !filepath.IsAbs(p) {
		p = filepath.Join(vaultRoot, filepath.FromSlash(p))
	}
	content, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read note template: %w", err)
	}
	return ParseNoteTemplate(string(content))
}

func executeTemplate(tmpl *template.Template, t *domain.Task) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, t); err != nil {
		return "", fmt.Errorf("render note %s: %w: %v", t.ID, domain.ErrInvalidTemplate, err)
	}
	return buf.String(), nil
}
