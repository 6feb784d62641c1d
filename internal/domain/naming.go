package domain

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

// File and directory names used inside a vault.
const (
	AppDirName          = ".agile-notes"
	ConfigFileName      = "config.toml"
	CompletedFolderName = "Completed"
	NoteExt             = ".md"
)

// AppDir returns the directory holding tool state inside a vault.
func AppDir(vaultRoot string) string {
	return filepath.Join(vaultRoot, AppDirName)
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "agile-notes")
}

// LogPath returns the path to the sync log file.
func LogPath(appDir string) string {
	return filepath.Join(appDir, "logs", "sync.log")
}

// RunLogPath returns the path to the run history file.
func RunLogPath(appDir string) string {
	return filepath.Join(appDir, "runs.json")
}

// SyncLockPath returns the path to the lock file held during a sync run.
func SyncLockPath(appDir string) string {
	return filepath.Join(appDir, "sync.lock")
}

// CompletedFolder returns the archive folder below a target folder.
func CompletedFolder(target string) string {
	return path.Join(target, CompletedFolderName)
}

// BoardFileName returns the file name of the Kanban board for boardID.
func BoardFileName(boardID string) string {
	return SanitizeFileName(boardID) + "_Board" + NoteExt
}

// NormalizeFolder cleans a vault-relative folder path into slash form.
// The vault root is ".". Absolute paths and paths leaving the vault are rejected.
func NormalizeFolder(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return "", fmt.Errorf("%q: %w", p, ErrInvalidPath)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%q: %w", p, ErrInvalidPath)
	}
	return clean, nil
}

// NoteFileName renders the note name pattern for a task and returns a
// sanitized file name with the note extension.
// The pattern is a text/template over Task, e.g. "{{.ID}} {{.Title}}".
func NoteFileName(pattern string, t *Task) (string, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = "{{.ID}}"
	}
	tmpl, err := template.New("note_name").Option("missingkey=error").Parse(pattern)
	if err != nil {
		return "", fmt.Errorf("parse note name %q: %w: %v", pattern, ErrInvalidTemplate, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, t); err != nil {
		return "", fmt.Errorf("render note name %q: %w: %v", pattern, ErrInvalidTemplate, err)
	}

	name := SanitizeFileName(buf.String())
	if name == "" {
		name = SanitizeFileName(t.ID)
	}
	if name == "" {
		name = "untitled"
	}
	return name + NoteExt, nil
}

// AlternateNoteName returns the name used when the note file name of task id
// is taken by another note: "<stem> <id>.md", or "<stem> <id> <n>.md" for n >= 2.
func AlternateNoteName(name, id string, n int) string {
	stem := strings.TrimSuffix(name, NoteExt) + " " + SanitizeFileName(id)
	if n >= 2 {
		stem = fmt.Sprintf("%s %d", stem, n)
	}
	return stem + NoteExt
}

// fileNameReplacer drops characters that are invalid in file names or that
// break wiki links.
var fileNameReplacer = strings.NewReplacer(
	"/", "-", `\`, "-", ":", "-", "*", "-", "?", "-", `"`, "'",
	"<", "-", ">", "-", "|", "-", "#", "-", "^", "-", "[", "(", "]", ")",
	"\n", " ", "\r", " ", "\t", " ",
)

// SanitizeFileName makes name safe to use as a note file name.
func SanitizeFileName(name string) string {
	name = fileNameReplacer.Replace(name)
	return strings.Trim(name, " .")
}
