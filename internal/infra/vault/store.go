// Package vault stores task notes and the Kanban board as markdown files
// inside an Obsidian vault.
package vault

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"text/template"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/runoshun/agile-notes/internal/domain"
)

// Ensure Store implements the vault ports.
var (
	_ domain.NoteStore     = (*Store)(nil)
	_ domain.BoardRenderer = (*Store)(nil)
)

// noteCacheSize bounds the number of parsed notes kept in memory.
const noteCacheSize = 2048

// Store implements domain.NoteStore and domain.BoardRenderer on the file system.
// Notes are identified by the id field of their frontmatter; an index from
// note path to task id is built lazily per folder and kept current on save
// and move.
// Fields are ordered to minimize memory padding.
type Store struct {
	cache    *lru.Cache[string, *domain.Task]
	loadBody func() (*template.Template, error)
	body     *template.Template
	bodyErr  error
	index    map[string]string // note path -> task id
	root     string
	noteName string
	indexed  []string // folders already walked
	bodyOnce sync.Once
	mu       sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithNoteName sets the note file name pattern.
func WithNoteName(pattern string) Option {
	return func(s *Store) { s.noteName = pattern }
}

// WithBodyTemplate sets the note body template.
func WithBodyTemplate(tmpl *template.Template) Option {
	return func(s *Store) {
		if tmpl != nil {
			s.loadBody = func() (*template.Template, error) { return tmpl, nil }
		}
	}
}

// WithNotesConfig applies the note name pattern and body template from the
// notes settings. The template is resolved on first save, so a broken
// template surfaces as a save error.
func WithNotesConfig(cfg domain.NotesConfig) Option {
	return func(s *Store) {
		if cfg.NoteName != "" {
			s.noteName = cfg.NoteName
		}
		s.loadBody = func() (*template.Template, error) {
			return LoadNoteTemplate(s.root, cfg)
		}
	}
}

// New creates a Store for the vault at root.
func New(root string, opts ...Option) *Store {
	cache, err := lru.New[string, *domain.Task](noteCacheSize)
	if err != nil {
		panic(fmt.Sprintf("create note cache: %v", err))
	}
	s := &Store{
		cache: cache,
		loadBody: func() (*template.Template, error) {
			return ParseNoteTemplate("")
		},
		index:    make(map[string]string),
		root:     root,
		noteName: domain.DefaultNoteName,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureFolders creates the folders if they don't exist.
func (s *Store) EnsureFolders(folders ...string) error {
	for _, f := range folders {
		clean, err := domain.NormalizeFolder(f)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(s.abs(clean), 0o755); err != nil {
			return fmt.Errorf("create folder %s: %w", clean, err)
		}
	}
	return nil
}

// SaveNote creates or updates the note for t below folder.
// The file is left untouched when its content would not change.
func (s *Store) SaveNote(folder string, t *domain.Task) (domain.NoteWrite, error) {
	folder, err := domain.NormalizeFolder(folder)
	if err != nil {
		return domain.NoteWrite{}, err
	}
	tmpl, err := s.bodyTemplate()
	if err != nil {
		return domain.NoteWrite{}, err
	}
	body, err := executeTemplate(tmpl, t)
	if err != nil {
		return domain.NoteWrite{}, err
	}
	content, err := renderNote(t, body)
	if err != nil {
		return domain.NoteWrite{}, err
	}

	p, created, err := s.claim(folder, t)
	if err != nil {
		return domain.NoteWrite{}, err
	}
	w := domain.NoteWrite{Path: p, Created: created}

	if !created {
		existing, err := os.ReadFile(s.abs(p))
		if err == nil && bytes.Equal(existing, content) {
			return w, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.abs(p)), 0o755); err != nil {
		s.release(p, created)
		return domain.NoteWrite{}, fmt.Errorf("create folder for %s: %w", p, err)
	}
	if err := writeAtomic(s.abs(p), content, 0o644); err != nil {
		s.release(p, created)
		return domain.NoteWrite{}, fmt.Errorf("write note %s: %w", p, err)
	}
	w.Changed = true
	return w, nil
}

func (s *Store) bodyTemplate() (*template.Template, error) {
	s.bodyOnce.Do(func() {
		s.body, s.bodyErr = s.loadBody()
	})
	return s.body, s.bodyErr
}

// claim returns the note path for t, reserving a new one in the index if the
// task has no note yet.
func (s *Store) claim(folder string, t *domain.Task) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureIndexedLocked(folder); err != nil {
		return "", false, err
	}
	if p := s.lookupLocked(folder, t.ID); p != "" {
		return p, false, nil
	}

	name, err := domain.NoteFileName(s.noteName, t)
	if err != nil {
		return "", false, err
	}
	p := path.Join(folder, name)
	if s.occupiedLocked(p, t.ID) {
		// Another note owns the name; disambiguate with the task id.
		p = path.Join(folder, domain.AlternateNoteName(name, t.ID, 0))
		for i := 2; s.occupiedLocked(p, t.ID); i++ {
			p = path.Join(folder, domain.AlternateNoteName(name, t.ID, i))
		}
	}
	s.index[p] = t.ID
	return p, true, nil
}

// release drops a reservation made by claim after a failed write.
func (s *Store) release(p string, created bool) {
	if !created {
		return
	}
	s.mu.Lock()
	delete(s.index, p)
	s.mu.Unlock()
}

// FindNote returns the path of the note for id below folder, or "".
func (s *Store) FindNote(folder, id string) (string, error) {
	folder, err := domain.NormalizeFolder(folder)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureIndexedLocked(folder); err != nil {
		return "", err
	}
	return s.lookupLocked(folder, id), nil
}

// MoveNote renames a note. The destination must not exist.
func (s *Store) MoveNote(from, to string) error {
	from, err := domain.NormalizeFolder(from)
	if err != nil {
		return err
	}
	to, err = domain.NormalizeFolder(to)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, reserved := s.index[to]; reserved {
		return fmt.Errorf("move %s to %s: %w", from, to, domain.ErrNoteExists)
	}
	if _, err := os.Stat(s.abs(to)); err == nil {
		return fmt.Errorf("move %s to %s: %w", from, to, domain.ErrNoteExists)
	}

	if err := os.MkdirAll(filepath.Dir(s.abs(to)), 0o755); err != nil {
		return fmt.Errorf("create folder for %s: %w", to, err)
	}
	if err := os.Rename(s.abs(from), s.abs(to)); err != nil {
		return fmt.Errorf("move %s to %s: %w", from, to, err)
	}

	if id, ok := s.index[from]; ok {
		delete(s.index, from)
		s.index[to] = id
	}
	return nil
}

// ListNotes returns every task note below folder, sorted by path.
// The folder is always read fresh; parsed notes are cached by path, size
// and modification time.
func (s *Store) ListNotes(folder string) ([]domain.NoteRef, error) {
	folder, err := domain.NormalizeFolder(folder)
	if err != nil {
		return nil, err
	}

	var refs []domain.NoteRef
	err = s.walkNotes(folder, func(p string, t *domain.Task) {
		refs = append(refs, domain.NoteRef{Task: t, Path: p})
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(refs, func(a, b domain.NoteRef) int {
		return strings.Compare(a.Path, b.Path)
	})
	return refs, nil
}

// ensureIndexedLocked walks folder into the index unless it or an ancestor
// has been walked already.
func (s *Store) ensureIndexedLocked(folder string) error {
	for _, f := range s.indexed {
		if under(f, folder) {
			return nil
		}
	}

	err := s.walkNotes(folder, func(p string, t *domain.Task) {
		if _, ok := s.index[p]; !ok {
			s.index[p] = t.ID
		}
	})
	if err != nil {
		return err
	}
	s.indexed = append(s.indexed, folder)
	return nil
}

// lookupLocked returns the indexed note for id below folder.
// A note directly in folder wins over one in a subfolder; ties go to the
// smallest path.
func (s *Store) lookupLocked(folder, id string) string {
	var best string
	for p, pid := range s.index {
		if pid != id || !under(folder, p) {
			continue
		}
		if best == "" || betterMatch(folder, p, best) {
			best = p
		}
	}
	return best
}

func betterMatch(folder, candidate, current string) bool {
	cDirect := path.Dir(candidate) == folder
	bDirect := path.Dir(current) == folder
	if cDirect != bDirect {
		return cDirect
	}
	return candidate < current
}

// occupiedLocked reports whether p belongs to something other than task id.
func (s *Store) occupiedLocked(p, id string) bool {
	if owner, ok := s.index[p]; ok {
		return owner != id
	}
	_, err := os.Stat(s.abs(p))
	return err == nil
}

// walkNotes calls fn for every task note below folder. Hidden directories
// such as .obsidian, .git and .trash are skipped. A missing folder has no notes.
func (s *Store) walkNotes(folder string, fn func(p string, t *domain.Task)) error {
	base := s.abs(folder)
	err := filepath.WalkDir(base, func(fp string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if fp != base && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), domain.NoteExt) {
			return nil
		}

		rel, err := filepath.Rel(s.root, fp)
		if err != nil {
			return err
		}
		p := filepath.ToSlash(rel)
		t, err := s.readNote(p)
		if err != nil {
			return err
		}
		if t != nil {
			fn(p, t)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", folder, err)
	}
	return nil
}

// readNote returns the task stored in the note at p, or nil if the file is
// not a task note. Files with unreadable frontmatter count as non-task notes.
func (s *Store) readNote(p string) (*domain.Task, error) {
	info, err := os.Stat(s.abs(p))
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	key := fmt.Sprintf("%s|%d|%d", p, info.ModTime().UnixNano(), info.Size())
	if t, ok := s.cache.Get(key); ok {
		return t, nil
	}

	content, err := os.ReadFile(s.abs(p))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	t, err := parseNote(content)
	if err != nil {
		t = nil
	}
	s.cache.Add(key, t)
	return t, nil
}

func (s *Store) abs(p string) string {
	if p == "." {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(p))
}

// under reports whether p is folder or lies below it.
func under(folder, p string) bool {
	return folder == "." || p == folder || strings.HasPrefix(p, folder+"/")
}

// writeAtomic writes content to a temp file and renames it over path.
func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, perm); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
