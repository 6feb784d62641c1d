package vaultgit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/agile-notes/internal/domain"
	"github.com/runoshun/agile-notes/internal/testutil"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func newCommitter(root string) *Committer {
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return New(root, domain.GitConfig{AuthorName: "Sync Bot", AuthorEmail: "bot@acme.io"}, clock)
}

func TestCommitter_Commit(t *testing.T) {
	// Setup
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	writeFile(t, root, "Tasks/FP-1.md", "---\nid: FP-1\n---\n")
	writeFile(t, root, ".agile-notes/runs.json", "{}")
	c := newCommitter(root)

	// Execute
	committed, err := c.Commit("agile-notes: sync 1 tasks")

	// Assert
	require.NoError(t, err)
	assert.True(t, committed)

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "agile-notes: sync 1 tasks", commit.Message)
	assert.Equal(t, "Sync Bot", commit.Author.Name)
	assert.Equal(t, "bot@acme.io", commit.Author.Email)

	tree, err := commit.Tree()
	require.NoError(t, err)
	_, err = tree.File("Tasks/FP-1.md")
	assert.NoError(t, err)
	_, err = tree.File(".agile-notes/runs.json")
	assert.Error(t, err, "tool state is not committed")
}

func TestCommitter_Commit_Clean(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	writeFile(t, root, "Tasks/FP-1.md", "one")
	c := newCommitter(root)

	committed, err := c.Commit("first")
	require.NoError(t, err)
	require.True(t, committed)

	committed, err = c.Commit("second")
	require.NoError(t, err)
	assert.False(t, committed)

	// Deletions are staged too
	require.NoError(t, os.Remove(filepath.Join(root, "Tasks", "FP-1.md")))
	committed, err = c.Commit("third")
	require.NoError(t, err)
	assert.True(t, committed)
}

func TestCommitter_Commit_VaultInSubdirectory(t *testing.T) {
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	vault := filepath.Join(root, "notes")
	writeFile(t, vault, "Tasks/FP-1.md", "one")

	committed, err := newCommitter(vault).Commit("sync")

	require.NoError(t, err)
	assert.True(t, committed)
}

func TestCommitter_Commit_NotGitRepository(t *testing.T) {
	_, err := newCommitter(t.TempDir()).Commit("sync")

	assert.ErrorIs(t, err, domain.ErrNotGitRepository)
}

func TestNew_DefaultAuthor(t *testing.T) {
	c := New("/vault", domain.GitConfig{}, domain.RealClock{})

	assert.Equal(t, domain.DefaultAuthorName, c.authorName)
	assert.Equal(t, domain.DefaultAuthorEmail, c.authorEmail)
}
