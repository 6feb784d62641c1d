// Package vaultgit snapshots vault changes into the git repository holding
// the vault.
package vaultgit

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/runoshun/agile-notes/internal/domain"
)

// Ensure Committer implements domain.VaultCommitter.
var _ domain.VaultCommitter = (*Committer)(nil)

// Committer commits every change in the vault worktree.
// Tool state under the app directory is never committed.
type Committer struct {
	clock       domain.Clock
	vaultRoot   string
	authorName  string
	authorEmail string
}

// New creates a Committer for the vault at vaultRoot.
func New(vaultRoot string, cfg domain.GitConfig, clock domain.Clock) *Committer {
	name := cfg.AuthorName
	if name == "" {
		name = domain.DefaultAuthorName
	}
	email := cfg.AuthorEmail
	if email == "" {
		email = domain.DefaultAuthorEmail
	}
	return &Committer{
		clock:       clock,
		vaultRoot:   vaultRoot,
		authorName:  name,
		authorEmail: email,
	}
}

// Commit stages all changes and commits them.
// Returns false when the worktree is clean.
func (c *Committer) Commit(message string) (bool, error) {
	repo, err := git.PlainOpenWithOptions(c.vaultRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return false, domain.ErrNotGitRepository
		}
		return false, fmt.Errorf("open git repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("open worktree: %w", err)
	}
	wt.Excludes = append(wt.Excludes, gitignore.ParsePattern(domain.AppDirName+"/", nil))

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	if status.IsClean() {
		return false, nil
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return false, fmt.Errorf("git add: %w", err)
	}

	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  c.authorName,
			Email: c.authorEmail,
			When:  c.clock.Now(),
		},
	})
	if err != nil {
		return false, fmt.Errorf("git commit: %w", err)
	}
	return true, nil
}
