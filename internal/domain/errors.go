package domain

import "errors"

// Domain errors.
var (
	ErrNotConfigured     = errors.New("jira connection not configured (set jira.base_url, jira.email and jira.api_token)")
	ErrRemote            = errors.New("remote tracker request failed")
	ErrMalformedPayload  = errors.New("malformed remote payload")
	ErrInvalidPath       = errors.New("path escapes the vault")
	ErrNoteExists        = errors.New("a different note already exists at the destination")
	ErrConfigExists      = errors.New("config file already exists")
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrNotGitRepository  = errors.New("vault is not a git repository")
	ErrSyncPanicked      = errors.New("sync panicked")
	ErrInvalidConfigType = errors.New("invalid config value type")
)
