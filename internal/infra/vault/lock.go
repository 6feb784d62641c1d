package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/agile-notes/internal/domain"
)

// Ensure RunLock implements domain.RunLocker.
var _ domain.RunLocker = (*RunLock)(nil)

// RunLock is an exclusive flock on a lock file shared by all processes
// syncing the same vault.
type RunLock struct {
	path string
}

// NewRunLock creates a RunLock on <appDir>/sync.lock.
func NewRunLock(appDir string) *RunLock {
	return &RunLock{path: domain.SyncLockPath(appDir)}
}

// Lock blocks until the lock is held.
func (l *RunLock) Lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(lock.Fd()), syscall.LOCK_EX); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return func() {
		_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
		_ = lock.Close()
	}, nil
}
