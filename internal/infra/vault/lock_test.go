package vault

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tryFlock reports whether an independent open of path can take the lock.
func tryFlock(t *testing.T, path string) bool {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		return false
	}
	_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	return true
}

func TestRunLock(t *testing.T) {
	appDir := filepath.Join(t.TempDir(), ".agile-notes")
	l := NewRunLock(appDir)

	unlock, err := l.Lock()
	require.NoError(t, err)
	lockPath := filepath.Join(appDir, "sync.lock")
	assert.FileExists(t, lockPath)
	assert.False(t, tryFlock(t, lockPath), "lock is held")

	unlock()
	assert.True(t, tryFlock(t, lockPath), "lock is released")
}
