// Package runlog keeps the history of sync runs in a JSON file.
package runlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/runoshun/agile-notes/internal/domain"
)

// MaxRecords is the number of runs kept in the history.
const MaxRecords = 20

// Ensure Store implements domain.RunRecorder.
var _ domain.RunRecorder = (*Store)(nil)

// storeData represents the JSON file structure.
type storeData struct {
	Runs []domain.SyncRecord `json:"runs"`
}

// Store implements domain.RunRecorder using a JSON file.
type Store struct {
	path     string
	lockPath string
	keep     int
}

// New creates a Store on <appDir>/runs.json.
// The file does not need to exist; it will be created on first write.
func New(appDir string) *Store {
	path := domain.RunLogPath(appDir)
	return &Store{
		path:     path,
		lockPath: path + ".lock",
		keep:     MaxRecords,
	}
}

// Record appends a run, dropping the oldest runs beyond MaxRecords.
func (s *Store) Record(rec domain.SyncRecord) error {
	return s.withLockWrite(func(data *storeData) error {
		data.Runs = append(data.Runs, rec)
		if over := len(data.Runs) - s.keep; over > 0 {
			data.Runs = slices.Delete(data.Runs, 0, over)
		}
		return nil
	})
}

// List returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) List(limit int) ([]domain.SyncRecord, error) {
	var runs []domain.SyncRecord
	err := s.withLock(func(data *storeData) error {
		runs = slices.Clone(data.Runs)
		slices.Reverse(runs)
		if limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}
		return nil
	})
	return runs, err
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}
	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(data); err != nil {
		return err
	}
	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read loads the history. A missing file is an empty history.
func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &storeData{}, nil
		}
		return nil, fmt.Errorf("read run history: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse run history: %w", err)
	}
	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run history: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
