package domain

import (
	"errors"
	"time"
)

// SyncStage names the step a sync run was in.
type SyncStage string

// Sync stages in execution order.
const (
	StageConfigure SyncStage = "configure"
	StageFolders   SyncStage = "folders"
	StageQuery     SyncStage = "query"
	StageMap       SyncStage = "map"
	StagePersist   SyncStage = "persist"
	StageRelocate  SyncStage = "relocate"
	StageArchive   SyncStage = "archive"
	StageBoard     SyncStage = "board"
	StageCommit    SyncStage = "commit"
	StageDone      SyncStage = "done"
)

// FailureKind classifies why a run failed.
type FailureKind string

// Failure kinds.
const (
	FailureNone    FailureKind = ""
	FailureConfig  FailureKind = "config"  // Missing or invalid settings
	FailureRemote  FailureKind = "remote"  // Authentication or network failure
	FailurePayload FailureKind = "payload" // Unexpected remote response shape
	FailureLocal   FailureKind = "local"   // Vault I/O failure
)

// ClassifyFailure maps an error onto a failure kind.
func ClassifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrInvalidConfigType),
		errors.Is(err, ErrInvalidTemplate), errors.Is(err, ErrInvalidPath):
		return FailureConfig
	case errors.Is(err, ErrRemote):
		return FailureRemote
	case errors.Is(err, ErrMalformedPayload):
		return FailurePayload
	default:
		return FailureLocal
	}
}

// SyncResult is the outcome of one sync run. A failed run keeps whatever
// it already wrote; Stage tells how far it got.
// Fields are ordered to minimize memory padding.
type SyncResult struct {
	Started      time.Time
	Finished     time.Time
	Err          error
	RunID        string
	Stage        SyncStage
	Kind         FailureKind
	Tasks        []*Task  // Active task set
	Columns      []string // Board lane order
	Fetched      int      // Issues returned by the tracker
	Written      int      // Notes created or rewritten
	Unchanged    int      // Notes already up to date
	Moved        int      // Notes relocated into the target folder
	Archived     int      // Notes moved to the completed folder
	DryRun       bool
	BoardChanged bool
	Committed    bool
}

// OK reports whether the run finished without error.
func (r *SyncResult) OK() bool {
	return r.Err == nil
}

// Fail records err as the run failure.
func (r *SyncResult) Fail(err error) {
	r.Err = err
	r.Kind = ClassifyFailure(err)
}

// Record converts the result into its persisted form.
func (r *SyncResult) Record() SyncRecord {
	rec := SyncRecord{
		RunID:     r.RunID,
		Started:   r.Started,
		Finished:  r.Finished,
		Stage:     r.Stage,
		Kind:      r.Kind,
		Fetched:   r.Fetched,
		Active:    len(r.Tasks),
		Written:   r.Written,
		Unchanged: r.Unchanged,
		Moved:     r.Moved,
		Archived:  r.Archived,
		Columns:   r.Columns,
		Committed: r.Committed,
	}
	if r.Err != nil {
		rec.Error = r.Err.Error()
	}
	return rec
}

// SyncRecord is a sync result as stored in the run history.
type SyncRecord struct {
	Started   time.Time   `json:"started"`
	Finished  time.Time   `json:"finished"`
	RunID     string      `json:"run_id"`
	Stage     SyncStage   `json:"stage"`
	Kind      FailureKind `json:"kind,omitempty"`
	Error     string      `json:"error,omitempty"`
	Columns   []string    `json:"columns,omitempty"`
	Fetched   int         `json:"fetched"`
	Active    int         `json:"active"`
	Written   int         `json:"written"`
	Unchanged int         `json:"unchanged"`
	Moved     int         `json:"moved"`
	Archived  int         `json:"archived"`
	Committed bool        `json:"committed,omitempty"`
}

// Duration returns how long the run took.
func (r SyncRecord) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
