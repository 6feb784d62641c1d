package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/agile-notes/internal/domain"
)

// defaultStatusLimit is the number of runs shown when no limit is given.
const defaultStatusLimit = 10

// ShowStatusInput contains the input for the ShowStatus use case.
type ShowStatusInput struct {
	Limit int // Maximum number of runs; 0 uses the default, negative shows all
}

// ShowStatusOutput contains recent sync runs, newest first.
type ShowStatusOutput struct {
	Runs []domain.SyncRecord
}

// ShowStatus lists the sync run history.
type ShowStatus struct {
	runs domain.RunRecorder
}

// NewShowStatus creates a new ShowStatus use case.
func NewShowStatus(runs domain.RunRecorder) *ShowStatus {
	return &ShowStatus{runs: runs}
}

// Execute returns recent runs.
func (uc *ShowStatus) Execute(_ context.Context, in ShowStatusInput) (*ShowStatusOutput, error) {
	limit := in.Limit
	if limit == 0 {
		limit = defaultStatusLimit
	}

	runs, err := uc.runs.List(limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return &ShowStatusOutput{Runs: runs}, nil
}
