package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/agile-notes/internal/domain"
	"github.com/runoshun/agile-notes/internal/testutil"
	"github.com/runoshun/agile-notes/internal/usecase"
)

func TestShowStatus_Execute(t *testing.T) {
	runs := &testutil.MockRunRecorder{}
	for i := range 15 {
		runs.Records = append(runs.Records, domain.SyncRecord{RunID: fmt.Sprintf("run-%d", i)})
	}
	uc := usecase.NewShowStatus(runs)

	tests := []struct {
		name      string
		limit     int
		wantLen   int
		wantFirst string
	}{
		{"default limit", 0, 10, "run-14"},
		{"explicit limit", 3, 3, "run-14"},
		{"all", -1, 15, "run-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), usecase.ShowStatusInput{Limit: tt.limit})

			require.NoError(t, err)
			assert.Len(t, out.Runs, tt.wantLen)
			assert.Equal(t, tt.wantFirst, out.Runs[0].RunID)
		})
	}
}

func TestShowStatus_Execute_Error(t *testing.T) {
	uc := usecase.NewShowStatus(&testutil.MockRunRecorder{ListErr: assert.AnError})

	_, err := uc.Execute(context.Background(), usecase.ShowStatusInput{})

	assert.ErrorIs(t, err, assert.AnError)
}
