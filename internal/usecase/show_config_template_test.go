package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/agile-notes/internal/domain"
)

func TestShowConfigTemplate_Execute(t *testing.T) {
	custom := domain.NewDefaultConfig()
	custom.Jira.BaseURL = "acme.atlassian.net"
	custom.Board.ID = "OPS"

	tests := []struct {
		name         string
		input        ShowConfigTemplateInput
		wantContains []string
	}{
		{
			name:  "defaults when config is nil",
			input: ShowConfigTemplateInput{},
			wantContains: []string{
				"[jira]",
				`target_folder = "Tasks"`,
				`id = "FP"`,
			},
		},
		{
			name:  "prefilled from config",
			input: ShowConfigTemplateInput{Config: custom},
			wantContains: []string{
				`base_url = "acme.atlassian.net"`,
				`id = "OPS"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewShowConfigTemplate()
			out, err := uc.Execute(context.Background(), tt.input)

			require.NoError(t, err)
			require.NotNil(t, out)

			for _, want := range tt.wantContains {
				assert.Contains(t, out.Template, want, "template should contain %q", want)
			}
		})
	}
}
