package root

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskIDs(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	tests := []struct {
		name    string
		raw     string
		want    []uuid.UUID
		wantErr bool
	}{
		{name: "empty", raw: "  "},
		{name: "single", raw: first.String(), want: []uuid.UUID{first}},
		{
			name: "spaces and trailing comma",
			raw:  " " + first.String() + " , " + second.String() + ",",
			want: []uuid.UUID{first, second},
		},
		{name: "invalid", raw: first.String() + ",nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTaskIDs(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommands_RequireDate(t *testing.T) {
	for _, cmd := range []*cobra.Command{newAssignCmd(), newCreateTasksCmd()} {
		t.Run(cmd.Name(), func(t *testing.T) {
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs([]string{})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), `"date"`)
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printJSON(&out, map[string]int{"created": 2}))
	assert.Equal(t, "{\n  \"created\": 2\n}\n", out.String())
}
