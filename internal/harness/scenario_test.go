package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/anchorix/internal/config"
)

// writeScenario writes a scenario next to an empty source file and returns
// its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.rs"), nil, 0644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "counter_basic.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "counter_basic", scenario.Name)
	assert.Equal(t, filepath.Join("testdata", "src", "counter.rs"), scenario.Source)
	assert.Equal(t, config.Mode(""), scenario.Mode)
	require.Len(t, scenario.Assertions, 4)
	assert.Equal(t, []string{"start"}, scenario.Assertions[1].Args)
	assert.NotNil(t, scenario.Assertions[2].Args)
	assert.Empty(t, scenario.Assertions[2].Args)
	assert.Equal(t, []string{"initialize", "increment"}, scenario.Assertions[3].Names)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing name",
			content: "description: d\nsource: lib.rs\nassertions:\n  - type: program_count\n",
			want:    "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nsource: lib.rs\nassertions:\n  - type: program_count\n",
			want:    "description is required",
		},
		{
			name:    "missing source",
			content: "name: n\ndescription: d\nassertions:\n  - type: program_count\n",
			want:    "source is required",
		},
		{
			name:    "source not found",
			content: "name: n\ndescription: d\nsource: nope.rs\nassertions:\n  - type: program_count\n",
			want:    "source file not found",
		},
		{
			name:    "bad mode",
			content: "name: n\ndescription: d\nsource: lib.rs\nmode: lenient\nassertions:\n  - type: program_count\n",
			want:    `mode "lenient"`,
		},
		{
			name:    "no assertions",
			content: "name: n\ndescription: d\nsource: lib.rs\n",
			want:    "assertions list is required",
		},
		{
			name:    "unknown assertion type",
			content: "name: n\ndescription: d\nsource: lib.rs\nassertions:\n  - type: trace_contains\n",
			want:    `unknown type "trace_contains"`,
		},
		{
			name:    "instruction without name",
			content: "name: n\ndescription: d\nsource: lib.rs\nassertions:\n  - type: instruction\n    program: p\n",
			want:    "program and name are required",
		},
		{
			name:    "diagnostic without kind",
			content: "name: n\ndescription: d\nsource: lib.rs\nassertions:\n  - type: diagnostic\n    field: f\n",
			want:    "field and kind are required",
		},
		{
			name:    "unknown field",
			content: "name: n\ndescription: d\nsource: lib.rs\nassertion:\n  - type: program_count\n",
			want:    "field assertion not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
