package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "full.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{
		ProgramAttribute: "program",
		ContextType:      "Context",
		Mode:             ModeCollectAll,
		Workers:          4,
		Store:            ".anchorix/history.db",
	}, cfg)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "partial.yaml"))
	require.NoError(t, err)

	want := Default()
	want.Mode = ModeCollectAll
	assert.Equal(t, want, cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "empty.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"bad_mode.yaml", `mode "best_effort"`},
		{"typo.yaml", "field worker not found"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", tt.file))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Workers = -1
	assert.ErrorContains(t, cfg.Validate(), "workers must be >= 0")

	cfg = Default()
	cfg.ProgramAttribute = ""
	assert.ErrorContains(t, cfg.Validate(), "program_attribute")
}
