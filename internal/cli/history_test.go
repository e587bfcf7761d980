package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedHistory records the given fixtures into a fresh database.
func seedHistory(t *testing.T, fixtures ...string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	for _, f := range fixtures {
		_, err := executeParse(t, "text", srcFixture(f), "--store", dbPath)
		require.NoError(t, err)
	}
	return dbPath
}

func executeHistory(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewHistoryCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHistory_Text(t *testing.T) {
	dbPath := seedHistory(t, "counter.rs", "multi.rs")

	out, err := executeHistory(t, "text", dbPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"SEQ", "PROGRAM", "INSTRUCTIONS", "HASH", "SOURCE"}, strings.Fields(lines[0]))

	row := strings.Fields(lines[1])
	require.Len(t, row, 5)
	assert.Equal(t, "1", row[0])
	assert.Equal(t, "counter", row[1])
	assert.Equal(t, "2", row[2])
	assert.Len(t, row[3], hashPrefixLen)
	assert.Equal(t, srcFixture("counter.rs"), row[4])

	assert.Equal(t, "vault", strings.Fields(lines[2])[1])
	assert.Equal(t, "registry", strings.Fields(lines[3])[1])
}

func TestHistory_FilterJSON(t *testing.T) {
	dbPath := seedHistory(t, "counter.rs", "multi.rs")

	out, err := executeHistory(t, "json", dbPath, "registry")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "registry", resp.Data.Program)
	require.Len(t, resp.Data.Scans, 1)
	assert.Equal(t, int64(3), resp.Data.Scans[0].Seq)
	assert.Equal(t, 1, resp.Data.Scans[0].Instructions)
	assert.Len(t, resp.Data.Scans[0].ProgramHash, 64)
}

func TestHistory_Empty(t *testing.T) {
	dbPath := seedHistory(t, "counter.rs")

	out, err := executeHistory(t, "text", dbPath, "vault")
	require.NoError(t, err)
	assert.Equal(t, "No scans recorded for vault.\n", out)
}

func TestHistory_MissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")

	out, err := executeHistory(t, "text", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
	assert.NoFileExists(t, dbPath)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef"))
}
