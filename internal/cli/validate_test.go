package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Text(t *testing.T) {
	out, err := executeCommand(t, "validate", filepath.Join("testdata", "app.cue"))
	require.NoError(t, err)
	assert.Contains(t, out, "valid:")
}

func TestValidate_JSON(t *testing.T) {
	out, err := executeCommand(t, "--format", "json", "validate", filepath.Join("testdata", "app.cue"))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var report ValidationReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.True(t, report.Valid)
	assert.Contains(t, report.Types, "app.Main")
	assert.Equal(t, 2, report.Methods)
}

func TestValidate_InvalidUniverse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`universe: types: "app.A": {kind: "enum"}`), 0o644))

	out, err := executeCommand(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error")
}

func TestValidate_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "validate", filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
