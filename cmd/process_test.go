package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-policyscan/pkg/invoker"
	"github.com/mattsolo1/grove-policyscan/pkg/state"
	"github.com/mattsolo1/grove-policyscan/pkg/testutil"
)

func TestProcessCommand_Success(t *testing.T) {
	dir := isolate(t)
	writeHelperConfig(t, dir, testutil.ModeEcho, nil)

	stdout, _, code := execute(t, "process", "/tmp/doc.pdf")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "ok:/tmp/doc.pdf", stdout)
}

func TestProcessCommand_ExitFailure(t *testing.T) {
	dir := isolate(t)
	writeHelperConfig(t, dir, testutil.ModeFail, nil)

	stdout, stderr, code := execute(t, "process", "/tmp/doc.pdf")

	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "exit status 1")
	assert.Contains(t, stderr, "bad format")
	assert.NotContains(t, stderr, "partial")
}

func TestProcessCommand_Legacy(t *testing.T) {
	tests := []struct {
		name string
		mode string
		want string
		code int
	}{
		{name: "success", mode: testutil.ModeEcho, want: "ok:/tmp/doc.pdf", code: exitOK},
		{name: "exit failure", mode: testutil.ModeFail, want: invoker.ExitFailureMarker + "bad format", code: exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			writeHelperConfig(t, dir, tt.mode, nil)

			stdout, _, code := execute(t, "process", "--legacy", "/tmp/doc.pdf")

			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestProcessCommand_JSON(t *testing.T) {
	dir := isolate(t)
	writeHelperConfig(t, dir, testutil.ModeEcho, nil)

	stdout, _, code := execute(t, "process", "--json", "/tmp/doc.pdf")
	require.Equal(t, exitOK, code)

	var got outcomeJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "succeeded", got.Kind)
	assert.Equal(t, "/tmp/doc.pdf", got.Path)
	assert.Equal(t, "ok:/tmp/doc.pdf", got.Output)
	assert.NotEmpty(t, got.RequestID)
	assert.Empty(t, got.Error)
}

func TestProcessCommand_LaunchFailure(t *testing.T) {
	dir := isolate(t)
	writeHelperConfig(t, dir, testutil.ModeEcho, map[string]any{
		"processor": map[string]any{"command": "policyscan-no-such-processor"},
	})

	stdout, _, code := execute(t, "process", "--legacy", "/tmp/doc.pdf")

	assert.Equal(t, exitLaunchFailed, code)
	assert.Contains(t, stdout, invoker.LaunchFailureMarker)
	assert.Greater(t, len(stdout), len(invoker.LaunchFailureMarker))
}

func TestProcessCommand_TimeoutFlag(t *testing.T) {
	dir := isolate(t)
	writeHelperConfig(t, dir, testutil.ModeSleep, nil)

	_, stderr, code := execute(t, "process", "--timeout", "200ms", "/tmp/doc.pdf")

	assert.Equal(t, exitTimedOut, code)
	assert.Contains(t, stderr, "timed out")
}

func TestProcessCommand_RecordsOutcome(t *testing.T) {
	dir := isolate(t)
	writeHelperConfig(t, dir, testutil.ModeFail, nil)

	_, _, code := execute(t, "process", "/tmp/doc.pdf")
	require.Equal(t, exitFailure, code)

	store, err := state.NewDefaultStore()
	require.NoError(t, err)
	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "exit_failed", st.LastOutcome)
	assert.False(t, st.LastRun.IsZero())
}

func TestProcessCommand_JSONAndLegacyConflict(t *testing.T) {
	dir := isolate(t)
	writeHelperConfig(t, dir, testutil.ModeEcho, nil)

	_, stderr, code := execute(t, "process", "--json", "--legacy", "/tmp/doc.pdf")

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "cannot be used together")
}

func TestProcessCommand_RequiresPath(t *testing.T) {
	isolate(t)

	_, _, code := execute(t, "process")

	assert.Equal(t, exitFailure, code)
}
