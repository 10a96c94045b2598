package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-policyscan/pkg/selector"
)

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, used, err := loadConfig("", envFileName)
	require.NoError(t, err)

	assert.Empty(t, used)
	assert.Equal(t, "python", cfg.Processor.Command)
	assert.Equal(t, []string{"../python_backend/policy_engine.py"}, cfg.Processor.Args)
	assert.Equal(t, 5*time.Minute, cfg.Processor.Timeout)
	assert.Equal(t, selector.BackendAuto, cfg.Dialog.Backend)
	assert.Equal(t, "Select a policy document", cfg.Dialog.Title)
	assert.True(t, cfg.Dialog.RememberLastDir)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, 2, cfg.Watch.MaxParallel)
	assert.False(t, cfg.Notify.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_FileInWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	content := `processor:
  command: python3
  args: [engine.py, --fast]
  timeout: 45s
dialog:
  backend: zenity
watch:
  max_parallel: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "policyscan.yml"), []byte(content), 0o644))

	cfg, used, err := loadConfig("", envFileName)
	require.NoError(t, err)

	assert.Equal(t, "policyscan.yml", filepath.Base(used))
	assert.Equal(t, "python3", cfg.Processor.Command)
	assert.Equal(t, []string{"engine.py", "--fast"}, cfg.Processor.Args)
	assert.Equal(t, 45*time.Second, cfg.Processor.Timeout)
	assert.Equal(t, selector.BackendZenity, cfg.Dialog.Backend)
	assert.Equal(t, 4, cfg.Watch.MaxParallel)
	// Unset keys keep their defaults.
	assert.Equal(t, "Select a policy document", cfg.Dialog.Title)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("POLICYSCAN_PROCESSOR_TIMEOUT", "90s")
	t.Setenv("POLICYSCAN_PROCESSOR_COMMAND", "python3")
	t.Setenv("POLICYSCAN_NOTIFY_ENABLED", "true")

	cfg, _, err := loadConfig("", envFileName)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Processor.Timeout)
	assert.Equal(t, "python3", cfg.Processor.Command)
	assert.True(t, cfg.Notify.Enabled)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := isolate(t)
	t.Setenv("POLICYSCAN_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("POLICYSCAN_LOG_LEVEL"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POLICYSCAN_LOG_LEVEL=debug\n"), 0o644))

	cfg, _, err := loadConfig("", envFileName)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("processor:\n  command: node\n"), 0o644))

	cfg, used, err := loadConfig(path, envFileName)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	assert.Equal(t, "node", cfg.Processor.Command)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	dir := isolate(t)

	_, _, err := loadConfig(filepath.Join(dir, "missing.yml"), envFileName)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read configuration")
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{
			name:    "empty command",
			content: "processor:\n  command: \"  \"\n",
			errText: "processor.command is empty",
		},
		{
			name:    "negative timeout",
			content: "processor:\n  timeout: -1s\n",
			errText: "processor.timeout",
		},
		{
			name:    "unknown backend",
			content: "dialog:\n  backend: carrier-pigeon\n",
			errText: "unknown dialog.backend",
		},
		{
			name:    "no parallelism",
			content: "watch:\n  max_parallel: 0\n",
			errText: "watch.max_parallel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "policyscan.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, _, err := loadConfig(path, envFileName)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestInvokerConfig(t *testing.T) {
	cfg := &Config{Processor: ProcessorConfig{
		Command: "python",
		Args:    []string{"engine.py"},
		WorkDir: "/srv",
		Env:     []string{"A=1"},
		Timeout: time.Second,
	}}

	ic := cfg.InvokerConfig()

	assert.Equal(t, "python", ic.Command)
	assert.Equal(t, []string{"engine.py"}, ic.Args)
	assert.Equal(t, "/srv", ic.WorkDir)
	assert.Equal(t, []string{"A=1"}, ic.Env)
	assert.Equal(t, time.Second, ic.Timeout)
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)

	stdout, _, code := execute(t, "config", "path")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "using defaults")

	writeHelperConfig(t, dir, "echo", nil)

	stdout, _, code = execute(t, "config", "path")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "policyscan.yml", filepath.Base(strings.TrimSpace(stdout)))

	stdout, _, code = execute(t, "config", "show")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "processor:")
	assert.Contains(t, stdout, "timeout: 30s")
	assert.Contains(t, stdout, "backend: prompt")
}
