package exec

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-policyscan/pkg/testutil"
)

func TestHelperProcess(t *testing.T) {
	testutil.RunHelperProcess()
}

func helperCommand(mode string, extra ...string) Command {
	name, args, env := testutil.HelperCommand(mode)
	return Command{Name: name, Args: append(args, extra...), Env: env}
}

func TestRealCommandExecutor_Run(t *testing.T) {
	e := &RealCommandExecutor{}

	t.Run("success captures stdout", func(t *testing.T) {
		res, err := e.Run(context.Background(), helperCommand(testutil.ModeEcho, "/tmp/doc.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "ok:/tmp/doc.pdf", string(res.Stdout))
		assert.Empty(t, res.Stderr)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("non-zero exit returns ExecError", func(t *testing.T) {
		res, err := e.Run(context.Background(), helperCommand(testutil.ModeFail))
		require.Error(t, err)

		var execErr *ExecError
		require.True(t, errors.As(err, &execErr))
		assert.Equal(t, 1, execErr.ExitCode)
		assert.Equal(t, "bad format", execErr.Output)

		require.NotNil(t, res)
		assert.Equal(t, "partial", string(res.Stdout))
		assert.Equal(t, "bad format", string(res.Stderr))
	})

	t.Run("missing binary returns StartError", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "no-such-processor")
		res, err := e.Run(context.Background(), Command{Name: missing})
		assert.Nil(t, res)

		var startErr *StartError
		require.True(t, errors.As(err, &startErr))
		assert.Equal(t, missing, startErr.Name)
		assert.NotEmpty(t, startErr.Error())
	})

	t.Run("deadline returns context error", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		_, err := e.Run(ctx, helperCommand(testutil.ModeSleep))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("already cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.Run(ctx, helperCommand(testutil.ModeEcho))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMockCommandExecutor(t *testing.T) {
	m := &MockCommandExecutor{}

	_, err := m.Run(context.Background(), Command{Name: "python", Args: []string{"engine.py", "/tmp/a.pdf"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"python engine.py /tmp/a.pdf"}, m.Recorded())

	path, err := m.LookPath("python")
	require.NoError(t, err)
	assert.Equal(t, "/path/to/python", path)
}
