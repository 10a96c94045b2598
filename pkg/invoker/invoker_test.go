package invoker

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-policyscan/pkg/exec"
	"github.com/mattsolo1/grove-policyscan/pkg/testutil"
)

func TestHelperProcess(t *testing.T) {
	testutil.RunHelperProcess()
}

func helperInvoker(mode string, opts ...Option) *Invoker {
	name, args, env := testutil.HelperCommand(mode)
	return New(Config{Command: name, Args: args, Env: env}, opts...)
}

func TestInvoke_Success(t *testing.T) {
	out := helperInvoker(testutil.ModeEcho).Invoke(context.Background(), "/tmp/doc.pdf")

	require.Equal(t, Succeeded, out.Kind)
	assert.True(t, out.OK())
	assert.NoError(t, out.Err)
	assert.Equal(t, "ok:/tmp/doc.pdf", out.Stdout)
	assert.Equal(t, "ok:/tmp/doc.pdf", out.String())
	assert.Equal(t, 0, out.ExitCode)
	assert.NotEmpty(t, out.RequestID)
}

func TestInvoke_ExitFailure(t *testing.T) {
	out := helperInvoker(testutil.ModeFail).Invoke(context.Background(), "/tmp/doc.pdf")

	require.Equal(t, ExitFailed, out.Kind)
	assert.Equal(t, 1, out.ExitCode)

	var exitErr *ExitError
	require.True(t, errors.As(out.Err, &exitErr))
	assert.Equal(t, "bad format", exitErr.Stderr)

	s := out.String()
	assert.True(t, strings.HasPrefix(s, ExitFailureMarker))
	assert.Contains(t, s, "bad format")
	assert.NotContains(t, s, "partial")
}

func TestInvoke_LaunchFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-processor")
	out := New(Config{Command: missing}).Invoke(context.Background(), "/tmp/doc.pdf")

	require.Equal(t, LaunchFailed, out.Kind)
	var launchErr *LaunchError
	require.True(t, errors.As(out.Err, &launchErr))
	assert.Equal(t, missing, launchErr.Command)

	s := out.String()
	assert.True(t, strings.HasPrefix(s, LaunchFailureMarker))
	assert.Greater(t, len(s), len(LaunchFailureMarker))
}

func TestInvoke_InvalidUTF8IsReplaced(t *testing.T) {
	out := helperInvoker(testutil.ModeInvalidUTF8).Invoke(context.Background(), "/tmp/a.png")

	require.Equal(t, Succeeded, out.Kind)
	assert.Equal(t, "ok�done", out.Stdout)
}

func TestInvoke_Timeout(t *testing.T) {
	name, args, env := testutil.HelperCommand(testutil.ModeSleep)
	inv := New(Config{Command: name, Args: args, Env: env, Timeout: 200 * time.Millisecond})

	start := time.Now()
	out := inv.Invoke(context.Background(), "/tmp/doc.pdf")

	require.Equal(t, TimedOut, out.Kind)
	assert.ErrorIs(t, out.Err, ErrTimeout)
	assert.True(t, strings.HasPrefix(out.String(), TimeoutMarker))
	assert.Less(t, time.Since(start), 30*time.Second)
}

func TestInvoke_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := helperInvoker(testutil.ModeEcho).Invoke(ctx, "/tmp/doc.pdf")

	require.Equal(t, Canceled, out.Kind)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.True(t, strings.HasPrefix(out.String(), CanceledMarker))
}

func TestInvoke_IdempotentClassification(t *testing.T) {
	modes := []string{testutil.ModeEcho, testutil.ModeFail}
	for _, mode := range modes {
		inv := helperInvoker(mode)
		first := inv.Invoke(context.Background(), "/tmp/doc.pdf")
		second := inv.Invoke(context.Background(), "/tmp/doc.pdf")
		assert.Equal(t, first.Kind, second.Kind, "mode %s", mode)
		assert.Equal(t, first.String(), second.String(), "mode %s", mode)
		assert.NotEqual(t, first.RequestID, second.RequestID)
	}
}

func TestInvoke_PassesPathAsLastArgument(t *testing.T) {
	mock := &exec.MockCommandExecutor{}
	inv := New(Config{
		Command: "python",
		Args:    []string{"../python_backend/policy_engine.py"},
		WorkDir: "/srv/app",
	}, WithExecutor(mock))

	out := inv.Invoke(context.Background(), "/tmp/my policy.pdf")

	require.Equal(t, Succeeded, out.Kind)
	assert.Equal(t, []string{"python ../python_backend/policy_engine.py /tmp/my policy.pdf"}, mock.Recorded())
}

func TestInvoke_ClassifiesExecutorErrors(t *testing.T) {
	tests := []struct {
		name string
		res  *exec.Result
		err  error
		want Kind
	}{
		{
			name: "exit error without result",
			err:  &exec.ExecError{Err: errors.New("exit status 3"), ExitCode: 3, Output: "boom"},
			want: ExitFailed,
		},
		{
			name: "start error",
			err:  &exec.StartError{Name: "python", Err: errors.New("permission denied")},
			want: LaunchFailed,
		},
		{
			name: "wrapped deadline",
			err:  context.DeadlineExceeded,
			want: TimedOut,
		},
		{
			name: "unknown error",
			err:  errors.New("pipe broke"),
			want: LaunchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &exec.MockCommandExecutor{
				RunFunc: func(ctx context.Context, c exec.Command) (*exec.Result, error) {
					return tt.res, tt.err
				},
			}
			out := New(Config{Command: "python"}, WithExecutor(mock)).Invoke(context.Background(), "/tmp/x.pdf")
			assert.Equal(t, tt.want, out.Kind)
			assert.Error(t, out.Err)
		})
	}
}

func TestInvoke_LogsThroughInjectedLogger(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	out := helperInvoker(testutil.ModeEcho, WithLogger(logger)).Invoke(context.Background(), "/tmp/doc.pdf")
	require.True(t, out.OK())

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "Processor succeeded", last.Message)
	assert.Equal(t, logrus.InfoLevel, last.Level)
	assert.Equal(t, out.RequestID, last.Data["request_id"])
	assert.Equal(t, len("ok:/tmp/doc.pdf"), last.Data["chars"])
	assert.Equal(t, "succeeded", last.Data["kind"])

	hook.Reset()
	out = helperInvoker(testutil.ModeFail, WithLogger(logger)).Invoke(context.Background(), "/tmp/doc.pdf")
	require.Equal(t, ExitFailed, out.Kind)
	last = hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.WarnLevel, last.Level)
	assert.Equal(t, "bad format", last.Data["stderr"])
}

func TestInvoke_CallerDeadlineWithoutTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	out := helperInvoker(testutil.ModeSleep).Invoke(ctx, "/tmp/doc.pdf")

	require.Equal(t, TimedOut, out.Kind)
	assert.ErrorIs(t, out.Err, ErrTimeout)
	assert.NotContains(t, out.Err.Error(), "after")
	assert.Equal(t, TimeoutMarker+ErrTimeout.Error(), out.String())
}

func TestInvoke_ConfiguredTimeoutIsNamed(t *testing.T) {
	name, args, env := testutil.HelperCommand(testutil.ModeSleep)
	inv := New(Config{Command: name, Args: args, Env: env, Timeout: 200 * time.Millisecond})

	out := inv.Invoke(context.Background(), "/tmp/doc.pdf")

	require.Equal(t, TimedOut, out.Kind)
	assert.Contains(t, out.Err.Error(), "after 200ms")
}
