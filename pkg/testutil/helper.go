// Package testutil provides a portable fake external processor for tests.
//
// Tests re-execute their own test binary: the package under test declares
//
//	func TestHelperProcess(t *testing.T) { testutil.RunHelperProcess() }
//
// and points the command under test at HelperCommand. The child process
// picks a behaviour from the mode passed in its environment.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	envHelper = "POLICYSCAN_HELPER_PROCESS"
	envMode   = "POLICYSCAN_HELPER_MODE"
)

// Helper modes.
const (
	// ModeEcho prints "ok:<args>" to stdout and exits 0.
	ModeEcho = "echo"
	// ModeFail prints "partial" to stdout, "bad format" to stderr and exits 1.
	ModeFail = "fail"
	// ModeInvalidUTF8 prints bytes that are not valid UTF-8 and exits 0.
	ModeInvalidUTF8 = "invalid-utf8"
	// ModeSleep blocks for a minute.
	ModeSleep = "sleep"
)

// HelperCommand returns the name, leading args and extra environment that
// launch the current test binary as a fake processor in the given mode.
// Callers append the per-call argument after args.
func HelperCommand(mode string) (name string, args []string, env []string) {
	return os.Args[0],
		[]string{"-test.run=^TestHelperProcess$", "--"},
		[]string{envHelper + "=1", envMode + "=" + mode}
}

// RunHelperProcess behaves as the fake processor when the test binary was
// launched through HelperCommand and returns immediately otherwise.
func RunHelperProcess() {
	if os.Getenv(envHelper) != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}

	switch os.Getenv(envMode) {
	case ModeEcho:
		fmt.Fprintf(os.Stdout, "ok:%s", strings.Join(args, " "))
		os.Exit(0)
	case ModeFail:
		fmt.Fprint(os.Stdout, "partial")
		fmt.Fprint(os.Stderr, "bad format")
		os.Exit(1)
	case ModeInvalidUTF8:
		os.Stdout.Write([]byte("ok\xffdone"))
		os.Exit(0)
	case ModeSleep:
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	fmt.Fprintf(os.Stderr, "unknown helper mode %q", os.Getenv(envMode))
	os.Exit(2)
}
