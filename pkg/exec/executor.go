package exec

import (
	"context"
	"time"
)

// CommandExecutor defines an interface for running external commands.
// This abstraction allows for easier testing by providing a mockable interface.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the directories
	// named by the PATH environment variable.
	LookPath(file string) (string, error)

	// Run starts the command, waits for it to exit and returns its captured
	// output. A nil error means the command exited with status zero.
	Run(ctx context.Context, c Command) (*Result, error)
}

// Command describes a single process launch.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the caller's directory.
	Dir string
	// Env is appended to the parent environment.
	Env []string
}

// Result holds what a finished process wrote and how it exited.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}
