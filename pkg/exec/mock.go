package exec

import (
	"context"
	"strings"
	"sync"
)

// MockCommandExecutor is a mock implementation of CommandExecutor for testing.
// It records all commands that would be executed without actually running them.
type MockCommandExecutor struct {
	mu sync.Mutex

	// Commands records all commands that were executed
	Commands []string

	// LookPathFunc allows custom behavior for LookPath in tests
	LookPathFunc func(file string) (string, error)

	// RunFunc allows custom behavior for Run in tests
	RunFunc func(ctx context.Context, c Command) (*Result, error)
}

// LookPath implements the CommandExecutor interface for testing.
func (m *MockCommandExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	// By default, assume commands exist
	return "/path/to/" + file, nil
}

// Run implements the CommandExecutor interface for testing.
// It records the command that would be executed.
func (m *MockCommandExecutor) Run(ctx context.Context, c Command) (*Result, error) {
	cmdStr := c.Name
	if len(c.Args) > 0 {
		cmdStr = c.Name + " " + strings.Join(c.Args, " ")
	}
	m.mu.Lock()
	m.Commands = append(m.Commands, cmdStr)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, c)
	}
	return &Result{}, nil
}

// Recorded returns a copy of the recorded commands.
func (m *MockCommandExecutor) Recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Commands...)
}
