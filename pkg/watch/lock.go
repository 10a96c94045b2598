package watch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LockFileName is created in a watched directory while a watcher runs.
const LockFileName = ".policyscan.lock"

// ErrLocked is returned when another running process watches the directory.
var ErrLocked = errors.New("directory is already being watched")

// Lock marks a directory as watched by this process.
type Lock struct {
	path string
}

// AcquireLock creates the lock file in dir holding the process ID. A lock
// left behind by a process that is no longer running is taken over.
func AcquireLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockFileName)

	for attempt := 0; attempt < 2; attempt++ {
		err := createLockFile(path)
		if err == nil {
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}

		pid, readErr := readLockFile(path)
		if readErr == nil && pid == os.Getpid() {
			return &Lock{path: path}, nil
		}
		if readErr == nil && isProcessAlive(pid) {
			return nil, fmt.Errorf("%w by process %d", ErrLocked, pid)
		}
		if errors.Is(readErr, os.ErrNotExist) {
			// Released between the create and the read.
			continue
		}
		if readErr != nil && lockIsFresh(path) {
			// Another watcher created it and has not written its PID yet.
			return nil, fmt.Errorf("%w by a starting process", ErrLocked)
		}
		// Stale: remove it and race for a fresh exclusive create.
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove stale lock file: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: lock file %s keeps changing", ErrLocked, path)
}

// lockSettle is how long an unreadable lock file is assumed to be mid-write.
const lockSettle = 2 * time.Second

func lockIsFresh(path string) bool {
	info, err := os.Stat(path)
	return err == nil && time.Since(info.ModTime()) < lockSettle
}

// createLockFile fails with os.ErrExist when the lock is already present.
func createLockFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Release deletes the lock file.
func (l *Lock) Release() error {
	// It's not an error if the file doesn't exist.
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func readLockFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %w", err)
	}
	return pid, nil
}
