// Package lock keeps two appliance processes from driving the same
// persistence device. The lockfile holds "pid|started-unix".
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/logger"
)

var findProcessFunc = ps.FindProcess

// ErrHeld is returned when another live instance owns the lock.
var ErrHeld = errors.New("another nixie instance is running")

type Lock struct {
	path string
}

// Path returns the lockfile location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire takes the lock in dir. A lockfile left by a dead process, or by a
// process that is not nixie, is treated as stale and replaced.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := Path(dir)

	if pid, err := readOwner(path); err == nil {
		if alive(pid) {
			return nil, fmt.Errorf("%w (pid %d)", ErrHeld, pid)
		}
		logger.Warn("Removing stale lockfile", "path", path, "pid", pid)
		_ = os.Remove(path)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrHeld
		}
		return nil, fmt.Errorf("failed to create lockfile: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d|%d", os.Getpid(), time.Now().Unix()); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lockfile. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Owner reports the pid recorded in dir's lockfile, if that process is alive.
func Owner(dir string) (int, bool) {
	pid, err := readOwner(Path(dir))
	if err != nil {
		return 0, false
	}
	return pid, alive(pid)
}

func readOwner(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, errors.New("invalid process ID in lockfile")
	}
	return pid, nil
}

func alive(pid int) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.AppName) || pid == os.Getpid()
}
