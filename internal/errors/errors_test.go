package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/julianstephens/nixie/internal/lock"
	"github.com/julianstephens/nixie/internal/storage"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("record too short"), expected: "Error: record too short"},
		{
			name:     "wrapped error",
			err:      fmt.Errorf("failed to read record: %w", errors.New("i2c: nack")),
			expected: "Error: failed to read record: i2c: nack",
		},
		{
			name:     "missing record hint",
			err:      fmt.Errorf("failed to read record: %w", storage.ErrNoRecord),
			expected: "Error: failed to read record: no config record stored\nHint: run 'nixie init' to write factory defaults",
		},
		{
			name:     "lock held hint",
			err:      fmt.Errorf("%w (pid 42)", lock.ErrHeld),
			expected: "Error: another nixie instance is running (pid 42)\nHint: stop the running clock first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFatalf(t *testing.T) {
	if os.Getenv("GO_TEST_FATALF") == "1" {
		Fatalf("failed to open store: %w", storage.ErrNoRecord)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatalf$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATALF=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); !ok || e.ExitCode() != 1 {
		t.Fatalf("Fatalf() did not exit with status 1: %v", err)
	}
	if !strings.Contains(stderr.String(), "Hint: run 'nixie init'") {
		t.Errorf("Fatalf() should keep the wrapped error, stderr = %q", stderr.String())
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
