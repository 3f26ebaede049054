// Package errors reports command failures at the CLI edge.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/nixie/internal/constants"
	"github.com/julianstephens/nixie/internal/lock"
	"github.com/julianstephens/nixie/internal/logger"
	"github.com/julianstephens/nixie/internal/storage"
)

// hints add a next step to errors the user can act on.
var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrNoRecord, "run '" + constants.AppName + " init' to write factory defaults"},
	{lock.ErrHeld, "stop the running clock first"},
}

// Format renders err for the terminal as "Error: <err>", followed by a hint
// on a second line when one applies.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			msg += "\nHint: " + h.hint
			break
		}
	}
	return msg
}

// Fatal logs err, prints it to stderr and exits with status 1. A nil error
// is ignored.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}

// Fatalf is Fatal with a formatted error; %w wraps as in fmt.Errorf.
func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}
