// Package errors renders command failures for the terminal.
package errors

import (
	"fmt"
	"os"

	"github.com/peptalk/peptalk-cli/internal/logger"
)

// Format renders err with the CLI's "Error: " prefix.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

// Fatal logs err, reports it on stderr, and exits with status 1.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
