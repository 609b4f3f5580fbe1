package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/feedingfoundation/locator/internal/logger"
)

// Replaced in tests.
var (
	exit   func(int) = os.Exit
	stderr io.Writer = os.Stderr
)

// Format renders err for the terminal with an "Error: " prefix. A nil error
// renders as the empty string.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err, prints it to stderr and exits with status 1. It returns
// without doing anything when err is nil.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintln(stderr, Format(err))
	exit(1)
}

func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}
