// Package debug provides diagnostic logging gated on the WEND_DEBUG
// environment variable, plus the verbose/quiet switches the CLI flags bind.
// Diagnostics go to stderr; user-facing output uses PrintNormal so --quiet
// can suppress it.
package debug

import (
	"fmt"
	"os"
)

var (
	enabled     = os.Getenv("WEND_DEBUG") != ""
	verboseMode = false
	quietMode   = false
)

// Enabled reports whether debug output is active (WEND_DEBUG set or
// --verbose given).
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet enables quiet mode (suppress non-essential output).
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode
}

// Logf writes a diagnostic line to stderr when debug output is active.
// The newline is supplied; callers pass bare format strings.
func Logf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// Printf writes to stdout when debug output is active.
func Printf(format string, args ...interface{}) {
	if enabled || verboseMode {
		fmt.Printf(format, args...)
	}
}

// PrintNormal prints output unless quiet mode is enabled. Use this for
// informational output that --quiet should suppress.
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Printf(format, args...)
	}
}

// PrintlnNormal prints a line unless quiet mode is enabled.
func PrintlnNormal(args ...interface{}) {
	if !quietMode {
		fmt.Println(args...)
	}
}
