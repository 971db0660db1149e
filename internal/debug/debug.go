// Package debug provides env/flag gated diagnostic output. Diagnostics
// always go to stderr so --json consumers never see them on stdout.
package debug

import (
	"fmt"
	"os"
)

var (
	enabled     = os.Getenv("SORTD_DEBUG") != ""
	verboseMode = false
	quietMode   = false
)

// Enabled reports whether diagnostics are active.
func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose output (the --verbose flag).
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet suppresses non-essential output.
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled.
func IsQuiet() bool {
	return quietMode
}

// Logf writes a diagnostic line to stderr when debugging is enabled.
// Quiet mode wins over verbose.
func Logf(format string, args ...interface{}) {
	if Enabled() && !quietMode {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
