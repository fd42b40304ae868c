// Package debug provides conditional debug logging for leapkey.
//
// Debug logging is enabled by setting the LEAPKEY_DEBUG environment variable:
//
//	LEAPKEY_DEBUG=1 leapkey file.go
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops with zero overhead.
// stderr is safe to write to even while the TUI owns stdout; redirect it to a
// file when debugging interactively (2>debug.log).
package debug

import (
	"log"
	"os"
	"time"
)

var (
	// enabled is true when LEAPKEY_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [LEAPKEY] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("LEAPKEY_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[LEAPKEY] ", log.Ltime|log.Lmicroseconds)
	}
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}
