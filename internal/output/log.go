package output

import (
	"io"
	"log"
	"os"
)

var debugLog = log.New(io.Discard, "[debug] ", log.Ltime)

// SetVerbose routes debug messages to stderr when on.
func SetVerbose(on bool) {
	if on {
		debugLog.SetOutput(os.Stderr)
	} else {
		debugLog.SetOutput(io.Discard)
	}
}

// Debugf logs a message when verbose output is enabled.
func Debugf(format string, args ...interface{}) {
	debugLog.Printf(format, args...)
}
