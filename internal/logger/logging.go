// Package logger builds the prefixed charm loggers wordrack components log through.
//
// Everything goes to stderr. In server mode stdout is the msgpack response
// stream, so a single stray log line there would corrupt a client's decoder.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New returns a timestamped stderr logger for a long running component,
// such as the IPC server. It starts at the global level set by -d.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
