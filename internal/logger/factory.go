package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Default returns a stderr logger without timestamps, for the interactive CLI
// where lines interleave with rack results.
func Default(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, false, log.TextFormatter)
}

// NewWithConfig spells out every option. The version banner uses it with its
// own styles; tests point it at a buffer.
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, formatter log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       formatter,
	})
}
