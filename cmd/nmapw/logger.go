// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates the diagnostic logger. Invalid levels fall back to warn;
// config validation reports them before this point.
func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "nmapw",
		Level:           lvl,
		ReportTimestamp: lvl <= log.DebugLevel,
	})
}
