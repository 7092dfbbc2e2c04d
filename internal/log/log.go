// Package log wraps the tacusci logger behind swappable function values so
// tests can silence or capture output.
package log

import "github.com/tacusci/logging/v2"

var Debug = func(format string, a ...interface{}) {
	logging.Debug(format, a...) //nolint
}

var Info = func(format string, a ...interface{}) {
	logging.Info(format, a...) //nolint
}

var Warn = func(format string, a ...interface{}) {
	logging.Warn(format, a...) //nolint
}

var Error = func(format string, a ...interface{}) {
	logging.Error(format, a...) //nolint
}

// SetVerbose switches between the default warn level and full debug output.
func SetVerbose(verbose bool) {
	if verbose {
		logging.SetLevel(logging.DebugLevel)
		return
	}
	logging.SetLevel(logging.WarnLevel)
}
