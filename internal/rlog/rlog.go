// Package rlog is the thin logging wrapper the root rankexpr package
// uses for diagnostics: one Configure call at process startup, then a
// named Logger per package, grounded on the way the corpus's kanso
// language server configures and uses commonlog
// (cmd/kanso-lsp/main.go's commonlog.Configure(1, nil)).
//
// rankexpr logs at Debug level only: a line per compiled Function, and,
// when a Context has tracing enabled, a line as each evaluation starts
// and a line with its result; individual instructions are not logged.
// Nothing here logs above Debug, so a caller who
// never configures verbosity pays for a few no-op calls and nothing
// else.
package rlog

import "github.com/tliron/commonlog"

// Logger is the subset of commonlog's logger this module uses.
type Logger interface {
	Debug(message string)
	Debugf(format string, values ...interface{})
}

// Configure sets the process-wide log verbosity (0 = critical only, 1
// = debug) and, when path is non-empty, directs output to that file
// instead of stderr. Call it once, before compiling or evaluating
// anything whose trace output matters.
func Configure(verbosity int, path string) {
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}

// Get returns the named logger, e.g. rlog.Get("rankexpr.compiler").
func Get(name string) Logger {
	return commonlog.GetLogger(name)
}
