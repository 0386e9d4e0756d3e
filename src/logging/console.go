package logging

import (
	"os"

	gologging "gopkg.in/op/go-logging.v1"

	"golang.org/x/term"
)

// StdErrIsATerminal is true if the process' stderr is an interactive TTY, mirroring
// please's src/cli.StdErrIsATerminal.
var StdErrIsATerminal = term.IsTerminal(int(os.Stderr.Fd()))

var consoleFormat = gologging.MustStringFormatter(
	"%{color}%{time:15:04:05.000} %{level:7s} %{module}:%{color:reset} %{message}",
)

var plainFormat = gologging.MustStringFormatter(
	"%{time:15:04:05.000} %{level:7s} %{module}: %{message}",
)

// newConsoleBackend builds the go-logging backend used for real-time console output.
func newConsoleBackend(level Level) gologging.LeveledBackend {
	format := plainFormat
	if StdErrIsATerminal {
		format = consoleFormat
	}
	backend := gologging.NewBackendFormatter(gologging.NewLogBackend(os.Stderr, "", 0), format)
	leveled := gologging.AddModuleLevel(backend)
	leveled.SetLevel(toGoLogging(level), "")
	return leveled
}

// toGoLogging maps craft's 7-level enum onto go-logging's 6 levels; Verbose and All both
// collapse to DEBUG for console purposes since go-logging has nothing finer. The binary
// file sink (binary.go) preserves the full distinction.
func toGoLogging(l Level) gologging.Level {
	switch l {
	case Fatal:
		return gologging.CRITICAL
	case Error:
		return gologging.ERROR
	case Warning:
		return gologging.WARNING
	case Info:
		return gologging.INFO
	default: // Debug, Verbose, All
		return gologging.DEBUG
	}
}
