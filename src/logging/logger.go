package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	gologging "gopkg.in/op/go-logging.v1"
)

var (
	stateMu     sync.Mutex
	fileSink    *BinaryWriter
	fileLevel   = All
	consoleLvl  = Warning
	initialized bool
)

// Init sets up the console backend at the given verbosity. It may be called more than
// once (e.g. if the CLI re-parses verbosity); each call replaces the console backend.
func Init(verbosity Level) {
	stateMu.Lock()
	consoleLvl = verbosity
	stateMu.Unlock()
	gologging.SetBackend(newConsoleBackend(verbosity))
	initialized = true
}

// InitFileSink opens path and starts mirroring every event at level or any less verbose
// level into the AxeLogBinaryFile format.
func InitFileSink(path string, level Level) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	bw, err := NewBinaryWriter(f)
	if err != nil {
		return err
	}
	stateMu.Lock()
	fileSink = bw
	fileLevel = level
	stateMu.Unlock()
	return nil
}

// CloseFileSink flushes and closes the binary file sink, if one is open.
func CloseFileSink() error {
	stateMu.Lock()
	bw := fileSink
	fileSink = nil
	stateMu.Unlock()
	if bw == nil {
		return nil
	}
	return bw.Close()
}

// A Logger emits categorized, leveled events to both the console and (if
// configured) the binary file sink. The orchestrator creates one and passes
// it to the DefinitionContext and the plan Context; the platform, process
// and toolchain packages each create their own package-level Logger with
// MustGetLogger instead of receiving that handle.
type Logger struct {
	category string
	console  *gologging.Logger
}

// MustGetLogger returns a Logger for the given category, creating the underlying
// go-logging logger if necessary.
func MustGetLogger(category string) *Logger {
	if !initialized {
		Init(Warning)
	}
	return &Logger{category: category, console: gologging.MustGetLogger(category)}
}

func (l *Logger) emit(level Level, typ EventType, data []byte, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	switch level {
	case Fatal:
		l.console.Criticalf("%s", msg)
	case Error:
		l.console.Errorf("%s", msg)
	case Warning:
		l.console.Warningf("%s", msg)
	case Info:
		l.console.Infof("%s", msg)
	default:
		l.console.Debugf("%s", msg)
	}
	stateMu.Lock()
	bw := fileSink
	lvl := fileLevel
	stateMu.Unlock()
	if bw != nil && level <= lvl {
		bw.Write(Record{
			Time:     time.Now(),
			ThreadID: threadID(),
			Level:    level,
			Type:     typ,
			Category: l.category,
			Message:  msg,
			Data:     data,
		})
	}
}

// Fatalf logs at Fatal and terminates the process.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.emit(Fatal, TypeMessage, nil, format, args...)
	CloseFileSink()
	os.Exit(1)
}

// Errorf logs at Error level.
func (l *Logger) Errorf(format string, args ...interface{}) { l.emit(Error, TypeMessage, nil, format, args...) }

// Warningf logs at Warning level.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.emit(Warning, TypeMessage, nil, format, args...)
}

// Infof logs at Info level.
func (l *Logger) Infof(format string, args ...interface{}) { l.emit(Info, TypeMessage, nil, format, args...) }

// Debugf logs at Debug level.
func (l *Logger) Debugf(format string, args ...interface{}) { l.emit(Debug, TypeMessage, nil, format, args...) }

// Verbosef logs at Verbose level (below Debug; console collapses it to DEBUG, the binary
// sink keeps the distinction).
func (l *Logger) Verbosef(format string, args ...interface{}) {
	l.emit(Verbose, TypeMessage, nil, format, args...)
}

// BeginSpan logs a RecursiveSpanBegin event for name and returns a function that ends it.
// Used by src/tracing to bridge OpenTelemetry spans into the binary log.
func (l *Logger) BeginSpan(name string) func() {
	l.emit(Verbose, TypeRecursiveSpanBegin, nil, "%s", name)
	return func() {
		l.emit(Verbose, TypeRecursiveSpanEnd, nil, "%s", name)
	}
}
