package kitelog

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
)

var (
	run   = os.Getenv("HOLDOUT_RUN")
	flags = log.LstdFlags | log.Lmicroseconds
)

// Basic prefixes the log line with the run label and writes to stderr
var Basic = New(os.Stderr, run)

// Discard drops everything, it is handy in tests
var Discard = New(ioutil.Discard, "")

// New creates a Logger writing to w, labelling each line with label when it is non-empty.
func New(w io.Writer, label string) *Logger {
	prefix := ""
	if label != "" {
		prefix = fmt.Sprintf("[run=%s] ", label)
	}
	return &Logger{
		Default: log.New(w, prefix, flags),
	}
}

// Logger encapsulates the run logger, the verbose switch and a durations tracker
type Logger struct {
	Default   *log.Logger
	Durations Durations
	// Verbose enables Verbosef output
	Verbose bool
}

// Interface encapsulates the relevant methods of log.Logger
type Interface interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Printf implements Interface
func (l *Logger) Printf(format string, v ...interface{}) {
	l.Default.Output(2, fmt.Sprintf(format, v...))
}

// Println implements Interface
func (l *Logger) Println(v ...interface{}) {
	l.Default.Output(2, fmt.Sprintln(v...))
}

// Verbosef logs only when the logger is verbose
func (l *Logger) Verbosef(format string, v ...interface{}) {
	if !l.Verbose {
		return
	}
	l.Default.Output(2, fmt.Sprintf(format, v...))
}

// WithVerbose returns a derived Logger with the verbose switch set to v
func (l *Logger) WithVerbose(v bool) *Logger {
	out := *l
	out.Verbose = v
	out.Durations = nil
	return &out
}
