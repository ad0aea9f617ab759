// Package log provides the logger interface shared by the board engine and the table server.
package log

import (
	stdlog "log"
	"os"
)

// Logger is satisfied by *log.Logger from the standard library.
type Logger interface {
	// Printf writes the formatted message. Arguments are handled in the manner of fmt.Printf.
	Printf(format string, v ...interface{})
}

// Default writes to stderr with the standard flags and a prefix.
func Default(prefix string) Logger {
	return stdlog.New(os.Stderr, prefix, stdlog.LstdFlags)
}

// Discard drops every message.
var Discard Logger = discard{}

type discard struct{}

func (discard) Printf(string, ...interface{}) {}
