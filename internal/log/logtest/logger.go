// Package logtest implements a Logger that records messages for tests.
package logtest

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yourusername/gammonboard/internal/log"
)

// Logger writes to a buffer to be read later.
type Logger struct {
	buf bytes.Buffer
	mu  sync.RWMutex
}

var _ log.Logger = (*Logger)(nil)

// Printf implements log.Logger, ending every message with a newline.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(&l.buf, format, v...)
	l.buf.WriteByte('\n')
}

// String returns everything logged so far.
func (l *Logger) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.String()
}

// Empty reports whether nothing was logged.
func (l *Logger) Empty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buf.Len() == 0
}
