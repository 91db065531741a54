package logger

import (
	"fmt"
	"sync"
	"testing"
)

var _ Logger = new(Test)

// Test is a logger.Logger implementation using testing.T instance.
//
// Test also keeps the printed entries in memory, so that tests can
// assert on what a component has logged.
type Test struct {
	t *testing.T

	mx      sync.Mutex
	entries []string
}

// NewTest returns a new logger using the provided testing.T instance.
func NewTest(t *testing.T) *Test {
	return &Test{t: t}
}

func (t *Test) log(level, msg string, fields []Field) {
	entry := fmt.Sprintf("[%s] %s {args: %+v}", level, msg, fields)

	t.t.Log(entry)

	t.mx.Lock()
	t.entries = append(t.entries, entry)
	t.mx.Unlock()
}

// Debug uses t.Log to print a debug message.
func (t *Test) Debug(msg string, fields ...Field) { t.log("debug", msg, fields) }

// Info uses t.Log to print an info message.
func (t *Test) Info(msg string, fields ...Field) { t.log("info", msg, fields) }

// Error uses t.Log to print an error message.
func (t *Test) Error(msg string, fields ...Field) { t.log("error", msg, fields) }

// Entries returns the entries printed so far.
func (t *Test) Entries() []string {
	t.mx.Lock()
	defer t.mx.Unlock()

	return append([]string(nil), t.entries...)
}
