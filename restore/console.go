// Package restore decides whether a restore can be skipped and replays the
// diagnostics recorded by the restore that produced the cache file.
package restore

import (
	"fmt"
	"io"
)

// Console interface for output (injected from CLI).
type Console interface {
	Printf(format string, args ...any)
	Error(format string, args ...any)
	Warning(format string, args ...any)
}

// WriterConsole writes everything to one writer.
type WriterConsole struct {
	Out io.Writer
}

// NewWriterConsole creates a console writing to out.
func NewWriterConsole(out io.Writer) *WriterConsole {
	return &WriterConsole{Out: out}
}

func (c *WriterConsole) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.Out, format, args...)
}

func (c *WriterConsole) Error(format string, args ...any) {
	_, _ = fmt.Fprintf(c.Out, "error: "+format, args...)
}

func (c *WriterConsole) Warning(format string, args ...any) {
	_, _ = fmt.Fprintf(c.Out, "warning: "+format, args...)
}
