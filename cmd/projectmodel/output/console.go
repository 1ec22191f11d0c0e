package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/willibrandon/projectmodel/observability"
)

// Verbosity levels
type Verbosity int

const (
	// VerbosityQuiet shows errors only
	VerbosityQuiet Verbosity = iota
	// VerbosityNormal shows errors, warnings, and results (default)
	VerbosityNormal
	// VerbosityDetailed shows above + per-document progress
	VerbosityDetailed
	// VerbosityDiagnostic shows above + structured log events
	VerbosityDiagnostic
)

// ParseVerbosity parses q[uiet], n[ormal], d[etailed] or diag[nostic].
func ParseVerbosity(s string) (Verbosity, bool) {
	switch strings.ToLower(s) {
	case "q", "quiet":
		return VerbosityQuiet, true
	case "", "n", "normal", "m", "minimal":
		return VerbosityNormal, true
	case "d", "detailed":
		return VerbosityDetailed, true
	case "diag", "diagnostic":
		return VerbosityDiagnostic, true
	}
	return VerbosityNormal, false
}

// LogLevel is the lowest structured log level shown at v.
func (v Verbosity) LogLevel() observability.LogLevel {
	switch v {
	case VerbosityQuiet:
		return observability.ErrorLevel
	case VerbosityDetailed:
		return observability.InfoLevel
	case VerbosityDiagnostic:
		return observability.DebugLevel
	}
	return observability.WarnLevel
}

// Console provides output abstraction
type Console struct {
	out       io.Writer
	err       io.Writer
	verbosity Verbosity
	mu        sync.Mutex
	colors    bool
}

// NewConsole creates a new console
func NewConsole(out, err io.Writer, verbosity Verbosity) *Console {
	c := &Console{
		out:       out,
		err:       err,
		verbosity: verbosity,
		colors:    IsColorEnabled(out),
	}

	if !c.colors {
		DisableColors()
	}

	return c
}

// DefaultConsole creates a console with stdout/stderr and normal verbosity
func DefaultConsole() *Console {
	return NewConsole(os.Stdout, os.Stderr, VerbosityNormal)
}

// Out is the writer results are written to.
func (c *Console) Out() io.Writer { return c.out }

// Err is the writer errors and log events are written to.
func (c *Console) Err() io.Writer { return c.err }

// SetVerbosity sets the verbosity level
func (c *Console) SetVerbosity(v Verbosity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verbosity = v
}

// GetVerbosity returns the current verbosity level
func (c *Console) GetVerbosity() Verbosity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verbosity
}

// SetColors enables or disables color output
func (c *Console) SetColors(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors = enabled
	if enabled {
		EnableColors()
	} else {
		DisableColors()
	}
}

// ColorsEnabled reports whether output is colored.
func (c *Console) ColorsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.colors
}

// Logger returns a structured logger writing to the error stream at the
// level matching the console verbosity.
func (c *Console) Logger() observability.Logger {
	return observability.NewLogger(c.err, c.GetVerbosity().LogLevel())
}

// Write writes raw bytes to output.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(p)
}

// Print writes to output
func (c *Console) Print(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprint(c.out, a...)
}

// Println writes line to output
func (c *Console) Println(a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, a...)
}

// Printf writes formatted output
func (c *Console) Printf(format string, a ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, a...)
}

// Success writes success message (green)
func (c *Console) Success(format string, a ...any) {
	c.colored(VerbosityNormal, c.out, ColorSuccess, "", format, a)
}

// Error writes error message (red)
func (c *Console) Error(format string, a ...any) {
	c.colored(VerbosityQuiet, c.err, ColorError, "Error: ", format, a)
}

// Warning writes warning message (yellow)
func (c *Console) Warning(format string, a ...any) {
	c.colored(VerbosityNormal, c.out, ColorWarning, "Warning: ", format, a)
}

// Info writes info message (cyan)
func (c *Console) Info(format string, a ...any) {
	c.colored(VerbosityNormal, c.out, ColorInfo, "", format, a)
}

// Debug writes debug message (white)
func (c *Console) Debug(format string, a ...any) {
	c.colored(VerbosityDiagnostic, c.out, ColorDebug, "[DEBUG] ", format, a)
}

// Detail writes detailed message
func (c *Console) Detail(format string, a ...any) {
	if c.GetVerbosity() >= VerbosityDetailed {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, _ = fmt.Fprintf(c.out, format+"\n", a...)
	}
}

func (c *Console) colored(min Verbosity, w io.Writer, scheme *color.Color, prefix, format string, a []any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.verbosity < min {
		return
	}
	if c.colors {
		_, _ = scheme.Fprintf(w, prefix+format+"\n", a...)
	} else {
		_, _ = fmt.Fprintf(w, prefix+format+"\n", a...)
	}
}
