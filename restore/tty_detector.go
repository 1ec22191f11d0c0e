package restore

import (
	"io"
	"os"

	"golang.org/x/term"
)

// TTYDetector detects whether an io.Writer is a terminal (TTY).
// This interface allows mocking in tests.
type TTYDetector interface {
	// IsTTY returns true if w is a terminal (not piped/redirected)
	IsTTY(w io.Writer) bool
}

// RealTTYDetector uses golang.org/x/term to detect real terminals
type RealTTYDetector struct{}

// IsTTY returns true if w is a terminal
func (d *RealTTYDetector) IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// DefaultTTYDetector is the default detector used in production
var DefaultTTYDetector TTYDetector = &RealTTYDetector{}
