package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/willibrandon/projectmodel/observability"
)

func TestConsole_Verbosity(t *testing.T) {
	tests := []struct {
		name      string
		verbosity Verbosity
		want      []string
		absent    []string
	}{
		{"quiet", VerbosityQuiet, nil, []string{"ok", "Warning: w", "detail", "[DEBUG] d"}},
		{"normal", VerbosityNormal, []string{"ok", "Warning: w", "info"}, []string{"detail", "[DEBUG] d"}},
		{"detailed", VerbosityDetailed, []string{"ok", "detail"}, []string{"[DEBUG] d"}},
		{"diagnostic", VerbosityDiagnostic, []string{"ok", "detail", "[DEBUG] d"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			c := NewConsole(&out, &errOut, tt.verbosity)

			c.Success("ok")
			c.Warning("w")
			c.Info("info")
			c.Detail("detail")
			c.Debug("d")
			c.Error("e %d", 1)

			for _, s := range tt.want {
				if !strings.Contains(out.String(), s) {
					t.Errorf("output missing %q: %q", s, out.String())
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out.String(), s) {
					t.Errorf("output should not contain %q: %q", s, out.String())
				}
			}
			if errOut.String() != "Error: e 1\n" {
				t.Errorf("stderr = %q, errors are always shown", errOut.String())
			}
		})
	}
}

func TestConsole_WriterIsNotColored(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &out, VerbosityNormal)

	if c.ColorsEnabled() {
		t.Error("a buffer is not a terminal")
	}
	if IsTerminal(&out) {
		t.Error("IsTerminal(buffer) = true")
	}
}

func TestParseVerbosity(t *testing.T) {
	tests := []struct {
		in   string
		want Verbosity
		ok   bool
	}{
		{"", VerbosityNormal, true},
		{"q", VerbosityQuiet, true},
		{"Quiet", VerbosityQuiet, true},
		{"minimal", VerbosityNormal, true},
		{"d", VerbosityDetailed, true},
		{"diag", VerbosityDiagnostic, true},
		{"loud", VerbosityNormal, false},
	}

	for _, tt := range tests {
		got, ok := ParseVerbosity(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseVerbosity(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestVerbosity_LogLevel(t *testing.T) {
	tests := []struct {
		v    Verbosity
		want observability.LogLevel
	}{
		{VerbosityQuiet, observability.ErrorLevel},
		{VerbosityNormal, observability.WarnLevel},
		{VerbosityDetailed, observability.InfoLevel},
		{VerbosityDiagnostic, observability.DebugLevel},
	}

	for _, tt := range tests {
		if got := tt.v.LogLevel(); got != tt.want {
			t.Errorf("LogLevel(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestConsole_Logger(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewConsole(&out, &errOut, VerbosityNormal)

	log := c.Logger()
	log.Info("hidden {N}", 1)
	log.Warn("shown {N}", 2)

	if out.Len() != 0 {
		t.Errorf("log events belong on stderr, stdout = %q", out.String())
	}
	if strings.Contains(errOut.String(), "hidden") || !strings.Contains(errOut.String(), "shown") {
		t.Errorf("stderr = %q", errOut.String())
	}
}
