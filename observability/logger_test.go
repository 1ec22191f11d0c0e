package observability

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
)

func TestLogger_StructuredProperties(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, InfoLevel)

	log.Info("Read {Path} with {Targets} targets", "obj/project.assets.json", 3)

	output := buf.String()
	if !strings.Contains(output, "obj/project.assets.json") {
		t.Errorf("Output missing Path: %s", output)
	}
	if !strings.Contains(output, "3") {
		t.Errorf("Output missing Targets: %s", output)
	}
}

func TestLogger_ForContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, InfoLevel)

	scoped := log.ForContext("Document", "dgspec").WithProperty("Format", 1)
	scoped.InfoContext(context.Background(), "Hashed {Projects} projects", 42)

	// Scoped properties are not part of the console template; the message
	// properties are.
	if output := buf.String(); !strings.Contains(output, "42") {
		t.Errorf("Output missing template property: %s", output)
	}
}

func TestLogger_AllLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(buf, VerboseLevel)
	ctx := context.Background()

	log.Verbose("verbose message")
	log.DebugContext(ctx, "debug message")
	log.Info("info message")
	log.WarnContext(ctx, "warn message")
	log.Error("error message")
	log.FatalContext(ctx, "fatal message")

	output := buf.String()
	for _, want := range []string{"verbose", "debug", "info", "warn", "error", "fatal"} {
		if !strings.Contains(output, want+" message") {
			t.Errorf("Output missing %s message: %s", want, output)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     LogLevel
		logFunc   func(Logger)
		shouldLog bool
	}{
		{"Verbose level logs Verbose", VerboseLevel, func(l Logger) { l.Verbose("msg") }, true},
		{"Debug level blocks Verbose", DebugLevel, func(l Logger) { l.Verbose("msg") }, false},
		{"Debug level allows Debug", DebugLevel, func(l Logger) { l.Debug("msg") }, true},
		{"Info level blocks Debug", InfoLevel, func(l Logger) { l.Debug("msg") }, false},
		{"Warn level blocks Info", WarnLevel, func(l Logger) { l.Info("msg") }, false},
		{"Error level blocks Warn", ErrorLevel, func(l Logger) { l.Warn("msg") }, false},
		{"Fatal level blocks Error", FatalLevel, func(l Logger) { l.Error("msg") }, false},
		{"Warn level allows Error", WarnLevel, func(l Logger) { l.Error("msg") }, true},
		{"Info level allows Warn", InfoLevel, func(l Logger) { l.Warn("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFunc(NewLogger(buf, tt.level))

			if hasOutput := buf.Len() > 0; hasOutput != tt.shouldLog {
				t.Errorf("Expected output=%v, got output=%v", tt.shouldLog, hasOutput)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name string
		want LogLevel
		ok   bool
	}{
		{"verbose", VerboseLevel, true},
		{"trace", VerboseLevel, true},
		{"debug", DebugLevel, true},
		{"", InfoLevel, true},
		{"information", InfoLevel, true},
		{"warning", WarnLevel, true},
		{"error", ErrorLevel, true},
		{"fatal", FatalLevel, true},
		{"loud", InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLogLevel(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("ParseLogLevel(%q) = %v, %v, want %v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNewDefaultLogger(t *testing.T) {
	log := NewDefaultLogger()
	if log == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
	log.Debug("below the default level")
}

func TestNullLogger(t *testing.T) {
	log := NewNullLogger()
	ctx := context.Background()

	log.Verbose("verbose")
	log.VerboseContext(ctx, "verbose ctx")
	log.Debug("debug")
	log.DebugContext(ctx, "debug ctx")
	log.Info("info")
	log.InfoContext(ctx, "info ctx")
	log.Warn("warn")
	log.WarnContext(ctx, "warn ctx")
	log.Error("error")
	log.ErrorContext(ctx, "error ctx")
	log.Fatal("fatal")
	log.FatalContext(ctx, "fatal ctx")

	if log.ForContext("key", "value") != log || log.WithProperty("key", "value") != log {
		t.Error("null logger children should be the null logger")
	}
}

func TestCountingLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewCountingLogger(NewLogger(buf, VerboseLevel))

	log.Info("not counted")
	log.Warn("Lock file {Path} is out of date", "packages.lock.json")
	log.WarnContext(context.Background(), "second warning")
	log.ForContext("Document", "assets").Error("Error reading {Path}", "project.assets.json")
	log.WithProperty("Document", "dgspec").ErrorContext(context.Background(), "another error")

	if got := log.Warnings(); got != 2 {
		t.Errorf("Warnings() = %d, want 2", got)
	}
	if got := log.Errors(); got != 2 {
		t.Errorf("Errors() = %d, want 2", got)
	}

	events := log.Events()
	if len(events) != 4 {
		t.Fatalf("Events() returned %d events, want 4", len(events))
	}
	if events[0].Template != "Lock file {Path} is out of date" || events[0].Level != WarnLevel {
		t.Errorf("first event = %+v", events[0])
	}
	if len(events[2].Args) != 1 || events[2].Args[0] != "project.assets.json" {
		t.Errorf("third event args = %v", events[2].Args)
	}
	if !strings.Contains(buf.String(), "packages.lock.json") {
		t.Errorf("inner logger missing forwarded warning: %s", buf.String())
	}
}

func TestCountingLogger_NilInner(t *testing.T) {
	log := NewCountingLogger(nil)
	log.Error("discarded but counted")

	if log.Errors() != 1 {
		t.Errorf("Errors() = %d, want 1", log.Errors())
	}
}

func TestCountingLogger_Concurrent(t *testing.T) {
	log := NewCountingLogger(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			child := log.ForContext("Worker", i)
			for j := 0; j < 25; j++ {
				child.Warn("warning {N}", j)
			}
		}()
	}
	wg.Wait()

	if got := log.Warnings(); got != 200 {
		t.Errorf("Warnings() = %d, want 200", got)
	}
}

func BenchmarkLogger_InfoWithArgs(b *testing.B) {
	logger := NewLogger(&bytes.Buffer{}, InfoLevel)

	b.ReportAllocs()

	for b.Loop() {
		logger.Info("Read {Path} in {Elapsed}", "project.assets.json", 42)
	}
}
