package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestSetupTracing_Stdout(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	cfg := TracingConfig{
		Exporter:     ExporterStdout,
		SamplingRate: 1.0,
		Version:      "1.0.0",
		Output:       &out,
	}

	tp, err := SetupTracing(ctx, cfg)
	if err != nil {
		t.Fatalf("SetupTracing() failed: %v", err)
	}

	ctx, cmd := StartCommandSpan(ctx, "projectmodel hash", []string{"obj/a.dg"})
	_, hash := StartHashSpan(ctx, "fnv1a64", 2)
	hash.End()
	cmd.End()

	if err := ShutdownTracing(context.Background(), tp); err != nil {
		t.Fatalf("ShutdownTracing() failed: %v", err)
	}
	for _, want := range []string{`"dgspec.hash"`, `"command"`, "projectmodel hash", `"1.0.0"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stdout exporter output missing %s:\n%s", want, out.String())
		}
	}
}

func TestSetupTracing_None(t *testing.T) {
	ctx := context.Background()

	for _, exporter := range []string{ExporterNone, ""} {
		tp, err := SetupTracing(ctx, TracingConfig{Exporter: exporter, SamplingRate: 1})
		if err != nil {
			t.Fatalf("SetupTracing(%q) failed: %v", exporter, err)
		}
		ctx, span := StartCommandSpan(ctx, "projectmodel check", nil)
		if !span.SpanContext().IsSampled() {
			t.Errorf("SetupTracing(%q): command span not recorded", exporter)
		}
		RecordNoOp(ctx, true)
		span.End()
		if err := ShutdownTracing(ctx, tp); err != nil {
			t.Errorf("ShutdownTracing() failed: %v", err)
		}
	}
}

func TestSetupTracing_InvalidExporter(t *testing.T) {
	_, err := SetupTracing(context.Background(), TracingConfig{Exporter: "zipkin"})
	if err == nil || !strings.Contains(err.Error(), "unsupported exporter type: zipkin") {
		t.Errorf("SetupTracing() error = %v", err)
	}
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	if cfg.Exporter != ExporterNone {
		t.Errorf("Exporter = %s, want none", cfg.Exporter)
	}
	if cfg.SamplingRate != 1.0 {
		t.Errorf("SamplingRate = %f, want 1", cfg.SamplingRate)
	}
}

func TestStartCommandSpan_ParentsOperations(t *testing.T) {
	exporter := recordSpans(t)

	ctx, cmd := StartCommandSpan(context.Background(), "projectmodel lock validate", []string{"a", "b"})
	_, validate := StartLockFileValidationSpan(ctx, "packages.lock.json")
	validate.End()
	cmd.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}
	if spans[0].Parent.SpanID() != spans[1].SpanContext.SpanID() {
		t.Error("validation span is not a child of the command span")
	}
	if v, _ := spanAttr(spans[1], AttrCommand); v.AsString() != "projectmodel lock validate" {
		t.Errorf("command = %q", v.AsString())
	}
	if v, _ := spanAttr(spans[1], AttrArgCount); v.AsInt64() != 2 {
		t.Errorf("args = %d, want 2", v.AsInt64())
	}
}
