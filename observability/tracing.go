package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ServiceName names the tool on exported spans.
const ServiceName = "projectmodel"

// Span exporters accepted by SetupTracing.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// TracingConfig selects where the spans of one command run go.
type TracingConfig struct {
	// Exporter is ExporterNone, ExporterStdout or ExporterOTLP. Empty means
	// ExporterNone.
	Exporter string

	// Endpoint is the OTLP gRPC collector address, e.g. localhost:4317.
	Endpoint string

	// SamplingRate is the fraction of command spans kept, 0 to 1.
	SamplingRate float64

	// Version is the tool version recorded on every span.
	Version string

	// Output receives spans from the stdout exporter. Nil means stderr, so
	// rendered documents on stdout stay clean.
	Output io.Writer
}

// DefaultTracingConfig keeps every span and exports none.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		Exporter:     ExporterNone,
		SamplingRate: 1.0,
		Version:      "0.0.0-dev",
	}
}

// SetupTracing installs the global tracer provider for a command run. With
// ExporterNone spans are still created so document operations can attach
// attributes, but nothing leaves the process.
func SetupTracing(ctx context.Context, cfg TracingConfig) (*sdktrace.TracerProvider, error) {
	exporter, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
		resource.WithProcessExecutableName(),
		resource.WithProcessRuntimeVersion(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracing resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRate))),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// newSpanExporter returns nil for ExporterNone.
func newSpanExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterNone, "":
		return nil, nil
	case ExporterStdout:
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(out))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout span exporter: %w", err)
		}
		return exporter, nil
	case ExporterOTLP:
		conn, err := grpc.NewClient(cfg.Endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to OTLP collector %q: %w", cfg.Endpoint, err)
		}
		var exporter *otlptrace.Exporter
		exporter, err = otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP span exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}
}

// ShutdownTracing flushes pending spans, waiting at most five seconds.
func ShutdownTracing(ctx context.Context, tp *sdktrace.TracerProvider) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to flush spans: %w", err)
	}
	return nil
}

// StartCommandSpan starts the span that parents every document operation of
// one command run.
func StartCommandSpan(ctx context.Context, command string, args []string) (context.Context, trace.Span) {
	return startSpan(ctx, "command",
		AttrCommand.String(command),
		AttrArgCount.Int(len(args)),
		AttrOperation.String("command"),
	)
}
