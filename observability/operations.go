package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer name for project model operations
	TracerName = "github.com/willibrandon/projectmodel"
)

// Common attribute keys
const (
	AttrDocument     = attribute.Key("projectmodel.document")
	AttrPath         = attribute.Key("projectmodel.path")
	AttrOperation    = attribute.Key("projectmodel.operation")
	AttrProjectCount = attribute.Key("projectmodel.project.count")
	AttrAlgorithm    = attribute.Key("projectmodel.hash.algorithm")
	AttrValid        = attribute.Key("projectmodel.valid")
	AttrNoOp         = attribute.Key("projectmodel.noop")
	AttrCommand      = attribute.Key("projectmodel.command")
	AttrArgCount     = attribute.Key("projectmodel.command.args")
)

// Document kinds used for span and metric labels.
const (
	DocumentPackageSpec  = "package_spec"
	DocumentDGSpec       = "dgspec"
	DocumentAssets       = "assets"
	DocumentPackagesLock = "packages_lock"
	DocumentCacheFile    = "cache_file"
)

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartDocumentReadSpan starts a span for reading a document from path
func StartDocumentReadSpan(ctx context.Context, document, path string) (context.Context, trace.Span) {
	return startSpan(ctx, "document.read",
		AttrDocument.String(document),
		AttrPath.String(path),
		AttrOperation.String("read"),
	)
}

// StartDocumentWriteSpan starts a span for writing a document to path
func StartDocumentWriteSpan(ctx context.Context, document, path string) (context.Context, trace.Span) {
	return startSpan(ctx, "document.write",
		AttrDocument.String(document),
		AttrPath.String(path),
		AttrOperation.String("write"),
	)
}

// StartHashSpan starts a span for hashing a dependency graph spec
func StartHashSpan(ctx context.Context, algorithm string, projectCount int) (context.Context, trace.Span) {
	return startSpan(ctx, "dgspec.hash",
		AttrAlgorithm.String(algorithm),
		AttrProjectCount.Int(projectCount),
		AttrOperation.String("hash"),
	)
}

// StartLockFileValidationSpan starts a span for checking a packages lock file
// against the projects that produced it
func StartLockFileValidationSpan(ctx context.Context, path string) (context.Context, trace.Span) {
	return startSpan(ctx, "lockfile.validate",
		AttrPath.String(path),
		AttrOperation.String("validate"),
	)
}

// RecordValidation records the validation outcome on the current span.
func RecordValidation(ctx context.Context, valid bool, reason string) {
	attrs := []attribute.KeyValue{AttrValid.Bool(valid)}
	if reason != "" {
		attrs = append(attrs, attribute.String("projectmodel.invalid_reason", reason))
	}
	trace.SpanFromContext(ctx).SetAttributes(attrs...)
}

// StartNoOpCheckSpan starts a span for the restore cache no-op check
func StartNoOpCheckSpan(ctx context.Context, cachePath string) (context.Context, trace.Span) {
	return startSpan(ctx, "cache.noop_check",
		AttrPath.String(cachePath),
		AttrOperation.String("noop_check"),
	)
}

// RecordNoOp records the no-op outcome on the current span
func RecordNoOp(ctx context.Context, noop bool) {
	trace.SpanFromContext(ctx).SetAttributes(AttrNoOp.Bool(noop))
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
