package observability

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRecordDocumentRead(t *testing.T) {
	before, _ := GetCounterValue(DocumentsReadTotal, DocumentAssets, "success")
	beforeFailed, _ := GetCounterValue(DocumentsReadTotal, DocumentAssets, "failure")

	RecordDocumentRead(DocumentAssets, time.Now(), nil)
	RecordDocumentRead(DocumentAssets, time.Now(), nil)
	RecordDocumentRead(DocumentAssets, time.Now(), errors.New("bad"))

	after, err := GetCounterValue(DocumentsReadTotal, DocumentAssets, "success")
	if err != nil {
		t.Fatalf("GetCounterValue() failed: %v", err)
	}
	if after-before != 2 {
		t.Errorf("success reads increased by %v, want 2", after-before)
	}
	afterFailed, _ := GetCounterValue(DocumentsReadTotal, DocumentAssets, "failure")
	if afterFailed-beforeFailed != 1 {
		t.Errorf("failed reads increased by %v, want 1", afterFailed-beforeFailed)
	}
}

func TestRecordDocumentWrite(t *testing.T) {
	before, _ := GetCounterValue(DocumentsWrittenTotal, DocumentPackagesLock, "failure")

	RecordDocumentWrite(DocumentPackagesLock, errors.New("disk full"))

	after, _ := GetCounterValue(DocumentsWrittenTotal, DocumentPackagesLock, "failure")
	if after-before != 1 {
		t.Errorf("failed writes increased by %v, want 1", after-before)
	}
}

func TestBufferGrowRecorder(t *testing.T) {
	before, _ := GetCounterValue(ReaderBufferGrowsTotal, DocumentDGSpec)

	hook := BufferGrowRecorder(DocumentDGSpec)
	hook(2048)
	hook(4096)

	after, _ := GetCounterValue(ReaderBufferGrowsTotal, DocumentDGSpec)
	if after-before != 2 {
		t.Errorf("grows increased by %v, want 2", after-before)
	}
}

func TestWriteMetrics(t *testing.T) {
	DGSpecHashesTotal.WithLabelValues("sha512").Inc()
	LockFileValidationsTotal.WithLabelValues("valid").Inc()
	NoOpChecksTotal.WithLabelValues("noop").Inc()
	RecordDocumentRead(DocumentPackageSpec, time.Now(), nil)

	var buf bytes.Buffer
	if err := WriteMetrics(&buf); err != nil {
		t.Fatalf("WriteMetrics() failed: %v", err)
	}
	body := buf.String()

	for _, metric := range []string{
		"projectmodel_dgspec_hashes_total",
		"projectmodel_lock_file_validations_total",
		"projectmodel_noop_checks_total",
		"projectmodel_documents_read_total",
		"projectmodel_document_read_duration_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("Metrics output missing: %s", metric)
		}
	}
	if !strings.Contains(body, "# HELP") || !strings.Contains(body, "# TYPE") {
		t.Error("Metrics output missing HELP or TYPE comments")
	}
}

func TestWriteMetricsFile(t *testing.T) {
	NoOpChecksTotal.WithLabelValues("stale").Inc()
	path := filepath.Join(t.TempDir(), "metrics.prom")

	if err := WriteMetricsFile(path); err != nil {
		t.Fatalf("WriteMetricsFile() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `projectmodel_noop_checks_total{result="stale"}`) {
		t.Errorf("metrics file missing stale no-op counter:\n%s", data)
	}
}

func TestWriteMetrics_DocumentSeriesBeforeFirstUse(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMetrics(&buf); err != nil {
		t.Fatalf("WriteMetrics() failed: %v", err)
	}
	body := buf.String()

	for _, want := range []string{
		"# TYPE projectmodel_documents_read_total counter",
		"# TYPE projectmodel_documents_written_total counter",
		`projectmodel_documents_read_total{document="cache_file",status="failure"}`,
		`projectmodel_documents_written_total{document="packages_lock",status="success"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
