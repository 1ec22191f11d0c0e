package observability

import (
	"io"
	"os"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsReadTotal counts document reads by document kind and status
	DocumentsReadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectmodel_documents_read_total",
			Help: "Total number of documents read by kind and status",
		},
		[]string{"document", "status"}, // status: success, failure
	)

	// DocumentsWrittenTotal counts document writes by document kind and status
	DocumentsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectmodel_documents_written_total",
			Help: "Total number of documents written by kind and status",
		},
		[]string{"document", "status"},
	)

	// DocumentReadDuration tracks document read duration in seconds
	DocumentReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "projectmodel_document_read_duration_seconds",
			Help:    "Document read duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15), // 100us to 1.6s
		},
		[]string{"document"},
	)

	// ReaderBufferGrowsTotal counts token reader buffer growths
	ReaderBufferGrowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectmodel_reader_buffer_grows_total",
			Help: "Total number of times a token reader replaced its buffer with a larger one",
		},
		[]string{"document"},
	)

	// ReaderBufferBytes tracks the largest reader buffer seen per document kind
	ReaderBufferBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "projectmodel_reader_buffer_bytes",
			Help: "Largest token reader buffer size in bytes by document kind",
		},
		[]string{"document"},
	)

	// DGSpecHashesTotal counts dependency graph hashes by algorithm
	DGSpecHashesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectmodel_dgspec_hashes_total",
			Help: "Total number of dependency graph spec hashes by algorithm",
		},
		[]string{"algorithm"}, // fnv1a64, sha512
	)

	// LockFileValidationsTotal counts packages lock file validations by result
	LockFileValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectmodel_lock_file_validations_total",
			Help: "Total number of packages lock file validations by result",
		},
		[]string{"result"}, // valid, invalid, error
	)

	// NoOpChecksTotal counts restore cache no-op checks by result
	NoOpChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projectmodel_noop_checks_total",
			Help: "Total number of restore cache no-op checks by result",
		},
		[]string{"result"}, // noop, stale
	)
)

// documentKinds are the document label values exported before the first
// read or write.
var documentKinds = []string{DocumentPackageSpec, DocumentDGSpec, DocumentAssets, DocumentPackagesLock, DocumentCacheFile}

func init() {
	for _, document := range documentKinds {
		for _, status := range []string{"success", "failure"} {
			DocumentsReadTotal.WithLabelValues(document, status)
			DocumentsWrittenTotal.WithLabelValues(document, status)
		}
	}
}

// RecordDocumentRead records one read of a document kind.
func RecordDocumentRead(document string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	DocumentsReadTotal.WithLabelValues(document, status).Inc()
	DocumentReadDuration.WithLabelValues(document).Observe(time.Since(start).Seconds())
}

// RecordDocumentWrite records one write of a document kind.
func RecordDocumentWrite(document string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	DocumentsWrittenTotal.WithLabelValues(document, status).Inc()
}

// BufferGrowRecorder returns a token reader grow hook that records growth
// for a document kind.
func BufferGrowRecorder(document string) func(size int) {
	grows := ReaderBufferGrowsTotal.WithLabelValues(document)
	bytes := ReaderBufferBytes.WithLabelValues(document)
	return func(size int) {
		grows.Inc()
		bytes.Set(float64(size))
	}
}

// WriteMetrics writes every registered metric in the Prometheus text format.
func WriteMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// WriteMetricsFile writes the metrics text dump to path.
func WriteMetricsFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMetrics(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// GetCounterValue retrieves the current value of a counter metric with the given labels
// This is primarily intended for testing
func GetCounterValue(counter *prometheus.CounterVec, labels ...string) (float64, error) {
	metric, err := counter.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0, err
	}

	var pb dto.Metric
	if err := metric.Write(&pb); err != nil {
		return 0, err
	}

	if pb.Counter != nil {
		return pb.Counter.GetValue(), nil
	}

	return 0, nil
}
