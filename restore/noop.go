package restore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/willibrandon/projectmodel/internal/filelock"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/projectmodel"
	"go.trai.ch/zerr"
)

// AssetsFileName is the assets file name inside a project's output folder.
const AssetsFileName = "project.assets.json"

var (
	// ErrProjectNotFound is returned when the graph does not hold the project.
	ErrProjectNotFound = zerr.New("project not found in dependency graph")

	// ErrNoCachePath is returned when a project has no restore metadata to
	// locate its cache file.
	ErrNoCachePath = zerr.New("project has no cache file path")
)

// NoOpResult is the outcome of a no-op check for one project.
type NoOpResult struct {
	ProjectName string
	CachePath   string

	// DgSpecHash is the fingerprint of the project's closure, to be stored
	// in the next cache file.
	DgSpecHash string

	// Cache is the cache file read from CachePath, or nil when none exists.
	Cache *projectmodel.CacheFile

	NoOp bool

	// Reason says why restore cannot be skipped. Empty when NoOp.
	Reason string
}

// NoOpChecker decides whether restoring a project would change anything.
type NoOpChecker struct {
	Logger observability.Logger

	// Replayer, when set, receives the cached diagnostics of a no-op
	// restore.
	Replayer *Replayer
}

// Check compares the cache file of projectName with the current state of
// graph. Restore is a no-op when the cache file is valid and successful,
// was written for the same closure fingerprint, and every file it expects
// is still on disk.
func (c *NoOpChecker) Check(ctx context.Context, graph *projectmodel.DependencyGraphSpec, projectName string) (*NoOpResult, error) {
	log := c.Logger
	if log == nil {
		log = observability.NewNullLogger()
	}

	project := graph.GetProjectSpec(projectName)
	if project == nil {
		return nil, zerr.With(zerr.Wrap(ErrProjectNotFound, "cannot check project"), "project", projectName)
	}
	cachePath := projectmodel.GetCacheFilePath(project)
	if cachePath == "" {
		return nil, zerr.With(zerr.Wrap(ErrNoCachePath, "cannot check project"), "project", projectName)
	}

	ctx, span := observability.StartNoOpCheckSpan(ctx, cachePath)
	var spanErr error
	defer func() { observability.EndSpanWithError(span, spanErr) }()

	hash, err := HashGraph(ctx, graph.WithProjectClosure(projectName))
	if err != nil {
		spanErr = err
		return nil, zerr.With(zerr.Wrap(err, "failed to hash dependency graph"), "project", projectName)
	}

	result := &NoOpResult{ProjectName: projectName, CachePath: cachePath, DgSpecHash: hash}
	result.Reason = c.evaluate(ctx, result, project, log)
	result.NoOp = result.Reason == ""

	observability.RecordNoOp(ctx, result.NoOp)
	if result.NoOp {
		observability.NoOpChecksTotal.WithLabelValues("noop").Inc()
		log.Info("No-op restore for {Project}, cache {CachePath} is up to date", projectName, cachePath)
		if c.Replayer != nil {
			c.Replayer.Replay(result.Cache.LogMessages, result.Cache.ProjectFilePath)
		}
	} else {
		observability.NoOpChecksTotal.WithLabelValues("stale").Inc()
		log.Debug("Restore needed for {Project}: {Reason}", projectName, result.Reason)
	}
	return result, nil
}

func (c *NoOpChecker) evaluate(ctx context.Context, result *NoOpResult, project *projectmodel.PackageSpec, log observability.Logger) string {
	if _, err := os.Stat(result.CachePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "cache file not found"
		}
		return err.Error()
	}

	cache := projectmodel.ReadCacheFileFromFile(result.CachePath, log)
	result.Cache = cache
	switch {
	case !cache.IsValid():
		return fmt.Sprintf("cache file version %d is not supported", cache.Version)
	case !cache.Success:
		return "the previous restore failed"
	case cache.DgSpecHash != result.DgSpecHash:
		return "the dependency graph changed"
	}

	if out := project.RestoreMetadata.OutputPath; out != "" {
		if _, err := os.Stat(filepath.Join(out, AssetsFileName)); err != nil {
			return "the assets file is missing"
		}
	}
	if cache.AnyPackagesMissing(ctx) {
		return "expected package files are missing"
	}
	return ""
}

// SaveCacheFile writes the cache file for a finished restore of the project
// checked by result. Concurrent writers of the same cache file are
// serialized through a lock file.
func SaveCacheFile(ctx context.Context, result *NoOpResult, projectPath string, success bool, expectedFiles []string, logs []*projectmodel.AssetsLogMessage) error {
	ctx, span := observability.StartDocumentWriteSpan(ctx, observability.DocumentCacheFile, result.CachePath)

	cache := projectmodel.NewCacheFile(result.DgSpecHash)
	cache.Success = success
	cache.ProjectFilePath = projectPath
	cache.ExpectedPackageFilePaths = append([]string{}, expectedFiles...)
	cache.LogMessages = append([]*projectmodel.AssetsLogMessage{}, logs...)

	err := filelock.With(ctx, result.CachePath, func() error {
		return projectmodel.WriteCacheFileFile(cache, result.CachePath)
	})
	observability.RecordDocumentWrite(observability.DocumentCacheFile, err)
	observability.EndSpanWithError(span, err)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write cache file"), "path", result.CachePath)
	}
	result.Cache = cache
	return nil
}

// HashAlgorithm names the algorithm GetHash uses in this environment.
func HashAlgorithm() string {
	if strings.EqualFold(os.Getenv(projectmodel.LegacyHashEnv), "true") {
		return "sha512"
	}
	return "fnv1a64"
}

// HashGraph fingerprints graph with HashAlgorithm and records the hash in
// the current trace and the hash counter.
func HashGraph(ctx context.Context, graph *projectmodel.DependencyGraphSpec) (string, error) {
	algorithm := HashAlgorithm()
	_, span := observability.StartHashSpan(ctx, algorithm, len(graph.Projects()))
	hash, err := graph.GetHash()
	observability.EndSpanWithError(span, err)
	if err == nil {
		observability.DGSpecHashesTotal.WithLabelValues(algorithm).Inc()
	}
	return hash, err
}
