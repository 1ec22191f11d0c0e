package projectmodel

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/willibrandon/projectmodel/internal/equality"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	// CacheFileVersion is the cache file format version written by this
	// package. Older versions are read but are not valid.
	CacheFileVersion = 2

	// CacheFileName is the no-op cache file name inside a project's output
	// folder.
	CacheFileName = "project.nuget.cache"
)

var errPackageFileMissing = zerr.New("expected package file is missing")

// CacheFile records the outcome of a restore so that the next restore of
// an unchanged graph can be skipped.
type CacheFile struct {
	Version    int
	DgSpecHash string
	Success    bool

	// ProjectFilePath is omitted from the document when empty.
	ProjectFilePath string

	// ExpectedPackageFilePaths and LogMessages are omitted from the document
	// when nil. An empty non-nil slice is written as an empty array.
	ExpectedPackageFilePaths []string
	LogMessages              []*AssetsLogMessage
}

// NewCacheFile creates a cache file of the current version for hash.
func NewCacheFile(dgSpecHash string) *CacheFile {
	return &CacheFile{Version: CacheFileVersion, DgSpecHash: dgSpecHash}
}

// IsValid reports whether the file has a version this package understands.
func (c *CacheFile) IsValid() bool {
	return c != nil && c.Version >= CacheFileVersion
}

// AnyPackagesMissing reports whether any expected package file is absent
// from disk. Files are checked concurrently and the first missing file
// stops the check. A cancelled context counts as missing.
func (c *CacheFile) AnyPackagesMissing(ctx context.Context) bool {
	if len(c.ExpectedPackageFilePaths) == 0 {
		return false
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0) * 4)
	for _, path := range c.ExpectedPackageFilePaths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return zerr.With(errPackageFileMissing, "path", path)
			}
			return nil
		})
	}
	return g.Wait() != nil
}

// Equals compares the version, hash and success flag exactly, the project
// path with the path comparer, the expected files in order and the log
// messages in any order.
func (c *CacheFile) Equals(other *CacheFile) bool {
	if c == nil || other == nil {
		return c == nil && other == nil
	}
	return c.Version == other.Version &&
		c.DgSpecHash == other.DgSpecHash &&
		c.Success == other.Success &&
		equality.Path.Equal(c.ProjectFilePath, other.ProjectFilePath) &&
		equality.OrderedStrings(c.ExpectedPackageFilePaths, other.ExpectedPackageFilePaths, equality.Path) &&
		equality.Multiset(c.LogMessages, other.LogMessages, (*AssetsLogMessage).HashCode, (*AssetsLogMessage).Equals)
}

// HashCode agrees with Equals.
func (c *CacheFile) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddInt(c.Version)
	h.AddString(c.DgSpecHash)
	h.AddBool(c.Success)
	h.AddUint64(equality.Path.Hash(c.ProjectFilePath))
	h.AddSequence(equality.HashAll(c.ExpectedPackageFilePaths, equality.Path.Hash))
	h.AddUnordered(equality.HashAll(c.LogMessages, (*AssetsLogMessage).HashCode))
	return h.Sum()
}

// GetCacheFilePath returns where the cache file of project lives: the
// configured cache file path, else the output path, else the obj folder next
// to the project file. It returns "" when project has no restore metadata.
func GetCacheFilePath(project *PackageSpec) string {
	if project == nil || project.RestoreMetadata == nil {
		return ""
	}
	md := project.RestoreMetadata
	switch {
	case md.CacheFilePath != "":
		return md.CacheFilePath
	case md.OutputPath != "":
		return filepath.Join(md.OutputPath, CacheFileName)
	case md.ProjectPath != "":
		return filepath.Join(filepath.Dir(md.ProjectPath), "obj", CacheFileName)
	}
	return ""
}
