package projectmodel

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/objectwriter"
	"github.com/willibrandon/projectmodel/observability"
	"go.trai.ch/zerr"
)

var (
	// ErrNilCacheFile is returned when a nil cache file is written.
	ErrNilCacheFile = zerr.New("cache file cannot be nil")

	// ErrInvalidCacheFile is returned when a cache document is not an object.
	ErrInvalidCacheFile = zerr.New("cache file must be a JSON object")
)

// LoadCacheFile reads a cache document and reports the first error. Trailing
// commas are accepted and the version may be a number or a string.
func LoadCacheFile(rd io.Reader, path string, opts ...jsonstream.Option) (*CacheFile, error) {
	opts = append([]jsonstream.Option{jsonstream.WithTrailingCommas()}, opts...)
	r, err := openDocument(rd, path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sr := &specReader{r: r, path: path}
	if r.TokenType() != jsonstream.StartObject {
		return nil, sr.wrapHere(ErrInvalidCacheFile)
	}
	cf, err := sr.readCacheFile()
	if err != nil {
		return nil, sr.fail(err)
	}
	return cf, nil
}

// ReadCacheFile reads a cache document. A document that cannot be read is
// logged as a warning and yields a cache file with no hash, which never
// matches a graph.
func ReadCacheFile(rd io.Reader, path string, log observability.Logger) *CacheFile {
	cf, err := LoadCacheFile(rd, path)
	if err != nil {
		if log != nil {
			log.Warn("Failed to read cache file {Path}: {Error}", path, err.Error())
		}
		return NewCacheFile("")
	}
	return cf
}

// ReadCacheFileFromFile reads the cache file at path.
func ReadCacheFileFromFile(path string, log observability.Logger) *CacheFile {
	data, err := os.ReadFile(path)
	if err != nil {
		if log != nil {
			log.Warn("Failed to read cache file {Path}: {Error}", path, err.Error())
		}
		return NewCacheFile("")
	}
	return ReadCacheFile(bytes.NewReader(data), path, log)
}

func (p *specReader) readCacheFile() (*CacheFile, error) {
	cf := &CacheFile{}
	var logs []logEntry
	hasLogs := false
	err := p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "version":
			var text string
			if text, err = p.r.ReadNextTokenAsString(); err == nil {
				cf.Version, err = strconv.Atoi(strings.TrimSpace(text))
			}
		case "dgSpecHash":
			cf.DgSpecHash, err = p.r.ReadNextTokenAsString()
		case "success":
			cf.Success, err = p.r.ReadNextTokenAsBoolOrFalse()
		case "projectFilePath", "projectFullPath":
			cf.ProjectFilePath, err = p.r.ReadNextTokenAsString()
		case "expectedFiles":
			var files []string
			if files, err = p.r.ReadNextStringArray(); err == nil {
				cf.ExpectedPackageFilePaths = append([]string{}, files...)
			}
		case "logs":
			hasLogs = true
			logs, err = p.readLogs()
		default:
			err = p.r.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if hasLogs {
		cf.LogMessages = append([]*AssetsLogMessage{}, finishLogs(logs, cf.ProjectFilePath)...)
	}
	return cf, nil
}

// WriteCacheFile writes cf to w.
func WriteCacheFile(w objectwriter.ObjectWriter, cf *CacheFile) error {
	if cf == nil {
		return ErrNilCacheFile
	}
	cw := &writer{w: w}
	cw.cacheFile(cf)
	return cw.err
}

// RenderCacheFile returns the indented JSON form of cf.
func RenderCacheFile(cf *CacheFile) ([]byte, error) {
	return objectwriter.Render(func(w objectwriter.ObjectWriter) error {
		return WriteCacheFile(w, cf)
	})
}

// WriteCacheFileFile writes cf to path, replacing any existing file.
func WriteCacheFileFile(cf *CacheFile, path string) error {
	data, err := RenderCacheFile(cf)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

func (w *writer) cacheFile(cf *CacheFile) {
	w.integer("version", cf.Version)
	w.value("dgSpecHash", cf.DgSpecHash)
	w.boolean("success", cf.Success)
	w.valueIfSet("projectFullPath", cf.ProjectFilePath)
	if cf.ExpectedPackageFilePaths != nil {
		w.array("expectedFiles", cf.ExpectedPackageFilePaths)
	}
	if cf.LogMessages != nil {
		w.logMessages(cf.LogMessages, cf.ProjectFilePath)
	}
}
