package projectmodel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/objectwriter"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/version"
	"go.trai.ch/zerr"
)

// ErrNilPackagesLockFile is returned when a nil packages lock file is written.
var ErrNilPackagesLockFile = zerr.New("packages lock file cannot be nil")

// LoadPackagesLockFile reads a packages lock document and reports the first
// error.
func LoadPackagesLockFile(rd io.Reader, path string, opts ...jsonstream.Option) (*PackagesLockFile, error) {
	r, err := openDocument(rd, path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sr := &specReader{r: r, path: path}
	lf := &PackagesLockFile{Version: InvalidLockFileVersion, Path: path}
	err = r.ReadObject(func(prop string) error {
		switch prop {
		case "version":
			if err := sr.next(); err != nil {
				return err
			}
			v, err := r.GetInt()
			lf.Version = v
			return err
		case "dependencies":
			targets, err := sr.readLockedTargets()
			lf.Targets = targets
			return err
		}
		return r.Skip()
	})
	if err != nil {
		return nil, sr.fail(err)
	}
	return lf, nil
}

// ReadPackagesLockFile reads a packages lock document. A document that cannot
// be read is logged as a warning and yields a lock file with
// InvalidLockFileVersion.
func ReadPackagesLockFile(rd io.Reader, path string, log observability.Logger) *PackagesLockFile {
	lf, err := LoadPackagesLockFile(rd, path)
	if err != nil {
		if log != nil {
			log.Warn("Error reading lock file {Path}: {Error}", path, err.Error())
		}
		return &PackagesLockFile{Version: InvalidLockFileVersion, Path: path}
	}
	return lf
}

// ReadPackagesLockFileFromFile reads the packages lock file at path.
func ReadPackagesLockFileFromFile(path string, log observability.Logger) *PackagesLockFile {
	data, err := os.ReadFile(path)
	if err != nil {
		if log != nil {
			log.Warn("Error reading lock file {Path}: {Error}", path, err.Error())
		}
		return &PackagesLockFile{Version: InvalidLockFileVersion, Path: path}
	}
	return ReadPackagesLockFile(bytes.NewReader(data), path, log)
}

func (p *specReader) readLockedTargets() ([]*PackagesLockFileTarget, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var targets []*PackagesLockFileTarget
	err := p.r.ReadObject(func(key string) error {
		tfm, rid := splitKey(key)
		target := &PackagesLockFileTarget{TargetFramework: frameworks.Parse(tfm), RuntimeIdentifier: rid}
		if err := p.next(); err != nil {
			return err
		}
		err := p.r.ReadObject(func(id string) error {
			dep, err := p.readLockedDependency(id)
			if err != nil {
				return err
			}
			target.Dependencies = append(target.Dependencies, dep)
			return nil
		})
		if err != nil {
			return err
		}
		targets = append(targets, target)
		return nil
	})
	return targets, err
}

func (p *specReader) readLockedDependency(id string) (*LockFileDependency, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	dep := &LockFileDependency{ID: id}
	err := p.r.ReadObject(func(prop string) error {
		switch prop {
		case "type":
			text, err := p.r.ReadNextTokenAsString()
			if err != nil {
				return err
			}
			t, ok := ParsePackageDependencyType(text)
			if !ok {
				return zerr.New(fmt.Sprintf("'%s' is not a valid dependency type.", text))
			}
			dep.Type = t
		case "requested":
			text, err := p.r.ReadNextTokenAsString()
			if err != nil || text == "" {
				return err
			}
			dep.RequestedVersion, err = version.ParseVersionRange(text)
			return err
		case "resolved":
			text, err := p.r.ReadNextTokenAsString()
			if err != nil || text == "" {
				return err
			}
			dep.ResolvedVersion, err = version.Parse(text)
			return err
		case "contentHash", "sha512":
			text, err := p.r.ReadNextTokenAsString()
			dep.ContentHash = text
			return err
		case "dependencies":
			deps, err := p.readPackageDependencies()
			dep.Dependencies = deps
			return err
		default:
			return p.r.Skip()
		}
		return nil
	})
	return dep, err
}

// WritePackagesLockFile writes lf to w.
func WritePackagesLockFile(w objectwriter.ObjectWriter, lf *PackagesLockFile) error {
	if lf == nil {
		return ErrNilPackagesLockFile
	}
	pw := &writer{w: w}
	pw.packagesLockFile(lf)
	return pw.err
}

// RenderPackagesLockFile returns the indented JSON form of lf.
func RenderPackagesLockFile(lf *PackagesLockFile) ([]byte, error) {
	return objectwriter.Render(func(w objectwriter.ObjectWriter) error {
		return WritePackagesLockFile(w, lf)
	})
}

// WritePackagesLockFileFile writes lf to path, replacing any existing file.
func WritePackagesLockFileFile(lf *PackagesLockFile, path string) error {
	data, err := RenderPackagesLockFile(lf)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

func (w *writer) packagesLockFile(lf *PackagesLockFile) {
	w.integer("version", lf.Version)
	w.objectStart("dependencies")
	targets := slices.Clone(lf.Targets)
	slices.SortStableFunc(targets, func(a, b *PackagesLockFileTarget) int {
		return strings.Compare(a.Name(), b.Name())
	})
	for _, t := range targets {
		w.objectStart(t.Name())
		deps := slices.Clone(t.Dependencies)
		slices.SortStableFunc(deps, func(a, b *LockFileDependency) int {
			if c := int(a.Type) - int(b.Type); c != 0 {
				return c
			}
			return strings.Compare(strings.ToLower(a.ID), strings.ToLower(b.ID))
		})
		for _, d := range deps {
			w.lockedDependency(d)
		}
		w.objectEnd()
	}
	w.objectEnd()
}

func (w *writer) lockedDependency(d *LockFileDependency) {
	w.objectStart(d.ID)
	w.value("type", d.Type.String())
	if d.RequestedVersion != nil {
		w.value("requested", d.RequestedVersion.ToNormalizedString())
	}
	if d.ResolvedVersion != nil {
		w.value("resolved", d.ResolvedVersion.ToNormalizedString())
	}
	w.valueIfSet("contentHash", d.ContentHash)
	if len(d.Dependencies) > 0 {
		deps := slices.Clone(d.Dependencies)
		slices.SortStableFunc(deps, func(a, b PackageDependency) int {
			return strings.Compare(strings.ToLower(a.ID), strings.ToLower(b.ID))
		})
		w.objectStart("dependencies")
		for _, dep := range deps {
			vr := dep.VersionRange
			if vr == nil {
				vr = version.All()
			}
			if d.Type == DependencyProject {
				w.value(dep.ID, vr.ToNormalizedString())
			} else {
				w.value(dep.ID, vr.ToLegacyShortString())
			}
		}
		w.objectEnd()
	}
	w.objectEnd()
}
