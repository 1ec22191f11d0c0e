package projectmodel

import (
	"bytes"
	"cmp"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/objectwriter"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/version"
	"go.trai.ch/zerr"
)

// ErrNilLockFile is returned when a nil lock file is written.
var ErrNilLockFile = zerr.New("lock file cannot be nil")

// LoadLockFile reads an assets document and reports the first error.
// path is recorded on the result and used in error messages.
func LoadLockFile(rd io.Reader, path string, opts ...jsonstream.Option) (*LockFile, error) {
	r, err := openDocument(rd, path, opts...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	lr := &lockFileReader{specReader: specReader{r: r, path: path}}
	lf, err := lr.readLockFile()
	if err != nil {
		return nil, lr.fail(err)
	}
	lf.Path = path
	return lf, nil
}

// ReadLockFile reads an assets document. A document that cannot be read is
// logged as an error and yields an invalid lock file carrying only path.
func ReadLockFile(rd io.Reader, path string, log observability.Logger) *LockFile {
	lf, err := LoadLockFile(rd, path)
	if err != nil {
		if log != nil {
			log.Error("Error reading lock file {Path}: {Error}", path, err.Error())
		}
		return &LockFile{Version: InvalidLockFileVersion, Path: path}
	}
	return lf
}

// ParseLockFile reads an assets document held in memory.
func ParseLockFile(data []byte, path string, log observability.Logger) *LockFile {
	return ReadLockFile(bytes.NewReader(data), path, log)
}

// ReadLockFileFromFile reads the assets file at path. A missing or
// unreadable file is logged and yields an invalid lock file.
func ReadLockFileFromFile(path string, log observability.Logger) *LockFile {
	f, err := os.Open(path)
	if err != nil {
		if log != nil {
			log.Error("Error reading lock file {Path}: {Error}", path, err.Error())
		}
		return &LockFile{Version: InvalidLockFileVersion, Path: path}
	}
	defer f.Close()
	return ReadLockFile(f, path, log)
}

type lockFileReader struct {
	specReader
}

// logEntry remembers which optional fields a log message carried, so that
// defaults can be applied once the whole document is read.
type logEntry struct {
	msg          *AssetsLogMessage
	levelOK      bool
	codeOK       bool
	hasFilePath  bool
	warningLevel librarymodel.WarningLevel
}

func (p *lockFileReader) readLockFile() (*LockFile, error) {
	lf := &LockFile{Version: InvalidLockFileVersion}
	var logs []logEntry
	err := p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "version":
			if err = p.next(); err == nil {
				lf.Version, err = p.r.GetInt()
			}
		case "libraries":
			lf.Libraries, err = p.readLibraries()
		case "targets":
			lf.Targets, err = p.readTargets()
		case "projectFileDependencyGroups":
			lf.ProjectFileDependencyGroups, err = p.readProjectFileDependencyGroups()
		case "packageFolders":
			lf.PackageFolders, err = p.readItems()
		case "project":
			if err = p.next(); err == nil {
				lf.PackageSpec, err = p.readPackageSpec("", "")
			}
		case "centralTransitiveDependencyGroups":
			lf.CentralTransitiveDependencyGroups, err = p.readCentralTransitiveGroups()
		case "logs":
			logs, err = p.readLogs()
		default:
			err = p.r.Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	projectPath := ""
	if lf.PackageSpec != nil && lf.PackageSpec.RestoreMetadata != nil {
		projectPath = lf.PackageSpec.RestoreMetadata.ProjectPath
	}
	lf.LogMessages = finishLogs(logs, projectPath)
	return lf, nil
}

// splitKey splits "a/b" at the first slash.
func splitKey(key string) (string, string) {
	name, rest, _ := strings.Cut(key, "/")
	return name, rest
}

func parseKeyVersion(text string) (*version.NuGetVersion, error) {
	if text == "" {
		return nil, nil
	}
	return version.Parse(text)
}

func (p *lockFileReader) readLibraries() ([]*LockFileLibrary, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var libs []*LockFileLibrary
	err := p.r.ReadObject(func(key string) error {
		name, versionText := splitKey(key)
		v, err := parseKeyVersion(versionText)
		if err != nil {
			return err
		}
		lib := &LockFileLibrary{Name: name, Version: v}
		if err := p.next(); err != nil {
			return err
		}
		err = p.r.ReadObject(func(prop string) error {
			var err error
			switch prop {
			case "type":
				lib.Type, err = p.r.ReadNextTokenAsString()
			case "path":
				lib.Path, err = p.r.ReadNextTokenAsString()
			case "msbuildProject":
				lib.MSBuildProject, err = p.r.ReadNextTokenAsString()
			case "sha512":
				lib.Sha512, err = p.r.ReadNextTokenAsString()
			case "servicable":
				lib.IsServiceable, err = p.r.ReadNextTokenAsBoolOrFalse()
			case "hasTools":
				lib.HasTools, err = p.r.ReadNextTokenAsBoolOrFalse()
			case "files":
				var files []string
				if files, err = p.r.ReadNextStringArray(); err == nil {
					lib.Files = toForwardSlashes(files)
				}
			default:
				err = p.r.Skip()
			}
			return err
		})
		if err != nil {
			return err
		}
		libs = append(libs, lib)
		return nil
	})
	return libs, err
}

func toForwardSlashes(paths []string) []string {
	if paths == nil {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = strings.ReplaceAll(p, `\`, "/")
	}
	return out
}

func (p *lockFileReader) readTargets() ([]*LockFileTarget, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var targets []*LockFileTarget
	err := p.r.ReadObject(func(key string) error {
		tfm, rid := splitKey(key)
		target := &LockFileTarget{TargetFramework: frameworks.Parse(tfm), RuntimeIdentifier: rid}
		if err := p.next(); err != nil {
			return err
		}
		err := p.r.ReadObject(func(libKey string) error {
			lib, err := p.readTargetLibrary(libKey)
			if err != nil {
				return err
			}
			target.Libraries = append(target.Libraries, lib)
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

func (p *lockFileReader) readTargetLibrary(key string) (*LockFileTargetLibrary, error) {
	name, versionText := splitKey(key)
	v, err := parseKeyVersion(versionText)
	if err != nil {
		return nil, err
	}
	lib := &LockFileTargetLibrary{Name: name, Version: v}
	if err := p.next(); err != nil {
		return nil, err
	}
	err = p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "type":
			lib.Type, err = p.r.ReadNextTokenAsString()
		case "framework":
			lib.Framework, err = p.r.ReadNextTokenAsString()
		case "packageType":
			var names []string
			if names, err = p.r.ReadNextStringOrArrayOfStrings(); err == nil {
				for _, n := range names {
					lib.PackageType = append(lib.PackageType, librarymodel.PackageType{Name: n})
				}
			}
			if err == nil && p.r.TokenType() == jsonstream.StartObject {
				err = p.r.Skip()
			}
		case "dependencies":
			lib.Dependencies, err = p.readPackageDependencies()
		case "frameworkAssemblies":
			lib.FrameworkAssemblies, err = p.r.ReadNextStringArray()
		case "frameworkReferences":
			lib.FrameworkReferences, err = p.r.ReadNextStringArray()
		case "runtime":
			lib.RuntimeAssemblies, err = p.readItems()
		case "compile":
			lib.CompileTimeAssemblies, err = p.readItems()
		case "resource":
			lib.ResourceAssemblies, err = p.readItems()
		case "native":
			lib.NativeLibraries, err = p.readItems()
		case "build":
			lib.Build, err = p.readItems()
		case "buildMultiTargeting":
			lib.BuildMultiTargeting, err = p.readItems()
		case "contentFiles":
			lib.ContentFiles, err = p.readItems()
		case "runtimeTargets":
			lib.RuntimeTargets, err = p.readItems()
		case "tools":
			lib.ToolsAssemblies, err = p.readItems()
		case "embed":
			lib.EmbedAssemblies, err = p.readItems()
		case "link":
			lib.LinkAssemblies, err = p.readItems()
		default:
			// Includes "locked", which older writers emitted and which
			// carries no information.
			err = p.r.Skip()
		}
		return err
	})
	return lib, err
}

func (p *specReader) readPackageDependencies() ([]PackageDependency, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var deps []PackageDependency
	err := p.r.ReadObject(func(id string) error {
		text, err := p.r.ReadNextTokenAsString()
		if err != nil {
			return err
		}
		var vr *version.Range
		if text != "" {
			if vr, err = version.ParseVersionRange(text); err != nil {
				return err
			}
		}
		deps = append(deps, PackageDependency{ID: id, VersionRange: vr})
		return nil
	})
	return deps, err
}

// readItems reads an object of path to property bag.
func (p *lockFileReader) readItems() ([]*LockFileItem, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var items []*LockFileItem
	err := p.r.ReadObject(func(path string) error {
		item := NewLockFileItem(path)
		if err := p.next(); err != nil {
			return err
		}
		err := p.r.ReadObject(func(prop string) error {
			value, err := p.r.ReadNextTokenAsString()
			if err != nil {
				return err
			}
			if tt := p.r.TokenType(); tt == jsonstream.True || tt == jsonstream.False {
				value = strings.ToLower(value)
			}
			item.Properties[prop] = value
			return nil
		})
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (p *lockFileReader) readProjectFileDependencyGroups() ([]*ProjectFileDependencyGroup, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var groups []*ProjectFileDependencyGroup
	err := p.r.ReadObject(func(fw string) error {
		deps, err := p.r.ReadNextStringArray()
		if err != nil {
			return err
		}
		if deps == nil {
			deps = []string{}
		}
		groups = append(groups, &ProjectFileDependencyGroup{FrameworkName: fw, Dependencies: deps})
		return nil
	})
	return groups, err
}

func (p *lockFileReader) readCentralTransitiveGroups() ([]*CentralTransitiveDependencyGroup, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var groups []*CentralTransitiveDependencyGroup
	err := p.r.ReadObject(func(fw string) error {
		deps, err := p.readCentralTransitiveDependencies()
		if err != nil {
			return err
		}
		groups = append(groups, &CentralTransitiveDependencyGroup{
			Framework:              frameworks.Parse(fw),
			TransitiveDependencies: deps,
		})
		return nil
	})
	return groups, err
}

func (p *specReader) readLogs() ([]logEntry, error) {
	if err := p.next(); err != nil {
		return nil, err
	}
	var entries []logEntry
	err := p.r.ReadArray(func() error {
		entry, err := p.readLog()
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		return nil
	})
	return entries, err
}

func (p *specReader) readLog() (logEntry, error) {
	e := logEntry{msg: NewAssetsLogMessage(librarymodel.LogLevelDebug, 0, "")}
	m := e.msg
	readInt := func(dst *int) error {
		if err := p.next(); err != nil {
			return err
		}
		n, err := p.r.GetInt()
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
	err := p.r.ReadObject(func(prop string) error {
		var err error
		switch prop {
		case "code":
			var text string
			if text, err = p.r.ReadNextTokenAsString(); err == nil {
				m.Code, e.codeOK = librarymodel.ParseLogCode(text)
			}
		case "level":
			var text string
			if text, err = p.r.ReadNextTokenAsString(); err == nil {
				m.Level, e.levelOK = librarymodel.ParseLogLevel(text)
			}
		case "warningLevel":
			var n int
			if err = readInt(&n); err == nil {
				e.warningLevel = librarymodel.WarningLevel(n)
			}
		case "filePath":
			e.hasFilePath = true
			m.FilePath, err = p.r.ReadNextTokenAsString()
		case "startLineNumber":
			err = readInt(&m.StartLineNumber)
		case "startColumnNumber":
			err = readInt(&m.StartColumnNumber)
		case "endLineNumber":
			err = readInt(&m.EndLineNumber)
		case "endColumnNumber":
			err = readInt(&m.EndColumnNumber)
		case "message":
			m.Message, err = p.r.ReadNextTokenAsString()
		case "libraryId":
			m.LibraryID, err = p.r.ReadNextTokenAsString()
		case "targetGraphs":
			m.TargetGraphs, err = p.r.ReadNextStringArray()
		default:
			err = p.r.Skip()
		}
		return err
	})
	return e, err
}

// finishLogs drops messages without a valid level and code and applies the
// defaults that depend on other fields.
func finishLogs(entries []logEntry, projectPath string) []*AssetsLogMessage {
	var out []*AssetsLogMessage
	for _, e := range entries {
		if !e.levelOK || !e.codeOK {
			continue
		}
		if e.msg.Level == librarymodel.LogLevelWarning {
			e.msg.WarningLevel = e.warningLevel
		}
		if !e.hasFilePath {
			e.msg.FilePath = projectPath
		}
		out = append(out, e.msg)
	}
	return out
}

// WriteLockFile writes lf to w.
func WriteLockFile(w objectwriter.ObjectWriter, lf *LockFile) error {
	if lf == nil {
		return ErrNilLockFile
	}
	lw := &writer{w: w}
	lw.lockFile(lf)
	return lw.err
}

// RenderLockFile returns the indented JSON form of lf.
func RenderLockFile(lf *LockFile) ([]byte, error) {
	return objectwriter.Render(func(w objectwriter.ObjectWriter) error {
		return WriteLockFile(w, lf)
	})
}

// WriteLockFileFile writes lf to path, replacing any existing file.
func WriteLockFileFile(lf *LockFile, path string) error {
	data, err := RenderLockFile(lf)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

func (w *writer) lockFile(lf *LockFile) {
	w.integer("version", lf.Version)

	w.objectStart("targets")
	targets := slices.Clone(lf.Targets)
	slices.SortStableFunc(targets, func(a, b *LockFileTarget) int {
		return strings.Compare(a.Name(), b.Name())
	})
	for _, t := range targets {
		w.objectStart(t.Name())
		for _, lib := range sortedTargetLibraries(t.Libraries) {
			w.targetLibrary(lib)
		}
		w.objectEnd()
	}
	w.objectEnd()

	w.objectStart("libraries")
	libs := slices.Clone(lf.Libraries)
	slices.SortStableFunc(libs, func(a, b *LockFileLibrary) int {
		return compareLibraryIdentity(a.Name, a.Version, b.Name, b.Version)
	})
	for _, lib := range libs {
		w.library(lib)
	}
	w.objectEnd()

	w.objectStart("projectFileDependencyGroups")
	groups := slices.Clone(lf.ProjectFileDependencyGroups)
	slices.SortStableFunc(groups, func(a, b *ProjectFileDependencyGroup) int {
		return strings.Compare(a.FrameworkName, b.FrameworkName)
	})
	for _, g := range groups {
		w.array(g.FrameworkName, slices.Sorted(slices.Values(g.Dependencies)))
	}
	w.objectEnd()

	if len(lf.PackageFolders) > 0 {
		w.items("packageFolders", lf.PackageFolders)
	}

	if lf.Version >= 2 && lf.PackageSpec != nil {
		w.objectStart("project")
		w.packageSpec(lf.PackageSpec)
		w.objectEnd()
	}

	if len(lf.CentralTransitiveDependencyGroups) > 0 {
		ctdg := slices.Clone(lf.CentralTransitiveDependencyGroups)
		slices.SortStableFunc(ctdg, func(a, b *CentralTransitiveDependencyGroup) int {
			return strings.Compare(a.FrameworkName(), b.FrameworkName())
		})
		w.objectStart("centralTransitiveDependencyGroups")
		for _, g := range ctdg {
			if len(g.TransitiveDependencies) == 0 {
				w.objectStart(g.FrameworkName())
				w.objectEnd()
				continue
			}
			w.centralTransitiveDependencies(g.FrameworkName(), g.TransitiveDependencies)
		}
		w.objectEnd()
	}

	if lf.Version >= 3 && len(lf.LogMessages) > 0 {
		projectPath := ""
		if lf.PackageSpec != nil && lf.PackageSpec.RestoreMetadata != nil {
			projectPath = lf.PackageSpec.RestoreMetadata.ProjectPath
		}
		w.logMessages(lf.LogMessages, projectPath)
	}
}

func compareLibraryIdentity(an string, av *version.NuGetVersion, bn string, bv *version.NuGetVersion) int {
	if c := cmp.Compare(strings.ToLower(an), strings.ToLower(bn)); c != 0 {
		return c
	}
	switch {
	case av == nil && bv == nil:
		return 0
	case av == nil:
		return -1
	case bv == nil:
		return 1
	}
	return av.Compare(bv)
}

func sortedTargetLibraries(libs []*LockFileTargetLibrary) []*LockFileTargetLibrary {
	sorted := slices.Clone(libs)
	slices.SortStableFunc(sorted, func(a, b *LockFileTargetLibrary) int {
		return compareLibraryIdentity(a.Name, a.Version, b.Name, b.Version)
	})
	return sorted
}

func (w *writer) library(lib *LockFileLibrary) {
	w.objectStart(lib.Key())
	w.boolIfTrue("servicable", lib.IsServiceable)
	w.valueIfSet("sha512", lib.Sha512)
	w.value("type", lib.Type)
	w.valueIfSet("path", lib.Path)
	w.valueIfSet("msbuildProject", lib.MSBuildProject)
	w.boolIfTrue("hasTools", lib.HasTools)
	if len(lib.Files) > 0 {
		w.array("files", slices.Sorted(slices.Values(toForwardSlashes(lib.Files))))
	}
	w.objectEnd()
}

func (w *writer) targetLibrary(lib *LockFileTargetLibrary) {
	w.objectStart(lib.Key())
	w.valueIfSet("type", lib.Type)
	w.valueIfSet("framework", lib.Framework)
	if len(lib.PackageType) > 0 {
		names := make([]string, len(lib.PackageType))
		for i, pt := range lib.PackageType {
			names[i] = pt.Name
		}
		w.array("packageType", names)
	}
	if len(lib.Dependencies) > 0 {
		deps := slices.Clone(lib.Dependencies)
		slices.SortStableFunc(deps, func(a, b PackageDependency) int {
			return strings.Compare(a.ID, b.ID)
		})
		w.objectStart("dependencies")
		for _, d := range deps {
			vr := d.VersionRange
			if vr == nil {
				vr = version.All()
			}
			w.value(d.ID, vr.ToLegacyShortString())
		}
		w.objectEnd()
	}
	if len(lib.FrameworkAssemblies) > 0 {
		w.array("frameworkAssemblies", slices.Sorted(slices.Values(lib.FrameworkAssemblies)))
	}
	if len(lib.FrameworkReferences) > 0 {
		w.array("frameworkReferences", slices.Sorted(slices.Values(lib.FrameworkReferences)))
	}
	w.items("compile", lib.CompileTimeAssemblies)
	w.items("runtime", lib.RuntimeAssemblies)
	w.items("resource", lib.ResourceAssemblies)
	w.items("native", lib.NativeLibraries)
	w.items("contentFiles", lib.ContentFiles)
	w.items("build", lib.Build)
	w.items("buildMultiTargeting", lib.BuildMultiTargeting)
	w.items("runtimeTargets", lib.RuntimeTargets)
	w.items("tools", lib.ToolsAssemblies)
	w.items("embed", lib.EmbedAssemblies)
	w.items("link", lib.LinkAssemblies)
	w.objectEnd()
}

// items writes an object of path to property bag, ordered by path. Empty
// groups are skipped.
func (w *writer) items(name string, items []*LockFileItem) {
	if len(items) == 0 {
		return
	}
	items = slices.Clone(items)
	slices.SortStableFunc(items, func(a, b *LockFileItem) int {
		return strings.Compare(a.Path, b.Path)
	})
	w.objectStart(name)
	for _, item := range items {
		w.objectStart(item.Path)
		for _, k := range slices.Sorted(maps.Keys(item.Properties)) {
			v := item.Properties[k]
			switch {
			case strings.EqualFold(v, "true"):
				w.boolean(k, true)
			case strings.EqualFold(v, "false"):
				w.boolean(k, false)
			default:
				w.value(k, v)
			}
		}
		w.objectEnd()
	}
	w.objectEnd()
}

func (w *writer) logMessages(msgs []*AssetsLogMessage, projectPath string) {
	sorted := slices.Clone(msgs)
	slices.SortStableFunc(sorted, compareLogMessages)
	w.arrayStart("logs")
	for _, m := range sorted {
		w.objectStart("")
		w.logMessage(m, projectPath)
		w.objectEnd()
	}
	w.arrayEnd()
}

func (w *writer) logMessage(m *AssetsLogMessage, projectPath string) {
	w.value("code", m.Code.String())
	w.value("level", m.Level.String())
	if m.Level == librarymodel.LogLevelWarning {
		w.integer("warningLevel", int(m.WarningLevel))
	}
	if m.FilePath != "" && (projectPath == "" || !equality.Path.Equal(m.FilePath, projectPath)) {
		w.value("filePath", m.FilePath)
	}
	if m.StartLineNumber > 0 {
		w.integer("startLineNumber", m.StartLineNumber)
	}
	if m.StartColumnNumber > 0 {
		w.integer("startColumnNumber", m.StartColumnNumber)
	}
	if m.EndLineNumber > 0 {
		w.integer("endLineNumber", m.EndLineNumber)
	}
	if m.EndColumnNumber > 0 {
		w.integer("endColumnNumber", m.EndColumnNumber)
	}
	w.valueIfSet("message", m.Message)
	w.valueIfSet("libraryId", m.LibraryID)
	if len(m.TargetGraphs) > 0 && !slices.Contains(m.TargetGraphs, "") {
		w.array("targetGraphs", sortedStrings(m.TargetGraphs))
	}
}
