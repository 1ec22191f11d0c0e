package projectmodel

import (
	"maps"
	"slices"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/runtimemodel"
	"github.com/willibrandon/projectmodel/version"
)

// PackageSpecFileName is the file name of a standalone package spec.
const PackageSpecFileName = "project.json"

// DefaultVersion is the version of a spec that does not declare one.
var DefaultVersion = version.NewVersion(1, 0, 0)

// IncludeExcludeFiles is a set of glob lists selecting files.
type IncludeExcludeFiles struct {
	Include      []string
	Exclude      []string
	IncludeFiles []string
	ExcludeFiles []string
}

// IsEmpty reports whether all four lists are empty.
func (f *IncludeExcludeFiles) IsEmpty() bool {
	return f == nil || (len(f.Include) == 0 && len(f.Exclude) == 0 &&
		len(f.IncludeFiles) == 0 && len(f.ExcludeFiles) == 0)
}

// Equals compares the lists without regard to order.
func (f *IncludeExcludeFiles) Equals(other *IncludeExcludeFiles) bool {
	if f == nil || other == nil {
		return f == nil && other == nil
	}
	o := equality.Ordinal
	return equality.Strings(f.Include, other.Include, o) &&
		equality.Strings(f.Exclude, other.Exclude, o) &&
		equality.Strings(f.IncludeFiles, other.IncludeFiles, o) &&
		equality.Strings(f.ExcludeFiles, other.ExcludeFiles, o)
}

// HashCode agrees with Equals.
func (f *IncludeExcludeFiles) HashCode() uint64 {
	h := equality.NewHashCode()
	if f == nil {
		return h.Sum()
	}
	h.AddUnordered(equality.HashStrings(f.Include, false))
	h.AddUnordered(equality.HashStrings(f.Exclude, false))
	h.AddUnordered(equality.HashStrings(f.IncludeFiles, false))
	h.AddUnordered(equality.HashStrings(f.ExcludeFiles, false))
	return h.Sum()
}

// Clone returns a deep copy.
func (f *IncludeExcludeFiles) Clone() *IncludeExcludeFiles {
	if f == nil {
		return nil
	}
	return &IncludeExcludeFiles{
		Include:      slices.Clone(f.Include),
		Exclude:      slices.Clone(f.Exclude),
		IncludeFiles: slices.Clone(f.IncludeFiles),
		ExcludeFiles: slices.Clone(f.ExcludeFiles),
	}
}

// PackOptions control how a project is packed.
type PackOptions struct {
	PackageType         []librarymodel.PackageType
	IncludeExcludeFiles *IncludeExcludeFiles
	Mappings            map[string]*IncludeExcludeFiles
}

// Equals compares the package types as a multiset and the mappings by key.
func (p *PackOptions) Equals(other *PackOptions) bool {
	if p == nil || other == nil {
		return p == nil && other == nil
	}
	return equality.Multiset(p.PackageType, other.PackageType,
		librarymodel.PackageType.HashCode, librarymodel.PackageType.Equals) &&
		p.IncludeExcludeFiles.Equals(other.IncludeExcludeFiles) &&
		equality.Map(p.Mappings, other.Mappings, (*IncludeExcludeFiles).Equals)
}

// HashCode agrees with Equals.
func (p *PackOptions) HashCode() uint64 {
	h := equality.NewHashCode()
	if p == nil {
		return h.Sum()
	}
	h.AddUnordered(equality.HashAll(p.PackageType, librarymodel.PackageType.HashCode))
	h.AddUint64(p.IncludeExcludeFiles.HashCode())
	keys := make([]uint64, 0, len(p.Mappings))
	for k, v := range p.Mappings {
		e := equality.NewHashCode()
		e.AddString(k)
		e.AddUint64(v.HashCode())
		keys = append(keys, e.Sum())
	}
	h.AddUnordered(keys)
	return h.Sum()
}

// Clone returns a deep copy.
func (p *PackOptions) Clone() *PackOptions {
	if p == nil {
		return nil
	}
	c := &PackOptions{
		PackageType:         slices.Clone(p.PackageType),
		IncludeExcludeFiles: p.IncludeExcludeFiles.Clone(),
	}
	if p.Mappings != nil {
		c.Mappings = make(map[string]*IncludeExcludeFiles, len(p.Mappings))
		for k, v := range p.Mappings {
			c.Mappings[k] = v.Clone()
		}
	}
	return c
}

// BuildOptions are the build settings a spec can override.
type BuildOptions struct {
	OutputName string
}

// Equals compares the output names.
func (b *BuildOptions) Equals(other *BuildOptions) bool {
	if b == nil || other == nil {
		return b == nil && other == nil
	}
	return b.OutputName == other.OutputName
}

// Clone returns a copy.
func (b *BuildOptions) Clone() *BuildOptions {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

// ToolDependency is a package providing command line tools to a project.
type ToolDependency struct {
	LibraryRange librarymodel.LibraryRange
	Imports      []*frameworks.NuGetFramework
}

// Equals compares the range and the imports in order.
func (t *ToolDependency) Equals(other *ToolDependency) bool {
	if t == nil || other == nil {
		return t == nil && other == nil
	}
	return t.LibraryRange.Equals(other.LibraryRange) &&
		equality.Sequence(t.Imports, other.Imports, frameworkEquals)
}

// HashCode agrees with Equals.
func (t *ToolDependency) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddUint64(t.LibraryRange.HashCode())
	h.AddSequence(equality.HashAll(t.Imports, frameworkHash))
	return h.Sum()
}

// Clone returns a deep copy.
func (t *ToolDependency) Clone() *ToolDependency {
	if t == nil {
		return nil
	}
	c := &ToolDependency{LibraryRange: t.LibraryRange.Clone()}
	if t.Imports != nil {
		c.Imports = make([]*frameworks.NuGetFramework, len(t.Imports))
		for i, fw := range t.Imports {
			c.Imports[i] = fw.Clone()
		}
	}
	return c
}

// PackageSpec is the declared model of a project: what it depends on, for
// which frameworks, and how it is restored and packed.
type PackageSpec struct {
	Name     string
	FilePath string

	Version            *version.NuGetVersion
	IsDefaultVersion   bool
	HasVersionSnapshot bool

	Title                    string
	Description              string
	Summary                  string
	Copyright                string
	Language                 string
	ReleaseNotes             string
	ProjectURL               string
	IconURL                  string
	LicenseURL               string
	RequireLicenseAcceptance bool

	Authors      []string
	Owners       []string
	Tags         []string
	ContentFiles []string

	PackInclude  map[string]string
	Scripts      map[string][]string
	PackOptions  *PackOptions
	BuildOptions *BuildOptions

	Dependencies     []*librarymodel.LibraryDependency
	Tools            []*ToolDependency
	TargetFrameworks []*TargetFrameworkInformation
	RestoreMetadata  *ProjectRestoreMetadata
	RuntimeGraph     *runtimemodel.RuntimeGraph
}

// NewPackageSpec creates an empty spec with the default version.
func NewPackageSpec() *PackageSpec {
	return &PackageSpec{
		Version:          DefaultVersion.Clone(),
		IsDefaultVersion: true,
		RuntimeGraph:     runtimemodel.Empty(),
	}
}

// GetTargetFramework returns the declaration for fw, or nil.
func (s *PackageSpec) GetTargetFramework(fw *frameworks.NuGetFramework) *TargetFrameworkInformation {
	for _, t := range s.TargetFrameworks {
		if frameworkEquals(t.FrameworkName, fw) {
			return t
		}
	}
	return nil
}

// Equals compares two specs. The dependency, tool and framework lists are
// compared without regard to order; FilePath does not take part.
func (s *PackageSpec) Equals(other *PackageSpec) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	o := equality.Ordinal
	return s.Name == other.Name &&
		versionEquals(s.Version, other.Version) &&
		s.IsDefaultVersion == other.IsDefaultVersion &&
		s.HasVersionSnapshot == other.HasVersionSnapshot &&
		s.Title == other.Title &&
		s.Description == other.Description &&
		s.Summary == other.Summary &&
		s.Copyright == other.Copyright &&
		s.Language == other.Language &&
		s.ReleaseNotes == other.ReleaseNotes &&
		s.ProjectURL == other.ProjectURL &&
		s.IconURL == other.IconURL &&
		s.LicenseURL == other.LicenseURL &&
		s.RequireLicenseAcceptance == other.RequireLicenseAcceptance &&
		equality.OrderedStrings(s.Authors, other.Authors, o) &&
		equality.OrderedStrings(s.Owners, other.Owners, o) &&
		equality.OrderedStrings(s.Tags, other.Tags, o) &&
		equality.Strings(s.ContentFiles, other.ContentFiles, o) &&
		maps.Equal(s.PackInclude, other.PackInclude) &&
		equality.Map(s.Scripts, other.Scripts, func(a, b []string) bool {
			return equality.OrderedStrings(a, b, o)
		}) &&
		s.PackOptions.Equals(other.PackOptions) &&
		s.BuildOptions.Equals(other.BuildOptions) &&
		librarymodel.DependenciesEqual(s.Dependencies, other.Dependencies) &&
		equality.Multiset(s.Tools, other.Tools, (*ToolDependency).HashCode, (*ToolDependency).Equals) &&
		equality.Multiset(s.TargetFrameworks, other.TargetFrameworks,
			(*TargetFrameworkInformation).HashCode, (*TargetFrameworkInformation).Equals) &&
		s.RestoreMetadata.Equals(other.RestoreMetadata) &&
		runtimeGraphEquals(s.RuntimeGraph, other.RuntimeGraph)
}

// HashCode agrees with Equals.
func (s *PackageSpec) HashCode() uint64 {
	h := equality.NewHashCode()
	if s == nil {
		return h.Sum()
	}
	h.AddString(s.Name)
	if s.Version != nil {
		h.AddString(s.Version.ToNormalizedString())
	}
	h.AddBool(s.IsDefaultVersion)
	h.AddString(s.Title)
	h.AddString(s.Description)
	h.AddSequence(equality.HashStrings(s.Authors, false))
	h.AddSequence(equality.HashStrings(s.Tags, false))
	h.AddUint64(s.PackOptions.HashCode())
	h.AddUint64(librarymodel.DependenciesHash(s.Dependencies))
	h.AddUnordered(equality.HashAll(s.TargetFrameworks, (*TargetFrameworkInformation).HashCode))
	h.AddUint64(s.RestoreMetadata.HashCode())
	if !s.RuntimeGraph.IsEmpty() {
		h.AddUint64(s.RuntimeGraph.HashCode())
	}
	return h.Sum()
}

// Clone returns a deep copy sharing no mutable state with s.
func (s *PackageSpec) Clone() *PackageSpec {
	if s == nil {
		return nil
	}
	c := *s
	c.Version = s.Version.Clone()
	c.Authors = slices.Clone(s.Authors)
	c.Owners = slices.Clone(s.Owners)
	c.Tags = slices.Clone(s.Tags)
	c.ContentFiles = slices.Clone(s.ContentFiles)
	c.PackInclude = maps.Clone(s.PackInclude)
	if s.Scripts != nil {
		c.Scripts = make(map[string][]string, len(s.Scripts))
		for k, v := range s.Scripts {
			c.Scripts[k] = slices.Clone(v)
		}
	}
	c.PackOptions = s.PackOptions.Clone()
	c.BuildOptions = s.BuildOptions.Clone()
	c.Dependencies = librarymodel.CloneDependencies(s.Dependencies)
	if s.Tools != nil {
		c.Tools = make([]*ToolDependency, len(s.Tools))
		for i, t := range s.Tools {
			c.Tools[i] = t.Clone()
		}
	}
	if s.TargetFrameworks != nil {
		c.TargetFrameworks = make([]*TargetFrameworkInformation, len(s.TargetFrameworks))
		for i, t := range s.TargetFrameworks {
			c.TargetFrameworks[i] = t.Clone()
		}
	}
	c.RestoreMetadata = s.RestoreMetadata.Clone()
	c.RuntimeGraph = s.RuntimeGraph.Clone()
	return &c
}

func versionEquals(a, b *version.NuGetVersion) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

func runtimeGraphEquals(a, b *runtimemodel.RuntimeGraph) bool {
	if a.IsEmpty() || b.IsEmpty() {
		return a.IsEmpty() && b.IsEmpty()
	}
	return a.Equals(b)
}
