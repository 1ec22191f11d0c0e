package projectmodel

import (
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/librarymodel"
)

// ProjectStyle identifies how a project declares its dependencies.
type ProjectStyle int

const (
	ProjectStyleUnknown ProjectStyle = iota
	ProjectStyleProjectJSON
	ProjectStylePackageReference
	ProjectStyleDotnetCliTool
	ProjectStyleStandalone
	ProjectStylePackagesConfig
	ProjectStyleDotnetToolReference
)

var projectStyleNames = [...]string{
	"Unknown", "ProjectJson", "PackageReference", "DotnetCliTool",
	"Standalone", "PackagesConfig", "DotnetToolReference",
}

// ParseProjectStyle parses a style name, ignoring case.
func ParseProjectStyle(s string) (ProjectStyle, bool) {
	for i, name := range projectStyleNames {
		if strings.EqualFold(s, name) {
			return ProjectStyle(i), true
		}
	}
	return ProjectStyleUnknown, false
}

func (p ProjectStyle) String() string {
	if p < 0 || int(p) >= len(projectStyleNames) {
		return projectStyleNames[0]
	}
	return projectStyleNames[p]
}

// PackageSource is a feed used for restore. Only its location is recorded.
type PackageSource struct {
	Source string
}

// ProjectRestoreMetadataFile maps a file inside a package to its absolute
// location on disk.
type ProjectRestoreMetadataFile struct {
	PackagePath  string
	AbsolutePath string
}

// ProjectRestoreReference is a project to project reference.
type ProjectRestoreReference struct {
	ProjectUniqueName string
	ProjectPath       string
	IncludeAssets     librarymodel.LibraryIncludeFlags
	ExcludeAssets     librarymodel.LibraryIncludeFlags
	PrivateAssets     librarymodel.LibraryIncludeFlags
}

// NewProjectRestoreReference creates a reference with default asset flags.
func NewProjectRestoreReference(uniqueName, path string) *ProjectRestoreReference {
	return &ProjectRestoreReference{
		ProjectUniqueName: uniqueName,
		ProjectPath:       path,
		IncludeAssets:     librarymodel.IncludeAll,
		ExcludeAssets:     librarymodel.IncludeNone,
		PrivateAssets:     librarymodel.DefaultSuppressParent,
	}
}

// Equals compares paths with the path comparer and the asset flags exactly.
func (r *ProjectRestoreReference) Equals(other *ProjectRestoreReference) bool {
	if r == nil || other == nil {
		return r == nil && other == nil
	}
	return equality.Path.Equal(r.ProjectUniqueName, other.ProjectUniqueName) &&
		equality.Path.Equal(r.ProjectPath, other.ProjectPath) &&
		r.IncludeAssets == other.IncludeAssets &&
		r.ExcludeAssets == other.ExcludeAssets &&
		r.PrivateAssets == other.PrivateAssets
}

// HashCode agrees with Equals.
func (r *ProjectRestoreReference) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddUint64(equality.Path.Hash(r.ProjectUniqueName))
	h.AddUint64(equality.Path.Hash(r.ProjectPath))
	h.AddUint64(r.IncludeAssets.HashCode())
	h.AddUint64(r.ExcludeAssets.HashCode())
	h.AddUint64(r.PrivateAssets.HashCode())
	return h.Sum()
}

// Clone returns a copy.
func (r *ProjectRestoreReference) Clone() *ProjectRestoreReference {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// ProjectRestoreMetadataFrameworkInfo holds the project references of one
// target framework.
type ProjectRestoreMetadataFrameworkInfo struct {
	FrameworkName     *frameworks.NuGetFramework
	TargetAlias       string
	ProjectReferences []*ProjectRestoreReference
}

// Equals compares the framework, the alias ignoring case and the references
// in any order.
func (f *ProjectRestoreMetadataFrameworkInfo) Equals(other *ProjectRestoreMetadataFrameworkInfo) bool {
	if f == nil || other == nil {
		return f == nil && other == nil
	}
	return frameworkEquals(f.FrameworkName, other.FrameworkName) &&
		strings.EqualFold(f.TargetAlias, other.TargetAlias) &&
		equality.Multiset(f.ProjectReferences, other.ProjectReferences,
			(*ProjectRestoreReference).HashCode, (*ProjectRestoreReference).Equals)
}

// HashCode agrees with Equals.
func (f *ProjectRestoreMetadataFrameworkInfo) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddUint64(frameworkHash(f.FrameworkName))
	h.AddStringFold(f.TargetAlias)
	h.AddUnordered(equality.HashAll(f.ProjectReferences, (*ProjectRestoreReference).HashCode))
	return h.Sum()
}

// Clone returns a deep copy.
func (f *ProjectRestoreMetadataFrameworkInfo) Clone() *ProjectRestoreMetadataFrameworkInfo {
	if f == nil {
		return nil
	}
	c := &ProjectRestoreMetadataFrameworkInfo{
		FrameworkName: f.FrameworkName.Clone(),
		TargetAlias:   f.TargetAlias,
	}
	if f.ProjectReferences != nil {
		c.ProjectReferences = make([]*ProjectRestoreReference, len(f.ProjectReferences))
		for i, r := range f.ProjectReferences {
			c.ProjectReferences[i] = r.Clone()
		}
	}
	return c
}

// WarningProperties are the project wide warning switches.
type WarningProperties struct {
	AllWarningsAsErrors bool
	NoWarn              []librarymodel.NuGetLogCode
	WarningsAsErrors    []librarymodel.NuGetLogCode
	WarningsNotAsErrors []librarymodel.NuGetLogCode
}

// IsEmpty reports whether nothing is set.
func (w *WarningProperties) IsEmpty() bool {
	return w == nil || (!w.AllWarningsAsErrors && len(w.NoWarn) == 0 &&
		len(w.WarningsAsErrors) == 0 && len(w.WarningsNotAsErrors) == 0)
}

// Equals compares the flag and each code list as a set. A nil value equals
// an empty one.
func (w *WarningProperties) Equals(other *WarningProperties) bool {
	if w.IsEmpty() || other.IsEmpty() {
		return w.IsEmpty() && other.IsEmpty()
	}
	return w.AllWarningsAsErrors == other.AllWarningsAsErrors &&
		librarymodel.LogCodeSetEquals(w.NoWarn, other.NoWarn) &&
		librarymodel.LogCodeSetEquals(w.WarningsAsErrors, other.WarningsAsErrors) &&
		librarymodel.LogCodeSetEquals(w.WarningsNotAsErrors, other.WarningsNotAsErrors)
}

// HashCode agrees with Equals.
func (w *WarningProperties) HashCode() uint64 {
	h := equality.NewHashCode()
	if w.IsEmpty() {
		return h.Sum()
	}
	h.AddBool(w.AllWarningsAsErrors)
	h.AddUint64(librarymodel.LogCodeSetHash(w.NoWarn))
	h.AddUint64(librarymodel.LogCodeSetHash(w.WarningsAsErrors))
	h.AddUint64(librarymodel.LogCodeSetHash(w.WarningsNotAsErrors))
	return h.Sum()
}

// Clone returns a deep copy.
func (w *WarningProperties) Clone() *WarningProperties {
	if w == nil {
		return nil
	}
	return &WarningProperties{
		AllWarningsAsErrors: w.AllWarningsAsErrors,
		NoWarn:              slices.Clone(w.NoWarn),
		WarningsAsErrors:    slices.Clone(w.WarningsAsErrors),
		WarningsNotAsErrors: slices.Clone(w.WarningsNotAsErrors),
	}
}

// RestoreLockProperties configure the packages lock file.
type RestoreLockProperties struct {
	RestorePackagesWithLockFile string
	NuGetLockFilePath           string
	RestoreLockedMode           bool
}

// IsEmpty reports whether nothing is set.
func (p *RestoreLockProperties) IsEmpty() bool {
	return p == nil || (p.RestorePackagesWithLockFile == "" && p.NuGetLockFilePath == "" && !p.RestoreLockedMode)
}

// Equals compares every field, the lock file path with the path comparer.
func (p *RestoreLockProperties) Equals(other *RestoreLockProperties) bool {
	if p.IsEmpty() || other.IsEmpty() {
		return p.IsEmpty() && other.IsEmpty()
	}
	return p.RestorePackagesWithLockFile == other.RestorePackagesWithLockFile &&
		equality.Path.Equal(p.NuGetLockFilePath, other.NuGetLockFilePath) &&
		p.RestoreLockedMode == other.RestoreLockedMode
}

// Clone returns a copy.
func (p *RestoreLockProperties) Clone() *RestoreLockProperties {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// RestoreAuditProperties configure vulnerability auditing.
type RestoreAuditProperties struct {
	EnableAudit string
	AuditLevel  string
	AuditMode   string
}

// IsEmpty reports whether nothing is set.
func (p *RestoreAuditProperties) IsEmpty() bool {
	return p == nil || (p.EnableAudit == "" && p.AuditLevel == "" && p.AuditMode == "")
}

// Equals compares every field ignoring case.
func (p *RestoreAuditProperties) Equals(other *RestoreAuditProperties) bool {
	if p.IsEmpty() || other.IsEmpty() {
		return p.IsEmpty() && other.IsEmpty()
	}
	return strings.EqualFold(p.EnableAudit, other.EnableAudit) &&
		strings.EqualFold(p.AuditLevel, other.AuditLevel) &&
		strings.EqualFold(p.AuditMode, other.AuditMode)
}

// Clone returns a copy.
func (p *RestoreAuditProperties) Clone() *RestoreAuditProperties {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ProjectRestoreMetadata is the restore specific part of a package spec.
type ProjectRestoreMetadata struct {
	ProjectStyle      ProjectStyle
	ProjectPath       string
	ProjectJSONPath   string
	OutputPath        string
	ProjectName       string
	ProjectUniqueName string
	PackagesPath      string
	CacheFilePath     string

	// PackagesConfigPath is only used by packages.config projects.
	PackagesConfigPath string

	CrossTargeting          bool
	LegacyPackagesDirectory bool
	ValidateRuntimeAssets   bool
	SkipContentFileWrite    bool

	CentralPackageVersionsEnabled          bool
	CentralPackageFloatingVersionsEnabled  bool
	CentralPackageVersionOverrideDisabled  bool
	CentralPackageTransitivePinningEnabled bool

	FallbackFolders          []string
	ConfigFilePaths          []string
	OriginalTargetFrameworks []string
	Sources                  []PackageSource
	TargetFrameworks         []*ProjectRestoreMetadataFrameworkInfo
	Files                    []ProjectRestoreMetadataFile

	ProjectWideWarningProperties *WarningProperties
	RestoreLockProperties        *RestoreLockProperties
	RestoreAuditProperties       *RestoreAuditProperties
}

// HasProjectIdentity reports whether any of the identifying paths or names
// is set. Metadata without identity is not written.
func (m *ProjectRestoreMetadata) HasProjectIdentity() bool {
	return m != nil && (m.ProjectUniqueName != "" || m.ProjectName != "" || m.ProjectPath != "" ||
		m.ProjectJSONPath != "" || m.PackagesPath != "" || m.OutputPath != "")
}

// Equals compares every field. Paths use the path comparer and collections
// are compared without regard to order; duplicate sources are counted.
func (m *ProjectRestoreMetadata) Equals(other *ProjectRestoreMetadata) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	p := equality.Path
	return m.ProjectStyle == other.ProjectStyle &&
		p.Equal(m.ProjectPath, other.ProjectPath) &&
		p.Equal(m.ProjectJSONPath, other.ProjectJSONPath) &&
		p.Equal(m.OutputPath, other.OutputPath) &&
		m.ProjectName == other.ProjectName &&
		p.Equal(m.ProjectUniqueName, other.ProjectUniqueName) &&
		p.Equal(m.PackagesPath, other.PackagesPath) &&
		p.Equal(m.CacheFilePath, other.CacheFilePath) &&
		p.Equal(m.PackagesConfigPath, other.PackagesConfigPath) &&
		m.CrossTargeting == other.CrossTargeting &&
		m.LegacyPackagesDirectory == other.LegacyPackagesDirectory &&
		m.ValidateRuntimeAssets == other.ValidateRuntimeAssets &&
		m.SkipContentFileWrite == other.SkipContentFileWrite &&
		m.CentralPackageVersionsEnabled == other.CentralPackageVersionsEnabled &&
		m.CentralPackageFloatingVersionsEnabled == other.CentralPackageFloatingVersionsEnabled &&
		m.CentralPackageVersionOverrideDisabled == other.CentralPackageVersionOverrideDisabled &&
		m.CentralPackageTransitivePinningEnabled == other.CentralPackageTransitivePinningEnabled &&
		equality.Strings(m.FallbackFolders, other.FallbackFolders, p) &&
		equality.Strings(m.ConfigFilePaths, other.ConfigFilePaths, p) &&
		equality.Strings(m.OriginalTargetFrameworks, other.OriginalTargetFrameworks, equality.OrdinalIgnoreCase) &&
		equality.Multiset(m.Sources, other.Sources, sourceHash, sourceEquals) &&
		equality.Multiset(m.TargetFrameworks, other.TargetFrameworks,
			(*ProjectRestoreMetadataFrameworkInfo).HashCode, (*ProjectRestoreMetadataFrameworkInfo).Equals) &&
		equality.Multiset(m.Files, other.Files, fileHash, fileEquals) &&
		m.ProjectWideWarningProperties.Equals(other.ProjectWideWarningProperties) &&
		m.RestoreLockProperties.Equals(other.RestoreLockProperties) &&
		m.RestoreAuditProperties.Equals(other.RestoreAuditProperties)
}

// HashCode agrees with Equals.
func (m *ProjectRestoreMetadata) HashCode() uint64 {
	h := equality.NewHashCode()
	if m == nil {
		return h.Sum()
	}
	p := equality.Path
	h.AddInt(int(m.ProjectStyle))
	h.AddUint64(p.Hash(m.ProjectPath))
	h.AddUint64(p.Hash(m.ProjectJSONPath))
	h.AddUint64(p.Hash(m.OutputPath))
	h.AddString(m.ProjectName)
	h.AddUint64(p.Hash(m.ProjectUniqueName))
	h.AddUint64(p.Hash(m.PackagesPath))
	h.AddBool(m.CrossTargeting)
	h.AddBool(m.LegacyPackagesDirectory)
	h.AddBool(m.ValidateRuntimeAssets)
	h.AddBool(m.CentralPackageVersionsEnabled)
	h.AddUnordered(equality.HashAll(m.FallbackFolders, p.Hash))
	h.AddUnordered(equality.HashAll(m.ConfigFilePaths, p.Hash))
	h.AddUnordered(equality.HashStrings(m.OriginalTargetFrameworks, true))
	h.AddUnordered(equality.HashAll(m.Sources, sourceHash))
	h.AddUnordered(equality.HashAll(m.TargetFrameworks, (*ProjectRestoreMetadataFrameworkInfo).HashCode))
	h.AddUint64(m.ProjectWideWarningProperties.HashCode())
	return h.Sum()
}

// Clone returns a deep copy.
func (m *ProjectRestoreMetadata) Clone() *ProjectRestoreMetadata {
	if m == nil {
		return nil
	}
	c := *m
	c.FallbackFolders = slices.Clone(m.FallbackFolders)
	c.ConfigFilePaths = slices.Clone(m.ConfigFilePaths)
	c.OriginalTargetFrameworks = slices.Clone(m.OriginalTargetFrameworks)
	c.Sources = slices.Clone(m.Sources)
	c.Files = slices.Clone(m.Files)
	if m.TargetFrameworks != nil {
		c.TargetFrameworks = make([]*ProjectRestoreMetadataFrameworkInfo, len(m.TargetFrameworks))
		for i, f := range m.TargetFrameworks {
			c.TargetFrameworks[i] = f.Clone()
		}
	}
	c.ProjectWideWarningProperties = m.ProjectWideWarningProperties.Clone()
	c.RestoreLockProperties = m.RestoreLockProperties.Clone()
	c.RestoreAuditProperties = m.RestoreAuditProperties.Clone()
	return &c
}

func sourceHash(s PackageSource) uint64    { return equality.HashStringFold(s.Source) }
func sourceEquals(a, b PackageSource) bool { return strings.EqualFold(a.Source, b.Source) }

func fileHash(f ProjectRestoreMetadataFile) uint64 {
	h := equality.NewHashCode()
	h.AddString(f.PackagePath)
	h.AddUint64(equality.Path.Hash(f.AbsolutePath))
	return h.Sum()
}

func fileEquals(a, b ProjectRestoreMetadataFile) bool {
	return a.PackagePath == b.PackagePath && equality.Path.Equal(a.AbsolutePath, b.AbsolutePath)
}

func frameworkEquals(a, b *frameworks.NuGetFramework) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

func frameworkHash(f *frameworks.NuGetFramework) uint64 {
	if f == nil {
		return 0
	}
	return equality.HashStringFold(f.DotNetFrameworkName())
}
