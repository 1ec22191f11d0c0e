package projectmodel

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/version"
)

const (
	// LockFileFormatVersion is the assets file version written by default.
	LockFileFormatVersion = 3

	// AssetsFileName is the name of the assets file in the output folder.
	AssetsFileName = "project.assets.json"

	// InvalidLockFileVersion marks a lock file that could not be read.
	InvalidLockFileVersion = math.MinInt
)

// Well-known lock file item properties.
const (
	propertyAssetType    = "assetType"
	propertyRID          = "rid"
	propertyBuildAction  = "buildAction"
	propertyCodeLanguage = "codeLanguage"
	propertyCopyToOutput = "copyToOutput"
	propertyOutputPath   = "outputPath"
	propertyPPOutputPath = "ppOutputPath"
)

// LockFileItem is an asset path with free-form string properties.
type LockFileItem struct {
	Path       string
	Properties map[string]string
}

// NewLockFileItem creates an item without properties.
func NewLockFileItem(path string) *LockFileItem {
	return &LockFileItem{Path: path, Properties: map[string]string{}}
}

// NewRuntimeTarget creates a runtimeTargets item for rid.
func NewRuntimeTarget(path, rid, assetType string) *LockFileItem {
	item := NewLockFileItem(path)
	item.Properties[propertyRID] = rid
	item.Properties[propertyAssetType] = assetType
	return item
}

// Property returns the named property.
func (i *LockFileItem) Property(name string) (string, bool) {
	v, ok := i.Properties[name]
	return v, ok
}

// SetProperty sets a property, allocating the map when needed.
func (i *LockFileItem) SetProperty(name, value string) {
	if i.Properties == nil {
		i.Properties = map[string]string{}
	}
	i.Properties[name] = value
}

// Runtime returns the rid of a runtime target.
func (i *LockFileItem) Runtime() string { return i.Properties[propertyRID] }

// AssetType returns the asset type of a runtime target.
func (i *LockFileItem) AssetType() string { return i.Properties[propertyAssetType] }

// BuildAction returns the build action of a content file.
func (i *LockFileItem) BuildAction() string { return i.Properties[propertyBuildAction] }

// CodeLanguage returns the code language of a content file.
func (i *LockFileItem) CodeLanguage() string { return i.Properties[propertyCodeLanguage] }

// CopyToOutput reports whether a content file is copied to the output.
func (i *LockFileItem) CopyToOutput() bool {
	return strings.EqualFold(i.Properties[propertyCopyToOutput], "true")
}

// OutputPath returns the output path of a content file.
func (i *LockFileItem) OutputPath() string { return i.Properties[propertyOutputPath] }

// PPOutputPath returns the preprocessed output path of a content file.
func (i *LockFileItem) PPOutputPath() string { return i.Properties[propertyPPOutputPath] }

// Equals compares the path ignoring case and the properties exactly.
func (i *LockFileItem) Equals(other *LockFileItem) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	return strings.EqualFold(i.Path, other.Path) &&
		equality.Map(i.Properties, other.Properties, func(x, y string) bool { return x == y })
}

// HashCode agrees with Equals.
func (i *LockFileItem) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddStringFold(i.Path)
	hashes := make([]uint64, 0, len(i.Properties))
	for k, v := range i.Properties {
		e := equality.NewHashCode()
		e.AddString(k)
		e.AddString(v)
		hashes = append(hashes, e.Sum())
	}
	h.AddUnordered(hashes)
	return h.Sum()
}

// Clone returns a deep copy.
func (i *LockFileItem) Clone() *LockFileItem {
	if i == nil {
		return nil
	}
	return &LockFileItem{Path: i.Path, Properties: maps.Clone(i.Properties)}
}

func itemsEqual(a, b []*LockFileItem) bool {
	return equality.Multiset(a, b, (*LockFileItem).HashCode, (*LockFileItem).Equals)
}

func itemsHash(items []*LockFileItem) []uint64 {
	return equality.HashAll(items, (*LockFileItem).HashCode)
}

func cloneItems(items []*LockFileItem) []*LockFileItem {
	if items == nil {
		return nil
	}
	out := make([]*LockFileItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// PackageDependency is a resolved package's dependency on another package.
type PackageDependency struct {
	ID           string
	VersionRange *version.Range
}

// Equals compares the id ignoring case and the version range.
func (d PackageDependency) Equals(other PackageDependency) bool {
	return strings.EqualFold(d.ID, other.ID) && librarymodel.RangeEquals(d.VersionRange, other.VersionRange)
}

// HashCode agrees with Equals.
func (d PackageDependency) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddStringFold(d.ID)
	h.AddUint64(librarymodel.RangeHash(d.VersionRange))
	return h.Sum()
}

// LockFileLibrary is a library in the lock file's libraries section.
type LockFileLibrary struct {
	Name           string
	Type           string
	Version        *version.NuGetVersion
	IsServiceable  bool
	Sha512         string
	Path           string
	MSBuildProject string
	HasTools       bool
	Files          []string
}

// Key returns the "name/version" property name of the library.
func (l *LockFileLibrary) Key() string {
	return libraryKey(l.Name, l.Version)
}

// Equals compares the name ignoring case, the version, the remaining fields
// exactly and the files in any order.
func (l *LockFileLibrary) Equals(other *LockFileLibrary) bool {
	if l == nil || other == nil {
		return l == nil && other == nil
	}
	return strings.EqualFold(l.Name, other.Name) &&
		versionEquals(l.Version, other.Version) &&
		l.Type == other.Type &&
		l.IsServiceable == other.IsServiceable &&
		l.Sha512 == other.Sha512 &&
		l.Path == other.Path &&
		l.MSBuildProject == other.MSBuildProject &&
		l.HasTools == other.HasTools &&
		equality.Strings(l.Files, other.Files, equality.Ordinal)
}

// HashCode agrees with Equals.
func (l *LockFileLibrary) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddStringFold(l.Name)
	h.AddUint64(versionHash(l.Version))
	h.AddString(l.Type)
	h.AddBool(l.IsServiceable)
	h.AddString(l.Sha512)
	h.AddString(l.Path)
	h.AddString(l.MSBuildProject)
	h.AddBool(l.HasTools)
	h.AddUnordered(equality.HashStrings(l.Files, false))
	return h.Sum()
}

// Clone returns a deep copy.
func (l *LockFileLibrary) Clone() *LockFileLibrary {
	if l == nil {
		return nil
	}
	c := *l
	c.Version = l.Version.Clone()
	c.Files = slices.Clone(l.Files)
	return &c
}

// LockFileTargetLibrary is a library as resolved for one target, with the
// assets selected for it.
type LockFileTargetLibrary struct {
	Name      string
	Version   *version.NuGetVersion
	Type      string
	Framework string

	// PackageType is carried through reads and writes but does not take part
	// in equality.
	PackageType []librarymodel.PackageType

	Dependencies        []PackageDependency
	FrameworkAssemblies []string
	FrameworkReferences []string

	RuntimeAssemblies     []*LockFileItem
	CompileTimeAssemblies []*LockFileItem
	ResourceAssemblies    []*LockFileItem
	NativeLibraries       []*LockFileItem
	Build                 []*LockFileItem
	BuildMultiTargeting   []*LockFileItem
	ContentFiles          []*LockFileItem
	RuntimeTargets        []*LockFileItem
	ToolsAssemblies       []*LockFileItem
	EmbedAssemblies       []*LockFileItem
	LinkAssemblies        []*LockFileItem
}

// Key returns the "name/version" property name of the library.
func (l *LockFileTargetLibrary) Key() string {
	return libraryKey(l.Name, l.Version)
}

func (l *LockFileTargetLibrary) itemGroups() [][]*LockFileItem {
	return [][]*LockFileItem{
		l.RuntimeAssemblies, l.CompileTimeAssemblies, l.ResourceAssemblies,
		l.NativeLibraries, l.Build, l.BuildMultiTargeting, l.ContentFiles,
		l.RuntimeTargets, l.ToolsAssemblies, l.EmbedAssemblies, l.LinkAssemblies,
	}
}

// Equals compares name, version, type and framework exactly and every
// collection in any order.
func (l *LockFileTargetLibrary) Equals(other *LockFileTargetLibrary) bool {
	if l == nil || other == nil {
		return l == nil && other == nil
	}
	if l.Name != other.Name || !versionEquals(l.Version, other.Version) ||
		l.Type != other.Type || l.Framework != other.Framework {
		return false
	}
	if !equality.Multiset(l.Dependencies, other.Dependencies, PackageDependency.HashCode, PackageDependency.Equals) ||
		!equality.Strings(l.FrameworkAssemblies, other.FrameworkAssemblies, equality.OrdinalIgnoreCase) ||
		!equality.Strings(l.FrameworkReferences, other.FrameworkReferences, equality.OrdinalIgnoreCase) {
		return false
	}
	mine, theirs := l.itemGroups(), other.itemGroups()
	for i := range mine {
		if !itemsEqual(mine[i], theirs[i]) {
			return false
		}
	}
	return true
}

// HashCode agrees with Equals.
func (l *LockFileTargetLibrary) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddString(l.Name)
	h.AddUint64(versionHash(l.Version))
	h.AddString(l.Type)
	h.AddString(l.Framework)
	h.AddUnordered(equality.HashAll(l.Dependencies, PackageDependency.HashCode))
	h.AddUnordered(equality.HashStrings(l.FrameworkAssemblies, true))
	h.AddUnordered(equality.HashStrings(l.FrameworkReferences, true))
	for _, group := range l.itemGroups() {
		h.AddUnordered(itemsHash(group))
	}
	return h.Sum()
}

// Clone returns a deep copy.
func (l *LockFileTargetLibrary) Clone() *LockFileTargetLibrary {
	if l == nil {
		return nil
	}
	return &LockFileTargetLibrary{
		Name:                  l.Name,
		Version:               l.Version.Clone(),
		Type:                  l.Type,
		Framework:             l.Framework,
		PackageType:           slices.Clone(l.PackageType),
		Dependencies:          clonePackageDependencies(l.Dependencies),
		FrameworkAssemblies:   slices.Clone(l.FrameworkAssemblies),
		FrameworkReferences:   slices.Clone(l.FrameworkReferences),
		RuntimeAssemblies:     cloneItems(l.RuntimeAssemblies),
		CompileTimeAssemblies: cloneItems(l.CompileTimeAssemblies),
		ResourceAssemblies:    cloneItems(l.ResourceAssemblies),
		NativeLibraries:       cloneItems(l.NativeLibraries),
		Build:                 cloneItems(l.Build),
		BuildMultiTargeting:   cloneItems(l.BuildMultiTargeting),
		ContentFiles:          cloneItems(l.ContentFiles),
		RuntimeTargets:        cloneItems(l.RuntimeTargets),
		ToolsAssemblies:       cloneItems(l.ToolsAssemblies),
		EmbedAssemblies:       cloneItems(l.EmbedAssemblies),
		LinkAssemblies:        cloneItems(l.LinkAssemblies),
	}
}

func clonePackageDependencies(deps []PackageDependency) []PackageDependency {
	if deps == nil {
		return nil
	}
	out := make([]PackageDependency, len(deps))
	for i, d := range deps {
		out[i] = PackageDependency{ID: d.ID, VersionRange: d.VersionRange.Clone()}
	}
	return out
}

// LockFileTarget is the restore graph of one framework and optional runtime.
type LockFileTarget struct {
	TargetFramework   *frameworks.NuGetFramework
	RuntimeIdentifier string
	Libraries         []*LockFileTargetLibrary
}

// Name returns the target's property name: the framework, followed by
// "/rid" when a runtime is set.
func (t *LockFileTarget) Name() string {
	name := ""
	if t.TargetFramework != nil {
		name = t.TargetFramework.String()
	}
	if t.RuntimeIdentifier != "" {
		name += "/" + t.RuntimeIdentifier
	}
	return name
}

// GetTargetLibrary returns the library with the given name, ignoring case.
func (t *LockFileTarget) GetTargetLibrary(name string) *LockFileTargetLibrary {
	for _, l := range t.Libraries {
		if strings.EqualFold(l.Name, name) {
			return l
		}
	}
	return nil
}

// Equals compares framework and runtime, and the libraries in any order.
func (t *LockFileTarget) Equals(other *LockFileTarget) bool {
	if t == nil || other == nil {
		return t == nil && other == nil
	}
	return frameworkEquals(t.TargetFramework, other.TargetFramework) &&
		t.RuntimeIdentifier == other.RuntimeIdentifier &&
		equality.Multiset(t.Libraries, other.Libraries,
			(*LockFileTargetLibrary).HashCode, (*LockFileTargetLibrary).Equals)
}

// HashCode agrees with Equals.
func (t *LockFileTarget) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddUint64(frameworkHash(t.TargetFramework))
	h.AddString(t.RuntimeIdentifier)
	h.AddUnordered(equality.HashAll(t.Libraries, (*LockFileTargetLibrary).HashCode))
	return h.Sum()
}

// Clone returns a deep copy.
func (t *LockFileTarget) Clone() *LockFileTarget {
	if t == nil {
		return nil
	}
	c := &LockFileTarget{RuntimeIdentifier: t.RuntimeIdentifier}
	if t.TargetFramework != nil {
		c.TargetFramework = t.TargetFramework.Clone()
	}
	if t.Libraries != nil {
		c.Libraries = make([]*LockFileTargetLibrary, len(t.Libraries))
		for i, l := range t.Libraries {
			c.Libraries[i] = l.Clone()
		}
	}
	return c
}

// ProjectFileDependencyGroup lists the dependency strings declared by the
// project for one framework. The empty framework name holds the
// framework-independent dependencies.
type ProjectFileDependencyGroup struct {
	FrameworkName string
	Dependencies  []string
}

// Equals compares the framework name exactly and the dependencies in any
// order.
func (g *ProjectFileDependencyGroup) Equals(other *ProjectFileDependencyGroup) bool {
	if g == nil || other == nil {
		return g == nil && other == nil
	}
	return g.FrameworkName == other.FrameworkName &&
		equality.Strings(g.Dependencies, other.Dependencies, equality.Ordinal)
}

// HashCode agrees with Equals.
func (g *ProjectFileDependencyGroup) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddString(g.FrameworkName)
	h.AddUnordered(equality.HashStrings(g.Dependencies, false))
	return h.Sum()
}

// Clone returns a deep copy.
func (g *ProjectFileDependencyGroup) Clone() *ProjectFileDependencyGroup {
	if g == nil {
		return nil
	}
	return &ProjectFileDependencyGroup{FrameworkName: g.FrameworkName, Dependencies: slices.Clone(g.Dependencies)}
}

// CentralTransitiveDependencyGroup holds the centrally pinned transitive
// dependencies of one framework.
type CentralTransitiveDependencyGroup struct {
	Framework              *frameworks.NuGetFramework
	TransitiveDependencies []*librarymodel.LibraryDependency
}

// FrameworkName returns the property name of the group.
func (g *CentralTransitiveDependencyGroup) FrameworkName() string {
	if g.Framework == nil {
		return ""
	}
	return g.Framework.String()
}

// Equals compares the framework and the dependencies in any order.
func (g *CentralTransitiveDependencyGroup) Equals(other *CentralTransitiveDependencyGroup) bool {
	if g == nil || other == nil {
		return g == nil && other == nil
	}
	return frameworkEquals(g.Framework, other.Framework) &&
		librarymodel.DependenciesEqual(g.TransitiveDependencies, other.TransitiveDependencies)
}

// HashCode agrees with Equals.
func (g *CentralTransitiveDependencyGroup) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddUint64(frameworkHash(g.Framework))
	h.AddUint64(librarymodel.DependenciesHash(g.TransitiveDependencies))
	return h.Sum()
}

// Clone returns a deep copy.
func (g *CentralTransitiveDependencyGroup) Clone() *CentralTransitiveDependencyGroup {
	if g == nil {
		return nil
	}
	c := &CentralTransitiveDependencyGroup{TransitiveDependencies: librarymodel.CloneDependencies(g.TransitiveDependencies)}
	if g.Framework != nil {
		c.Framework = g.Framework.Clone()
	}
	return c
}

// AssetsLogMessage is a restore diagnostic stored in the assets file.
// Line and column numbers of zero or less are unset.
type AssetsLogMessage struct {
	Level             librarymodel.LogLevel
	Code              librarymodel.NuGetLogCode
	WarningLevel      librarymodel.WarningLevel
	Message           string
	FilePath          string
	StartLineNumber   int
	StartColumnNumber int
	EndLineNumber     int
	EndColumnNumber   int
	LibraryID         string
	TargetGraphs      []string
}

// NewAssetsLogMessage creates a message with unset positions.
func NewAssetsLogMessage(level librarymodel.LogLevel, code librarymodel.NuGetLogCode, message string) *AssetsLogMessage {
	return &AssetsLogMessage{
		Level:             level,
		Code:              code,
		Message:           message,
		StartLineNumber:   -1,
		StartColumnNumber: -1,
		EndLineNumber:     -1,
		EndColumnNumber:   -1,
	}
}

// Equals compares every field, the file path with the path comparer and the
// target graphs in any order.
func (m *AssetsLogMessage) Equals(other *AssetsLogMessage) bool {
	if m == nil || other == nil {
		return m == nil && other == nil
	}
	return m.Level == other.Level &&
		m.Code == other.Code &&
		m.WarningLevel == other.WarningLevel &&
		m.Message == other.Message &&
		equality.Path.Equal(m.FilePath, other.FilePath) &&
		m.StartLineNumber == other.StartLineNumber &&
		m.StartColumnNumber == other.StartColumnNumber &&
		m.EndLineNumber == other.EndLineNumber &&
		m.EndColumnNumber == other.EndColumnNumber &&
		m.LibraryID == other.LibraryID &&
		equality.Strings(m.TargetGraphs, other.TargetGraphs, equality.Ordinal)
}

// HashCode agrees with Equals.
func (m *AssetsLogMessage) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddInt(int(m.Level))
	h.AddInt(int(m.Code))
	h.AddInt(int(m.WarningLevel))
	h.AddString(m.Message)
	h.AddUint64(equality.Path.Hash(m.FilePath))
	h.AddInt(m.StartLineNumber)
	h.AddInt(m.StartColumnNumber)
	h.AddInt(m.EndLineNumber)
	h.AddInt(m.EndColumnNumber)
	h.AddString(m.LibraryID)
	h.AddUnordered(equality.HashStrings(m.TargetGraphs, false))
	return h.Sum()
}

// Clone returns a deep copy.
func (m *AssetsLogMessage) Clone() *AssetsLogMessage {
	if m == nil {
		return nil
	}
	c := *m
	c.TargetGraphs = slices.Clone(m.TargetGraphs)
	return &c
}

// compareLogMessages orders messages for writing: by code, level, message,
// then the remaining fields.
func compareLogMessages(a, b *AssetsLogMessage) int {
	if c := int(a.Code) - int(b.Code); c != 0 {
		return c
	}
	if c := int(a.Level) - int(b.Level); c != 0 {
		return c
	}
	if c := strings.Compare(a.Message, b.Message); c != 0 {
		return c
	}
	if c := int(a.WarningLevel) - int(b.WarningLevel); c != 0 {
		return c
	}
	if c := strings.Compare(a.FilePath, b.FilePath); c != 0 {
		return c
	}
	if c := strings.Compare(a.LibraryID, b.LibraryID); c != 0 {
		return c
	}
	for _, pair := range [][2]int{
		{a.StartLineNumber, b.StartLineNumber},
		{a.StartColumnNumber, b.StartColumnNumber},
		{a.EndLineNumber, b.EndLineNumber},
		{a.EndColumnNumber, b.EndColumnNumber},
	} {
		if c := pair[0] - pair[1]; c != 0 {
			return c
		}
	}
	return slices.Compare(slices.Sorted(slices.Values(a.TargetGraphs)), slices.Sorted(slices.Values(b.TargetGraphs)))
}

// LockFile is the assets file produced by restore: the resolved graph of
// every target together with the project it was restored from.
type LockFile struct {
	Version                           int
	Path                              string
	Targets                           []*LockFileTarget
	Libraries                         []*LockFileLibrary
	ProjectFileDependencyGroups       []*ProjectFileDependencyGroup
	PackageFolders                    []*LockFileItem
	PackageSpec                       *PackageSpec
	CentralTransitiveDependencyGroups []*CentralTransitiveDependencyGroup
	LogMessages                       []*AssetsLogMessage
}

// NewLockFile creates an empty lock file of the current version.
func NewLockFile() *LockFile {
	return &LockFile{Version: LockFileFormatVersion}
}

// IsValid reports whether the file was read successfully.
func (f *LockFile) IsValid() bool {
	return f.Version != InvalidLockFileVersion
}

// GetTarget returns the target for fw and rid, or nil.
func (f *LockFile) GetTarget(fw *frameworks.NuGetFramework, rid string) *LockFileTarget {
	for _, t := range f.Targets {
		if frameworkEquals(t.TargetFramework, fw) && strings.EqualFold(t.RuntimeIdentifier, rid) {
			return t
		}
	}
	return nil
}

// GetLibrary returns the library with the given name and version, or nil.
func (f *LockFile) GetLibrary(name string, v *version.NuGetVersion) *LockFileLibrary {
	for _, l := range f.Libraries {
		if strings.EqualFold(l.Name, name) && versionEquals(l.Version, v) {
			return l
		}
	}
	return nil
}

// Equals compares the version, the spec and every collection in any order.
// Path is not compared.
func (f *LockFile) Equals(other *LockFile) bool {
	if f == nil || other == nil {
		return f == nil && other == nil
	}
	return f.Version == other.Version &&
		equality.Multiset(f.Targets, other.Targets, (*LockFileTarget).HashCode, (*LockFileTarget).Equals) &&
		equality.Multiset(f.Libraries, other.Libraries, (*LockFileLibrary).HashCode, (*LockFileLibrary).Equals) &&
		equality.Multiset(f.ProjectFileDependencyGroups, other.ProjectFileDependencyGroups,
			(*ProjectFileDependencyGroup).HashCode, (*ProjectFileDependencyGroup).Equals) &&
		itemsEqual(f.PackageFolders, other.PackageFolders) &&
		f.PackageSpec.Equals(other.PackageSpec) &&
		equality.Multiset(f.CentralTransitiveDependencyGroups, other.CentralTransitiveDependencyGroups,
			(*CentralTransitiveDependencyGroup).HashCode, (*CentralTransitiveDependencyGroup).Equals) &&
		equality.Multiset(f.LogMessages, other.LogMessages, (*AssetsLogMessage).HashCode, (*AssetsLogMessage).Equals)
}

// HashCode agrees with Equals.
func (f *LockFile) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddInt(f.Version)
	h.AddUnordered(equality.HashAll(f.Targets, (*LockFileTarget).HashCode))
	h.AddUnordered(equality.HashAll(f.Libraries, (*LockFileLibrary).HashCode))
	h.AddUnordered(equality.HashAll(f.ProjectFileDependencyGroups, (*ProjectFileDependencyGroup).HashCode))
	h.AddUnordered(itemsHash(f.PackageFolders))
	if f.PackageSpec != nil {
		h.AddUint64(f.PackageSpec.HashCode())
	}
	h.AddUnordered(equality.HashAll(f.CentralTransitiveDependencyGroups, (*CentralTransitiveDependencyGroup).HashCode))
	h.AddUnordered(equality.HashAll(f.LogMessages, (*AssetsLogMessage).HashCode))
	return h.Sum()
}

// Clone returns a deep copy.
func (f *LockFile) Clone() *LockFile {
	if f == nil {
		return nil
	}
	c := &LockFile{
		Version:        f.Version,
		Path:           f.Path,
		PackageFolders: cloneItems(f.PackageFolders),
		PackageSpec:    f.PackageSpec.Clone(),
	}
	c.Targets = cloneAll(f.Targets, (*LockFileTarget).Clone)
	c.Libraries = cloneAll(f.Libraries, (*LockFileLibrary).Clone)
	c.ProjectFileDependencyGroups = cloneAll(f.ProjectFileDependencyGroups, (*ProjectFileDependencyGroup).Clone)
	c.CentralTransitiveDependencyGroups = cloneAll(f.CentralTransitiveDependencyGroups, (*CentralTransitiveDependencyGroup).Clone)
	c.LogMessages = cloneAll(f.LogMessages, (*AssetsLogMessage).Clone)
	return c
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = clone(item)
	}
	return out
}

func libraryKey(name string, v *version.NuGetVersion) string {
	if v == nil {
		return name
	}
	return name + "/" + v.ToNormalizedString()
}

func versionHash(v *version.NuGetVersion) uint64 {
	if v == nil {
		return 0
	}
	return equality.HashStringFold(v.ToNormalizedString())
}
