package projectmodel

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/objectwriter"
	"github.com/willibrandon/projectmodel/runtimemodel"
	"github.com/willibrandon/projectmodel/version"
	"go.trai.ch/zerr"
)

// ErrNilPackageSpec is returned when a nil spec is written.
var ErrNilPackageSpec = zerr.New("package spec cannot be nil")

// writer wraps an ObjectWriter and keeps the first error, so that a run of
// writes can be checked once at the end.
type writer struct {
	w   objectwriter.ObjectWriter
	err error
}

func (w *writer) objectStart(name string) {
	if w.err == nil {
		w.err = w.w.WriteObjectStart(name)
	}
}

func (w *writer) objectEnd() {
	if w.err == nil {
		w.err = w.w.WriteObjectEnd()
	}
}

func (w *writer) arrayStart(name string) {
	if w.err == nil {
		w.err = w.w.WriteArrayStart(name)
	}
}

func (w *writer) arrayEnd() {
	if w.err == nil {
		w.err = w.w.WriteArrayEnd()
	}
}

func (w *writer) value(name, value string) {
	if w.err == nil {
		w.err = w.w.WriteNameValue(name, value)
	}
}

// valueIfSet writes value unless it is empty.
func (w *writer) valueIfSet(name, value string) {
	if value != "" {
		w.value(name, value)
	}
}

func (w *writer) boolean(name string, value bool) {
	if w.err == nil {
		w.err = w.w.WriteNameBool(name, value)
	}
}

func (w *writer) boolIfTrue(name string, value bool) {
	if value {
		w.boolean(name, true)
	}
}

func (w *writer) integer(name string, value int) {
	if w.err == nil {
		w.err = w.w.WriteNameInt(name, value)
	}
}

func (w *writer) array(name string, values []string) {
	if w.err == nil {
		w.err = w.w.WriteNameArray(name, values)
	}
}

func (w *writer) nonEmptyArray(name string, values []string) {
	if w.err == nil {
		w.err = w.w.WriteNonEmptyNameArray(name, values)
	}
}

// sortedStrings returns a sorted copy of values, or nil when it is empty.
func sortedStrings(values []string) []string {
	return slices.Sorted(slices.Values(values))
}

// run calls an error returning writer function unless a write already failed.
func (w *writer) run(fn func(objectwriter.ObjectWriter) error) {
	if w.err == nil {
		w.err = fn(w.w)
	}
}

// WritePackageSpec writes spec to w.
func WritePackageSpec(w objectwriter.ObjectWriter, spec *PackageSpec) error {
	if spec == nil {
		return ErrNilPackageSpec
	}
	pw := &writer{w: w}
	pw.packageSpec(spec)
	return pw.err
}

// RenderPackageSpec returns the indented JSON form of spec.
func RenderPackageSpec(spec *PackageSpec) ([]byte, error) {
	return objectwriter.Render(func(w objectwriter.ObjectWriter) error {
		return WritePackageSpec(w, spec)
	})
}

// WritePackageSpecFile writes spec to path, replacing any existing file.
func WritePackageSpecFile(spec *PackageSpec, path string) error {
	data, err := RenderPackageSpec(spec)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data)
}

func (w *writer) packageSpec(spec *PackageSpec) {
	w.valueIfSet("title", spec.Title)
	if !spec.IsDefaultVersion && spec.Version != nil {
		v := spec.Version.ToFullString()
		if spec.HasVersionSnapshot {
			v += "-*"
		}
		w.value("version", v)
	}
	w.valueIfSet("description", spec.Description)
	w.nonEmptyArray("authors", spec.Authors)
	w.valueIfSet("copyright", spec.Copyright)
	w.valueIfSet("language", spec.Language)
	w.nonEmptyArray("contentFiles", sortedStrings(spec.ContentFiles))
	w.stringMap("packInclude", spec.PackInclude)
	w.packOptions(spec)
	if spec.BuildOptions != nil && spec.BuildOptions.OutputName != "" {
		w.objectStart("buildOptions")
		w.value("outputName", spec.BuildOptions.OutputName)
		w.objectEnd()
	}
	w.restoreMetadata(spec.RestoreMetadata)
	w.scripts(spec.Scripts)
	w.dependencyGroups(spec.Dependencies)
	w.tools(spec.Tools)
	w.targetFrameworks(spec.TargetFrameworks)
	w.run(func(ow objectwriter.ObjectWriter) error {
		return runtimemodel.Write(ow, spec.RuntimeGraph)
	})
}

func (w *writer) stringMap(name string, values map[string]string) {
	if len(values) == 0 {
		return
	}
	w.objectStart(name)
	for _, k := range slices.Sorted(maps.Keys(values)) {
		w.value(k, values[k])
	}
	w.objectEnd()
}

func (w *writer) scripts(scripts map[string][]string) {
	if len(scripts) == 0 {
		return
	}
	w.objectStart("scripts")
	for _, k := range slices.Sorted(maps.Keys(scripts)) {
		w.array(k, scripts[k])
	}
	w.objectEnd()
}

func (w *writer) packOptions(spec *PackageSpec) {
	opts := spec.PackOptions
	if opts == nil {
		return
	}
	if len(spec.Owners) == 0 && len(spec.Tags) == 0 && spec.ProjectURL == "" && spec.IconURL == "" &&
		spec.Summary == "" && spec.ReleaseNotes == "" && spec.LicenseURL == "" &&
		!spec.RequireLicenseAcceptance && len(opts.PackageType) == 0 &&
		opts.IncludeExcludeFiles.IsEmpty() && len(opts.Mappings) == 0 {
		return
	}

	w.objectStart("packOptions")
	w.nonEmptyArray("owners", spec.Owners)
	w.nonEmptyArray("tags", spec.Tags)
	w.valueIfSet("projectUrl", spec.ProjectURL)
	w.valueIfSet("iconUrl", spec.IconURL)
	w.valueIfSet("summary", spec.Summary)
	w.valueIfSet("releaseNotes", spec.ReleaseNotes)
	w.valueIfSet("licenseUrl", spec.LicenseURL)
	w.boolIfTrue("requireLicenseAcceptance", spec.RequireLicenseAcceptance)
	switch len(opts.PackageType) {
	case 0:
	case 1:
		w.value("packageType", opts.PackageType[0].Name)
	default:
		names := make([]string, len(opts.PackageType))
		for i, t := range opts.PackageType {
			names[i] = t.Name
		}
		w.array("packageType", names)
	}
	if !opts.IncludeExcludeFiles.IsEmpty() || len(opts.Mappings) > 0 {
		w.objectStart("files")
		w.includeExcludeFiles(opts.IncludeExcludeFiles)
		if len(opts.Mappings) > 0 {
			w.objectStart("mappings")
			for _, k := range slices.Sorted(maps.Keys(opts.Mappings)) {
				w.objectStart(k)
				w.includeExcludeFiles(opts.Mappings[k])
				w.objectEnd()
			}
			w.objectEnd()
		}
		w.objectEnd()
	}
	w.objectEnd()
}

func (w *writer) includeExcludeFiles(f *IncludeExcludeFiles) {
	if f == nil {
		return
	}
	w.nonEmptyArray("include", sortedStrings(f.Include))
	w.nonEmptyArray("includeFiles", sortedStrings(f.IncludeFiles))
	w.nonEmptyArray("exclude", sortedStrings(f.Exclude))
	w.nonEmptyArray("excludeFiles", sortedStrings(f.ExcludeFiles))
}

func (w *writer) restoreMetadata(md *ProjectRestoreMetadata) {
	if !md.HasProjectIdentity() {
		return
	}
	w.objectStart("restore")
	w.valueIfSet("projectUniqueName", md.ProjectUniqueName)
	w.valueIfSet("projectName", md.ProjectName)
	w.valueIfSet("projectPath", md.ProjectPath)
	w.valueIfSet("projectJsonPath", md.ProjectJSONPath)
	w.valueIfSet("packagesPath", md.PackagesPath)
	w.valueIfSet("outputPath", md.OutputPath)
	if md.ProjectStyle != ProjectStyleUnknown {
		w.value("projectStyle", md.ProjectStyle.String())
	}

	w.boolIfTrue("crossTargeting", md.CrossTargeting)
	w.boolIfTrue("legacyPackagesDirectory", md.LegacyPackagesDirectory)
	w.boolIfTrue("validateRuntimeAssets", md.ValidateRuntimeAssets)
	w.boolIfTrue("skipContentFileWrite", md.SkipContentFileWrite)
	w.boolIfTrue("centralPackageVersionsManagementEnabled", md.CentralPackageVersionsEnabled)
	w.boolIfTrue("centralPackageFloatingVersionsEnabled", md.CentralPackageFloatingVersionsEnabled)
	w.boolIfTrue("centralPackageVersionOverrideDisabled", md.CentralPackageVersionOverrideDisabled)
	w.boolIfTrue("CentralPackageTransitivePinningEnabled", md.CentralPackageTransitivePinningEnabled)

	w.nonEmptyArray("fallbackFolders", sortedStrings(md.FallbackFolders))
	w.nonEmptyArray("configFilePaths", sortedStrings(md.ConfigFilePaths))
	w.nonEmptyArray("originalTargetFrameworks", sortedStrings(md.OriginalTargetFrameworks))

	if len(md.Sources) > 0 {
		sources := make([]string, len(md.Sources))
		for i, s := range md.Sources {
			sources[i] = s.Source
		}
		slices.Sort(sources)
		w.objectStart("sources")
		for _, s := range sources {
			w.objectStart(s)
			w.objectEnd()
		}
		w.objectEnd()
	}

	if len(md.Files) > 0 {
		files := slices.Clone(md.Files)
		slices.SortStableFunc(files, func(a, b ProjectRestoreMetadataFile) int {
			return strings.Compare(a.PackagePath, b.PackagePath)
		})
		w.objectStart("files")
		for _, f := range files {
			w.value(f.PackagePath, f.AbsolutePath)
		}
		w.objectEnd()
	}

	w.restoreFrameworks(md.TargetFrameworks)
	w.warningProperties(md.ProjectWideWarningProperties)

	if !md.RestoreLockProperties.IsEmpty() {
		l := md.RestoreLockProperties
		w.objectStart("restoreLockProperties")
		w.valueIfSet("restorePackagesWithLockFile", l.RestorePackagesWithLockFile)
		w.valueIfSet("nuGetLockFilePath", l.NuGetLockFilePath)
		w.boolIfTrue("restoreLockedMode", l.RestoreLockedMode)
		w.objectEnd()
	}
	if a := md.RestoreAuditProperties; a != nil {
		w.objectStart("restoreAuditProperties")
		w.valueIfSet("enableAudit", a.EnableAudit)
		w.valueIfSet("auditLevel", a.AuditLevel)
		w.valueIfSet("auditMode", a.AuditMode)
		w.objectEnd()
	}
	w.valueIfSet("packagesConfigPath", md.PackagesConfigPath)
	w.objectEnd()
}

func (w *writer) restoreFrameworks(infos []*ProjectRestoreMetadataFrameworkInfo) {
	if len(infos) == 0 {
		return
	}
	sorted := slices.Clone(infos)
	slices.SortStableFunc(sorted, func(a, b *ProjectRestoreMetadataFrameworkInfo) int {
		return a.FrameworkName.Compare(b.FrameworkName)
	})

	w.objectStart("frameworks")
	seen := map[string]bool{}
	for _, info := range sorted {
		name := info.FrameworkName.GetShortFolderName()
		if seen[name] {
			continue
		}
		seen[name] = true

		w.objectStart(name)
		w.valueIfSet("targetAlias", info.TargetAlias)
		w.objectStart("projectReferences")
		refs := slices.Clone(info.ProjectReferences)
		slices.SortStableFunc(refs, func(a, b *ProjectRestoreReference) int {
			return comparePaths(a.ProjectPath, b.ProjectPath)
		})
		for _, ref := range refs {
			w.objectStart(ref.ProjectUniqueName)
			w.value("projectPath", ref.ProjectPath)
			if ref.IncludeAssets != librarymodel.IncludeAll {
				w.value("includeAssets", ref.IncludeAssets.String())
			}
			if ref.ExcludeAssets != librarymodel.IncludeNone {
				w.value("excludeAssets", ref.ExcludeAssets.String())
			}
			if ref.PrivateAssets != librarymodel.DefaultSuppressParent {
				w.value("privateAssets", ref.PrivateAssets.String())
			}
			w.objectEnd()
		}
		w.objectEnd()
		w.objectEnd()
	}
	w.objectEnd()
}

func (w *writer) warningProperties(p *WarningProperties) {
	if p == nil || (!p.AllWarningsAsErrors && len(p.NoWarn) == 0 && len(p.WarningsAsErrors) == 0) {
		return
	}
	w.objectStart("warningProperties")
	w.boolIfTrue("allWarningsAsErrors", p.AllWarningsAsErrors)
	w.nonEmptyArray("noWarn", logCodeNames(p.NoWarn))
	w.nonEmptyArray("warnAsError", logCodeNames(p.WarningsAsErrors))
	w.nonEmptyArray("warnNotAsError", logCodeNames(p.WarningsNotAsErrors))
	w.objectEnd()
}

func logCodeNames(codes []librarymodel.NuGetLogCode) []string {
	sorted := librarymodel.SortedLogCodes(codes)
	names := make([]string, 0, len(sorted))
	for _, c := range sorted {
		names = append(names, c.String())
	}
	return names
}

// dependencyGroups writes references to framework assemblies under
// "frameworkAssemblies" and everything else under "dependencies".
func (w *writer) dependencyGroups(deps []*librarymodel.LibraryDependency) {
	var packages, assemblies []*librarymodel.LibraryDependency
	for _, d := range deps {
		if d.LibraryRange.TypeConstraint == librarymodel.TargetReference {
			assemblies = append(assemblies, d)
		} else {
			packages = append(packages, d)
		}
	}
	w.dependencies("dependencies", packages)
	w.dependencies("frameworkAssemblies", assemblies)
}

func sortedDependencies(deps []*librarymodel.LibraryDependency) []*librarymodel.LibraryDependency {
	sorted := slices.Clone(deps)
	slices.SortStableFunc(sorted, func(a, b *librarymodel.LibraryDependency) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return sorted
}

func (w *writer) dependencies(name string, deps []*librarymodel.LibraryDependency) {
	if len(deps) == 0 {
		return
	}
	w.objectStart(name)
	for _, d := range sortedDependencies(deps) {
		target := d.LibraryRange.TypeConstraint
		plainTarget := target == librarymodel.TargetReference || target == librarymodel.TargetDefault
		vr := d.LibraryRange.VersionRange
		if vr == nil {
			vr = version.All()
		}
		versionString := vr.ToNormalizedString()

		expanded := d.IncludeType != librarymodel.IncludeAll ||
			d.SuppressParent != librarymodel.DefaultSuppressParent ||
			d.AutoReferenced || !plainTarget || d.Aliases != "" ||
			d.GeneratePathProperty || d.VersionCentrallyManaged
		if !expanded {
			w.value(d.Name(), versionString)
			continue
		}

		w.objectStart(d.Name())
		if d.IncludeType != librarymodel.IncludeAll {
			w.value("include", d.IncludeType.String())
		}
		if d.SuppressParent != librarymodel.DefaultSuppressParent {
			w.value("suppressParent", d.SuppressParent.String())
		}
		if !plainTarget {
			w.value("target", target.String())
		}
		skipVersion := vr.IsAll() &&
			target&(librarymodel.TargetPackage|librarymodel.TargetReference|librarymodel.TargetExternalProject) == 0
		if !skipVersion {
			w.value("version", versionString)
		}
		if d.VersionOverride != nil {
			w.value("versionOverride", d.VersionOverride.ToNormalizedString())
		}
		w.boolIfTrue("autoReferenced", d.AutoReferenced)
		w.nonEmptyArray("noWarn", logCodeNames(d.NoWarn))
		w.boolIfTrue("generatePathProperty", d.GeneratePathProperty)
		w.boolIfTrue("versionCentrallyManaged", d.VersionCentrallyManaged)
		w.valueIfSet("aliases", d.Aliases)
		w.objectEnd()
	}
	w.objectEnd()
}

// centralTransitiveDependencies writes the reduced form used by central
// transitive dependency groups: only the flags and the version.
func (w *writer) centralTransitiveDependencies(name string, deps []*librarymodel.LibraryDependency) {
	if len(deps) == 0 {
		return
	}
	w.objectStart(name)
	for _, d := range sortedDependencies(deps) {
		vr := d.LibraryRange.VersionRange
		if vr == nil {
			vr = version.All()
		}
		w.objectStart(d.Name())
		if d.IncludeType != librarymodel.IncludeAll {
			w.value("include", d.IncludeType.String())
		}
		if d.SuppressParent != librarymodel.DefaultSuppressParent {
			w.value("suppressParent", d.SuppressParent.String())
		}
		w.value("version", vr.ToNormalizedString())
		w.objectEnd()
	}
	w.objectEnd()
}

func (w *writer) tools(tools []*ToolDependency) {
	if len(tools) == 0 {
		return
	}
	sorted := slices.Clone(tools)
	slices.SortStableFunc(sorted, func(a, b *ToolDependency) int {
		return strings.Compare(a.LibraryRange.Name, b.LibraryRange.Name)
	})
	w.objectStart("tools")
	for _, t := range sorted {
		vr := t.LibraryRange.VersionRange
		if vr == nil {
			vr = version.All()
		}
		if len(t.Imports) == 0 {
			w.value(t.LibraryRange.Name, vr.ToNormalizedString())
			continue
		}
		w.objectStart(t.LibraryRange.Name)
		w.value("version", vr.ToNormalizedString())
		w.array("imports", shortFolderNames(t.Imports))
		w.objectEnd()
	}
	w.objectEnd()
}

func shortFolderNames(fws []*frameworks.NuGetFramework) []string {
	names := make([]string, len(fws))
	for i, fw := range fws {
		names[i] = fw.GetShortFolderName()
	}
	return names
}

func (w *writer) targetFrameworks(tfis []*TargetFrameworkInformation) {
	if len(tfis) == 0 {
		return
	}
	sorted := slices.Clone(tfis)
	slices.SortStableFunc(sorted, func(a, b *TargetFrameworkInformation) int {
		return a.FrameworkName.Compare(b.FrameworkName)
	})

	w.objectStart("frameworks")
	for _, tfi := range sorted {
		w.objectStart(tfi.FrameworkName.GetShortFolderName())
		w.valueIfSet("targetAlias", tfi.TargetAlias)
		w.dependencyGroups(tfi.Dependencies)
		w.centralPackageVersions(tfi.CentralPackageVersions)
		if len(tfi.Imports) > 0 {
			w.array("imports", shortFolderNames(tfi.Imports))
		}
		w.boolIfTrue("assetTargetFallback", tfi.AssetTargetFallback)
		if tfi.SecondaryFramework != nil {
			w.value("secondaryFramework", tfi.SecondaryFramework.GetShortFolderName())
		}
		w.boolIfTrue("warn", tfi.Warn)
		w.downloadDependencies(tfi.DownloadDependencies)
		w.frameworkReferences(tfi.FrameworkReferences)
		w.valueIfSet("runtimeIdentifierGraphPath", tfi.RuntimeIdentifierGraphPath)
		w.objectEnd()
	}
	w.objectEnd()
}

// centralPackageVersions writes the versions sorted by id, ignoring case.
// The original range text is kept when there is one.
func (w *writer) centralPackageVersions(versions map[string]librarymodel.CentralPackageVersion) {
	if len(versions) == 0 {
		return
	}
	w.objectStart("centralPackageVersions")
	for _, key := range slices.Sorted(maps.Keys(versions)) {
		v := versions[key]
		text := v.VersionRange.OriginalString()
		if text == "" {
			text = v.VersionRange.ToNormalizedString()
		}
		w.value(v.Name, text)
	}
	w.objectEnd()
}

// downloadDependencies groups the ranges of each id into one entry, with
// the ranges ordered by lower bound and joined with ';'.
func (w *writer) downloadDependencies(deps []librarymodel.DownloadDependency) {
	if len(deps) == 0 {
		return
	}
	groups := map[string][]*version.Range{}
	for _, d := range deps {
		groups[d.Name] = append(groups[d.Name], d.VersionRange)
	}
	w.arrayStart("downloadDependencies")
	for _, name := range slices.Sorted(maps.Keys(groups)) {
		ranges := groups[name]
		slices.SortStableFunc(ranges, func(a, b *version.Range) int {
			return compareMinVersion(a, b)
		})
		texts := make([]string, len(ranges))
		for i, r := range ranges {
			texts[i] = r.ToNormalizedString()
		}
		w.objectStart("")
		w.value("name", name)
		w.value("version", strings.Join(texts, ";"))
		w.objectEnd()
	}
	w.arrayEnd()
}

func compareMinVersion(a, b *version.Range) int {
	switch {
	case a.MinVersion == nil && b.MinVersion == nil:
		return 0
	case a.MinVersion == nil:
		return -1
	case b.MinVersion == nil:
		return 1
	}
	return a.MinVersion.Compare(b.MinVersion)
}

func (w *writer) frameworkReferences(refs []librarymodel.FrameworkDependency) {
	if len(refs) == 0 {
		return
	}
	sorted := slices.Clone(refs)
	slices.SortStableFunc(sorted, librarymodel.FrameworkDependency.Compare)
	w.objectStart("frameworkReferences")
	for _, r := range sorted {
		w.objectStart(r.Name)
		w.value("privateAssets", r.PrivateAssets.String())
		w.objectEnd()
	}
	w.objectEnd()
}

// comparePaths orders paths with the host's path comparer.
func comparePaths(a, b string) int {
	if equality.Path.Equal(a, b) {
		return 0
	}
	if equality.Path == equality.OrdinalIgnoreCase {
		return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
	}
	return cmp.Compare(a, b)
}
