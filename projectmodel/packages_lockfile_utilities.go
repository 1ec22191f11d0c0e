package projectmodel

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/version"
	"go.trai.ch/zerr"
)

// ErrNoRestoreProject is returned when a graph has no project to restore.
var ErrNoRestoreProject = zerr.New("dependency graph spec has no project to restore")

// BaseDirectory returns the directory holding the project file, or "".
func (s *PackageSpec) BaseDirectory() string {
	if s.FilePath == "" {
		return ""
	}
	return filepath.Dir(s.FilePath)
}

// GetNuGetLockFilePath returns where the packages lock file of project
// lives: the configured path, or the default next to the project. It returns
// "" when the project has no restore metadata or location.
func GetNuGetLockFilePath(project *PackageSpec) string {
	base := project.BaseDirectory()
	if project.RestoreMetadata == nil || base == "" {
		return ""
	}
	if lp := project.RestoreMetadata.RestoreLockProperties; lp != nil && lp.NuGetLockFilePath != "" {
		return filepath.Join(base, lp.NuGetLockFilePath)
	}
	projectName := strings.TrimSuffix(filepath.Base(project.RestoreMetadata.ProjectPath),
		filepath.Ext(project.RestoreMetadata.ProjectPath))
	if project.RestoreMetadata.ProjectPath == "" {
		projectName = ""
	}
	return GetNuGetLockFilePathIn(base, projectName)
}

// GetNuGetLockFilePathIn returns packages.<project>.lock.json in baseDir when
// that file exists, and packages.lock.json otherwise. Spaces in the project
// name become underscores.
func GetNuGetLockFilePathIn(baseDir, projectName string) string {
	if projectName != "" {
		path := filepath.Join(baseDir, "packages."+strings.ReplaceAll(projectName, " ", "_")+".lock.json")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(baseDir, PackagesLockFileName)
}

// IsNuGetLockFileEnabled reports whether the project opted into a packages
// lock file or already has one.
func IsNuGetLockFileEnabled(project *PackageSpec) bool {
	if md := project.RestoreMetadata; md != nil && md.RestoreLockProperties != nil &&
		strings.EqualFold(strings.TrimSpace(md.RestoreLockProperties.RestorePackagesWithLockFile), "true") {
		return true
	}
	path := GetNuGetLockFilePath(project)
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// MatchedDependency pairs an expected lock file entry with the entry found.
type MatchedDependency struct {
	Expected *LockFileDependency
	Actual   *LockFileDependency
}

// LockFileValidityWithMatchedResults is the result of IsLockFileStillValid.
type LockFileValidityWithMatchedResults struct {
	IsValid             bool
	MatchedDependencies []MatchedDependency
}

// IsLockFileStillValid reports whether actual has the structure of expected,
// with every value equal except content hashes. On success the matched
// pairs let the caller compare content hashes.
func IsLockFileStillValid(expected, actual *PackagesLockFile) LockFileValidityWithMatchedResults {
	invalid := LockFileValidityWithMatchedResults{}
	if expected.Version != actual.Version || len(expected.Targets) != len(actual.Targets) {
		return invalid
	}

	var matched []MatchedDependency
	for _, et := range expected.Targets {
		var at *PackagesLockFileTarget
		for _, t := range actual.Targets {
			if !frameworkEquals(t.TargetFramework, et.TargetFramework) || !strings.EqualFold(t.RuntimeIdentifier, et.RuntimeIdentifier) {
				continue
			}
			if at != nil {
				return invalid
			}
			at = t
		}
		if at == nil || len(at.Dependencies) != len(et.Dependencies) {
			return invalid
		}

		remaining := map[uint64][]*LockFileDependency{}
		for _, d := range at.Dependencies {
			k := d.HashIgnoringContentHash()
			remaining[k] = append(remaining[k], d)
		}
		for _, ed := range et.Dependencies {
			k := ed.HashIgnoringContentHash()
			bucket := remaining[k]
			i := slices.IndexFunc(bucket, ed.EqualsIgnoringContentHash)
			if i < 0 {
				return invalid
			}
			matched = append(matched, MatchedDependency{Expected: ed, Actual: bucket[i]})
			remaining[k] = slices.Delete(bucket, i, i+1)
		}
	}
	return LockFileValidityWithMatchedResults{IsValid: true, MatchedDependencies: matched}
}

// LockFileValidationResult is the result of IsLockFileValid.
type LockFileValidationResult struct {
	IsValid        bool
	InvalidReasons []string
}

func joinOrNone(values []string, sep string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, sep)
}

// IsLockFileValid checks a packages lock file against the first project to
// restore in graph. The lock file is out of date when the project's
// frameworks, runtimes, direct package references, centrally managed
// versions or project references changed, or when it was written by a newer
// format version.
func IsLockFileValid(graph *DependencyGraphSpec, lockFile *PackagesLockFile) (LockFileValidationResult, error) {
	var reasons []string
	if lockFile.Version > PackagesLockFileVersion {
		reasons = append(reasons, fmt.Sprintf(
			"The lock file version is not supported. The maximum supported version is %d.", PackagesLockFileVersion))
		return LockFileValidationResult{InvalidReasons: reasons}, nil
	}

	restore := graph.Restore()
	if len(restore) == 0 {
		return LockFileValidationResult{}, ErrNoRestoreProject
	}
	project := graph.GetProjectSpec(restore[0])
	if project == nil {
		return LockFileValidationResult{}, zerr.With(zerr.Wrap(ErrNoRestoreProject, "restore entry has no project spec"), "project", restore[0])
	}

	var lockFrameworks []*frameworks.NuGetFramework
	for _, t := range lockFile.Targets {
		if t.TargetFramework == nil {
			continue
		}
		if !slices.ContainsFunc(lockFrameworks, t.TargetFramework.Equals) {
			lockFrameworks = append(lockFrameworks, t.TargetFramework)
		}
	}

	if len(project.TargetFrameworks) != len(lockFrameworks) {
		projectNames := make([]string, len(project.TargetFrameworks))
		for i, tfi := range project.TargetFrameworks {
			projectNames[i] = tfi.FrameworkName.GetShortFolderName()
		}
		lockNames := make([]string, len(lockFrameworks))
		for i, fw := range lockFrameworks {
			lockNames[i] = fw.GetShortFolderName()
		}
		reasons = append(reasons, fmt.Sprintf(
			"The project target frameworks are different than the lock file's target frameworks. Lock file target frameworks: %s. Project target frameworks %s.",
			strings.Join(lockNames, ","), strings.Join(projectNames, ",")))
		return LockFileValidationResult{InvalidReasons: reasons}, nil
	}

	if reason, changed := runtimesChanged(project, lockFile); changed {
		reasons = append(reasons, reason)
	}

	for _, tfi := range project.TargetFrameworks {
		target := lockFile.GetTarget(tfi.FrameworkName, "")
		if target == nil {
			reasons = append(reasons, fmt.Sprintf(
				"The project target framework %s was not found in the lock file.", tfi.FrameworkName.GetShortFolderName()))
			continue
		}
		var direct, central, transitive []*LockFileDependency
		for _, d := range target.Dependencies {
			switch d.Type {
			case DependencyDirect:
				direct = append(direct, d)
			case DependencyCentralTransitive:
				central = append(central, d)
			case DependencyTransitive:
				transitive = append(transitive, d)
			}
		}
		if reason, changed := directDependenciesChanged(tfi.Dependencies, direct, target.TargetFramework); changed {
			reasons = append(reasons, reason)
		}
		if reason, changed := centralVersionsChanged(tfi.CentralPackageVersions, central, transitive); changed {
			reasons = append(reasons, reason)
		}
	}

	if project.RestoreMetadata != nil {
		reasons = append(reasons, projectReferencesChanged(graph, project, lockFile)...)
	}
	return LockFileValidationResult{IsValid: len(reasons) == 0, InvalidReasons: reasons}, nil
}

func runtimesChanged(project *PackageSpec, lockFile *PackagesLockFile) (string, bool) {
	var projectRIDs []string
	if project.RuntimeGraph != nil {
		for rid := range project.RuntimeGraph.Runtimes {
			projectRIDs = append(projectRIDs, rid)
		}
	}
	var lockRIDs []string
	for _, t := range lockFile.Targets {
		if t.RuntimeIdentifier == "" {
			continue
		}
		if !slices.ContainsFunc(lockRIDs, func(r string) bool { return strings.EqualFold(r, t.RuntimeIdentifier) }) {
			lockRIDs = append(lockRIDs, t.RuntimeIdentifier)
		}
	}
	fold := func(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) }
	slices.SortFunc(projectRIDs, fold)
	slices.SortFunc(lockRIDs, fold)
	if slices.EqualFunc(projectRIDs, lockRIDs, strings.EqualFold) {
		return "", false
	}
	return fmt.Sprintf("The project's runtime identifiers changed from %s to %s.",
		strings.Join(lockRIDs, ";"), strings.Join(projectRIDs, ";")), true
}

func directDependenciesChanged(deps []*librarymodel.LibraryDependency, locked []*LockFileDependency, fw *frameworks.NuGetFramework) (string, bool) {
	var packages []*librarymodel.LibraryDependency
	for _, d := range deps {
		if d.LibraryRange.TypeConstraint == librarymodel.TargetPackage {
			packages = append(packages, d)
		}
	}
	if len(packages) != len(locked) {
		lockedNames := make([]string, len(locked))
		for i, d := range locked {
			lockedNames[i] = d.ID + ":" + rangeString(d.RequestedVersion)
		}
		projectNames := make([]string, len(packages))
		for i, d := range packages {
			projectNames[i] = d.Name() + ":" + rangeString(d.LibraryRange.VersionRange)
		}
		slices.Sort(lockedNames)
		slices.Sort(projectNames)
		return fmt.Sprintf("The package references have changed for %s. Lock file's package references: %s, project's package references: %s.",
			fw.GetShortFolderName(), joinOrNone(lockedNames, ", "), joinOrNone(projectNames, ", ")), true
	}
	for _, d := range packages {
		i := slices.IndexFunc(locked, func(l *LockFileDependency) bool { return strings.EqualFold(l.ID, d.Name()) })
		if i < 0 {
			return fmt.Sprintf("A new package reference was found %s for the project target framework %s.",
				d.Name(), fw.GetShortFolderName()), true
		}
		if !librarymodel.RangeEquals(locked[i].RequestedVersion, d.LibraryRange.VersionRange) {
			return fmt.Sprintf("The package reference %s version has changed from %s to %s.",
				d.Name(), rangeString(locked[i].RequestedVersion), rangeString(d.LibraryRange.VersionRange)), true
		}
	}
	return "", false
}

func rangeString(r *version.Range) string {
	if r == nil {
		return ""
	}
	return r.ToNormalizedString()
}

func centralVersionsChanged(versions map[string]librarymodel.CentralPackageVersion, central, transitive []*LockFileDependency) (string, bool) {
	for _, d := range transitive {
		if _, ok := versions[strings.ToLower(d.ID)]; ok {
			return fmt.Sprintf("The transitive package reference %s is now centrally managed.", d.ID), true
		}
	}
	for _, d := range central {
		cpv, ok := versions[strings.ToLower(d.ID)]
		if !ok {
			return fmt.Sprintf("Central package management file doesn't contain version range for %s package which is specified as CentralTransitive dependency in the lock file.", d.ID), true
		}
		if !librarymodel.RangeEquals(d.RequestedVersion, cpv.VersionRange) {
			return fmt.Sprintf("Mismatch between the requestedVersion of a lock file dependency marked as CentralTransitive and the version specified in the central package management file. Lock file version %s, central package management version %s.",
				rangeString(d.RequestedVersion), rangeString(cpv.VersionRange)), true
		}
	}
	return "", false
}

type p2pEntry struct {
	name       string
	uniqueName string
}

// projectReferencesChanged walks the project references of every restore
// framework breadth first and checks each against its Project entry in the
// lock file.
func projectReferencesChanged(graph *DependencyGraphSpec, project *PackageSpec, lockFile *PackagesLockFile) []string {
	var reasons []string
	for _, info := range project.RestoreMetadata.TargetFrameworks {
		target := lockFile.GetTarget(info.FrameworkName, "")
		if target == nil {
			continue
		}
		visited := map[string]bool{}
		var queue []p2pEntry
		enqueue := func(uniqueName string) {
			key := pathKey(uniqueName)
			if visited[key] {
				return
			}
			visited[key] = true
			name := uniqueName
			if spec := graph.GetProjectSpec(uniqueName); spec != nil {
				name = spec.Name
			}
			queue = append(queue, p2pEntry{name: name, uniqueName: uniqueName})
		}
		for _, ref := range info.ProjectReferences {
			enqueue(ref.ProjectUniqueName)
		}
		for len(queue) > 0 {
			entry := queue[0]
			queue = queue[1:]
			i := slices.IndexFunc(target.Dependencies, func(d *LockFileDependency) bool {
				return d.Type == DependencyProject && strings.EqualFold(d.ID, entry.name)
			})
			if i < 0 {
				reasons = append(reasons, fmt.Sprintf("A new project reference to %s was found for %s target framework.",
					entry.name, target.TargetFramework.GetShortFolderName()))
				continue
			}
			locked := target.Dependencies[i]
			p2p := graph.GetProjectSpec(entry.uniqueName)
			if p2p == nil {
				reasons = append(reasons, fmt.Sprintf("The project %s has changed its dependencies.", locked.ID))
				continue
			}
			tfi := nearestTargetFramework(p2p, info.FrameworkName)
			if tfi == nil {
				reasons = append(reasons, fmt.Sprintf("The project reference %s has no compatible target framework for %s.",
					entry.name, info.FrameworkName.GetShortFolderName()))
				continue
			}
			var refs []*ProjectRestoreReference
			if p2p.RestoreMetadata != nil {
				for _, f := range p2p.RestoreMetadata.TargetFrameworks {
					if frameworkEquals(f.FrameworkName, tfi.FrameworkName) {
						refs = f.ProjectReferences
						break
					}
				}
			}
			if reason, changed := p2pDependenciesChanged(graph, tfi.Dependencies, refs, locked); changed {
				reasons = append(reasons, reason)
			}
			for _, ref := range refs {
				if ref.PrivateAssets != librarymodel.IncludeAll {
					enqueue(ref.ProjectUniqueName)
				}
			}
		}
	}
	return reasons
}

// nearestTargetFramework picks the referenced project's framework for fw:
// the same framework, or the only one for projects that do not use package
// references. Compatibility mapping between different frameworks is not
// attempted.
func nearestTargetFramework(spec *PackageSpec, fw *frameworks.NuGetFramework) *TargetFrameworkInformation {
	if spec.RestoreMetadata != nil {
		switch spec.RestoreMetadata.ProjectStyle {
		case ProjectStylePackagesConfig, ProjectStyleUnknown:
			if len(spec.TargetFrameworks) > 0 {
				return spec.TargetFrameworks[0]
			}
			return nil
		}
	}
	if tfi := spec.GetTargetFramework(fw); tfi != nil {
		return tfi
	}
	if len(spec.TargetFrameworks) == 1 {
		return spec.TargetFrameworks[0]
	}
	return nil
}

func p2pDependenciesChanged(graph *DependencyGraphSpec, deps []*librarymodel.LibraryDependency, refs []*ProjectRestoreReference, locked *LockFileDependency) (string, bool) {
	var flowing []*librarymodel.LibraryDependency
	for _, d := range deps {
		if d.LibraryRange.TypeConstraint == librarymodel.TargetPackage && d.SuppressParent != librarymodel.IncludeAll {
			flowing = append(flowing, d)
		}
	}
	var flowingRefs []*ProjectRestoreReference
	for _, r := range refs {
		if r.PrivateAssets != librarymodel.IncludeAll {
			flowingRefs = append(flowingRefs, r)
		}
	}
	if len(flowing)+len(flowingRefs) != len(locked.Dependencies) {
		var current []string
		for _, d := range flowing {
			current = append(current, d.Name())
		}
		for _, r := range refs {
			current = append(current, r.ProjectUniqueName)
		}
		var previous []string
		for _, d := range locked.Dependencies {
			previous = append(previous, d.ID)
		}
		slices.Sort(current)
		slices.Sort(previous)
		return fmt.Sprintf("The project reference %s has changed. Current dependencies: %s lock file's dependencies: %s.",
			locked.ID, joinOrNone(current, ","), joinOrNone(previous, ",")), true
	}
	changed := fmt.Sprintf("The project %s has changed its dependencies.", locked.ID)
	for _, d := range flowing {
		i := slices.IndexFunc(locked.Dependencies, func(p PackageDependency) bool { return strings.EqualFold(p.ID, d.Name()) })
		if i < 0 || !librarymodel.RangeEquals(locked.Dependencies[i].VersionRange, d.LibraryRange.VersionRange) {
			return changed, true
		}
	}
	for _, r := range flowingRefs {
		name := r.ProjectUniqueName
		if spec := graph.GetProjectSpec(r.ProjectUniqueName); spec != nil {
			name = spec.Name
		}
		if !slices.ContainsFunc(locked.Dependencies, func(p PackageDependency) bool { return strings.EqualFold(p.ID, name) }) {
			return changed, true
		}
	}
	return "", false
}
