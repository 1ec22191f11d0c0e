package projectmodel

import (
	"strconv"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/version"
)

const (
	// PackagesLockFileName is the default packages lock file name.
	PackagesLockFileName = "packages.lock.json"

	// PackagesLockFileVersion is the newest packages lock file version this
	// package understands.
	PackagesLockFileVersion = 2

	// PackagesLockFileDefaultVersion is written unless central transitive
	// dependencies require PackagesLockFileVersion.
	PackagesLockFileDefaultVersion = 1
)

// PackageDependencyType is how a dependency entered a packages lock file.
type PackageDependencyType int

const (
	DependencyDirect PackageDependencyType = iota
	DependencyTransitive
	DependencyProject
	DependencyCentralTransitive
)

var dependencyTypeNames = [...]string{"Direct", "Transitive", "Project", "CentralTransitive"}

func (t PackageDependencyType) String() string {
	if t < 0 || int(t) >= len(dependencyTypeNames) {
		return "PackageDependencyType(" + strconv.Itoa(int(t)) + ")"
	}
	return dependencyTypeNames[t]
}

// ParsePackageDependencyType parses a type name, ignoring case.
func ParsePackageDependencyType(s string) (PackageDependencyType, bool) {
	for i, name := range dependencyTypeNames {
		if strings.EqualFold(s, name) {
			return PackageDependencyType(i), true
		}
	}
	return DependencyDirect, false
}

// LockFileDependency is one entry of a packages lock file target.
type LockFileDependency struct {
	ID               string
	ResolvedVersion  *version.NuGetVersion
	RequestedVersion *version.Range
	ContentHash      string
	Type             PackageDependencyType
	Dependencies     []PackageDependency
}

// EqualsIgnoringContentHash compares every field but the content hash.
func (d *LockFileDependency) EqualsIgnoringContentHash(other *LockFileDependency) bool {
	if d == nil || other == nil {
		return d == nil && other == nil
	}
	return strings.EqualFold(d.ID, other.ID) &&
		versionEquals(d.ResolvedVersion, other.ResolvedVersion) &&
		librarymodel.RangeEquals(d.RequestedVersion, other.RequestedVersion) &&
		d.Type == other.Type &&
		equality.Multiset(d.Dependencies, other.Dependencies, PackageDependency.HashCode, PackageDependency.Equals)
}

// HashIgnoringContentHash agrees with EqualsIgnoringContentHash.
func (d *LockFileDependency) HashIgnoringContentHash() uint64 {
	h := equality.NewHashCode()
	h.AddStringFold(d.ID)
	h.AddUint64(versionHash(d.ResolvedVersion))
	h.AddUint64(librarymodel.RangeHash(d.RequestedVersion))
	h.AddInt(int(d.Type))
	h.AddUnordered(equality.HashAll(d.Dependencies, PackageDependency.HashCode))
	return h.Sum()
}

// Equals compares the id ignoring case, the content hash exactly and the
// dependencies in any order.
func (d *LockFileDependency) Equals(other *LockFileDependency) bool {
	return d.EqualsIgnoringContentHash(other) && d.ContentHash == other.ContentHash
}

// HashCode agrees with Equals.
func (d *LockFileDependency) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddUint64(d.HashIgnoringContentHash())
	h.AddString(d.ContentHash)
	return h.Sum()
}

// Clone returns a deep copy.
func (d *LockFileDependency) Clone() *LockFileDependency {
	if d == nil {
		return nil
	}
	c := *d
	c.ResolvedVersion = d.ResolvedVersion.Clone()
	c.RequestedVersion = d.RequestedVersion.Clone()
	c.Dependencies = clonePackageDependencies(d.Dependencies)
	return &c
}

// PackagesLockFileTarget is the locked dependency set of one framework and
// optional runtime.
type PackagesLockFileTarget struct {
	TargetFramework   *frameworks.NuGetFramework
	RuntimeIdentifier string
	Dependencies      []*LockFileDependency
}

// Name returns the target's property name.
func (t *PackagesLockFileTarget) Name() string {
	name := ""
	if t.TargetFramework != nil {
		name = t.TargetFramework.String()
	}
	if t.RuntimeIdentifier != "" {
		name += "/" + t.RuntimeIdentifier
	}
	return name
}

// Equals compares framework, runtime and the dependencies in any order.
func (t *PackagesLockFileTarget) Equals(other *PackagesLockFileTarget) bool {
	if t == nil || other == nil {
		return t == nil && other == nil
	}
	return frameworkEquals(t.TargetFramework, other.TargetFramework) &&
		strings.EqualFold(t.RuntimeIdentifier, other.RuntimeIdentifier) &&
		equality.Multiset(t.Dependencies, other.Dependencies, (*LockFileDependency).HashCode, (*LockFileDependency).Equals)
}

// HashCode agrees with Equals.
func (t *PackagesLockFileTarget) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddUint64(frameworkHash(t.TargetFramework))
	h.AddStringFold(t.RuntimeIdentifier)
	h.AddUnordered(equality.HashAll(t.Dependencies, (*LockFileDependency).HashCode))
	return h.Sum()
}

// Clone returns a deep copy.
func (t *PackagesLockFileTarget) Clone() *PackagesLockFileTarget {
	if t == nil {
		return nil
	}
	c := &PackagesLockFileTarget{RuntimeIdentifier: t.RuntimeIdentifier}
	if t.TargetFramework != nil {
		c.TargetFramework = t.TargetFramework.Clone()
	}
	c.Dependencies = cloneAll(t.Dependencies, (*LockFileDependency).Clone)
	return c
}

// PackagesLockFile pins the packages a project resolved, per target.
type PackagesLockFile struct {
	Version int
	Path    string
	Targets []*PackagesLockFileTarget
}

// NewPackagesLockFile creates an empty lock file of the default version.
func NewPackagesLockFile() *PackagesLockFile {
	return &PackagesLockFile{Version: PackagesLockFileDefaultVersion}
}

// Equals compares the version and the targets in any order. Path is not
// compared.
func (f *PackagesLockFile) Equals(other *PackagesLockFile) bool {
	if f == nil || other == nil {
		return f == nil && other == nil
	}
	return f.Version == other.Version &&
		equality.Multiset(f.Targets, other.Targets, (*PackagesLockFileTarget).HashCode, (*PackagesLockFileTarget).Equals)
}

// HashCode agrees with Equals.
func (f *PackagesLockFile) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddInt(f.Version)
	h.AddUnordered(equality.HashAll(f.Targets, (*PackagesLockFileTarget).HashCode))
	return h.Sum()
}

// Clone returns a deep copy.
func (f *PackagesLockFile) Clone() *PackagesLockFile {
	if f == nil {
		return nil
	}
	return &PackagesLockFile{
		Version: f.Version,
		Path:    f.Path,
		Targets: cloneAll(f.Targets, (*PackagesLockFileTarget).Clone),
	}
}

// GetTarget returns the target for fw and rid, or nil.
func (f *PackagesLockFile) GetTarget(fw *frameworks.NuGetFramework, rid string) *PackagesLockFileTarget {
	for _, t := range f.Targets {
		if frameworkEquals(t.TargetFramework, fw) && strings.EqualFold(t.RuntimeIdentifier, rid) {
			return t
		}
	}
	return nil
}
