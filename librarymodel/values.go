package librarymodel

import (
	"strings"

	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/version"
)

// DownloadDependency is a package that is downloaded for a framework but
// never added to the graph.
type DownloadDependency struct {
	Name         string
	VersionRange *version.Range
}

// Equals compares the name ignoring case and the version range.
func (d DownloadDependency) Equals(other DownloadDependency) bool {
	return strings.EqualFold(d.Name, other.Name) && RangeEquals(d.VersionRange, other.VersionRange)
}

// HashCode agrees with Equals.
func (d DownloadDependency) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddStringFold(d.Name)
	h.AddUint64(RangeHash(d.VersionRange))
	return h.Sum()
}

// Clone returns a deep copy.
func (d DownloadDependency) Clone() DownloadDependency {
	d.VersionRange = d.VersionRange.Clone()
	return d
}

// FrameworkDependency is a shared framework reference such as
// Microsoft.AspNetCore.App.
type FrameworkDependency struct {
	Name          string
	PrivateAssets FrameworkDependencyFlags
}

// Equals compares the name ignoring case and the private assets.
func (f FrameworkDependency) Equals(other FrameworkDependency) bool {
	return strings.EqualFold(f.Name, other.Name) && f.PrivateAssets == other.PrivateAssets
}

// HashCode agrees with Equals.
func (f FrameworkDependency) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddStringFold(f.Name)
	h.AddInt(int(f.PrivateAssets))
	return h.Sum()
}

// Compare orders framework dependencies by name, ignoring case.
func (f FrameworkDependency) Compare(other FrameworkDependency) int {
	return strings.Compare(strings.ToLower(f.Name), strings.ToLower(other.Name))
}

// CentralPackageVersion pins the version of a package for every framework
// of a project.
type CentralPackageVersion struct {
	Name         string
	VersionRange *version.Range
}

// Equals compares the name ignoring case and the version range.
func (c CentralPackageVersion) Equals(other CentralPackageVersion) bool {
	return strings.EqualFold(c.Name, other.Name) && RangeEquals(c.VersionRange, other.VersionRange)
}

// HashCode agrees with Equals.
func (c CentralPackageVersion) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddStringFold(c.Name)
	h.AddUint64(RangeHash(c.VersionRange))
	return h.Sum()
}

// Clone returns a deep copy.
func (c CentralPackageVersion) Clone() CentralPackageVersion {
	c.VersionRange = c.VersionRange.Clone()
	return c
}

// PackageType is a named package kind such as "Dependency" or "DotnetTool".
// Version is empty unless one was declared.
type PackageType struct {
	Name    string
	Version string
}

// Equals compares the name ignoring case and the version.
func (p PackageType) Equals(other PackageType) bool {
	return strings.EqualFold(p.Name, other.Name) && p.Version == other.Version
}

// HashCode agrees with Equals.
func (p PackageType) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddStringFold(p.Name)
	h.AddString(p.Version)
	return h.Sum()
}
