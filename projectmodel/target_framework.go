package projectmodel

import (
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/librarymodel"
)

// TargetFrameworkInformation is everything a package spec declares for one
// target framework.
type TargetFrameworkInformation struct {
	FrameworkName *frameworks.NuGetFramework
	TargetAlias   string
	Dependencies  []*librarymodel.LibraryDependency

	// Imports are fallback frameworks tried in order.
	Imports             []*frameworks.NuGetFramework
	AssetTargetFallback bool
	Warn                bool

	// SecondaryFramework is the framework a dual-compatibility target also
	// resolves against.
	SecondaryFramework *frameworks.NuGetFramework

	// CentralPackageVersions is keyed by the lower-cased package id.
	CentralPackageVersions     map[string]librarymodel.CentralPackageVersion
	DownloadDependencies       []librarymodel.DownloadDependency
	FrameworkReferences        []librarymodel.FrameworkDependency
	RuntimeIdentifierGraphPath string
}

// NewTargetFrameworkInformation creates an empty declaration for fw.
func NewTargetFrameworkInformation(fw *frameworks.NuGetFramework) *TargetFrameworkInformation {
	return &TargetFrameworkInformation{FrameworkName: fw}
}

// AddCentralPackageVersion adds or replaces the central version of an id.
func (t *TargetFrameworkInformation) AddCentralPackageVersion(v librarymodel.CentralPackageVersion) {
	if t.CentralPackageVersions == nil {
		t.CentralPackageVersions = make(map[string]librarymodel.CentralPackageVersion)
	}
	t.CentralPackageVersions[strings.ToLower(v.Name)] = v
}

// AddFrameworkReference adds a reference unless one with the same name is
// already present.
func (t *TargetFrameworkInformation) AddFrameworkReference(f librarymodel.FrameworkDependency) {
	for _, existing := range t.FrameworkReferences {
		if strings.EqualFold(existing.Name, f.Name) {
			return
		}
	}
	t.FrameworkReferences = append(t.FrameworkReferences, f)
}

// Equals compares two declarations. Imports are compared in order; every
// other collection ignores order.
func (t *TargetFrameworkInformation) Equals(other *TargetFrameworkInformation) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return frameworkEquals(t.FrameworkName, other.FrameworkName) &&
		strings.EqualFold(t.TargetAlias, other.TargetAlias) &&
		librarymodel.DependenciesEqual(t.Dependencies, other.Dependencies) &&
		equality.Sequence(t.Imports, other.Imports, frameworkEquals) &&
		t.AssetTargetFallback == other.AssetTargetFallback &&
		t.Warn == other.Warn &&
		frameworkEquals(t.SecondaryFramework, other.SecondaryFramework) &&
		equality.Map(t.CentralPackageVersions, other.CentralPackageVersions, librarymodel.CentralPackageVersion.Equals) &&
		equality.Multiset(t.DownloadDependencies, other.DownloadDependencies,
			librarymodel.DownloadDependency.HashCode, librarymodel.DownloadDependency.Equals) &&
		equality.Multiset(t.FrameworkReferences, other.FrameworkReferences,
			librarymodel.FrameworkDependency.HashCode, librarymodel.FrameworkDependency.Equals) &&
		equality.Path.Equal(t.RuntimeIdentifierGraphPath, other.RuntimeIdentifierGraphPath)
}

// HashCode agrees with Equals.
func (t *TargetFrameworkInformation) HashCode() uint64 {
	h := equality.NewHashCode()
	if t == nil {
		return h.Sum()
	}
	h.AddUint64(frameworkHash(t.FrameworkName))
	h.AddStringFold(t.TargetAlias)
	h.AddUint64(librarymodel.DependenciesHash(t.Dependencies))
	h.AddSequence(equality.HashAll(t.Imports, frameworkHash))
	h.AddBool(t.AssetTargetFallback)
	h.AddBool(t.Warn)
	cpv := make([]uint64, 0, len(t.CentralPackageVersions))
	for _, v := range t.CentralPackageVersions {
		cpv = append(cpv, v.HashCode())
	}
	h.AddUnordered(cpv)
	h.AddUnordered(equality.HashAll(t.DownloadDependencies, librarymodel.DownloadDependency.HashCode))
	h.AddUnordered(equality.HashAll(t.FrameworkReferences, librarymodel.FrameworkDependency.HashCode))
	h.AddUint64(equality.Path.Hash(t.RuntimeIdentifierGraphPath))
	return h.Sum()
}

// Clone returns a deep copy.
func (t *TargetFrameworkInformation) Clone() *TargetFrameworkInformation {
	if t == nil {
		return nil
	}
	c := &TargetFrameworkInformation{
		FrameworkName:              t.FrameworkName.Clone(),
		TargetAlias:                t.TargetAlias,
		Dependencies:               librarymodel.CloneDependencies(t.Dependencies),
		AssetTargetFallback:        t.AssetTargetFallback,
		Warn:                       t.Warn,
		SecondaryFramework:         t.SecondaryFramework.Clone(),
		FrameworkReferences:        slices.Clone(t.FrameworkReferences),
		RuntimeIdentifierGraphPath: t.RuntimeIdentifierGraphPath,
	}
	if t.Imports != nil {
		c.Imports = make([]*frameworks.NuGetFramework, len(t.Imports))
		for i, fw := range t.Imports {
			c.Imports[i] = fw.Clone()
		}
	}
	if t.CentralPackageVersions != nil {
		c.CentralPackageVersions = make(map[string]librarymodel.CentralPackageVersion, len(t.CentralPackageVersions))
		for k, v := range t.CentralPackageVersions {
			c.CentralPackageVersions[k] = v.Clone()
		}
	}
	if t.DownloadDependencies != nil {
		c.DownloadDependencies = make([]librarymodel.DownloadDependency, len(t.DownloadDependencies))
		for i, d := range t.DownloadDependencies {
			c.DownloadDependencies[i] = d.Clone()
		}
	}
	return c
}
