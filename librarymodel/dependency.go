package librarymodel

import (
	"slices"

	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/version"
)

// LibraryDependency is a declared dependency together with the asset and
// flow options attached to it.
type LibraryDependency struct {
	LibraryRange LibraryRange

	// IncludeType is the include set with the exclude set already removed.
	IncludeType    LibraryIncludeFlags
	SuppressParent LibraryIncludeFlags

	AutoReferenced          bool
	GeneratePathProperty    bool
	VersionCentrallyManaged bool
	ReferenceType           LibraryDependencyReferenceType
	Aliases                 string
	NoWarn                  []NuGetLogCode
	VersionOverride         *version.Range
}

// NewLibraryDependency creates a package dependency with default flags.
func NewLibraryDependency(name string, r *version.Range) *LibraryDependency {
	return &LibraryDependency{
		LibraryRange:   NewLibraryRange(name, r, TargetPackage),
		IncludeType:    IncludeAll,
		SuppressParent: DefaultSuppressParent,
		ReferenceType:  ReferenceDirect,
	}
}

// Name returns the library name.
func (d *LibraryDependency) Name() string {
	return d.LibraryRange.Name
}

// Equals compares every field. NoWarn is compared as a set.
func (d *LibraryDependency) Equals(other *LibraryDependency) bool {
	if d == other {
		return true
	}
	if d == nil || other == nil {
		return false
	}
	return d.LibraryRange.Equals(other.LibraryRange) &&
		d.IncludeType == other.IncludeType &&
		d.SuppressParent == other.SuppressParent &&
		d.AutoReferenced == other.AutoReferenced &&
		d.GeneratePathProperty == other.GeneratePathProperty &&
		d.VersionCentrallyManaged == other.VersionCentrallyManaged &&
		d.ReferenceType == other.ReferenceType &&
		d.Aliases == other.Aliases &&
		logCodeSetEquals(d.NoWarn, other.NoWarn) &&
		RangeEquals(d.VersionOverride, other.VersionOverride)
}

// HashCode agrees with Equals.
func (d *LibraryDependency) HashCode() uint64 {
	if d == nil {
		return 0
	}
	h := equality.NewHashCode()
	h.AddUint64(d.LibraryRange.HashCode())
	h.AddUint64(d.IncludeType.HashCode())
	h.AddUint64(d.SuppressParent.HashCode())
	h.AddBool(d.AutoReferenced)
	h.AddBool(d.GeneratePathProperty)
	h.AddBool(d.VersionCentrallyManaged)
	h.AddInt(int(d.ReferenceType))
	h.AddString(d.Aliases)
	h.AddUnordered(logCodeHashes(distinctLogCodes(d.NoWarn)))
	h.AddUint64(RangeHash(d.VersionOverride))
	return h.Sum()
}

// Clone returns a deep copy.
func (d *LibraryDependency) Clone() *LibraryDependency {
	if d == nil {
		return nil
	}
	c := *d
	c.LibraryRange = d.LibraryRange.Clone()
	c.NoWarn = slices.Clone(d.NoWarn)
	c.VersionOverride = d.VersionOverride.Clone()
	return &c
}

// CloneDependencies deep copies a dependency list.
func CloneDependencies(deps []*LibraryDependency) []*LibraryDependency {
	if deps == nil {
		return nil
	}
	out := make([]*LibraryDependency, len(deps))
	for i, d := range deps {
		out[i] = d.Clone()
	}
	return out
}

// DependenciesEqual compares dependency lists without regard to order.
func DependenciesEqual(a, b []*LibraryDependency) bool {
	return equality.Multiset(a, b, (*LibraryDependency).HashCode, (*LibraryDependency).Equals)
}

// DependenciesHash hashes a dependency list without regard to order.
func DependenciesHash(deps []*LibraryDependency) uint64 {
	h := equality.NewHashCode()
	h.AddUnordered(equality.HashAll(deps, (*LibraryDependency).HashCode))
	return h.Sum()
}

func distinctLogCodes(codes []NuGetLogCode) []NuGetLogCode {
	out := slices.Clone(codes)
	slices.Sort(out)
	return slices.Compact(out)
}

func logCodeSetEquals(a, b []NuGetLogCode) bool {
	return slices.Equal(distinctLogCodes(a), distinctLogCodes(b))
}

func logCodeHashes(codes []NuGetLogCode) []uint64 {
	out := make([]uint64, len(codes))
	for i, c := range codes {
		out[i] = uint64(c)
	}
	return out
}

// LogCodeSetEquals compares two code lists as sets.
func LogCodeSetEquals(a, b []NuGetLogCode) bool {
	return logCodeSetEquals(a, b)
}

// LogCodeSetHash hashes a code list as a set.
func LogCodeSetHash(codes []NuGetLogCode) uint64 {
	h := equality.NewHashCode()
	h.AddSequence(logCodeHashes(distinctLogCodes(codes)))
	return h.Sum()
}

// SortedLogCodes returns the distinct codes in ascending order.
func SortedLogCodes(codes []NuGetLogCode) []NuGetLogCode {
	return distinctLogCodes(codes)
}
