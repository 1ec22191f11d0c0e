package librarymodel

import (
	"strings"

	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/version"
)

// LibraryRange names a library and the versions that satisfy it.
type LibraryRange struct {
	Name           string
	VersionRange   *version.Range
	TypeConstraint LibraryDependencyTarget
}

// NewLibraryRange creates a range with the given constraint.
func NewLibraryRange(name string, r *version.Range, typeConstraint LibraryDependencyTarget) LibraryRange {
	return LibraryRange{Name: name, VersionRange: r, TypeConstraint: typeConstraint}
}

// Equals compares the name ignoring case, the version range and the type
// constraint.
func (r LibraryRange) Equals(other LibraryRange) bool {
	return strings.EqualFold(r.Name, other.Name) &&
		RangeEquals(r.VersionRange, other.VersionRange) &&
		r.TypeConstraint == other.TypeConstraint
}

// HashCode agrees with Equals.
func (r LibraryRange) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddStringFold(r.Name)
	h.AddUint64(RangeHash(r.VersionRange))
	h.AddInt(int(r.TypeConstraint))
	return h.Sum()
}

// Clone returns a copy that shares no version range with r.
func (r LibraryRange) Clone() LibraryRange {
	r.VersionRange = r.VersionRange.Clone()
	return r
}

// String renders "Name (>= 1.0.0)" style text for diagnostics.
func (r LibraryRange) String() string {
	if r.VersionRange == nil {
		return r.Name
	}
	return r.Name + " " + r.VersionRange.ToNormalizedString()
}

// RangeEquals compares two optional version ranges.
func RangeEquals(a, b *version.Range) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// RangeHash hashes an optional version range consistently with RangeEquals.
func RangeHash(r *version.Range) uint64 {
	if r == nil {
		return 0
	}
	return equality.HashStringFold(r.ToNormalizedString())
}
