package librarymodel

import (
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/internal/equality"
)

// LibraryIncludeFlags selects the asset groups a dependency contributes.
//
// Known asset groups are bits. Names that are not known are kept on the
// value as a lower case, sorted set, so flags written by a newer tool
// survive a read and write unchanged. The zero value is IncludeNone.
type LibraryIncludeFlags struct {
	bits   includeBits
	opaque string
}

type includeBits uint16

const (
	bitRuntime includeBits = 1 << iota
	bitCompile
	bitBuild
	bitContentFiles
	bitNative
	bitAnalyzers
	bitBuildTransitive

	bitsAll = bitRuntime | bitCompile | bitBuild | bitContentFiles |
		bitNative | bitAnalyzers | bitBuildTransitive
)

// opaqueSep joins opaque names; it cannot appear in a parsed name.
const opaqueSep = ","

var (
	IncludeNone            = LibraryIncludeFlags{}
	IncludeRuntime         = LibraryIncludeFlags{bits: bitRuntime}
	IncludeCompile         = LibraryIncludeFlags{bits: bitCompile}
	IncludeBuild           = LibraryIncludeFlags{bits: bitBuild}
	IncludeContentFiles    = LibraryIncludeFlags{bits: bitContentFiles}
	IncludeNative          = LibraryIncludeFlags{bits: bitNative}
	IncludeAnalyzers       = LibraryIncludeFlags{bits: bitAnalyzers}
	IncludeBuildTransitive = LibraryIncludeFlags{bits: bitBuildTransitive}

	IncludeAll = LibraryIncludeFlags{bits: bitsAll}

	// DefaultSuppressParent is the suppressParent value of a dependency that
	// does not declare one.
	DefaultSuppressParent = LibraryIncludeFlags{bits: bitContentFiles | bitBuild | bitAnalyzers}

	// IncludePlatform is the include set implied by a "platform" dependency.
	IncludePlatform = LibraryIncludeFlags{bits: bitBuild | bitCompile | bitAnalyzers}
)

var includeNames = []struct {
	bit  includeBits
	name string
}{
	{bitRuntime, "runtime"},
	{bitCompile, "compile"},
	{bitBuild, "build"},
	{bitContentFiles, "contentfiles"},
	{bitNative, "native"},
	{bitAnalyzers, "analyzers"},
	{bitBuildTransitive, "buildtransitive"},
}

// ParseIncludeFlag parses a single flag name, ignoring case.
func ParseIncludeFlag(name string) LibraryIncludeFlags {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return IncludeNone
	case strings.EqualFold(name, "none"):
		return IncludeNone
	case strings.EqualFold(name, "all"):
		return IncludeAll
	}
	for _, n := range includeNames {
		if strings.EqualFold(name, n.name) {
			return LibraryIncludeFlags{bits: n.bit}
		}
	}
	return LibraryIncludeFlags{opaque: strings.ToLower(strings.ReplaceAll(name, opaqueSep, ""))}
}

// GetIncludeFlags combines the parsed names.
func GetIncludeFlags(names []string) LibraryIncludeFlags {
	var flags LibraryIncludeFlags
	for _, n := range names {
		flags = flags.Union(ParseIncludeFlag(n))
	}
	return flags
}

// ParseIncludeFlags parses a comma separated flag string, returning def when
// the string is empty.
func ParseIncludeFlags(s string, def LibraryIncludeFlags) LibraryIncludeFlags {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return GetIncludeFlags(strings.Split(s, ","))
}

func splitOpaque(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, opaqueSep)
}

func joinOpaque(names []string) string {
	slices.Sort(names)
	return strings.Join(slices.Compact(names), opaqueSep)
}

// Union returns the flags set in f or other.
func (f LibraryIncludeFlags) Union(other LibraryIncludeFlags) LibraryIncludeFlags {
	opaque := f.opaque
	switch {
	case f.opaque == "":
		opaque = other.opaque
	case other.opaque != "" && other.opaque != f.opaque:
		opaque = joinOpaque(append(splitOpaque(f.opaque), splitOpaque(other.opaque)...))
	}
	return LibraryIncludeFlags{bits: f.bits | other.bits, opaque: opaque}
}

// Except returns the flags set in f and not in other.
func (f LibraryIncludeFlags) Except(other LibraryIncludeFlags) LibraryIncludeFlags {
	opaque := f.opaque
	if f.opaque != "" && other.opaque != "" {
		removed := splitOpaque(other.opaque)
		kept := slices.DeleteFunc(splitOpaque(f.opaque), func(n string) bool {
			return slices.Contains(removed, n)
		})
		opaque = strings.Join(kept, opaqueSep)
	}
	return LibraryIncludeFlags{bits: f.bits &^ other.bits, opaque: opaque}
}

// Has reports whether every flag in other is set in f.
func (f LibraryIncludeFlags) Has(other LibraryIncludeFlags) bool {
	return f.Union(other) == f
}

// Overlaps reports whether f and other share any flag.
func (f LibraryIncludeFlags) Overlaps(other LibraryIncludeFlags) bool {
	return f.Except(other) != f
}

// Known returns only the known asset group flags.
func (f LibraryIncludeFlags) Known() LibraryIncludeFlags {
	return LibraryIncludeFlags{bits: f.bits}
}

// Opaque returns the unknown flag names that are set, lower case and sorted.
func (f LibraryIncludeFlags) Opaque() []string {
	return splitOpaque(f.opaque)
}

// HashCode agrees with ==.
func (f LibraryIncludeFlags) HashCode() uint64 {
	h := equality.NewHashCode()
	h.AddUint64(uint64(f.bits))
	h.AddString(f.opaque)
	return h.Sum()
}

// String renders the flags the way they are written in project files:
// "none", "all", or lower case names joined with ", ". Unknown names
// follow the known ones in sorted order.
func (f LibraryIncludeFlags) String() string {
	switch f {
	case IncludeNone:
		return "none"
	case IncludeAll:
		return "all"
	}
	names := make([]string, 0, len(includeNames))
	for _, n := range includeNames {
		if f.bits&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	names = append(names, f.Opaque()...)
	return strings.Join(names, ", ")
}
