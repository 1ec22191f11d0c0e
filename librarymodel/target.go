// Package librarymodel defines the dependency value objects shared by the
// declarative spec, the assets file and the packages lock file.
package librarymodel

import (
	"strings"
)

// LibraryDependencyTarget restricts which kinds of library may satisfy a
// dependency.
type LibraryDependencyTarget uint16

const (
	TargetNone            LibraryDependencyTarget = 0
	TargetPackage         LibraryDependencyTarget = 1 << 0
	TargetProject         LibraryDependencyTarget = 1 << 1
	TargetExternalProject LibraryDependencyTarget = 1 << 2
	TargetAssembly        LibraryDependencyTarget = 1 << 3
	TargetReference       LibraryDependencyTarget = 1 << 4
	TargetWinMD           LibraryDependencyTarget = 1 << 5

	TargetAll = TargetPackage | TargetProject | TargetExternalProject |
		TargetAssembly | TargetReference | TargetWinMD

	// TargetPackageProjectExternal is the set a package reference may
	// resolve against.
	TargetPackageProjectExternal = TargetPackage | TargetProject | TargetExternalProject

	// TargetDefault is the constraint of a dependency with no target.
	TargetDefault = TargetAll &^ TargetReference
)

var targetNames = []struct {
	flag LibraryDependencyTarget
	name string
}{
	{TargetPackage, "Package"},
	{TargetProject, "Project"},
	{TargetExternalProject, "ExternalProject"},
	{TargetAssembly, "Assembly"},
	{TargetReference, "Reference"},
	{TargetWinMD, "WinMD"},
}

// ParseTarget parses a comma separated list of target names, ignoring case.
// An empty string is TargetAll. Unknown names contribute nothing, so a
// string with no known name parses to TargetNone.
func ParseTarget(s string) LibraryDependencyTarget {
	if s == "" {
		return TargetAll
	}
	var flags LibraryDependencyTarget
	for _, part := range strings.Split(s, ",") {
		flags |= parseSingleTarget(part)
	}
	return flags
}

func parseSingleTarget(s string) LibraryDependencyTarget {
	switch {
	case strings.EqualFold(s, "None"):
		return TargetNone
	case strings.EqualFold(s, "All"):
		return TargetAll
	}
	for _, t := range targetNames {
		if strings.EqualFold(s, t.name) {
			return t.flag
		}
	}
	return TargetNone
}

// IsDeclarable reports whether t may be written as the target of a
// dependency declaration: exactly one of Package, Project or
// ExternalProject.
func (t LibraryDependencyTarget) IsDeclarable() bool {
	switch t {
	case TargetPackage, TargetProject, TargetExternalProject:
		return true
	}
	return false
}

// Has reports whether every flag in other is set.
func (t LibraryDependencyTarget) Has(other LibraryDependencyTarget) bool {
	return t&other == other
}

// String returns the flag names joined with commas.
func (t LibraryDependencyTarget) String() string {
	switch t {
	case TargetNone:
		return "None"
	case TargetAll:
		return "All"
	}
	names := make([]string, 0, len(targetNames))
	for _, n := range targetNames {
		if t&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// TypeString returns the lower case type name of a resolved library, as
// written in the assets file: "package", "project" and so on.
func (t LibraryDependencyTarget) TypeString() string {
	return strings.ToLower(t.String())
}
