package librarymodel

import "strings"

// LibraryDependencyReferenceType records how a dependency entered the graph.
type LibraryDependencyReferenceType int

const (
	ReferenceNone LibraryDependencyReferenceType = iota
	ReferenceTransitive
	ReferenceDirect
)

func (r LibraryDependencyReferenceType) String() string {
	switch r {
	case ReferenceTransitive:
		return "Transitive"
	case ReferenceDirect:
		return "Direct"
	}
	return "None"
}

// FrameworkDependencyFlags controls whether a framework reference flows to
// consumers of the package.
type FrameworkDependencyFlags int

const (
	FrameworkDependencyNone FrameworkDependencyFlags = 0
	FrameworkDependencyAll  FrameworkDependencyFlags = 1
)

// GetFrameworkDependencyFlags parses privateAssets values. Any "all" wins;
// everything else is None.
func GetFrameworkDependencyFlags(values []string) FrameworkDependencyFlags {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), "all") {
			return FrameworkDependencyAll
		}
	}
	return FrameworkDependencyNone
}

func (f FrameworkDependencyFlags) String() string {
	if f == FrameworkDependencyAll {
		return "all"
	}
	return "none"
}
