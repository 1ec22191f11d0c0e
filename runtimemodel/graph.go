// Package runtimemodel describes the runtime identifier graph carried by a
// package spec: which runtimes import which, the extra packages each runtime
// pulls in, and the framework and runtime pairs a project supports.
package runtimemodel

import (
	"maps"
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/internal/equality"
	"github.com/willibrandon/projectmodel/version"
)

// RuntimePackageDependency adds a package when restoring for a runtime.
type RuntimePackageDependency struct {
	ID           string
	VersionRange *version.Range
}

// RuntimeDependencySet lists the extra packages a runtime needs when a given
// package is referenced.
type RuntimeDependencySet struct {
	ID           string
	Dependencies map[string]RuntimePackageDependency
}

// NewRuntimeDependencySet indexes deps by id.
func NewRuntimeDependencySet(id string, deps []RuntimePackageDependency) RuntimeDependencySet {
	set := RuntimeDependencySet{ID: id, Dependencies: make(map[string]RuntimePackageDependency, len(deps))}
	for _, d := range deps {
		set.Dependencies[d.ID] = d
	}
	return set
}

// Equals compares the id and every dependency.
func (s RuntimeDependencySet) Equals(other RuntimeDependencySet) bool {
	return s.ID == other.ID && equality.Map(s.Dependencies, other.Dependencies,
		func(a, b RuntimePackageDependency) bool {
			return a.ID == b.ID && rangeEquals(a.VersionRange, b.VersionRange)
		})
}

// Clone returns a deep copy.
func (s RuntimeDependencySet) Clone() RuntimeDependencySet {
	c := RuntimeDependencySet{ID: s.ID, Dependencies: make(map[string]RuntimePackageDependency, len(s.Dependencies))}
	for k, d := range s.Dependencies {
		c.Dependencies[k] = RuntimePackageDependency{ID: d.ID, VersionRange: d.VersionRange.Clone()}
	}
	return c
}

// RuntimeDescription is one runtime identifier and what it imports.
type RuntimeDescription struct {
	RuntimeIdentifier     string
	InheritedRuntimes     []string
	RuntimeDependencySets map[string]RuntimeDependencySet
}

// NewRuntimeDescription indexes sets by id.
func NewRuntimeDescription(rid string, inherited []string, sets []RuntimeDependencySet) RuntimeDescription {
	d := RuntimeDescription{
		RuntimeIdentifier:     rid,
		InheritedRuntimes:     inherited,
		RuntimeDependencySets: make(map[string]RuntimeDependencySet, len(sets)),
	}
	if d.InheritedRuntimes == nil {
		d.InheritedRuntimes = []string{}
	}
	for _, s := range sets {
		d.RuntimeDependencySets[s.ID] = s
	}
	return d
}

// Equals compares the identifier, the ordered imports and the dependency sets.
func (d RuntimeDescription) Equals(other RuntimeDescription) bool {
	return d.RuntimeIdentifier == other.RuntimeIdentifier &&
		equality.OrderedStrings(d.InheritedRuntimes, other.InheritedRuntimes, equality.Ordinal) &&
		equality.Map(d.RuntimeDependencySets, other.RuntimeDependencySets, RuntimeDependencySet.Equals)
}

// Clone returns a deep copy.
func (d RuntimeDescription) Clone() RuntimeDescription {
	c := RuntimeDescription{
		RuntimeIdentifier:     d.RuntimeIdentifier,
		InheritedRuntimes:     slices.Clone(d.InheritedRuntimes),
		RuntimeDependencySets: make(map[string]RuntimeDependencySet, len(d.RuntimeDependencySets)),
	}
	for k, s := range d.RuntimeDependencySets {
		c.RuntimeDependencySets[k] = s.Clone()
	}
	return c
}

// FrameworkRuntimePair is one restore context: a framework, optionally for a
// runtime.
type FrameworkRuntimePair struct {
	Framework         *frameworks.NuGetFramework
	RuntimeIdentifier string
}

// Name renders "net8.0" or "net8.0/win-x64".
func (p FrameworkRuntimePair) Name() string {
	name := p.Framework.DotNetFrameworkName()
	if p.RuntimeIdentifier != "" {
		name += "/" + p.RuntimeIdentifier
	}
	return name
}

// Equals compares the framework and the runtime identifier.
func (p FrameworkRuntimePair) Equals(other FrameworkRuntimePair) bool {
	return p.Framework.Equals(other.Framework) && p.RuntimeIdentifier == other.RuntimeIdentifier
}

// CompatibilityProfile is a named set of restore contexts a project promises
// to support.
type CompatibilityProfile struct {
	Name            string
	RestoreContexts []FrameworkRuntimePair
}

// Equals compares the name and the contexts, ignoring their order.
func (p CompatibilityProfile) Equals(other CompatibilityProfile) bool {
	return p.Name == other.Name && equality.Multiset(p.RestoreContexts, other.RestoreContexts,
		func(f FrameworkRuntimePair) uint64 { return equality.HashStringFold(f.Name()) },
		FrameworkRuntimePair.Equals)
}

// Clone returns a deep copy.
func (p CompatibilityProfile) Clone() CompatibilityProfile {
	c := CompatibilityProfile{Name: p.Name, RestoreContexts: make([]FrameworkRuntimePair, len(p.RestoreContexts))}
	for i, f := range p.RestoreContexts {
		c.RestoreContexts[i] = FrameworkRuntimePair{Framework: f.Framework.Clone(), RuntimeIdentifier: f.RuntimeIdentifier}
	}
	return c
}

// RuntimeGraph is the runtimes and supports sections of a package spec.
type RuntimeGraph struct {
	Runtimes map[string]RuntimeDescription
	Supports map[string]CompatibilityProfile
}

// NewRuntimeGraph indexes runtimes and profiles by name.
func NewRuntimeGraph(runtimes []RuntimeDescription, supports []CompatibilityProfile) *RuntimeGraph {
	g := &RuntimeGraph{
		Runtimes: make(map[string]RuntimeDescription, len(runtimes)),
		Supports: make(map[string]CompatibilityProfile, len(supports)),
	}
	for _, r := range runtimes {
		g.Runtimes[r.RuntimeIdentifier] = r
	}
	for _, s := range supports {
		g.Supports[s.Name] = s
	}
	return g
}

// Empty returns a graph with no runtimes and no profiles.
func Empty() *RuntimeGraph {
	return NewRuntimeGraph(nil, nil)
}

// IsEmpty reports whether the graph declares nothing.
func (g *RuntimeGraph) IsEmpty() bool {
	return g == nil || (len(g.Runtimes) == 0 && len(g.Supports) == 0)
}

// Equals compares runtimes and supports. A nil graph equals an empty one.
func (g *RuntimeGraph) Equals(other *RuntimeGraph) bool {
	if g.IsEmpty() || other.IsEmpty() {
		return g.IsEmpty() && other.IsEmpty()
	}
	return equality.Map(g.Runtimes, other.Runtimes, RuntimeDescription.Equals) &&
		equality.Map(g.Supports, other.Supports, CompatibilityProfile.Equals)
}

// HashCode agrees with Equals.
func (g *RuntimeGraph) HashCode() uint64 {
	h := equality.NewHashCode()
	if g.IsEmpty() {
		return h.Sum()
	}
	h.AddUnordered(equality.HashStrings(slices.Collect(maps.Keys(g.Runtimes)), false))
	h.AddUnordered(equality.HashStrings(slices.Collect(maps.Keys(g.Supports)), false))
	return h.Sum()
}

// Clone returns a deep copy.
func (g *RuntimeGraph) Clone() *RuntimeGraph {
	if g == nil {
		return nil
	}
	c := Empty()
	for k, r := range g.Runtimes {
		c.Runtimes[k] = r.Clone()
	}
	for k, s := range g.Supports {
		c.Supports[k] = s.Clone()
	}
	return c
}

// ExpandRuntime returns rid followed by every runtime it imports,
// breadth first, each listed once.
func (g *RuntimeGraph) ExpandRuntime(rid string) []string {
	expanded := []string{rid}
	seen := map[string]bool{rid: true}
	for i := 0; i < len(expanded); i++ {
		desc, ok := g.Runtimes[expanded[i]]
		if !ok {
			continue
		}
		for _, inherited := range desc.InheritedRuntimes {
			if !seen[inherited] {
				seen[inherited] = true
				expanded = append(expanded, inherited)
			}
		}
	}
	return expanded
}

// AreCompatible reports whether criteria satisfies a runtime, that is
// whether runtime appears in the expansion of criteria.
func (g *RuntimeGraph) AreCompatible(criteria, runtime string) bool {
	return slices.ContainsFunc(g.ExpandRuntime(criteria), func(r string) bool {
		return strings.EqualFold(r, runtime)
	})
}

func rangeEquals(a, b *version.Range) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}
