package runtimemodel

import (
	"slices"
	"strings"

	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/objectwriter"
	"github.com/willibrandon/projectmodel/version"
)

const importProperty = "#import"

// ReadRuntimes reads the value of a "runtimes" property. The reader is on
// the property name.
func ReadRuntimes(r *jsonstream.Reader) ([]RuntimeDescription, error) {
	runtimes := []RuntimeDescription{}
	if _, err := r.Read(); err != nil {
		return nil, err
	}
	err := r.ReadObject(func(rid string) error {
		desc, err := readRuntimeDescription(r, rid)
		if err != nil {
			return err
		}
		runtimes = append(runtimes, desc)
		return nil
	})
	return runtimes, err
}

func readRuntimeDescription(r *jsonstream.Reader, rid string) (RuntimeDescription, error) {
	var inherited []string
	var sets []RuntimeDependencySet
	if _, err := r.Read(); err != nil {
		return RuntimeDescription{}, err
	}
	err := r.ReadObject(func(name string) error {
		if name == importProperty {
			if _, err := r.Read(); err != nil {
				return err
			}
			items, err := r.ReadStringArray()
			if err != nil {
				return err
			}
			if r.TokenType() == jsonstream.StartObject {
				return r.Skip()
			}
			inherited = items
			return nil
		}
		set, err := readDependencySet(r, name)
		if err != nil {
			return err
		}
		sets = append(sets, set)
		return nil
	})
	return NewRuntimeDescription(rid, inherited, sets), err
}

func readDependencySet(r *jsonstream.Reader, id string) (RuntimeDependencySet, error) {
	var deps []RuntimePackageDependency
	if _, err := r.Read(); err != nil {
		return RuntimeDependencySet{}, err
	}
	err := r.ReadObject(func(name string) error {
		text, err := r.ReadNextTokenAsString()
		if err != nil {
			return err
		}
		vr, err := version.ParseVersionRange(text)
		if err != nil {
			return err
		}
		deps = append(deps, RuntimePackageDependency{ID: name, VersionRange: vr})
		return nil
	})
	return NewRuntimeDependencySet(id, deps), err
}

// ReadSupports reads the value of a "supports" property. The reader is on
// the property name.
func ReadSupports(r *jsonstream.Reader) ([]CompatibilityProfile, error) {
	profiles := []CompatibilityProfile{}
	if _, err := r.Read(); err != nil {
		return nil, err
	}
	err := r.ReadObject(func(name string) error {
		profile, err := readCompatibilityProfile(r, name)
		if err != nil {
			return err
		}
		profiles = append(profiles, profile)
		return nil
	})
	return profiles, err
}

func readCompatibilityProfile(r *jsonstream.Reader, name string) (CompatibilityProfile, error) {
	profile := CompatibilityProfile{Name: name, RestoreContexts: []FrameworkRuntimePair{}}
	if _, err := r.Read(); err != nil {
		return profile, err
	}
	err := r.ReadObject(func(tfm string) error {
		rids, err := r.ReadNextStringOrArrayOfStrings()
		if err != nil {
			return err
		}
		if r.TokenType() == jsonstream.StartObject {
			if err := r.Skip(); err != nil {
				return err
			}
		}
		fw := frameworks.Parse(tfm)
		for _, rid := range rids {
			profile.RestoreContexts = append(profile.RestoreContexts, FrameworkRuntimePair{Framework: fw, RuntimeIdentifier: rid})
		}
		return nil
	})
	return profile, err
}

// Write emits the "runtimes" and "supports" sections, each only when it is
// not empty. Runtimes, sets and profiles are sorted by name.
func Write(w objectwriter.ObjectWriter, g *RuntimeGraph) error {
	if g == nil {
		return nil
	}
	if len(g.Runtimes) > 0 {
		if err := w.WriteObjectStart("runtimes"); err != nil {
			return err
		}
		for _, rid := range sortedKeys(g.Runtimes) {
			if err := writeRuntimeDescription(w, g.Runtimes[rid]); err != nil {
				return err
			}
		}
		if err := w.WriteObjectEnd(); err != nil {
			return err
		}
	}
	if len(g.Supports) > 0 {
		if err := w.WriteObjectStart("supports"); err != nil {
			return err
		}
		for _, name := range sortedKeys(g.Supports) {
			if err := writeCompatibilityProfile(w, g.Supports[name]); err != nil {
				return err
			}
		}
		if err := w.WriteObjectEnd(); err != nil {
			return err
		}
	}
	return nil
}

func writeRuntimeDescription(w objectwriter.ObjectWriter, d RuntimeDescription) error {
	if err := w.WriteObjectStart(d.RuntimeIdentifier); err != nil {
		return err
	}
	if err := w.WriteNameArray(importProperty, d.InheritedRuntimes); err != nil {
		return err
	}
	for _, id := range sortedKeys(d.RuntimeDependencySets) {
		set := d.RuntimeDependencySets[id]
		if err := w.WriteObjectStart(set.ID); err != nil {
			return err
		}
		for _, depID := range sortedKeys(set.Dependencies) {
			dep := set.Dependencies[depID]
			if err := w.WriteNameValue(dep.ID, dep.VersionRange.ToNormalizedString()); err != nil {
				return err
			}
		}
		if err := w.WriteObjectEnd(); err != nil {
			return err
		}
	}
	return w.WriteObjectEnd()
}

func writeCompatibilityProfile(w objectwriter.ObjectWriter, p CompatibilityProfile) error {
	if err := w.WriteObjectStart(p.Name); err != nil {
		return err
	}
	type group struct {
		name string
		rids []string
	}
	var groups []*group
	for _, ctx := range p.RestoreContexts {
		name := ctx.Framework.GetShortFolderName()
		i := slices.IndexFunc(groups, func(g *group) bool { return g.name == name })
		if i < 0 {
			groups = append(groups, &group{name: name})
			i = len(groups) - 1
		}
		groups[i].rids = append(groups[i].rids, ctx.RuntimeIdentifier)
	}
	for _, g := range groups {
		var err error
		if len(g.rids) == 1 {
			err = w.WriteNameValue(g.name, g.rids[0])
		} else {
			err = w.WriteNameArray(g.name, g.rids)
		}
		if err != nil {
			return err
		}
	}
	return w.WriteObjectEnd()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)
	return keys
}
