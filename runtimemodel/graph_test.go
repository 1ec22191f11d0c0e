package runtimemodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/objectwriter"
	"github.com/willibrandon/projectmodel/version"
)

func sampleGraph() *RuntimeGraph {
	return NewRuntimeGraph(
		[]RuntimeDescription{
			NewRuntimeDescription("win", []string{"any"}, nil),
			NewRuntimeDescription("win-x64", []string{"win"}, []RuntimeDependencySet{
				NewRuntimeDependencySet("System.Runtime", []RuntimePackageDependency{
					{ID: "runtime.win-x64.System.Runtime", VersionRange: version.MustParseRange("4.3.0")},
				}),
			}),
			NewRuntimeDescription("win10-x64", []string{"win-x64", "win"}, nil),
		},
		[]CompatibilityProfile{
			{Name: "uwp", RestoreContexts: []FrameworkRuntimePair{
				{Framework: frameworks.MustParseFramework("uap10.0"), RuntimeIdentifier: "win10-x86"},
				{Framework: frameworks.MustParseFramework("uap10.0"), RuntimeIdentifier: "win10-x64"},
			}},
		},
	)
}

func TestRuntimeGraph_ExpandRuntime(t *testing.T) {
	g := sampleGraph()

	assert.Equal(t, []string{"win10-x64", "win-x64", "win", "any"}, g.ExpandRuntime("win10-x64"))
	assert.Equal(t, []string{"linux-x64"}, g.ExpandRuntime("linux-x64"))
	assert.True(t, g.AreCompatible("win10-x64", "win"))
	assert.False(t, g.AreCompatible("win", "win10-x64"))
}

func TestRuntimeGraph_CloneIsIndependent(t *testing.T) {
	g := sampleGraph()
	clone := g.Clone()
	require.True(t, g.Equals(clone))
	assert.Equal(t, g.HashCode(), clone.HashCode())

	clone.Runtimes["win"].InheritedRuntimes[0] = "base"
	assert.Equal(t, "any", g.Runtimes["win"].InheritedRuntimes[0])
	assert.False(t, g.Equals(clone))
}

func TestRuntimeGraph_EqualsEmpty(t *testing.T) {
	var nilGraph *RuntimeGraph
	assert.True(t, nilGraph.Equals(Empty()))
	assert.False(t, Empty().Equals(sampleGraph()))
}

func TestCompatibilityProfile_EqualsIgnoresOrder(t *testing.T) {
	a := sampleGraph().Supports["uwp"]
	b := a.Clone()
	b.RestoreContexts[0], b.RestoreContexts[1] = b.RestoreContexts[1], b.RestoreContexts[0]
	assert.True(t, a.Equals(b))
}

func TestWriteAndRead_RoundTrip(t *testing.T) {
	g := sampleGraph()

	out, err := objectwriter.Render(func(w objectwriter.ObjectWriter) error { return Write(w, g) })
	require.NoError(t, err)

	r, err := jsonstream.NewReader(strings.NewReader(string(out)))
	require.NoError(t, err)
	defer r.Close()

	var runtimes []RuntimeDescription
	var supports []CompatibilityProfile
	err = r.ReadObject(func(name string) error {
		var err error
		switch name {
		case "runtimes":
			runtimes, err = ReadRuntimes(r)
		case "supports":
			supports, err = ReadSupports(r)
		default:
			err = r.Skip()
		}
		return err
	})
	require.NoError(t, err)

	assert.True(t, g.Equals(NewRuntimeGraph(runtimes, supports)), string(out))
}

func TestWrite_Layout(t *testing.T) {
	g := NewRuntimeGraph(
		[]RuntimeDescription{NewRuntimeDescription("b", nil, nil), NewRuntimeDescription("a", []string{"b"}, nil)},
		[]CompatibilityProfile{{Name: "p", RestoreContexts: []FrameworkRuntimePair{
			{Framework: frameworks.MustParseFramework("net46"), RuntimeIdentifier: "win"},
		}}},
	)

	out, err := objectwriter.Render(func(w objectwriter.ObjectWriter) error { return Write(w, g) })
	require.NoError(t, err)

	want := `{
  "runtimes": {
    "a": {
      "#import": [
        "b"
      ]
    },
    "b": {
      "#import": []
    }
  },
  "supports": {
    "p": {
      "net46": "win"
    }
  }
}`
	assert.Equal(t, want, string(out))
}

func TestReadSupports_ArrayOfRuntimes(t *testing.T) {
	r, err := jsonstream.NewReader(strings.NewReader(`{"supports":{"p":{"net46":["win-x86","win-x64"],"net47":{"x":1}}}}`))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Read()
	require.NoError(t, err)
	profiles, err := ReadSupports(r)
	require.NoError(t, err)

	require.Len(t, profiles, 1)
	assert.Len(t, profiles[0].RestoreContexts, 2)
	assert.Equal(t, "win-x64", profiles[0].RestoreContexts[1].RuntimeIdentifier)
}
