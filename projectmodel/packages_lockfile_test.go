package projectmodel

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/version"
)

const packagesLockDocument = `{
  "version": 1,
  "dependencies": {
    "net8.0": {
      "Newtonsoft.Json": {
        "type": "Direct",
        "requested": "[13.0.1, )",
        "resolved": "13.0.1",
        "contentHash": "abc==",
        "dependencies": {"System.Memory": "4.5.5"}
      },
      "System.Memory": {
        "type": "Transitive",
        "resolved": "4.5.5",
        "sha512": "def=="
      },
      "b": {
        "type": "project",
        "dependencies": {"Newtonsoft.Json": "[13.0.1, )"}
      }
    },
    "net8.0/win-x64": {}
  },
  "extra": true
}`

func TestLoadPackagesLockFile(t *testing.T) {
	lf, err := LoadPackagesLockFile(strings.NewReader(packagesLockDocument), "packages.lock.json")
	require.NoError(t, err)

	assert.Equal(t, 1, lf.Version)
	assert.Equal(t, "packages.lock.json", lf.Path)
	require.Len(t, lf.Targets, 2)

	target := lf.GetTarget(frameworks.Parse("net8.0"), "")
	require.NotNil(t, target)
	require.Len(t, target.Dependencies, 3)

	byID := map[string]*LockFileDependency{}
	for _, d := range target.Dependencies {
		byID[d.ID] = d
	}

	direct := byID["Newtonsoft.Json"]
	require.NotNil(t, direct)
	assert.Equal(t, DependencyDirect, direct.Type)
	assert.Equal(t, "[13.0.1, )", direct.RequestedVersion.ToNormalizedString())
	assert.Equal(t, "13.0.1", direct.ResolvedVersion.ToNormalizedString())
	assert.Equal(t, "abc==", direct.ContentHash)
	require.Len(t, direct.Dependencies, 1)
	assert.Equal(t, "[4.5.5, )", direct.Dependencies[0].VersionRange.ToNormalizedString())

	transitive := byID["System.Memory"]
	require.NotNil(t, transitive)
	assert.Equal(t, DependencyTransitive, transitive.Type)
	assert.Nil(t, transitive.RequestedVersion)
	assert.Equal(t, "def==", transitive.ContentHash, "sha512 is read as the content hash")

	project := byID["b"]
	require.NotNil(t, project)
	assert.Equal(t, DependencyProject, project.Type)
	assert.Nil(t, project.ResolvedVersion)

	rid := lf.GetTarget(frameworks.Parse("net8.0"), "WIN-X64")
	require.NotNil(t, rid)
	assert.Empty(t, rid.Dependencies)
}

func TestWritePackagesLockFile_RoundTrip(t *testing.T) {
	first, err := LoadPackagesLockFile(strings.NewReader(packagesLockDocument), "packages.lock.json")
	require.NoError(t, err)

	out, err := RenderPackagesLockFile(first)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "sha512")

	second, err := LoadPackagesLockFile(strings.NewReader(string(out)), "packages.lock.json")
	require.NoError(t, err)
	assert.True(t, first.Equals(second), "round trip changed the lock file:\n%s", out)

	again, err := RenderPackagesLockFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestWritePackagesLockFile_Exact(t *testing.T) {
	lf := NewPackagesLockFile()
	lf.Targets = []*PackagesLockFileTarget{{
		TargetFramework: frameworks.Parse("net8.0"),
		Dependencies: []*LockFileDependency{
			{
				ID:           "p",
				Type:         DependencyProject,
				Dependencies: []PackageDependency{{ID: "A", VersionRange: version.MustParseRange("1.0.0")}},
			},
			{
				ID:              "b",
				Type:            DependencyTransitive,
				ResolvedVersion: version.MustParse("2.0.0"),
				ContentHash:     "h2",
			},
			{
				ID:               "A",
				Type:             DependencyDirect,
				RequestedVersion: version.MustParseRange("1.0.0"),
				ResolvedVersion:  version.MustParse("1.0.0"),
				ContentHash:      "h1",
				Dependencies:     []PackageDependency{{ID: "B", VersionRange: version.MustParseRange("2.0.0")}},
			},
		},
	}}

	out, err := RenderPackagesLockFile(lf)
	require.NoError(t, err)

	want := `{
  "version": 1,
  "dependencies": {
    "net8.0": {
      "A": {
        "type": "Direct",
        "requested": "[1.0.0, )",
        "resolved": "1.0.0",
        "contentHash": "h1",
        "dependencies": {
          "B": "2.0.0"
        }
      },
      "b": {
        "type": "Transitive",
        "resolved": "2.0.0",
        "contentHash": "h2"
      },
      "p": {
        "type": "Project",
        "dependencies": {
          "A": "[1.0.0, )"
        }
      }
    }
  }
}`
	assert.Equal(t, want, string(out))
}

func TestWritePackagesLockFile_Nil(t *testing.T) {
	_, err := RenderPackagesLockFile(nil)
	assert.ErrorIs(t, err, ErrNilPackagesLockFile)
}

func TestLoadPackagesLockFile_InvalidType(t *testing.T) {
	doc := `{"version": 1, "dependencies": {"net8.0": {"a": {"type": "Bogus"}}}}`

	_, err := LoadPackagesLockFile(strings.NewReader(doc), "packages.lock.json")

	require.Error(t, err)
	assert.True(t, IsFileFormatError(err))
	assert.True(t, strings.HasPrefix(err.Error(), "Error reading 'packages.lock.json' at line 1 column"), err.Error())
	assert.True(t, strings.HasSuffix(err.Error(), "'Bogus' is not a valid dependency type."), err.Error())
}

func TestReadPackagesLockFile_FailuresAreWarnings(t *testing.T) {
	log := observability.NewCountingLogger(nil)

	lf := ReadPackagesLockFile(strings.NewReader(`{"version": }`), "packages.lock.json", log)

	assert.Equal(t, InvalidLockFileVersion, lf.Version)
	assert.Equal(t, "packages.lock.json", lf.Path)
	assert.Equal(t, 1, log.Warnings())
	assert.Zero(t, log.Errors())

	missing := ReadPackagesLockFileFromFile(filepath.Join(t.TempDir(), "packages.lock.json"), log)
	assert.Equal(t, InvalidLockFileVersion, missing.Version)
	assert.Equal(t, 2, log.Warnings())
}

func TestWritePackagesLockFileFile(t *testing.T) {
	first, err := LoadPackagesLockFile(strings.NewReader(packagesLockDocument), "packages.lock.json")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), PackagesLockFileName)

	require.NoError(t, WritePackagesLockFileFile(first, path))

	read := ReadPackagesLockFileFromFile(path, nil)
	assert.Equal(t, path, read.Path)
	assert.True(t, first.Equals(read))
}

func TestLockFileDependency_Equals(t *testing.T) {
	dep := func() *LockFileDependency {
		return &LockFileDependency{
			ID:               "A",
			Type:             DependencyDirect,
			RequestedVersion: version.MustParseRange("1.0.0"),
			ResolvedVersion:  version.MustParse("1.0.0"),
			ContentHash:      "h",
			Dependencies: []PackageDependency{
				{ID: "B", VersionRange: version.MustParseRange("1.0.0")},
				{ID: "C", VersionRange: version.MustParseRange("1.0.0")},
			},
		}
	}

	tests := []struct {
		name            string
		mutate          func(d *LockFileDependency)
		equal           bool
		equalIgnoreHash bool
	}{
		{"identical", func(*LockFileDependency) {}, true, true},
		{"id case", func(d *LockFileDependency) { d.ID = "a" }, true, true},
		{"dependency order", func(d *LockFileDependency) {
			d.Dependencies[0], d.Dependencies[1] = d.Dependencies[1], d.Dependencies[0]
		}, true, true},
		{"content hash", func(d *LockFileDependency) { d.ContentHash = "other" }, false, true},
		{"type", func(d *LockFileDependency) { d.Type = DependencyTransitive }, false, false},
		{"resolved", func(d *LockFileDependency) { d.ResolvedVersion = version.MustParse("1.0.1") }, false, false},
		{"requested", func(d *LockFileDependency) { d.RequestedVersion = nil }, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := dep(), dep()
			tt.mutate(b)

			assert.Equal(t, tt.equal, a.Equals(b))
			assert.Equal(t, tt.equalIgnoreHash, a.EqualsIgnoringContentHash(b))
			if tt.equalIgnoreHash {
				assert.Equal(t, a.HashIgnoringContentHash(), b.HashIgnoringContentHash())
			}
		})
	}
}

func TestParsePackageDependencyType(t *testing.T) {
	tests := []struct {
		input string
		want  PackageDependencyType
		ok    bool
	}{
		{"Direct", DependencyDirect, true},
		{"transitive", DependencyTransitive, true},
		{"PROJECT", DependencyProject, true},
		{"CentralTransitive", DependencyCentralTransitive, true},
		{"Bogus", DependencyDirect, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParsePackageDependencyType(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
	assert.Equal(t, "CentralTransitive", DependencyCentralTransitive.String())
}

func TestPackagesLockFile_Clone(t *testing.T) {
	original, err := LoadPackagesLockFile(strings.NewReader(packagesLockDocument), "packages.lock.json")
	require.NoError(t, err)

	clone := original.Clone()
	require.True(t, original.Equals(clone))

	clone.Targets[0].Dependencies[0].ContentHash = "changed"
	assert.False(t, original.Equals(clone))
}
