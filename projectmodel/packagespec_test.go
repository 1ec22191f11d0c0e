package projectmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/version"
)

func fullSpec() *PackageSpec {
	spec := NewPackageSpec()
	spec.Name = "a"
	spec.FilePath = "/src/a/a.csproj"
	spec.Version = version.MustParse("1.2.3")
	spec.IsDefaultVersion = false
	spec.Title = "A"
	spec.Authors = []string{"x", "y"}
	spec.Tags = []string{"t1", "t2"}
	spec.ContentFiles = []string{"c1", "c2"}
	spec.Scripts = map[string][]string{"postpack": {"a", "b"}}
	spec.PackOptions = &PackOptions{PackageType: []librarymodel.PackageType{{Name: "Dependency"}}}
	spec.Dependencies = []*librarymodel.LibraryDependency{
		librarymodel.NewLibraryDependency("x", version.MustParseRange("1.0.0")),
		librarymodel.NewLibraryDependency("y", version.MustParseRange("2.0.0")),
	}

	net8 := NewTargetFrameworkInformation(frameworks.Parse("net8.0"))
	net8.Imports = []*frameworks.NuGetFramework{frameworks.Parse("net461"), frameworks.Parse("net472")}
	net8.AddCentralPackageVersion(librarymodel.CentralPackageVersion{Name: "X", VersionRange: version.MustParseRange("1.0.0")})
	net472 := NewTargetFrameworkInformation(frameworks.Parse("net472"))
	spec.TargetFrameworks = []*TargetFrameworkInformation{net8, net472}

	spec.RestoreMetadata = &ProjectRestoreMetadata{
		ProjectStyle:      ProjectStylePackageReference,
		ProjectUniqueName: "/src/a/a.csproj",
		ProjectName:       "a",
		ProjectPath:       "/src/a/a.csproj",
		Sources:           []PackageSource{{Source: "https://api.nuget.org/v3/index.json"}, {Source: "/feed"}},
		FallbackFolders:   []string{"/fallback/a", "/fallback/b"},
		ConfigFilePaths:   []string{"/home/u/.nuget/NuGet/NuGet.Config", "/src/NuGet.Config"},
		TargetFrameworks: []*ProjectRestoreMetadataFrameworkInfo{{
			FrameworkName: frameworks.Parse("net8.0"),
			ProjectReferences: []*ProjectRestoreReference{
				NewProjectRestoreReference("/src/b/b.csproj", "/src/b/b.csproj"),
			},
		}},
	}
	return spec
}

func TestPackageSpec_Equals(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *PackageSpec)
		equal  bool
	}{
		{"identical", func(*PackageSpec) {}, true},
		{"file path ignored", func(s *PackageSpec) { s.FilePath = "/elsewhere/a.csproj" }, true},
		{"dependency order", func(s *PackageSpec) {
			s.Dependencies[0], s.Dependencies[1] = s.Dependencies[1], s.Dependencies[0]
		}, true},
		{"framework order", func(s *PackageSpec) {
			s.TargetFrameworks[0], s.TargetFrameworks[1] = s.TargetFrameworks[1], s.TargetFrameworks[0]
		}, true},
		{"content files order", func(s *PackageSpec) { s.ContentFiles = []string{"c2", "c1"} }, true},
		{"fallback folder order", func(s *PackageSpec) {
			s.RestoreMetadata.FallbackFolders = []string{"/fallback/b", "/fallback/a"}
		}, true},
		{"config file order", func(s *PackageSpec) {
			s.RestoreMetadata.ConfigFilePaths = []string{"/src/NuGet.Config", "/home/u/.nuget/NuGet/NuGet.Config"}
		}, true},
		{"source order", func(s *PackageSpec) {
			src := s.RestoreMetadata.Sources
			src[0], src[1] = src[1], src[0]
		}, true},
		{"name", func(s *PackageSpec) { s.Name = "b" }, false},
		{"package type", func(s *PackageSpec) {
			s.PackOptions.PackageType = []librarymodel.PackageType{{Name: "DotnetTool"}}
		}, false},
		{"version", func(s *PackageSpec) { s.Version = version.MustParse("1.2.4") }, false},
		{"title", func(s *PackageSpec) { s.Title = "B" }, false},
		{"authors order", func(s *PackageSpec) { s.Authors = []string{"y", "x"} }, false},
		{"tags", func(s *PackageSpec) { s.Tags = []string{"t1"} }, false},
		{"script order", func(s *PackageSpec) { s.Scripts["postpack"] = []string{"b", "a"} }, false},
		{"imports order", func(s *PackageSpec) {
			imports := s.TargetFrameworks[0].Imports
			imports[0], imports[1] = imports[1], imports[0]
		}, false},
		{"central version", func(s *PackageSpec) {
			s.TargetFrameworks[0].AddCentralPackageVersion(librarymodel.CentralPackageVersion{
				Name: "X", VersionRange: version.MustParseRange("2.0.0"),
			})
		}, false},
		{"dependency range", func(s *PackageSpec) {
			s.Dependencies[0].LibraryRange.VersionRange = version.MustParseRange("1.0.1")
		}, false},
		{"restore style", func(s *PackageSpec) { s.RestoreMetadata.ProjectStyle = ProjectStyleProjectJSON }, false},
		{"restore metadata missing", func(s *PackageSpec) { s.RestoreMetadata = nil }, false},
		{"project reference assets", func(s *PackageSpec) {
			s.RestoreMetadata.TargetFrameworks[0].ProjectReferences[0].PrivateAssets = librarymodel.IncludeAll
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := fullSpec()
			b := fullSpec()
			tt.mutate(b)

			assert.Equal(t, tt.equal, a.Equals(b))
			assert.Equal(t, tt.equal, b.Equals(a))
			if tt.equal {
				assert.Equal(t, a.HashCode(), b.HashCode())

				outA, err := RenderPackageSpec(a)
				require.NoError(t, err)
				outB, err := RenderPackageSpec(b)
				require.NoError(t, err)
				assert.Equal(t, string(outA), string(outB), "equal specs render differently")
			}
		})
	}
}

func TestPackageSpec_EqualsNil(t *testing.T) {
	var nilSpec *PackageSpec

	assert.True(t, nilSpec.Equals(nil))
	assert.False(t, nilSpec.Equals(fullSpec()))
	assert.False(t, fullSpec().Equals(nil))
}

func TestPackageSpec_Clone(t *testing.T) {
	original := fullSpec()
	clone := original.Clone()
	require.True(t, original.Equals(clone))
	assert.Equal(t, original.FilePath, clone.FilePath)

	clone.Authors[0] = "changed"
	clone.Scripts["postpack"][0] = "changed"
	clone.Dependencies[0].LibraryRange.Name = "changed"
	clone.TargetFrameworks[0].Imports = nil
	clone.TargetFrameworks[0].CentralPackageVersions["z"] = librarymodel.CentralPackageVersion{Name: "z"}
	clone.RestoreMetadata.Sources[0].Source = "changed"
	clone.RestoreMetadata.TargetFrameworks[0].ProjectReferences[0].ProjectPath = "changed"
	clone.Version = version.MustParse("9.9.9")

	assert.True(t, fullSpec().Equals(original), "mutating a clone must not change the original")
	assert.False(t, original.Equals(clone))
}

func TestPackageSpec_GetTargetFramework(t *testing.T) {
	spec := fullSpec()

	assert.NotNil(t, spec.GetTargetFramework(frameworks.Parse("net8.0")))
	assert.Nil(t, spec.GetTargetFramework(frameworks.Parse("net6.0")))
}

func TestTargetFrameworkInformation_AddCentralPackageVersion(t *testing.T) {
	tfi := NewTargetFrameworkInformation(frameworks.Parse("net8.0"))
	tfi.AddCentralPackageVersion(librarymodel.CentralPackageVersion{Name: "A", VersionRange: version.MustParseRange("1.0.0")})
	tfi.AddCentralPackageVersion(librarymodel.CentralPackageVersion{Name: "a", VersionRange: version.MustParseRange("2.0.0")})

	require.Len(t, tfi.CentralPackageVersions, 1)
	assert.Equal(t, "[2.0.0, )", tfi.CentralPackageVersions["a"].VersionRange.ToNormalizedString())
}

func TestParseProjectStyle(t *testing.T) {
	tests := []struct {
		input string
		want  ProjectStyle
		ok    bool
	}{
		{"PackageReference", ProjectStylePackageReference, true},
		{"packagereference", ProjectStylePackageReference, true},
		{"ProjectJson", ProjectStyleProjectJSON, true},
		{"PackagesConfig", ProjectStylePackagesConfig, true},
		{"DotnetToolReference", ProjectStyleDotnetToolReference, true},
		{"bogus", ProjectStyleUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseProjectStyle(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
