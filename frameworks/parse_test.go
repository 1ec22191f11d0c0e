package frameworks

import (
	"errors"
	"testing"
)

func TestParseFramework(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantFramework string
		wantVersion   FrameworkVersion
		wantPlatform  string
		wantProfile   string
	}{
		{"net8.0", "net8.0", NetCoreApp, FrameworkVersion{Major: 8}, "", ""},
		{"net5.0", "net5.0", NetCoreApp, FrameworkVersion{Major: 5}, "", ""},
		{"netstandard2.1", "netstandard2.1", NetStandard, FrameworkVersion{Major: 2, Minor: 1}, "", ""},
		{"netcoreapp3.1", "netcoreapp3.1", NetCoreApp, FrameworkVersion{Major: 3, Minor: 1}, "", ""},
		{"net48", "net48", NetFramework, FrameworkVersion{Major: 4, Minor: 8}, "", ""},
		{"net472", "net472", NetFramework, FrameworkVersion{Major: 4, Minor: 7, Build: 2}, "", ""},
		{"net46", "net46", NetFramework, FrameworkVersion{Major: 4, Minor: 6}, "", ""},
		{"upper case", "NET45", NetFramework, FrameworkVersion{Major: 4, Minor: 5}, "", ""},
		{"client profile", "net40-client", NetFramework, FrameworkVersion{Major: 4}, "", "Client"},
		{"windows platform", "net8.0-windows", NetCoreApp, FrameworkVersion{Major: 8}, "windows", ""},
		{"win8", "win8", "Windows", FrameworkVersion{Major: 8}, "", ""},
		{"wpa81", "wpa81", "WindowsPhoneApp", FrameworkVersion{Major: 8, Minor: 1}, "", ""},
		{"dnxcore50", "dnxcore50", "DNXCore", FrameworkVersion{Major: 5}, "", ""},
		{"uap10.0", "uap10.0", "UAP", FrameworkVersion{Major: 10}, "", ""},
		{"full name", ".NETCoreApp,Version=v2.2", NetCoreApp, FrameworkVersion{Major: 2, Minor: 2}, "", ""},
		{"full name framework", ".NETFramework,Version=v4.6.1", NetFramework, FrameworkVersion{Major: 4, Minor: 6, Build: 1}, "", ""},
		{"full name profile", ".NETFramework,Version=v4.0,Profile=Client", NetFramework, FrameworkVersion{Major: 4}, "", "Client"},
		{"full name lower case", ".netstandard,version=v1.3", NetStandard, FrameworkVersion{Major: 1, Minor: 3}, "", ""},
		{"portable list", "portable-net45+win8", NetPortable, FrameworkVersion{}, "", "Profile7"},
		{"portable profile", "portable-Profile259", NetPortable, FrameworkVersion{}, "", "Profile259"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, err := ParseFramework(tt.input)
			if err != nil {
				t.Fatalf("ParseFramework(%q) error = %v", tt.input, err)
			}
			if fw.Framework != tt.wantFramework {
				t.Errorf("Framework = %q, want %q", fw.Framework, tt.wantFramework)
			}
			if fw.Version != tt.wantVersion {
				t.Errorf("Version = %v, want %v", fw.Version, tt.wantVersion)
			}
			if fw.Platform != tt.wantPlatform {
				t.Errorf("Platform = %q, want %q", fw.Platform, tt.wantPlatform)
			}
			if fw.Profile != tt.wantProfile {
				t.Errorf("Profile = %q, want %q", fw.Profile, tt.wantProfile)
			}
		})
	}
}

func TestParseFramework_PlatformVersion(t *testing.T) {
	fw := MustParseFramework("net8.0-windows10.0.19041")
	want := FrameworkVersion{Major: 10, Minor: 0, Build: 19041}
	if fw.PlatformVersion != want {
		t.Errorf("PlatformVersion = %v, want %v", fw.PlatformVersion, want)
	}
}

func TestParseFramework_Errors(t *testing.T) {
	tests := []string{"foo", "net4.x", "net12345", "portable-net45+bogus", "net8.0-10.0"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := ParseFramework(input)
			if !errors.Is(err, ErrInvalidFramework) {
				t.Errorf("ParseFramework(%q) error = %v, want ErrInvalidFramework", input, err)
			}
		})
	}

	if _, err := ParseFramework("   "); !errors.Is(err, ErrEmptyFramework) {
		t.Errorf("ParseFramework(blank) error = %v, want ErrEmptyFramework", err)
	}
}

func TestParse_Unsupported(t *testing.T) {
	fw := Parse("bogus1.0")
	if !fw.IsUnsupported() {
		t.Fatalf("Parse(bogus1.0) = %v, want Unsupported", fw)
	}
	if fw.IsSpecificFramework() {
		t.Errorf("Unsupported should not be a specific framework")
	}
	if fw.GetShortFolderName() != "unsupported" {
		t.Errorf("GetShortFolderName() = %q", fw.GetShortFolderName())
	}
}

func TestParse_SpecialFrameworks(t *testing.T) {
	if !Parse("any").IsAny() {
		t.Errorf("any should parse to Any")
	}
	if Parse("Agnostic").Framework != AgnosticName {
		t.Errorf("agnostic should parse to Agnostic")
	}
}
