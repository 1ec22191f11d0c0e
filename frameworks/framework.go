// Package frameworks provides target framework monikers (TFMs) as comparable
// value types.
//
// Frameworks can be parsed from short folder names such as "net46",
// "netstandard2.0" or "net8.0-windows10.0.19041", and from full names such as
// ".NETCoreApp,Version=v2.2". Unknown names parse to the Unsupported
// framework.
//
// Example:
//
//	fw := frameworks.Parse("net8.0")
//	fmt.Println(fw.DotNetFrameworkName()) // .NETCoreApp,Version=v8.0
package frameworks

import (
	"strconv"
	"strings"
)

// Framework identifiers.
const (
	NetFramework    = ".NETFramework"
	NetStandard     = ".NETStandard"
	NetCoreApp      = ".NETCoreApp"
	NetPortable     = ".NETPortable"
	UnsupportedName = "Unsupported"
	AnyName         = "Any"
	AgnosticName    = "Agnostic"
)

// NuGetFramework represents a target framework.
type NuGetFramework struct {
	// Framework is the full identifier, e.g. ".NETFramework".
	Framework string
	Version   FrameworkVersion

	// Platform is the OS platform of net5.0+ frameworks, e.g. "windows".
	Platform        string
	PlatformVersion FrameworkVersion

	// Profile is the framework profile. Portable frameworks store
	// "ProfileN" or a '+' joined list of frameworks here.
	Profile string
}

// FrameworkVersion is a four part framework version.
type FrameworkVersion struct {
	Major    int
	Minor    int
	Build    int
	Revision int
}

// String renders the version with at least two parts; trailing zero build
// and revision parts are dropped.
func (v FrameworkVersion) String() string {
	s := strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
	if v.Build > 0 || v.Revision > 0 {
		s += "." + strconv.Itoa(v.Build)
	}
	if v.Revision > 0 {
		s += "." + strconv.Itoa(v.Revision)
	}
	return s
}

// IsEmpty reports whether the version is 0.0.0.0.
func (v FrameworkVersion) IsEmpty() bool {
	return v == FrameworkVersion{}
}

// Compare returns -1, 0 or 1.
func (v FrameworkVersion) Compare(other FrameworkVersion) int {
	a := [4]int{v.Major, v.Minor, v.Build, v.Revision}
	b := [4]int{other.Major, other.Minor, other.Build, other.Revision}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Unsupported returns the framework used for names that cannot be parsed.
func Unsupported() *NuGetFramework {
	return &NuGetFramework{Framework: UnsupportedName}
}

// AnyFramework returns the framework matching every target.
func AnyFramework() *NuGetFramework {
	return &NuGetFramework{Framework: AnyName}
}

// AgnosticFramework returns the framework for framework independent content.
func AgnosticFramework() *NuGetFramework {
	return &NuGetFramework{Framework: AgnosticName}
}

// IsUnsupported reports whether the framework could not be parsed.
func (fw *NuGetFramework) IsUnsupported() bool {
	return strings.EqualFold(fw.Framework, UnsupportedName)
}

// IsAny reports whether this is the Any framework.
func (fw *NuGetFramework) IsAny() bool {
	return strings.EqualFold(fw.Framework, AnyName)
}

// IsSpecificFramework returns false for the Any, Agnostic and Unsupported
// frameworks.
func (fw *NuGetFramework) IsSpecificFramework() bool {
	if fw == nil || fw.Framework == "" {
		return false
	}
	return !fw.IsAny() && !fw.IsUnsupported() && !strings.EqualFold(fw.Framework, AgnosticName)
}

// IsPCL reports whether this is a portable class library framework.
func (fw *NuGetFramework) IsPCL() bool {
	return strings.EqualFold(fw.Framework, NetPortable)
}

// IsNet5Era reports whether this is .NETCoreApp 5.0 or later.
func (fw *NuGetFramework) IsNet5Era() bool {
	return strings.EqualFold(fw.Framework, NetCoreApp) && fw.Version.Major >= 5
}

// Equals compares identifiers, profiles and platforms case-insensitively
// and versions numerically.
func (fw *NuGetFramework) Equals(other *NuGetFramework) bool {
	if fw == nil || other == nil {
		return fw == other
	}
	return fw.Compare(other) == 0
}

// Compare orders frameworks by identifier, version, profile, platform and
// platform version. It is the ordering used when frameworks are written out.
func (fw *NuGetFramework) Compare(other *NuGetFramework) int {
	switch {
	case fw == nil && other == nil:
		return 0
	case fw == nil:
		return -1
	case other == nil:
		return 1
	}
	if c := compareFold(fw.Framework, other.Framework); c != 0 {
		return c
	}
	if c := fw.Version.Compare(other.Version); c != 0 {
		return c
	}
	if c := compareFold(fw.Profile, other.Profile); c != 0 {
		return c
	}
	if c := compareFold(fw.Platform, other.Platform); c != 0 {
		return c
	}
	return fw.PlatformVersion.Compare(other.PlatformVersion)
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Clone returns a copy of the framework.
func (fw *NuGetFramework) Clone() *NuGetFramework {
	if fw == nil {
		return nil
	}
	c := *fw
	return &c
}

// String returns the short folder name for net5.0+ frameworks and the full
// name otherwise. This is the form used for lock file target keys.
func (fw *NuGetFramework) String() string {
	if fw.IsNet5Era() {
		return fw.GetShortFolderName()
	}
	return fw.DotNetFrameworkName()
}

// DotNetFrameworkName renders the full name, e.g.
// ".NETFramework,Version=v4.5,Profile=Client".
func (fw *NuGetFramework) DotNetFrameworkName() string {
	if !fw.IsSpecificFramework() {
		return fw.Framework
	}
	var b strings.Builder
	b.WriteString(fw.Framework)
	b.WriteString(",Version=v")
	b.WriteString(fw.Version.String())
	if fw.Profile != "" {
		b.WriteString(",Profile=")
		b.WriteString(fw.Profile)
	}
	return b.String()
}

// GetShortFolderName renders the short folder name, e.g. "net45",
// "netstandard2.0" or "net6.0-windows10.0.19041".
func (fw *NuGetFramework) GetShortFolderName() string {
	if !fw.IsSpecificFramework() {
		return strings.ToLower(fw.Framework)
	}
	if fw.IsPCL() {
		return "portable-" + defaultNames().portableFolderProfile(fw.Profile)
	}

	names := defaultNames()
	var b strings.Builder
	if fw.IsNet5Era() {
		b.WriteString("net")
	} else {
		b.WriteString(names.shortIdentifier(fw.Framework))
	}
	b.WriteString(names.versionString(fw.Framework, fw.Version))

	if fw.Profile != "" {
		if short := names.shortProfile(fw.Profile); short != "" {
			b.WriteByte('-')
			b.WriteString(short)
		}
	}

	if fw.Platform != "" {
		b.WriteByte('-')
		b.WriteString(strings.ToLower(fw.Platform))
		if !fw.PlatformVersion.IsEmpty() {
			b.WriteString(fw.PlatformVersion.String())
		}
	}
	return b.String()
}
