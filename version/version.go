// Package version provides NuGet version and version range values.
//
// Versions follow NuGet's SemVer 2.0 dialect, which also accepts legacy
// four-part versions (Major.Minor.Build.Revision).
//
// Example:
//
//	v, err := version.Parse("1.2.3-beta.1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v.ToNormalizedString()) // 1.2.3-beta.1
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// InvalidVersionError reports a string that is not a valid version or range.
type InvalidVersionError struct {
	Value string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("'%s' is not a valid version string.", e.Value)
}

// NuGetVersion represents a NuGet package version.
type NuGetVersion struct {
	Major    int
	Minor    int
	Patch    int
	Revision int

	// IsLegacyVersion is set for four-part versions.
	IsLegacyVersion bool

	// ReleaseLabels holds the dot separated prerelease labels.
	ReleaseLabels []string

	// Metadata is ignored by comparison.
	Metadata string

	originalString string
}

// NewVersion creates a version from its numeric parts.
func NewVersion(major, minor, patch int, labels ...string) *NuGetVersion {
	return &NuGetVersion{Major: major, Minor: minor, Patch: patch, ReleaseLabels: labels}
}

// String returns the text the version was parsed from, or its full form.
func (v *NuGetVersion) String() string {
	if v.originalString != "" {
		return v.originalString
	}
	return v.ToFullString()
}

// OriginalString returns the text the version was parsed from.
func (v *NuGetVersion) OriginalString() string {
	return v.originalString
}

// ToNormalizedString renders Major.Minor.Patch[.Revision][-labels].
// The revision is only included when it is non-zero.
func (v *NuGetVersion) ToNormalizedString() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(v.Major))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.Minor))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.Patch))
	if v.Revision > 0 {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(v.Revision))
	}
	if len(v.ReleaseLabels) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.ReleaseLabels, "."))
	}
	return b.String()
}

// ToFullString is the normalized string plus build metadata.
func (v *NuGetVersion) ToFullString() string {
	if v.Metadata == "" {
		return v.ToNormalizedString()
	}
	return v.ToNormalizedString() + "+" + v.Metadata
}

// IsPrerelease reports whether the version carries release labels.
func (v *NuGetVersion) IsPrerelease() bool {
	for _, label := range v.ReleaseLabels {
		if label != "" {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with v.
func (v *NuGetVersion) Clone() *NuGetVersion {
	if v == nil {
		return nil
	}
	c := *v
	if v.ReleaseLabels != nil {
		c.ReleaseLabels = append([]string(nil), v.ReleaseLabels...)
	}
	return &c
}

// Parse parses a version string.
//
// Accepted forms are one to four numeric parts, followed by optional
// "-labels" and "+metadata" suffixes. Surrounding whitespace is rejected.
func Parse(s string) (*NuGetVersion, error) {
	if s == "" || strings.TrimSpace(s) != s {
		return nil, &InvalidVersionError{Value: s}
	}

	v := &NuGetVersion{originalString: s}

	rest := s
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		v.Metadata = rest[i+1:]
		rest = rest[:i]
		if !validIdentifiers(v.Metadata) {
			return nil, &InvalidVersionError{Value: s}
		}
	}

	if i := strings.IndexByte(rest, '-'); i >= 0 {
		labels := rest[i+1:]
		rest = rest[:i]
		if !validIdentifiers(labels) {
			return nil, &InvalidVersionError{Value: s}
		}
		v.ReleaseLabels = strings.Split(labels, ".")
	}

	parts := strings.Split(rest, ".")
	if len(parts) > 4 {
		return nil, &InvalidVersionError{Value: s}
	}

	nums := [4]int{}
	for i, p := range parts {
		n, ok := parseNumber(p)
		if !ok {
			return nil, &InvalidVersionError{Value: s}
		}
		nums[i] = n
	}

	v.Major, v.Minor, v.Patch, v.Revision = nums[0], nums[1], nums[2], nums[3]
	v.IsLegacyVersion = len(parts) == 4
	return v, nil
}

// MustParse parses a version string and panics on error.
func MustParse(s string) *NuGetVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// validIdentifiers checks a dot separated list of [0-9A-Za-z-] identifiers.
func validIdentifiers(s string) bool {
	if s == "" {
		return false
	}
	for _, id := range strings.Split(s, ".") {
		if id == "" {
			return false
		}
		for i := 0; i < len(id); i++ {
			c := id[i]
			if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '-') {
				return false
			}
		}
	}
	return true
}
