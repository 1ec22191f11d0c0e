package version

import (
	"strconv"
	"strings"
)

// FloatBehavior defines how floating versions behave.
type FloatBehavior int

const (
	// FloatNone means no floating
	FloatNone FloatBehavior = iota

	// FloatPrerelease floats the release label: 1.0.0-beta*
	FloatPrerelease

	// FloatRevision floats to latest revision: 1.0.0.*
	FloatRevision

	// FloatPatch floats to latest patch: 1.0.*
	FloatPatch

	// FloatMinor floats to latest minor: 1.*
	FloatMinor

	// FloatMajor floats to latest major: *
	FloatMajor

	// FloatPrereleaseRevision floats revision and label: 1.0.0.*-*
	FloatPrereleaseRevision

	// FloatPrereleasePatch floats patch and label: 1.0.*-*
	FloatPrereleasePatch

	// FloatPrereleaseMinor floats minor and label: 1.*-*
	FloatPrereleaseMinor

	// FloatPrereleaseMajor floats everything: *-*
	FloatPrereleaseMajor
)

// String returns the string representation of FloatBehavior.
func (f FloatBehavior) String() string {
	switch f {
	case FloatNone:
		return "none"
	case FloatPrerelease:
		return "prerelease"
	case FloatRevision:
		return "revision"
	case FloatPatch:
		return "patch"
	case FloatMinor:
		return "minor"
	case FloatMajor:
		return "major"
	case FloatPrereleaseRevision:
		return "prereleaseRevision"
	case FloatPrereleasePatch:
		return "prereleasePatch"
	case FloatPrereleaseMinor:
		return "prereleaseMinor"
	case FloatPrereleaseMajor:
		return "absoluteLatest"
	default:
		return "unknown"
	}
}

func (f FloatBehavior) includesPrerelease() bool {
	switch f {
	case FloatPrerelease, FloatPrereleaseRevision, FloatPrereleasePatch, FloatPrereleaseMinor, FloatPrereleaseMajor:
		return true
	}
	return false
}

// FloatRange represents a floating version expression.
type FloatRange struct {
	// MinVersion is the lowest version the float can resolve to.
	MinVersion    *NuGetVersion
	FloatBehavior FloatBehavior

	// OriginalReleasePrefix is the label text before the trailing '*'.
	OriginalReleasePrefix string
}

// ParseFloatRange parses floating expressions such as 1.0.*, 1.0.0-beta*,
// 1.*-* and *.
func ParseFloatRange(s string) (*FloatRange, error) {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "*") {
		return nil, &InvalidVersionError{Value: s}
	}

	numberPart, releasePart, hasRelease := strings.Cut(s, "-")
	numericFloat := strings.Contains(numberPart, "*")

	prefix := ""
	if hasRelease {
		if !strings.HasSuffix(releasePart, "*") || strings.Count(releasePart, "*") != 1 {
			return nil, &InvalidVersionError{Value: s}
		}
		prefix = releasePart[:len(releasePart)-1]
		if prefix != "" && !validIdentifiers(strings.TrimSuffix(prefix, ".")) {
			return nil, &InvalidVersionError{Value: s}
		}
	}

	f := &FloatRange{OriginalReleasePrefix: prefix}

	if !numericFloat {
		if !hasRelease {
			return nil, &InvalidVersionError{Value: s}
		}
		v, err := Parse(numberPart)
		if err != nil {
			return nil, &InvalidVersionError{Value: s}
		}
		v.originalString = ""
		v.ReleaseLabels = minLabels(prefix)
		f.MinVersion = v
		f.FloatBehavior = FloatPrerelease
		return f, nil
	}

	parts := strings.Split(numberPart, ".")
	starAt := len(parts) - 1
	if parts[starAt] != "*" || len(parts) > 4 {
		return nil, &InvalidVersionError{Value: s}
	}
	nums := [4]int{}
	for i := 0; i < starAt; i++ {
		n, ok := parseNumber(parts[i])
		if !ok {
			return nil, &InvalidVersionError{Value: s}
		}
		nums[i] = n
	}

	behaviors := [4][2]FloatBehavior{
		{FloatMajor, FloatPrereleaseMajor},
		{FloatMinor, FloatPrereleaseMinor},
		{FloatPatch, FloatPrereleasePatch},
		{FloatRevision, FloatPrereleaseRevision},
	}
	pick := 0
	if hasRelease {
		pick = 1
	}
	f.FloatBehavior = behaviors[starAt][pick]
	f.MinVersion = &NuGetVersion{Major: nums[0], Minor: nums[1], Patch: nums[2], Revision: nums[3]}
	if hasRelease {
		f.MinVersion.ReleaseLabels = minLabels(prefix)
	}
	return f, nil
}

func minLabels(prefix string) []string {
	if prefix == "" {
		return []string{"0"}
	}
	return strings.Split(strings.TrimSuffix(prefix, "."), ".")
}

// Satisfies returns true if the version is a candidate for this float.
func (f *FloatRange) Satisfies(v *NuGetVersion) bool {
	if v == nil {
		return false
	}
	if f.MinVersion == nil || f.FloatBehavior == FloatMajor || f.FloatBehavior == FloatPrereleaseMajor {
		return f.FloatBehavior.includesPrerelease() || !v.IsPrerelease()
	}

	if v.IsPrerelease() {
		if !f.FloatBehavior.includesPrerelease() {
			return false
		}
		if f.OriginalReleasePrefix != "" &&
			!strings.HasPrefix(strings.ToLower(strings.Join(v.ReleaseLabels, ".")), strings.ToLower(f.OriginalReleasePrefix)) {
			return false
		}
	}

	m := f.MinVersion
	switch f.FloatBehavior {
	case FloatPrerelease:
		return v.Major == m.Major && v.Minor == m.Minor && v.Patch == m.Patch && v.Revision == m.Revision
	case FloatRevision, FloatPrereleaseRevision:
		return v.Major == m.Major && v.Minor == m.Minor && v.Patch == m.Patch
	case FloatPatch, FloatPrereleasePatch:
		return v.Major == m.Major && v.Minor == m.Minor
	case FloatMinor, FloatPrereleaseMinor:
		return v.Major == m.Major
	default:
		return false
	}
}

// FindBestMatch finds the highest version that satisfies this floating range.
func (f *FloatRange) FindBestMatch(versions []*NuGetVersion) *NuGetVersion {
	var best *NuGetVersion

	for _, v := range versions {
		if f.Satisfies(v) && (best == nil || v.GreaterThan(best)) {
			best = v
		}
	}

	return best
}

// String returns the normalized floating expression.
func (f *FloatRange) String() string {
	return f.ToNormalizedString()
}

// ToNormalizedString renders the float, e.g. "1.0.*" or "1.0.0-beta*".
func (f *FloatRange) ToNormalizedString() string {
	m := f.MinVersion
	if m == nil {
		m = &NuGetVersion{}
	}
	itoa := strconv.Itoa
	release := "-" + f.OriginalReleasePrefix + "*"

	switch f.FloatBehavior {
	case FloatPrerelease:
		base := itoa(m.Major) + "." + itoa(m.Minor) + "." + itoa(m.Patch)
		if m.Revision > 0 {
			base += "." + itoa(m.Revision)
		}
		return base + release
	case FloatRevision:
		return itoa(m.Major) + "." + itoa(m.Minor) + "." + itoa(m.Patch) + ".*"
	case FloatPatch:
		return itoa(m.Major) + "." + itoa(m.Minor) + ".*"
	case FloatMinor:
		return itoa(m.Major) + ".*"
	case FloatMajor:
		return "*"
	case FloatPrereleaseRevision:
		return itoa(m.Major) + "." + itoa(m.Minor) + "." + itoa(m.Patch) + ".*" + release
	case FloatPrereleasePatch:
		return itoa(m.Major) + "." + itoa(m.Minor) + ".*" + release
	case FloatPrereleaseMinor:
		return itoa(m.Major) + ".*" + release
	case FloatPrereleaseMajor:
		return "*" + release
	default:
		return m.ToNormalizedString()
	}
}
