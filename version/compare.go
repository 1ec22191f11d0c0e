package version

import (
	"strconv"
	"strings"
)

// Compare returns -1, 0 or 1. Build metadata is ignored.
func (v *NuGetVersion) Compare(other *NuGetVersion) int {
	if v == other {
		return 0
	}
	if v == nil {
		return -1
	}
	if other == nil {
		return 1
	}

	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}
	if c := compareInt(v.Revision, other.Revision); c != 0 {
		return c
	}

	vPre, oPre := v.IsPrerelease(), other.IsPrerelease()
	switch {
	case !vPre && !oPre:
		return 0
	case !vPre:
		return 1
	case !oPre:
		return -1
	}
	return compareLabels(v.ReleaseLabels, other.ReleaseLabels)
}

// Equals reports whether both versions compare equal.
func (v *NuGetVersion) Equals(other *NuGetVersion) bool {
	return v.Compare(other) == 0
}

// LessThan reports whether v sorts before other.
func (v *NuGetVersion) LessThan(other *NuGetVersion) bool {
	return v.Compare(other) < 0
}

// GreaterThan reports whether v sorts after other.
func (v *NuGetVersion) GreaterThan(other *NuGetVersion) bool {
	return v.Compare(other) > 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareLabels(a, b []string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := compareLabel(a[i], b[i]); c != 0 {
			return c
		}
	}
	return compareInt(len(a), len(b))
}

// compareLabel orders numeric labels numerically and before alphanumeric ones.
// Alphanumeric labels compare case-insensitively.
func compareLabel(a, b string) int {
	an, aErr := strconv.Atoi(a)
	bn, bErr := strconv.Atoi(b)
	aNum, bNum := aErr == nil, bErr == nil

	switch {
	case aNum && bNum:
		return compareInt(an, bn)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
