package version

import (
	"sort"
	"testing"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		v1       string
		v2       string
		expected int
	}{
		{"equal", "1.0.0", "1.0.0", 0},
		{"major less", "1.0.0", "2.0.0", -1},
		{"minor greater", "1.1.0", "1.0.0", 1},
		{"patch less", "1.0.0", "1.0.1", -1},
		{"short form equals padded", "1.0", "1.0.0", 0},

		{"release > prerelease", "1.0.0", "1.0.0-beta", 1},
		{"prerelease < release", "1.0.0-beta", "1.0.0", -1},
		{"prerelease alpha < beta", "1.0.0-alpha", "1.0.0-beta", -1},
		{"labels ignore case", "1.0.0-BETA", "1.0.0-beta", 0},

		{"numeric < alphanumeric", "1.0.0-1", "1.0.0-alpha", -1},
		{"numeric labels compare numerically", "1.0.0-beta.2", "1.0.0-beta.10", -1},

		{"shorter label list", "1.0.0-alpha", "1.0.0-alpha.1", -1},
		{"equal multiple labels", "1.0.0-alpha.1", "1.0.0-alpha.1", 0},

		{"metadata ignored", "1.0.0+a", "1.0.0+b", 0},
		{"metadata ignored against plain", "1.0.0+build", "1.0.0", 0},

		{"legacy equal", "1.0.0.0", "1.0.0.0", 0},
		{"legacy revision", "1.0.0.0", "1.0.0.1", -1},
		{"revision beats three part", "1.0.0.1", "1.0.0", 1},
		{"zero revision equals three part", "1.0.0.0", "1.0.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse(tt.v1).Compare(MustParse(tt.v2))
			if got != tt.expected {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.v1, tt.v2, got, tt.expected)
			}
		})
	}
}

func TestCompare_Nil(t *testing.T) {
	v := MustParse("1.0.0")
	if v.Compare(nil) != 1 {
		t.Errorf("Compare(v, nil) should be 1")
	}
	var n *NuGetVersion
	if n.Compare(v) != -1 {
		t.Errorf("Compare(nil, v) should be -1")
	}
	if n.Compare(nil) != 0 {
		t.Errorf("Compare(nil, nil) should be 0")
	}
}

func TestEqualsLessGreater(t *testing.T) {
	a := MustParse("1.0.0")
	b := MustParse("2.0.0")

	if !a.Equals(MustParse("1.0.0+meta")) {
		t.Errorf("Equals should ignore metadata")
	}
	if !a.LessThan(b) || b.LessThan(a) {
		t.Errorf("LessThan(1.0.0, 2.0.0) mismatch")
	}
	if !b.GreaterThan(a) || a.GreaterThan(a) {
		t.Errorf("GreaterThan(2.0.0, 1.0.0) mismatch")
	}
}

func TestCompare_Sort(t *testing.T) {
	input := []string{"1.0.0", "1.0.0-rc.1", "0.9.0", "1.0.0-beta.11", "1.0.0-beta.2", "1.0.0.5"}
	want := []string{"0.9.0", "1.0.0-beta.2", "1.0.0-beta.11", "1.0.0-rc.1", "1.0.0", "1.0.0.5"}

	versions := make([]*NuGetVersion, len(input))
	for i, s := range input {
		versions[i] = MustParse(s)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].LessThan(versions[j]) })

	for i, v := range versions {
		if v.String() != want[i] {
			t.Errorf("sorted[%d] = %s, want %s", i, v, want[i])
		}
	}
}

func BenchmarkCompare(b *testing.B) {
	v1 := MustParse("1.2.3-beta.1")
	v2 := MustParse("1.2.3-beta.2")

	for b.Loop() {
		_ = v1.Compare(v2)
	}
}
