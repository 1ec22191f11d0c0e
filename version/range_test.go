package version

import "testing"

func TestParseVersionRange(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		normalized string
		wantErr    bool
	}{
		{"inclusive both", "[1.0, 2.0]", "[1.0.0, 2.0.0]", false},
		{"exclusive both", "(1.0, 2.0)", "(1.0.0, 2.0.0)", false},
		{"mixed", "[1.0, 2.0)", "[1.0.0, 2.0.0)", false},
		{"open upper", "[1.0,)", "[1.0.0, )", false},
		{"open lower", "(, 2.0]", "(, 2.0.0]", false},
		{"exact", "[1.0.0]", "[1.0.0]", false},
		{"simple version", "1.0.0", "[1.0.0, )", false},
		{"padded simple version", "  1.0  ", "[1.0.0, )", false},
		{"floating patch", "1.0.*", "[1.0.*, )", false},
		{"floating prerelease", "1.0.0-beta*", "[1.0.0-beta*, )", false},
		{"floating inside brackets", "[1.0.*, 2.0.0)", "[1.0.*, 2.0.0)", false},
		{"star", "*", "[*, )", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"missing bracket", "[1.0, 2.0", "", true},
		{"wrong brackets", "]1.0, 2.0[", "", true},
		{"both bounds empty", "(,)", "", true},
		{"all", "(, )", "(, )", false},
		{"inclusive empty bounds", "[,]", "", true},
		{"inclusive empty lower", "[,)", "", true},
		{"exclusive exact", "(1.0.0)", "", true},
		{"min above max", "[2.0, 1.0]", "", true},
		{"negative", "   [-1, 2]  ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseVersionRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVersionRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				want := "'" + tt.input + "' is not a valid version string."
				if err.Error() != want {
					t.Errorf("Error() = %q, want %q", err.Error(), want)
				}
				return
			}
			if got := r.ToNormalizedString(); got != tt.normalized {
				t.Errorf("ToNormalizedString() = %q, want %q", got, tt.normalized)
			}
			if r.OriginalString() != tt.input {
				t.Errorf("OriginalString() = %q, want %q", r.OriginalString(), tt.input)
			}
		})
	}
}

func TestRange_ToLegacyShortString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.0.0", "1.0.0"},
		{"[1.0.0, )", "1.0.0"},
		{"1.0.*", "1.0.*"},
		{"[1.0.0, 2.0.0)", "[1.0.0, 2.0.0)"},
		{"[1.0.0]", "[1.0.0]"},
		{"(1.0.0, )", "(1.0.0, )"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MustParseRange(tt.input).ToLegacyShortString(); got != tt.expected {
				t.Errorf("ToLegacyShortString() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRange_All(t *testing.T) {
	all := All()
	if !all.IsAll() {
		t.Errorf("All().IsAll() = false")
	}
	if got := all.String(); got != "(, )" {
		t.Errorf("All().String() = %q, want (, )", got)
	}
	if !all.Satisfies(MustParse("0.0.1-alpha")) {
		t.Errorf("All() should accept any version")
	}
}

func TestRange_Equals(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"1.0.0", "[1.0.0, )", true},
		{"1.0", "[1.0.0, )", true},
		{"[1.0.0, 2.0.0)", "[1.0.0, 2.0.0]", false},
		{"1.0.*", "1.0.0", false},
		{"1.0.*", "[1.0.*, )", true},
		{"1.0.0-beta*", "1.0.0-alpha*", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			if got := MustParseRange(tt.a).Equals(MustParseRange(tt.b)); got != tt.expected {
				t.Errorf("Equals() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRange_Clone(t *testing.T) {
	r := MustParseRange("[1.0.0-beta, 2.0.0)")
	c := r.Clone()
	if !c.Equals(r) {
		t.Fatalf("clone not equal")
	}
	c.MinVersion.ReleaseLabels[0] = "rc"
	if r.MinVersion.ReleaseLabels[0] != "beta" {
		t.Errorf("clone shares min version labels")
	}
}

func TestVersionRange_Satisfies(t *testing.T) {
	tests := []struct {
		name     string
		rangeStr string
		version  string
		expected bool
	}{
		{"inclusive min", "[1.0, 2.0]", "1.0.0", true},
		{"inclusive max", "[1.0, 2.0]", "2.0.0", true},
		{"inclusive below", "[1.0, 2.0]", "0.9.0", false},
		{"inclusive above", "[1.0, 2.0]", "2.1.0", false},
		{"exclusive min", "(1.0, 2.0)", "1.0.0", false},
		{"exclusive max", "(1.0, 2.0)", "2.0.0", false},
		{"exclusive middle", "(1.0, 2.0)", "1.5.0", true},
		{"open upper", "[1.0, )", "100.0.0", true},
		{"open lower", "(, 2.0]", "0.1.0", true},
		{"simple satisfies", "1.0.0", "1.5.0", true},
		{"simple not satisfies", "1.0.0", "0.9.0", false},
		{"exact", "[1.0.0]", "1.0.0", true},
		{"exact other", "[1.0.0]", "1.0.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseRange(tt.rangeStr).Satisfies(MustParse(tt.version))
			if got != tt.expected {
				t.Errorf("Satisfies(%s) = %v, want %v", tt.version, got, tt.expected)
			}
		})
	}
}

func TestVersionRange_FindBestMatch(t *testing.T) {
	versions := []*NuGetVersion{
		MustParse("1.0.0"),
		MustParse("1.5.0"),
		MustParse("2.0.0"),
		MustParse("2.5.0"),
		MustParse("3.0.0"),
	}

	tests := []struct {
		name     string
		rangeStr string
		expected string
	}{
		{"range 1.0-2.0", "[1.0, 2.0]", "1.0.0"},
		{"open upper from 2.0", "[2.0, )", "2.0.0"},
		{"open lower to 2.0", "(, 2.0]", "1.0.0"},
		{"floating minor picks highest", "2.*", "2.5.0"},
		{"no match", "[10.0, 20.0]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParseRange(tt.rangeStr).FindBestMatch(versions)

			if tt.expected == "" {
				if got != nil {
					t.Errorf("FindBestMatch() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.String() != tt.expected {
				t.Errorf("FindBestMatch() = %v, want %s", got, tt.expected)
			}
		})
	}
}
