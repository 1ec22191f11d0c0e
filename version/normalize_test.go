package version

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"simple version", "1.0.0", "1.0.0", false},
		{"leading zeros", "1.01.1", "1.1.1", false},
		{"single digit", "1", "1.0.0", false},
		{"two digits", "1.2", "1.2.0", false},
		{"zero revision dropped", "1.0.0.0", "1.0.0", false},
		{"revision kept", "2.5.3.1", "2.5.3.1", false},
		{"with prerelease", "1.0.0-beta.1", "1.0.0-beta.1", false},
		{"metadata dropped", "1.0.0-rc.1+build.123", "1.0.0-rc.1", false},
		{"empty string", "", "", true},
		{"invalid format", "abc", "", true},
		{"negative", "-1.0.0", "", true},
		{"whitespace", " 1.0.0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMustNormalize_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustNormalize() should panic on invalid version")
		}
	}()
	MustNormalize("invalid")
}

func TestNormalizeOrOriginal(t *testing.T) {
	if got := NormalizeOrOriginal("1.01.1"); got != "1.1.1" {
		t.Errorf("NormalizeOrOriginal(1.01.1) = %q", got)
	}
	if got := NormalizeOrOriginal("invalid"); got != "invalid" {
		t.Errorf("NormalizeOrOriginal(invalid) = %q", got)
	}
}

func TestNuGetVersion_ToFullString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.0.0", "1.0.0"},
		{"1.0.0+build", "1.0.0+build"},
		{"01.2-beta+sha.1", "1.2.0-beta+sha.1"},
		{"1.0.0.3+x", "1.0.0.3+x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MustParse(tt.input).ToFullString(); got != tt.expected {
				t.Errorf("ToFullString() = %q, want %q", got, tt.expected)
			}
		})
	}
}
