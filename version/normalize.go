package version

// Normalize parses a version string and returns its normalized form.
//
//   - "1.01.1" → "1.1.1"
//   - "1" → "1.0.0"
//   - "1.0.0.0" → "1.0.0"
//   - "1.0.0+build" → "1.0.0"
func Normalize(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	return v.ToNormalizedString(), nil
}

// MustNormalize normalizes a version string, panicking on error.
func MustNormalize(s string) string {
	normalized, err := Normalize(s)
	if err != nil {
		panic(err)
	}
	return normalized
}

// NormalizeOrOriginal returns the normalized form of s, or s itself when it
// does not parse.
func NormalizeOrOriginal(s string) string {
	normalized, err := Normalize(s)
	if err != nil {
		return s
	}
	return normalized
}
