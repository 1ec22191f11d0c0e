package version

import (
	"strings"
)

// Range represents a range of acceptable versions.
//
// Syntax:
//
//	[1.0, 2.0]   - 1.0 ≤ x ≤ 2.0
//	(1.0, 2.0)   - 1.0 < x < 2.0
//	[1.0, 2.0)   - 1.0 ≤ x < 2.0
//	[1.0, )      - x ≥ 1.0
//	(, 2.0]      - x ≤ 2.0
//	[1.0]        - x == 1.0
//	1.0          - x ≥ 1.0
//	1.0.*        - x ≥ 1.0.0, floating to the highest 1.0.x
type Range struct {
	MinVersion   *NuGetVersion
	MaxVersion   *NuGetVersion
	MinInclusive bool
	MaxInclusive bool

	// Float is set when the lower bound is a floating expression.
	Float *FloatRange

	originalString string
}

// All returns the range that accepts every version, "(, )".
func All() *Range {
	return &Range{}
}

// NewRange creates a range from explicit bounds.
func NewRange(minVersion *NuGetVersion, minInclusive bool, maxVersion *NuGetVersion, maxInclusive bool) *Range {
	return &Range{
		MinVersion:   minVersion,
		MinInclusive: minVersion != nil && minInclusive,
		MaxVersion:   maxVersion,
		MaxInclusive: maxVersion != nil && maxInclusive,
	}
}

// AtLeast creates the range "[v, )".
func AtLeast(v *NuGetVersion) *Range {
	return NewRange(v, true, nil, false)
}

// Exactly creates the range "[v]".
func Exactly(v *NuGetVersion) *Range {
	return NewRange(v, true, v, true)
}

// ParseVersionRange parses a version range string.
func ParseVersionRange(s string) (*Range, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, &InvalidVersionError{Value: s}
	}

	var r *Range
	var err error
	switch {
	case trimmed[0] == '[' || trimmed[0] == '(':
		r, err = parseRangeSyntax(trimmed)
	case strings.Contains(trimmed, "*"):
		var f *FloatRange
		f, err = ParseFloatRange(trimmed)
		if err == nil {
			r = &Range{MinVersion: f.MinVersion, MinInclusive: true, Float: f}
		}
	default:
		var v *NuGetVersion
		v, err = Parse(trimmed)
		if err == nil {
			r = AtLeast(v)
		}
	}
	if err != nil {
		return nil, &InvalidVersionError{Value: s}
	}

	r.originalString = s
	return r, nil
}

// MustParseRange parses a version range string and panics on error.
func MustParseRange(s string) *Range {
	r, err := ParseVersionRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func parseRangeSyntax(s string) (*Range, error) {
	last := s[len(s)-1]
	if last != ']' && last != ')' {
		return nil, &InvalidVersionError{Value: s}
	}

	minInclusive := s[0] == '['
	maxInclusive := last == ']'
	body := s[1 : len(s)-1]

	parts := strings.Split(body, ",")
	if len(parts) > 2 {
		return nil, &InvalidVersionError{Value: s}
	}

	minPart := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		// [1.0.0] is the only single value form.
		if !minInclusive || !maxInclusive || minPart == "" {
			return nil, &InvalidVersionError{Value: s}
		}
		v, err := Parse(minPart)
		if err != nil {
			return nil, err
		}
		return Exactly(v), nil
	}
	maxPart := strings.TrimSpace(parts[1])

	// "(,)" is rejected; "(, )" is the normalized form of All.
	if parts[0] == "" && parts[1] == "" {
		return nil, &InvalidVersionError{Value: s}
	}

	r := &Range{MinInclusive: minInclusive, MaxInclusive: maxInclusive}

	if minPart != "" {
		if strings.Contains(minPart, "*") {
			f, err := ParseFloatRange(minPart)
			if err != nil {
				return nil, err
			}
			r.Float = f
			r.MinVersion = f.MinVersion
		} else {
			v, err := Parse(minPart)
			if err != nil {
				return nil, err
			}
			r.MinVersion = v
		}
	} else if minInclusive {
		return nil, &InvalidVersionError{Value: s}
	}

	if maxPart != "" {
		v, err := Parse(maxPart)
		if err != nil {
			return nil, err
		}
		r.MaxVersion = v
	} else if maxInclusive {
		return nil, &InvalidVersionError{Value: s}
	}

	if r.MinVersion != nil && r.MaxVersion != nil {
		c := r.MinVersion.Compare(r.MaxVersion)
		if c > 0 || (c == 0 && !(minInclusive && maxInclusive)) {
			return nil, &InvalidVersionError{Value: s}
		}
	}

	return r, nil
}

// HasLowerBound reports whether the range has a minimum version.
func (r *Range) HasLowerBound() bool { return r.MinVersion != nil }

// HasUpperBound reports whether the range has a maximum version.
func (r *Range) HasUpperBound() bool { return r.MaxVersion != nil }

// IsFloating reports whether the range floats.
func (r *Range) IsFloating() bool {
	return r.Float != nil && r.Float.FloatBehavior != FloatNone
}

// IsAll reports whether the range accepts every version.
func (r *Range) IsAll() bool {
	return r.MinVersion == nil && r.MaxVersion == nil && !r.IsFloating()
}

// OriginalString returns the text the range was parsed from.
func (r *Range) OriginalString() string {
	return r.originalString
}

// Satisfies returns true if the version satisfies this range.
func (r *Range) Satisfies(v *NuGetVersion) bool {
	if v == nil {
		return false
	}

	if r.MinVersion != nil {
		cmp := v.Compare(r.MinVersion)
		if cmp < 0 || (cmp == 0 && !r.MinInclusive) {
			return false
		}
	}

	if r.MaxVersion != nil {
		cmp := v.Compare(r.MaxVersion)
		if cmp > 0 || (cmp == 0 && !r.MaxInclusive) {
			return false
		}
	}

	return true
}

// FindBestMatch returns the lowest satisfying version, or for floating
// ranges the highest version matching the float.
func (r *Range) FindBestMatch(versions []*NuGetVersion) *NuGetVersion {
	var best *NuGetVersion
	for _, v := range versions {
		if !r.Satisfies(v) {
			continue
		}
		if r.IsFloating() {
			if r.Float.Satisfies(v) && (best == nil || v.GreaterThan(best)) {
				best = v
			}
			continue
		}
		if best == nil || v.LessThan(best) {
			best = v
		}
	}
	return best
}

// Equals compares bounds, inclusivity and float behavior.
// The original text is not compared.
func (r *Range) Equals(other *Range) bool {
	if r == other {
		return true
	}
	if r == nil || other == nil {
		return false
	}
	if r.MinInclusive != other.MinInclusive || r.MaxInclusive != other.MaxInclusive {
		return false
	}
	if !versionsEqual(r.MinVersion, other.MinVersion) || !versionsEqual(r.MaxVersion, other.MaxVersion) {
		return false
	}
	if r.IsFloating() != other.IsFloating() {
		return false
	}
	if r.IsFloating() {
		return r.Float.FloatBehavior == other.Float.FloatBehavior &&
			r.Float.OriginalReleasePrefix == other.Float.OriginalReleasePrefix
	}
	return true
}

func versionsEqual(a, b *NuGetVersion) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// Clone returns a deep copy of the range.
func (r *Range) Clone() *Range {
	if r == nil {
		return nil
	}
	c := *r
	c.MinVersion = r.MinVersion.Clone()
	c.MaxVersion = r.MaxVersion.Clone()
	if r.Float != nil {
		f := *r.Float
		f.MinVersion = r.Float.MinVersion.Clone()
		c.Float = &f
	}
	return &c
}

// String returns the normalized form of the range, e.g. "[1.0.0, 2.0.0)".
func (r *Range) String() string {
	return r.ToNormalizedString()
}

// ToNormalizedString renders the range in interval notation.
func (r *Range) ToNormalizedString() string {
	if r.MinVersion != nil && r.MaxVersion != nil && r.MinInclusive && r.MaxInclusive &&
		!r.IsFloating() && r.MinVersion.Equals(r.MaxVersion) {
		return "[" + r.MinVersion.ToNormalizedString() + "]"
	}

	var b strings.Builder
	if r.MinInclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	switch {
	case r.IsFloating():
		b.WriteString(r.Float.ToNormalizedString())
	case r.MinVersion != nil:
		b.WriteString(r.MinVersion.ToNormalizedString())
	}
	b.WriteString(", ")
	if r.MaxVersion != nil {
		b.WriteString(r.MaxVersion.ToNormalizedString())
	}
	if r.MaxInclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

// ToLegacyShortString renders "[v, )" as just "v"; other ranges use the
// normalized form.
func (r *Range) ToLegacyShortString() string {
	if r.MinVersion != nil && r.MinInclusive && r.MaxVersion == nil {
		if r.IsFloating() {
			return r.Float.ToNormalizedString()
		}
		return r.MinVersion.ToNormalizedString()
	}
	return r.ToNormalizedString()
}
