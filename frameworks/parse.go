package frameworks

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrEmptyFramework is returned for an empty framework name.
	ErrEmptyFramework = zerr.New("framework name cannot be empty")

	// ErrInvalidFramework is returned for names that cannot be parsed.
	ErrInvalidFramework = zerr.New("invalid framework")
)

// Parse parses a short folder name or a full framework name. Names that
// cannot be parsed return the Unsupported framework.
func Parse(name string) *NuGetFramework {
	fw, err := ParseFramework(name)
	if err != nil {
		return Unsupported()
	}
	return fw
}

// ParseFramework parses a framework name and reports why it is invalid.
//
// Supported forms:
//
//	net45                      .NETFramework 4.5
//	net40-client               .NETFramework 4.0, Client profile
//	netstandard2.0             .NETStandard 2.0
//	net8.0-windows10.0.19041   .NETCoreApp 8.0 on windows 10.0.19041
//	portable-net45+win8        .NETPortable Profile7
//	.NETCoreApp,Version=v2.2   .NETCoreApp 2.2
func ParseFramework(name string) (*NuGetFramework, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return nil, ErrEmptyFramework
	}

	var fw *NuGetFramework
	var err error
	if strings.Contains(s, ",") {
		fw, err = parseFullName(s)
	} else {
		fw, err = parseFolderName(s)
	}
	if err != nil {
		return nil, zerr.With(err, "framework", name)
	}
	return fw, nil
}

// MustParseFramework parses a framework name and panics on error.
func MustParseFramework(name string) *NuGetFramework {
	fw, err := ParseFramework(name)
	if err != nil {
		panic(err)
	}
	return fw
}

func invalid(msg string) error {
	return zerr.Wrap(ErrInvalidFramework, msg)
}

func parseFullName(s string) (*NuGetFramework, error) {
	parts := strings.Split(s, ",")
	identifier := strings.TrimSpace(parts[0])
	if identifier == "" {
		return nil, invalid("missing framework identifier")
	}

	fw := &NuGetFramework{Framework: defaultNames().canonicalIdentifier(identifier)}
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, invalid("malformed framework name part " + strconv.Quote(part))
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "version":
			value = strings.TrimSpace(value)
			value = strings.TrimPrefix(strings.TrimPrefix(value, "v"), "V")
			v, err := parseDottedVersion(value)
			if err != nil {
				return nil, err
			}
			fw.Version = v
		case "profile":
			fw.Profile = strings.TrimSpace(value)
		}
	}
	return fw, nil
}

func parseFolderName(s string) (*NuGetFramework, error) {
	lower := strings.ToLower(s)
	switch lower {
	case "any":
		return AnyFramework(), nil
	case "agnostic":
		return AgnosticFramework(), nil
	case "unsupported":
		return Unsupported(), nil
	}

	if rest, ok := strings.CutPrefix(lower, "portable-"); ok {
		return parsePortable(rest)
	}

	base, suffix, hasSuffix := strings.Cut(s, "-")
	fw, err := parseIdentifierAndVersion(base)
	if err != nil {
		return nil, err
	}

	if hasSuffix {
		if fw.IsNet5Era() {
			if err := parsePlatform(fw, suffix); err != nil {
				return nil, err
			}
		} else {
			fw.Profile = defaultNames().profileFromShort(suffix)
		}
	}
	return fw, nil
}

func parseIdentifierAndVersion(s string) (*NuGetFramework, error) {
	lower := strings.ToLower(s)
	for _, p := range defaultNames().prefixes {
		versionPart, ok := strings.CutPrefix(lower, p.prefix)
		if !ok {
			continue
		}
		if versionPart != "" && (versionPart[0] < '0' || versionPart[0] > '9') {
			continue
		}

		fw := &NuGetFramework{Framework: p.identifier}
		if versionPart == "" {
			return fw, nil
		}
		dotted := strings.Contains(versionPart, ".")
		var v FrameworkVersion
		var err error
		if dotted {
			v, err = parseDottedVersion(versionPart)
		} else {
			v, err = parseCompactVersion(versionPart)
		}
		if err != nil {
			return nil, err
		}
		fw.Version = v
		if p.identifier == NetFramework && p.prefix == "net" && dotted && v.Major >= 5 {
			fw.Framework = NetCoreApp
		}
		return fw, nil
	}
	return nil, invalid("unknown framework identifier " + strconv.Quote(s))
}

func parseDottedVersion(s string) (FrameworkVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return FrameworkVersion{}, invalid("too many version parts in " + strconv.Quote(s))
	}
	var nums [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return FrameworkVersion{}, invalid("invalid version " + strconv.Quote(s))
		}
		nums[i] = n
	}
	return FrameworkVersion{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// parseCompactVersion reads one digit per part: "472" is 4.7.2.
func parseCompactVersion(s string) (FrameworkVersion, error) {
	if len(s) > 4 {
		return FrameworkVersion{}, invalid("invalid compact version " + strconv.Quote(s))
	}
	var nums [4]int
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return FrameworkVersion{}, invalid("invalid compact version " + strconv.Quote(s))
		}
		nums[i] = int(s[i] - '0')
	}
	return FrameworkVersion{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, nil
}

// parsePlatform reads "windows" or "windows10.0.19041".
func parsePlatform(fw *NuGetFramework, s string) error {
	i := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		fw.Platform = s
		return nil
	}
	if i == 0 {
		return invalid("platform name missing in " + strconv.Quote(s))
	}
	fw.Platform = s[:i]
	v, err := parseDottedVersion(s[i:])
	if err != nil {
		return err
	}
	fw.PlatformVersion = v
	return nil
}

func parsePortable(rest string) (*NuGetFramework, error) {
	fw := &NuGetFramework{Framework: NetPortable}
	if number, ok := strings.CutPrefix(rest, "profile"); ok {
		if _, err := strconv.Atoi(number); err != nil {
			return nil, invalid("invalid portable profile " + strconv.Quote(rest))
		}
		fw.Profile = "Profile" + number
		return fw, nil
	}

	var list []string
	for _, part := range strings.Split(rest, "+") {
		inner, err := parseFolderName(part)
		if err != nil {
			return nil, err
		}
		if !inner.IsSpecificFramework() || inner.IsPCL() {
			return nil, invalid("invalid portable framework " + strconv.Quote(part))
		}
		list = append(list, inner.GetShortFolderName())
	}
	fw.Profile = defaultNames().portableProfile(list)
	return fw, nil
}
