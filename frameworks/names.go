package frameworks

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// frameworkNames holds the identifier and profile tables used to render and
// parse short folder names.
type frameworkNames struct {
	shortIdentifiers map[string]string // lower full identifier -> short
	identifiers      map[string]string // lower full identifier -> canonical
	prefixes         []identifierPrefix
	profiles         map[string]string // lower short profile -> profile
	portable         map[string][]string
	portableByKey    map[string]string // sorted '+' joined list -> ProfileN
}

type identifierPrefix struct {
	prefix     string
	identifier string
}

var (
	namesOnce sync.Once
	names     *frameworkNames
)

func defaultNames() *frameworkNames {
	namesOnce.Do(func() {
		names = newFrameworkNames()
	})
	return names
}

func newFrameworkNames() *frameworkNames {
	n := &frameworkNames{
		shortIdentifiers: map[string]string{},
		identifiers:      map[string]string{},
		profiles: map[string]string{
			"client": "Client",
			"full":   "",
			"cf":     "CompactFramework",
		},
		portable:      map[string][]string{},
		portableByKey: map[string]string{},
	}

	full := map[string]string{
		NetFramework:              "net",
		NetStandard:               "netstandard",
		NetCoreApp:                "netcoreapp",
		NetPortable:               "portable",
		".NETMicroFramework":      "netmf",
		"NetCore":                 "netcore",
		"Silverlight":             "sl",
		"Windows":                 "win",
		"WindowsPhone":            "wp",
		"WindowsPhoneApp":         "wpa",
		"DNX":                     "dnx",
		"DNXCore":                 "dnxcore",
		"UAP":                     "uap",
		"Tizen":                   "tizen",
		"MonoAndroid":             "monoandroid",
		"MonoTouch":               "monotouch",
		"MonoMac":                 "monomac",
		"Xamarin.iOS":             "xamarinios",
		"Xamarin.Mac":             "xamarinmac",
		"Xamarin.PlayStation3":    "xamarinpsthree",
		"Xamarin.PlayStation4":    "xamarinpsfour",
		"Xamarin.PlayStationVita": "xamarinpsvita",
		"Xamarin.TVOS":            "xamarintvos",
		"Xamarin.WatchOS":         "xamarinwatchos",
	}
	for id, short := range full {
		n.shortIdentifiers[strings.ToLower(id)] = short
		n.identifiers[strings.ToLower(id)] = id
		if id != NetFramework && id != NetPortable {
			n.prefixes = append(n.prefixes, identifierPrefix{prefix: short, identifier: id})
		}
	}
	n.prefixes = append(n.prefixes,
		identifierPrefix{prefix: "netframework", identifier: NetFramework},
		identifierPrefix{prefix: "windowsphone", identifier: "WindowsPhone"},
		identifierPrefix{prefix: "windows", identifier: "Windows"},
		identifierPrefix{prefix: "silverlight", identifier: "Silverlight"},
		identifierPrefix{prefix: "net", identifier: NetFramework},
	)
	// Longest prefix first so "netstandard" wins over "net".
	sort.Slice(n.prefixes, func(i, j int) bool {
		if len(n.prefixes[i].prefix) != len(n.prefixes[j].prefix) {
			return len(n.prefixes[i].prefix) > len(n.prefixes[j].prefix)
		}
		return n.prefixes[i].prefix < n.prefixes[j].prefix
	})

	profiles := map[int][]string{
		7:   {"net45", "win8"},
		31:  {"win81", "wp81"},
		32:  {"win81", "wpa81"},
		44:  {"net451", "win81"},
		49:  {"net45", "wp8"},
		78:  {"net45", "win8", "wp8"},
		84:  {"wp81", "wpa81"},
		111: {"net45", "win8", "wpa81"},
		151: {"net451", "win81", "wpa81"},
		157: {"win81", "wp81", "wpa81"},
		259: {"net45", "win8", "wp8", "wpa81"},
	}
	for number, list := range profiles {
		profile := "Profile" + strconv.Itoa(number)
		n.portable[strings.ToLower(profile)] = list
		n.portableByKey[portableKey(list)] = profile
	}
	return n
}

func portableKey(list []string) string {
	sorted := make([]string, len(list))
	for i, s := range list {
		sorted[i] = strings.ToLower(s)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, "+")
}

func (n *frameworkNames) shortIdentifier(identifier string) string {
	if short, ok := n.shortIdentifiers[strings.ToLower(identifier)]; ok {
		return short
	}
	return strings.ToLower(identifier)
}

func (n *frameworkNames) canonicalIdentifier(identifier string) string {
	if id, ok := n.identifiers[strings.ToLower(identifier)]; ok {
		return id
	}
	return identifier
}

func (n *frameworkNames) shortProfile(profile string) string {
	if strings.EqualFold(profile, "Full") {
		return ""
	}
	for short, p := range n.profiles {
		if p != "" && strings.EqualFold(p, profile) {
			return short
		}
	}
	return strings.ToLower(profile)
}

func (n *frameworkNames) profileFromShort(short string) string {
	if p, ok := n.profiles[strings.ToLower(short)]; ok {
		return p
	}
	return short
}

// portableFolderProfile expands ProfileN to its framework list; lists are
// sorted.
func (n *frameworkNames) portableFolderProfile(profile string) string {
	if list, ok := n.portable[strings.ToLower(profile)]; ok {
		return portableKey(list)
	}
	if strings.Contains(profile, "+") {
		return portableKey(strings.Split(profile, "+"))
	}
	return strings.ToLower(profile)
}

// portableProfile maps a framework list to its ProfileN name when known.
func (n *frameworkNames) portableProfile(list []string) string {
	if profile, ok := n.portableByKey[portableKey(list)]; ok {
		return profile
	}
	return portableKey(list)
}

func decimalPointFramework(identifier string) bool {
	return strings.EqualFold(identifier, NetStandard) || strings.EqualFold(identifier, NetCoreApp) ||
		strings.EqualFold(identifier, "UAP") || strings.EqualFold(identifier, "Tizen")
}

func singleDigitFramework(identifier string) bool {
	switch strings.ToLower(identifier) {
	case "windows", "windowsphone", "windowsphoneapp", "silverlight":
		return true
	}
	return false
}

// versionString renders the version part of a short folder name: dotted for
// .NETStandard, .NETCoreApp and any part above 9, compact digits otherwise.
func (n *frameworkNames) versionString(identifier string, v FrameworkVersion) string {
	if v.IsEmpty() {
		return ""
	}
	if decimalPointFramework(identifier) || v.Major > 9 || v.Minor > 9 || v.Build > 9 || v.Revision > 9 {
		return v.String()
	}

	digits := []int{v.Major, v.Minor, v.Build, v.Revision}
	keep := 2
	if singleDigitFramework(identifier) {
		keep = 1
	}
	for len(digits) > keep && digits[len(digits)-1] == 0 {
		digits = digits[:len(digits)-1]
	}
	var b strings.Builder
	for _, d := range digits {
		b.WriteString(strconv.Itoa(d))
	}
	return b.String()
}
