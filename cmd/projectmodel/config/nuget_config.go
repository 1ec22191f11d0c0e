// Package config reads the NuGet.config hierarchy and the tool's own
// settings file.
package config

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// NuGetConfig represents a NuGet.config file
type NuGetConfig struct {
	XMLName                xml.Name                `xml:"configuration"`
	PackageSources         *PackageSources         `xml:"packageSources"`
	DisabledPackageSources *DisabledPackageSources `xml:"disabledPackageSources,omitempty"`
	FallbackPackageFolders *Section                `xml:"fallbackPackageFolders"`
	Config                 *Section                `xml:"config"`
}

// DisabledPackageSources contains disabled package source definitions
type DisabledPackageSources struct {
	Add []Item `xml:"add"`
}

// PackageSources contains package source definitions
type PackageSources struct {
	Clear *struct{}       `xml:"clear"`
	Add   []PackageSource `xml:"add"`
}

// PackageSource represents a package source
type PackageSource struct {
	Key             string `xml:"key,attr"`
	Value           string `xml:"value,attr"`
	ProtocolVersion string `xml:"protocolVersion,attr,omitempty"`
	Enabled         string `xml:"enabled,attr,omitempty"`
}

// Section contains configuration settings
type Section struct {
	Clear *struct{} `xml:"clear"`
	Add   []Item    `xml:"add"`
}

// Item represents a configuration key-value pair
type Item struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

// LoadNuGetConfig loads a NuGet.config file
func LoadNuGetConfig(path string) (*NuGetConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseNuGetConfig(f)
}

// ParseNuGetConfig parses NuGet.config XML from a reader
func ParseNuGetConfig(r io.Reader) (*NuGetConfig, error) {
	var config NuGetConfig
	if err := xml.NewDecoder(r).Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config XML: %w", err)
	}
	return &config, nil
}

// GetConfigValue returns the value of key in the config section, or "".
func (c *NuGetConfig) GetConfigValue(key string) string {
	if c == nil || c.Config == nil {
		return ""
	}
	for _, item := range c.Config.Add {
		if strings.EqualFold(item.Key, key) {
			return item.Value
		}
	}
	return ""
}

// IsSourceDisabled checks if a source is disabled
func (c *NuGetConfig) IsSourceDisabled(key string) bool {
	if c.DisabledPackageSources == nil {
		return false
	}
	for _, disabled := range c.DisabledPackageSources.Add {
		if strings.EqualFold(disabled.Key, key) && strings.EqualFold(disabled.Value, "true") {
			return true
		}
	}
	return false
}

// GetEnabledPackageSources returns the sources that are neither listed in
// disabledPackageSources nor marked enabled="false".
func (c *NuGetConfig) GetEnabledPackageSources() []PackageSource {
	if c.PackageSources == nil {
		return []PackageSource{}
	}

	enabled := []PackageSource{}
	for _, source := range c.PackageSources.Add {
		if c.IsSourceDisabled(source.Key) || strings.EqualFold(source.Enabled, "false") {
			continue
		}
		enabled = append(enabled, source)
	}
	return enabled
}

// Settings is the merged view of a config hierarchy. Files closer to the
// working directory win.
type Settings struct {
	Paths                  []string
	Sources                []PackageSource
	FallbackPackageFolders []string
	values                 map[string]string
}

// LoadSettings reads every existing file of paths, nearest first. Missing
// files are skipped and the first unreadable file is returned as an error.
func LoadSettings(paths []string) (*Settings, error) {
	s := &Settings{values: map[string]string{}}
	seenSource := map[string]bool{}
	sourcesCleared, foldersCleared := false, false

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadNuGetConfig(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		s.Paths = append(s.Paths, path)

		if cfg.Config != nil {
			for _, item := range cfg.Config.Add {
				key := strings.ToLower(item.Key)
				if _, ok := s.values[key]; !ok {
					s.values[key] = resolvePath(path, item.Key, item.Value)
				}
			}
		}
		if cfg.PackageSources != nil && !sourcesCleared {
			for _, source := range cfg.GetEnabledPackageSources() {
				if key := strings.ToLower(source.Key); !seenSource[key] {
					seenSource[key] = true
					s.Sources = append(s.Sources, source)
				}
			}
			sourcesCleared = cfg.PackageSources.Clear != nil
		}
		if cfg.FallbackPackageFolders != nil && !foldersCleared {
			for _, item := range cfg.FallbackPackageFolders.Add {
				s.FallbackPackageFolders = append(s.FallbackPackageFolders, resolvePath(path, "folder", item.Value))
			}
			foldersCleared = cfg.FallbackPackageFolders.Clear != nil
		}
	}
	return s, nil
}

// GetValue returns the nearest value of a config key.
func (s *Settings) GetValue(key string) string {
	return s.values[strings.ToLower(key)]
}

// GlobalPackagesFolder resolves the global packages folder: the
// NUGET_PACKAGES environment variable, then the globalPackagesFolder
// setting, then ~/.nuget/packages.
func (s *Settings) GlobalPackagesFolder() string {
	if env := os.Getenv("NUGET_PACKAGES"); env != "" {
		return env
	}
	if v := s.GetValue("globalPackagesFolder"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nuget", "packages")
}

func resolvePath(configPath, key, value string) string {
	if value == "" {
		return value
	}
	switch strings.ToLower(key) {
	case "globalpackagesfolder", "repositorypath", "folder":
	default:
		return value
	}
	if strings.HasPrefix(value, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, value[2:])
		}
	}
	if filepath.IsAbs(value) || strings.Contains(value, "://") {
		return value
	}
	return filepath.Join(filepath.Dir(configPath), value)
}

// GetConfigHierarchy returns the NuGet.config paths that apply to a working
// directory, nearest first, followed by the user and machine-wide files.
// Paths are returned whether or not they exist.
func GetConfigHierarchy(workingDirectory string) []string {
	var paths []string

	dir := workingDirectory
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	for {
		for _, name := range []string{"NuGet.Config", "NuGet.config", "nuget.config"} {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				paths = append(paths, configPath)
				break
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if userConfig := GetUserConfigPath(); userConfig != "" {
		paths = append(paths, userConfig)
	}
	return append(paths, getMachineWideConfigPath())
}

// GetUserConfigPath returns the user-level NuGet.config path
func GetUserConfigPath() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "NuGet", "NuGet.Config")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nuget", "NuGet", "NuGet.Config")
}

func getMachineWideConfigPath() string {
	if programData := os.Getenv("ProgramData"); programData != "" {
		return filepath.Join(programData, "NuGet", "Config", "NuGet.config")
	}
	return "/etc/nuget/NuGet.config"
}
