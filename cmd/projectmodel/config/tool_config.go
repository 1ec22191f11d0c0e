package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ToolConfigNames are the settings files looked up by FindToolConfig, in
// order.
var ToolConfigNames = []string{".projectmodel.yaml", ".projectmodel.yml", ".projectmodel.toml"}

// ToolConfig holds defaults for the command-line flags. Flags given on the
// command line win.
type ToolConfig struct {
	Verbosity  string        `yaml:"verbosity" toml:"verbosity"`
	Color      *bool         `yaml:"color" toml:"color"`
	Metrics    string        `yaml:"metrics" toml:"metrics"`
	LegacyHash bool          `yaml:"legacyHash" toml:"legacyHash"`
	Tracing    TracingConfig `yaml:"tracing" toml:"tracing"`

	// Path is the file the settings were read from.
	Path string `yaml:"-" toml:"-"`
}

// TracingConfig selects the span exporter.
type TracingConfig struct {
	Exporter     string  `yaml:"exporter" toml:"exporter"`
	Endpoint     string  `yaml:"endpoint" toml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate" toml:"samplingRate"`
}

// LoadToolConfig reads a YAML or TOML settings file, chosen by extension.
func LoadToolConfig(path string) (*ToolConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	cfg := &ToolConfig{Path: path}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%s: unknown setting %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported settings file extension %q", ext)
	}
	return cfg, cfg.Validate()
}

// Validate checks the tracing settings.
func (c *ToolConfig) Validate() error {
	switch c.Tracing.Exporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown tracing exporter %q (expected none, stdout or otlp)", c.Tracing.Exporter)
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return fmt.Errorf("tracing sampling rate %v is outside [0, 1]", c.Tracing.SamplingRate)
	}
	return nil
}

// FindToolConfig looks for a settings file in startDir and its parents and
// returns "" when there is none.
func FindToolConfig(startDir string) string {
	dir := startDir
	for {
		for _, name := range ToolConfigNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
