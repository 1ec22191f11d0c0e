package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadToolConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: ".projectmodel.yaml",
			content: `verbosity: detailed
color: false
metrics: metrics.prom
legacyHash: true
tracing:
  exporter: otlp
  endpoint: localhost:4317
  samplingRate: 0.5
`,
		},
		{
			name: "toml",
			file: ".projectmodel.toml",
			content: `verbosity = "detailed"
color = false
metrics = "metrics.prom"
legacyHash = true

[tracing]
exporter = "otlp"
endpoint = "localhost:4317"
samplingRate = 0.5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadToolConfig(path)
			if err != nil {
				t.Fatalf("LoadToolConfig() error = %v", err)
			}
			if cfg.Path != path {
				t.Errorf("Path = %q, want %q", cfg.Path, path)
			}
			if cfg.Verbosity != "detailed" || cfg.Metrics != "metrics.prom" || !cfg.LegacyHash {
				t.Errorf("unexpected settings %+v", cfg)
			}
			if cfg.Color == nil || *cfg.Color {
				t.Errorf("Color = %v, want explicit false", cfg.Color)
			}
			if cfg.Tracing.Exporter != "otlp" || cfg.Tracing.Endpoint != "localhost:4317" || cfg.Tracing.SamplingRate != 0.5 {
				t.Errorf("Tracing = %+v", cfg.Tracing)
			}
		})
	}
}

func TestLoadToolConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"unknown yaml field", "a.yaml", "verbose: true\n", "field verbose not found"},
		{"unknown toml key", "a.toml", "verbose = true\n", `unknown setting "verbose"`},
		{"bad exporter", "a.yml", "tracing:\n  exporter: jaeger\n", `unknown tracing exporter "jaeger"`},
		{"bad sampling rate", "a.toml", "[tracing]\nsamplingRate = 2.0\n", "outside [0, 1]"},
		{"unsupported extension", "a.json", "{}", "unsupported settings file extension"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadToolConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadToolConfig() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestLoadToolConfig_EmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".projectmodel.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadToolConfig(path)
	if err != nil {
		t.Fatalf("LoadToolConfig() error = %v", err)
	}
	if cfg.Color != nil || cfg.Tracing.Exporter != "" {
		t.Errorf("empty file should leave defaults, got %+v", cfg)
	}
}

func TestFindToolConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindToolConfig(nested); got != "" && strings.HasPrefix(got, root) {
		t.Errorf("FindToolConfig() = %q, want none under %s", got, root)
	}

	path := filepath.Join(root, ".projectmodel.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := FindToolConfig(nested); got != path {
		t.Errorf("FindToolConfig() = %q, want %q", got, path)
	}
}
