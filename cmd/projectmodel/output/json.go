package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// CurrentSchemaVersion is the schema version for all structured outputs
const CurrentSchemaVersion = "1.0.0"

// Format selects how a command reports its result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses text, json or yaml.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", s)
}

// LockCheckOutput is the structured result of lock check.
type LockCheckOutput struct {
	SchemaVersion  string   `json:"schemaVersion" yaml:"schemaVersion"`
	LockFile       string   `json:"lockFile" yaml:"lockFile"`
	Project        string   `json:"project" yaml:"project"`
	Valid          bool     `json:"valid" yaml:"valid"`
	InvalidReasons []string `json:"invalidReasons" yaml:"invalidReasons"`
	ElapsedMs      int64    `json:"elapsedMs" yaml:"elapsedMs"`
}

// CacheCheckOutput is the structured result of cache check.
type CacheCheckOutput struct {
	SchemaVersion string `json:"schemaVersion" yaml:"schemaVersion"`
	Project       string `json:"project" yaml:"project"`
	CacheFile     string `json:"cacheFile" yaml:"cacheFile"`
	DgSpecHash    string `json:"dgSpecHash" yaml:"dgSpecHash"`
	NoOp          bool   `json:"noOp" yaml:"noOp"`
	Reason        string `json:"reason,omitempty" yaml:"reason,omitempty"`
	ElapsedMs     int64  `json:"elapsedMs" yaml:"elapsedMs"`
}

// AssetsFileResult is one file of assets verify.
type AssetsFileResult struct {
	Path     string `json:"path" yaml:"path"`
	Valid    bool   `json:"valid" yaml:"valid"`
	Version  int    `json:"version" yaml:"version"`
	Targets  int    `json:"targets" yaml:"targets"`
	Errors   int    `json:"errors" yaml:"errors"`
	Warnings int    `json:"warnings" yaml:"warnings"`
}

// AssetsVerifyOutput is the structured result of assets verify.
type AssetsVerifyOutput struct {
	SchemaVersion string             `json:"schemaVersion" yaml:"schemaVersion"`
	Files         []AssetsFileResult `json:"files" yaml:"files"`
	ElapsedMs     int64              `json:"elapsedMs" yaml:"elapsedMs"`
}

// DoctorOutput is the structured result of doctor.
type DoctorOutput struct {
	SchemaVersion string       `json:"schemaVersion" yaml:"schemaVersion"`
	Directory     string       `json:"directory" yaml:"directory"`
	Status        string       `json:"status" yaml:"status"`
	Checks        []CheckEntry `json:"checks" yaml:"checks"`
	ElapsedMs     int64        `json:"elapsedMs" yaml:"elapsedMs"`
}

// CheckEntry is one doctor check.
type CheckEntry struct {
	Name    string            `json:"name" yaml:"name"`
	Status  string            `json:"status" yaml:"status"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteYAML writes v as YAML.
func WriteYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// WriteStructured writes v in format. Text is not a structured format.
func WriteStructured(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	}
	return fmt.Errorf("format %q is not structured", format)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
