package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteStructured(t *testing.T) {
	result := &CacheCheckOutput{SchemaVersion: CurrentSchemaVersion, Project: "a", NoOp: true}

	tests := []struct {
		format Format
		want   []string
		absent string
	}{
		{FormatJSON, []string{`"schemaVersion": "1.0.0"`, `"noOp": true`, "\n  \"project\""}, `"reason"`},
		{FormatYAML, []string{"schemaVersion: 1.0.0", "noOp: true", "project: a"}, "reason"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteStructured(&buf, tt.format, result); err != nil {
				t.Fatalf("WriteStructured() error = %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("output missing %q:\n%s", s, buf.String())
				}
			}
			if strings.Contains(buf.String(), tt.absent) {
				t.Errorf("empty reason should be omitted:\n%s", buf.String())
			}
		})
	}

	if err := WriteStructured(&bytes.Buffer{}, FormatText, result); err == nil {
		t.Error("text is not a structured format")
	}
}
