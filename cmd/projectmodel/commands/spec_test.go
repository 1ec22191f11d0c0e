package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/willibrandon/projectmodel/projectmodel"
)

const projectDocument = `{
  "frameworks": {
    "net8.0": {
      "dependencies": {"Foo": "1.0.0"}
    }
  },
  "version": "2.0.0"
}`

func TestSpecFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	mustWrite(t, path, projectDocument)

	spec, err := projectmodel.GetPackageSpecFromFile("app", path)
	if err != nil {
		t.Fatal(err)
	}
	want, err := projectmodel.RenderPackageSpec(spec)
	if err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, NewSpecCommand, "format", path, "--name", "app")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != string(want)+"\n" {
		t.Errorf("output = %s\nwant %s", out, want)
	}
	if !strings.Contains(out, `"version": "2.0.0"`) {
		t.Errorf("output lost the version: %s", out)
	}
}

func TestSpecFormat_OutputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.json")
	mustWrite(t, path, `{"version": "1.0.0"}`)
	target := filepath.Join(dir, "out.json")

	out, _, err := execute(t, NewSpecCommand, "format", path, "-o", target)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "" {
		t.Errorf("stdout should be empty when writing a file, got %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "{") {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestSpecFormat_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "project.json")
	mustWrite(t, bad, `{"dependencies": {"a": {"include": 1}}}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid document", []string{"format", bad}, "Error reading '" + bad + "'"},
		{"missing file", []string{"format", filepath.Join(dir, "missing.json")}, "no such file"},
		{"no arguments", []string{"format"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, NewSpecCommand, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Execute() error = %v, want %q", err, tt.want)
			}
		})
	}
}
