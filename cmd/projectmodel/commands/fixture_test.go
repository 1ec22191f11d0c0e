package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/output"
	"github.com/willibrandon/projectmodel/frameworks"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/projectmodel"
	"github.com/willibrandon/projectmodel/restore"
	"github.com/willibrandon/projectmodel/version"
)

// workspace is project a in a temp directory: a dgspec restoring it, an
// assets file and one package file in the global packages folder.
type workspace struct {
	dir         string
	projectPath string
	objDir      string
	dgspecPath  string
	packageFile string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	w := &workspace{
		dir:         dir,
		projectPath: filepath.Join(dir, "a", "a.csproj"),
		objDir:      filepath.Join(dir, "a", "obj"),
		packageFile: filepath.Join(dir, "packages", "foo", "1.0.0", "foo.1.0.0.nupkg.sha512"),
	}
	w.dgspecPath = filepath.Join(w.objDir, projectmodel.GetDGSpecFileName("a"))

	spec := projectmodel.NewPackageSpec()
	spec.Name = "a"
	spec.RestoreMetadata = &projectmodel.ProjectRestoreMetadata{
		ProjectStyle:      projectmodel.ProjectStylePackageReference,
		ProjectUniqueName: w.projectPath,
		ProjectName:       "a",
		ProjectPath:       w.projectPath,
		OutputPath:        w.objDir,
		TargetFrameworks: []*projectmodel.ProjectRestoreMetadataFrameworkInfo{
			{FrameworkName: frameworks.Parse("net8.0")},
		},
	}
	tfi := projectmodel.NewTargetFrameworkInformation(frameworks.Parse("net8.0"))
	tfi.Dependencies = []*librarymodel.LibraryDependency{
		librarymodel.NewLibraryDependency("Foo", version.MustParseRange("1.0.0")),
	}
	spec.TargetFrameworks = []*projectmodel.TargetFrameworkInformation{tfi}

	graph := projectmodel.NewDependencyGraphSpec(false)
	if err := graph.AddProject(spec); err != nil {
		t.Fatal(err)
	}
	graph.AddRestore(w.projectPath)

	mustMkdir(t, w.objDir)
	if err := graph.Save(w.dgspecPath); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(w.objDir, restore.AssetsFileName), fmt.Sprintf(assetsDocument, w.projectPath, w.projectPath))
	mustMkdir(t, filepath.Dir(w.packageFile))
	mustWrite(t, w.packageFile, "hash")
	return w
}

// lockFile writes a packages lock file matching project a.
func (w *workspace) lockFile(t *testing.T) string {
	t.Helper()
	lf := projectmodel.NewPackagesLockFile()
	lf.Targets = []*projectmodel.PackagesLockFileTarget{{
		TargetFramework: frameworks.Parse("net8.0"),
		Dependencies: []*projectmodel.LockFileDependency{{
			ID:               "Foo",
			Type:             projectmodel.DependencyDirect,
			RequestedVersion: version.MustParseRange("1.0.0"),
			ResolvedVersion:  version.MustParse("1.0.0"),
			ContentHash:      "abc==",
		}},
	}}
	path := filepath.Join(filepath.Dir(w.projectPath), projectmodel.PackagesLockFileName)
	if err := projectmodel.WritePackagesLockFileFile(lf, path); err != nil {
		t.Fatal(err)
	}
	return path
}

const assetsDocument = `{
  "version": 3,
  "targets": {
    "net8.0": {}
  },
  "libraries": {},
  "projectFileDependencyGroups": {
    "net8.0": []
  },
  "project": {
    "version": "1.0.0",
    "restore": {
      "projectUniqueName": %q,
      "projectName": "a",
      "projectPath": %q,
      "projectStyle": "PackageReference"
    },
    "frameworks": {
      "net8.0": {}
    }
  },
  "logs": [
    {
      "code": "NU1603",
      "level": "Warning",
      "warningLevel": 1,
      "message": "Foo 1.0.0 was not found. An approximate best match was resolved."
    }
  ]
}`

func mustMkdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// execute runs cmd with args and returns stdout and stderr.
func execute(t *testing.T, newCmd func(*output.Console) *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	console := output.NewConsole(&out, &errOut, output.VerbosityNormal)

	cmd := newCmd(console)
	cmd.SetArgs(args)
	cmd.SetOut(&errOut)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
