package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "NuGet.Config")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseNuGetConfig(t *testing.T) {
	xml := `<?xml version="1.0" encoding="utf-8"?>
<configuration>
  <packageSources>
    <add key="nuget.org" value="https://api.nuget.org/v3/index.json" protocolVersion="3" />
    <add key="local" value="./feed" enabled="false" />
    <add key="corp" value="https://corp/v3/index.json" />
  </packageSources>
  <disabledPackageSources>
    <add key="corp" value="true" />
  </disabledPackageSources>
  <config>
    <add key="globalPackagesFolder" value="~/.nuget/packages" />
  </config>
</configuration>`

	config, err := ParseNuGetConfig(strings.NewReader(xml))
	if err != nil {
		t.Fatalf("ParseNuGetConfig() error = %v", err)
	}

	if got := config.GetConfigValue("GLOBALPACKAGESFOLDER"); got != "~/.nuget/packages" {
		t.Errorf("config value = %q, want %q", got, "~/.nuget/packages")
	}

	enabled := config.GetEnabledPackageSources()
	if len(enabled) != 1 || enabled[0].Key != "nuget.org" {
		t.Errorf("enabled sources = %+v, want only nuget.org", enabled)
	}
	if !config.IsSourceDisabled("Corp") {
		t.Error("corp should be disabled")
	}
}

func TestParseNuGetConfig_InvalidXML(t *testing.T) {
	if _, err := ParseNuGetConfig(strings.NewReader("<configuration><packageSources>")); err == nil {
		t.Error("expected error for truncated XML")
	}
}

func TestNuGetConfig_GetConfigValue_Nil(t *testing.T) {
	var config *NuGetConfig
	if got := config.GetConfigValue("x"); got != "" {
		t.Errorf("GetConfigValue() = %q, want empty", got)
	}
	if got := (&NuGetConfig{}).GetEnabledPackageSources(); got == nil || len(got) != 0 {
		t.Errorf("GetEnabledPackageSources() = %v, want empty slice", got)
	}
}

func TestLoadSettings(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	app := filepath.Join(repo, "src", "app")

	outer := writeConfig(t, repo, `<configuration>
  <packageSources>
    <add key="nuget.org" value="https://api.nuget.org/v3/index.json" />
    <add key="shared" value="https://shared/v3/index.json" />
  </packageSources>
  <config>
    <add key="globalPackagesFolder" value="packages" />
    <add key="http_proxy" value="outer" />
  </config>
</configuration>`)
	inner := writeConfig(t, app, `<configuration>
  <packageSources>
    <add key="NuGet.org" value="https://mirror/v3/index.json" />
  </packageSources>
  <fallbackPackageFolders>
    <add key="sdk" value="fallback" />
  </fallbackPackageFolders>
  <config>
    <add key="http_proxy" value="inner" />
  </config>
</configuration>`)

	settings, err := LoadSettings([]string{inner, filepath.Join(root, "missing", "NuGet.Config"), outer})
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if len(settings.Paths) != 2 {
		t.Errorf("Paths = %v, want 2 files", settings.Paths)
	}
	if got := settings.GetValue("HTTP_PROXY"); got != "inner" {
		t.Errorf("http_proxy = %q, want nearest value %q", got, "inner")
	}
	if got, want := settings.GetValue("globalPackagesFolder"), filepath.Join(repo, "packages"); got != want {
		t.Errorf("globalPackagesFolder = %q, want %q", got, want)
	}

	var values []string
	for _, s := range settings.Sources {
		values = append(values, s.Value)
	}
	if want := []string{"https://mirror/v3/index.json", "https://shared/v3/index.json"}; strings.Join(values, ",") != strings.Join(want, ",") {
		t.Errorf("sources = %v, want %v", values, want)
	}
	if want := filepath.Join(app, "fallback"); len(settings.FallbackPackageFolders) != 1 || settings.FallbackPackageFolders[0] != want {
		t.Errorf("fallback folders = %v, want [%s]", settings.FallbackPackageFolders, want)
	}
}

func TestLoadSettings_Clear(t *testing.T) {
	root := t.TempDir()
	outer := writeConfig(t, root, `<configuration><packageSources><add key="a" value="https://a" /></packageSources></configuration>`)
	inner := writeConfig(t, filepath.Join(root, "x"), `<configuration><packageSources><clear /><add key="b" value="https://b" /></packageSources></configuration>`)

	settings, err := LoadSettings([]string{inner, outer})
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if len(settings.Sources) != 1 || settings.Sources[0].Key != "b" {
		t.Errorf("sources = %+v, want only b", settings.Sources)
	}
}

func TestLoadSettings_InvalidFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "<configuration>")

	_, err := LoadSettings([]string{path})
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("LoadSettings() error = %v, want error naming %s", err, path)
	}
}

func TestSettings_GlobalPackagesFolder(t *testing.T) {
	t.Setenv("NUGET_PACKAGES", "")
	settings, err := LoadSettings(nil)
	if err != nil {
		t.Fatal(err)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		if got, want := settings.GlobalPackagesFolder(), filepath.Join(home, ".nuget", "packages"); got != want {
			t.Errorf("GlobalPackagesFolder() = %q, want %q", got, want)
		}
	}

	t.Setenv("NUGET_PACKAGES", "/env/packages")
	if got := settings.GlobalPackagesFolder(); got != "/env/packages" {
		t.Errorf("GlobalPackagesFolder() = %q, want environment value", got)
	}
}

func TestGetConfigHierarchy(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	top := writeConfig(t, root, "<configuration />")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	paths := GetConfigHierarchy(nested)
	if len(paths) < 2 {
		t.Fatalf("GetConfigHierarchy() = %v, want at least the repo and machine files", paths)
	}
	if paths[0] != top {
		t.Errorf("first path = %q, want %q", paths[0], top)
	}
	if last := paths[len(paths)-1]; last != getMachineWideConfigPath() {
		t.Errorf("last path = %q, want machine-wide config", last)
	}
}
