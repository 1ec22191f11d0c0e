package observability

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func staticCheck(name string, status HealthStatus) HealthCheck {
	return HealthCheck{
		Name: name,
		Check: func(ctx context.Context) HealthCheckResult {
			return HealthCheckResult{Status: status}
		},
	}
}

func TestHealthChecker_Register(t *testing.T) {
	hc := NewHealthChecker()

	hc.Register(staticCheck("assets", HealthStatusHealthy))
	hc.Register(staticCheck("assets", HealthStatusDegraded))
	hc.Register(staticCheck("dgspec", HealthStatusHealthy))

	if got := hc.Names(); !slices.Equal(got, []string{"assets", "dgspec"}) {
		t.Errorf("Names() = %v, want [assets dgspec]", got)
	}
}

func TestHealthChecker_Check(t *testing.T) {
	hc := NewHealthChecker()
	hc.Register(staticCheck("healthy-check", HealthStatusHealthy))
	hc.Register(staticCheck("degraded-check", HealthStatusDegraded))

	results := hc.Check(context.Background())

	if len(results) != 2 {
		t.Errorf("Results count = %d, want 2", len(results))
	}
	if results["healthy-check"].Status != HealthStatusHealthy {
		t.Errorf("healthy-check status = %s, want healthy", results["healthy-check"].Status)
	}
	if results["degraded-check"].Status != HealthStatusDegraded {
		t.Errorf("degraded-check status = %s, want degraded", results["degraded-check"].Status)
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []HealthStatus
		expected HealthStatus
	}{
		{"empty", nil, HealthStatusHealthy},
		{"all healthy", []HealthStatus{HealthStatusHealthy, HealthStatusHealthy}, HealthStatusHealthy},
		{"one degraded", []HealthStatus{HealthStatusHealthy, HealthStatusDegraded}, HealthStatusDegraded},
		{"unhealthy wins", []HealthStatus{HealthStatusDegraded, HealthStatusUnhealthy, HealthStatusHealthy}, HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := map[string]HealthCheckResult{}
			for i, s := range tt.statuses {
				results[string(rune('a'+i))] = HealthCheckResult{Status: s}
			}
			if got := OverallStatus(results); got != tt.expected {
				t.Errorf("OverallStatus() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestFileHealthCheck(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "project.assets.json")
	if err := os.WriteFile(present, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "packages.lock.json")

	ok := func(context.Context, string) error { return nil }
	broken := func(context.Context, string) error { return errors.New("Error reading 'project.assets.json' : bad") }

	tests := []struct {
		name     string
		path     string
		optional bool
		read     func(context.Context, string) error
		want     HealthStatus
		message  string
	}{
		{"readable", present, false, ok, HealthStatusHealthy, "readable"},
		{"unreadable", present, false, broken, HealthStatusUnhealthy, "Error reading 'project.assets.json' : bad"},
		{"missing required", missing, false, ok, HealthStatusUnhealthy, "not found"},
		{"missing optional", missing, true, ok, HealthStatusDegraded, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FileHealthCheck(tt.name, tt.path, tt.optional, tt.read).Check(context.Background())

			if result.Status != tt.want {
				t.Errorf("Status = %s, want %s", result.Status, tt.want)
			}
			if result.Message != tt.message {
				t.Errorf("Message = %q, want %q", result.Message, tt.message)
			}
			if result.Details["path"] != tt.path {
				t.Errorf("Details[path] = %q, want %q", result.Details["path"], tt.path)
			}
		})
	}
}
