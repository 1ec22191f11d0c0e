package observability

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"slices"
	"sync"
)

// HealthStatus represents the health status of a checked document
type HealthStatus string

const (
	// HealthStatusHealthy indicates the document is present and readable.
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusDegraded indicates an optional document is absent.
	HealthStatusDegraded HealthStatus = "degraded"
	// HealthStatusUnhealthy indicates the document is missing or unreadable.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a single health check
type HealthCheck struct {
	Name  string
	Check func(context.Context) HealthCheckResult
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status  HealthStatus      `json:"status" yaml:"status"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

// HealthChecker runs a set of named checks concurrently
type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]*HealthCheck
}

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{checks: make(map[string]*HealthCheck)}
}

// Register registers a check, replacing any check with the same name
func (hc *HealthChecker) Register(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name] = &check
}

// Names returns the registered check names in sorted order.
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Check executes all checks and returns their results by name
func (hc *HealthChecker) Check(ctx context.Context) map[string]HealthCheckResult {
	hc.mu.RLock()
	checks := make([]*HealthCheck, 0, len(hc.checks))
	for _, check := range hc.checks {
		checks = append(checks, check)
	}
	hc.mu.RUnlock()

	results := make(map[string]HealthCheckResult, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, check := range checks {
		wg.Add(1)
		go func(c *HealthCheck) {
			defer wg.Done()
			result := c.Check(ctx)
			mu.Lock()
			results[c.Name] = result
			mu.Unlock()
		}(check)
	}

	wg.Wait()
	return results
}

// OverallStatus folds a set of results into one status
func OverallStatus(results map[string]HealthCheckResult) HealthStatus {
	hasDegraded := false
	for _, result := range results {
		switch result.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			hasDegraded = true
		}
	}
	if hasDegraded {
		return HealthStatusDegraded
	}
	return HealthStatusHealthy
}

// FileHealthCheck creates a check that reads the document at path with read.
// A missing optional document is degraded; a missing required document or
// a read failure is unhealthy.
func FileHealthCheck(name, path string, optional bool, read func(ctx context.Context, path string) error) HealthCheck {
	return HealthCheck{
		Name: name,
		Check: func(ctx context.Context) HealthCheckResult {
			details := map[string]string{"path": path}

			if _, err := os.Stat(path); err != nil {
				status := HealthStatusUnhealthy
				message := err.Error()
				if errors.Is(err, fs.ErrNotExist) {
					message = "not found"
					if optional {
						status = HealthStatusDegraded
					}
				}
				return HealthCheckResult{Status: status, Message: message, Details: details}
			}

			if err := read(ctx, path); err != nil {
				return HealthCheckResult{
					Status:  HealthStatusUnhealthy,
					Message: err.Error(),
					Details: details,
				}
			}

			return HealthCheckResult{
				Status:  HealthStatusHealthy,
				Message: "readable",
				Details: details,
			}
		},
	}
}
