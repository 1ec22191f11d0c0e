package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/config"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/output"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/projectmodel"
	"github.com/willibrandon/projectmodel/restore"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(console *output.Console) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "doctor [<project directory>]",
		Short: "Check that a project's restore documents and NuGet settings can be read",
		Long: `Reads every restore document of a project directory and every NuGet.config
that applies to it. Missing restore outputs are reported as degraded; files
that exist but cannot be read are unhealthy and fail the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if dir, err = filepath.Abs(dir); err != nil {
				return err
			}

			start := time.Now()
			checker := doctorChecks(dir)
			results := checker.Check(cmd.Context())
			status := observability.OverallStatus(results)

			report := &output.DoctorOutput{
				SchemaVersion: output.CurrentSchemaVersion,
				Directory:     dir,
				Status:        string(status),
				Checks:        []output.CheckEntry{},
			}
			for _, name := range checker.Names() {
				r := results[name]
				report.Checks = append(report.Checks, output.CheckEntry{
					Name: name, Status: string(r.Status), Message: r.Message, Details: r.Details,
				})
			}
			report.ElapsedMs = output.MeasureElapsed(start)

			if f != output.FormatText {
				if err := output.WriteStructured(console.Out(), f, report); err != nil {
					return err
				}
			} else {
				printDoctorReport(console, report)
			}

			if status == observability.HealthStatusUnhealthy {
				return ErrUnhealthy
			}
			return nil
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

// ErrUnhealthy is returned by doctor when a check is unhealthy.
var ErrUnhealthy = errors.New("one or more checks are unhealthy")

func printDoctorReport(console *output.Console, report *output.DoctorOutput) {
	for _, c := range report.Checks {
		line := "%-10s %s: %s"
		switch observability.HealthStatus(c.Status) {
		case observability.HealthStatusHealthy:
			console.Success(line, c.Status, c.Name, c.Message)
		case observability.HealthStatusDegraded:
			console.Info(line, c.Status, c.Name, c.Message)
		default:
			console.Error(line, c.Status, c.Name, c.Message)
		}
		if path := c.Details["path"]; path != "" {
			console.Detail("           %s", path)
		}
	}
	console.Println("Overall: " + report.Status)
}

// doctorChecks registers one check per document that applies to dir.
func doctorChecks(dir string) *observability.HealthChecker {
	checker := observability.NewHealthChecker()
	obj := filepath.Join(dir, "obj")

	checker.Register(observability.FileHealthCheck("assets", filepath.Join(obj, restore.AssetsFileName), true,
		func(ctx context.Context, path string) error {
			_, err := loadAssets(ctx, path)
			return err
		}))
	checker.Register(observability.FileHealthCheck("cache", filepath.Join(obj, projectmodel.CacheFileName), true,
		func(ctx context.Context, path string) error {
			_, err := loadCacheFile(ctx, path)
			return err
		}))
	checker.Register(observability.FileHealthCheck("packages-lock", filepath.Join(dir, projectmodel.PackagesLockFileName), true,
		func(ctx context.Context, path string) error {
			_, err := loadPackagesLock(ctx, path)
			return err
		}))
	checker.Register(observability.FileHealthCheck("project-spec", filepath.Join(dir, "project.json"), true,
		func(ctx context.Context, path string) error {
			_, err := readDocument(ctx, observability.DocumentPackageSpec, path,
				func(r io.Reader, opts ...jsonstream.Option) (*projectmodel.PackageSpec, error) {
					return projectmodel.GetPackageSpec(r, "", path, opts...)
				})
			return err
		}))

	dgspecs, _ := filepath.Glob(filepath.Join(obj, projectmodel.GetDGSpecFileName("*")))
	sort.Strings(dgspecs)
	for _, path := range dgspecs {
		checker.Register(observability.FileHealthCheck("dgspec:"+filepath.Base(path), path, false,
			func(ctx context.Context, path string) error {
				_, err := loadGraph(ctx, path)
				return err
			}))
	}

	for _, path := range config.GetConfigHierarchy(dir) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		checker.Register(observability.FileHealthCheck("nuget.config:"+path, path, false,
			func(_ context.Context, path string) error {
				_, err := config.LoadNuGetConfig(path)
				return err
			}))
	}

	if path := config.FindToolConfig(dir); path != "" {
		checker.Register(observability.FileHealthCheck("settings", path, false,
			func(_ context.Context, path string) error {
				_, err := config.LoadToolConfig(path)
				return err
			}))
	}

	checker.Register(observability.HealthCheck{
		Name:  "global-packages-folder",
		Check: globalPackagesCheck(dir),
	})
	return checker
}

func globalPackagesCheck(dir string) func(context.Context) observability.HealthCheckResult {
	return func(context.Context) observability.HealthCheckResult {
		settings, err := config.LoadSettings(config.GetConfigHierarchy(dir))
		if err != nil {
			return observability.HealthCheckResult{Status: observability.HealthStatusUnhealthy, Message: err.Error()}
		}
		folder := settings.GlobalPackagesFolder()
		details := map[string]string{"path": folder}
		if info, err := os.Stat(folder); err != nil || !info.IsDir() {
			return observability.HealthCheckResult{Status: observability.HealthStatusDegraded, Message: "not found", Details: details}
		}
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy, Message: "present", Details: details}
	}
}
