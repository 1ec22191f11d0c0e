package commands

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/output"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/projectmodel"
)

// ErrLockFileOutOfDate is returned by lock check and lock diff when the
// lock file no longer matches.
var ErrLockFileOutOfDate = errors.New("packages lock file is out of date")

// NewLockCommand creates the lock command group.
func NewLockCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Work with packages lock (packages.lock.json) documents",
	}
	cmd.AddCommand(newLockFormatCommand(console))
	cmd.AddCommand(newLockCheckCommand(console))
	cmd.AddCommand(newLockDiffCommand(console))
	return cmd
}

func loadPackagesLock(ctx context.Context, path string) (*projectmodel.PackagesLockFile, error) {
	return readDocument(ctx, observability.DocumentPackagesLock, path,
		func(r io.Reader, opts ...jsonstream.Option) (*projectmodel.PackagesLockFile, error) {
			return projectmodel.LoadPackagesLockFile(r, path, opts...)
		})
}

func newLockFormatCommand(console *output.Console) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "format <packages.lock.json>",
		Short: "Read a packages lock file and write it back in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lf, err := loadPackagesLock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emitDocument(cmd.Context(), console, observability.DocumentPackagesLock, out,
				func() ([]byte, error) { return projectmodel.RenderPackagesLockFile(lf) })
		},
	}

	addOutputFlag(cmd, &out)
	return cmd
}

func newLockCheckCommand(console *output.Console) *cobra.Command {
	var project, lockPath, format string

	cmd := &cobra.Command{
		Use:   "check <file.dgspec.json>",
		Short: "Check a packages lock file against the project that produced it",
		Long: `Checks whether the packages lock file still matches the project's
frameworks, runtimes, package references, central versions and project
references. The lock file defaults to the one next to the project.

Examples:
  projectmodel lock check obj/app.csproj.nuget.dgspec.json
  projectmodel lock check app.dgspec.json --lock-file packages.lock.json --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			inv := newInvocation(console)
			ctx := cmd.Context()

			graph, err := loadGraph(ctx, args[0])
			if err != nil {
				return err
			}
			name, err := restoreProject(graph, project)
			if err != nil {
				return err
			}
			graph = graph.WithProjectClosure(name)
			spec := graph.GetProjectSpec(name)
			if lockPath == "" {
				if lockPath = projectmodel.GetNuGetLockFilePath(spec); lockPath == "" {
					return errors.New("the project has no restore metadata; pass --lock-file")
				}
			}

			result, err := checkLockFile(ctx, inv.log, graph, lockPath)
			if err != nil {
				return err
			}

			if f != output.FormatText {
				reasons := result.InvalidReasons
				if reasons == nil {
					reasons = []string{}
				}
				if err := output.WriteStructured(console.Out(), f, &output.LockCheckOutput{
					SchemaVersion:  output.CurrentSchemaVersion,
					LockFile:       lockPath,
					Project:        name,
					Valid:          result.IsValid,
					InvalidReasons: reasons,
					ElapsedMs:      output.MeasureElapsed(inv.start),
				}); err != nil {
					return err
				}
			} else if result.IsValid {
				console.Success("%s is up to date", lockPath)
			} else {
				console.Warning("%s is out of date", lockPath)
				for _, reason := range result.InvalidReasons {
					console.Printf("  %s\n", reason)
				}
			}

			if !result.IsValid {
				return ErrLockFileOutOfDate
			}
			return inv.done("lock check")
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project to check; defaults to the first project to restore")
	cmd.Flags().StringVar(&lockPath, "lock-file", "", "Packages lock file; defaults to the project's lock file path")
	addFormatFlag(cmd, &format)
	return cmd
}

// checkLockFile validates the lock file at path against the first project
// to restore in graph.
func checkLockFile(ctx context.Context, log observability.Logger, graph *projectmodel.DependencyGraphSpec, path string) (projectmodel.LockFileValidationResult, error) {
	ctx, span := observability.StartLockFileValidationSpan(ctx, path)

	lf := projectmodel.ReadPackagesLockFileFromFile(path, log)
	result, err := projectmodel.IsLockFileValid(graph, lf)
	if err != nil {
		observability.LockFileValidationsTotal.WithLabelValues("error").Inc()
		observability.EndSpanWithError(span, err)
		return result, err
	}

	status := "valid"
	if !result.IsValid {
		status = "invalid"
	}
	observability.LockFileValidationsTotal.WithLabelValues(status).Inc()
	observability.RecordValidation(ctx, result.IsValid, strings.Join(result.InvalidReasons, "; "))
	observability.EndSpanWithError(span, nil)
	return result, nil
}

func newLockDiffCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <expected.lock.json> <actual.lock.json>",
		Short: "Compare two packages lock files",
		Long: `Compares a freshly generated lock file with the one on disk. They match
when both have the same targets and every dependency agrees on its resolved
version, type, requested range and content hash.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected, err := loadPackagesLock(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			actual, err := loadPackagesLock(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			result := projectmodel.IsLockFileStillValid(expected, actual)
			if !result.IsValid {
				console.Warning("%s does not match %s", args[1], args[0])
				return ErrLockFileOutOfDate
			}
			console.Success("%s matches %s (%d dependencies)", args[1], args[0], len(result.MatchedDependencies))
			for _, m := range result.MatchedDependencies {
				console.Detail("  %s %s", m.Actual.ID, m.Actual.ResolvedVersion)
			}
			return nil
		},
	}
	return cmd
}
