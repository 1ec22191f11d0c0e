package commands

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/output"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/projectmodel"
	"github.com/willibrandon/projectmodel/restore"
)

// ErrRestoreNeeded is returned by cache check --exit-code when restore
// cannot be skipped.
var ErrRestoreNeeded = errors.New("restore is needed")

// NewCacheCommand creates the cache command group.
func NewCacheCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Work with no-op restore cache (project.nuget.cache) files",
	}
	cmd.AddCommand(newCacheCheckCommand(console))
	cmd.AddCommand(newCacheShowCommand(console))
	cmd.AddCommand(newCacheFormatCommand(console))
	return cmd
}

func loadCacheFile(ctx context.Context, path string) (*projectmodel.CacheFile, error) {
	return readDocument(ctx, observability.DocumentCacheFile, path,
		func(r io.Reader, opts ...jsonstream.Option) (*projectmodel.CacheFile, error) {
			return projectmodel.LoadCacheFile(r, path, opts...)
		})
}

func newCacheCheckCommand(console *output.Console) *cobra.Command {
	var project, format string
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "check <file.dgspec.json>",
		Short: "Report whether restoring a project would be a no-op",
		Long: `Compares the project's cache file with the dependency graph. Restore can
be skipped when the last restore succeeded for the same graph fingerprint
and every package file it recorded is still on disk. On a no-op the
diagnostics of that restore are printed again.

Examples:
  projectmodel cache check obj/app.csproj.nuget.dgspec.json
  projectmodel cache check app.dgspec.json -p /src/lib/lib.csproj --exit-code`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			inv := newInvocation(console)

			graph, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			name, err := restoreProject(graph, project)
			if err != nil {
				return err
			}

			checker := &restore.NoOpChecker{Logger: inv.log}
			if f == output.FormatText {
				checker.Replayer = &restore.Replayer{
					Console:  console,
					Colorize: console.ColorsEnabled() && restore.DefaultTTYDetector.IsTTY(console.Out()),
				}
			}
			result, err := checker.Check(cmd.Context(), graph, name)
			if err != nil {
				return err
			}

			switch {
			case f != output.FormatText:
				if err := output.WriteStructured(console.Out(), f, &output.CacheCheckOutput{
					SchemaVersion: output.CurrentSchemaVersion,
					Project:       name,
					CacheFile:     result.CachePath,
					DgSpecHash:    result.DgSpecHash,
					NoOp:          result.NoOp,
					Reason:        result.Reason,
					ElapsedMs:     output.MeasureElapsed(inv.start),
				}); err != nil {
					return err
				}
			case result.NoOp:
				console.Success("No-op: %s is up to date", result.CachePath)
			default:
				console.Info("Restore needed: %s", result.Reason)
			}

			if exitCode && !result.NoOp {
				return ErrRestoreNeeded
			}
			return inv.done("cache check")
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project to check; defaults to the first project to restore")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Fail when restore is needed")
	addFormatFlag(cmd, &format)
	return cmd
}

func newCacheShowCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <project.nuget.cache>",
		Short: "Summarize a cache file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadCacheFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			console.Printf("version:        %d\n", cf.Version)
			console.Printf("dgSpecHash:     %s\n", cf.DgSpecHash)
			console.Printf("success:        %t\n", cf.Success)
			if cf.ProjectFilePath != "" {
				console.Printf("project:        %s\n", cf.ProjectFilePath)
			}
			console.Printf("expected files: %d\n", len(cf.ExpectedPackageFilePaths))
			console.Printf("log messages:   %d\n", len(cf.LogMessages))

			if !cf.IsValid() {
				console.Warning("cache file version %d is not supported", cf.Version)
			}
			if cf.AnyPackagesMissing(cmd.Context()) {
				console.Warning("expected package files are missing")
			}
			return nil
		},
	}
	return cmd
}

func newCacheFormatCommand(console *output.Console) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "format <project.nuget.cache>",
		Short: "Read a cache file and write it back in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cf, err := loadCacheFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emitDocument(cmd.Context(), console, observability.DocumentCacheFile, out,
				func() ([]byte, error) { return projectmodel.RenderCacheFile(cf) })
		},
	}

	addOutputFlag(cmd, &out)
	return cmd
}
