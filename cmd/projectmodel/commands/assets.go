package commands

import (
	"context"
	"io"
	"runtime"
	"slices"

	"github.com/spf13/cobra"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/output"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/librarymodel"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/projectmodel"
	"github.com/willibrandon/projectmodel/restore"
	"golang.org/x/sync/errgroup"
)

// NewAssetsCommand creates the assets command group.
func NewAssetsCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "Work with assets (project.assets.json) documents",
	}
	cmd.AddCommand(newAssetsFormatCommand(console))
	cmd.AddCommand(newAssetsVerifyCommand(console))
	cmd.AddCommand(newAssetsLogsCommand(console))
	return cmd
}

func loadAssets(ctx context.Context, path string) (*projectmodel.LockFile, error) {
	return readDocument(ctx, observability.DocumentAssets, path,
		func(r io.Reader, opts ...jsonstream.Option) (*projectmodel.LockFile, error) {
			return projectmodel.LoadLockFile(r, path, opts...)
		})
}

func newAssetsFormatCommand(console *output.Console) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "format <project.assets.json>",
		Short: "Read an assets file and write it back in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lf, err := loadAssets(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emitDocument(cmd.Context(), console, observability.DocumentAssets, out,
				func() ([]byte, error) { return projectmodel.RenderLockFile(lf) })
		},
	}

	addOutputFlag(cmd, &out)
	return cmd
}

func newAssetsVerifyCommand(console *output.Console) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "verify <project.assets.json>...",
		Short: "Check that assets files can be read",
		Long: `Reads every file concurrently and reports its version, target count and
the number of errors and warnings restore recorded in it. The command fails
when any file cannot be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			inv := newInvocation(console)
			results := verifyAssets(cmd.Context(), inv.log, args)

			if f != output.FormatText {
				if err := output.WriteStructured(console.Out(), f, &output.AssetsVerifyOutput{
					SchemaVersion: output.CurrentSchemaVersion,
					Files:         results,
					ElapsedMs:     output.MeasureElapsed(inv.start),
				}); err != nil {
					return err
				}
				return inv.done("assets verify")
			}

			for _, r := range results {
				if !r.Valid {
					console.Error("%s: cannot be read", r.Path)
					continue
				}
				console.Success("%s: version %d, %d target(s), %d error(s), %d warning(s)",
					r.Path, r.Version, r.Targets, r.Errors, r.Warnings)
			}
			return inv.done("assets verify")
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

// verifyAssets reads paths concurrently. Results keep the order of paths.
func verifyAssets(ctx context.Context, log observability.Logger, paths []string) []output.AssetsFileResult {
	results := make([]output.AssetsFileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			result := output.AssetsFileResult{Path: path}
			lf, err := loadAssets(ctx, path)
			if err != nil {
				log.Error("Failed to read assets file {Path}: {Error}", path, err.Error())
			} else {
				result.Valid = true
				result.Version = lf.Version
				result.Targets = len(lf.Targets)
				for _, m := range lf.LogMessages {
					switch m.Level {
					case librarymodel.LogLevelError:
						result.Errors++
					case librarymodel.LogLevelWarning:
						result.Warnings++
					}
				}
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func newAssetsLogsCommand(console *output.Console) *cobra.Command {
	var minLevel string

	cmd := &cobra.Command{
		Use:   "logs <project.assets.json>",
		Short: "Print the diagnostics restore recorded in an assets file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, ok := librarymodel.ParseLogLevel(minLevel)
			if !ok {
				return invalidLevel(minLevel)
			}
			lf, err := loadAssets(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			projectPath := ""
			if lf.PackageSpec != nil && lf.PackageSpec.RestoreMetadata != nil {
				projectPath = lf.PackageSpec.RestoreMetadata.ProjectPath
			}
			logs := slices.DeleteFunc(slices.Clone(lf.LogMessages), func(m *projectmodel.AssetsLogMessage) bool {
				return m.Level < level
			})

			replayer := &restore.Replayer{
				Console:  console,
				Colorize: console.ColorsEnabled() && restore.DefaultTTYDetector.IsTTY(console.Out()),
			}
			errors, warnings := replayer.Replay(logs, projectPath)
			console.Detail("%d error(s), %d warning(s)", errors, warnings)
			return nil
		},
	}

	cmd.Flags().StringVar(&minLevel, "level", "Minimal", "Lowest level to print (Debug, Verbose, Information, Minimal, Warning, Error)")
	return cmd
}
