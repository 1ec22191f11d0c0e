package commands

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/output"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/projectmodel"
)

// NewSpecCommand creates the spec command group.
func NewSpecCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Work with project spec (project.json) documents",
	}
	cmd.AddCommand(newSpecFormatCommand(console))
	return cmd
}

func newSpecFormatCommand(console *output.Console) *cobra.Command {
	var name, out string

	cmd := &cobra.Command{
		Use:   "format <project.json>",
		Short: "Read a project spec and write it back in canonical form",
		Long: `Reads a project spec and writes it in the canonical property order
with two-space indentation.

Examples:
  projectmodel spec format project.json
  projectmodel spec format project.json --name app -o normalized.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			spec, err := readDocument(cmd.Context(), observability.DocumentPackageSpec, path,
				func(r io.Reader, opts ...jsonstream.Option) (*projectmodel.PackageSpec, error) {
					return projectmodel.GetPackageSpec(r, name, path, opts...)
				})
			if err != nil {
				return err
			}
			return emitDocument(cmd.Context(), console, observability.DocumentPackageSpec, out,
				func() ([]byte, error) { return projectmodel.RenderPackageSpec(spec) })
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name; defaults to the restore metadata project name")
	addOutputFlag(cmd, &out)
	return cmd
}
