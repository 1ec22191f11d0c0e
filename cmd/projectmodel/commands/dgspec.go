package commands

import (
	"github.com/spf13/cobra"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/output"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/projectmodel"
	"github.com/willibrandon/projectmodel/restore"
)

// NewDGSpecCommand creates the dgspec command group.
func NewDGSpecCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dgspec",
		Short: "Work with dependency graph spec (*.dgspec.json) documents",
	}
	cmd.AddCommand(newDGSpecFormatCommand(console))
	cmd.AddCommand(newDGSpecHashCommand(console))
	cmd.AddCommand(newDGSpecClosureCommand(console))
	return cmd
}

func newDGSpecFormatCommand(console *output.Console) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "format <file.dgspec.json>",
		Short: "Read a dependency graph spec and write it back in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return emitDocument(cmd.Context(), console, observability.DocumentDGSpec, out, graph.Render)
		},
	}

	addOutputFlag(cmd, &out)
	return cmd
}

func newDGSpecHashCommand(console *output.Console) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "hash <file.dgspec.json>",
		Short: "Print the fingerprint restore stores in the no-op cache file",
		Long: `Prints the dependency graph fingerprint. With --project only the closure
of that project is hashed, which is what restore records for it.

The algorithm is FNV-1a 64 unless NUGET_ENABLE_LEGACY_DGSPEC_HASH_FUNCTION
is set to true, which selects SHA-512.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if project != "" {
				if graph.GetProjectSpec(project) == nil {
					return projectNotFound(project)
				}
				graph = graph.WithProjectClosure(project)
			}

			hash, err := restore.HashGraph(cmd.Context(), graph)
			if err != nil {
				return err
			}
			console.Detail("algorithm: %s", restore.HashAlgorithm())
			console.Println(hash)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Hash only the closure of this project")
	return cmd
}

func newDGSpecClosureCommand(console *output.Console) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "closure <file.dgspec.json> <project>",
		Short: "List a project and the projects it references, dependencies first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := loadGraph(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if graph.GetProjectSpec(args[1]) == nil {
				return projectNotFound(args[1])
			}

			for _, spec := range projectmodel.SortPackagesByDependencyOrder(graph.GetClosure(args[1])) {
				console.Println(projectLabel(spec))
			}
			return nil
		},
	}
	return cmd
}
