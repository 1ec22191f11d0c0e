// Package commands implements the projectmodel subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/output"
	"github.com/willibrandon/projectmodel/internal/filelock"
	"github.com/willibrandon/projectmodel/jsonstream"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/projectmodel"
)

// invocation is the per-command state: the console, a logger that counts
// errors for the exit status, and the start time for elapsed reporting.
type invocation struct {
	console *output.Console
	log     *observability.CountingLogger
	start   time.Time
}

func newInvocation(console *output.Console) *invocation {
	return &invocation{
		console: console,
		log:     observability.NewCountingLogger(console.Logger()),
		start:   time.Now(),
	}
}

// done fails the command when anything logged an error.
func (inv *invocation) done(what string) error {
	if n := inv.log.Errors(); n > 0 {
		return fmt.Errorf("%s reported %d error(s)", what, n)
	}
	return nil
}

// readDocument opens path and decodes it with read inside a read span.
// The reader's buffer growth is recorded against document.
func readDocument[T any](ctx context.Context, document, path string, read func(io.Reader, ...jsonstream.Option) (T, error)) (T, error) {
	_, span := observability.StartDocumentReadSpan(ctx, document, path)
	start := time.Now()

	var doc T
	f, err := os.Open(path)
	if err == nil {
		defer func() { _ = f.Close() }()
		doc, err = read(f, jsonstream.WithGrowHook(observability.BufferGrowRecorder(document)))
	}

	observability.RecordDocumentRead(document, start, err)
	observability.EndSpanWithError(span, err)
	return doc, err
}

// emitDocument writes a rendered document to path, or to the console when
// path is empty. File writes hold the lock for path.
func emitDocument(ctx context.Context, console *output.Console, document, path string, render func() ([]byte, error)) error {
	ctx, span := observability.StartDocumentWriteSpan(ctx, document, path)

	data, err := render()
	if err == nil {
		if path != "" {
			err = filelock.With(ctx, path, func() error {
				return projectmodel.WriteFileAtomic(path, data)
			})
		} else {
			_, err = console.Write(append(data, '\n'))
		}
	}

	observability.RecordDocumentWrite(document, err)
	observability.EndSpanWithError(span, err)
	return err
}

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "", "Write the document to this file instead of stdout")
}

func addFormatFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "format", "text", "Output format: text, json, or yaml")
}

// loadGraph reads a dependency graph spec file.
func loadGraph(ctx context.Context, path string) (*projectmodel.DependencyGraphSpec, error) {
	return readDocument(ctx, observability.DocumentDGSpec, path,
		func(r io.Reader, opts ...jsonstream.Option) (*projectmodel.DependencyGraphSpec, error) {
			return projectmodel.LoadDependencyGraphSpec(r, path, opts...)
		})
}

// restoreProject picks the named project, or the first project to restore.
func restoreProject(graph *projectmodel.DependencyGraphSpec, name string) (string, error) {
	if name != "" {
		if graph.GetProjectSpec(name) == nil {
			return "", projectNotFound(name)
		}
		return name, nil
	}
	restore := graph.Restore()
	if len(restore) == 0 {
		return "", projectmodel.ErrNoRestoreProject
	}
	return restore[0], nil
}

func projectNotFound(name string) error {
	return fmt.Errorf("project %q is not in the dependency graph", name)
}

func projectLabel(spec *projectmodel.PackageSpec) string {
	if spec.RestoreMetadata != nil && spec.RestoreMetadata.ProjectUniqueName != "" {
		return spec.RestoreMetadata.ProjectUniqueName
	}
	return spec.Name
}

func invalidLevel(s string) error {
	return fmt.Errorf("invalid log level %q", s)
}
