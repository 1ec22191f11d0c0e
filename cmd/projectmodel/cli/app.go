// Package cli holds the root command and the settings shared by every
// subcommand.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/config"
	"github.com/willibrandon/projectmodel/cmd/projectmodel/output"
	"github.com/willibrandon/projectmodel/observability"
	"github.com/willibrandon/projectmodel/projectmodel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Console is the global console for CLI commands
var Console *output.Console

var rootCmd = NewRootCommand()

// Session is what the root command sets up before a subcommand runs.
type Session struct {
	Settings *config.ToolConfig
	Metrics  string
	provider *sdktrace.TracerProvider
	span     trace.Span
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	Console = output.DefaultConsole()
}

// NewRootCommand creates the root command with the persistent flags every
// subcommand understands.
func NewRootCommand() *cobra.Command {
	session := &Session{}

	cmd := &cobra.Command{
		Use:   "projectmodel",
		Short: "Inspect and rewrite NuGet restore documents",
		Long: `projectmodel reads, checks and rewrites the documents NuGet restore
produces and consumes: project specs, dependency graph specs, assets files,
packages lock files and no-op cache files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			// Show help when no command is provided
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return session.start(cmd, args)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return session.finish(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Settings file (.yaml, .yml or .toml); searched upward from the working directory when omitted")
	flags.StringP("verbosity", "v", "", "Verbosity level: q[uiet], n[ormal], d[etailed], or diag[nostic]")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("metrics", "", "Write Prometheus metrics to this file when the command finishes")
	flags.String("trace", "", "Span exporter: none, stdout, or otlp")
	flags.String("trace-endpoint", "", "OTLP collector endpoint")

	return cmd
}

func (s *Session) start(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindToolConfig(wd)
		}
	}
	s.Settings = &config.ToolConfig{}
	if path != "" {
		settings, err := config.LoadToolConfig(path)
		if err != nil {
			return err
		}
		s.Settings = settings
	}

	verbosity := s.Settings.Verbosity
	if flags.Changed("verbosity") {
		verbosity, _ = flags.GetString("verbosity")
	}
	v, ok := output.ParseVerbosity(verbosity)
	if !ok {
		return fmt.Errorf("invalid verbosity %q", verbosity)
	}
	Console.SetVerbosity(v)

	if noColor, _ := flags.GetBool("no-color"); noColor || (s.Settings.Color != nil && !*s.Settings.Color) {
		Console.SetColors(false)
	}

	if s.Settings.LegacyHash {
		if err := os.Setenv(projectmodel.LegacyHashEnv, "true"); err != nil {
			return err
		}
	}

	s.Metrics = s.Settings.Metrics
	if flags.Changed("metrics") {
		s.Metrics, _ = flags.GetString("metrics")
	}

	tracing := observability.DefaultTracingConfig()
	tracing.Version = Version
	tracing.Output = Console.Err()
	if s.Settings.Tracing.Exporter != "" {
		tracing.Exporter = s.Settings.Tracing.Exporter
	}
	if s.Settings.Tracing.Endpoint != "" {
		tracing.Endpoint = s.Settings.Tracing.Endpoint
	}
	if s.Settings.Tracing.SamplingRate > 0 {
		tracing.SamplingRate = s.Settings.Tracing.SamplingRate
	}
	if flags.Changed("trace") {
		tracing.Exporter, _ = flags.GetString("trace")
	}
	if flags.Changed("trace-endpoint") {
		tracing.Endpoint, _ = flags.GetString("trace-endpoint")
	}
	provider, err := observability.SetupTracing(cmd.Context(), tracing)
	if err != nil {
		return err
	}
	s.provider = provider

	ctx, span := observability.StartCommandSpan(cmd.Context(), cmd.CommandPath(), args)
	cmd.SetContext(ctx)
	s.span = span
	return nil
}

func (s *Session) finish(cmd *cobra.Command) error {
	var errs []error
	if s.span != nil {
		s.span.End()
	}
	if s.provider != nil {
		errs = append(errs, observability.ShutdownTracing(cmd.Context(), s.provider))
	}
	if s.Metrics != "" {
		errs = append(errs, observability.WriteMetricsFile(s.Metrics))
	}
	return errors.Join(errs...)
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
