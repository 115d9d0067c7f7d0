// Package cli implements the mapper-generator commands.
package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/gen"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/round"
)

// Version is the tool version, set at build time with -ldflags "-X".
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	JSONLogs   bool
	ConfigPath string // mapper.yaml; defaults to <dir>/mapper.yaml when present
	Dir        string // directory patterns are resolved against

	fs afero.Fs // output and settings file system; the OS when nil
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mapper-generator",
		Short: "Generate field-copying mappers from Go interfaces",
		Long: `mapper-generator implements mapper contracts: interfaces marked with a
//mapper:contract directive whose methods each take one struct and return
another. Every generated method copies the fields the two structs share by name.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging and info diagnostics")
	cmd.PersistentFlags().BoolVar(&opts.JSONLogs, "json-logs", false, "log as JSON")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to "+mapping.DefaultFileName)
	cmd.PersistentFlags().StringVarP(&opts.Dir, "dir", "C", ".", "directory to resolve package patterns against")

	cmd.AddCommand(NewGenCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

func (o *RootOptions) filesystem() afero.Fs {
	if o.fs == nil {
		return afero.NewOsFs()
	}

	return o.fs
}

// environment is everything a round needs, derived from the options.
type environment struct {
	fs        afero.Fs
	dir       string
	settings  *Settings
	overrides *mapping.File
	emitter   *gen.Emitter
	logger    *zap.Logger
}

func (o *RootOptions) environment(cmd *cobra.Command) (*environment, error) {
	fs := o.filesystem()

	dir := o.Dir
	if dir == "" {
		dir = "."
	}

	configPath := o.ConfigPath
	if configPath == "" {
		candidate := filepath.Join(dir, mapping.DefaultFileName)
		if ok, _ := afero.Exists(fs, candidate); ok {
			configPath = candidate
		}
	}

	settings, err := LoadSettings(fs, configPath, cmd.Flags())
	if err != nil {
		return nil, exitError(ExitCommandError, "loading settings", err)
	}

	settings.Verbose = settings.Verbose || o.Verbose
	settings.JSONLogs = settings.JSONLogs || o.JSONLogs

	overrides, err := loadOverrides(fs, configPath)
	if err != nil {
		return nil, exitError(ExitCommandError, "loading overrides", err)
	}

	cfg, err := settings.EmitterConfig()
	if err != nil {
		return nil, exitError(ExitCommandError, "invalid generator settings", err)
	}

	return &environment{
		fs:        fs,
		dir:       dir,
		settings:  settings,
		overrides: overrides,
		emitter:   gen.NewEmitter(cfg),
		logger:    NewLogger(cmd.ErrOrStderr(), settings.Verbose, settings.JSONLogs),
	}, nil
}

// round loads the packages matching patterns and runs one round into sink.
func (e *environment) round(ctx context.Context, patterns []string, sink gen.Sink) (*round.Report, error) {
	loader := analyze.NewLoader(analyze.WithDir(e.dir), analyze.WithLogger(e.logger))

	if err := loader.Load(ctx, patterns...); err != nil {
		return nil, exitError(ExitCommandError, "loading packages", err)
	}

	orchestrator := round.NewOrchestrator(loader, sink,
		round.WithOverrides(e.overrides),
		round.WithEmitter(e.emitter),
		round.WithLogger(e.logger),
	)

	report, err := orchestrator.Run(ctx)
	if err != nil {
		return nil, exitError(ExitCommandError, "running round", err)
	}

	return report, nil
}

// finish prints the outcome of a round and turns contract failures into an
// ExitError.
func (e *environment) finish(out io.Writer, report *round.Report, verb string) error {
	printDiagnostics(out, report.Diagnostics, e.settings.Verbose)
	printReport(out, report, verb)

	if report.Failed() {
		return exitError(ExitFailure, "generation failed", errors.Newf("%d contract(s) failed", len(report.Failures())))
	}

	return nil
}

func patternsOrDefault(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}

	return args
}
