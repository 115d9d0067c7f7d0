package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mapper-generator/internal/gen"
)

// GenOptions holds the flags of the gen command.
type GenOptions struct {
	DryRun bool
	Watch  bool
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{}

	cmd := &cobra.Command{
		Use:   "gen [patterns...]",
		Short: "Generate mapper implementations",
		Long: `Load the packages matching the patterns (default ".") and write one
<contract>_gen.go file next to every contract found.

Contracts that fail configuration or strict checks are reported and skipped;
the other contracts are still generated.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd, rootOpts, opts, patternsOrDefault(args))
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print generated files instead of writing them")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "regenerate whenever Go files change")

	return cmd
}

func runGen(cmd *cobra.Command, rootOpts *RootOptions, opts *GenOptions, patterns []string) error {
	env, err := rootOpts.environment(cmd)
	if err != nil {
		return err
	}

	defer func() { _ = env.logger.Sync() }()

	if !opts.Watch {
		return genOnce(cmd.Context(), cmd, env, opts, patterns)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	w, err := newWatcher(env.dir, env.emitter.Config().FileSuffix, env.logger)
	if err != nil {
		return exitError(ExitCommandError, "starting watcher", err)
	}

	return w.Run(ctx, func(ctx context.Context) error {
		return genOnce(ctx, cmd, env, opts, patterns)
	})
}

func genOnce(ctx context.Context, cmd *cobra.Command, env *environment, opts *GenOptions, patterns []string) error {
	out := cmd.OutOrStdout()

	var (
		sink  gen.Sink
		files = gen.NewFileSink(env.fs, env.dir)
		mem   = gen.NewMemorySink()
	)

	if opts.DryRun {
		sink = mem
	} else {
		sink = files
	}

	report, err := env.round(ctx, patterns, sink)
	if err != nil {
		return err
	}

	if opts.DryRun {
		for _, u := range mem.Units() {
			fmt.Fprintf(out, "%s %s\n", pterm.Gray("==>"), files.Path(u))
			_, _ = out.Write(u.Source)
		}
	} else {
		for _, path := range files.Written() {
			env.logger.Debug("wrote file", zap.String("path", path))
		}
	}

	verb := "file(s) written"
	if opts.DryRun {
		verb = "file(s) generated"
	}

	return env.finish(out, report, verb)
}
