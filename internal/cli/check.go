package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mapper-generator/internal/gen"
)

// StaleFile is a generated file that does not match a fresh rendering.
type StaleFile struct {
	Path    string
	Missing bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [patterns...]",
		Short: "Check that generated files are up to date",
		Long: `Generate every contract in memory and compare the result with the files on
disk. The tool/version/timestamp line of the generation marker is ignored.

Exit codes:
  0 - all files up to date
  1 - stale or missing files, or failed contracts
  2 - error during check`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, rootOpts, patternsOrDefault(args))
		},
	}

	return cmd
}

func runCheck(cmd *cobra.Command, rootOpts *RootOptions, patterns []string) error {
	env, err := rootOpts.environment(cmd)
	if err != nil {
		return err
	}

	defer func() { _ = env.logger.Sync() }()

	out := cmd.OutOrStdout()
	mem := gen.NewMemorySink()

	report, err := env.round(cmd.Context(), patterns, mem)
	if err != nil {
		return err
	}

	stale, err := staleFiles(env.fs, gen.NewFileSink(env.fs, env.dir), mem.Units())
	if err != nil {
		return exitError(ExitCommandError, "comparing generated files", err)
	}

	printStale(out, stale)

	if err := env.finish(out, report, "file(s) checked"); err != nil {
		return err
	}

	if len(stale) > 0 {
		return exitError(ExitFailure, "generated files are out of date",
			errors.WithHint(errors.Newf("%d stale file(s)", len(stale)), "run mapper-generator gen"))
	}

	return nil
}

// staleFiles compares each unit with the file it would be written to.
func staleFiles(fs afero.Fs, paths *gen.FileSink, units []gen.Unit) ([]StaleFile, error) {
	var stale []StaleFile

	for _, u := range units {
		path := paths.Path(u)

		data, err := afero.ReadFile(fs, path)
		if errors.Is(err, os.ErrNotExist) {
			stale = append(stale, StaleFile{Path: path, Missing: true})
			continue
		}

		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}

		if !bytes.Equal(gen.StripMarker(data), gen.StripMarker(u.Source)) {
			stale = append(stale, StaleFile{Path: path})
		}
	}

	return stale, nil
}

func printStale(w io.Writer, stale []StaleFile) {
	for _, s := range stale {
		state := "differs"
		if s.Missing {
			state = "missing"
		}

		fmt.Fprintf(w, "%s %s (%s)\n", pterm.Yellow("stale"), s.Path, state)
	}
}
