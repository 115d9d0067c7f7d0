package cli

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"mapper-generator/internal/analyze"
	"mapper-generator/internal/mapping"
	"mapper-generator/internal/round"
	"mapper-generator/internal/schema"
)

// InitOptions holds the flags of the init command.
type InitOptions struct {
	Force bool
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{}

	cmd := &cobra.Command{
		Use:   "init [patterns...]",
		Short: "Write a " + mapping.DefaultFileName + " listing every contract found",
		Long: `Load the packages matching the patterns (default ".") and write a
` + mapping.DefaultFileName + ` with one entry per contract and method. The entries set
nothing, so the file changes no behaviour until it is edited.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, rootOpts, opts, patternsOrDefault(args))
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func runInit(cmd *cobra.Command, rootOpts *RootOptions, opts *InitOptions, patterns []string) error {
	envOpts := *rootOpts
	envOpts.ConfigPath = ""

	env, err := envOpts.environment(cmd)
	if err != nil {
		return err
	}

	path := rootOpts.ConfigPath
	if path == "" {
		path = filepath.Join(env.dir, mapping.DefaultFileName)
	}

	if exists, _ := afero.Exists(env.fs, path); exists && !opts.Force {
		return exitError(ExitCommandError, "refusing to overwrite",
			errors.WithHint(errors.Newf("%s already exists", path), "pass --force to replace it"))
	}

	loader := analyze.NewLoader(analyze.WithDir(env.dir), analyze.WithLogger(env.logger))
	if err := loader.Load(cmd.Context(), patterns...); err != nil {
		return exitError(ExitCommandError, "loading packages", err)
	}

	f, err := skeleton(loader, env.settings)
	if err != nil {
		return exitError(ExitCommandError, "listing contracts", err)
	}

	if err := mapping.WriteFile(env.fs, f, path); err != nil {
		return exitError(ExitCommandError, "writing "+path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s with %d contract(s)\n", pterm.Green("✓"), path, len(f.Contracts))

	return nil
}

// skeleton lists every interface contract with an empty entry per method.
func skeleton(introspector round.Introspector, settings *Settings) (*mapping.File, error) {
	contracts, err := introspector.ListContracts()
	if err != nil {
		return nil, err
	}

	f := &mapping.File{
		Version: "1",
		Generator: map[string]any{
			"suffix":      settings.Generator.Suffix,
			"file_suffix": settings.Generator.FileSuffix,
		},
	}

	for _, c := range contracts {
		if c.Kind != schema.TypeKindInterface {
			continue
		}

		methods, err := introspector.ListContractMethods(c.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "listing methods of %s", c.ID)
		}

		entry := mapping.ContractEntry{
			Contract: c.ID.String(),
			Methods:  make(map[string]mapping.MethodEntry, len(methods)),
		}

		for _, m := range methods {
			entry.Methods[m.Name] = mapping.MethodEntry{}
		}

		f.Contracts = append(f.Contracts, entry)
	}

	return f, nil
}
