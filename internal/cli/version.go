package cli

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"mapper-generator/internal/mapping"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "mapper-generator %s (%s, %s)\n",
				displayVersion(Version), runtime.Version(), "mapper.yaml "+mapping.SupportedVersions)

			return nil
		},
	}
}

// displayVersion normalises a release version to "vMAJOR.MINOR.PATCH" and
// leaves development builds alone.
func displayVersion(v string) string {
	parsed, err := semver.NewVersion(v)
	if err != nil {
		return v
	}

	return "v" + parsed.String()
}
