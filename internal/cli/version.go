package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brainctl/brainctl/internal/version"
)

var flagVersionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print brainctl version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stdout, "brainctl version %s\n", version.Version)

		if !flagVersionCheck {
			return nil
		}
		latest, newer, err := version.CheckLatest(cmd.Context(), version.DefaultIndexURL)
		if err != nil {
			return fail(fmt.Errorf("release check: %w", err))
		}
		if newer {
			fmt.Fprintf(os.Stdout, "A newer release is available: %s\n", latest)
		} else {
			fmt.Fprintln(os.Stdout, "You are running the latest release")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&flagVersionCheck, "check", false, "Check the release index for a newer version")
}
