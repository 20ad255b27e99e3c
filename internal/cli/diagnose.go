package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brainctl/brainctl/internal/api"
	"github.com/brainctl/brainctl/internal/config"
	"github.com/brainctl/brainctl/internal/version"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check the local configuration and server reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := false
		check := func(ok bool, format string, a ...any) {
			mark := "ok  "
			if !ok {
				mark = "FAIL"
				failed = true
			}
			fmt.Fprintf(os.Stdout, "[%s] %s\n", mark, fmt.Sprintf(format, a...))
		}

		path, err := config.DefaultPath()
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stdout, "config file: %s\n", path)

		store, err := config.Load("")
		if err != nil {
			check(false, "config file could not be loaded: %v", err)
			exitCode = ExitRuntimeError
			return nil
		}
		check(true, "config file parses")

		s := store.Resolve(profileOverride(), settingsOverrides(), config.EnvSettings())
		names, active := store.ListProfiles()
		fmt.Fprintf(os.Stdout, "profiles: %d, active: %q, using: %q\n", len(names), active, s.Profile)

		for _, row := range settingsView(s).Settings {
			fmt.Fprintf(os.Stdout, "  %-13s %-30s %s\n", row.Key, row.Value, row.Source)
		}

		if len(s.Missing) > 0 {
			check(false, "unresolved required settings: %s", strings.Join(s.Missing, ", "))
		} else {
			check(true, "all required settings resolved")

			client, err := api.New(s, version.Version, flagTimeout)
			if err != nil {
				check(false, "building API client: %v", err)
			} else if username, err := client.Validate(cmd.Context()); err != nil {
				check(false, "server %s rejected the access key: %v", s.URL, err)
			} else {
				check(true, "server %s accepts the access key (user %s)", s.URL, username)
			}
		}

		latest, newer, err := version.CheckLatest(cmd.Context(), version.DefaultIndexURL)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stdout, "[warn] release check failed: %v\n", err)
		case newer:
			fmt.Fprintf(os.Stdout, "[warn] brainctl %s is available (running %s)\n", latest, version.Version)
		default:
			check(true, "brainctl %s is up to date", version.Version)
		}

		if failed {
			exitCode = ExitRuntimeError
		}
		return nil
	},
}
