package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brainctl/brainctl/internal/api"
	"github.com/brainctl/brainctl/internal/config"
	"github.com/brainctl/brainctl/internal/version"
)

var (
	flagConfigureKey  string
	flagConfigureShow bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store an access key in the current profile",
	Long:  "Validate an access key against the server and save it, with the username it belongs to, in the selected profile. The profile becomes the active one.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, s, err := resolveSettings()
		if err != nil {
			return fail(err)
		}

		key := flagConfigureKey
		if key == "" {
			fmt.Fprintf(os.Stdout, "Find your access key at %s/accounts/settings/key\n", s.URL)
			fmt.Fprint(os.Stdout, "Access key: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fail(fmt.Errorf("reading access key: %w", err))
			}
			key = strings.TrimSpace(line)
		}
		if key == "" {
			fmt.Fprintln(os.Stderr, "Error: no access key given")
			exitCode = ExitUsageError
			return nil
		}

		// Validate before persisting anything.
		probe := *s
		probe.AccessKey = key
		client, err := api.New(&probe, version.Version, flagTimeout)
		if err != nil {
			return fail(err)
		}
		username, err := client.Validate(cmd.Context())
		if err != nil {
			return fail(err)
		}

		fields := map[string]string{
			config.KeyAccessKey: key,
			config.KeyUsername:  username,
		}
		if flagURL != "" {
			fields[config.KeyURL] = flagURL
		}
		if err := store.SetProfile(s.Profile, fields); err != nil {
			return fail(err)
		}
		if err := store.Activate(s.Profile); err != nil {
			return fail(err)
		}

		fmt.Fprintf(os.Stdout, "Access key validated for %q; profile %q saved to %s\n",
			username, s.Profile, store.Path())

		if flagConfigureShow {
			resolved := store.Resolve(s.Profile, settingsOverrides(), config.EnvSettings())
			return writeDoc(resolved, settingsView(resolved))
		}
		return nil
	},
}

func init() {
	configureCmd.Flags().StringVar(&flagConfigureKey, "key", "", "Access key (prompted for when omitted)")
	configureCmd.Flags().BoolVar(&flagConfigureShow, "show", false, "Print the effective settings after saving")
}
